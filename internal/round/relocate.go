package round

import (
	"slices"

	"github.com/robalobadob/connections/internal/puzzle"
)

// relocate returns a copy of cells with every cell of level moved into the
// first GroupSize slots. Group cells outside those slots are visited in
// ascending index order and each is swapped with the first slot holding a
// cell of another group, so the rest of the layout stays deterministic.
func relocate(cells []puzzle.Cell, level int) []puzzle.Cell {
	out := slices.Clone(cells)
	var from []int
	for i, c := range out {
		if c.GroupLevel == level && i >= puzzle.GroupSize {
			from = append(from, i)
		}
	}
	for _, f := range from {
		to := slices.IndexFunc(out, func(c puzzle.Cell) bool { return c.GroupLevel != level })
		out[f], out[to] = out[to], out[f]
	}
	return out
}
