package round

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/connections/internal/puzzle"
)

func cellsOf(levels ...int) []puzzle.Cell {
	out := make([]puzzle.Cell, len(levels))
	for i, l := range levels {
		out[i] = puzzle.Cell{ID: i, GroupLevel: l}
	}
	return out
}

func levelsOf(cells []puzzle.Cell) []int {
	out := make([]int, len(cells))
	for i, c := range cells {
		out[i] = c.GroupLevel
	}
	return out
}

func TestRelocate(t *testing.T) {
	tests := []struct {
		name   string
		in     []int
		level  int
		want   []int
		wantID []int
	}{
		{
			name:   "already in place",
			in:     []int{2, 2, 2, 2, 0, 1, 3, 0},
			level:  2,
			want:   []int{2, 2, 2, 2, 0, 1, 3, 0},
			wantID: []int{0, 1, 2, 3, 4, 5, 6, 7},
		},
		{
			name:   "scattered",
			in:     []int{0, 1, 1, 0, 1, 2, 1, 3},
			level:  1,
			want:   []int{1, 1, 1, 1, 0, 2, 0, 3},
			wantID: []int{4, 1, 2, 6, 0, 5, 3, 7},
		},
		{
			name:   "all at the end",
			in:     []int{3, 3, 0, 0, 2, 2, 2, 2},
			level:  2,
			want:   []int{2, 2, 2, 2, 3, 3, 0, 0},
			wantID: []int{4, 5, 6, 7, 0, 1, 2, 3},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := cellsOf(tc.in...)
			got := relocate(in, tc.level)
			if diff := cmp.Diff(tc.want, levelsOf(got)); diff != "" {
				t.Fatalf("levels (-want +got):\n%s", diff)
			}
			var ids []int
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			if diff := cmp.Diff(tc.wantID, ids); diff != "" {
				t.Fatalf("ids (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.in, levelsOf(in)); diff != "" {
				t.Fatalf("input mutated (-want +got):\n%s", diff)
			}
		})
	}
}
