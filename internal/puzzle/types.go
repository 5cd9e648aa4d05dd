// internal/puzzle/types.go
//
// Core type definitions for Connections puzzles.
// Defines:
//   - Puzzle:      one day's board of four answer groups.
//   - AnswerGroup: a hidden category and its four members.
//   - Cell:        one word tile on the grid.

package puzzle

const (
	// GroupCount is the number of hidden categories per puzzle.
	GroupCount = 4
	// GroupSize is the number of words in each category.
	GroupSize = 4
	// CellCount is the number of tiles on a fresh grid.
	CellCount = GroupCount * GroupSize
)

// Puzzle is a complete board. The JSON shape matches the public
// NYT-Connections-Answers feed.
type Puzzle struct {
	ID        int           `json:"id"`
	Date      string        `json:"date"`                // "YYYY-MM-DD"
	Groups    []AnswerGroup `json:"answers"`             // exactly GroupCount entries
	Completed bool          `json:"completed,omitempty"` // filled from progress, never from the feed
}

// AnswerGroup is one category. Level ranks difficulty from 0 (easiest)
// to 3 (hardest) and is unique within a puzzle.
type AnswerGroup struct {
	Level   int      `json:"level"`
	Label   string   `json:"group"`
	Members []string `json:"members"`
}

// Cell is a single word tile. ID is Level*GroupSize + index within the
// group, so a cell maps back to its group without a lookup table.
type Cell struct {
	ID         int    `json:"id"`
	GroupLevel int    `json:"groupLevel"`
	Word       string `json:"word"`
}
