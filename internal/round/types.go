// internal/round/types.go
//
// Core type definitions for the round state machine.
// Defines:
//   - Phase:  coarse lifecycle position (idle → selecting → submitting/revealing → game over).
//   - Guess:  an immutable snapshot of four submitted cells.
//   - Event:  notifications emitted at transition boundaries for the presentation layer.
//   - State:  a copy-out view of a round, safe to serialise.

package round

import (
	"fmt"

	"github.com/robalobadob/connections/internal/puzzle"
)

// MaxMistakes ends the round as a loss once reached.
const MaxMistakes = 4

// Phase is the lifecycle position of a round.
type Phase int

const (
	PhaseIdle       Phase = iota // nothing loaded (zero Round)
	PhaseSelecting               // accepting selection changes and submissions
	PhaseSubmitting              // a guess is being judged/animated
	PhaseRevealing               // a group is moving to the solved rows
	PhaseGameOver                // terminal
)

var phaseNames = [...]string{"idle", "selecting", "submitting", "revealing", "game_over"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText renders the phase name in JSON.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// CellRef is the part of a cell kept in guess history.
type CellRef struct {
	ID         int `json:"id"`
	GroupLevel int `json:"groupLevel"`
}

// Guess is one submitted selection, in ascending id order.
type Guess [puzzle.GroupSize]CellRef

// IDs returns the cell ids of the guess.
func (g Guess) IDs() [puzzle.GroupSize]int {
	var out [puzzle.GroupSize]int
	for i, c := range g {
		out[i] = c.ID
	}
	return out
}

// SameGroup reports whether all four cells share one level.
func (g Guess) SameGroup() bool {
	for _, c := range g[1:] {
		if c.GroupLevel != g[0].GroupLevel {
			return false
		}
	}
	return true
}

// EventKind names a transition boundary.
type EventKind string

const (
	EventGuessJudged    EventKind = "guess_judged"
	EventGroupRelocated EventKind = "group_relocated"
	EventGroupRevealed  EventKind = "group_revealed"
	EventGameOver       EventKind = "game_over"
)

// Event is emitted to the round's listener. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind     EventKind      `json:"kind"`
	RoundID  string         `json:"roundId"`
	Guess    *Guess         `json:"guess,omitempty"`
	Correct  bool           `json:"correct"`
	Mistakes int            `json:"mistakes"`
	Level    int            `json:"level"`
	Group    *RevealedGroup `json:"group,omitempty"`
	Cells    []puzzle.Cell  `json:"cells,omitempty"`
	Outcome  *Outcome       `json:"outcome,omitempty"`
}

// Listener receives events in emission order.
type Listener func(Event)

// RevealedGroup is a solved (or auto-revealed) category.
type RevealedGroup struct {
	Level   int      `json:"level"`
	Label   string   `json:"label"`
	Members []string `json:"members"`
}

// Outcome is decided once, on entering PhaseGameOver.
type Outcome struct {
	Won            bool `json:"won"`
	Mistakes       int  `json:"mistakes"`
	Guesses        int  `json:"guesses"`
	SolvedGroups   int  `json:"solvedGroups"` // groups found by the player, not auto-revealed
	ElapsedSeconds int  `json:"elapsedSeconds"`
}

// State is a point-in-time copy of a round.
type State struct {
	ID             string          `json:"id"`
	PuzzleID       int             `json:"puzzleId"`
	Date           string          `json:"date"`
	Phase          Phase           `json:"phase"`
	Cells          []puzzle.Cell   `json:"cells"`
	Selected       []int           `json:"selected"`
	History        []Guess         `json:"history"`
	Mistakes       int             `json:"mistakes"`
	MistakesLeft   int             `json:"mistakesLeft"`
	Revealed       []RevealedGroup `json:"revealed"`
	CanSubmit      bool            `json:"canSubmit"`
	ElapsedSeconds int             `json:"elapsedSeconds"`
	Outcome        *Outcome        `json:"outcome,omitempty"`
}
