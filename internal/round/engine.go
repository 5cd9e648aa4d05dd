// internal/round/engine.go
//
// Round state machine for a single Connections board.
// Responsibilities:
//   - Lay out the 16 cells (seeded by puzzle id so a reset reproduces the grid).
//   - Track selection (max 4, ascending ids) and reject duplicate guesses.
//   - Judge guesses, count mistakes, record history snapshots.
//   - Sequence group reveals: relocate to the first row → remove → show solved row.
//   - Detect game over; on a loss auto-reveal the remaining groups in grid order.
//
// Notes:
//   - Every operation either applies a transition or is a no-op returning false.
//   - Submit blocks through the whole timed chain; while it runs the phase is
//     Submitting/Revealing and all other mutations are rejected.
//   - Pauses run without the lock held so Snapshot stays responsive.
//   - Listeners are called outside the lock, in emission order.
package round

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/connections/internal/puzzle"
	"github.com/robalobadob/connections/internal/shuffle"
)

// Round holds the mutable state of one attempt at one puzzle.
type Round struct {
	mu sync.Mutex

	id     string
	puzzle puzzle.Puzzle

	cells    []puzzle.Cell // current grid order, unrevealed cells only
	selected []int         // ascending cell ids
	history  []Guess
	mistakes int
	revealed []int // levels in reveal order
	phase    Phase
	outcome  *Outcome

	startedAt time.Time
	endedAt   time.Time

	timings   Timings
	sleep     Sleeper
	now       func() time.Time
	listener  Listener
	reshuffle func([]puzzle.Cell) []puzzle.Cell
}

// Option configures a Round at construction.
type Option func(*Round)

// WithTimings overrides the transition pauses.
func WithTimings(t Timings) Option { return func(r *Round) { r.timings = t } }

// WithSleeper replaces time.Sleep for pauses.
func WithSleeper(s Sleeper) Option { return func(r *Round) { r.sleep = s } }

// WithClock replaces time.Now for the round timer.
func WithClock(now func() time.Time) Option { return func(r *Round) { r.now = now } }

// WithListener subscribes l to round events.
func WithListener(l Listener) Option { return func(r *Round) { r.listener = l } }

// WithShuffler replaces the unseeded shuffle used by Reshuffle.
func WithShuffler(f func([]puzzle.Cell) []puzzle.Cell) Option {
	return func(r *Round) { r.reshuffle = f }
}

// New starts a round in PhaseSelecting with the full grid and no selection.
func New(p puzzle.Puzzle, opts ...Option) *Round {
	r := &Round{
		id:        uuid.NewString(),
		puzzle:    p,
		phase:     PhaseSelecting,
		timings:   DefaultTimings(),
		sleep:     realSleep,
		now:       time.Now,
		reshuffle: shuffle.Shuffle[puzzle.Cell],
	}
	for _, o := range opts {
		o(r)
	}
	r.cells = shuffle.Seeded(p.Cells(), uint32(p.ID))
	r.startedAt = r.now()
	return r
}

// ID returns the round identifier.
func (r *Round) ID() string { return r.id }

// Puzzle returns the puzzle being played.
func (r *Round) Puzzle() puzzle.Puzzle { return r.puzzle }

// Phase returns the current phase.
func (r *Round) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Toggle selects or deselects a cell. Unknown cells, a full selection, or a
// busy round make it a no-op.
func (r *Round) Toggle(cellID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseSelecting || !r.hasCell(cellID) {
		return false
	}
	i, found := slices.BinarySearch(r.selected, cellID)
	switch {
	case found:
		r.selected = slices.Delete(r.selected, i, i+1)
	case len(r.selected) >= puzzle.GroupSize:
		return false
	default:
		r.selected = slices.Insert(r.selected, i, cellID)
	}
	return true
}

// Deselect clears the selection.
func (r *Round) Deselect() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseSelecting || len(r.selected) == 0 {
		return false
	}
	r.selected = nil
	return true
}

// Reshuffle reorders the remaining cells.
func (r *Round) Reshuffle() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseSelecting {
		return false
	}
	r.cells = r.reshuffle(r.cells)
	return true
}

// Submit judges the current selection and runs the transition chain to
// completion, including game over handling. It returns false, leaving the
// round untouched, when the selection is not exactly four cells, repeats an
// earlier guess, or the round is busy or over.
func (r *Round) Submit() bool {
	r.mu.Lock()
	if !r.canSubmitLocked() {
		r.mu.Unlock()
		return false
	}
	guess := r.guessLocked()
	r.history = append(r.history, guess)
	correct := guess.SameGroup()
	level := -1
	if correct {
		level = guess[0].GroupLevel
	} else {
		r.mistakes++
	}
	r.phase = PhaseSubmitting
	judged := Event{
		Kind:     EventGuessJudged,
		RoundID:  r.id,
		Guess:    &guess,
		Correct:  correct,
		Mistakes: r.mistakes,
		Level:    level,
	}
	r.mu.Unlock()
	r.emit(judged)

	r.sleep(r.timings.Confirm)
	if correct {
		r.reveal(level)
	} else {
		r.sleep(r.timings.Shake)
	}
	r.sleep(r.timings.Cooldown)

	r.mu.Lock()
	over := len(r.revealed) == puzzle.GroupCount || r.mistakes >= MaxMistakes
	if !over {
		r.phase = PhaseSelecting
	}
	r.mu.Unlock()

	if over {
		r.finish()
	}
	return true
}

// reveal moves a group to the first row, removes it from the grid and
// appends it to the revealed groups.
func (r *Round) reveal(level int) {
	r.mu.Lock()
	if !slices.ContainsFunc(r.cells, func(c puzzle.Cell) bool { return c.GroupLevel == level }) {
		r.mu.Unlock()
		return
	}
	r.phase = PhaseRevealing
	r.cells = relocate(r.cells, level)
	moved := Event{
		Kind:     EventGroupRelocated,
		RoundID:  r.id,
		Mistakes: r.mistakes,
		Level:    level,
		Cells:    slices.Clone(r.cells),
	}
	r.mu.Unlock()
	r.emit(moved)

	r.sleep(r.timings.Swap)
	r.sleep(r.timings.Settle)

	r.mu.Lock()
	r.cells = slices.DeleteFunc(r.cells, func(c puzzle.Cell) bool { return c.GroupLevel == level })
	r.revealed = append(r.revealed, level)
	r.selected = nil
	group := r.revealedGroup(level)
	shown := Event{
		Kind:     EventGroupRevealed,
		RoundID:  r.id,
		Mistakes: r.mistakes,
		Level:    level,
		Group:    &group,
	}
	r.mu.Unlock()
	r.emit(shown)

	r.sleep(r.timings.Entrance)
}

// finish enters game over. On a loss the remaining groups are revealed one
// at a time, always taking the group of the first cell in the grid.
func (r *Round) finish() {
	r.mu.Lock()
	won := r.mistakes < MaxMistakes
	r.endedAt = r.now()
	r.phase = PhaseRevealing
	if !won {
		r.selected = nil
	}
	r.mu.Unlock()

	for !won {
		r.mu.Lock()
		if len(r.cells) == 0 {
			r.mu.Unlock()
			break
		}
		next := r.cells[0].GroupLevel
		r.mu.Unlock()

		r.sleep(r.timings.RevealGap)
		r.reveal(next)
	}
	r.sleep(r.timings.Finale)

	r.mu.Lock()
	r.phase = PhaseGameOver
	r.outcome = &Outcome{
		Won:            won,
		Mistakes:       r.mistakes,
		Guesses:        len(r.history),
		SolvedGroups:   r.solvedLocked(),
		ElapsedSeconds: r.elapsedLocked(),
	}
	outcome := *r.outcome
	over := Event{Kind: EventGameOver, RoundID: r.id, Mistakes: r.mistakes, Level: -1, Outcome: &outcome}
	r.mu.Unlock()
	r.emit(over)
}

// Snapshot returns a copy of the round state.
func (r *Round) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := State{
		ID:             r.id,
		PuzzleID:       r.puzzle.ID,
		Date:           r.puzzle.Date,
		Phase:          r.phase,
		Cells:          append([]puzzle.Cell{}, r.cells...),
		Selected:       append([]int{}, r.selected...),
		History:        append([]Guess{}, r.history...),
		Mistakes:       r.mistakes,
		MistakesLeft:   MaxMistakes - r.mistakes,
		Revealed:       make([]RevealedGroup, 0, len(r.revealed)),
		CanSubmit:      r.canSubmitLocked(),
		ElapsedSeconds: r.elapsedLocked(),
	}
	for _, lvl := range r.revealed {
		s.Revealed = append(s.Revealed, r.revealedGroup(lvl))
	}
	if r.outcome != nil {
		o := *r.outcome
		s.Outcome = &o
	}
	return s
}

// canSubmitLocked: exactly four selected, idle for input, not guessed before.
func (r *Round) canSubmitLocked() bool {
	if r.phase != PhaseSelecting || len(r.selected) != puzzle.GroupSize {
		return false
	}
	ids := [puzzle.GroupSize]int(r.selected)
	for _, g := range r.history {
		if g.IDs() == ids {
			return false
		}
	}
	return true
}

// guessLocked snapshots the selected cells.
func (r *Round) guessLocked() Guess {
	var g Guess
	for i, id := range r.selected {
		idx := slices.IndexFunc(r.cells, func(c puzzle.Cell) bool { return c.ID == id })
		g[i] = CellRef{ID: id, GroupLevel: r.cells[idx].GroupLevel}
	}
	return g
}

func (r *Round) hasCell(id int) bool {
	return slices.ContainsFunc(r.cells, func(c puzzle.Cell) bool { return c.ID == id })
}

func (r *Round) revealedGroup(level int) RevealedGroup {
	g, _ := r.puzzle.Group(level)
	return RevealedGroup{Level: level, Label: g.Label, Members: append([]string{}, g.Members...)}
}

// solvedLocked counts groups found by the player.
func (r *Round) solvedLocked() int {
	n := 0
	for _, g := range r.history {
		if g.SameGroup() {
			n++
		}
	}
	return n
}

// elapsedLocked is whole seconds since start; the clock stops at game over.
func (r *Round) elapsedLocked() int {
	end := r.endedAt
	if end.IsZero() {
		end = r.now()
	}
	return int(end.Sub(r.startedAt) / time.Second)
}

func (r *Round) emit(e Event) {
	if r.listener != nil {
		r.listener(e)
	}
}
