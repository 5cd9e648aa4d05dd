package puzzle

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrGroupCount = errors.New("puzzle must have exactly 4 groups")
	ErrLevel      = errors.New("group levels must be 0..3, each used once")
	ErrMembers    = errors.New("each group must have exactly 4 non-empty members")
	ErrDate       = errors.New("puzzle date must be YYYY-MM-DD")
)

// Validate reports whether p can be played.
func (p Puzzle) Validate() error {
	if len(p.Groups) != GroupCount {
		return fmt.Errorf("puzzle %d: %w", p.ID, ErrGroupCount)
	}
	var seen [GroupCount]bool
	for _, g := range p.Groups {
		if g.Level < 0 || g.Level >= GroupCount || seen[g.Level] {
			return fmt.Errorf("puzzle %d: %w", p.ID, ErrLevel)
		}
		seen[g.Level] = true
		if len(g.Members) != GroupSize {
			return fmt.Errorf("puzzle %d level %d: %w", p.ID, g.Level, ErrMembers)
		}
		for _, m := range g.Members {
			if strings.TrimSpace(m) == "" {
				return fmt.Errorf("puzzle %d level %d: %w", p.ID, g.Level, ErrMembers)
			}
		}
	}
	if _, err := time.Parse(time.DateOnly, p.Date); err != nil {
		return fmt.Errorf("puzzle %d: %w", p.ID, ErrDate)
	}
	return nil
}

// Cells lays the puzzle out in group order (level 0 first). Callers shuffle.
func (p Puzzle) Cells() []Cell {
	groups := make([]AnswerGroup, len(p.Groups))
	copy(groups, p.Groups)
	sort.Slice(groups, func(i, j int) bool { return groups[i].Level < groups[j].Level })

	out := make([]Cell, 0, CellCount)
	for _, g := range groups {
		for i, w := range g.Members {
			out = append(out, Cell{ID: g.Level*GroupSize + i, GroupLevel: g.Level, Word: w})
		}
	}
	return out
}

// Group returns the answer group with the given level.
func (p Puzzle) Group(level int) (AnswerGroup, bool) {
	for _, g := range p.Groups {
		if g.Level == level {
			return g, true
		}
	}
	return AnswerGroup{}, false
}

// Time parses Date; zero time when malformed.
func (p Puzzle) Time() time.Time {
	t, _ := time.Parse(time.DateOnly, p.Date)
	return t
}

// Filter keeps the playable puzzles and returns the rejected ones' errors.
func Filter(list []Puzzle) ([]Puzzle, []error) {
	out := make([]Puzzle, 0, len(list))
	var errs []error
	for _, p := range list {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, p)
	}
	return out, errs
}
