package store

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/connections/internal/puzzle"
	"github.com/robalobadob/connections/internal/round"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	first := round.New(puzzle.Puzzle{ID: 1})
	second := round.New(puzzle.Puzzle{ID: 2})
	_ = s.Save(ctx, "p1", first)
	_ = s.Save(ctx, "p2", second)
	_ = s.Save(ctx, "p1", second)

	got, err := s.Get(ctx, "p1")
	if err != nil || got != second {
		t.Fatalf("expected the replaced round, got %v (%v)", got, err)
	}

	_ = s.Delete(ctx, "p1")
	if _, err := s.Get(ctx, "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if got, _ := s.Get(ctx, "p2"); got != second {
		t.Fatal("delete removed another player's round")
	}
}
