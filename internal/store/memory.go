// internal/store/memory.go
//
// In-memory round storage, one active round per player.
//
// Characteristics:
//   - *round.Round values keyed by player id in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Rounds are lost when the process restarts.
//   - Get returns ErrNotFound for a player without a round.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/connections/internal/round"
)

// ErrNotFound is returned by Get when the player has no round.
var ErrNotFound = errors.New("round not found")

// Store holds the active round of each player.
type Store interface {
	// Save replaces the player's round.
	Save(ctx context.Context, player string, r *round.Round) error

	// Get returns the player's round or ErrNotFound.
	Get(ctx context.Context, player string) (*round.Round, error)

	// Delete drops the player's round; missing rounds are not an error.
	Delete(ctx context.Context, player string) error
}

type memory struct {
	mu     sync.RWMutex
	rounds map[string]*round.Round // keyed by player id
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]*round.Round)}
}

func (m *memory) Save(_ context.Context, player string, r *round.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[player] = r
	return nil
}

func (m *memory) Get(_ context.Context, player string) (*round.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[player]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(_ context.Context, player string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rounds, player)
	return nil
}
