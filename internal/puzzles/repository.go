// internal/puzzles/repository.go
//
// Puzzle list + per-player progress.
// Responsibilities:
//   - Load: cached list → refresh from the Source when missing or stale →
//     fall back to the cache, then the bundled list, with an advisory.
//   - Serve copies of the list with Completed set from a player's progress.
//   - Persist progress as a JSON array of puzzle ids.
//
// Notes:
//   - Staleness: the cache is refreshed once the latest cached puzzle is a
//     full TTL old, so a list fetched today is not refetched until tomorrow.
//   - Progress and cache writes are best effort for play: failures are
//     returned to the caller who decides whether to log or surface them.
package puzzles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/kv"
	"github.com/robalobadob/connections/internal/puzzle"
)

const (
	CacheKey    = "connections-puzzles"
	ProgressKey = "connections-progress"

	DefaultTTL = 24 * time.Hour
)

// ErrUnknownPuzzle is returned for an id that is not in the list.
var ErrUnknownPuzzle = errors.New("unknown puzzle")

// Origin of the list currently served.
const (
	OriginCache   = "cache"
	OriginBundled = "bundled"
)

// Repository serves the loaded puzzle list. Load must succeed before use.
type Repository struct {
	src Source
	kv  kv.Store
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	list     []puzzle.Puzzle // sorted by date, then id
	advisory string
	origin   string

	progressMu sync.Mutex // serialises read-modify-write of progress records
}

// Option configures a Repository.
type Option func(*Repository)

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) Option { return func(r *Repository) { r.ttl = d } }

// WithClock replaces time.Now for staleness checks.
func WithClock(now func() time.Time) Option { return func(r *Repository) { r.now = now } }

// NewRepository builds a repository. src may be nil to serve only the cache
// or the bundled list.
func NewRepository(src Source, store kv.Store, opts ...Option) *Repository {
	r := &Repository{src: src, kv: store, ttl: DefaultTTL, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Load (re)loads the puzzle list. It only fails when nothing, not even the
// bundled list, yields a playable puzzle.
func (r *Repository) Load(ctx context.Context) error {
	cached := r.readCache(ctx)
	list, origin, advisory := cached, OriginCache, ""

	if r.src != nil && (len(cached) == 0 || r.stale(cached)) {
		fetched, err := r.fetch(ctx)
		switch {
		case err == nil:
			list, origin = fetched, r.src.Name()
			if err := r.writeCache(ctx, fetched); err != nil {
				log.Warn().Err(err).Msg("cache puzzles")
			}
			log.Info().Str("source", origin).Int("puzzles", len(fetched)).Msg("fetched and cached puzzles")
		case len(cached) > 0:
			advisory = "Could not refresh puzzles, showing the saved list."
			log.Warn().Err(err).Str("source", r.src.Name()).Msg("refresh failed; using cached puzzles")
		default:
			advisory = "Could not load puzzles, showing the sample set."
			log.Warn().Err(err).Str("source", r.src.Name()).Msg("fetch failed; falling back to bundled puzzles")
		}
	}

	if len(list) == 0 {
		bundled, err := Bundled()
		if err != nil {
			return err
		}
		list = filter(bundled, OriginBundled)
		if len(list) == 0 {
			return fmt.Errorf("%w: bundled list has no playable puzzles", ErrParse)
		}
		origin = OriginBundled
	}

	r.mu.Lock()
	r.list, r.origin, r.advisory = list, origin, advisory
	r.mu.Unlock()
	return nil
}

// Advisory is the non-fatal message set by the last Load, empty when the
// list came from where it was expected to.
func (r *Repository) Advisory() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.advisory
}

// Origin names where the served list came from: a source name, "cache" or "bundled".
func (r *Repository) Origin() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.origin
}

// Puzzles returns the list with Completed set for owner.
func (r *Repository) Puzzles(ctx context.Context, owner string) ([]puzzle.Puzzle, error) {
	done, err := r.Progress(ctx, owner)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]puzzle.Puzzle, len(r.list))
	for i, p := range r.list {
		p.Completed = slices.Contains(done, p.ID)
		out[i] = p
	}
	return out, nil
}

// Get returns one puzzle by id.
func (r *Repository) Get(ctx context.Context, owner string, id int) (puzzle.Puzzle, error) {
	return r.pick(ctx, owner, func(list []puzzle.Puzzle) int {
		return slices.IndexFunc(list, func(p puzzle.Puzzle) bool { return p.ID == id })
	})
}

// Latest returns the most recent puzzle.
func (r *Repository) Latest(ctx context.Context, owner string) (puzzle.Puzzle, error) {
	return r.pick(ctx, owner, func(list []puzzle.Puzzle) int { return len(list) - 1 })
}

// Random returns a uniformly chosen puzzle.
func (r *Repository) Random(ctx context.Context, owner string) (puzzle.Puzzle, error) {
	return r.pick(ctx, owner, func(list []puzzle.Puzzle) int {
		if len(list) == 0 {
			return -1
		}
		return rand.IntN(len(list))
	})
}

func (r *Repository) pick(ctx context.Context, owner string, index func([]puzzle.Puzzle) int) (puzzle.Puzzle, error) {
	list, err := r.Puzzles(ctx, owner)
	if err != nil {
		return puzzle.Puzzle{}, err
	}
	i := index(list)
	if i < 0 || i >= len(list) {
		return puzzle.Puzzle{}, ErrUnknownPuzzle
	}
	return list[i], nil
}

// MarkCompleted records a solved puzzle for owner.
func (r *Repository) MarkCompleted(ctx context.Context, owner string, id int) error {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()

	done, err := r.Progress(ctx, owner)
	if err != nil {
		return err
	}
	if slices.Contains(done, id) {
		return nil
	}
	done = append(done, id)
	slices.Sort(done)
	b, err := json.Marshal(done)
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, progressKey(owner), b)
}

// ClearProgress forgets every completed puzzle for owner.
func (r *Repository) ClearProgress(ctx context.Context, owner string) error {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	return r.kv.Delete(ctx, progressKey(owner))
}

// Progress returns the completed puzzle ids for owner. A corrupt record
// reads as no progress.
func (r *Repository) Progress(ctx context.Context, owner string) ([]int, error) {
	b, err := r.kv.Get(ctx, progressKey(owner))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []int
	if err := json.Unmarshal(b, &ids); err != nil {
		log.Warn().Err(err).Str("owner", owner).Msg("discarding unreadable progress")
		return nil, nil
	}
	return ids, nil
}

func progressKey(owner string) string {
	if owner == "" {
		return ProgressKey
	}
	return ProgressKey + ":" + owner
}

// ------------------------------ internals ----------------------------------

func (r *Repository) fetch(ctx context.Context) ([]puzzle.Puzzle, error) {
	raw, err := r.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	list := filter(raw, r.src.Name())
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no playable puzzles from %s", ErrParse, r.src.Name())
	}
	return list, nil
}

func (r *Repository) stale(list []puzzle.Puzzle) bool {
	latest := list[len(list)-1].Time()
	return r.now().Sub(latest) >= r.ttl
}

// readCache returns the cached list, or nil when absent or unreadable.
func (r *Repository) readCache(ctx context.Context) []puzzle.Puzzle {
	b, err := r.kv.Get(ctx, CacheKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warn().Err(err).Msg("read puzzle cache")
		}
		return nil
	}
	list, err := decode(b)
	if err != nil {
		log.Warn().Err(err).Msg("discarding unreadable puzzle cache")
		return nil
	}
	return filter(list, OriginCache)
}

func (r *Repository) writeCache(ctx context.Context, list []puzzle.Puzzle) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, CacheKey, b)
}

// filter drops unplayable puzzles, clears Completed and orders by date.
func filter(list []puzzle.Puzzle, origin string) []puzzle.Puzzle {
	ok, errs := puzzle.Filter(list)
	for _, err := range errs {
		log.Warn().Err(err).Str("origin", origin).Msg("skipping puzzle")
	}
	for i := range ok {
		ok[i].Completed = false
	}
	slices.SortStableFunc(ok, func(a, b puzzle.Puzzle) int {
		if c := a.Time().Compare(b.Time()); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
	return ok
}
