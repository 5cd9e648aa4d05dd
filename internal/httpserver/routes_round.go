// internal/httpserver/routes_round.go
//
// Round play for the session's player (one active round each):
//   - POST /round/new      → start latest / random / daily / a given puzzle
//   - POST /round/reset    → restart the current puzzle
//   - GET  /round          → current state
//   - POST /round/select   → toggle a cell
//   - POST /round/deselect → clear the selection
//   - POST /round/shuffle  → reorder remaining cells
//   - POST /round/submit   → judge the selection (blocks through the reveal sequence)
//   - GET  /round/summary  → end-of-round report
//
// Mutations answer {"applied":bool,"state":...}. A rejected operation is
// applied=false with 200; only a missing round or bad input is an error.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/daily"
	"github.com/robalobadob/connections/internal/puzzle"
	"github.com/robalobadob/connections/internal/puzzles"
	"github.com/robalobadob/connections/internal/round"
	"github.com/robalobadob/connections/internal/store"
)

// Round start modes.
const (
	modeLatest = "latest"
	modeRandom = "random"
	modeDaily  = "daily"
)

type newRoundReq struct {
	Mode     string `json:"mode"`     // "latest" (default) | "random" | "daily"
	PuzzleID int    `json:"puzzleId"` // overrides mode when set
}

type selectReq struct {
	CellID *int `json:"cellId"`
}

type roundRes struct {
	Applied bool        `json:"applied"`
	State   round.State `json:"state"`
}

func (s *Server) mountRound(r chi.Router) {
	r.Post("/round/new", s.handleNewRound)
	r.Post("/round/reset", s.handleReset)
	r.Get("/round", s.handleState)
	r.Post("/round/select", s.handleSelect)
	r.Post("/round/deselect", s.mutate(func(rd *round.Round) bool { return rd.Deselect() }))
	r.Post("/round/shuffle", s.mutate(func(rd *round.Round) bool { return rd.Reshuffle() }))
	r.Post("/round/submit", s.mutate(func(rd *round.Round) bool { return rd.Submit() }))
	r.Get("/round/summary", s.handleSummary)
}

// handleNewRound replaces the player's round with a fresh one.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	_ = json.NewDecoder(r.Body).Decode(&req) // empty body means latest

	ctx, player := r.Context(), playerFrom(r.Context())
	p, err := s.choosePuzzle(ctx, player, req)
	switch {
	case errors.Is(err, errBadMode):
		http.Error(w, `{"error":"bad_mode"}`, http.StatusBadRequest)
		return
	case errors.Is(err, puzzles.ErrUnknownPuzzle):
		http.Error(w, `{"error":"unknown_puzzle"}`, http.StatusNotFound)
		return
	case err != nil:
		log.Error().Err(err).Str("player", player).Msg("choose puzzle")
		http.Error(w, `{"error":"puzzles_unavailable"}`, http.StatusInternalServerError)
		return
	}

	rd := s.startRound(ctx, player, p)
	writeJSON(w, http.StatusOK, roundRes{Applied: true, State: rd.Snapshot()})
}

// handleReset restarts the current puzzle; the grid comes back in its
// original seeded order.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx, player := r.Context(), playerFrom(r.Context())
	cur, ok := s.current(w, r)
	if !ok {
		return
	}
	if ph := cur.Phase(); ph == round.PhaseSubmitting || ph == round.PhaseRevealing {
		writeJSON(w, http.StatusOK, roundRes{Applied: false, State: cur.Snapshot()})
		return
	}
	rd := s.startRound(ctx, player, cur.Puzzle())
	writeJSON(w, http.StatusOK, roundRes{Applied: true, State: rd.Snapshot()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.current(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rd.Snapshot())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CellID == nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	rd, ok := s.current(w, r)
	if !ok {
		return
	}
	applied := rd.Toggle(*req.CellID)
	writeJSON(w, http.StatusOK, roundRes{Applied: applied, State: rd.Snapshot()})
}

// mutate adapts a no-argument round operation to a handler.
func (s *Server) mutate(op func(*round.Round) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rd, ok := s.current(w, r)
		if !ok {
			return
		}
		applied := op(rd)
		writeJSON(w, http.StatusOK, roundRes{Applied: applied, State: rd.Snapshot()})
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.current(w, r)
	if !ok {
		return
	}
	sum, done := round.Summarize(rd.Snapshot())
	if !done {
		http.Error(w, `{"error":"round_in_progress"}`, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// ------------------------------ helpers ------------------------------------

var errBadMode = errors.New("bad mode")

func (s *Server) choosePuzzle(ctx context.Context, player string, req newRoundReq) (puzzle.Puzzle, error) {
	if req.PuzzleID != 0 {
		return s.repo.Get(ctx, player, req.PuzzleID)
	}
	switch req.Mode {
	case "", modeLatest:
		return s.repo.Latest(ctx, player)
	case modeRandom:
		return s.repo.Random(ctx, player)
	case modeDaily:
		list, err := s.repo.Puzzles(ctx, player)
		if err != nil {
			return puzzle.Puzzle{}, err
		}
		p, ok := daily.Pick(list, s.now(), s.salt)
		if !ok {
			return puzzle.Puzzle{}, puzzles.ErrUnknownPuzzle
		}
		return p, nil
	default:
		return puzzle.Puzzle{}, errBadMode
	}
}

// startRound creates and stores a round whose events go to the player's
// streams; a won round marks the puzzle completed.
func (s *Server) startRound(ctx context.Context, player string, p puzzle.Puzzle) *round.Round {
	listener := func(e round.Event) {
		s.hub.Publish(player, e)
		if e.Kind != round.EventGameOver || e.Outcome == nil || !e.Outcome.Won {
			return
		}
		// The request context may already be done once the reveal chain ends.
		if err := s.repo.MarkCompleted(context.Background(), player, p.ID); err != nil {
			log.Warn().Err(err).Str("player", player).Int("puzzle", p.ID).Msg("mark completed")
		}
	}
	rd := round.New(p, round.WithTimings(s.timings), round.WithClock(s.now), round.WithListener(listener))
	if err := s.store.Save(ctx, player, rd); err != nil {
		log.Warn().Err(err).Str("player", player).Msg("save round")
	}
	log.Info().Str("player", player).Int("puzzle", p.ID).Str("round", rd.ID()).Msg("round started")
	return rd
}

// current loads the player's round or writes 404.
func (s *Server) current(w http.ResponseWriter, r *http.Request) (*round.Round, bool) {
	rd, err := s.store.Get(r.Context(), playerFrom(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"no_round"}`, http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Msg("load round")
		http.Error(w, `{"error":"load_failed"}`, http.StatusInternalServerError)
		return nil, false
	}
	return rd, true
}
