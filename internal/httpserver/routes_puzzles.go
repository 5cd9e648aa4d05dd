// internal/httpserver/routes_puzzles.go
//
// Puzzle list + progress endpoints:
//   - GET  /puzzles        → list with the player's completion flags
//   - POST /progress/clear → forget the player's completed puzzles

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// puzzleEntry is a list row; answers stay server-side until played.
type puzzleEntry struct {
	ID        int    `json:"id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type puzzlesRes struct {
	Puzzles  []puzzleEntry `json:"puzzles"`
	Origin   string        `json:"origin"`
	Advisory string        `json:"advisory,omitempty"`
}

func (s *Server) mountPuzzles(r chi.Router) {
	r.Get("/puzzles", s.handlePuzzles)
	r.Post("/progress/clear", s.handleClearProgress)
}

func (s *Server) handlePuzzles(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.Puzzles(r.Context(), playerFrom(r.Context()))
	if err != nil {
		log.Error().Err(err).Msg("list puzzles")
		http.Error(w, `{"error":"progress_unavailable"}`, http.StatusInternalServerError)
		return
	}
	res := puzzlesRes{
		Puzzles:  make([]puzzleEntry, 0, len(list)),
		Origin:   s.repo.Origin(),
		Advisory: s.repo.Advisory(),
	}
	for _, p := range list {
		res.Puzzles = append(res.Puzzles, puzzleEntry{ID: p.ID, Date: p.Date, Completed: p.Completed})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleClearProgress(w http.ResponseWriter, r *http.Request) {
	player := playerFrom(r.Context())
	if err := s.repo.ClearProgress(r.Context(), player); err != nil {
		log.Error().Err(err).Str("player", player).Msg("clear progress")
		http.Error(w, `{"error":"clear_failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
