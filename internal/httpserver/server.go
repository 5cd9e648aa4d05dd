// internal/httpserver/server.go
//
// HTTP server wiring for the Connections backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Player endpoints (anonymous session): puzzle list, progress, round play,
//     and the round event stream.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - POST /round/submit blocks for the whole reveal sequence (several
//     seconds on a loss), so the handler timeout is generous.
//   - The event stream is mounted outside the timeout group.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/robalobadob/connections/internal/puzzles"
	"github.com/robalobadob/connections/internal/round"
	"github.com/robalobadob/connections/internal/store"
)

// Options carries the settings the server needs from config.
type Options struct {
	ClientOrigin  string
	SessionSecret string
	SessionTTL    time.Duration
	Secure        bool          // production cookies
	Timings       round.Timings // round pacing
	DailySalt     string
	Now           func() time.Time // nil means time.Now
}

// Server bundles router, round store, puzzle repository and event hub.
type Server struct {
	r        *chi.Mux
	store    store.Store
	repo     *puzzles.Repository
	hub      *Hub
	sessions sessions
	timings  round.Timings
	salt     string
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, repo *puzzles.Repository, opt Options) *Server {
	now := opt.Now
	if now == nil {
		now = time.Now
	}
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		repo:  repo,
		hub:   NewHub(opt.ClientOrigin),
		sessions: sessions{
			secret: []byte(opt.SessionSecret),
			ttl:    opt.SessionTTL,
			secure: opt.Secure,
			now:    now,
		},
		timings: opt.Timings,
		salt:    opt.DailySalt,
		now:     now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)        // add X-Request-ID
	s.r.Use(chimw.RealIP)           // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)        // recover from panics
	s.r.Use(jsonContentType)        // default JSON responses
	s.r.Use(cors(opt.ClientOrigin)) // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"connections-go","endpoints":["/health","/puzzles","/round","POST /round/new","POST /round/select","POST /round/submit","/round/events"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Player endpoints: every request carries an anonymous session.
	s.r.Group(func(r chi.Router) {
		r.Use(s.sessions.withSession)

		// Event stream (long-lived; no handler timeout).
		r.Get("/round/events", s.handleEvents)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(30 * time.Second)) // bound handler time
			s.mountPuzzles(r)
			s.mountRound(r)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", sessionHeader)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ events -------------------------------------

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r, playerFrom(r.Context()))
}

// writeJSON encodes v with status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
