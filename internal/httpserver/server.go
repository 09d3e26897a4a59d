// internal/httpserver/server.go
//
// HTTP server wiring for the flycatch backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/difficulties".
//   - Session endpoints: one game session per player, addressed by an anonymous
//     cookie (or X-Player-ID header for non-browser clients).
//   - Live session stream over websocket: /session/ws.
//   - Optional ranking service: POST /scores, GET /rankings/{difficulty}.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled so the anonymous cookie works.
//   - The player cookie is an identifier, not authentication.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/robalobadob/flycatch/internal/game"
	"github.com/robalobadob/flycatch/internal/scoreboard"
	"github.com/robalobadob/flycatch/internal/session"
)

// Options configures optional parts of the server.
type Options struct {
	// ClientOrigin is the single origin allowed for credentialed CORS and websocket upgrades.
	ClientOrigin string
	// Scoreboard, when set, serves the ranking service from this process.
	Scoreboard    scoreboard.Store
	RankingsLimit int
}

// Server bundles the router and the per-player session manager.
type Server struct {
	r        *chi.Mux
	sessions *session.Manager
	origin   string
}

// New constructs a Server, installs middleware, and registers routes.
func New(sessions *session.Manager, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), sessions: sessions, origin: opts.ClientOrigin}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)   // one zerolog line per request
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(jsonContentType) // default JSON responses
	s.r.Use(cors(s.origin))  // credentials-friendly CORS

	// The websocket outlives any handler timeout.
	s.r.Get("/session/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"service": "flycatch",
				"endpoints": []string{
					"/health", "/difficulties", "GET /session", "PUT /session/config",
					"POST /session/start", "POST /session/catch/{id}", "GET /session/view",
					"DELETE /session", "/session/ws",
				},
				"scoreboard": opts.Scoreboard != nil,
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/difficulties", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"difficulties": game.Profiles()})
		})

		s.mountSession(r)

		if opts.Scoreboard != nil {
			scoreboard.Mount(r, opts.Scoreboard, opts.RankingsLimit)
		}
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (useful for tests and http.Server).
func (s *Server) Handler() http.Handler { return s.r }

// ---------------------------- player identity -------------------------------

const (
	playerCookieName = "flycatch_anon"
	playerHeader     = "X-Player-ID"
)

// playerID returns the caller's id from X-Player-ID, the anon cookie, or a
// freshly issued cookie.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if h := r.Header.Get(playerHeader); h != "" {
		return h
	}
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}
