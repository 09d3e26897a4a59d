// internal/httpserver/routes_session.go
//
// Player-facing session routes:
//   - GET    /session            → current snapshot
//   - PUT    /session/config     → set username + difficulty (not while active)
//   - POST   /session/start      → start (or restart) a session
//   - POST   /session/catch/{id} → catch one target
//   - GET    /session/view       → plain-text rendering of the current view
//   - DELETE /session            → tear the player's session down

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/flycatch/internal/game"
	"github.com/robalobadob/flycatch/internal/session"
)

func (s *Server) mountSession(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		r.Get("/", s.handleSnapshot)
		r.Delete("/", s.handleTeardown)
		r.Put("/config", s.handleConfigure)
		r.Post("/start", s.handleStart)
		r.Post("/catch/{id}", s.handleCatch)
		r.Get("/view", s.handleView)
	})
}

// controller resolves (or creates) the caller's session controller.
func (s *Server) controller(w http.ResponseWriter, r *http.Request) *session.Controller {
	return s.sessions.GetOrCreate(s.playerID(w, r))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.controller(w, r).Snapshot(r.Context())
	writeSnapshot(w, snap, err)
}

// configReq is the payload for PUT /session/config.
type configReq struct {
	Username   string `json:"username"`
	Difficulty string `json:"difficulty"`
}

func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	var req configReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	c := s.controller(w, r)
	d, err := game.ParseDifficulty(req.Difficulty)
	if err == nil {
		err = c.Configure(r.Context(), req.Username, d)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	snap, err := c.Snapshot(r.Context())
	writeSnapshot(w, snap, err)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	snap, err := s.controller(w, r).Start(r.Context())
	writeSnapshot(w, snap, err)
}

func (s *Server) handleCatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"bad_id"}`, http.StatusBadRequest)
		return
	}
	snap, err := s.controller(w, r).Catch(r.Context(), id)
	writeSnapshot(w, snap, err)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	snap, err := s.controller(w, r).Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(strings.Join(snap.Lines(), "\n") + "\n"))
}

func (s *Server) handleTeardown(w http.ResponseWriter, r *http.Request) {
	removed := s.sessions.Remove(s.playerID(w, r))
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true, "removed": removed})
}

// writeSnapshot encodes snap, or maps err to a JSON error response.
func writeSnapshot(w http.ResponseWriter, snap session.Snapshot, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// writeError maps controller and domain errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownDifficulty):
		http.Error(w, `{"error":"unknown_difficulty"}`, http.StatusBadRequest)
	case errors.Is(err, session.ErrSessionActive):
		http.Error(w, `{"error":"session_active"}`, http.StatusConflict)
	case errors.Is(err, session.ErrStopped):
		http.Error(w, `{"error":"session_closed"}`, http.StatusGone)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		http.Error(w, `{"error":"timeout"}`, http.StatusServiceUnavailable)
	default:
		log.Error().Err(err).Msg("session request")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
	}
}
