// internal/scoreboard/routes.go
//
// HTTP routes for the ranking service:
//   - POST /scores                 → record {username, difficulty, time}
//   - GET  /rankings/{difficulty}  → top results for that difficulty
//
// Times are accepted as submitted (no anti-cheat); only the payload shape
// and the difficulty label are checked.

package scoreboard

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/flycatch/internal/game"
)

type handler struct {
	store Store
	limit int
}

// Mount registers the scoreboard routes on r.
func Mount(r chi.Router, st Store, limit int) {
	h := &handler{store: st, limit: clampLimit(limit)}
	r.Post("/scores", h.handleSubmit)
	r.Get("/rankings/{difficulty}", h.handleRankings)
}

// submitReq is the request payload for POST /scores.
type submitReq struct {
	Username   string   `json:"username"`
	Difficulty string   `json:"difficulty"`
	Time       *float64 `json:"time"`
}

func (h *handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	d, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		http.Error(w, `{"error":"unknown_difficulty"}`, http.StatusBadRequest)
		return
	}
	if req.Time == nil || *req.Time < 0 || math.IsInf(*req.Time, 0) {
		http.Error(w, `{"error":"invalid_time"}`, http.StatusBadRequest)
		return
	}

	rec := game.ScoreRecord{Username: req.Username, Difficulty: d, Time: *req.Time}
	if err := h.store.InsertScore(r.Context(), rec); err != nil {
		log.Error().Err(err).Str("difficulty", string(d)).Msg("insert score")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("username", rec.Username).Str("difficulty", string(d)).Float64("time", rec.Time).Msg("score recorded")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// rankingsRes is returned by GET /rankings/{difficulty}.
type rankingsRes struct {
	Difficulty game.Difficulty     `json:"difficulty"`
	Rankings   []game.RankingEntry `json:"rankings"`
}

func (h *handler) handleRankings(w http.ResponseWriter, r *http.Request) {
	d, err := game.ParseDifficulty(chi.URLParam(r, "difficulty"))
	if err != nil {
		http.Error(w, `{"error":"unknown_difficulty"}`, http.StatusBadRequest)
		return
	}
	rows, err := h.store.Rankings(r.Context(), d, h.limit)
	if err != nil {
		log.Error().Err(err).Str("difficulty", string(d)).Msg("load rankings")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(rankingsRes{Difficulty: d, Rankings: rows})
}
