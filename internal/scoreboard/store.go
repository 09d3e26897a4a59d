// internal/scoreboard/store.go
//
// Persistence contract for the ranking service.
// Scores are append-only; a leaderboard is the fastest times for one
// difficulty, ties broken by submission order. Ranks are 1-based positions.

package scoreboard

import (
	"context"

	"github.com/robalobadob/flycatch/internal/game"
)

const (
	// DefaultLimit is the leaderboard length used when none is configured.
	DefaultLimit = 10
	// MaxLimit caps any requested leaderboard length.
	MaxLimit = 100
)

// clampLimit maps a requested length into [1, MaxLimit]; non-positive means DefaultLimit.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// Store defines the persistence interface for submitted scores.
// Implementations: MemoryStore (this package) and SQLStore (SQLite).
type Store interface {
	// InsertScore records one finished session.
	InsertScore(ctx context.Context, rec game.ScoreRecord) error

	// Rankings returns the best limit scores for d, fastest first.
	Rankings(ctx context.Context, d game.Difficulty, limit int) ([]game.RankingEntry, error)
}
