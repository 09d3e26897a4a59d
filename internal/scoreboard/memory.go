// internal/scoreboard/memory.go
//
// In-memory Store. Concurrency-safe via RWMutex; state is lost on restart.
// Used when no database is configured and in tests.

package scoreboard

import (
	"context"
	"sort"
	"sync"

	"github.com/robalobadob/flycatch/internal/game"
)

// MemoryStore keeps scores per difficulty in submission order.
type MemoryStore struct {
	mu     sync.RWMutex
	scores map[game.Difficulty][]game.ScoreRecord
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scores: make(map[game.Difficulty][]game.ScoreRecord)}
}

// InsertScore appends rec.
func (m *MemoryStore) InsertScore(ctx context.Context, rec game.ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[rec.Difficulty] = append(m.scores[rec.Difficulty], rec)
	return nil
}

// Rankings sorts a copy by time; the stable sort keeps submission order for ties.
func (m *MemoryStore) Rankings(ctx context.Context, d game.Difficulty, limit int) ([]game.RankingEntry, error) {
	limit = clampLimit(limit)
	m.mu.RLock()
	all := append([]game.ScoreRecord(nil), m.scores[d]...)
	m.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool { return all[i].Time < all[j].Time })
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]game.RankingEntry, 0, len(all))
	for i, s := range all {
		out = append(out, game.RankingEntry{Rank: i + 1, Username: s.Username, Time: s.Time})
	}
	return out, nil
}
