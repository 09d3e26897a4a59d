// internal/scoreboard/sql.go
//
// SQLite-backed Store.
// Responsibilities:
//   - Append submitted scores to the scores table.
//   - Read a leaderboard for one difficulty, fastest first; ties keep
//     submission order (created_at, then id).

package scoreboard

import (
	"context"
	"database/sql"

	"github.com/robalobadob/flycatch/internal/game"
)

// SQLStore keeps scores in the scores table.
type SQLStore struct{ db *sql.DB }

// NewSQLStore wraps an opened, migrated database.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// InsertScore appends one row; created_at is filled by the database.
func (s *SQLStore) InsertScore(ctx context.Context, rec game.ScoreRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (username, difficulty, time) VALUES (?, ?, ?)`,
		rec.Username, string(rec.Difficulty), rec.Time,
	)
	return err
}

// Rankings orders by time ASC, then created_at ASC, then id ASC.
func (s *SQLStore) Rankings(ctx context.Context, d game.Difficulty, limit int) ([]game.RankingEntry, error) {
	limit = clampLimit(limit)
	rows, err := s.db.QueryContext(ctx, `
        SELECT username, time
        FROM scores
        WHERE difficulty=?
        ORDER BY time ASC, created_at ASC, id ASC
        LIMIT ?`, string(d), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.RankingEntry{}
	for rows.Next() {
		r := game.RankingEntry{Rank: len(out) + 1}
		if err := rows.Scan(&r.Username, &r.Time); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
