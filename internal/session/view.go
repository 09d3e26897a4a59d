// internal/session/view.go
//
// Plain-text rendering of a session snapshot, one line per row:
//   - idle: the configuration form.
//   - active: elapsed time and every live target.
//   - scoring / ended: the result and, once available, the rankings.

package session

import (
	"fmt"
	"strconv"

	"github.com/robalobadob/flycatch/internal/game"
)

// Lines renders the snapshot as the text a player would see for its state.
func (s Snapshot) Lines() []string {
	switch s.State {
	case game.StateActive:
		out := []string{fmt.Sprintf("Catch the flies! %.1f seconds", s.Elapsed)}
		for _, t := range s.Targets {
			out = append(out, fmt.Sprintf("fly %d at (%.1f%%, %.1f%%)", t.ID, t.X, t.Y))
		}
		return out
	case game.StateScoring:
		return []string{fmt.Sprintf("All flies caught in %.2f seconds. Saving score...", s.Elapsed)}
	case game.StateEnded:
		out := []string{"Game over", fmt.Sprintf("Time: %.2f seconds", s.Elapsed)}
		if len(s.Rankings) > 0 {
			out = append(out, "Rankings")
			for _, r := range s.Rankings {
				out = append(out, RankingLine(r))
			}
		}
		return out
	default:
		return []string{
			"Reaction speed test",
			"Username: " + s.Username,
			fmt.Sprintf("Difficulty: %s (easy, medium, hard)", s.Difficulty),
			"Start: POST /session/start",
		}
	}
}

// RankingLine formats one leaderboard row as "rank. username - timeseconds".
func RankingLine(r game.RankingEntry) string {
	return fmt.Sprintf("%d. %s - %sseconds", r.Rank, r.Username, strconv.FormatFloat(r.Time, 'f', -1, 64))
}
