package session

import (
	"strings"
	"testing"

	"github.com/robalobadob/flycatch/internal/game"
)

func TestRankingLine(t *testing.T) {
	got := RankingLine(game.RankingEntry{Rank: 1, Username: "a", Time: 3.2})
	if got != "1. a - 3.2seconds" {
		t.Fatalf("RankingLine = %q", got)
	}
}

func TestLinesEnded(t *testing.T) {
	s := Snapshot{
		State:   game.StateEnded,
		Elapsed: 3.2,
		Rankings: []game.RankingEntry{
			{Rank: 1, Username: "a", Time: 2.55},
			{Rank: 2, Username: "b", Time: 3.2},
		},
	}
	got := strings.Join(s.Lines(), "\n")
	want := "Game over\nTime: 3.20 seconds\nRankings\n1. a - 2.55seconds\n2. b - 3.2seconds"
	if got != want {
		t.Fatalf("Lines =\n%s\nwant\n%s", got, want)
	}

	s.Rankings = nil
	if lines := s.Lines(); len(lines) != 2 {
		t.Fatalf("ended without rankings rendered %d lines: %q", len(lines), lines)
	}
}

func TestLinesActiveListsTargets(t *testing.T) {
	s := Snapshot{State: game.StateActive, Targets: []game.Target{{ID: 0, X: 10, Y: 90}, {ID: 4, X: 50.25, Y: 12}}}
	lines := s.Lines()
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	if lines[2] != "fly 4 at (50.2%, 12.0%)" && lines[2] != "fly 4 at (50.3%, 12.0%)" {
		t.Fatalf("target line = %q", lines[2])
	}
}

func TestLinesIdleShowsForm(t *testing.T) {
	s := Snapshot{State: game.StateIdle, Username: "neo", Difficulty: game.Hard}
	got := strings.Join(s.Lines(), "\n")
	if !strings.Contains(got, "Username: neo") || !strings.Contains(got, "Difficulty: hard") {
		t.Fatalf("idle view = %q", got)
	}
}
