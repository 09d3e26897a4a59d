// internal/session/messages.go
//
// Messages consumed by the controller loop: caller commands with reply
// channels, and the outcome of an off-loop scoring job.

package session

import "github.com/robalobadob/flycatch/internal/game"

// Commands accepted by the controller loop. Every command that expects an
// answer carries a buffered reply channel.

type configureCmd struct {
	Username   string
	Difficulty game.Difficulty
	Reply      chan<- error
}

type startCmd struct {
	Reply chan<- Snapshot
}

type catchCmd struct {
	ID    int
	Reply chan<- Snapshot
}

type snapshotCmd struct {
	Reply chan<- Snapshot
}

// scoreResult is posted back by the scoring job. Generation ties it to the
// session that produced it.
type scoreResult struct {
	Generation uint64
	Step       string // "submit" | "rankings" on failure
	Rankings   []game.RankingEntry
	Err        error
}
