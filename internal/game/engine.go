// internal/game/engine.go
//
// Pure movement and scoring rules for a single session.
// Responsibilities:
//   - Generate a batch of targets at uniform positions inside the play area.
//   - Advance every target by an independent bounded random step (Wander).
//   - Clamp every coordinate into [MinCoord, MaxCoord] on every mutation.
//   - Convert tick counts into elapsed seconds and round times for submission.
//
// Nothing here owns state or timers; the session package drives these functions.
package game

import (
	"math"
	"time"
)

const (
	MinCoord = 10.0 // lowest coordinate a target may occupy (percent)
	MaxCoord = 90.0 // highest coordinate a target may occupy (percent)
	MaxStep  = 2.5  // largest per-axis move in one tick

	// TickInterval is the fixed wall-clock cadence of the session loop.
	TickInterval = 100 * time.Millisecond
	// TickSeconds is how much elapsed time one tick accounts for.
	TickSeconds = 0.1
)

// Rand is the subset of *rand.Rand the engine needs; Float64 returns [0,1).
type Rand interface {
	Float64() float64
}

// NewTargets creates count targets with ids 0..count-1 at uniform positions
// in [MinCoord, MaxCoord).
func NewTargets(r Rand, count int) []Target {
	if count < 0 {
		count = 0
	}
	out := make([]Target, count)
	for i := range out {
		out[i] = Target{
			ID: i,
			X:  MinCoord + r.Float64()*(MaxCoord-MinCoord),
			Y:  MinCoord + r.Float64()*(MaxCoord-MinCoord),
		}
	}
	return out
}

// Wander moves every target in place by U(-MaxStep, MaxStep) on each axis,
// clamped to the play area.
func Wander(r Rand, targets []Target) {
	for i := range targets {
		t := &targets[i]
		t.X = Clamp(t.X + step(r))
		t.Y = Clamp(t.Y + step(r))
	}
}

func step(r Rand) float64 {
	return (r.Float64() - 0.5) * 2 * MaxStep
}

// Clamp bounds v to [MinCoord, MaxCoord].
func Clamp(v float64) float64 {
	return math.Min(math.Max(v, MinCoord), MaxCoord)
}

// Elapsed converts a tick count into seconds.
func Elapsed(ticks int) float64 {
	return float64(ticks) * TickSeconds
}

// RoundTime rounds seconds to two decimals, the precision submitted as a score.
func RoundTime(sec float64) float64 {
	return math.Round(sec*100) / 100
}

// Remove drops the target with the given id. It reports whether one was found;
// the input slice is reused.
func Remove(targets []Target, id int) ([]Target, bool) {
	for i, t := range targets {
		if t.ID == id {
			return append(targets[:i], targets[i+1:]...), true
		}
	}
	return targets, false
}
