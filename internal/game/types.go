// internal/game/types.go
//
// Core type definitions for the fly-catching game.
// Defines:
//   - Difficulty: the three selectable levels and their static profiles.
//   - State: coarse lifecycle of a single session (idle → active → scoring → ended).
//   - Target: a single moving fly, addressed by its batch index.
//   - ScoreRecord / RankingEntry: wire records exchanged with the ranking service.

package game

import (
	"errors"
	"strings"
)

// Difficulty is the level a player selects before starting.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ErrUnknownDifficulty is returned when a difficulty label is not one of the three levels.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty maps a label ("easy", " Medium ", ...) onto a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", ErrUnknownDifficulty
	}
	return d, nil
}

// Valid reports whether d is one of Easy, Medium or Hard.
func (d Difficulty) Valid() bool {
	_, ok := profiles[d]
	return ok
}

// Profile is the static configuration attached to a difficulty.
//
// MoveMs is carried for display only: the tick cadence is TickInterval for
// every difficulty.
type Profile struct {
	Difficulty Difficulty `json:"difficulty"`
	Count      int        `json:"count"`
	MoveMs     int64      `json:"moveIntervalMs"`
}

var profiles = map[Difficulty]Profile{
	Easy:   {Difficulty: Easy, Count: 3, MoveMs: 2500},
	Medium: {Difficulty: Medium, Count: 6, MoveMs: 2000},
	Hard:   {Difficulty: Hard, Count: 9, MoveMs: 1500},
}

// ProfileFor returns the profile for d.
func ProfileFor(d Difficulty) (Profile, error) {
	p, ok := profiles[d]
	if !ok {
		return Profile{}, ErrUnknownDifficulty
	}
	return p, nil
}

// Profiles lists every profile, easiest first.
func Profiles() []Profile {
	return []Profile{profiles[Easy], profiles[Medium], profiles[Hard]}
}

// State is the lifecycle position of a session.
type State string

const (
	StateIdle    State = "idle"    // configured, not started
	StateActive  State = "active"  // targets on screen, ticking
	StateScoring State = "scoring" // cleared; result being submitted
	StateEnded   State = "ended"   // result stored, rankings available
)

// Target is a single fly. X and Y are percentages of the play surface.
type Target struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// ScoreRecord is what gets submitted to the ranking service.
type ScoreRecord struct {
	Username   string     `json:"username"`
	Difficulty Difficulty `json:"difficulty"`
	Time       float64    `json:"time"`
}

// RankingEntry is one row of a leaderboard, ordered ascending by Rank.
type RankingEntry struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	Time     float64 `json:"time"`
}
