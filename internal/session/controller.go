// internal/session/controller.go
//
// Game session controller.
// Responsibilities:
//   - Own all state of one player's session: configuration, targets, elapsed time, rankings.
//   - Run a single loop goroutine that serializes commands, ticks and scoring results.
//   - Drive the tick timer only while the session is active.
//   - On completion, submit the score and fetch rankings off-loop, tagging the job
//     with the session generation so a restarted session ignores stale results.
//
// Lifecycle:
//   idle --Start--> active --(last target caught)--> scoring --(ok)--> ended --Start--> active
//   A failed submit or rankings fetch leaves the session in scoring until restarted.

package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/flycatch/internal/game"
)

var (
	// ErrStopped is returned by every call made after the controller was stopped.
	ErrStopped = errors.New("session stopped")
	// ErrSessionActive is returned when configuration changes while a game is
	// being played or scored.
	ErrSessionActive = errors.New("session active")
)

// Scorer is the remote scoring and ranking service.
type Scorer interface {
	SubmitScore(ctx context.Context, rec game.ScoreRecord) error
	Rankings(ctx context.Context, d game.Difficulty) ([]game.RankingEntry, error)
}

// Ticker is the recurring timer driving an active session.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

func newStdTicker(d time.Duration) Ticker { return stdTicker{time.NewTicker(d)} }

// Snapshot is a copy of a session's presentable state.
type Snapshot struct {
	State      game.State          `json:"state"`
	Generation uint64              `json:"generation"`
	Username   string              `json:"username"`
	Difficulty game.Difficulty     `json:"difficulty"`
	Elapsed    float64             `json:"elapsed"`
	Targets    []game.Target       `json:"targets"`
	Rankings   []game.RankingEntry `json:"rankings"`
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for lifecycle and scoring failures.
func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }

// WithRand sets the random source for target placement and movement.
func WithRand(r game.Rand) Option { return func(c *Controller) { c.rng = r } }

// WithTicker replaces the wall-clock ticker.
func WithTicker(f TickerFunc) Option { return func(c *Controller) { c.newTicker = f } }

// Controller owns one game session. All fields below the divider are touched
// only by the Run goroutine.
type Controller struct {
	inbox    chan any
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	lastSeen atomic.Int64

	scorer    Scorer
	rng       game.Rand
	newTicker TickerFunc
	log       zerolog.Logger

	// ---- loop-owned ----
	username   string
	difficulty game.Difficulty
	state      game.State
	generation uint64
	ticks      int
	targets    []game.Target
	rankings   []game.RankingEntry
	ticker     Ticker
	tickC      <-chan time.Time
}

// New constructs an idle controller with difficulty easy. Call Run to start it.
func New(scorer Scorer, opts ...Option) *Controller {
	c := &Controller{
		inbox:      make(chan any, 64),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		scorer:     scorer,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newTicker:  newStdTicker,
		log:        log.Logger,
		difficulty: game.Easy,
		state:      game.StateIdle,
	}
	for _, o := range opts {
		o(c)
	}
	c.touch()
	return c
}

// Run processes commands and ticks until ctx is cancelled or Stop is called.
func (c *Controller) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer close(c.done)
	defer cancel() // aborts in-flight scoring calls
	defer c.stopTicker()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.quit:
			return
		case cmd := <-c.inbox:
			c.handle(ctx, cmd)
		case <-c.tickC:
			c.tick()
		}
	}
}

// Stop tears the controller down. It is safe to call more than once.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.quit) })
}

// Done is closed once the Run loop has exited.
func (c *Controller) Done() <-chan struct{} { return c.done }

// LastSeen reports when a caller last interacted with the controller.
func (c *Controller) LastSeen() time.Time { return time.Unix(0, c.lastSeen.Load()) }

// Configure sets the player name and difficulty. Names are not validated.
// It fails with ErrSessionActive unless the session is idle or ended.
func (c *Controller) Configure(ctx context.Context, username string, d game.Difficulty) error {
	if !d.Valid() {
		return game.ErrUnknownDifficulty
	}
	res, err := call(ctx, c, func(r chan<- error) any {
		return configureCmd{Username: username, Difficulty: d, Reply: r}
	})
	if err != nil {
		return err
	}
	return res
}

// Start begins a new session with the current configuration.
func (c *Controller) Start(ctx context.Context) (Snapshot, error) {
	return call(ctx, c, func(r chan<- Snapshot) any { return startCmd{Reply: r} })
}

// Catch removes the target with the given id. Unknown ids are ignored.
func (c *Controller) Catch(ctx context.Context, id int) (Snapshot, error) {
	return call(ctx, c, func(r chan<- Snapshot) any { return catchCmd{ID: id, Reply: r} })
}

// Snapshot returns the current state.
func (c *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	return call(ctx, c, func(r chan<- Snapshot) any { return snapshotCmd{Reply: r} })
}

// call posts a command built around a fresh reply channel and waits for the answer.
func call[T any](ctx context.Context, c *Controller, build func(chan<- T) any) (T, error) {
	var zero T
	reply := make(chan T, 1)
	c.touch()
	select {
	case c.inbox <- build(reply):
	case <-c.quit:
		return zero, ErrStopped
	case <-c.done:
		return zero, ErrStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-c.done:
		select {
		case v := <-reply:
			return v, nil
		default:
			return zero, ErrStopped
		}
	}
}

func (c *Controller) touch() { c.lastSeen.Store(time.Now().UnixNano()) }

// ------------------------------ loop side ----------------------------------

func (c *Controller) handle(ctx context.Context, cmd any) {
	switch m := cmd.(type) {
	case configureCmd:
		m.Reply <- c.configure(m.Username, m.Difficulty)
	case startCmd:
		c.start()
		m.Reply <- c.snapshot()
	case catchCmd:
		c.catch(ctx, m.ID)
		m.Reply <- c.snapshot()
	case snapshotCmd:
		m.Reply <- c.snapshot()
	case scoreResult:
		c.finish(m)
	}
}

func (c *Controller) configure(username string, d game.Difficulty) error {
	// The form is only offered before a game and after its results.
	if c.state != game.StateIdle && c.state != game.StateEnded {
		return ErrSessionActive
	}
	c.username = username
	c.difficulty = d
	return nil
}

func (c *Controller) start() {
	p, err := game.ProfileFor(c.difficulty)
	if err != nil {
		p, _ = game.ProfileFor(game.Easy)
		c.difficulty = game.Easy
	}
	c.stopTicker()
	c.generation++
	c.ticks = 0
	c.rankings = nil
	c.targets = game.NewTargets(c.rng, p.Count)
	c.state = game.StateActive
	c.ticker = c.newTicker(game.TickInterval)
	c.tickC = c.ticker.C()
	c.log.Info().
		Uint64("generation", c.generation).
		Str("difficulty", string(c.difficulty)).
		Int("targets", len(c.targets)).
		Msg("session started")
}

func (c *Controller) tick() {
	if c.state != game.StateActive {
		c.stopTicker()
		return
	}
	c.ticks++
	game.Wander(c.rng, c.targets)
}

func (c *Controller) catch(ctx context.Context, id int) {
	if c.state != game.StateActive {
		return
	}
	var ok bool
	if c.targets, ok = game.Remove(c.targets, id); !ok {
		return
	}
	if len(c.targets) == 0 {
		c.complete(ctx)
	}
}

// complete moves an emptied session into scoring and launches the scoring job.
func (c *Controller) complete(ctx context.Context) {
	c.stopTicker()
	c.state = game.StateScoring
	rec := game.ScoreRecord{
		Username:   c.username,
		Difficulty: c.difficulty,
		Time:       game.RoundTime(game.Elapsed(c.ticks)),
	}
	c.log.Info().
		Uint64("generation", c.generation).
		Float64("time", rec.Time).
		Msg("all targets caught; submitting score")
	go c.score(ctx, c.generation, rec)
}

// score runs off-loop: submit, then fetch rankings only if the submit succeeded.
func (c *Controller) score(ctx context.Context, gen uint64, rec game.ScoreRecord) {
	res := scoreResult{Generation: gen}
	if err := c.scorer.SubmitScore(ctx, rec); err != nil {
		res.Step, res.Err = "submit", err
	} else if rk, err := c.scorer.Rankings(ctx, rec.Difficulty); err != nil {
		res.Step, res.Err = "rankings", err
	} else {
		res.Rankings = rk
	}
	select {
	case c.inbox <- res:
	case <-c.done:
	}
}

func (c *Controller) finish(r scoreResult) {
	if r.Generation != c.generation || c.state != game.StateScoring {
		c.log.Debug().
			Uint64("generation", r.Generation).
			Uint64("current", c.generation).
			Msg("discarding stale score result")
		return
	}
	if r.Err != nil {
		c.log.Error().Err(r.Err).
			Uint64("generation", r.Generation).
			Str("step", r.Step).
			Msg("error saving score")
		return
	}
	c.rankings = r.Rankings
	c.state = game.StateEnded
	c.log.Info().
		Uint64("generation", r.Generation).
		Int("rankings", len(r.Rankings)).
		Msg("session ended")
}

func (c *Controller) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	c.ticker = nil
	c.tickC = nil
}

func (c *Controller) snapshot() Snapshot {
	s := Snapshot{
		State:      c.state,
		Generation: c.generation,
		Username:   c.username,
		Difficulty: c.difficulty,
		Elapsed:    game.Elapsed(c.ticks),
		Targets:    append([]game.Target{}, c.targets...),
		Rankings:   append([]game.RankingEntry{}, c.rankings...),
	}
	return s
}
