// internal/session/manager.go
//
// Registry of running session controllers, one per player id.
// Responsibilities:
//   - Create and start a controller on first use.
//   - Stop controllers on removal, on idle expiry (Janitor) and on shutdown.

package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Manager holds one Controller per player. Controllers are created on first
// use and stopped on Remove, Sweep or Close.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Controller
	scorer   Scorer
	opts     []Option
}

// NewManager creates a Manager whose controllers report to scorer.
func NewManager(scorer Scorer, opts ...Option) *Manager {
	return &Manager{
		sessions: make(map[string]*Controller),
		scorer:   scorer,
		opts:     opts,
	}
}

// GetOrCreate returns the running controller for playerID, starting one if needed.
func (m *Manager) GetOrCreate(playerID string) *Controller {
	if playerID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.sessions[playerID]; ok {
		return c
	}
	opts := append([]Option{WithLogger(log.With().Str("player", playerID).Logger())}, m.opts...)
	c := New(m.scorer, opts...)
	m.sessions[playerID] = c
	go c.Run(context.Background())
	return c
}

// Get returns the controller for playerID, if any.
func (m *Manager) Get(playerID string) (*Controller, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.sessions[playerID]
	return c, ok
}

// Remove stops and forgets the controller for playerID.
func (m *Manager) Remove(playerID string) bool {
	m.mu.Lock()
	c, ok := m.sessions[playerID]
	delete(m.sessions, playerID)
	m.mu.Unlock()
	if ok {
		c.Stop()
	}
	return ok
}

// Len returns the number of live controllers.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep stops controllers nobody has touched for longer than maxIdle and
// returns how many were removed.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	var stale []*Controller
	m.mu.Lock()
	for id, c := range m.sessions {
		if c.LastSeen().Before(cutoff) {
			stale = append(stale, c)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, c := range stale {
		c.Stop()
	}
	return len(stale)
}

// Janitor sweeps idle controllers every interval until ctx is done.
func (m *Manager) Janitor(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(maxIdle); n > 0 {
				log.Info().Int("removed", n).Msg("swept idle sessions")
			}
		}
	}
}

// Close stops every controller.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Controller)
	m.mu.Unlock()
	for _, c := range all {
		c.Stop()
	}
}
