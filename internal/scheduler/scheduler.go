package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Bond-009/siderite/internal/constants"
	"github.com/Bond-009/siderite/internal/session"
)

// ConnectionScheduler drives every registered Connection's tick from a
// single goroutine at a fixed 20 Hz rate, the cooperative analogue of
// the teacher's one-goroutine-per-client model: instead of N blocked
// readers each racing to call into shared state, one goroutine visits
// every connection in turn, so protocol dispatch never needs more
// locking than the registry map itself.
type ConnectionScheduler struct {
	mu    sync.RWMutex
	conns map[uint32]*Connection

	deps session.Deps
}

// New returns an empty scheduler. deps is handed to every connection's
// ProcessData call each tick.
func New(deps session.Deps) *ConnectionScheduler {
	return &ConnectionScheduler{
		conns: make(map[uint32]*Connection),
		deps:  deps,
	}
}

// Register adds a connection to the tick set.
func (s *ConnectionScheduler) Register(c *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c.ID()] = c
}

// Unregister removes a connection without closing it; callers that tick
// out a connection should call this then Close it themselves.
func (s *ConnectionScheduler) Unregister(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, id)
}

// Get returns the connection for id, or nil if it is not registered.
func (s *ConnectionScheduler) Get(id uint32) *Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conns[id]
}

// Count returns the number of currently registered connections.
func (s *ConnectionScheduler) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

// CountPlaying returns the number of connections that have completed
// login and entered the Play state, the figure status responses and the
// max-players check care about.
func (s *ConnectionScheduler) CountPlaying() int {
	n := 0
	for _, c := range s.snapshot() {
		if c.Protocol().State() == session.StatePlay {
			n++
		}
	}
	return n
}

// PlayingIDs returns the registry ids of every connection currently in
// the Play state, for fan-out operations like chat broadcast.
func (s *ConnectionScheduler) PlayingIDs() []uint32 {
	conns := s.snapshot()
	ids := make([]uint32, 0, len(conns))
	for _, c := range conns {
		if c.Protocol().State() == session.StatePlay {
			ids = append(ids, c.ID())
		}
	}
	return ids
}

// Run ticks every registered connection every SchedulerTickPeriod until
// ctx is canceled. A connection whose tick fails is disconnected and
// evicted immediately rather than waiting for the next pass.
func (s *ConnectionScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(constants.SchedulerTickPeriod * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return nil
		case now := <-ticker.C:
			s.tickAll(now)
		}
	}
}

func (s *ConnectionScheduler) snapshot() []*Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Connection, 0, len(s.conns))
	for _, c := range s.conns {
		out = append(out, c)
	}
	return out
}

func (s *ConnectionScheduler) tickAll(now time.Time) {
	for _, c := range s.snapshot() {
		if err := c.tick(now, s.deps); err != nil {
			slog.Debug("connection tick failed", "conn", c.ID(), "error", err)
			c.disconnect(err)
			s.Unregister(c.ID())
			_ = c.Close()
		}
	}
}

func (s *ConnectionScheduler) closeAll() {
	for _, c := range s.snapshot() {
		_ = c.Close()
	}
}
