package application

import (
	"context"
	"sync"
	"time"
)

// GenerationStore hands out monotonically increasing request generations per session.
type GenerationStore interface {
	Next(ctx context.Context, session string) (int64, error)
	Current(ctx context.Context, session string) (int64, error)
}

// NoopGenerations never reports a request as stale.
type NoopGenerations struct{}

func (NoopGenerations) Next(context.Context, string) (int64, error)    { return 0, nil }
func (NoopGenerations) Current(context.Context, string) (int64, error) { return 0, nil }

// MemoryGenerations keeps counters in process; fine for a single replica.
// A session untouched for ttl is forgotten. Expired entries are swept at
// most once per ttl from Next.
type MemoryGenerations struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	gen       map[string]memGeneration
	lastSweep time.Time
}

type memGeneration struct {
	n       int64
	touched time.Time
}

// NewMemoryGenerations returns a store whose sessions expire after ttl.
// A non-positive ttl keeps sessions forever.
func NewMemoryGenerations(ttl time.Duration) *MemoryGenerations {
	return &MemoryGenerations{ttl: ttl, now: time.Now, gen: map[string]memGeneration{}}
}

func (m *MemoryGenerations) Next(_ context.Context, session string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	g := m.live(session, now)
	g.n++
	g.touched = now
	m.gen[session] = g
	return g.n, nil
}

func (m *MemoryGenerations) Current(_ context.Context, session string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live(session, m.now()).n, nil
}

// Len reports the number of tracked sessions.
func (m *MemoryGenerations) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.gen)
}

func (m *MemoryGenerations) live(session string, now time.Time) memGeneration {
	g, ok := m.gen[session]
	if ok && m.expired(g, now) {
		delete(m.gen, session)
		return memGeneration{}
	}
	return g
}

func (m *MemoryGenerations) expired(g memGeneration, now time.Time) bool {
	return m.ttl > 0 && now.Sub(g.touched) >= m.ttl
}

func (m *MemoryGenerations) sweep(now time.Time) {
	if m.ttl <= 0 || now.Sub(m.lastSweep) < m.ttl {
		return
	}
	m.lastSweep = now
	for k, g := range m.gen {
		if m.expired(g, now) {
			delete(m.gen, k)
		}
	}
}

// Sequencer discards results of requests overtaken by a newer request from
// the same session, so the last request wins rather than the last response.
type Sequencer struct {
	store GenerationStore
}

func NewSequencer(store GenerationStore) *Sequencer {
	if store == nil {
		store = NoopGenerations{}
	}
	return &Sequencer{store: store}
}

// Run executes fn and returns ErrStale if another request for session began
// in the meantime. An empty session disables the check.
func (s *Sequencer) Run(ctx context.Context, session string, fn func(ctx context.Context) error) error {
	if session == "" {
		return fn(ctx)
	}
	gen, err := s.store.Next(ctx, session)
	if err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		return err
	}
	cur, err := s.store.Current(ctx, session)
	if err != nil {
		return err
	}
	if cur != gen {
		return ErrStale
	}
	return nil
}
