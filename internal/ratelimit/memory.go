package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Limiter. State is lost on restart and is
// not shared between instances. Entries are never evicted, so memory grows
// with the number of distinct keys seen.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	cfg     Config
	now     func() time.Time
}

type entry struct {
	count       int
	windowStart time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock overrides the time source
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(cfg Config, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*entry),
		cfg:     cfg.withDefaults(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Config() Config { return s.cfg }

// Check implements Limiter.
func (s *MemoryStore) Check(_ context.Context, key string) (Decision, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok || now.Sub(ent.windowStart) >= s.cfg.Window {
		ent = &entry{windowStart: now}
		s.entries[key] = ent
	}
	ent.count++

	return decide(s.cfg, ent.count, ent.windowStart), nil
}

// Reset forgets the window for one key
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// ResetAll forgets every window
func (s *MemoryStore) ResetAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*entry)
	return nil
}

// Len returns the number of tracked keys
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
