package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps a sliding-window log per key in process memory. A key
// may hold at most Max accepted requests within any Window.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]time.Time
	window  time.Duration
	max     int
	idleTTL time.Duration
	now     func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithIdleTTL sets how long an untouched key survives Cleanup.
func WithIdleTTL(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.idleTTL = d }
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(cfg Config, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string][]time.Time),
		window:  cfg.Window,
		max:     cfg.Max,
		// a key untouched for a whole window has an empty log
		idleTTL: cfg.Window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Take implements Store.
func (s *MemoryStore) Take(_ context.Context, key string) (Decision, error) {
	now := s.now()
	cutoff := now.Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	log := prune(s.entries[key], cutoff)

	decision := Decision{Limit: s.max}
	if len(log) >= s.max {
		s.entries[key] = log
		if len(log) > 0 {
			decision.RetryAfter = log[0].Add(s.window).Sub(now)
		}
		return decision, nil
	}

	log = append(log, now)
	s.entries[key] = log
	decision.Allowed = true
	decision.Remaining = s.max - len(log)
	return decision, nil
}

// prune drops timestamps at or before cutoff. The log is kept in order.
func prune(log []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(log) && !log[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return log
	}
	return append(log[:0], log[i:]...)
}

// Cleanup drops keys whose newest request is older than the idle TTL.
func (s *MemoryStore) Cleanup() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, log := range s.entries {
		if len(log) == 0 || !log[len(log)-1].After(cutoff) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
