package ratelimiter

import (
	"context"
	"sync"
	"time"
)

const staleAfter = time.Hour

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore keeps buckets in process. Buckets idle for an hour are
// removed by a background sweep.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time

	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often idle buckets are swept. Zero disables
// the sweep.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.cleanupInterval = d
	}
}

func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		buckets:         make(map[string]*bucket),
		now:             time.Now,
		cleanupInterval: 5 * time.Minute,
		stop:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cleanupInterval > 0 {
		go s.cleanup()
	}
	return s
}

func (s *MemoryStore) ConsumeTokens(_ context.Context, key string, n int, cfg Config) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{tokens: cfg.Capacity, lastRefill: now}
		s.buckets[key] = b
	}
	b.lastAccess = now

	if intervals := refillIntervals(now.Sub(b.lastRefill), cfg); intervals > 0 {
		b.tokens = min(b.tokens+intervals*cfg.RefillRate, cfg.Capacity)
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * cfg.RefillInterval)
	}
	if b.tokens >= cfg.Capacity {
		b.lastRefill = now
	}

	resetAt := b.lastRefill.Add(cfg.RefillInterval)
	if b.tokens < n {
		return b.tokens - n, resetAt, nil
	}
	b.tokens -= n
	return b.tokens, resetAt, nil
}

// refillIntervals counts whole intervals in elapsed, capped so a long idle
// period cannot overflow.
func refillIntervals(elapsed time.Duration, cfg Config) int {
	if elapsed <= 0 {
		return 0
	}
	limit := int64(cfg.Capacity/cfg.RefillRate + 1)
	return int(min(int64(elapsed/cfg.RefillInterval), limit))
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// Len reports the number of tracked buckets.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.removeStale()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) removeStale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, b := range s.buckets {
		if now.Sub(b.lastAccess) > staleAfter {
			delete(s.buckets, key)
		}
	}
}

// Close stops the sweep. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}
