package ratelimiter

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/mssession/pkg/cache"
)

// Store keeps bucket state.
type Store interface {
	// ConsumeTokens refills the bucket for key, takes tokens and returns what is
	// left. A negative remainder means the request is denied.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the state for key.
	Reset(ctx context.Context, key string) error
}

type bucketState struct {
	tokens     int
	lastRefill time.Time
}

// MemoryStore keeps buckets in a bounded LRU cache. Idle buckets expire after
// the time a full refill takes, so no cleanup goroutine is needed.
type MemoryStore struct {
	mu      sync.Mutex
	buckets *cache.LRUCache[string, *bucketState]
	clock   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store tracking at most capacity keys.
// A nil clock selects time.Now.
func NewMemoryStore(capacity int, clock func() time.Time) *MemoryStore {
	if capacity <= 0 {
		capacity = 100_000
	}
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{
		buckets: cache.NewLRUCache(capacity, cache.WithClock[string, *bucketState](clock)),
		clock:   clock,
	}
}

// ConsumeTokens refills the bucket for key and takes tokens from it. The
// remaining count is negative when the bucket could not cover the request, in
// which case nothing is taken.
func (s *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	if tokens < 0 {
		return 0, time.Time{}, ErrInvalidTokenCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	b, ok := s.buckets.Get(key)
	if !ok {
		b = &bucketState{tokens: config.Capacity, lastRefill: now}
	}

	// Cap the interval count so long idle periods cannot overflow.
	maxIntervals := config.Capacity/config.RefillRate + 1
	if intervals := min(int(now.Sub(b.lastRefill)/config.RefillInterval), maxIntervals); intervals > 0 {
		b.tokens = min(b.tokens+intervals*config.RefillRate, config.Capacity)
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * config.RefillInterval)
	}

	// Denied requests leave the bucket untouched, so retries do not dig a deficit.
	remaining := b.tokens - tokens
	if remaining >= 0 {
		b.tokens = remaining
	}
	ttl := time.Duration(maxIntervals) * config.RefillInterval
	s.buckets.PutWithTTL(key, b, ttl)

	return remaining, b.lastRefill.Add(config.RefillInterval), nil
}

// Reset drops the bucket for key.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets.Remove(key)
	return nil
}
