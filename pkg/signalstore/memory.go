package signalstore

import (
	"context"
	"time"

	"github.com/dmitrymomot/mssession/pkg/cache"
)

// MemoryStore keeps records in a bounded in-process LRU cache. It suits single
// instance deployments and tests.
type MemoryStore struct {
	records *cache.LRUCache[string, Record]
}

var _ Store = (*MemoryStore)(nil)

// MemoryOption configures a MemoryStore.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	clock func() time.Time
}

// WithMemoryClock sets the clock used for record expiry.
func WithMemoryClock(clock func() time.Time) MemoryOption {
	return func(o *memoryOptions) {
		o.clock = clock
	}
}

// NewMemoryStore creates a store holding at most capacity devices.
// Non-positive capacities select 10000.
func NewMemoryStore(capacity int, opts ...MemoryOption) *MemoryStore {
	if capacity <= 0 {
		capacity = 10_000
	}
	var o memoryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore{
		records: cache.NewLRUCache(capacity, cache.WithClock[string, Record](o.clock)),
	}
}

// Get returns the live record for deviceKey, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, deviceKey string) (Record, error) {
	if deviceKey == "" {
		return Record{}, ErrEmptyKey
	}
	rec, ok := s.records.Get(deviceKey)
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Put stores rec for ttl; a non-positive ttl keeps it until evicted.
func (s *MemoryStore) Put(_ context.Context, deviceKey string, rec Record, ttl time.Duration) error {
	if deviceKey == "" {
		return ErrEmptyKey
	}
	s.records.PutWithTTL(deviceKey, rec, ttl)
	return nil
}

// Delete removes the record for deviceKey.
func (s *MemoryStore) Delete(_ context.Context, deviceKey string) error {
	if deviceKey == "" {
		return ErrEmptyKey
	}
	s.records.Remove(deviceKey)
	return nil
}
