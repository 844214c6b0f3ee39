// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry expiry.
//
// The cache evicts the least recently used entry once it holds more than its
// capacity. Entries stored with PutWithTTL expire after the given duration and
// are dropped lazily, the next time they are read.
//
// # Usage
//
//	devices := cache.NewLRUCache[string, Record](10_000)
//
//	devices.PutWithTTL("device:abc", rec, 30*time.Minute)
//	rec, ok := devices.Get("device:abc")
//	devices.Remove("device:abc")
//
// # Clock and eviction hooks
//
// Tests inject a clock with WithClock. WithEvictCallback observes entries
// dropped by capacity pressure, expiry or Clear:
//
//	c := cache.NewLRUCache(100,
//	    cache.WithClock[string, Record](clock.Now),
//	    cache.WithEvictCallback(func(key string, rec Record) {
//	        log.Debug("evicted", "key", key)
//	    }),
//	)
//
// All operations are O(1) and guarded by a single mutex.
package cache
