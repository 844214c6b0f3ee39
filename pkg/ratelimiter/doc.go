// Package ratelimiter throttles the public session endpoint with a token bucket
// per client.
//
//	bucket, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(0, nil), cfg)
//	if err != nil {
//	    return err
//	}
//	r.Use(ratelimiter.Middleware(bucket, nil, log))
//
// Each key starts with Capacity tokens and regains RefillRate tokens every
// RefillInterval. Denied requests get 429 with Retry-After; every response
// carries X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset.
//
// MemoryStore bounds the number of tracked keys with an LRU cache and lets idle
// buckets expire.
package ratelimiter
