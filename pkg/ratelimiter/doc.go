// Package ratelimiter throttles requests with a token bucket.
//
// A Bucket consumes tokens from a Store keyed by caller. MemoryStore keeps
// buckets in process; RedisStore keeps them in Redis so every instance shares
// one budget. Middleware applies a Bucket to HTTP routes:
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     1,
//		RefillInterval: 30 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ClientIP)).Post("/login", login)
//
// Denied requests do not consume tokens. A denied caller gets 429 with a
// Retry-After header.
package ratelimiter
