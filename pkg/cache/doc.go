// Package cache provides generic key-value caches with TTL support.
//
// Two implementations are included: Memory, an in-process cache with
// optional TTL expiration and LRU eviction, and Redis, backed by a Redis
// server with JSON value serialization.
//
//	c := cache.NewMemory[User](
//	    cache.WithDefaultTTL(5*time.Minute),
//	    cache.WithMaxEntries(10000),
//	)
//	defer c.Close()
//
//	_ = c.Set(ctx, "user:1", user, 0)
//	u, err := c.Get(ctx, "user:1")
//
// GetOrSet computes a value on a cache miss, deduplicating concurrent
// misses for the same key with singleflight:
//
//	tpl, err := cache.GetOrSet(ctx, c, path, func(ctx context.Context) (*Template, time.Duration, error) {
//	    return compile(path)
//	})
package cache
