package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mallo-web/mallo/pkg/cache"
)

// RedisOption configures the Redis store.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix string
	ttl    time.Duration
}

// WithRedisTTL bounds session lifetime in Redis.
// Default: 0 (sessions persist until deleted or evicted by Redis).
func WithRedisTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.ttl = d
	}
}

// WithRedisPrefix sets the key prefix for session entries.
// Default: "mallo:sess".
func WithRedisPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// RedisStore persists sessions in Redis, sharing them across processes.
// Redis SET is an atomic upsert, so concurrent writers for the same session
// id resolve last-writer-wins at the store without torn values.
type RedisStore struct {
	cache *cache.Redis[map[string]any]
	ttl   time.Duration
}

// NewRedisStore creates a Redis-backed session store.
//
// Example:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store := session.NewRedisStore(client, session.WithRedisTTL(30*24*time.Hour))
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	o := redisOptions{prefix: "mallo:sess"}
	for _, opt := range opts {
		opt(&o)
	}

	return &RedisStore{
		cache: cache.NewRedis[map[string]any](client, nil, cache.WithPrefix(o.prefix)),
		ttl:   o.ttl,
	}
}

// Get retrieves the stored values for a session id.
func (s *RedisStore) Get(ctx context.Context, id string) (map[string]any, error) {
	values, err := s.cache.Get(ctx, id)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return values, nil
}

// Set replaces the stored values for a session id.
// Writing refreshes the TTL when one is configured.
func (s *RedisStore) Set(ctx context.Context, id string, values map[string]any) error {
	return s.cache.Set(ctx, id, values, s.ttl)
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, id)
}

var _ Store = (*RedisStore)(nil)
