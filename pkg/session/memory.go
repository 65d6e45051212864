package session

import (
	"context"
	"errors"
	"time"

	"github.com/mallo-web/mallo/pkg/cache"
)

// MemoryOption configures the in-memory store.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	maxSessions     int
}

// WithTTL bounds session lifetime. Expired sessions read as not found and a
// fresh session is issued on the next request. Default: 0 (sessions live for
// the process lifetime).
func WithTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.ttl = d
	}
}

// WithCleanupInterval enables background removal of expired sessions.
// Only useful together with WithTTL.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxSessions bounds the store size; the least recently used session is
// evicted when the limit is reached. Default: 0 (unbounded).
func WithMaxSessions(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxSessions = n
	}
}

// MemoryStore keeps sessions in process memory.
//
// By default the store is unbounded and never expires entries, matching the
// classic process-lifetime session table. Production deployments should set
// WithTTL/WithMaxSessions, or use RedisStore to share sessions across
// processes.
type MemoryStore struct {
	cache *cache.Memory[map[string]any]
	ttl   time.Duration
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	var o memoryOptions
	for _, opt := range opts {
		opt(&o)
	}

	cacheOpts := []cache.MemoryOption{}
	if o.ttl > 0 {
		cacheOpts = append(cacheOpts, cache.WithDefaultTTL(o.ttl))
	}
	if o.cleanupInterval > 0 {
		cacheOpts = append(cacheOpts, cache.WithCleanupInterval(o.cleanupInterval))
	}
	if o.maxSessions > 0 {
		cacheOpts = append(cacheOpts, cache.WithMaxEntries(o.maxSessions))
	}

	return &MemoryStore{
		cache: cache.NewMemory[map[string]any](cacheOpts...),
		ttl:   o.ttl,
	}
}

// Get retrieves the stored values for a session id.
func (s *MemoryStore) Get(ctx context.Context, id string) (map[string]any, error) {
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
func (s *MemoryStore) Set(ctx context.Context, id string, values map[string]any) error {
	return s.cache.Set(ctx, id, values, s.ttl)
}

// Delete removes a session.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, id)
}

// Len returns the number of sessions currently held.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}

// Close releases the underlying cache resources.
func (s *MemoryStore) Close() error {
	return s.cache.Close()
}

var _ Store = (*MemoryStore)(nil)
