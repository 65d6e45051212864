// Package redis connects the framework to a Redis server, typically as
// the backing for a session store.
//
//	client, err := redis.Connect(ctx, os.Getenv("REDIS_URL"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app := mallo.New(
//	    mallo.WithSecretKey(secret),
//	    mallo.WithSessionStore(session.NewRedisStore(client)),
//	)
//	err = app.Run(mallo.ShutdownHook(redis.Shutdown(client)))
package redis

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrEmptyURL         = errors.New("redis: empty connection URL")
	ErrBadURL           = errors.New("redis: failed to parse connection URL")
	ErrConnectionFailed = errors.New("redis: failed to establish connection")
)

// Option configures a connection.
type Option func(*config)

type config struct {
	poolSize      int
	dialTimeout   time.Duration
	retryAttempts int
	retryInterval time.Duration
}

// WithPoolSize sets the maximum number of pooled connections. Default 10.
func WithPoolSize(n int) Option {
	return func(c *config) {
		c.poolSize = n
	}
}

// WithDialTimeout bounds connection establishment. Default 5s.
func WithDialTimeout(d time.Duration) Option {
	return func(c *config) {
		c.dialTimeout = d
	}
}

// WithRetry configures startup retries with linear backoff.
// Default 3 attempts, 5 second base interval.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(c *config) {
		c.retryAttempts = attempts
		c.retryInterval = interval
	}
}

// Connect opens a Redis client and verifies connectivity, retrying with
// backoff. Supports redis:// and rediss:// URL schemes.
func Connect(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrBadURL
	}

	cfg := config{
		poolSize:      10,
		dialTimeout:   5 * time.Second,
		retryAttempts: 3,
		retryInterval: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	parsed, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrBadURL, err)
	}
	parsed.PoolSize = cfg.poolSize
	parsed.DialTimeout = cfg.dialTimeout

	attempts := max(cfg.retryAttempts, 1)
	for i := 0; i < attempts; i++ {
		client := redis.NewClient(parsed)
		err = client.Ping(ctx).Err()
		if err == nil {
			return client, nil
		}
		_ = client.Close()

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.retryInterval):
		}
	}
	return nil, errors.Join(ErrConnectionFailed, err)
}

// Healthcheck returns a startup hook that verifies connectivity.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrConnectionFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrConnectionFailed, err)
		}
		return nil
	}
}

// Shutdown returns a shutdown hook that closes the client.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
