package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mallo-web/mallo/pkg/redis"
)

func TestConnect_URLValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := redis.Connect(ctx, "")
	require.ErrorIs(t, err, redis.ErrEmptyURL)

	_, err = redis.Connect(ctx, "http://localhost:6379")
	require.ErrorIs(t, err, redis.ErrBadURL)

	_, err = redis.Connect(ctx, "redis://bad url with spaces")
	require.ErrorIs(t, err, redis.ErrBadURL)
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Reserved TEST-NET address, nothing listens there.
	_, err := redis.Connect(ctx, "redis://192.0.2.1:6379",
		redis.WithRetry(1, time.Millisecond),
		redis.WithDialTimeout(100*time.Millisecond),
	)
	require.ErrorIs(t, err, redis.ErrConnectionFailed)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	err := redis.Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, redis.ErrConnectionFailed)
}
