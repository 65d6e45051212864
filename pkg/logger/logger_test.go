package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mallo-web/mallo/pkg/logger"
)

func TestNewNope(t *testing.T) {
	log := logger.NewNope()
	require.NotNil(t, log)
	// Must not panic.
	log.Info("discarded")
}

func TestContextHandler_InjectsAttributes(t *testing.T) {
	type ctxKey struct{}

	var buf bytes.Buffer
	h := logger.NewContextHandler(
		slog.NewJSONHandler(&buf, nil),
		func(ctx context.Context) (slog.Attr, bool) {
			if v, ok := ctx.Value(ctxKey{}).(string); ok {
				return slog.String("request_id", v), true
			}
			return slog.Attr{}, false
		},
	)
	log := slog.New(h)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-123")
	log.InfoContext(ctx, "hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "hello", entry["msg"])
}

func TestContextHandler_NoExtractorMatch(t *testing.T) {
	var buf bytes.Buffer
	h := logger.NewContextHandler(
		slog.NewJSONHandler(&buf, nil),
		func(context.Context) (slog.Attr, bool) { return slog.Attr{}, false },
		nil, // nil extractors are filtered
	)
	slog.New(h).Info("plain")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, has := entry["request_id"]
	assert.False(t, has)
}

func TestNewWithSentry_NoDSN(t *testing.T) {
	// Without a DSN this must degrade to a plain stdout logger.
	log := logger.NewWithSentry(logger.SentryConfig{})
	require.NotNil(t, log)
}
