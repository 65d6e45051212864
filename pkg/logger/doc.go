// Package logger provides slog-based logging factories for the framework.
//
// New returns a JSON logger writing to stdout; NewNope returns a logger
// that discards everything and is the framework default when logging is
// not configured.
//
// ContextExtractor functions pull request-scoped values out of a context
// at log time, so attributes like a request id appear on every line logged
// during that request:
//
//	log := logger.New(func(ctx context.Context) (slog.Attr, bool) {
//	    if id, ok := ctx.Value(requestIDKey{}).(string); ok {
//	        return slog.String("request_id", id), true
//	    }
//	    return slog.Attr{}, false
//	})
//
// NewWithSentry additionally forwards warnings and errors to Sentry when a
// DSN is configured, degrading to stdout-only otherwise.
package logger
