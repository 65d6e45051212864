package mallo

import (
	"context"
	"time"

	"github.com/mallo-web/mallo/internal"
)

// Run options

// Address sets the listen address. Default is ":8000".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// BaseContext sets the context whose cancellation stops the server, in
// addition to SIGINT and SIGTERM.
func BaseContext(ctx context.Context) RunOption {
	return internal.BaseContext(ctx)
}

// StartupHook runs before the server starts accepting connections.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs during graceful shutdown, after the listener closes.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}
