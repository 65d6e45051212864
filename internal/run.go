package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Development server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// RunOption configures the server runtime.
type RunOption func(*runConfig)

type runConfig struct {
	baseCtx         context.Context
	address         string
	shutdownTimeout time.Duration
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
}

// Address sets the listen address. Default is ":8000".
func Address(addr string) RunOption {
	return func(c *runConfig) {
		c.address = addr
	}
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		c.shutdownTimeout = d
	}
}

// BaseContext sets the context whose cancellation stops the server, in
// addition to SIGINT and SIGTERM.
func BaseContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		c.baseCtx = ctx
	}
}

// StartupHook runs before the server starts accepting connections.
// A hook error aborts startup.
func StartupHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		c.startupHooks = append(c.startupHooks, fn)
	}
}

// ShutdownHook runs during graceful shutdown, after the listener closes.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		c.shutdownHooks = append(c.shutdownHooks, fn)
	}
}

// Run starts the HTTP server for the app and blocks until SIGINT, SIGTERM,
// or base-context cancellation, then shuts down gracefully.
func (a *App) Run(opts ...RunOption) error {
	cfg := runConfig{
		address:         ":8000",
		shutdownTimeout: defaultShutdownTimeout,
		baseCtx:         context.Background(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	server := &http.Server{
		Addr:              cfg.address,
		Handler:           a,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	ctx, cancel := signal.NotifyContext(cfg.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			slog.String("address", ln.Addr().String()),
			slog.Bool("debug", a.debug),
		)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer cancelShutdown()

	a.logger.Info("server shutting down")
	err = server.Shutdown(shutdownCtx)

	for _, hook := range cfg.shutdownHooks {
		if hookErr := hook(shutdownCtx); hookErr != nil && err == nil {
			err = hookErr
		}
	}
	if closeErr := a.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
