package internal

import (
	"log/slog"

	"github.com/mallo-web/mallo/pkg/logger"
	"github.com/mallo-web/mallo/pkg/session"
)

// Option configures the application.
type Option func(*App)

// WithSecretKey sets the key used to sign session cookies. Sessions and
// CSRF protection stay disabled without it.
func WithSecretKey(secret string) Option {
	return func(a *App) {
		a.secretKey = secret
	}
}

// WithDebug overrides the MALLO_DEBUG environment default. Debug mode
// enables diagnostic 500 bodies, no-cache headers, and template reload.
func WithDebug(debug bool) Option {
	return func(a *App) {
		a.debug = debug
	}
}

// WithLiveReload overrides the MALLO_LIVE_RELOAD environment default.
// Live reload only activates in debug mode.
func WithLiveReload(enabled bool) Option {
	return func(a *App) {
		a.liveReload = enabled
	}
}

// WithCSRFProtection toggles forgery-token enforcement on unsafe methods.
// Enabled by default, effective only when a secret key is configured.
func WithCSRFProtection(enabled bool) Option {
	return func(a *App) {
		a.csrfProtect = enabled
	}
}

// WithAutoEscape toggles HTML escaping of template values. On by default.
func WithAutoEscape(enabled bool) Option {
	return func(a *App) {
		a.autoEscape = enabled
	}
}

// WithTemplateReload overrides the template cache's reload checking, which
// otherwise follows debug mode.
func WithTemplateReload(enabled bool) Option {
	return func(a *App) {
		a.templateReload = &enabled
	}
}

// WithSecurityHeaders toggles the baseline security headers applied to
// every response. On by default.
func WithSecurityHeaders(enabled bool) Option {
	return func(a *App) {
		a.securityHeaders = enabled
	}
}

// WithAccessLog toggles the per-request log line. On by default, though
// the default logger discards it.
func WithAccessLog(enabled bool) Option {
	return func(a *App) {
		a.accessLog = enabled
	}
}

// WithSessionStore replaces the default in-memory session store.
//
// Example:
//
//	mallo.New(
//	    mallo.WithSecretKey(secret),
//	    mallo.WithSessionStore(session.NewRedisStore(client)),
//	)
func WithSessionStore(store session.Store) Option {
	return func(a *App) {
		a.sessionStore = store
	}
}

// WithSessionCookieName sets the session cookie name. Default is
// "mallo_session".
func WithSessionCookieName(name string) Option {
	return func(a *App) {
		if name != "" {
			a.sessionCookie = name
		}
	}
}

// WithBeforeRequest appends pre-routing hooks, run in order.
func WithBeforeRequest(fns ...BeforeRequestFunc) Option {
	return func(a *App) {
		a.beforeRequest = append(a.beforeRequest, fns...)
	}
}

// WithAfterRequest appends post-handler hooks, run in order.
func WithAfterRequest(fns ...AfterRequestFunc) Option {
	return func(a *App) {
		a.afterRequest = append(a.afterRequest, fns...)
	}
}

// WithErrorHandler registers a handler rendering responses for an error
// status, replacing the built-in page for that status.
func WithErrorHandler(status int, h ErrorHandlerFunc) Option {
	return func(a *App) {
		a.errorHandlers[status] = h
	}
}

// WithErrorTemplate renders the given template file for an error status
// instead of the built-in page.
func WithErrorTemplate(status int, templatePath string) Option {
	return func(a *App) {
		a.errorTemplates[status] = templatePath
	}
}

// WithLogger enables JSON logging to stdout with optional context
// extractors.
func WithLogger(extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...)
	}
}

// WithCustomLogger sets a custom slog logger.
func WithCustomLogger(log *slog.Logger) Option {
	return func(a *App) {
		if log != nil {
			a.logger = log
		}
	}
}
