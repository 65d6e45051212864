package mallo

import (
	"log/slog"

	"github.com/mallo-web/mallo/internal"
	"github.com/mallo-web/mallo/pkg/cookie"
	"github.com/mallo-web/mallo/pkg/logger"
	"github.com/mallo-web/mallo/pkg/session"
	"github.com/mallo-web/mallo/pkg/template"
)

// Type aliases - public API
type (
	// App owns the route list, template engine, session store, and
	// dispatch configuration.
	App = internal.App

	// Request is the framework's view of one HTTP request.
	Request = internal.Request

	// Response is a mutable in-flight HTTP response.
	Response = internal.Response

	// File is an uploaded file part, fully materialized.
	File = internal.File

	// Params holds the typed path parameters extracted by a route match.
	Params = internal.Params

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// BeforeRequestFunc runs before routing and may short-circuit.
	BeforeRequestFunc = internal.BeforeRequestFunc

	// AfterRequestFunc runs after the handler and may replace the
	// response.
	AfterRequestFunc = internal.AfterRequestFunc

	// ErrorHandlerFunc renders the response for an error status.
	ErrorHandlerFunc = internal.ErrorHandlerFunc

	// HTTPError carries an HTTP status code alongside an error.
	HTTPError = internal.HTTPError

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// ResponseOption configures a Response at construction.
	ResponseOption = internal.ResponseOption

	// Context holds the variables available to a template.
	Context = template.Context

	// Session is per-visitor state with dirty tracking.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor
)

// ReloadPath is the reserved probe path polled by the live-reload client.
const ReloadPath = internal.ReloadPath

// New creates a new application with the given options.
//
// Example:
//
//	app := mallo.New(
//	    mallo.WithSecretKey(os.Getenv("SECRET_KEY")),
//	    mallo.WithDebug(true),
//	)
//
//	app.Get("/greet/<name>", func(r *mallo.Request, p mallo.Params) (any, error) {
//	    return "Hello, " + p.String("name"), nil
//	})
//
//	err := app.Run(mallo.Address(":8000"))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// Response constructors

// NewResponse creates a 200 response for body with an inferred content
// type.
func NewResponse(body any, opts ...ResponseOption) *Response {
	return internal.NewResponse(body, opts...)
}

// NewJSON creates a response whose body serializes to JSON.
func NewJSON(data any, opts ...ResponseOption) *Response {
	return internal.NewJSON(data, opts...)
}

// NewRedirect creates a 302 redirect to location.
func NewRedirect(location string, opts ...ResponseOption) *Response {
	return internal.NewRedirect(location, opts...)
}

// WithStatus sets a response's status code.
func WithStatus(code int) ResponseOption {
	return internal.WithStatus(code)
}

// WithHeader sets a response header.
func WithHeader(key, value string) ResponseOption {
	return internal.WithHeader(key, value)
}

// WithContentType sets a response's Content-Type header.
func WithContentType(ct string) ResponseOption {
	return internal.WithContentType(ct)
}

// NewHTTPError creates an HTTPError with the given status code and
// message.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// App options

// WithSecretKey sets the key used to sign session cookies. Sessions and
// CSRF protection stay disabled without it.
func WithSecretKey(secret string) Option {
	return internal.WithSecretKey(secret)
}

// WithDebug overrides the MALLO_DEBUG environment default.
func WithDebug(debug bool) Option {
	return internal.WithDebug(debug)
}

// WithLiveReload overrides the MALLO_LIVE_RELOAD environment default.
func WithLiveReload(enabled bool) Option {
	return internal.WithLiveReload(enabled)
}

// WithCSRFProtection toggles forgery-token enforcement on unsafe methods.
func WithCSRFProtection(enabled bool) Option {
	return internal.WithCSRFProtection(enabled)
}

// WithAutoEscape toggles HTML escaping of template values.
func WithAutoEscape(enabled bool) Option {
	return internal.WithAutoEscape(enabled)
}

// WithTemplateReload overrides the template cache's reload checking,
// which otherwise follows debug mode.
func WithTemplateReload(enabled bool) Option {
	return internal.WithTemplateReload(enabled)
}

// WithSecurityHeaders toggles the baseline security headers.
func WithSecurityHeaders(enabled bool) Option {
	return internal.WithSecurityHeaders(enabled)
}

// WithAccessLog toggles the per-request log line.
func WithAccessLog(enabled bool) Option {
	return internal.WithAccessLog(enabled)
}

// WithSessionStore replaces the default in-memory session store.
//
// Example:
//
//	mallo.New(
//	    mallo.WithSecretKey(secret),
//	    mallo.WithSessionStore(session.NewRedisStore(client)),
//	)
func WithSessionStore(store SessionStore) Option {
	return internal.WithSessionStore(store)
}

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) Option {
	return internal.WithSessionCookieName(name)
}

// WithBeforeRequest appends pre-routing hooks, run in order.
func WithBeforeRequest(fns ...BeforeRequestFunc) Option {
	return internal.WithBeforeRequest(fns...)
}

// WithAfterRequest appends post-handler hooks, run in order.
func WithAfterRequest(fns ...AfterRequestFunc) Option {
	return internal.WithAfterRequest(fns...)
}

// WithErrorHandler registers a handler rendering responses for an error
// status.
func WithErrorHandler(status int, h ErrorHandlerFunc) Option {
	return internal.WithErrorHandler(status, h)
}

// WithErrorTemplate renders the given template file for an error status.
func WithErrorTemplate(status int, templatePath string) Option {
	return internal.WithErrorTemplate(status, templatePath)
}

// WithLogger enables JSON logging to stdout with optional context
// extractors.
func WithLogger(extractors ...ContextExtractor) Option {
	return internal.WithLogger(extractors...)
}

// WithCustomLogger sets a custom slog logger.
//
// Example:
//
//	customLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	mallo.New(
//	    mallo.WithCustomLogger(customLogger),
//	)
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}
