package internal

import (
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/mallo-web/mallo/pkg/logger"
	"github.com/mallo-web/mallo/pkg/session"
	"github.com/mallo-web/mallo/pkg/template"
)

const defaultSessionCookie = "mallo_session"

// App owns the route list, the template engine, the session store, and the
// dispatch configuration. All of this state is per-instance, so multiple
// independent apps can coexist in one process.
//
// Configuration happens through options at construction; route and hook
// registration must finish before the first request is dispatched, after
// which the App is read-only and safe for concurrent requests.
type App struct {
	router    *Router
	templates *template.Engine
	sessions  *SessionManager
	logger    *slog.Logger

	beforeRequest  []BeforeRequestFunc
	afterRequest   []AfterRequestFunc
	errorHandlers  map[int]ErrorHandlerFunc
	errorTemplates map[int]string

	secretKey     string
	sessionCookie string
	sessionStore  session.Store

	// reloadToken identifies this process instance to live-reload polling
	// clients; it changes across restarts.
	reloadToken string

	debug           bool
	liveReload      bool
	csrfProtect     bool
	securityHeaders bool
	accessLog       bool
	autoEscape      bool
	templateReload  *bool
}

// New creates an application with the given options.
//
// Debug and live-reload default from the MALLO_DEBUG and MALLO_LIVE_RELOAD
// environment variables; live-reload is on unless the variable disables it.
// Sessions activate only when a secret key is configured.
func New(opts ...Option) *App {
	envLive, envLiveSet := os.LookupEnv("MALLO_LIVE_RELOAD")

	a := &App{
		router:          NewRouter(),
		logger:          logger.NewNope(),
		errorHandlers:   map[int]ErrorHandlerFunc{},
		errorTemplates:  map[int]string{},
		sessionCookie:   defaultSessionCookie,
		reloadToken:     uuid.NewString(),
		debug:           os.Getenv("MALLO_DEBUG") == "1",
		liveReload:      !envLiveSet || envLive == "1",
		csrfProtect:     true,
		securityHeaders: true,
		accessLog:       true,
		autoEscape:      true,
	}

	for _, opt := range opts {
		opt(a)
	}

	reload := a.debug
	if a.templateReload != nil {
		reload = *a.templateReload
	}
	a.templates = template.New(
		template.WithAutoEscape(a.autoEscape),
		template.WithAutoReload(reload),
	)

	if a.secretKey != "" {
		store := a.sessionStore
		if store == nil {
			store = session.NewMemoryStore()
		}
		a.sessions = NewSessionManager(a.secretKey, store, a.sessionCookie)
		a.sessions.SetLogger(a.logger)
	}

	return a
}

// Handle registers a route. Methods default to GET.
func (a *App) Handle(path string, h HandlerFunc, methods ...string) error {
	return a.router.Add(path, h, methods...)
}

// Get registers a GET route. Registration failures are programmer errors
// and panic, as do the other method shorthands.
func (a *App) Get(path string, h HandlerFunc) {
	a.mustHandle(path, h, "GET")
}

// Post registers a POST route.
func (a *App) Post(path string, h HandlerFunc) {
	a.mustHandle(path, h, "POST")
}

// Put registers a PUT route.
func (a *App) Put(path string, h HandlerFunc) {
	a.mustHandle(path, h, "PUT")
}

// Delete registers a DELETE route.
func (a *App) Delete(path string, h HandlerFunc) {
	a.mustHandle(path, h, "DELETE")
}

func (a *App) mustHandle(path string, h HandlerFunc, method string) {
	if err := a.router.Add(path, h, method); err != nil {
		panic(err)
	}
}

// BeforeRequest appends a pre-routing hook.
func (a *App) BeforeRequest(fn BeforeRequestFunc) {
	a.beforeRequest = append(a.beforeRequest, fn)
}

// AfterRequest appends a post-handler hook.
func (a *App) AfterRequest(fn AfterRequestFunc) {
	a.afterRequest = append(a.afterRequest, fn)
}

// ErrorHandler registers a handler rendering responses for an error
// status.
func (a *App) ErrorHandler(status int, h ErrorHandlerFunc) {
	a.errorHandlers[status] = h
}

// RenderTemplate renders a template file with the app's engine.
func (a *App) RenderTemplate(path string, ctx template.Context) string {
	return a.templates.RenderFile(path, ctx)
}

// URLFor reconstructs a URL for a registered handler by name.
func (a *App) URLFor(handlerName string, params map[string]any) (string, error) {
	return a.router.URLFor(handlerName, params)
}

// Logger returns the app's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Debug reports whether debug mode is on.
func (a *App) Debug() bool {
	return a.debug
}

// Close releases app-held resources.
func (a *App) Close() error {
	return a.templates.Close()
}
