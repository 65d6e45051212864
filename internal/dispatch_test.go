package internal_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mallo-web/mallo/internal"
)

func serve(t *testing.T, app *internal.App, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, r)
	return rec
}

func greetHandler(r *internal.Request, p internal.Params) (any, error) {
	return "Hello, " + p.String("name"), nil
}

func TestDispatch_EndToEnd(t *testing.T) {
	t.Parallel()

	app := internal.New()
	t.Cleanup(func() { _ = app.Close() })
	app.Get("/greet/<name>", greetHandler)

	rec := serve(t, app, httptest.NewRequest("GET", "/greet/Ada", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Hello, Ada", rec.Body.String())

	rec = serve(t, app, httptest.NewRequest("GET", "/greet/Ada/extra", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDispatch_NotFoundDefaultPage(t *testing.T) {
	t.Parallel()

	app := internal.New()
	t.Cleanup(func() { _ = app.Close() })

	rec := serve(t, app, httptest.NewRequest("GET", "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "404 Not Found")
}

func TestDispatch_CustomErrorHandler(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithErrorHandler(http.StatusNotFound, func(r *internal.Request) (any, error) {
			return "lost: " + r.Path, nil
		}),
	)
	t.Cleanup(func() { _ = app.Close() })

	rec := serve(t, app, httptest.NewRequest("GET", "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "lost: /nope", rec.Body.String())
}

func TestDispatch_HandlerError(t *testing.T) {
	t.Parallel()

	t.Run("default mode hides detail", func(t *testing.T) {
		t.Parallel()
		app := internal.New(internal.WithDebug(false))
		t.Cleanup(func() { _ = app.Close() })
		app.Get("/boom", func(r *internal.Request, p internal.Params) (any, error) {
			return nil, errors.New("database exploded")
		})

		rec := serve(t, app, httptest.NewRequest("GET", "/boom", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotContains(t, rec.Body.String(), "database exploded")
		require.Contains(t, rec.Body.String(), "500 Internal Server Error")
	})

	t.Run("debug mode surfaces detail", func(t *testing.T) {
		t.Parallel()
		app := internal.New(internal.WithDebug(true), internal.WithLiveReload(false))
		t.Cleanup(func() { _ = app.Close() })
		app.Get("/boom", func(r *internal.Request, p internal.Params) (any, error) {
			return nil, errors.New("database exploded")
		})

		rec := serve(t, app, httptest.NewRequest("GET", "/boom", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "database exploded")
	})

	t.Run("panic is recovered", func(t *testing.T) {
		t.Parallel()
		app := internal.New()
		t.Cleanup(func() { _ = app.Close() })
		app.Get("/panic", func(r *internal.Request, p internal.Params) (any, error) {
			panic("unexpected")
		})

		rec := serve(t, app, httptest.NewRequest("GET", "/panic", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("http error picks its status", func(t *testing.T) {
		t.Parallel()
		app := internal.New()
		t.Cleanup(func() { _ = app.Close() })
		app.Get("/teapot", func(r *internal.Request, p internal.Params) (any, error) {
			return nil, internal.NewHTTPError(http.StatusTeapot, "short and stout")
		})

		rec := serve(t, app, httptest.NewRequest("GET", "/teapot", nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
		require.Contains(t, rec.Body.String(), "418 I'm a teapot")
	})
}

func TestDispatch_JSONNormalization(t *testing.T) {
	t.Parallel()

	app := internal.New()
	t.Cleanup(func() { _ = app.Close() })
	app.Get("/api", func(r *internal.Request, p internal.Params) (any, error) {
		return map[string]any{"ok": true}, nil
	})

	rec := serve(t, app, httptest.NewRequest("GET", "/api", nil))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestDispatch_Hooks(t *testing.T) {
	t.Parallel()

	t.Run("before hook short-circuits", func(t *testing.T) {
		t.Parallel()
		app := internal.New(
			internal.WithBeforeRequest(func(r *internal.Request) *internal.Response {
				return internal.NewRedirect("/login")
			}),
		)
		t.Cleanup(func() { _ = app.Close() })
		app.Get("/private", func(r *internal.Request, p internal.Params) (any, error) {
			t.Fatal("handler must not run")
			return nil, nil
		})

		rec := serve(t, app, httptest.NewRequest("GET", "/private", nil))
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("after hook replaces response", func(t *testing.T) {
		t.Parallel()
		app := internal.New(
			internal.WithAfterRequest(func(r *internal.Request, resp *internal.Response) *internal.Response {
				resp.Header.Set("X-Hooked", "1")
				return nil // keep current
			}),
			internal.WithAfterRequest(func(r *internal.Request, resp *internal.Response) *internal.Response {
				replacement := internal.NewResponse("replaced")
				replacement.Header.Set("X-Hooked", resp.Header.Get("X-Hooked"))
				return replacement
			}),
		)
		t.Cleanup(func() { _ = app.Close() })
		app.Get("/", func(r *internal.Request, p internal.Params) (any, error) {
			return "original", nil
		})

		rec := serve(t, app, httptest.NewRequest("GET", "/", nil))
		require.Equal(t, "replaced", rec.Body.String())
		require.Equal(t, "1", rec.Header().Get("X-Hooked"))
	})
}

func TestDispatch_SecurityHeaders(t *testing.T) {
	t.Parallel()

	app := internal.New()
	t.Cleanup(func() { _ = app.Close() })
	app.Get("/", func(r *internal.Request, p internal.Params) (any, error) {
		return "ok", nil
	})
	app.Get("/framed", func(r *internal.Request, p internal.Params) (any, error) {
		return internal.NewResponse("ok", internal.WithHeader("X-Frame-Options", "SAMEORIGIN")), nil
	})

	rec := serve(t, app, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "same-origin", rec.Header().Get("Referrer-Policy"))

	// A handler-set header is never overwritten.
	rec = serve(t, app, httptest.NewRequest("GET", "/framed", nil))
	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
}

func TestDispatch_CSRF(t *testing.T) {
	t.Parallel()

	newApp := func(t *testing.T) *internal.App {
		app := internal.New(internal.WithSecretKey(testSecret))
		t.Cleanup(func() { _ = app.Close() })
		app.Post("/submit", func(r *internal.Request, p internal.Params) (any, error) {
			return "submitted", nil
		})
		app.Get("/form", func(r *internal.Request, p internal.Params) (any, error) {
			return r.CSRFToken, nil
		})
		return app
	}

	t.Run("post without token is forbidden", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, newApp(t), httptest.NewRequest("POST", "/submit", nil))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("post with session token succeeds", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)

		// First request establishes the session and reveals the token.
		rec := serve(t, app, httptest.NewRequest("GET", "/form", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		token := rec.Body.String()
		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies)

		r := httptest.NewRequest("POST", "/submit", nil)
		r.Header.Set("X-Csrf-Token", token)
		for _, c := range cookies {
			r.AddCookie(c)
		}
		rec = serve(t, app, r)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "submitted", rec.Body.String())
	})

	t.Run("form field token channel", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)

		rec := serve(t, app, httptest.NewRequest("GET", "/form", nil))
		token := rec.Body.String()
		cookies := rec.Result().Cookies()

		form := url.Values{"csrf_token": {token}}
		r := httptest.NewRequest("POST", "/submit", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range cookies {
			r.AddCookie(c)
		}
		rec = serve(t, app, r)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("get never requires a token", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, newApp(t), httptest.NewRequest("GET", "/form", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disabled protection skips the check", func(t *testing.T) {
		t.Parallel()
		app := internal.New(
			internal.WithSecretKey(testSecret),
			internal.WithCSRFProtection(false),
		)
		t.Cleanup(func() { _ = app.Close() })
		app.Post("/submit", func(r *internal.Request, p internal.Params) (any, error) {
			return "submitted", nil
		})

		rec := serve(t, app, httptest.NewRequest("POST", "/submit", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestDispatch_DirtyTracking(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithSecretKey(testSecret))
	t.Cleanup(func() { _ = app.Close() })
	app.Get("/", func(r *internal.Request, p internal.Params) (any, error) {
		return "ok", nil
	})

	// The first request mints a session and emits its cookie.
	rec := serve(t, app, httptest.NewRequest("GET", "/", nil))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Replaying the session without writing to it emits no cookie.
	r := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	rec = serve(t, app, r)
	require.Empty(t, rec.Header().Values("Set-Cookie"))
}

func TestDispatch_ReloadProbe(t *testing.T) {
	t.Parallel()

	app := internal.New()
	t.Cleanup(func() { _ = app.Close() })

	rec := serve(t, app, httptest.NewRequest("GET", "/__mallo_reload__", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
	require.NotEmpty(t, rec.Body.String())

	// The token is stable within one process instance.
	rec2 := serve(t, app, httptest.NewRequest("GET", "/__mallo_reload__", nil))
	require.Equal(t, rec.Body.String(), rec2.Body.String())

	// A separate instance rotates the token.
	other := internal.New()
	t.Cleanup(func() { _ = other.Close() })
	rec3 := serve(t, other, httptest.NewRequest("GET", "/__mallo_reload__", nil))
	require.NotEqual(t, rec.Body.String(), rec3.Body.String())
}

func TestDispatch_LiveReloadInjection(t *testing.T) {
	t.Parallel()

	newApp := func(t *testing.T) *internal.App {
		app := internal.New(internal.WithDebug(true), internal.WithLiveReload(true))
		t.Cleanup(func() { _ = app.Close() })
		return app
	}

	t.Run("injects before closing body tag", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)
		app.Get("/", func(r *internal.Request, p internal.Params) (any, error) {
			return "<html><body>hi</body></html>", nil
		})

		rec := serve(t, app, httptest.NewRequest("GET", "/", nil))
		body := rec.Body.String()
		require.Contains(t, body, "__mallo_reload__")
		require.Less(t, strings.Index(body, "__mallo_reload__"), strings.Index(body, "</body>"))
	})

	t.Run("appends when no closing tag", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)
		app.Get("/", func(r *internal.Request, p internal.Params) (any, error) {
			return "plain html", nil
		})

		rec := serve(t, app, httptest.NewRequest("GET", "/", nil))
		require.Contains(t, rec.Body.String(), "__mallo_reload__")
	})

	t.Run("never injects twice", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)
		app.Get("/", func(r *internal.Request, p internal.Params) (any, error) {
			return "<body>already __mallo_reload__ here</body>", nil
		})

		rec := serve(t, app, httptest.NewRequest("GET", "/", nil))
		require.Equal(t, 1, strings.Count(rec.Body.String(), "__mallo_reload__"))
	})

	t.Run("skips non-html bodies", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)
		app.Get("/api", func(r *internal.Request, p internal.Params) (any, error) {
			return map[string]any{"ok": true}, nil
		})

		rec := serve(t, app, httptest.NewRequest("GET", "/api", nil))
		require.NotContains(t, rec.Body.String(), "__mallo_reload__")
	})

	t.Run("debug responses are not cacheable", func(t *testing.T) {
		t.Parallel()
		app := newApp(t)
		app.Get("/", func(r *internal.Request, p internal.Params) (any, error) {
			return "hi", nil
		})

		rec := serve(t, app, httptest.NewRequest("GET", "/", nil))
		require.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
		require.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	})
}
