package internal

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html"
	"net/http"
	"runtime/debug"
	"strings"
	"time"
)

// ReloadPath is the reserved probe path polled by the live-reload client.
const ReloadPath = "/__mallo_reload__"

//go:embed defaults/404.html defaults/500.html
var defaultPages embed.FS

const liveReloadScript = `
<script>
(function () {
  var token = null;
  function checkReload() {
    fetch('/__mallo_reload__?t=' + Date.now(), { cache: 'no-store' })
      .then(function (res) { return res.text(); })
      .then(function (value) {
        value = value.trim();
        if (token === null) {
          token = value;
          return;
        }
        if (token !== value) {
          window.location.reload();
        }
      })
      .catch(function () {});
  }
  setInterval(checkReload, 1000);
  checkReload();
})();
</script>
`

// ServeHTTP is the host server boundary: it builds the framework request,
// runs the dispatch pipeline, and writes the finished response.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	req := NewRequest(r)

	resp := a.Dispatch(ctx, req)

	if a.accessLog && req.Path != ReloadPath {
		a.logger.InfoContext(ctx, "request",
			"method", req.Method,
			"path", req.Path,
			"status", resp.StatusLine(),
			"duration", time.Since(start).String(),
		)
	}
	if err := resp.WriteTo(w); err != nil {
		a.logger.ErrorContext(ctx, "response write failed", "error", err)
	}
}

// Dispatch runs the per-request pipeline and returns the finished
// response. Stages run in a fixed order; earlier stages short-circuit the
// route resolution but every response still flows through the security
// header, after-hook, and session finalization stages.
func (a *App) Dispatch(ctx context.Context, req *Request) *Response {
	a.sessions.Load(ctx, req)

	resp, probe := a.respond(ctx, req)

	if a.debug && !probe {
		setNoCacheHeaders(resp)
		if a.liveReload {
			a.injectLiveReload(resp)
		}
	}

	if a.securityHeaders {
		applySecurityHeaders(resp)
	}

	for _, fn := range a.afterRequest {
		if replacement := fn(req, resp); replacement != nil {
			resp = replacement
		}
	}

	a.sessions.Finalize(ctx, req, resp)
	return resp
}

// respond produces the pre-finalization response: the reload probe, a
// short-circuiting before hook, a CSRF failure, a routed handler result,
// or an error page. probe marks the reload probe, which is exempt from the
// debug cache and injection transforms.
func (a *App) respond(ctx context.Context, req *Request) (resp *Response, probe bool) {
	if req.Path == ReloadPath {
		return NewResponse(a.reloadToken,
			WithContentType("text/plain"),
			WithHeader("Cache-Control", "no-store, no-cache, must-revalidate"),
			WithHeader("Pragma", "no-cache"),
			WithHeader("Expires", "0"),
		), true
	}

	for _, fn := range a.beforeRequest {
		if resp := fn(req); resp != nil {
			return resp, false
		}
	}

	if a.csrfProtect && !a.sessions.VerifyCSRF(req) {
		return NewResponse("<h1>403 Forbidden</h1>", WithStatus(http.StatusForbidden)), false
	}

	handler, params, ok := a.router.Match(req.Path, req.Method)
	if !ok {
		return a.errorResponse(ctx, req, http.StatusNotFound), false
	}

	result, err := a.invoke(handler, req, params)
	if err != nil {
		return a.failureResponse(ctx, req, err), false
	}
	return Normalize(result), false
}

// invoke runs a handler inside a recover boundary so one failing handler
// never takes down the process.
func (a *App) invoke(h HandlerFunc, req *Request, params Params) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal: handler panic: %v\n%s", rec, debug.Stack())
		}
	}()
	return h(req, params)
}

// failureResponse renders a handler failure. Debug mode surfaces the full
// error detail in the body; otherwise the registered handler or template
// for the status renders a generic page and the detail stays server-side.
func (a *App) failureResponse(ctx context.Context, req *Request, err error) *Response {
	status := http.StatusInternalServerError
	var he *HTTPError
	if errors.As(err, &he) && he.Code != 0 {
		status = he.Code
	}

	a.logger.ErrorContext(ctx, "handler failed",
		"method", req.Method, "path", req.Path, "error", err)

	if a.debug && status == http.StatusInternalServerError {
		body := fmt.Sprintf("<h1>Error</h1><pre>%s</pre>", html.EscapeString(err.Error()))
		return NewResponse(body, WithStatus(status))
	}
	return a.errorResponse(ctx, req, status)
}

// errorResponse builds the response for an error status: a registered
// handler first, then a registered template file, then the built-in page.
func (a *App) errorResponse(ctx context.Context, req *Request, status int) *Response {
	if h, ok := a.errorHandlers[status]; ok {
		result, err := h(req)
		if err != nil {
			a.logger.ErrorContext(ctx, "error handler failed", "status", status, "error", err)
		} else {
			resp := Normalize(result)
			if resp.Status == http.StatusOK {
				resp.Status = status
			}
			return resp
		}
	}

	if path, ok := a.errorTemplates[status]; ok {
		return NewResponse(a.templates.RenderFile(path, nil), WithStatus(status))
	}

	if page, err := defaultPages.ReadFile(fmt.Sprintf("defaults/%d.html", status)); err == nil {
		return NewResponse(string(page), WithStatus(status))
	}

	return NewResponse(fmt.Sprintf("<h1>%s</h1>", StatusLine(status)), WithStatus(status))
}

// injectLiveReload adds the polling snippet to textual HTML bodies, before
// the closing body tag when present. Bodies already carrying the probe
// marker are left alone so the script is never injected twice.
func (a *App) injectLiveReload(resp *Response) {
	if !strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "text/html") {
		return
	}
	body, ok := resp.BodyString()
	if !ok || strings.Contains(body, "__mallo_reload__") {
		return
	}

	if strings.Contains(body, "</body>") {
		body = strings.Replace(body, "</body>", liveReloadScript+"\n</body>", 1)
	} else {
		body += liveReloadScript
	}
	resp.SetBody(body)
}

// setNoCacheHeaders prevents browser caching while debugging.
func setNoCacheHeaders(resp *Response) {
	resp.Header.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	resp.Header.Set("Pragma", "no-cache")
	resp.Header.Set("Expires", "0")
}

// applySecurityHeaders sets the baseline headers without overwriting any
// a handler already set.
func applySecurityHeaders(resp *Response) {
	setIfAbsent(resp, "X-Content-Type-Options", "nosniff")
	setIfAbsent(resp, "X-Frame-Options", "DENY")
	setIfAbsent(resp, "Referrer-Policy", "same-origin")
}

func setIfAbsent(resp *Response, key, value string) {
	if resp.Header.Get(key) == "" {
		resp.Header.Set(key, value)
	}
}
