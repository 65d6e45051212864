package internal

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// paramKind is the declared type of a path placeholder.
type paramKind int

const (
	paramStr paramKind = iota
	paramInt
	paramFloat
	paramPath
)

// capture returns the regexp capturing group for the kind. The classes are
// part of the routing contract: int is digits only, float is digits with an
// optional fraction, path greedily matches across slashes, and the default
// matches a single path segment.
func (k paramKind) capture() string {
	switch k {
	case paramInt:
		return `(\d+)`
	case paramFloat:
		return `(\d+\.?\d*)`
	case paramPath:
		return `(.+)`
	default:
		return `([^/]+)`
	}
}

func kindOf(name string) paramKind {
	switch name {
	case "int":
		return paramInt
	case "float":
		return paramFloat
	case "path":
		return paramPath
	default:
		return paramStr
	}
}

type paramSpec struct {
	name string
	kind paramKind
}

// Route is an immutable (path template, method, handler) association with
// its compiled matcher.
type Route struct {
	handler HandlerFunc
	matcher *regexp.Regexp
	params  []paramSpec

	// Method is the single HTTP method this entry answers to; registering
	// a path for several methods appends one Route per method.
	Method string

	// Path is the declared template string, kept for URL reconstruction.
	Path string

	// HandlerName identifies the handler for URLFor lookups.
	HandlerName string
}

// Params holds the typed path parameters extracted by a route match:
// int placeholders as int, float as float64, everything else as string.
type Params map[string]any

// String returns the named parameter as a string, stringifying typed
// values. Missing parameters return "".
func (p Params) String(name string) string {
	v, ok := p[name]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the named parameter if it was declared <int:...>, else 0.
func (p Params) Int(name string) int {
	v, _ := p[name].(int)
	return v
}

// Float returns the named parameter if it was declared <float:...>, else 0.
func (p Params) Float(name string) float64 {
	v, _ := p[name].(float64)
	return v
}

var methodSet = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "DELETE": {},
	"PATCH": {}, "HEAD": {}, "OPTIONS": {},
}

var placeholderRe = regexp.MustCompile(`<(?:(int|float|path|str):)?([A-Za-z_][A-Za-z0-9_]*)>`)

// Router matches request paths against an ordered route list.
//
// The list is append-only and resolution is first-match-in-registration-
// order: overlapping templates resolve to whichever was registered first,
// never to a "best" match. Registration must finish before the first
// Match; afterwards the router is read-only and safe for concurrent use.
type Router struct {
	routes []Route
}

func NewRouter() *Router {
	return &Router{}
}

// Add compiles a path template and registers one route per method.
// Placeholders take the form <name> or <type:name> with type one of
// int, float, path, str. Methods default to GET.
func (rt *Router) Add(path string, handler HandlerFunc, methods ...string) error {
	if len(methods) == 0 {
		methods = []string{"GET"}
	}

	matcher, params, err := compilePath(path)
	if err != nil {
		return err
	}

	name := HandlerName(handler)
	for _, method := range methods {
		method = strings.ToUpper(method)
		if _, ok := methodSet[method]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMethod, method)
		}
		rt.routes = append(rt.routes, Route{
			handler:     handler,
			matcher:     matcher,
			params:      params,
			Method:      method,
			Path:        path,
			HandlerName: name,
		})
	}
	return nil
}

// Match resolves a request path and method to a handler and its typed
// parameters. A miss reports false whether the path or the method failed
// to match; callers treat both as not found.
func (rt *Router) Match(path, method string) (HandlerFunc, Params, bool) {
	for i := range rt.routes {
		r := &rt.routes[i]
		if r.Method != method {
			continue
		}
		m := r.matcher.FindStringSubmatch(path)
		if m == nil {
			continue
		}

		params := make(Params, len(r.params))
		for j, spec := range r.params {
			params[spec.name] = coerce(m[j+1], spec.kind)
		}
		return r.handler, params, true
	}
	return nil, nil, false
}

// URLFor reconstructs a URL for the first route registered under the named
// handler, substituting each placeholder from params. Substituted values
// are not validated against the placeholder's pattern, so a non-numeric
// value in an int slot yields a URL no route will match.
func (rt *Router) URLFor(handlerName string, params map[string]any) (string, error) {
	for i := range rt.routes {
		r := &rt.routes[i]
		if r.HandlerName != handlerName {
			continue
		}

		var missing error
		url := placeholderRe.ReplaceAllStringFunc(r.Path, func(ph string) string {
			m := placeholderRe.FindStringSubmatch(ph)
			v, ok := params[m[2]]
			if !ok {
				missing = fmt.Errorf("%w: %q for %q", ErrMissingURLParam, m[2], handlerName)
				return ph
			}
			return fmt.Sprint(v)
		})
		if missing != nil {
			return "", missing
		}
		return url, nil
	}
	return "", fmt.Errorf("%w: %q", ErrHandlerNotFound, handlerName)
}

// Routes returns the number of registered routes.
func (rt *Router) Routes() int {
	return len(rt.routes)
}

// compilePath turns a path template into an anchored regexp plus the
// ordered parameter specs, rejecting duplicate parameter names.
func compilePath(path string) (*regexp.Regexp, []paramSpec, error) {
	var (
		params []paramSpec
		seen   = map[string]struct{}{}
		b      strings.Builder
		last   int
	)
	b.WriteString("^")
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(path, -1) {
		b.WriteString(regexp.QuoteMeta(path[last:m[0]]))

		kind := paramStr
		if m[2] >= 0 {
			kind = kindOf(path[m[2]:m[3]])
		}
		name := path[m[4]:m[5]]
		if _, dup := seen[name]; dup {
			return nil, nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, path)
		}
		seen[name] = struct{}{}

		params = append(params, paramSpec{name: name, kind: kind})
		b.WriteString(kind.capture())
		last = m[1]
	}
	b.WriteString(regexp.QuoteMeta(path[last:]))
	b.WriteString("$")

	matcher, err := regexp.Compile(b.String())
	if err != nil {
		return nil, nil, fmt.Errorf("internal: compile route %q: %w", path, err)
	}
	return matcher, params, nil
}

// coerce converts a captured segment to its declared type. The capture
// classes guarantee parse success, so conversion errors fall back to the
// raw string.
func coerce(raw string, kind paramKind) any {
	switch kind {
	case paramInt:
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	case paramFloat:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}

// HandlerName derives a stable identifier for a handler func: the bare
// function name without package path or method-value suffix.
func HandlerName(h HandlerFunc) string {
	name := runtime.FuncForPC(reflect.ValueOf(h).Pointer()).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
