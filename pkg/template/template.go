package template

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mallo-web/mallo/pkg/cache"
)

// Context holds the variables available to a template.
type Context = map[string]any

// compiled is a cached template: the parsed node tree plus the source
// file's modification time for reload checking.
type compiled struct {
	mtime time.Time
	nodes []node
}

// Engine parses and renders template files.
//
// Parsed templates are cached per file path. With reload checking enabled a
// cached entry is only reused while the file's modification time is
// unchanged; otherwise the file is recompiled. Concurrent compiles of the
// same path are deduplicated, and a lost race merely wastes one compile.
type Engine struct {
	cache      *cache.Memory[compiled]
	autoEscape bool
	autoReload bool
}

// Option configures the Engine.
type Option func(*Engine)

// WithAutoEscape controls HTML entity escaping of rendered values.
// Enabled by default; values piped through the safe filter are never
// escaped.
func WithAutoEscape(on bool) Option {
	return func(e *Engine) {
		e.autoEscape = on
	}
}

// WithAutoReload controls modification-time checking of cached templates.
// Disabled by default: the first parse of a path is reused for the process
// lifetime.
func WithAutoReload(on bool) Option {
	return func(e *Engine) {
		e.autoReload = on
	}
}

// New creates a template engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		cache:      cache.NewMemory[compiled](),
		autoEscape: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RenderFile renders the template file at path with the given context.
//
// Rendering is total: a missing or unreadable file produces a visible
// placeholder body instead of an error, so broken template references are
// obvious during development rather than silently blank.
func (e *Engine) RenderFile(path string, ctx Context) string {
	fi, err := os.Stat(path)
	if err != nil {
		return notFoundBody(path)
	}

	nodes, err := e.load(path, fi.ModTime())
	if err != nil {
		return notFoundBody(path)
	}

	return render(nodes, newScope(ctx), e.autoEscape)
}

// RenderString renders template source directly, bypassing the cache.
func (e *Engine) RenderString(src string, ctx Context) string {
	return render(parse(tokenize(src)), newScope(ctx), e.autoEscape)
}

// Close releases the template cache.
func (e *Engine) Close() error {
	return e.cache.Close()
}

// load returns the parsed template for path, compiling it on a cache miss
// or when reload checking detects a stale modification time.
func (e *Engine) load(path string, mtime time.Time) ([]node, error) {
	bg := context.Background()

	if c, err := e.cache.Get(bg, path); err == nil {
		if !e.autoReload || c.mtime.Equal(mtime) {
			return c.nodes, nil
		}
		_ = e.cache.Delete(bg, path)
	}

	c, err := cache.GetOrSet(bg, e.cache, path, func(context.Context) (compiled, time.Duration, error) {
		src, err := os.ReadFile(path)
		if err != nil {
			return compiled{}, 0, err
		}
		return compiled{nodes: parse(tokenize(string(src))), mtime: mtime}, 0, nil
	})
	if err != nil {
		return nil, err
	}
	return c.nodes, nil
}

func notFoundBody(path string) string {
	return fmt.Sprintf("<h1>Template not found</h1><p>%s</p>", path)
}

// scope is a lookup chain: loop bodies push a child scope that shadows only
// the loop variable while the parent context stays visible.
type scope struct {
	parent *scope
	vars   Context
}

func newScope(ctx Context) *scope {
	return &scope{vars: ctx}
}

func (s *scope) child(name string, val any) *scope {
	return &scope{parent: s, vars: Context{name: val}}
}

func (s *scope) lookup(name string) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}
