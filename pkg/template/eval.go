package template

import (
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"
)

var exprRe = regexp.MustCompile(`\{\{(.*?)\}\}`)

func render(nodes []node, s *scope, escape bool) string {
	var b strings.Builder
	renderInto(&b, nodes, s, escape)
	return b.String()
}

func renderInto(b *strings.Builder, nodes []node, s *scope, escape bool) {
	for _, n := range nodes {
		switch n := n.(type) {
		case textNode:
			b.WriteString(interpolate(n.text, s, escape))
		case ifNode:
			if evalCond(n.cond, s) {
				renderInto(b, n.children, s, escape)
			}
		case forNode:
			name, source, ok := strings.Cut(n.expr, " in ")
			if !ok {
				continue
			}
			name = strings.TrimSpace(name)
			for _, item := range iterate(resolve(strings.TrimSpace(source), s)) {
				renderInto(b, n.children, s.child(name, item), escape)
			}
		}
	}
}

// interpolate substitutes every {{ expr }} occurrence in a text run.
func interpolate(text string, s *scope, escape bool) string {
	return exprRe.ReplaceAllStringFunc(text, func(m string) string {
		expr := strings.TrimSpace(m[2 : len(m)-2])

		parts := strings.Split(expr, "|")
		raw := false
		for _, f := range parts[1:] {
			if strings.TrimSpace(f) == "safe" {
				raw = true
			}
		}

		out := stringify(resolve(strings.TrimSpace(parts[0]), s))
		if escape && !raw {
			out = html.EscapeString(out)
		}
		return out
	})
}

// evalCond evaluates an if expression: a single dotted path with an
// optional leading "not".
func evalCond(expr string, s *scope) bool {
	expr = strings.TrimSpace(expr)
	if rest, ok := strings.CutPrefix(expr, "not "); ok {
		return !truthy(resolve(strings.TrimSpace(rest), s))
	}
	return truthy(resolve(expr, s))
}

// resolve walks a dotted path through the scope. Map keys and exported
// struct fields are traversed; a missing segment at any depth yields the
// empty string rather than an error.
func resolve(path string, s *scope) any {
	segs := strings.Split(path, ".")
	cur, ok := s.lookup(segs[0])
	if !ok {
		return ""
	}
	for _, seg := range segs[1:] {
		cur, ok = field(cur, seg)
		if !ok {
			return ""
		}
	}
	return cur
}

func field(v any, name string) (any, bool) {
	if m, ok := v.(map[string]any); ok {
		got, ok := m[name]
		return got, ok
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		got := rv.MapIndex(reflect.ValueOf(name))
		if !got.IsValid() {
			return nil, false
		}
		return got.Interface(), true
	case reflect.Struct:
		got := rv.FieldByName(name)
		if !got.IsValid() || !got.CanInterface() {
			return nil, false
		}
		return got.Interface(), true
	}
	return nil, false
}

// iterate yields the elements of a loop source. Slices and arrays yield
// their elements, strings yield single-character strings, and anything
// else, nil included, yields nothing.
func iterate(v any) []any {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		items := make([]any, 0, len(s))
		for _, r := range s {
			items = append(items, string(r))
		}
		return items
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, rv.Index(i).Interface())
		}
		return items
	}
	return nil
}

// truthy reports whether a value counts as true in an if condition:
// nil, false, zero numbers, and empty strings or containers are false.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	switch v := v.(type) {
	case bool:
		return v
	case string:
		return v != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
