// Package template implements a minimal text template language for HTML
// pages.
//
// The language has two constructs: {{ expr }} interpolation and
// {% if %} / {% for %} blocks. Expressions are dotted paths resolved
// against the render context, interpolated values are HTML-escaped unless
// piped through the safe filter, and block parsing is deliberately lenient
// so a template always renders.
//
//	e := template.New(template.WithAutoReload(true))
//	body := e.RenderFile("views/index.html", template.Context{
//		"title": "Home",
//		"items": []string{"a", "b"},
//	})
//
// Parsed templates are cached by path; with reload checking enabled an
// entry is recompiled when the file's modification time changes.
package template
