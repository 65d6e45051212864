// Package mallo is the request-handling core of a small server-side web
// framework: routing with typed path parameters, a minimal template
// language, signed-cookie sessions with CSRF protection, and an ordered
// dispatch pipeline of hooks and safety transforms.
//
// # Quick Start
//
// Create an application with mallo.New(), register routes, and call Run()
// to start the development server:
//
//	app := mallo.New(
//	    mallo.WithSecretKey(os.Getenv("SECRET_KEY")),
//	)
//
//	app.Get("/", func(r *mallo.Request, p mallo.Params) (any, error) {
//	    return "<h1>Hello, Mallo!</h1>", nil
//	})
//
//	app.Get("/post/<int:id>", func(r *mallo.Request, p mallo.Params) (any, error) {
//	    return mallo.NewJSON(map[string]any{"id": p.Int("id")}), nil
//	})
//
//	if err := app.Run(mallo.Address(":8000")); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routing
//
// Path templates declare typed placeholders as <name> or <type:name> with
// type one of int, float, path, str. Matching is first-registered-wins,
// and URLFor reconstructs a URL from a handler's name.
//
// # Handlers
//
// Handlers return whatever is convenient: a *Response passes through, a
// string or []byte renders as the body, and any other value serializes to
// JSON. Errors convert to error pages; an *HTTPError chooses the status.
//
// # Templates
//
// The pkg/template engine renders {{ expr }} interpolation with optional
// |safe filtering, plus {% if %} and {% for %} blocks. Use
// App.RenderTemplate to render files through the app's configured engine.
//
// # Sessions
//
// With a secret key configured, each visitor gets a session identified by
// a signed cookie. Handlers read and write r.Session; dirty sessions
// persist automatically and unsafe methods require the CSRF token from
// r.CSRFToken via header, form field, or JSON field.
package mallo
