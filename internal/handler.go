package internal

// HandlerFunc is the signature for route handlers.
//
// The returned value becomes the response body: a *Response passes through
// unchanged, a string or []byte renders as-is, and any other value is
// serialized to JSON. Returning a non-nil error produces an error response
// (an *HTTPError chooses the status, anything else renders as 500).
//
// Example:
//
//	app.Get("/greet/<name>", func(r *mallo.Request, p mallo.Params) (any, error) {
//	    return "Hello, " + p.String("name"), nil
//	})
type HandlerFunc func(r *Request, p Params) (any, error)

// BeforeRequestFunc runs before routing. It may mutate the request, or
// return a non-nil *Response to short-circuit the remaining hooks and the
// router.
type BeforeRequestFunc func(r *Request) *Response

// AfterRequestFunc runs after the handler with the current response.
// Returning a non-nil *Response replaces it; nil keeps the current one.
type AfterRequestFunc func(r *Request, resp *Response) *Response

// ErrorHandlerFunc renders the response for a given error status, taking
// the place of the built-in error page.
type ErrorHandlerFunc func(r *Request) (any, error)
