package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
)

// Response is a mutable in-flight HTTP response. Pipeline stages mutate it
// in place until it is written to the host server.
//
// The body is either a string, raw bytes, or any other value serialized to
// JSON at the wire boundary.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Header holds the response headers.
	Header http.Header

	body any
}

// ResponseOption configures a Response at construction.
type ResponseOption func(*Response)

// WithStatus sets the status code.
func WithStatus(code int) ResponseOption {
	return func(r *Response) {
		r.Status = code
	}
}

// WithHeader sets a header.
func WithHeader(key, value string) ResponseOption {
	return func(r *Response) {
		r.Header.Set(key, value)
	}
}

// WithContentType sets the Content-Type header.
func WithContentType(ct string) ResponseOption {
	return WithHeader("Content-Type", ct)
}

// NewResponse creates a 200 response for body.
//
// If no Content-Type is set by an option, one is inferred from the body:
// maps, slices, and structs imply application/json, everything else
// text/html. Every response carries a Server header.
func NewResponse(body any, opts ...ResponseOption) *Response {
	r := &Response{
		Status: http.StatusOK,
		Header: http.Header{},
		body:   body,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.Header.Get("Content-Type") == "" {
		if isStructured(body) {
			r.Header.Set("Content-Type", "application/json")
		} else {
			r.Header.Set("Content-Type", "text/html")
		}
	}
	r.Header.Set("Server", "Mallo")
	return r
}

// NewJSON creates a response whose body serializes to JSON.
func NewJSON(data any, opts ...ResponseOption) *Response {
	opts = append([]ResponseOption{WithContentType("application/json")}, opts...)
	return NewResponse(data, opts...)
}

// NewRedirect creates a 302 redirect to location. Pass WithStatus for a
// permanent redirect.
func NewRedirect(location string, opts ...ResponseOption) *Response {
	opts = append([]ResponseOption{
		WithStatus(http.StatusFound),
		WithHeader("Location", location),
	}, opts...)
	return NewResponse("", opts...)
}

// Normalize converts a handler's return value into a Response: an existing
// *Response passes through, nil becomes an empty 200, and anything else
// becomes the body of a fresh response with an inferred content type.
func Normalize(v any) *Response {
	switch v := v.(type) {
	case *Response:
		return v
	case nil:
		return NewResponse("")
	default:
		return NewResponse(v)
	}
}

// Body returns the serialized body bytes: strings and byte slices as-is,
// anything else JSON-encoded.
func (r *Response) Body() ([]byte, error) {
	switch b := r.body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(b), nil
	case []byte:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBodyNotRenderable, err)
		}
		return data, nil
	}
}

// BodyString returns the body as text when it is textual, with ok=false
// for byte or structured bodies. Transforms that rewrite HTML use it to
// leave non-textual bodies alone.
func (r *Response) BodyString() (string, bool) {
	s, ok := r.body.(string)
	return s, ok
}

// SetBody replaces the body.
func (r *Response) SetBody(body any) {
	r.body = body
}

// SetCookie appends a Set-Cookie header.
func (r *Response) SetCookie(c *http.Cookie) {
	r.Header.Add("Set-Cookie", c.String())
}

// DeleteCookie appends a Set-Cookie header that expires the named cookie
// immediately.
func (r *Response) DeleteCookie(name, path string) {
	if path == "" {
		path = "/"
	}
	r.SetCookie(&http.Cookie{Name: name, Path: path, MaxAge: -1})
}

// statusLines maps status codes to their canonical reason phrases for
// logging and the host wire format.
var statusLines = map[int]string{
	200: "200 OK",
	201: "201 Created",
	204: "204 No Content",
	301: "301 Moved Permanently",
	302: "302 Found",
	304: "304 Not Modified",
	400: "400 Bad Request",
	401: "401 Unauthorized",
	403: "403 Forbidden",
	404: "404 Not Found",
	405: "405 Method Not Allowed",
	418: "418 I'm a teapot",
	500: "500 Internal Server Error",
	502: "502 Bad Gateway",
	503: "503 Service Unavailable",
}

// StatusLine returns a status code with its canonical reason phrase, or
// "<code> Unknown" for unmapped codes.
func StatusLine(code int) string {
	if line, ok := statusLines[code]; ok {
		return line
	}
	return fmt.Sprintf("%d Unknown", code)
}

// StatusLine returns the response's status line text.
func (r *Response) StatusLine() string {
	return StatusLine(r.Status)
}

// WriteTo writes the finished response to the host server boundary.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	body, err := r.Body()
	if err != nil {
		// Serialization failed after the pipeline completed; the only
		// safe output left is a bare 500.
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return err
	}

	for key, values := range r.Header {
		w.Header()[key] = values
	}
	w.WriteHeader(r.Status)
	_, err = w.Write(body)
	return err
}

// isStructured reports whether a body value implies a JSON content type.
func isStructured(body any) bool {
	switch body.(type) {
	case nil, string, []byte:
		return false
	}
	switch reflect.ValueOf(body).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return true
	}
	return false
}
