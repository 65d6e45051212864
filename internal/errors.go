package internal

import (
	"errors"
	"fmt"
)

// Router registration and URL reconstruction errors.
var (
	ErrUnknownMethod     = errors.New("internal: unknown HTTP method")
	ErrDuplicateParam    = errors.New("internal: duplicate path parameter")
	ErrHandlerNotFound   = errors.New("internal: no route registered for handler")
	ErrMissingURLParam   = errors.New("internal: missing URL parameter")
	ErrBodyNotRenderable = errors.New("internal: response body cannot be serialized")
)

// HTTPError carries an HTTP status code alongside an error. Handlers return
// it to control the response status; any other error renders as 500.
type HTTPError struct {
	// Err is the underlying error, kept for logging and never exposed to
	// clients outside debug mode.
	Err error

	// Message is the user-facing error message.
	Message string

	// Code is the HTTP status code.
	Code int
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("http error %d", e.Code)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

// WrapHTTPError attaches a status code to an existing error.
func WrapHTTPError(code int, err error) *HTTPError {
	return &HTTPError{Code: code, Err: err}
}
