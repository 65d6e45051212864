package session

import "errors"

// Session errors.
var (
	// ErrNotConfigured is returned when session functionality is used but no
	// secret key was configured on the app.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrNotFound is returned when a session does not exist in the store.
	ErrNotFound = errors.New("session: not found")
)
