package session

import "context"

// Store defines the interface for session persistence, keyed by session id.
// Implementations must make each operation atomic per key; concurrent
// requests for the same session id resolve last-writer-wins.
type Store interface {
	// Get retrieves the stored values for a session id.
	// Returns ErrNotFound if the session doesn't exist.
	Get(ctx context.Context, id string) (map[string]any, error)

	// Set replaces the stored values for a session id.
	Set(ctx context.Context, id string, values map[string]any) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error
}
