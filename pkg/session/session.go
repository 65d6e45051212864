package session

import (
	"fmt"
	"maps"
)

// Session is the request-scoped working copy of a visitor's server-held
// state. Mutations mark the session dirty; the stored copy is only touched
// when the dispatch pipeline persists a dirty session at finalization, so a
// failing handler never leaves a half-committed session behind.
type Session struct {
	Values map[string]any
	ID     string

	dirty bool
	isNew bool
}

// New creates an empty session with the given id.
func New(id string) *Session {
	return &Session{
		ID:     id,
		Values: make(map[string]any),
		isNew:  true,
	}
}

// FromValues creates a session working copy from stored values.
// The values are copied so mutations never reach the store directly.
func FromValues(id string, values map[string]any) *Session {
	s := &Session{
		ID:     id,
		Values: make(map[string]any, len(values)),
	}
	maps.Copy(s.Values, values)
	return s
}

// Set stores a value and marks the session dirty.
func (s *Session) Set(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// Get retrieves a value.
func (s *Session) Get(key string) (any, bool) {
	if s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

// Delete removes a value.
// Marks the session dirty only if the key existed.
func (s *Session) Delete(key string) {
	if s.Values == nil {
		return
	}
	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// IsDirty reports whether the working copy diverged from the stored copy.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// MarkDirty forces the session to be persisted at finalization.
func (s *Session) MarkDirty() {
	s.dirty = true
}

// ClearDirty marks the session as clean.
// Called after the store has been updated.
func (s *Session) ClearDirty() {
	s.dirty = false
}

// IsNew reports whether the session was created during this request rather
// than loaded from the store.
func (s *Session) IsNew() bool {
	return s.isNew
}

// Snapshot returns a copy of the current values for persistence.
func (s *Session) Snapshot() map[string]any {
	out := make(map[string]any, len(s.Values))
	maps.Copy(out, s.Values)
	return out
}

// Value is a typed helper to retrieve session values with type safety.
// Returns an error if the key doesn't exist or the type assertion fails.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.Get(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("session: type mismatch for key %q", key)
	}

	return typed, nil
}

// ValueOr is a typed helper that returns a default value if the key doesn't
// exist or the type assertion fails.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return defaultVal
	}
	return val
}
