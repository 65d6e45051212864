package internal

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mallo-web/mallo/pkg/cookie"
	"github.com/mallo-web/mallo/pkg/session"
)

const csrfTokenKey = "csrf_token"

// SessionManager derives a per-visitor session from a signed cookie,
// exposes it on the request, and persists it back at finalization.
//
// A nil *SessionManager is valid and disables sessions entirely; the app
// only constructs one when a secret key is configured.
type SessionManager struct {
	cookies    *cookie.Manager
	store      session.Store
	logger     *slog.Logger
	cookieName string
}

// NewSessionManager creates a session manager signing cookies with secret
// and persisting values in store.
func NewSessionManager(secret string, store session.Store, cookieName string) *SessionManager {
	return &SessionManager{
		cookies:    cookie.New(cookie.WithSecret(secret)),
		store:      store,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		cookieName: cookieName,
	}
}

// SetLogger replaces the manager's logger.
func (m *SessionManager) SetLogger(log *slog.Logger) {
	if log != nil {
		m.logger = log
	}
}

// Load attaches a session to the request. An absent or tampered cookie
// mints a fresh session id; a store failure degrades to an empty session
// rather than failing the request. The CSRF token is lazily minted into
// the session, which marks a brand-new session dirty so its cookie is
// emitted at finalization.
func (m *SessionManager) Load(ctx context.Context, req *Request) {
	if m == nil {
		return
	}

	id, err := m.cookies.GetSigned(req.raw, m.cookieName)
	if err != nil {
		id = newSessionID()
	}

	var s *session.Session
	values, err := m.store.Get(ctx, id)
	switch {
	case err == nil:
		s = session.FromValues(id, values)
	case errors.Is(err, session.ErrNotFound):
		s = session.New(id)
	default:
		m.logger.WarnContext(ctx, "session store read failed", "error", err)
		s = session.New(id)
	}

	if _, ok := s.Get(csrfTokenKey); !ok {
		s.Set(csrfTokenKey, newCSRFToken())
	}

	req.Session = s
	req.CSRFToken = session.ValueOr(s, csrfTokenKey, "")
}

// Finalize persists a dirty session and sets its signed cookie on the
// response. Clean sessions touch neither the store nor the cookie jar.
func (m *SessionManager) Finalize(ctx context.Context, req *Request, resp *Response) {
	if m == nil || req.Session == nil || !req.Session.IsDirty() {
		return
	}

	if err := m.store.Set(ctx, req.Session.ID, req.Session.Snapshot()); err != nil {
		// The cookie is still issued: a dangling id resolves to a fresh
		// empty session on the next request.
		m.logger.ErrorContext(ctx, "session store write failed", "error", err)
	}

	c, err := m.cookies.NewSigned(m.cookieName, req.Session.ID)
	if err != nil {
		m.logger.ErrorContext(ctx, "session cookie signing failed", "error", err)
		return
	}
	resp.SetCookie(c)
}

// VerifyCSRF checks the request's forgery token against the session's.
// Read-only methods always pass. The token is taken from the first
// non-empty channel: the X-Csrf-Token header, then the csrf_token form
// field, then the csrf_token JSON field.
func (m *SessionManager) VerifyCSRF(req *Request) bool {
	if m == nil {
		return true
	}
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}

	var token string
	switch {
	case req.Header.Get("X-Csrf-Token") != "":
		token = req.Header.Get("X-Csrf-Token")
	case len(req.Form) > 0:
		token = req.Form.Get(csrfTokenKey)
	case req.JSON != nil:
		token, _ = req.JSON[csrfTokenKey].(string)
	}

	return token != "" && hmac.Equal([]byte(token), []byte(req.CSRFToken))
}

// newSessionID returns a 32-character URL-safe random id.
func newSessionID() string {
	return randomToken(24)
}

// newCSRFToken returns a 43-character URL-safe random token.
func newCSRFToken() string {
	return randomToken(32)
}

func randomToken(bytes int) string {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		panic("internal: crypto/rand unavailable: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
