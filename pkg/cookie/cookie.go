package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
)

// Errors.
var (
	ErrNotFound = errors.New("cookie: not found")
	ErrNoSecret = errors.New("cookie: secret required")
	ErrBadSig   = errors.New("cookie: invalid signature")
)

// Manager handles cookie operations.
// A Manager without a secret can only work with plain cookies.
type Manager struct {
	secret   []byte // nil = signing unavailable
	domain   string
	path     string
	maxAge   int
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a cookie Manager with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret sets the secret used for signing.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if secret != "" {
			m.secret = []byte(secret)
		}
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithMaxAge sets the default Max-Age in seconds.
// Zero means a session cookie.
func WithMaxAge(seconds int) Option {
	return func(m *Manager) {
		m.maxAge = seconds
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.httpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// Get returns a plain cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Set sets a plain cookie with the manager's defaults.
func (m *Manager) Set(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, m.cookie(name, value, m.maxAge))
}

// Delete removes a cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

// GetSigned returns a signed cookie value.
// Returns ErrNoSecret if no secret is configured.
// Returns ErrBadSig if the signature does not verify.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if m.secret == nil {
		return "", ErrNoSecret
	}

	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	// Wire format: <value>|<hex hmac-sha256>
	value, sig, ok := strings.Cut(raw, "|")
	if !ok {
		return "", ErrBadSig
	}

	if !hmac.Equal([]byte(sig), []byte(m.sign(value))) {
		return "", ErrBadSig
	}

	return value, nil
}

// SetSigned sets a signed cookie.
// Returns ErrNoSecret if no secret is configured.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string) error {
	if m.secret == nil {
		return ErrNoSecret
	}

	http.SetCookie(w, m.cookie(name, value+"|"+m.sign(value), m.maxAge))
	return nil
}

// NewSigned builds a cookie carrying value in the signed wire format
// <value>|<hex hmac-sha256>, without writing it anywhere. Callers that
// manage their own response representation serialize it themselves.
func (m *Manager) NewSigned(name, value string) (*http.Cookie, error) {
	if m.secret == nil {
		return nil, ErrNoSecret
	}
	return m.cookie(name, value+"|"+m.sign(value), m.maxAge), nil
}

// sign computes the hex-encoded HMAC-SHA256 of value.
func (m *Manager) sign(value string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// cookie creates a cookie with the manager's defaults.
func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}
