// Package cookie provides HTTP cookie management with optional HMAC signing.
//
// The Manager carries cookie attribute defaults (path, domain, flags) so
// call sites only deal with names and values:
//
//	m := cookie.New(
//	    cookie.WithSecret(os.Getenv("SECRET_KEY")),
//	    cookie.WithSecure(true),
//	)
//
//	m.Set(w, "theme", "dark")
//	v, err := m.Get(r, "theme")
//
// Signed cookies append a hex-encoded HMAC-SHA256 signature to the value,
// separated by a pipe:
//
//	<value>|<signature>
//
// GetSigned verifies the signature in constant time and returns ErrBadSig
// on any tampering. Signing requires a secret; without one SetSigned and
// GetSigned return ErrNoSecret.
package cookie
