// Package session provides per-visitor server-held state with dirty
// tracking and pluggable persistence.
//
// A Session is the request-scoped working copy of the values stored under a
// session id. Writes and deletes flip a dirty flag without touching the
// store; the framework persists a dirty session once, when the response is
// finalized:
//
//	sess.Set("user", "ada")   // dirty
//	v, ok := sess.Get("user")
//	sess.Delete("user")       // dirty only if the key existed
//
// The Store interface abstracts persistence. MemoryStore keeps sessions in
// process memory (optionally bounded with a TTL and a maximum session
// count); RedisStore shares sessions across processes.
//
// Typed access helpers avoid manual assertions:
//
//	theme := session.ValueOr(sess, "theme", "light")
package session
