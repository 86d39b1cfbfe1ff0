// Package engine defines the abstract storage contract shared by every
// kvsd backend. The server holds exactly one Engine for its process
// lifetime and is polymorphic over which concrete implementation backs
// it — the log-structured engine (package logengine) or the B-tree
// engine (package btreeengine) — matching the teacher corpus's
// internal/engine abstraction over pluggable storage.
package engine

// Engine is the capability set every kvsd storage backend must
// implement. All three operations take the engine by exclusive access;
// callers serialize their own access (kvsd's server loop processes one
// connection at a time, so no implementation needs to be safe for
// concurrent use on its own).
type Engine interface {
	// Set persists value under key, overwriting any existing binding.
	Set(key, value []byte) error

	// Get looks up key. found is false only when the key has no
	// binding; a false found with a nil err is not an error condition.
	Get(key []byte) (value []byte, found bool, err error)

	// Remove deletes the binding for key. It returns a KeyNotFound
	// error (see package kvserrors) if key has no binding; it must not
	// write anything to durable storage in that case.
	Remove(key []byte) error

	// Close flushes any buffered state and releases the engine's
	// resources. After Close returns, the engine must not be used.
	Close() error
}
