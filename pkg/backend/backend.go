// Package backend defines the durable key to raw-value store underlying
// a preference store, plus memory, file and SQLite implementations.
//
// Backends treat values as opaque serialized data: they never validate
// or interpret what they store. Reads and writes for a given key are
// observed in the order issued, and a write is atomic from the
// perspective of any subsequent read on the same key.
package backend

import "errors"

var ErrKeyRequired = errors.New("backend: key is required")

// Backend is a namespaced key to raw-value store with synchronous
// get/set semantics.
type Backend interface {
	// Get returns the raw entry for key. ok is false when no entry
	// exists; err reports a storage-level failure.
	Get(key string) (raw []byte, ok bool, err error)
	// Set durably replaces the entry for key.
	Set(key string, raw []byte) error
}
