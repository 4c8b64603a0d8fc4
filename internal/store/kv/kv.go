// Package kv holds the persistence slot backends: a named-key blob store
// read once at startup and overwritten wholesale on every mutation.
package kv

// Slot is an abstract durable key-value store.
type Slot interface {
	// Get returns the value under key; ok is false when the key was never set.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
}
