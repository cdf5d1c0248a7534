package storage

import "errors"

// ErrNotFound is returned by Provider.Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Provider is the local key-value store behind the ledger. Values are opaque
// JSON documents; each Set replaces a key atomically.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Keys
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	// SetMany writes every entry or none of them.
	SetMany(entries map[string][]byte) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
