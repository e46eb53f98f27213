package storage

import "errors"

// ErrNotFound is returned by GetItem when no value is stored under a key
var ErrNotFound = errors.New("item not found")

// Provider is a durable key-value store. Values are opaque documents that are
// always replaced as a whole.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Items
	GetItem(key string) ([]byte, error)
	SetItem(key string, value []byte) error
	RemoveItem(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// Versioned is implemented by stores backed by a migrated SQL schema.
type Versioned interface {
	SchemaVersion() (current, latest int, err error)
}
