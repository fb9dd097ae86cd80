package storage

import "context"

// KVStore is the capability contract expected of any backing store used by
// example handlers: get, put, delete, and prefix listing. Implementations
// must be safe for concurrent use.
type KVStore interface {
	// Get returns the value stored at key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value at key, overwriting any existing value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the value at key. Deleting an absent key returns
	// ErrKeyNotFound.
	Delete(ctx context.Context, key string) error

	// List returns the keys matching prefix, sorted ascending. An empty
	// prefix lists every key.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// Config selects and configures a storage backend.
type Config struct {
	Type string `json:"type" yaml:"type"` // "memory" or "sqlite"
	Path string `json:"path" yaml:"path"` // sqlite database path
}

// New builds a KVStore from config.
func New(cfg Config) (KVStore, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, NewStorageError("New", "", ErrUnsupportedBackend, false)
	}
}
