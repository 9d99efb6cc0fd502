// Package storage provides the key-value persistence port used by the client
// state layer, with in-memory, YAML file, and SQLite backends.
package storage

import (
	"fmt"
	"path/filepath"
)

// Keys used by the client state layer.
const (
	KeyToken    = "token"
	KeyDarkMode = "dark_mode"
	KeyNotes    = "notes"
	KeyJournal  = "journal"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// File names inside the config directory.
const (
	StateFile = "state.yaml"
	DBFile    = "state.db"
)

// Store is a string key-value store.
// Get reports ok=false for a missing key; Clear on a missing key is a no-op.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Clear(key string) error
}

// Open opens the named backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendFile:
		return NewFileStore(filepath.Join(dir, StateFile)), nil
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, DBFile))
	}
	return nil, fmt.Errorf("unknown storage backend: %s", backend)
}

// Close closes s if the backend holds resources.
func Close(s Store) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
