// Package store persists the note collection as a single structured file.
package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// Driver names accepted in configuration.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Provider is the interface for collection persistence. Every operation
// works on the whole collection: load it, mutate in memory, save it back.
type Provider interface {
	// Load reads the backing store. A missing or blank store is an empty
	// collection, not an error.
	Load() (*models.Collection, error)
	// Save serializes the full collection and overwrites the backing store.
	Save(*models.Collection) error
	// Clear resets the backing store to an empty collection.
	Clear() error
	// Close releases any resources held by the provider.
	Close() error
}

// Verify providers satisfy the interface at compile time.
var (
	_ Provider = (*JSONFile)(nil)
	_ Provider = (*SQLite)(nil)
)

// Open selects a provider for path. An explicit driver wins; otherwise the
// file extension decides, defaulting to the JSON document store.
func Open(path, driver string) (Provider, error) {
	switch driver {
	case DriverJSON:
		return NewJSONFile(path), nil
	case DriverSQLite:
		return OpenSQLite(path)
	case "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".db", ".sqlite", ".sqlite3":
			return OpenSQLite(path)
		}
		return NewJSONFile(path), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}
