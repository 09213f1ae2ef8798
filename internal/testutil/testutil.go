// Package testutil provides shared test helpers for temporary note stores.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/store"
)

// TestJSONStore returns a provider backed by a temp file that does not
// exist yet, plus its path.
func TestJSONStore(t *testing.T) (string, store.Provider) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.json")
	return path, store.NewJSONFile(path)
}

// TestSQLiteStore returns a provider backed by a temp SQLite database
// that is automatically closed.
func TestSQLiteStore(t *testing.T) store.Provider {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.db")
	p, err := store.OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}
