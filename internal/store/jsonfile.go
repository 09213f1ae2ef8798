package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// JSONFile implements Provider backed by a single JSON document on disk.
type JSONFile struct {
	path string
}

// NewJSONFile creates a provider for the given file path. The file does
// not have to exist yet.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Load reads and parses the backing file.
func (s *JSONFile) Load() (*models.Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewCollection(), nil
		}
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.NewCollection(), nil
	}
	col := models.NewCollection()
	if err := json.Unmarshal(data, col); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w: %v", s.path, apperr.ErrMalformedStore, err)
	}
	if col.Notes == nil {
		col.Notes = []models.Note{}
	}
	if col.FreeIDs == nil {
		col.FreeIDs = []uint64{}
	}
	return col, nil
}

// Save atomically overwrites the backing file: tmp file → fsync → rename.
func (s *JSONFile) Save(col *models.Collection) error {
	data, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ansuz-tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	success = true
	return nil
}

// Clear resets the backing file to an empty collection.
func (s *JSONFile) Clear() error {
	return s.Save(models.NewCollection())
}

// Close is a no-op; the provider holds no open resources between calls.
func (s *JSONFile) Close() error {
	return nil
}
