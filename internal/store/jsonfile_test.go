package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

func tempStore(t *testing.T) *JSONFile {
	t.Helper()
	return NewJSONFile(filepath.Join(t.TempDir(), "notes.json"))
}

func sampleCollection() *models.Collection {
	created := time.Date(2024, 7, 5, 15, 4, 0, 0, time.UTC)
	return &models.Collection{
		Notes: []models.Note{
			{ID: 1, Content: "first", Tags: []string{"a", "b"}, CreatedAt: created, UpdatedAt: created},
			{ID: 3, Content: "third", Tags: []string{}, CreatedAt: created.Add(time.Hour), UpdatedAt: created.Add(2 * time.Hour)},
		},
		FreeIDs: []uint64{2},
	}
}

func assertCollectionsEqual(t *testing.T, got, want *models.Collection) {
	t.Helper()
	if len(got.Notes) != len(want.Notes) {
		t.Fatalf("notes len = %d, want %d", len(got.Notes), len(want.Notes))
	}
	for i := range want.Notes {
		g, w := got.Notes[i], want.Notes[i]
		if g.ID != w.ID || g.Content != w.Content {
			t.Errorf("note %d = {%d %q}, want {%d %q}", i, g.ID, g.Content, w.ID, w.Content)
		}
		if len(g.Tags) != len(w.Tags) {
			t.Errorf("note %d tags = %v, want %v", i, g.Tags, w.Tags)
			continue
		}
		for j := range w.Tags {
			if g.Tags[j] != w.Tags[j] {
				t.Errorf("note %d tags = %v, want %v", i, g.Tags, w.Tags)
				break
			}
		}
		if !g.CreatedAt.Equal(w.CreatedAt) || !g.UpdatedAt.Equal(w.UpdatedAt) {
			t.Errorf("note %d timestamps = %v/%v, want %v/%v", i, g.CreatedAt, g.UpdatedAt, w.CreatedAt, w.UpdatedAt)
		}
	}
	if len(got.FreeIDs) != len(want.FreeIDs) {
		t.Fatalf("free ids = %v, want %v", got.FreeIDs, want.FreeIDs)
	}
	for i := range want.FreeIDs {
		if got.FreeIDs[i] != want.FreeIDs[i] {
			t.Fatalf("free ids = %v, want %v", got.FreeIDs, want.FreeIDs)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := tempStore(t)
	col, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(col.Notes) != 0 || len(col.FreeIDs) != 0 {
		t.Errorf("expected empty collection, got %+v", col)
	}
	if col.Notes == nil || col.FreeIDs == nil {
		t.Error("slices should be non-nil")
	}
}

func TestLoadBlankFile(t *testing.T) {
	s := tempStore(t)
	if err := os.WriteFile(s.path, []byte("  \n\t"), 0o644); err != nil {
		t.Fatal(err)
	}
	col, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(col.Notes) != 0 || len(col.FreeIDs) != 0 {
		t.Errorf("expected empty collection, got %+v", col)
	}
}

func TestLoadMalformed(t *testing.T) {
	s := tempStore(t)
	if err := os.WriteFile(s.path, []byte(`{"notes": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := s.Load()
	if !errors.Is(err, apperr.ErrMalformedStore) {
		t.Errorf("err = %v, want ErrMalformedStore", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := tempStore(t)
	want := sampleCollection()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertCollectionsEqual(t, got, want)

	// A second save of the loaded collection must not change anything.
	if err := s.Save(got); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	again, err := s.Load()
	if err != nil {
		t.Fatalf("Load again: %v", err)
	}
	assertCollectionsEqual(t, again, want)
}

func TestClear(t *testing.T) {
	s := tempStore(t)
	if err := s.Save(sampleCollection()); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	col, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(col.Notes) != 0 || len(col.FreeIDs) != 0 {
		t.Errorf("expected empty collection after clear, got %+v", col)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := tempStore(t)
	if err := s.Save(sampleCollection()); err != nil {
		t.Fatal(err)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(s.path), ".ansuz-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestOpenDriverSelection(t *testing.T) {
	dir := t.TempDir()

	p, err := Open(filepath.Join(dir, "notes.json"), "")
	if err != nil {
		t.Fatalf("Open json: %v", err)
	}
	if _, ok := p.(*JSONFile); !ok {
		t.Errorf("expected JSONFile for .json, got %T", p)
	}

	p, err = Open(filepath.Join(dir, "notes.db"), "")
	if err != nil {
		t.Fatalf("Open db: %v", err)
	}
	if _, ok := p.(*SQLite); !ok {
		t.Errorf("expected SQLite for .db, got %T", p)
	}
	p.Close()

	// An explicit driver wins over the extension.
	p, err = Open(filepath.Join(dir, "odd.db"), DriverJSON)
	if err != nil {
		t.Fatalf("Open explicit json: %v", err)
	}
	if _, ok := p.(*JSONFile); !ok {
		t.Errorf("expected JSONFile for explicit json driver, got %T", p)
	}

	if _, err := Open(filepath.Join(dir, "x"), "postgres"); err == nil {
		t.Error("expected error for unknown driver")
	}
}
