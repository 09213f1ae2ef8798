package internal

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/store"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.json")
	cfg := NewDefaultConfig()
	cfg.Store.Path = path

	var buf bytes.Buffer
	app, err := NewApp(WithConfig(cfg), WithOutput(&buf))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app, &buf, path
}

func TestNewAppRequiresConfig(t *testing.T) {
	if _, err := NewApp(); err == nil {
		t.Error("expected error without config")
	}
}

func TestListEmptyStore(t *testing.T) {
	app, buf, _ := newTestApp(t)
	if err := app.List("id"); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !strings.Contains(buf.String(), "No notes saved.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestAddAndListRendersTable(t *testing.T) {
	app, buf, _ := newTestApp(t)
	if err := app.Add("buy milk", []string{"errand"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := app.List("id"); err != nil {
		t.Fatalf("List: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "buy milk", "errand"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEditMissingNoteIsSoft(t *testing.T) {
	app, buf, path := newTestApp(t)

	if err := app.Edit(99, "x"); err != nil {
		t.Fatalf("Edit should not fail: %v", err)
	}
	if !strings.Contains(buf.String(), "Note 99 not found") {
		t.Errorf("output = %q", buf.String())
	}

	// Store must be untouched.
	col, err := store.NewJSONFile(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(col.Notes) != 0 {
		t.Errorf("store changed: %+v", col)
	}
}

func TestEditEmptyContentIsSoft(t *testing.T) {
	app, buf, _ := newTestApp(t)
	if err := app.Edit(1, ""); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if !strings.Contains(buf.String(), "No content given.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestAddTagEmptyIsSoft(t *testing.T) {
	app, buf, _ := newTestApp(t)
	if err := app.AddTag(1, nil); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if !strings.Contains(buf.String(), "No tags given.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestAddTagMissingNoteIsSoft(t *testing.T) {
	app, buf, _ := newTestApp(t)
	if err := app.AddTag(7, []string{"x"}); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if !strings.Contains(buf.String(), "Note 7 not found") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSearchEmptyKeywordIsSoft(t *testing.T) {
	app, buf, _ := newTestApp(t)
	if err := app.Search("", "id"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !strings.Contains(buf.String(), "No keyword given.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRemoveMissingNoteIsHard(t *testing.T) {
	app, _, _ := newTestApp(t)
	err := app.Remove(3)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClearResetsStore(t *testing.T) {
	app, buf, _ := newTestApp(t)
	if err := app.Add("gone soon", nil); err != nil {
		t.Fatal(err)
	}
	if err := app.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	buf.Reset()
	if err := app.List("id"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No notes saved.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestListUnknownSortMethod(t *testing.T) {
	app, _, _ := newTestApp(t)
	if err := app.List("bogus"); err == nil {
		t.Error("expected error for unknown sort method")
	}
}
