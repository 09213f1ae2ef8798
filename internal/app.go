// Package internal wires configuration, storage, and the note service
// behind the CLI commands.
package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/render"
	"github.com/starford/ansuz/internal/store"
)

// App holds the wired application. Each command method performs one
// load-mutate-save cycle against the backing store.
//
// Soft conditions (empty input, missing id on edit/add-tag) print a
// message and return nil; hard failures (store I/O, parse errors,
// remove on a missing id) propagate as errors.
type App struct {
	cfg    *Config
	out    io.Writer
	store  store.Provider
	notes  *noteservice.Service
	logger *slog.Logger
}

// NewApp builds the application with the given options.
func NewApp(opts ...Option) (*App, error) {
	app := &App{out: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	// Structured JSON logs go to stderr so tables on stdout stay clean.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: app.cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	app.logger = logger

	if app.store == nil {
		p, err := store.Open(app.cfg.Store.Path, app.cfg.Store.Driver)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		app.store = p
	}
	app.notes = noteservice.NewService(app.store)

	logger.Debug("store ready",
		slog.String("path", app.cfg.Store.Path),
		slog.String("driver", app.cfg.Store.Driver))

	return app, nil
}

// Close releases the backing store.
func (a *App) Close() error {
	return a.store.Close()
}

// Add creates a new note with the given content and tags.
func (a *App) Add(content string, tags []string) error {
	note, err := a.notes.Add(content, tags)
	if err != nil {
		return err
	}
	a.logger.Debug("note added", slog.Uint64("id", note.ID))
	return nil
}

// Remove deletes the note with the given id. A missing id is a hard error.
func (a *App) Remove(id uint64) error {
	if err := a.notes.Remove(id); err != nil {
		return err
	}
	a.logger.Debug("note removed", slog.Uint64("id", id))
	return nil
}

// Edit replaces the content of a note.
func (a *App) Edit(id uint64, content string) error {
	if content == "" {
		fmt.Fprintln(a.out, "No content given.")
		return nil
	}
	_, err := a.notes.Edit(id, content)
	if errors.Is(err, apperr.ErrNotFound) {
		fmt.Fprintf(a.out, "Note %d not found\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	a.logger.Debug("note edited", slog.Uint64("id", id))
	return nil
}

// AddTag appends tags to a note, skipping ones already present.
func (a *App) AddTag(id uint64, tags []string) error {
	if len(tags) == 0 {
		fmt.Fprintln(a.out, "No tags given.")
		return nil
	}
	_, err := a.notes.AddTag(id, tags)
	if errors.Is(err, apperr.ErrNotFound) {
		fmt.Fprintf(a.out, "Note %d not found\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	a.logger.Debug("note tagged", slog.Uint64("id", id))
	return nil
}

// List renders all notes as a table, ordered by the sort flag value.
func (a *App) List(sortFlag string) error {
	method, err := noteservice.ParseSortMethod(sortFlag)
	if err != nil {
		return err
	}
	return a.renderList(method)
}

// Search renders the notes matching the keyword as a table.
func (a *App) Search(keyword, sortFlag string) error {
	if keyword == "" {
		fmt.Fprintln(a.out, "No keyword given.")
		return nil
	}
	method, err := noteservice.ParseSortMethod(sortFlag)
	if err != nil {
		return err
	}
	results, err := a.notes.Search(keyword, method)
	if err != nil {
		return err
	}
	render.Table(a.out, results)
	return nil
}

// Clear resets the backing store to an empty collection.
func (a *App) Clear() error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	a.logger.Debug("store cleared")
	return nil
}

func (a *App) renderList(method noteservice.SortMethod) error {
	notes, err := a.notes.List(method)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes saved.")
		return nil
	}
	render.Table(a.out, notes)
	return nil
}
