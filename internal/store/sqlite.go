package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// The seq column records storage order, which the JSON document gets for
// free from array order.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	seq        INTEGER PRIMARY KEY,
	id         INTEGER NOT NULL UNIQUE,
	content    TEXT NOT NULL DEFAULT '',
	tags       TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS free_ids (
	seq INTEGER PRIMARY KEY,
	id  INTEGER NOT NULL UNIQUE
);
`

// SQLite implements Provider backed by a single SQLite database file.
// It keeps the whole-collection contract: Load reads everything, Save
// replaces everything in one transaction. No indexing, no partial queries.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Load reads the full collection in storage order.
func (s *SQLite) Load() (*models.Collection, error) {
	col := models.NewCollection()

	rows, err := s.conn.Query(`SELECT id, content, tags, created_at, updated_at FROM notes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("store: query notes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			n          models.Note
			tagsJSON   string
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(&n.ID, &n.Content, &tagsJSON, &createdRaw, &updatedRaw); err != nil {
			return nil, fmt.Errorf("store: scan note: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &n.Tags); err != nil {
			return nil, fmt.Errorf("store: note %d tags: %w: %v", n.ID, apperr.ErrMalformedStore, err)
		}
		if n.Tags == nil {
			n.Tags = []string{}
		}
		if n.CreatedAt, err = time.Parse(time.RFC3339Nano, createdRaw); err != nil {
			return nil, fmt.Errorf("store: note %d created_at: %w: %v", n.ID, apperr.ErrMalformedStore, err)
		}
		if n.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedRaw); err != nil {
			return nil, fmt.Errorf("store: note %d updated_at: %w: %v", n.ID, apperr.ErrMalformedStore, err)
		}
		col.Notes = append(col.Notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate notes: %w", err)
	}

	free, err := s.conn.Query(`SELECT id FROM free_ids ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("store: query free ids: %w", err)
	}
	defer free.Close()
	for free.Next() {
		var id uint64
		if err := free.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan free id: %w", err)
		}
		col.FreeIDs = append(col.FreeIDs, id)
	}
	if err := free.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate free ids: %w", err)
	}
	return col, nil
}

// Save replaces the stored collection within a single transaction.
func (s *SQLite) Save(col *models.Collection) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM notes`); err != nil {
		return fmt.Errorf("store: clear notes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM free_ids`); err != nil {
		return fmt.Errorf("store: clear free ids: %w", err)
	}

	noteStmt, err := tx.Prepare(`INSERT INTO notes (seq, id, content, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare note insert: %w", err)
	}
	defer noteStmt.Close()
	for i, n := range col.Notes {
		tagsJSON, _ := json.Marshal(n.Tags)
		_, err := noteStmt.Exec(i+1, n.ID, n.Content, string(tagsJSON),
			n.CreatedAt.Format(time.RFC3339Nano), n.UpdatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("store: insert note %d: %w", n.ID, err)
		}
	}

	freeStmt, err := tx.Prepare(`INSERT INTO free_ids (seq, id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare free id insert: %w", err)
	}
	defer freeStmt.Close()
	for i, id := range col.FreeIDs {
		if _, err := freeStmt.Exec(i+1, id); err != nil {
			return fmt.Errorf("store: insert free id %d: %w", id, err)
		}
	}

	return tx.Commit()
}

// Clear resets the database to an empty collection.
func (s *SQLite) Clear() error {
	return s.Save(models.NewCollection())
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}
