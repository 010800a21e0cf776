package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store over a single-row document table, giving the
// same whole-document semantics as FileStore with real transactional writes.
type SQLiteStore struct {
	db   *sql.DB
	name string
}

// OpenSQLite opens (or creates) the SQLite database at path, ensuring the
// parent directory exists, and prepares the documents table.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open db at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db at %s: %w", path, err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			updated_at INTEGER NOT NULL DEFAULT (unixepoch())
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return db, nil
}

// NewSQLiteStore binds a store to the named document row.
func NewSQLiteStore(db *sql.DB, name string) *SQLiteStore {
	return &SQLiteStore{db: db, name: name}
}

// Load decodes the named document into v. Absent and malformed rows self-heal
// the same way FileStore does.
func (s *SQLiteStore) Load(v any) error {
	var body string
	err := s.db.QueryRow(`SELECT body FROM documents WHERE name = ?`, s.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return s.Save(v)
	}
	if err != nil {
		return fmt.Errorf("%w: select document %s: %v", ErrIO, s.name, err)
	}

	if err := decodeInto([]byte(body), v); err != nil {
		log.Printf("[store] warning: invalid JSON in document %s, resetting: %v", s.name, err)
		return s.Save(v)
	}
	return nil
}

// Save upserts the named document row.
func (s *SQLiteStore) Save(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode document %s: %v", ErrIO, s.name, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO documents (name, body) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = unixepoch()
	`, s.name, string(data))
	if err != nil {
		return fmt.Errorf("%w: upsert document %s: %v", ErrIO, s.name, err)
	}
	return nil
}
