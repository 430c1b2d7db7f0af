// Package sqlite persists pins and repository credentials in a SQLite
// database so generation and upload can run in separate sessions.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS pins (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	keyword     TEXT NOT NULL,
	website     TEXT NOT NULL DEFAULT '',
	image1      TEXT NOT NULL DEFAULT '',
	image2      TEXT NOT NULL DEFAULT '',
	final_image TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL,
	upload_link TEXT NOT NULL DEFAULT ''
);`, `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`,
}

// Store is a SQLite database holding pins and credentials.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating parent directories.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	// One connection keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	s, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and creates the schema.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("missing DB parameter")
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Pins returns the pin repository.
func (s *Store) Pins() *PinRepo {
	return &PinRepo{db: s.db}
}

// Credentials returns the credential store.
func (s *Store) Credentials() *CredentialRepo {
	return &CredentialRepo{db: s.db}
}
