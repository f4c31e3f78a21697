// Package storage provides SQLite persistence for diary entries.
// Entry payloads are opaque bytes; the caller encodes and encrypts them.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Storage provides access to the diary database.
type Storage struct {
	db     *sql.DB
	dbPath string

	// closeMu lets Close wait for in-flight statements.
	closeMu sync.RWMutex
}

// pragmas are applied to every new database connection.
var pragmas = []string{
	"PRAGMA busy_timeout = 5000",
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
}

// Open opens the diary database at dbPath, creating it and its directory
// when missing, and brings the schema up to date.
func Open(ctx context.Context, dbPath string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory; %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database; %w", err)
	}

	// One connection keeps pragmas in force and avoids write contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q; %w", pragma, err)
		}
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations; %w", err)
	}

	// The database holds diary content; keep it private.
	if err := os.Chmod(dbPath, 0600); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to restrict database permissions; %w", err)
	}

	return &Storage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	return s.db.Close()
}

// Path returns the database file path.
func (s *Storage) Path() string {
	return s.dbPath
}

// GetSchemaVersion returns the current schema version.
func (s *Storage) GetSchemaVersion(ctx context.Context) (int, error) {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	return schemaVersion(ctx, s.db)
}
