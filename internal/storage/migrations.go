package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration is one schema change. Versions are recorded in the database
// header through PRAGMA user_version.
type Migration struct {
	Version     int
	Description string
	Up          string
}

// migrations lists every schema change in order.
var migrations = []Migration{
	{
		Version:     1,
		Description: "create entries table",
		Up: `
			CREATE TABLE entries (
				name TEXT PRIMARY KEY,
				payload BLOB NOT NULL,
				content_hash TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);
		`,
	},
	{
		Version:     2,
		Description: "create meta table",
		Up: `
			CREATE TABLE meta (
				key TEXT PRIMARY KEY,
				value BLOB NOT NULL
			);
		`,
	},
}

// migrate applies the migrations newer than the recorded schema version.
func migrate(ctx context.Context, db *sql.DB) error {
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s); %w", m.Version, m.Description, err)
		}
	}

	return nil
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version; %w", err)
	}
	return version, nil
}

// apply runs m and records its version in one transaction.
func apply(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction; %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.Up); err != nil {
		return fmt.Errorf("failed to execute migration; %w", err)
	}
	// PRAGMA arguments cannot be bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("failed to record schema version; %w", err)
	}

	return tx.Commit()
}
