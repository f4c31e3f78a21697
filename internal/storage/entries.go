package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrEntryNotFound is returned when an entry is not stored.
var ErrEntryNotFound = errors.New("entry not found")

// Entry is a stored diary entry.
type Entry struct {
	Name        string
	Payload     []byte
	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EntryInfo describes a stored entry without its payload.
type EntryInfo struct {
	Name        string
	ContentHash string
	Size        int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PutEntry inserts or replaces the payload stored under name.
func (s *Storage) PutEntry(ctx context.Context, name string, payload []byte, contentHash string) error {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (name, payload, content_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   payload = excluded.payload,
		   content_hash = excluded.content_hash,
		   updated_at = excluded.updated_at`,
		name, payload, contentHash, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to put entry; %w", err)
	}

	return nil
}

// GetEntry returns the entry stored under name.
func (s *Storage) GetEntry(ctx context.Context, name string) (*Entry, error) {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()

	var e Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT name, payload, content_hash, created_at, updated_at
		 FROM entries WHERE name = ?`,
		name,
	).Scan(&e.Name, &e.Payload, &e.ContentHash, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry; %w", err)
	}

	return &e, nil
}

// DeleteEntry removes the entry stored under name.
func (s *Storage) DeleteEntry(ctx context.Context, name string) error {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete entry; %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected; %w", err)
	}
	if rows == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// ListEntries returns every stored entry ordered by name.
func (s *Storage) ListEntries(ctx context.Context) ([]EntryInfo, error) {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, content_hash, length(payload), created_at, updated_at
		 FROM entries ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries; %w", err)
	}
	defer rows.Close()

	var entries []EntryInfo
	for rows.Next() {
		var info EntryInfo
		if err := rows.Scan(&info.Name, &info.ContentHash, &info.Size, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry; %w", err)
		}
		entries = append(entries, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries; %w", err)
	}

	return entries, nil
}

// CountEntries returns the number of stored entries.
func (s *Storage) CountEntries(ctx context.Context) (int, error) {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries; %w", err)
	}
	return count, nil
}
