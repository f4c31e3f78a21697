package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrMetaNotFound is returned when a metadata key is not set.
var ErrMetaNotFound = errors.New("metadata key not found")

// GetMeta returns the value stored under key.
func (s *Storage) GetMeta(ctx context.Context, key string) ([]byte, error) {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()

	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMetaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata %q; %w", key, err)
	}

	return value, nil
}

// SetMeta stores value under key, replacing any previous value.
func (s *Storage) SetMeta(ctx context.Context, key string, value []byte) error {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set metadata %q; %w", key, err)
	}

	return nil
}
