package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Keys persisted by the client.
const (
	KeyAccessToken = "accessToken"
	KeyUserID      = "userId"
	KeyUsername    = "username"
	KeyDisplayName = "displayName"
	KeyWaterIntake = "waterIntake"
)

// LocalStore is a string key/value store backed by the local_storage table.
type LocalStore struct {
	db DBTX
}

// NewLocalStore creates a new [LocalStore] with the given database handle
func NewLocalStore(db DBTX) *LocalStore {
	return &LocalStore{db: db}
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *LocalStore) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, "SELECT value FROM local_storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *LocalStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (s *LocalStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM local_storage WHERE key = ?", key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

// All returns every stored pair.
func (s *LocalStore) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM local_storage ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list local storage: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan local storage row: %w", err)
		}
		result[k] = v
	}
	return result, rows.Err()
}

// Clear removes every key.
func (s *LocalStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM local_storage"); err != nil {
		return fmt.Errorf("failed to clear local storage: %w", err)
	}
	return nil
}
