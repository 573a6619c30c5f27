package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Collection keys for the persisted battlelog data sets.
const (
	KeyRecords              = "battleRecords"
	KeyCustomFields         = "battleCustomFields"
	KeyColumnSettings       = "battleColumnSettings"
	KeySearchColumnSettings = "battleSearchColumnSettings"
	KeyCalcSettings         = "battleCalcSettings"
)

// CollectionStore is the persistence collaborator: keyed collections
// of serialized text, get/set/remove by key.
type CollectionStore interface {
	// Get retrieves a collection by key. The second return value is
	// false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a collection under a key, replacing any previous
	// value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes a collection. Removing an absent key is not an
	// error.
	Remove(ctx context.Context, key string) error

	// Keys lists all stored collection keys.
	Keys(ctx context.Context) ([]string, error)
}

// collectionStore implements CollectionStore using SQLite.
type collectionStore struct {
	db *sql.DB
}

// NewCollectionStore creates a collection store over the given
// database.
func NewCollectionStore(db *DB) CollectionStore {
	return &collectionStore{db: db.Conn()}
}

// Get retrieves a collection by key.
func (s *collectionStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM collections WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get collection %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a collection under a key.
func (s *collectionStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set collection %s: %w", key, err)
	}
	return nil
}

// Remove deletes a collection.
func (s *collectionStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to remove collection %s: %w", key, err)
	}
	return nil
}

// Keys lists all stored collection keys.
func (s *collectionStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM collections ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to query collection keys: %w", err)
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error - cleanup operation
	}()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan collection key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collection keys: %w", err)
	}
	return keys, nil
}
