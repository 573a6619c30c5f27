package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupManager dumps and restores the full set of collections as a
// single JSON payload, optionally encrypted.
type BackupManager struct {
	store CollectionStore
}

// NewBackupManager creates a backup manager over a collection store.
func NewBackupManager(store CollectionStore) *BackupManager {
	return &BackupManager{store: store}
}

// BackupConfig holds configuration for backup operations.
type BackupConfig struct {
	// BackupDir is the directory where backups are written.
	BackupDir string

	// BackupName is the backup file name (without extension). If
	// empty, a timestamp-based name is generated.
	BackupName string

	// Password enables encryption when non-empty.
	Password string
}

// backupPayload is the on-disk backup format: every collection keyed
// by name, plus the creation instant.
type backupPayload struct {
	Collections map[string]string `json:"collections"`
	CreatedAt   string            `json:"createdAt"`
}

// Backup writes all collections to a backup file and returns its
// path.
func (bm *BackupManager) Backup(ctx context.Context, config *BackupConfig) (string, error) {
	if config == nil || config.BackupDir == "" {
		return "", fmt.Errorf("backup directory required")
	}

	if err := os.MkdirAll(config.BackupDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := config.BackupName
	if name == "" {
		name = fmt.Sprintf("backup_%s", time.Now().Format("20060102_150405"))
	}
	ext := ".json"
	if config.Password != "" {
		ext = ".enc"
	}
	backupPath := filepath.Join(config.BackupDir, name+ext)

	keys, err := bm.store.Keys(ctx)
	if err != nil {
		return "", err
	}

	payload := backupPayload{
		Collections: make(map[string]string, len(keys)),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	for _, key := range keys {
		value, ok, err := bm.store.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if ok {
			payload.Collections[key] = value
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal backup: %w", err)
	}

	if config.Password != "" {
		data, err = EncryptData(data, config.Password)
		if err != nil {
			return "", err
		}
	}

	if err := os.WriteFile(backupPath, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	return backupPath, nil
}

// Restore replaces all collections with the contents of a backup
// file. The password is required for encrypted backups and ignored
// otherwise.
func (bm *BackupManager) Restore(ctx context.Context, backupPath, password string) error {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	if IsEncrypted(data) {
		data, err = DecryptData(data, password)
		if err != nil {
			return err
		}
	}

	var payload backupPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}

	// Clear existing collections first so the restore is a true
	// replacement.
	keys, err := bm.store.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := bm.store.Remove(ctx, key); err != nil {
			return err
		}
	}

	for key, value := range payload.Collections {
		if err := bm.store.Set(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}
