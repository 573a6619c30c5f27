package storage

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte(`{"records":[]}`)

	encrypted, err := EncryptData(plaintext, "secret")
	if err != nil {
		t.Fatalf("EncryptData failed: %v", err)
	}
	if !IsEncrypted(encrypted) {
		t.Error("encrypted payload should carry the magic header")
	}
	if bytes.Contains(encrypted, plaintext) {
		t.Error("ciphertext leaks plaintext")
	}

	decrypted, err := DecryptData(encrypted, "secret")
	if err != nil {
		t.Fatalf("DecryptData failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round trip mismatch: %q", decrypted)
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	encrypted, err := EncryptData([]byte("data"), "right")
	if err != nil {
		t.Fatalf("EncryptData failed: %v", err)
	}
	if _, err := DecryptData(encrypted, "wrong"); err == nil {
		t.Error("wrong password should fail decryption")
	}
}

func TestEncryptRequiresPassword(t *testing.T) {
	if _, err := EncryptData([]byte("data"), ""); err == nil {
		t.Error("empty password should be rejected")
	}
}

func TestIsEncrypted(t *testing.T) {
	if IsEncrypted([]byte(`{"collections":{}}`)) {
		t.Error("plain JSON misdetected as encrypted")
	}
	if IsEncrypted([]byte("BL")) {
		t.Error("short data misdetected as encrypted")
	}
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()
	dir := t.TempDir()

	kv.Set(ctx, KeyRecords, `[{"id":"1"}]`)
	kv.Set(ctx, KeyCustomFields, `[]`)

	manager := NewBackupManager(kv)
	path, err := manager.Backup(ctx, &BackupConfig{BackupDir: dir, BackupName: "test"})
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if !strings.HasSuffix(path, "test.json") {
		t.Errorf("unencrypted backup should be .json, got %s", path)
	}

	// Mutate, then restore.
	kv.Set(ctx, KeyRecords, `[]`)
	kv.Set(ctx, KeyCalcSettings, `{"excludeDraws":true}`)

	if err := manager.Restore(ctx, path, ""); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	value, ok, _ := kv.Get(ctx, KeyRecords)
	if !ok || value != `[{"id":"1"}]` {
		t.Errorf("records not restored: %q", value)
	}
	if _, ok, _ := kv.Get(ctx, KeyCalcSettings); ok {
		t.Error("restore should clear collections absent from the backup")
	}
}

func TestBackupEncrypted(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()
	dir := t.TempDir()

	kv.Set(ctx, KeyRecords, `[{"id":"1"}]`)

	manager := NewBackupManager(kv)
	path, err := manager.Backup(ctx, &BackupConfig{
		BackupDir:  dir,
		BackupName: "test",
		Password:   "secret",
	})
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if !strings.HasSuffix(path, "test.enc") {
		t.Errorf("encrypted backup should be .enc, got %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !IsEncrypted(raw) {
		t.Error("backup file should be encrypted on disk")
	}

	if err := manager.Restore(ctx, path, "wrong"); err == nil {
		t.Error("restore with wrong password should fail")
	}

	kv.Remove(ctx, KeyRecords)
	if err := manager.Restore(ctx, path, "secret"); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	value, _, _ := kv.Get(ctx, KeyRecords)
	if value != `[{"id":"1"}]` {
		t.Errorf("records not restored from encrypted backup: %q", value)
	}
}

func TestBackupRequiresDir(t *testing.T) {
	manager := NewBackupManager(testKV(t))
	if _, err := manager.Backup(context.Background(), &BackupConfig{}); err == nil {
		t.Error("backup without a directory should fail")
	}
}
