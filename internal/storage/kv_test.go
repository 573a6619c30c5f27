package storage

import (
	"context"
	"testing"
)

func testKV(t *testing.T) CollectionStore {
	t.Helper()

	db, err := Open(DefaultConfig(":memory:"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewCollectionStore(db)
}

func TestCollectionStoreGetSet(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, KeyRecords)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("missing key should report !ok")
	}

	if err := kv.Set(ctx, KeyRecords, `[{"id":"1"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := kv.Get(ctx, KeyRecords)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || value != `[{"id":"1"}]` {
		t.Errorf("Get = %q ok=%v, want stored value", value, ok)
	}
}

func TestCollectionStoreUpsert(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, KeyCalcSettings, "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Set(ctx, KeyCalcSettings, "v2"); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	value, _, err := kv.Get(ctx, KeyCalcSettings)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "v2" {
		t.Errorf("Get = %q, want overwritten value v2", value)
	}
}

func TestCollectionStoreRemove(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, KeyRecords, "x"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Remove(ctx, KeyRecords); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, KeyRecords); ok {
		t.Error("removed key should be gone")
	}

	// Removing a missing key is not an error.
	if err := kv.Remove(ctx, "never-set"); err != nil {
		t.Errorf("Remove of missing key failed: %v", err)
	}
}

func TestCollectionStoreKeys(t *testing.T) {
	kv := testKV(t)
	ctx := context.Background()

	kv.Set(ctx, KeyRecords, "a")
	kv.Set(ctx, KeyCustomFields, "b")

	keys, err := kv.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("got %d keys, want 2: %v", len(keys), keys)
	}
}
