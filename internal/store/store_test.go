package store

import (
	"context"
	"errors"
	"testing"

	"github.com/ymzk/battlelog/internal/models"
	"github.com/ymzk/battlelog/internal/storage"
)

func testStore(t *testing.T) (*RecordStore, storage.CollectionStore) {
	t.Helper()

	db, err := storage.Open(storage.DefaultConfig(":memory:"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	kv := storage.NewCollectionStore(db)
	s, err := New(context.Background(), kv, nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s, kv
}

func TestAddRecord(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	record, err := s.AddRecord(ctx, &models.Record{
		Date:   "2024-03-05",
		MyDeck: "Burn",
		Result: models.ResultWin,
	})
	if err != nil {
		t.Fatalf("AddRecord failed: %v", err)
	}

	if record.ID == "" {
		t.Error("record should get an id")
	}
	if record.CreatedAt == "" {
		t.Error("record should get a creation timestamp")
	}
	if record.Date != "2024/03/05" {
		t.Errorf("date not normalized: %q", record.Date)
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
}

func TestAddRecordKeepsRawDateOnFailure(t *testing.T) {
	s, _ := testStore(t)

	record, err := s.AddRecord(context.Background(), &models.Record{Date: "sometime in march"})
	if err != nil {
		t.Fatalf("AddRecord failed: %v", err)
	}
	if record.Date != "sometime in march" {
		t.Errorf("unnormalizable date should survive as raw input, got %q", record.Date)
	}
}

func TestAddRecordNewestFirst(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	first, _ := s.AddRecord(ctx, &models.Record{MyDeck: "A"})
	second, _ := s.AddRecord(ctx, &models.Record{MyDeck: "B"})

	all := s.GetAll()
	if all[0].ID != second.ID || all[1].ID != first.ID {
		t.Errorf("collection should be newest first, got %s then %s", all[0].ID, all[1].ID)
	}
	if !(first.ID < second.ID) {
		t.Errorf("ids should increase: %s then %s", first.ID, second.ID)
	}
}

func TestUpdateRecord(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	record, _ := s.AddRecord(ctx, &models.Record{MyDeck: "Burn", Result: models.ResultLoss})

	newResult := models.ResultWin
	newDate := "15/03/2024"
	err := s.UpdateRecord(ctx, record.ID, &RecordPatch{
		Result: &newResult,
		Date:   &newDate,
	})
	if err != nil {
		t.Fatalf("UpdateRecord failed: %v", err)
	}

	got, err := s.GetRecordByID(record.ID)
	if err != nil {
		t.Fatalf("GetRecordByID failed: %v", err)
	}
	if got.Result != models.ResultWin {
		t.Errorf("result not updated: %v", got.Result)
	}
	if got.Date != "2024/03/15" {
		t.Errorf("patched date not normalized: %q", got.Date)
	}
	if got.MyDeck != "Burn" {
		t.Errorf("unpatched field changed: %q", got.MyDeck)
	}
	if got.UpdatedAt == "" {
		t.Error("update should set updatedAt")
	}
}

func TestUpdateRecordNotFound(t *testing.T) {
	s, _ := testStore(t)

	err := s.UpdateRecord(context.Background(), "missing", &RecordPatch{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	record, _ := s.AddRecord(ctx, &models.Record{MyDeck: "Burn"})
	keep, _ := s.AddRecord(ctx, &models.Record{MyDeck: "Control"})

	if err := s.DeleteRecord(ctx, record.ID); err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
	if _, err := s.GetRecordByID(keep.ID); err != nil {
		t.Errorf("surviving record should remain: %v", err)
	}

	err := s.DeleteRecord(ctx, record.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting twice should report ErrNotFound, got %v", err)
	}
}

func TestPersistenceAcrossLoads(t *testing.T) {
	s, kv := testStore(t)
	ctx := context.Background()

	record, _ := s.AddRecord(ctx, &models.Record{MyDeck: "Burn", Date: "2024/03/05"})
	if _, err := s.AddCustomField(ctx, "Bo3"); err != nil {
		t.Fatalf("AddCustomField failed: %v", err)
	}

	reopened, err := New(ctx, kv, nil)
	if err != nil {
		t.Fatalf("reloading store failed: %v", err)
	}
	if reopened.Count() != 1 {
		t.Fatalf("reloaded Count = %d, want 1", reopened.Count())
	}
	got, err := reopened.GetRecordByID(record.ID)
	if err != nil {
		t.Fatalf("record lost across reload: %v", err)
	}
	if got.MyDeck != "Burn" {
		t.Errorf("record data lost: %+v", got)
	}
	if len(reopened.CustomFields()) != 1 {
		t.Errorf("custom fields lost across reload")
	}
}

func TestLoadRejectsCorruptCollection(t *testing.T) {
	_, kv := testStore(t)
	ctx := context.Background()

	if err := kv.Set(ctx, storage.KeyRecords, "{corrupt"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := New(ctx, kv, nil); err == nil {
		t.Fatal("corrupt payload should fail the load, not become an empty collection")
	}
}

func TestGetAllReturnsSnapshots(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	record, _ := s.AddRecord(ctx, &models.Record{MyDeck: "Burn"})

	all := s.GetAll()
	all[0].MyDeck = "tampered"

	got, _ := s.GetRecordByID(record.ID)
	if got.MyDeck != "Burn" {
		t.Error("mutating a snapshot must not affect store state")
	}
}

func TestCustomFields(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	field, err := s.AddCustomField(ctx, "Bo3")
	if err != nil {
		t.Fatalf("AddCustomField failed: %v", err)
	}
	if field.ID == "" || field.Name != "Bo3" {
		t.Errorf("unexpected field: %+v", field)
	}

	if _, err := s.AddCustomField(ctx, "Bo3"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate name should fail, got %v", err)
	}

	// Case-sensitive: different case is a different name.
	if _, err := s.AddCustomField(ctx, "bo3"); err != nil {
		t.Errorf("different case should be allowed: %v", err)
	}

	if err := s.RemoveCustomField(ctx, field.ID); err != nil {
		t.Fatalf("RemoveCustomField failed: %v", err)
	}
	if err := s.RemoveCustomField(ctx, field.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("removing twice should report ErrNotFound, got %v", err)
	}
}

func TestRemoveCustomFieldKeepsValues(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	field, _ := s.AddCustomField(ctx, "Bo3")
	draft := &models.Record{}
	draft.SetCustomValue(field.ID, models.TriTrue)
	record, _ := s.AddRecord(ctx, draft)

	if err := s.RemoveCustomField(ctx, field.ID); err != nil {
		t.Fatalf("RemoveCustomField failed: %v", err)
	}

	got, _ := s.GetRecordByID(record.ID)
	if got.CustomValue(field.ID) != models.TriTrue {
		t.Error("removing a field definition must not touch stored values")
	}
}

func TestReplaceAll(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	s.AddRecord(ctx, &models.Record{MyDeck: "Old"})

	records := []*models.Record{
		{ID: "r1", MyDeck: "New", CreatedAt: "2024-03-05T10:00:00Z"},
	}
	fields := []*models.CustomField{{ID: "custom_9", Name: "Imported"}}
	if err := s.ReplaceAll(ctx, records, fields, "replace"); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
	if _, err := s.GetRecordByID("r1"); err != nil {
		t.Errorf("replacement records missing: %v", err)
	}
	if len(s.CustomFields()) != 1 || s.CustomFields()[0].Name != "Imported" {
		t.Errorf("replacement fields missing: %+v", s.CustomFields())
	}
}

func TestDeckNames(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	s.AddRecord(ctx, &models.Record{MyDeck: "Zoo", OpponentDeck: "Control", GameName: "MTG"})
	s.AddRecord(ctx, &models.Record{MyDeck: "Burn", OpponentDeck: "Control"})
	s.AddRecord(ctx, &models.Record{MyDeck: "Burn"})

	names := s.DeckNames()
	if len(names.MyDecks) != 2 || names.MyDecks[0] != "Burn" || names.MyDecks[1] != "Zoo" {
		t.Errorf("MyDecks = %v, want sorted distinct [Burn Zoo]", names.MyDecks)
	}
	if len(names.OpponentDecks) != 1 {
		t.Errorf("OpponentDecks = %v, want [Control]", names.OpponentDecks)
	}
	if len(names.GameNames) != 1 {
		t.Errorf("GameNames = %v, want [MTG]", names.GameNames)
	}
}
