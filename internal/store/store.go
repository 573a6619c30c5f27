// Package store owns the canonical record collection and the
// custom-field definitions. All mutations persist the full collection
// through the storage collaborator and publish a best-effort change
// event; readers get snapshots and never share memory with the
// store's own state.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ymzk/battlelog/internal/dates"
	"github.com/ymzk/battlelog/internal/models"
	"github.com/ymzk/battlelog/internal/notify"
	"github.com/ymzk/battlelog/internal/storage"
)

var (
	// ErrNotFound is returned when an operation targets a
	// nonexistent record or custom-field id.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a custom field with the same
	// name already exists (case-sensitive match).
	ErrDuplicateName = errors.New("custom field name already exists")
)

// RecordStore owns records and custom-field definitions.
type RecordStore struct {
	mu      sync.RWMutex
	records []*models.Record // Insertion order, newest first
	fields  []*models.CustomField

	kv  storage.CollectionStore
	bus *notify.Bus

	lastID int64 // Guards id monotonicity within a session
}

// New creates a RecordStore and loads the persisted collections.
// A nil bus disables change notification.
func New(ctx context.Context, kv storage.CollectionStore, bus *notify.Bus) (*RecordStore, error) {
	s := &RecordStore{kv: kv, bus: bus}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the record and custom-field collections from storage,
// replacing in-memory state. A corrupt serialized payload is a
// persistence error, not silently an empty collection.
func (s *RecordStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, storage.KeyRecords)
	if err != nil {
		return err
	}
	records := []*models.Record{}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			return fmt.Errorf("corrupt records collection: %w", err)
		}
	}

	raw, ok, err = s.kv.Get(ctx, storage.KeyCustomFields)
	if err != nil {
		return err
	}
	fields := []*models.CustomField{}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return fmt.Errorf("corrupt custom fields collection: %w", err)
		}
	}

	s.records = records
	s.fields = fields
	return nil
}

// AddRecord assigns a fresh id and creation timestamp to the draft,
// normalizes its date (keeping the raw input when normalization
// fails), inserts it at the front of the collection, and persists.
// Returns the stored record.
func (s *RecordStore) AddRecord(ctx context.Context, draft *models.Record) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := draft.Clone()
	record.ID = s.nextID()
	record.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	record.UpdatedAt = ""
	if normalized, err := dates.Normalize(record.Date); err == nil {
		record.Date = normalized
	}

	s.records = append([]*models.Record{record}, s.records...)
	if err := s.persistRecords(ctx); err != nil {
		// Roll the insert back so memory matches storage.
		s.records = s.records[1:]
		return nil, err
	}

	s.publish(notify.EventRecordAdded, notify.RecordChangedEvent{RecordID: record.ID})
	return record.Clone(), nil
}

// RecordPatch holds the mutable fields of a record for UpdateRecord.
// Nil fields are left unchanged; Custom entries are merged per key.
type RecordPatch struct {
	Date         *string
	MyDeck       *string
	OpponentDeck *string
	GameName     *string
	TurnOrder    *models.TurnOrder
	Result       *models.Result
	Score        *string
	Misplay      *models.Misplay
	MisplayNote  *string
	Notes        *string
	Custom       map[string]models.TriState
}

// UpdateRecord merges the patch over the record with the given id,
// re-normalizes the date, sets updatedAt, and persists in place
// (collection position unchanged). Returns ErrNotFound when the id
// is absent.
func (s *RecordStore) UpdateRecord(ctx context.Context, id string, patch *RecordPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}

	previous := s.records[idx]
	record := previous.Clone()
	applyPatch(record, patch)
	if normalized, err := dates.Normalize(record.Date); err == nil {
		record.Date = normalized
	}
	record.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	s.records[idx] = record
	if err := s.persistRecords(ctx); err != nil {
		s.records[idx] = previous
		return err
	}

	s.publish(notify.EventRecordUpdated, notify.RecordChangedEvent{RecordID: id})
	return nil
}

// DeleteRecord removes a record by id and persists. Returns
// ErrNotFound when the id is absent.
func (s *RecordStore) DeleteRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}

	previous := s.records
	s.records = append(append([]*models.Record{}, s.records[:idx]...), s.records[idx+1:]...)
	if err := s.persistRecords(ctx); err != nil {
		s.records = previous
		return err
	}

	s.publish(notify.EventRecordDeleted, notify.RecordChangedEvent{RecordID: id})
	return nil
}

// GetAll returns a snapshot of the full collection in store order
// (insertion order, newest first). No implicit filtering or sorting;
// consumers that need an order re-sort explicitly.
func (s *RecordStore) GetAll() []*models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

// GetRecordByID returns a snapshot of one record, or ErrNotFound.
func (s *RecordStore) GetRecordByID(id string) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return s.records[idx].Clone(), nil
}

// Count returns the number of records.
func (s *RecordStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// ReplaceAll swaps in a complete record and custom-field set, as
// produced by the import reconciler, and persists both collections.
func (s *RecordStore) ReplaceAll(ctx context.Context, records []*models.Record, fields []*models.CustomField, mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevRecords, prevFields := s.records, s.fields
	s.records = records
	s.fields = fields
	if err := s.persistRecords(ctx); err != nil {
		s.records, s.fields = prevRecords, prevFields
		return err
	}
	if err := s.persistFields(ctx); err != nil {
		s.records, s.fields = prevRecords, prevFields
		return err
	}

	s.publish(notify.EventRecordsImported, notify.RecordsImportedEvent{Count: len(records), Mode: mode})
	return nil
}

// DeckNames holds the distinct category labels in use, sorted.
type DeckNames struct {
	MyDecks       []string
	OpponentDecks []string
	GameNames     []string
}

// DeckNames returns the sorted distinct deck and game labels across
// all records, for filter pickers and input completion.
func (s *RecordStore) DeckNames() DeckNames {
	s.mu.RLock()
	defer s.mu.RUnlock()

	my := map[string]struct{}{}
	opp := map[string]struct{}{}
	games := map[string]struct{}{}
	for _, r := range s.records {
		if r.MyDeck != "" {
			my[r.MyDeck] = struct{}{}
		}
		if r.OpponentDeck != "" {
			opp[r.OpponentDeck] = struct{}{}
		}
		if r.GameName != "" {
			games[r.GameName] = struct{}{}
		}
	}
	return DeckNames{
		MyDecks:       sortedKeys(my),
		OpponentDecks: sortedKeys(opp),
		GameNames:     sortedKeys(games),
	}
}

// nextID returns a time-based id guaranteed to increase within the
// session, so same-day entries keep a deterministic insertion order.
func (s *RecordStore) nextID() string {
	now := time.Now().UnixMilli()
	if now <= s.lastID {
		now = s.lastID + 1
	}
	s.lastID = now
	return strconv.FormatInt(now, 10)
}

// indexOf returns the position of a record id, or -1. Caller holds
// the lock.
func (s *RecordStore) indexOf(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// persistRecords writes the record collection. Caller holds the lock.
func (s *RecordStore) persistRecords(ctx context.Context) error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	return s.kv.Set(ctx, storage.KeyRecords, string(data))
}

// persistFields writes the custom-field collection. Caller holds the
// lock.
func (s *RecordStore) persistFields(ctx context.Context) error {
	data, err := json.Marshal(s.fields)
	if err != nil {
		return fmt.Errorf("failed to marshal custom fields: %w", err)
	}
	return s.kv.Set(ctx, storage.KeyCustomFields, string(data))
}

func (s *RecordStore) publish(eventType string, payload any) {
	if s.bus != nil {
		s.bus.Publish(eventType, payload)
	}
}

func applyPatch(record *models.Record, patch *RecordPatch) {
	if patch == nil {
		return
	}
	if patch.Date != nil {
		record.Date = *patch.Date
	}
	if patch.MyDeck != nil {
		record.MyDeck = *patch.MyDeck
	}
	if patch.OpponentDeck != nil {
		record.OpponentDeck = *patch.OpponentDeck
	}
	if patch.GameName != nil {
		record.GameName = *patch.GameName
	}
	if patch.TurnOrder != nil {
		record.TurnOrder = *patch.TurnOrder
	}
	if patch.Result != nil {
		record.Result = *patch.Result
	}
	if patch.Score != nil {
		record.Score = *patch.Score
	}
	if patch.Misplay != nil {
		record.Misplay = *patch.Misplay
	}
	if patch.MisplayNote != nil {
		record.MisplayNote = *patch.MisplayNote
	}
	if patch.Notes != nil {
		record.Notes = *patch.Notes
	}
	for fieldID, value := range patch.Custom {
		record.SetCustomValue(fieldID, value)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
