package store

import (
	"context"
	"fmt"

	"github.com/ymzk/battlelog/internal/models"
	"github.com/ymzk/battlelog/internal/notify"
)

// CustomFields returns a snapshot of the custom-field definitions in
// creation order.
func (s *RecordStore) CustomFields() []*models.CustomField {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.CustomField, len(s.fields))
	for i, f := range s.fields {
		c := *f
		out[i] = &c
	}
	return out
}

// AddCustomField creates a new custom-field definition. Names are
// unique with a case-sensitive exact match; a duplicate returns
// ErrDuplicateName.
func (s *RecordStore) AddCustomField(ctx context.Context, name string) (*models.CustomField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.fields {
		if f.Name == name {
			return nil, fmt.Errorf("custom field %q: %w", name, ErrDuplicateName)
		}
	}

	field := &models.CustomField{
		ID:   "custom_" + s.nextID(),
		Name: name,
	}
	s.fields = append(s.fields, field)
	if err := s.persistFields(ctx); err != nil {
		s.fields = s.fields[:len(s.fields)-1]
		return nil, err
	}

	s.publish(notify.EventFieldsChanged, notify.FieldsChangedEvent{FieldID: field.ID})
	c := *field
	return &c, nil
}

// RemoveCustomField deletes a custom-field definition. The
// corresponding value keys on existing records are NOT stripped;
// field-aware consumers ignore values without a definition. Returns
// ErrNotFound when the id is absent.
func (s *RecordStore) RemoveCustomField(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, f := range s.fields {
		if f.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("custom field %s: %w", id, ErrNotFound)
	}

	previous := s.fields
	s.fields = append(append([]*models.CustomField{}, s.fields[:idx]...), s.fields[idx+1:]...)
	if err := s.persistFields(ctx); err != nil {
		s.fields = previous
		return err
	}

	s.publish(notify.EventFieldsChanged, notify.FieldsChangedEvent{FieldID: id, Removed: true})
	return nil
}
