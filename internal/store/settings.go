package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ymzk/battlelog/internal/models"
	"github.com/ymzk/battlelog/internal/notify"
	"github.com/ymzk/battlelog/internal/storage"
)

// SettingsView selects which column-settings instance an operation
// targets. The table view and the search view persist independently.
type SettingsView string

const (
	ViewTable  SettingsView = "table"
	ViewSearch SettingsView = "search"
)

func (v SettingsView) collectionKey() string {
	if v == ViewSearch {
		return storage.KeySearchColumnSettings
	}
	return storage.KeyColumnSettings
}

// ColumnSettings returns the persisted column settings for a view,
// or the view's defaults when none were saved.
func (s *RecordStore) ColumnSettings(ctx context.Context, view SettingsView) (*models.ColumnSettings, error) {
	raw, ok, err := s.kv.Get(ctx, view.collectionKey())
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		if view == ViewSearch {
			return models.DefaultSearchColumnSettings(), nil
		}
		return models.DefaultColumnSettings(), nil
	}
	var settings models.ColumnSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("corrupt column settings: %w", err)
	}
	if settings.Visible == nil {
		settings.Visible = map[string]bool{}
	}
	if settings.Widths == nil {
		settings.Widths = map[string]string{}
	}
	return &settings, nil
}

// SaveColumnSettings persists the column settings for a view.
func (s *RecordStore) SaveColumnSettings(ctx context.Context, view SettingsView, settings *models.ColumnSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal column settings: %w", err)
	}
	if err := s.kv.Set(ctx, view.collectionKey(), string(data)); err != nil {
		return err
	}
	s.publish(notify.EventSettingsChanged, notify.SettingsChangedEvent{Key: view.collectionKey()})
	return nil
}

// CalcSettings returns the persisted calculation settings, defaulting
// to excludeDraws=false.
func (s *RecordStore) CalcSettings(ctx context.Context) (*models.CalcSettings, error) {
	raw, ok, err := s.kv.Get(ctx, storage.KeyCalcSettings)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return &models.CalcSettings{}, nil
	}
	var settings models.CalcSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("corrupt calc settings: %w", err)
	}
	return &settings, nil
}

// SaveCalcSettings persists the calculation settings.
func (s *RecordStore) SaveCalcSettings(ctx context.Context, settings *models.CalcSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal calc settings: %w", err)
	}
	if err := s.kv.Set(ctx, storage.KeyCalcSettings, string(data)); err != nil {
		return err
	}
	s.publish(notify.EventSettingsChanged, notify.SettingsChangedEvent{Key: storage.KeyCalcSettings})
	return nil
}
