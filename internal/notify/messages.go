package notify

// Typed event payloads. These travel through the in-process
// dispatcher as-is and are JSON-encoded for the cross-process
// sentinel file.

// RecordChangedEvent is the payload for record:added,
// record:updated, and record:deleted events.
type RecordChangedEvent struct {
	RecordID string `json:"recordId"`
}

// RecordsImportedEvent is the payload for records:imported events.
type RecordsImportedEvent struct {
	Count int    `json:"count"` // Number of records imported
	Mode  string `json:"mode"`  // "append" or "replace"
}

// FieldsChangedEvent is the payload for fields:changed events.
type FieldsChangedEvent struct {
	FieldID string `json:"fieldId"`
	Removed bool   `json:"removed"` // True when the definition was deleted
}

// SettingsChangedEvent is the payload for settings:changed events.
type SettingsChangedEvent struct {
	Key string `json:"key"` // Collection key of the changed settings
}
