// Package models defines the core data types for battlelog: match
// records, custom field definitions, and the persisted settings
// structures. Display strings for enums live in internal/i18n; the
// types here only carry the closed canonical values.
package models

import (
	"encoding/json"
	"time"
)

// Result is the outcome of a match.
type Result int

const (
	// ResultUnset means the outcome was not recorded.
	ResultUnset Result = iota
	ResultWin
	ResultLoss
	ResultDraw
)

// ParseResult resolves a stored result string to the closed enum.
// Unknown values map to ResultUnset (treated as unrecorded by the
// statistics aggregator).
func ParseResult(s string) Result {
	switch s {
	case "win":
		return ResultWin
	case "loss":
		return ResultLoss
	case "draw":
		return ResultDraw
	default:
		return ResultUnset
	}
}

// String returns the canonical storage value.
func (r Result) String() string {
	switch r {
	case ResultWin:
		return "win"
	case ResultLoss:
		return "loss"
	case ResultDraw:
		return "draw"
	default:
		return ""
	}
}

// MarshalJSON encodes the result as its canonical string.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a stored result string.
func (r *Result) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseResult(s)
	return nil
}

// TurnOrder records whether the player went first or second.
type TurnOrder int

const (
	TurnUnset TurnOrder = iota
	TurnFirst
	TurnSecond
)

// ParseTurnOrder resolves a stored turn-order string.
func ParseTurnOrder(s string) TurnOrder {
	switch s {
	case "first":
		return TurnFirst
	case "second":
		return TurnSecond
	default:
		return TurnUnset
	}
}

func (t TurnOrder) String() string {
	switch t {
	case TurnFirst:
		return "first"
	case TurnSecond:
		return "second"
	default:
		return ""
	}
}

func (t TurnOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TurnOrder) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseTurnOrder(s)
	return nil
}

// Misplay grades how badly the player misplayed during a match.
type Misplay int

const (
	MisplayNone Misplay = iota
	MisplayLight
	MisplayMedium
	MisplaySevere
)

// ParseMisplay resolves a stored misplay string. Unknown values map
// to MisplayNone.
func ParseMisplay(s string) Misplay {
	switch s {
	case "light":
		return MisplayLight
	case "medium":
		return MisplayMedium
	case "severe":
		return MisplaySevere
	default:
		return MisplayNone
	}
}

func (m Misplay) String() string {
	switch m {
	case MisplayLight:
		return "light"
	case MisplayMedium:
		return "medium"
	case MisplaySevere:
		return "severe"
	default:
		return ""
	}
}

func (m Misplay) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Misplay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = ParseMisplay(s)
	return nil
}

// TriState is the value of a custom field on a record: unset, true,
// or false. The storage encoding uses "T"/"F" with "" for unset.
type TriState int

const (
	TriUnset TriState = iota
	TriTrue
	TriFalse
)

// ParseTriState resolves a stored custom-field value.
func ParseTriState(s string) TriState {
	switch s {
	case "T":
		return TriTrue
	case "F":
		return TriFalse
	default:
		return TriUnset
	}
}

func (v TriState) String() string {
	switch v {
	case TriTrue:
		return "T"
	case TriFalse:
		return "F"
	default:
		return ""
	}
}

func (v TriState) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *TriState) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = ParseTriState(s)
	return nil
}

// Record is one logged match.
//
// ID is assigned at creation, string-sortable, and monotonically
// increasing within a session (time-based). Date is the canonical
// YYYY/MM/DD form, or the raw user input when normalization failed,
// or empty when unset. CreatedAt/UpdatedAt are RFC 3339 timestamps.
//
// Custom holds custom-field values keyed by field id. Values for
// deleted field definitions may remain; field-aware consumers look up
// definitions first and ignore dead keys.
type Record struct {
	ID           string              `json:"id"`
	Date         string              `json:"date"`
	CreatedAt    string              `json:"createdAt"`
	UpdatedAt    string              `json:"updatedAt,omitempty"`
	MyDeck       string              `json:"myDeck"`
	OpponentDeck string              `json:"opponentDeck"`
	GameName     string              `json:"gameName"`
	TurnOrder    TurnOrder           `json:"turnOrder"`
	Result       Result              `json:"result"`
	Score        string              `json:"score"`
	Misplay      Misplay             `json:"misplay"`
	MisplayNote  string              `json:"misplayNote"`
	Notes        string              `json:"notes"`
	Custom       map[string]TriState `json:"custom,omitempty"`
}

// CustomValue returns the record's value for a custom field id.
func (r *Record) CustomValue(fieldID string) TriState {
	if r.Custom == nil {
		return TriUnset
	}
	return r.Custom[fieldID]
}

// SetCustomValue sets the record's value for a custom field id.
func (r *Record) SetCustomValue(fieldID string, v TriState) {
	if r.Custom == nil {
		r.Custom = make(map[string]TriState)
	}
	r.Custom[fieldID] = v
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	if r.Custom != nil {
		c.Custom = make(map[string]TriState, len(r.Custom))
		for k, v := range r.Custom {
			c.Custom[k] = v
		}
	}
	return &c
}

// CreatedTime parses the record's creation timestamp. Returns the
// zero time if the timestamp is missing or malformed.
func (r *Record) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CustomField is a user-defined tri-state attribute attachable to
// records. Names are unique (case-sensitive); ids live in a separate
// namespace from record ids.
type CustomField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
