package models

// RowHeight controls table row density. Pure presentation state.
type RowHeight string

const (
	RowHeightCompact  RowHeight = "compact"
	RowHeightNormal   RowHeight = "normal"
	RowHeightSpacious RowHeight = "spacious"
)

// ColumnSettings holds per-view column presentation state. Two
// independent instances are persisted: one for the table view, one
// for the search view.
type ColumnSettings struct {
	// Visible maps field id to visibility. A missing entry means the
	// view's default applies.
	Visible map[string]bool `json:"visible"`

	// Widths maps field id to a CSS-style size string (e.g. "120px").
	Widths map[string]string `json:"widths"`

	RowHeight RowHeight `json:"rowHeight"`
}

// DefaultColumnSettings returns the default table-view settings.
func DefaultColumnSettings() *ColumnSettings {
	return &ColumnSettings{
		Visible:   map[string]bool{},
		Widths:    map[string]string{},
		RowHeight: RowHeightNormal,
	}
}

// DefaultSearchColumnSettings returns the default search-view
// settings. gameName and createdAt start hidden.
func DefaultSearchColumnSettings() *ColumnSettings {
	return &ColumnSettings{
		Visible: map[string]bool{
			"date":         true,
			"myDeck":       true,
			"opponentDeck": true,
			"turnOrder":    true,
			"result":       true,
			"score":        true,
			"misplay":      true,
			"gameName":     false,
			"notes":        true,
			"createdAt":    false,
		},
		Widths:    map[string]string{},
		RowHeight: RowHeightCompact,
	}
}

// CalcSettings holds the global statistics calculation toggle.
type CalcSettings struct {
	// ExcludeDraws removes draw records from win-rate denominators.
	ExcludeDraws bool `json:"excludeDraws"`
}
