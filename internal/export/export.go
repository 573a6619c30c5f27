// Package export builds and parses the JSON and CSV interchange
// formats for record collections.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ymzk/battlelog/internal/i18n"
	"github.com/ymzk/battlelog/internal/models"
)

// Payload is the JSON interchange envelope. Re-importing a payload
// restores both the records and the custom field definitions.
type Payload struct {
	Records      []*models.Record      `json:"records"`
	CustomFields []*models.CustomField `json:"customFields"`
	ExportedAt   string                `json:"exportedAt"`
}

// baseColumns is the fixed CSV column order ahead of the custom
// field columns. Import assumes the same order.
var baseColumns = []string{
	"date",
	"gameName",
	"myDeck",
	"opponentDeck",
	"turnOrder",
	"result",
	"score",
	"misplay",
	"misplayNote",
	"notes",
}

// BuildJSON serializes a collection snapshot as an indented JSON
// payload.
func BuildJSON(records []*models.Record, fields []*models.CustomField) ([]byte, error) {
	if records == nil {
		records = []*models.Record{}
	}
	if fields == nil {
		fields = []*models.CustomField{}
	}
	payload := Payload{
		Records:      records,
		CustomFields: fields,
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export payload: %w", err)
	}
	return data, nil
}

// BuildCSV serializes a collection snapshot as CSV. The header row
// carries localized column names followed by the custom field names;
// every data cell is quoted, with embedded quotes doubled. An empty
// collection yields an empty string.
func BuildCSV(records []*models.Record, fields []*models.CustomField, lang i18n.Lang) string {
	if len(records) == 0 {
		return ""
	}

	headers := make([]string, 0, len(baseColumns)+len(fields))
	for _, col := range baseColumns {
		headers = append(headers, i18n.ColumnHeader(lang, col))
	}
	for _, f := range fields {
		headers = append(headers, f.Name)
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))

	for _, r := range records {
		cells := make([]string, 0, len(headers))
		cells = append(cells,
			r.Date,
			r.GameName,
			r.MyDeck,
			r.OpponentDeck,
			r.TurnOrder.String(),
			r.Result.String(),
			r.Score,
			r.Misplay.String(),
			r.MisplayNote,
			r.Notes,
		)
		for _, f := range fields {
			cells = append(cells, r.CustomValue(f.ID).String())
		}

		b.WriteByte('\n')
		for i, cell := range cells {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteCell(cell))
		}
	}

	return b.String()
}
