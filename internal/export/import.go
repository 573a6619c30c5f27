package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ymzk/battlelog/internal/dates"
	"github.com/ymzk/battlelog/internal/models"
	"github.com/ymzk/battlelog/internal/query"
)

// ErrParse reports that an import payload could not be decoded. No
// partial state is produced when it is returned.
var ErrParse = errors.New("import parse failure")

// Import modes. Append merges into the existing collection, replace
// discards it.
const (
	ModeAppend  = "append"
	ModeReplace = "replace"
)

// Result is the reconciled collection produced by an import. Callers
// commit it atomically to the store.
type Result struct {
	Records []*models.Record
	Fields  []*models.CustomField

	// Count is the number of records read from the payload, not the
	// final collection size.
	Count int
}

// ImportJSON reconciles a JSON payload against the current
// collection. In append mode incoming records with an id already
// present are skipped and incoming field definitions merge by name;
// in replace mode the payload becomes the whole collection, and a
// payload without custom fields clears the definitions. The merged
// records are re-sorted newest first. The inputs are not modified.
func ImportJSON(records []*models.Record, fields []*models.CustomField, data []byte, mode string) (*Result, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var finalRecords []*models.Record
	if mode == ModeReplace {
		finalRecords = append(finalRecords, payload.Records...)
	} else {
		existing := make(map[string]struct{}, len(records))
		finalRecords = append(finalRecords, records...)
		for _, r := range records {
			existing[r.ID] = struct{}{}
		}
		for _, r := range payload.Records {
			if _, dup := existing[r.ID]; dup {
				continue
			}
			finalRecords = append(finalRecords, r)
		}
	}
	finalRecords = query.Sort(finalRecords, "date", query.Desc)

	var finalFields []*models.CustomField
	if mode == ModeReplace {
		finalFields = append(finalFields, payload.CustomFields...)
		if finalFields == nil {
			finalFields = []*models.CustomField{}
		}
	} else {
		finalFields = append(finalFields, fields...)
		names := make(map[string]struct{}, len(fields))
		for _, f := range fields {
			names[f.Name] = struct{}{}
		}
		for _, f := range payload.CustomFields {
			if _, dup := names[f.Name]; dup {
				continue
			}
			names[f.Name] = struct{}{}
			finalFields = append(finalFields, f)
		}
	}

	return &Result{
		Records: finalRecords,
		Fields:  finalFields,
		Count:   len(payload.Records),
	}, nil
}

// ImportCSV reconciles a CSV payload against the current collection.
// The column order must match BuildCSV; columns past the base set are
// treated as custom field names. Rows shorter than the base column
// count are skipped. In replace mode the CSV's custom columns become
// the field definitions with fresh ids; in append mode unknown
// column names are added as new fields. Imported records always get
// fresh ids. The inputs are not modified.
func ImportCSV(records []*models.Record, fields []*models.CustomField, csvText string, mode string) (*Result, error) {
	lines := strings.Split(strings.TrimSpace(csvText), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one data row", ErrParse)
	}

	headers := ParseLine(lines[0])
	customNames := []string{}
	if len(headers) > len(baseColumns) {
		customNames = headers[len(baseColumns):]
	}

	var finalFields []*models.CustomField
	if mode == ModeReplace {
		finalFields = make([]*models.CustomField, 0, len(customNames))
		for _, name := range customNames {
			if name == "" {
				continue
			}
			finalFields = append(finalFields, &models.CustomField{ID: newFieldID(), Name: name})
		}
	} else {
		finalFields = append(finalFields, fields...)
		for _, name := range customNames {
			if name == "" || findFieldByName(finalFields, name) != nil {
				continue
			}
			finalFields = append(finalFields, &models.CustomField{ID: newFieldID(), Name: name})
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	imported := make([]*models.Record, 0, len(lines)-1)
	for i := 1; i < len(lines); i++ {
		values := ParseLine(lines[i])
		if len(values) < len(baseColumns) {
			continue
		}

		date := values[0]
		if normalized, err := dates.Normalize(date); err == nil {
			date = normalized
		}

		record := &models.Record{
			ID:           newRecordID(i),
			Date:         date,
			GameName:     values[1],
			MyDeck:       values[2],
			OpponentDeck: values[3],
			TurnOrder:    models.ParseTurnOrder(values[4]),
			Result:       models.ParseResult(values[5]),
			Score:        values[6],
			Misplay:      models.ParseMisplay(values[7]),
			MisplayNote:  values[8],
			Notes:        values[9],
			CreatedAt:    now,
		}

		for j, name := range customNames {
			field := findFieldByName(finalFields, name)
			col := len(baseColumns) + j
			if field == nil || col >= len(values) || values[col] == "" {
				continue
			}
			record.SetCustomValue(field.ID, models.ParseTriState(values[col]))
		}

		imported = append(imported, record)
	}

	var finalRecords []*models.Record
	if mode == ModeReplace {
		finalRecords = imported
	} else {
		finalRecords = append(finalRecords, records...)
		finalRecords = append(finalRecords, imported...)
	}
	finalRecords = query.Sort(finalRecords, "date", query.Desc)

	return &Result{
		Records: finalRecords,
		Fields:  finalFields,
		Count:   len(imported),
	}, nil
}

func findFieldByName(fields []*models.CustomField, name string) *models.CustomField {
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// importSeq disambiguates ids generated within the same millisecond.
var importSeq atomic.Int64

func newRecordID(row int) string {
	return fmt.Sprintf("%d_%d_%d", time.Now().UnixMilli(), row, importSeq.Add(1))
}

func newFieldID() string {
	return fmt.Sprintf("custom_%d_%d", time.Now().UnixMilli(), importSeq.Add(1))
}
