package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ymzk/battlelog/internal/dates"
	"github.com/ymzk/battlelog/internal/models"
)

// Direction orders a sort ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort returns a new slice ordered by the given field.
//
// The date field compares calendar dates (falling back to createdAt
// for records without a date) and breaks ties by id in the requested
// direction, so same-day entries keep a deterministic insertion
// order. The score field compares numerically with non-numeric
// values as 0. Every other field, custom field ids included,
// compares case-insensitively as text. The sort is stable for keys
// that remain equal past the explicit tie-break.
func Sort(records []*models.Record, field string, direction Direction) []*models.Record {
	out := make([]*models.Record, len(records))
	copy(out, records)

	asc := direction != Desc

	switch field {
	case "date":
		sort.SliceStable(out, func(i, j int) bool {
			a := dates.SortKey(out[i].Date, out[i].CreatedAt)
			b := dates.SortKey(out[j].Date, out[j].CreatedAt)
			if a.Equal(b) {
				if asc {
					return out[i].ID < out[j].ID
				}
				return out[i].ID > out[j].ID
			}
			if asc {
				return a.Before(b)
			}
			return a.After(b)
		})
	case "score":
		sort.SliceStable(out, func(i, j int) bool {
			a := scoreValue(out[i].Score)
			b := scoreValue(out[j].Score)
			if asc {
				return a < b
			}
			return a > b
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			a := strings.ToLower(fieldText(out[i], field))
			b := strings.ToLower(fieldText(out[j], field))
			if asc {
				return a < b
			}
			return a > b
		})
	}

	return out
}

// scoreValue parses a score string for numeric comparison.
// Non-numeric (including empty) compares as 0.
func scoreValue(score string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(score), 64)
	if err != nil {
		return 0
	}
	return v
}

// fieldText resolves a sortable text value for a field id. Unknown
// ids are looked up as custom fields.
func fieldText(r *models.Record, field string) string {
	switch field {
	case "id":
		return r.ID
	case "myDeck":
		return r.MyDeck
	case "opponentDeck":
		return r.OpponentDeck
	case "gameName":
		return r.GameName
	case "turnOrder":
		return r.TurnOrder.String()
	case "result":
		return r.Result.String()
	case "misplay":
		return r.Misplay.String()
	case "misplayNote":
		return r.MisplayNote
	case "notes":
		return r.Notes
	case "createdAt":
		return r.CreatedAt
	default:
		return r.CustomValue(field).String()
	}
}
