// Package query is the record query engine: multi-predicate
// filtering, tie-break sorting, and fixed-window pagination over
// in-memory record snapshots. All functions are pure; session state
// lives in an explicit Session value owned by the caller.
package query

import (
	"strconv"
	"strings"

	"github.com/ymzk/battlelog/internal/dates"
	"github.com/ymzk/battlelog/internal/models"
)

// Filters is the predicate set applied by Search. Zero values mean
// "no filter": empty strings, TurnUnset/ResultUnset, nil score
// bounds, and TriUnset custom values all match everything. Active
// predicates are AND-combined; there is no OR/NOT composition.
type Filters struct {
	// DateStart and DateEnd are inclusive calendar-date bounds in any
	// form dates.Normalize accepts. Records without a parseable date
	// pass through active bounds unfiltered.
	DateStart string
	DateEnd   string

	MyDeck       string
	OpponentDeck string
	GameName     string

	TurnOrder models.TurnOrder
	Result    models.Result

	// ScoreMin and ScoreMax are inclusive bounds. Records whose score
	// is absent are exempt from score filtering entirely; an
	// unparseable score is treated the same as absent.
	ScoreMin *float64
	ScoreMax *float64

	// Keyword matches case-insensitively as a substring of notes or
	// misplayNote.
	Keyword string

	// Custom maps field id to a required value; TriUnset entries are
	// ignored.
	Custom map[string]models.TriState
}

// Search returns the records matching all active filters, preserving
// input order. The output is always a subset of the input; with no
// active filters the full input is returned.
func Search(records []*models.Record, filters *Filters) []*models.Record {
	if filters == nil {
		filters = &Filters{}
	}

	matched := make([]*models.Record, 0, len(records))
	for _, record := range records {
		if filters.matches(record) {
			matched = append(matched, record)
		}
	}
	return matched
}

func (f *Filters) matches(r *models.Record) bool {
	if !f.matchesDateRange(r) {
		return false
	}
	if f.MyDeck != "" && r.MyDeck != f.MyDeck {
		return false
	}
	if f.OpponentDeck != "" && r.OpponentDeck != f.OpponentDeck {
		return false
	}
	if f.TurnOrder != models.TurnUnset && r.TurnOrder != f.TurnOrder {
		return false
	}
	if !f.matchesResult(r) {
		return false
	}
	if f.GameName != "" && r.GameName != f.GameName {
		return false
	}
	if !f.matchesScoreRange(r) {
		return false
	}
	if !f.matchesKeyword(r) {
		return false
	}
	for fieldID, want := range f.Custom {
		if want == models.TriUnset {
			continue
		}
		if r.CustomValue(fieldID) != want {
			return false
		}
	}
	return true
}

func (f *Filters) matchesDateRange(r *models.Record) bool {
	if f.DateStart == "" && f.DateEnd == "" {
		return true
	}
	if r.Date == "" {
		return true
	}
	recordDate, err := dates.Parse(r.Date)
	if err != nil {
		// Raw unnormalized dates are not comparable; bounds do not
		// apply to them.
		return true
	}
	if f.DateStart != "" {
		if start, err := dates.Parse(f.DateStart); err == nil && recordDate.Before(start) {
			return false
		}
	}
	if f.DateEnd != "" {
		if end, err := dates.Parse(f.DateEnd); err == nil && recordDate.After(end) {
			return false
		}
	}
	return true
}

// matchesResult applies the result filter. A draw filter always
// accepts draw records before the exact comparison runs, so the rule
// survives any future result encodings.
func (f *Filters) matchesResult(r *models.Record) bool {
	if f.Result == models.ResultUnset {
		return true
	}
	if f.Result == models.ResultDraw && r.Result == models.ResultDraw {
		return true
	}
	return r.Result == f.Result
}

func (f *Filters) matchesScoreRange(r *models.Record) bool {
	if f.ScoreMin == nil && f.ScoreMax == nil {
		return true
	}
	if r.Score == "" {
		return true
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(r.Score), 64)
	if err != nil {
		return true
	}
	if f.ScoreMin != nil && score < *f.ScoreMin {
		return false
	}
	if f.ScoreMax != nil && score > *f.ScoreMax {
		return false
	}
	return true
}

func (f *Filters) matchesKeyword(r *models.Record) bool {
	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Notes), keyword) ||
		strings.Contains(strings.ToLower(r.MisplayNote), keyword)
}
