package query

import "github.com/ymzk/battlelog/internal/models"

// Session is the explicit query-state object owned by the hosting
// application: active filters, sort order, current page, and the
// selection set. Nothing in this package keeps ambient state, so
// independent sessions can run side by side and tests stay
// deterministic.
type Session struct {
	Filters       Filters
	SortField     string
	SortDirection Direction
	PageNumber    int

	selected map[string]struct{}
}

// NewSession returns a session with the default sort (date
// descending, page 1) and no active filters.
func NewSession() *Session {
	return &Session{
		SortField:     "date",
		SortDirection: Desc,
		PageNumber:    1,
		selected:      make(map[string]struct{}),
	}
}

// Run filters and sorts a record snapshot according to the session
// state and resets the window to the first page.
func (s *Session) Run(records []*models.Record) []*models.Record {
	s.PageNumber = 1
	matched := Search(records, &s.Filters)
	return Sort(matched, s.SortField, s.SortDirection)
}

// ToggleSort flips the direction when the field is already active,
// otherwise switches to the field descending.
func (s *Session) ToggleSort(field string) {
	if s.SortField == field {
		if s.SortDirection == Asc {
			s.SortDirection = Desc
		} else {
			s.SortDirection = Asc
		}
		return
	}
	s.SortField = field
	s.SortDirection = Desc
}

// ToggleSelect adds or removes a record id from the selection set
// and reports the new membership.
func (s *Session) ToggleSelect(id string) bool {
	if s.selected == nil {
		s.selected = make(map[string]struct{})
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return false
	}
	s.selected[id] = struct{}{}
	return true
}

// Selected reports whether a record id is selected.
func (s *Session) Selected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// SelectedIDs returns the selection set as a slice, unordered.
func (s *Session) SelectedIDs() []string {
	out := make([]string, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, id)
	}
	return out
}

// ClearSelection empties the selection set.
func (s *Session) ClearSelection() {
	s.selected = make(map[string]struct{})
}

// Reset clears all filters and restores the default sort.
func (s *Session) Reset() {
	s.Filters = Filters{}
	s.SortField = "date"
	s.SortDirection = Desc
	s.PageNumber = 1
	s.ClearSelection()
}
