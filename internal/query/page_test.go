package query

import (
	"fmt"
	"testing"

	"github.com/ymzk/battlelog/internal/models"
)

func makeRecords(n int) []*models.Record {
	records := make([]*models.Record, n)
	for i := range records {
		records[i] = &models.Record{ID: fmt.Sprintf("%04d", i)}
	}
	return records
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name          string
		total         int
		page          int
		wantNumber    int
		wantPageCount int
		wantLen       int
		wantFirstID   string
	}{
		{
			name:          "single partial page",
			total:         42,
			page:          1,
			wantNumber:    1,
			wantPageCount: 1,
			wantLen:       42,
			wantFirstID:   "0000",
		},
		{
			name:          "exact page boundary",
			total:         200,
			page:          2,
			wantNumber:    2,
			wantPageCount: 2,
			wantLen:       100,
			wantFirstID:   "0100",
		},
		{
			name:          "last page remainder",
			total:         250,
			page:          3,
			wantNumber:    3,
			wantPageCount: 3,
			wantLen:       50,
			wantFirstID:   "0200",
		},
		{
			name:          "page past the end clamps",
			total:         150,
			page:          99,
			wantNumber:    2,
			wantPageCount: 2,
			wantLen:       50,
			wantFirstID:   "0100",
		},
		{
			name:          "page below one clamps",
			total:         10,
			page:          0,
			wantNumber:    1,
			wantPageCount: 1,
			wantLen:       10,
			wantFirstID:   "0000",
		},
		{
			name:          "empty result set",
			total:         0,
			page:          5,
			wantNumber:    1,
			wantPageCount: 0,
			wantLen:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(makeRecords(tt.total), tt.page)
			if page.Number != tt.wantNumber {
				t.Errorf("Number = %d, want %d", page.Number, tt.wantNumber)
			}
			if page.PageCount != tt.wantPageCount {
				t.Errorf("PageCount = %d, want %d", page.PageCount, tt.wantPageCount)
			}
			if page.Total != tt.total {
				t.Errorf("Total = %d, want %d", page.Total, tt.total)
			}
			if len(page.Records) != tt.wantLen {
				t.Fatalf("len(Records) = %d, want %d", len(page.Records), tt.wantLen)
			}
			if tt.wantLen > 0 && page.Records[0].ID != tt.wantFirstID {
				t.Errorf("first id = %s, want %s", page.Records[0].ID, tt.wantFirstID)
			}
		})
	}
}

func TestSessionRunResetsPage(t *testing.T) {
	session := NewSession()
	session.PageNumber = 7

	records := makeRecords(5)
	results := session.Run(records)
	if session.PageNumber != 1 {
		t.Errorf("Run should reset to page 1, got %d", session.PageNumber)
	}
	if len(results) != 5 {
		t.Errorf("no filters should pass everything, got %d", len(results))
	}
}

func TestSessionToggleSort(t *testing.T) {
	session := NewSession()
	if session.SortField != "date" || session.SortDirection != Desc {
		t.Fatalf("default sort should be date desc, got %s %s", session.SortField, session.SortDirection)
	}

	session.ToggleSort("date")
	if session.SortDirection != Asc {
		t.Error("toggling the active field should flip direction")
	}

	session.ToggleSort("score")
	if session.SortField != "score" || session.SortDirection != Desc {
		t.Errorf("switching fields should reset to desc, got %s %s", session.SortField, session.SortDirection)
	}
}

func TestSessionSelection(t *testing.T) {
	session := NewSession()

	if !session.ToggleSelect("a") {
		t.Error("first toggle should select")
	}
	if session.ToggleSelect("a") {
		t.Error("second toggle should deselect")
	}
	session.ToggleSelect("b")
	session.ToggleSelect("c")
	if got := len(session.SelectedIDs()); got != 2 {
		t.Errorf("expected 2 selected, got %d", got)
	}
	session.ClearSelection()
	if session.Selected("b") {
		t.Error("ClearSelection should empty the set")
	}
}
