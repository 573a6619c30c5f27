package query

import "github.com/ymzk/battlelog/internal/models"

// PageSize is the fixed result window size.
const PageSize = 100

// Page is one window of a result set.
type Page struct {
	Records   []*models.Record
	Number    int // 1-based, clamped to [1, PageCount]
	PageCount int
	Total     int
}

// Paginate windows a sorted, filtered result set. Out-of-range page
// requests clamp to the valid range; an empty result set yields page
// 1 of 0 pages.
func Paginate(records []*models.Record, page int) Page {
	total := len(records)
	pageCount := (total + PageSize - 1) / PageSize

	if page > pageCount {
		page = pageCount
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Records:   records[start:end],
		Number:    page,
		PageCount: pageCount,
		Total:     total,
	}
}
