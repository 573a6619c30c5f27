// Package dates normalizes heterogeneous date input into the
// canonical YYYY/MM/DD form used for all record comparisons.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Canonical is the layout of normalized date strings.
const Canonical = "2006/01/02"

// ErrInvalidDate is returned when no interpretation of the input
// yields a valid calendar date.
var ErrInvalidDate = errors.New("invalid date")

var (
	yearFirstRe = regexp.MustCompile(`^(\d{4})[/\-.](\d{1,2})[/\-.](\d{1,2})$`)
	dayFirstRe  = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})$`)
	compactRe   = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
)

// fallbackLayouts is tried, in order, when none of the numeric
// patterns match. Last-resort generic calendar-text parse.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
}

// Normalize parses heterogeneous date text and returns the canonical
// zero-padded YYYY/MM/DD form. Empty input normalizes to the empty
// string (date unset). Returns ErrInvalidDate when no interpretation
// yields a real calendar date (Feb 30, month 13, and similar are
// rejected).
//
// Accepted forms: YYYY/MM/DD, YYYY-MM-DD, YYYY.MM.DD, the same with
// day first, and compact YYYYMMDD. For day-first input the roles are
// disambiguated heuristically: a first component > 12 must be the
// day; otherwise the pair is read month-then-day. Ambiguous pairs
// (both components <= 12) therefore default to month first, which is
// a documented guess, not a guarantee.
//
// Normalize is pure and idempotent: canonical output re-normalizes to
// itself.
func Normalize(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}

	if m := yearFirstRe.FindStringSubmatch(input); m != nil {
		return format(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	if m := dayFirstRe.FindStringSubmatch(input); m != nil {
		a, b, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if a > 12 {
			// First component cannot be a month.
			return format(year, b, a)
		}
		// Month-then-day, also when the second component forces the
		// swap (b > 12 fails validation as a month either way).
		return format(year, a, b)
	}

	if m := compactRe.FindStringSubmatch(input); m != nil {
		return format(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t.Format(Canonical), nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidDate, input)
}

// Valid reports whether the input normalizes successfully. Empty
// input counts as valid (date unset).
func Valid(input string) bool {
	_, err := Normalize(input)
	return err == nil
}

// Parse converts a date string to a time.Time at midnight UTC. The
// input is normalized first, so any form Normalize accepts works.
func Parse(input string) (time.Time, error) {
	canonical, err := Normalize(input)
	if err != nil {
		return time.Time{}, err
	}
	if canonical == "" {
		return time.Time{}, ErrInvalidDate
	}
	return time.ParseInLocation(Canonical, canonical, time.UTC)
}

// SortKey returns the instant used for date ordering: the record's
// date when set and parseable, otherwise its creation timestamp.
func SortKey(date, createdAt string) time.Time {
	if date != "" {
		if t, err := Parse(date); err == nil {
			return t
		}
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		return t
	}
	return time.Time{}
}

// format validates the calendar components and renders the canonical
// form.
func format(year, month, day int) (string, error) {
	if month < 1 || month > 12 || day < 1 || day > daysIn(year, month) {
		return "", fmt.Errorf("%w: %04d/%02d/%02d", ErrInvalidDate, year, month, day)
	}
	return fmt.Sprintf("%04d/%02d/%02d", year, month, day), nil
}

func daysIn(year, month int) int {
	// First day of the next month, minus one day.
	t := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return t.Day()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
