// Package stats computes win-rate statistics and streaks over query
// result sets.
package stats

import (
	"math"

	"github.com/ymzk/battlelog/internal/models"
)

// Summary holds the aggregate statistics for a result set. All rates
// are percentages rounded to one decimal place, and 0.0 whenever the
// corresponding denominator is not positive.
type Summary struct {
	Total int

	WinCount        int
	DrawCount       int
	UnrecordedCount int // Result not recorded (neither win/loss/draw)

	FirstCount  int
	SecondCount int

	FirstWinCount  int
	SecondWinCount int

	FirstDrawCount  int
	SecondDrawCount int

	FirstUnrecorded  int
	SecondUnrecorded int

	// TurnUnrecordedCount counts records with no turn order set.
	TurnUnrecordedCount int

	FirstRate     float64 // Share of games going first among those with a turn order
	WinRate       float64
	FirstWinRate  float64
	SecondWinRate float64
}

// Compute aggregates statistics over a result set. Records whose
// result is unrecorded never count toward a denominator; with
// settings.ExcludeDraws set, each subset's own draw count is removed
// from its own denominator as well.
func Compute(records []*models.Record, settings *models.CalcSettings) *Summary {
	excludeDraws := settings != nil && settings.ExcludeDraws

	s := &Summary{Total: len(records)}

	for _, r := range records {
		unrecorded := r.Result == models.ResultUnset

		switch r.Result {
		case models.ResultWin:
			s.WinCount++
		case models.ResultDraw:
			s.DrawCount++
		case models.ResultUnset:
			s.UnrecordedCount++
		}

		switch r.TurnOrder {
		case models.TurnFirst:
			s.FirstCount++
			if r.Result == models.ResultWin {
				s.FirstWinCount++
			}
			if r.Result == models.ResultDraw {
				s.FirstDrawCount++
			}
			if unrecorded {
				s.FirstUnrecorded++
			}
		case models.TurnSecond:
			s.SecondCount++
			if r.Result == models.ResultWin {
				s.SecondWinCount++
			}
			if r.Result == models.ResultDraw {
				s.SecondDrawCount++
			}
			if unrecorded {
				s.SecondUnrecorded++
			}
		default:
			s.TurnUnrecordedCount++
		}
	}

	totalDenominator := s.Total - s.UnrecordedCount
	firstDenominator := s.FirstCount - s.FirstUnrecorded
	secondDenominator := s.SecondCount - s.SecondUnrecorded
	if excludeDraws {
		totalDenominator -= s.DrawCount
		firstDenominator -= s.FirstDrawCount
		secondDenominator -= s.SecondDrawCount
	}

	s.FirstRate = rate(s.FirstCount, s.FirstCount+s.SecondCount)
	s.WinRate = rate(s.WinCount, totalDenominator)
	s.FirstWinRate = rate(s.FirstWinCount, firstDenominator)
	s.SecondWinRate = rate(s.SecondWinCount, secondDenominator)

	return s
}

// rate returns count/denominator as a percentage rounded to one
// decimal place, or 0.0 when the denominator is not positive.
func rate(count, denominator int) float64 {
	if denominator <= 0 {
		return 0.0
	}
	return math.Round(float64(count)/float64(denominator)*1000) / 10
}
