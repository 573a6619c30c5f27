package stats

import (
	"fmt"

	"github.com/ymzk/battlelog/internal/models"
)

// StreakStats holds win/loss streak information for a result set.
type StreakStats struct {
	// CurrentStreak is positive for an active win streak, negative
	// for an active loss streak, zero otherwise.
	CurrentStreak     int
	LongestWinStreak  int
	LongestLossStreak int
}

// CalculateStreaks calculates streak statistics from a result set.
// Records should be ordered chronologically (oldest to newest) for an
// accurate current streak. Draws and unrecorded results break
// streaks.
func CalculateStreaks(records []*models.Record) *StreakStats {
	stats := &StreakStats{}
	if len(records) == 0 {
		return stats
	}

	currentWinStreak := 0
	currentLossStreak := 0

	for _, record := range records {
		switch record.Result {
		case models.ResultWin:
			currentWinStreak++
			currentLossStreak = 0
			if currentWinStreak > stats.LongestWinStreak {
				stats.LongestWinStreak = currentWinStreak
			}

		case models.ResultLoss:
			currentLossStreak++
			currentWinStreak = 0
			if currentLossStreak > stats.LongestLossStreak {
				stats.LongestLossStreak = currentLossStreak
			}

		default:
			// Draw or unrecorded - break the streak
			currentWinStreak = 0
			currentLossStreak = 0
		}
	}

	if currentWinStreak > 0 {
		stats.CurrentStreak = currentWinStreak
	} else if currentLossStreak > 0 {
		stats.CurrentStreak = -currentLossStreak
	}

	return stats
}

// FormatCurrentStreak returns a human-readable string for the current
// streak.
func FormatCurrentStreak(streak int) string {
	if streak == 0 {
		return "No active streak"
	}
	if streak > 0 {
		if streak == 1 {
			return "1 win streak"
		}
		return fmt.Sprintf("%d win streak", streak)
	}
	absStreak := -streak
	if absStreak == 1 {
		return "1 loss streak"
	}
	return fmt.Sprintf("%d loss streak", absStreak)
}
