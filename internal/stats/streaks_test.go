package stats

import (
	"testing"

	"github.com/ymzk/battlelog/internal/models"
)

func recordsFromResults(results ...models.Result) []*models.Record {
	records := make([]*models.Record, len(results))
	for i, r := range results {
		records[i] = &models.Record{Result: r}
	}
	return records
}

func TestCalculateStreaks(t *testing.T) {
	win := models.ResultWin
	loss := models.ResultLoss
	draw := models.ResultDraw
	unset := models.ResultUnset

	tests := []struct {
		name            string
		results         []models.Result
		wantCurrent     int
		wantLongestWin  int
		wantLongestLoss int
	}{
		{
			name: "empty",
		},
		{
			name:            "all wins",
			results:         []models.Result{win, win, win},
			wantCurrent:     3,
			wantLongestWin:  3,
			wantLongestLoss: 0,
		},
		{
			name:            "loss streak active",
			results:         []models.Result{win, loss, loss},
			wantCurrent:     -2,
			wantLongestWin:  1,
			wantLongestLoss: 2,
		},
		{
			name:            "draw breaks the streak",
			results:         []models.Result{win, win, draw, win},
			wantCurrent:     1,
			wantLongestWin:  2,
			wantLongestLoss: 0,
		},
		{
			name:            "unrecorded breaks the streak",
			results:         []models.Result{loss, loss, unset},
			wantCurrent:     0,
			wantLongestWin:  0,
			wantLongestLoss: 2,
		},
		{
			name:            "longest win in the middle",
			results:         []models.Result{win, win, win, loss, win},
			wantCurrent:     1,
			wantLongestWin:  3,
			wantLongestLoss: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStreaks(recordsFromResults(tt.results...))
			if got.CurrentStreak != tt.wantCurrent {
				t.Errorf("CurrentStreak = %d, want %d", got.CurrentStreak, tt.wantCurrent)
			}
			if got.LongestWinStreak != tt.wantLongestWin {
				t.Errorf("LongestWinStreak = %d, want %d", got.LongestWinStreak, tt.wantLongestWin)
			}
			if got.LongestLossStreak != tt.wantLongestLoss {
				t.Errorf("LongestLossStreak = %d, want %d", got.LongestLossStreak, tt.wantLongestLoss)
			}
		})
	}
}

func TestFormatCurrentStreak(t *testing.T) {
	tests := []struct {
		streak int
		want   string
	}{
		{0, "No active streak"},
		{1, "1 win streak"},
		{5, "5 win streak"},
		{-1, "1 loss streak"},
		{-3, "3 loss streak"},
	}

	for _, tt := range tests {
		if got := FormatCurrentStreak(tt.streak); got != tt.want {
			t.Errorf("FormatCurrentStreak(%d) = %q, want %q", tt.streak, got, tt.want)
		}
	}
}
