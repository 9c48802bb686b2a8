package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalpost/internal/model"
)

func TestDescribeStatus(t *testing.T) {
	end := "2024-01-31"
	tests := []struct {
		name     string
		progress string
		now      string
		want     string
	}{
		{"complete before end", "100", "2024-01-10", "Completed!"},
		{"complete after end wins over expired", "100", "2024-03-01", "Completed!"},
		{"expired", "10", "2024-02-01", "Expired"},
		{"ends today", "10", "2024-01-31", "Ends today"},
		{"one day left", "10", "2024-01-30", "1 day left"},
		{"many days left", "10", "2024-01-01", "30 days left"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := goal("g", tt.progress, "100", "2024-01-01", end)
			assert.Equal(t, tt.want, DescribeStatus(g, day(tt.now)))
		})
	}
}

func TestDescribeStatus_SavingsScenario(t *testing.T) {
	g := model.Goal{
		Type:            model.Savings,
		TargetAmount:    d("1000"),
		CurrentProgress: d("1000"),
		StartDate:       day("2020-01-01"),
		EndDate:         day("2020-12-31"),
	}
	p := ComputeGoalProgress(g)
	require.InDelta(t, 100.0, p.Percentage, 1e-9)
	require.True(t, p.IsComplete)
	for _, now := range []string{"2019-06-01", "2020-06-01", "2030-01-01"} {
		assert.Equal(t, "Completed!", DescribeStatus(g, day(now)), "now=%s", now)
	}
}

func TestDaysRemaining_TruncatesToCalendarDays(t *testing.T) {
	g := goal("g", "0", "100", "2024-01-01", "2024-01-02")
	// Late evening of the day before still counts as one day.
	now := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysRemaining(g, now))
	assert.Equal(t, "1 day left", DescribeStatus(g, now))
}

func TestDaysRemaining_LongWindow(t *testing.T) {
	g := goal("g", "0", "100", "2024-01-01", "2400-01-01")
	now := day("2024-01-01")
	assert.Equal(t, 137331, DaysRemaining(g, now))
	assert.Equal(t, "137331 days left", DescribeStatus(g, now))
}
