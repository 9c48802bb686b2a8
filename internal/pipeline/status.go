package pipeline

import (
	"fmt"
	"time"

	"github.com/theirongolddev/goalpost/internal/model"
)

// DaysRemaining counts whole calendar days from now until g's end date.
func DaysRemaining(g model.Goal, now time.Time) int {
	return DaysBetween(now, g.EndDate)
}

// DescribeStatus returns the goal's status line. Completion takes priority over dates.
func DescribeStatus(g model.Goal, now time.Time) string {
	if ComputeGoalProgress(g).IsComplete {
		return "Completed!"
	}

	days := DaysRemaining(g, now)
	switch {
	case days < 0:
		return "Expired"
	case days == 0:
		return "Ends today"
	case days == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}
