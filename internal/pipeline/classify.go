package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/goalpost/internal/model"
)

// IsBudgetActive reports whether now falls within the budget window, both ends inclusive.
func IsBudgetActive(b model.Budget, now time.Time) bool {
	return WithinDays(now, b.StartDate, b.EndDate)
}

// IsGoalActive reports whether now falls within the goal window, both ends inclusive.
func IsGoalActive(g model.Goal, now time.Time) bool {
	return WithinDays(now, g.StartDate, g.EndDate)
}

// IsGoalExpired reports whether now is past the goal's end date. The end date itself is not expired.
func IsGoalExpired(g model.Goal, now time.Time) bool {
	return AfterDay(now, g.EndDate)
}

func isGoalComplete(g model.Goal) bool {
	return g.CurrentProgress.GreaterThanOrEqual(g.TargetAmount)
}

// GoalFilter selects a goal list bucket.
type GoalFilter int

const (
	GoalFilterAll GoalFilter = iota
	GoalFilterActive
	GoalFilterCompleted
	GoalFilterExpired
)

// GoalFilters lists every filter in display order.
var GoalFilters = []GoalFilter{GoalFilterActive, GoalFilterCompleted, GoalFilterExpired, GoalFilterAll}

func (f GoalFilter) String() string {
	switch f {
	case GoalFilterAll:
		return "all"
	case GoalFilterActive:
		return "active"
	case GoalFilterCompleted:
		return "completed"
	case GoalFilterExpired:
		return "expired"
	default:
		return fmt.Sprintf("GoalFilter(%d)", int(f))
	}
}

// ParseGoalFilter maps a filter name to its GoalFilter.
func ParseGoalFilter(s string) (GoalFilter, error) {
	for _, f := range GoalFilters {
		if strings.EqualFold(strings.TrimSpace(s), f.String()) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown goal filter %q (want active, completed, expired or all)", s)
}

// MatchesGoalFilter applies the list-view policy for one goal.
// Completion wins over dates: a complete goal is never in the active or expired bucket.
func MatchesGoalFilter(g model.Goal, f GoalFilter, now time.Time) bool {
	switch f {
	case GoalFilterAll:
		return true
	case GoalFilterActive:
		return IsGoalActive(g, now) && !isGoalComplete(g)
	case GoalFilterCompleted:
		return isGoalComplete(g)
	case GoalFilterExpired:
		return IsGoalExpired(g, now) && !isGoalComplete(g)
	default:
		return false
	}
}

// FilterGoals returns the goals in bucket f, preserving order.
func FilterGoals(goals []model.Goal, f GoalFilter, now time.Time) []model.Goal {
	var result []model.Goal
	for _, g := range goals {
		if MatchesGoalFilter(g, f, now) {
			result = append(result, g)
		}
	}
	return result
}

// FilterBudgets returns the budgets active at now, or all of them when activeOnly is false.
func FilterBudgets(budgets []model.Budget, now time.Time, activeOnly bool) []model.Budget {
	if !activeOnly {
		return budgets
	}
	var result []model.Budget
	for _, b := range budgets {
		if IsBudgetActive(b, now) {
			result = append(result, b)
		}
	}
	return result
}
