// Package pipeline holds the progress and classification engine: pure functions
// over budget, goal and transaction snapshots, plus the ledger loading that feeds them.
package pipeline

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/goalpost/internal/model"
)

// BudgetSummary is a budget with everything a list view needs.
type BudgetSummary struct {
	Budget   model.Budget
	Progress model.BudgetProgress
	Active   bool
	Tone     Tone
}

// GoalSummary is a goal with everything a list view needs.
type GoalSummary struct {
	Goal          model.Goal
	Progress      model.GoalProgress
	Status        string
	DaysRemaining int
	Active        bool
	Expired       bool
	Tone          Tone
}

// SummarizeBudgets computes progress for each budget, preserving input order.
func SummarizeBudgets(txns []model.Transaction, budgets []model.Budget, now time.Time) []BudgetSummary {
	out := make([]BudgetSummary, 0, len(budgets))
	for _, b := range budgets {
		p := ComputeBudgetProgress(txns, b)
		out = append(out, BudgetSummary{
			Budget:   b,
			Progress: p,
			Active:   IsBudgetActive(b, now),
			Tone:     BudgetTone(p.Percentage),
		})
	}
	return out
}

// SummarizeGoals computes progress and status for each goal, preserving input order.
func SummarizeGoals(goals []model.Goal, now time.Time) []GoalSummary {
	out := make([]GoalSummary, 0, len(goals))
	for _, g := range goals {
		p := ComputeGoalProgress(g)
		out = append(out, GoalSummary{
			Goal:          g,
			Progress:      p,
			Status:        DescribeStatus(g, now),
			DaysRemaining: DaysRemaining(g, now),
			Active:        IsGoalActive(g, now),
			Expired:       IsGoalExpired(g, now),
			Tone:          GoalTone(g.Type, p.Percentage),
		})
	}
	return out
}

// Overview rolls budgets and goals up into counts and active-budget totals.
func Overview(txns []model.Transaction, budgets []model.Budget, goals []model.Goal, now time.Time) model.OverviewStats {
	stats := model.OverviewStats{
		Budgets:      len(budgets),
		Goals:        len(goals),
		Transactions: len(txns),
		TotalSpent:   decimal.Zero,
		TotalLimit:   decimal.Zero,
	}

	for _, s := range SummarizeBudgets(txns, budgets, now) {
		if !s.Active {
			continue
		}
		stats.ActiveBudgets++
		if s.Progress.IsOverBudget {
			stats.OverBudget++
		}
		stats.TotalSpent = stats.TotalSpent.Add(s.Progress.Spent)
		stats.TotalLimit = stats.TotalLimit.Add(s.Budget.Amount)
	}
	stats.SpentPercent = percentOf(stats.TotalSpent, stats.TotalLimit)

	for _, g := range goals {
		if MatchesGoalFilter(g, GoalFilterActive, now) {
			stats.ActiveGoals++
		}
		if MatchesGoalFilter(g, GoalFilterCompleted, now) {
			stats.CompletedGoals++
		}
		if MatchesGoalFilter(g, GoalFilterExpired, now) {
			stats.ExpiredGoals++
		}
	}

	return stats
}

// AggregateDailySpend returns b's included spend per calendar day, oldest first.
// Every day of the window is present so charts show gaps as zeros.
// An inverted window yields nil.
func AggregateDailySpend(txns []model.Transaction, b model.Budget) []model.DailySpend {
	start := calendarDay(b.StartDate)
	end := calendarDay(b.EndDate)
	if end.Before(start) {
		return nil
	}

	n := DaysBetween(start, end) + 1
	days := make([]model.DailySpend, n)
	for i := range days {
		days[i] = model.DailySpend{Date: start.AddDate(0, 0, i), Spent: decimal.Zero}
	}

	for _, t := range SelectIncludedTransactions(txns, b) {
		idx := DaysBetween(start, t.Date)
		days[idx].Spent = days[idx].Spent.Add(t.Amount)
		days[idx].Transactions++
	}

	return days
}

// SpendByCategory breaks b's included spend down per category, largest first.
// Ties keep category id order.
func SpendByCategory(txns []model.Transaction, b model.Budget) []model.CategorySpend {
	idx := make(map[string]int)
	var out []model.CategorySpend
	for _, t := range SelectIncludedTransactions(txns, b) {
		i, ok := idx[t.CategoryID]
		if !ok {
			i = len(out)
			idx[t.CategoryID] = i
			out = append(out, model.CategorySpend{CategoryID: t.CategoryID, Spent: decimal.Zero})
		}
		out[i].Spent = out[i].Spent.Add(t.Amount)
		out[i].Transactions++
	}

	total := ComputeBudgetProgress(txns, b).Spent
	for i := range out {
		out[i].Share = percentOf(out[i].Spent, total)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Spent.Cmp(out[j].Spent); c != 0 {
			return c > 0
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}
