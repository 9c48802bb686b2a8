package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/goalpost/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ComputeBudgetProgress sums the included expenses for b and derives its progress.
func ComputeBudgetProgress(txns []model.Transaction, b model.Budget) model.BudgetProgress {
	spent := decimal.Zero
	for _, t := range SelectIncludedTransactions(txns, b) {
		spent = spent.Add(t.Amount)
	}

	return model.BudgetProgress{
		BudgetID:     b.ID,
		Spent:        spent,
		Remaining:    b.Amount.Sub(spent),
		Percentage:   percentOf(spent, b.Amount),
		IsOverBudget: spent.GreaterThan(b.Amount),
	}
}

// ComputeGoalProgress derives g's progress from its manually tracked amount.
func ComputeGoalProgress(g model.Goal) model.GoalProgress {
	return model.GoalProgress{
		GoalID:     g.ID,
		Progress:   g.CurrentProgress,
		Target:     g.TargetAmount,
		Percentage: percentOf(g.CurrentProgress, g.TargetAmount),
		Remaining:  g.TargetAmount.Sub(g.CurrentProgress),
		IsComplete: g.CurrentProgress.GreaterThanOrEqual(g.TargetAmount),
	}
}

// percentOf returns 100*part/whole, or 0 when whole is not positive.
func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Mul(hundred).Div(whole).InexactFloat64()
}
