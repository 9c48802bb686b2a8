package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalpost/internal/model"
)

func TestComputeBudgetProgress_GroceriesJanuary(t *testing.T) {
	b := januaryBudget("groceries")
	income := expense("salary", "1000", "groceries", "2024-01-05")
	income.Type = model.Income
	txns := []model.Transaction{
		expense("shop", "100", "groceries", "2024-01-10"),
		expense("bus", "50", "transport", "2024-01-15"),
		income,
	}

	p := ComputeBudgetProgress(txns, b)
	assert.Equal(t, "jan", p.BudgetID)
	assert.True(t, p.Spent.Equal(d("100")), "spent = %s", p.Spent)
	assert.True(t, p.Remaining.Equal(d("400")), "remaining = %s", p.Remaining)
	assert.InDelta(t, 20.0, p.Percentage, 1e-9)
	assert.False(t, p.IsOverBudget)
}

func TestComputeBudgetProgress_GuardedDivision(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		spend    []string
		wantOver bool
	}{
		{"zero limit with spend", "0", []string{"5"}, true},
		{"zero limit no spend", "0", nil, false},
		{"negative limit", "-10", []string{"5"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := januaryBudget()
			b.Amount = d(tt.amount)
			var txns []model.Transaction
			for i, s := range tt.spend {
				txns = append(txns, expense(string(rune('a'+i)), s, "x", "2024-01-10"))
			}

			p := ComputeBudgetProgress(txns, b)
			assert.Zero(t, p.Percentage)
			assert.Equal(t, tt.wantOver, p.IsOverBudget)
		})
	}
}

func TestComputeBudgetProgress_ExactlyAtLimitIsNotOver(t *testing.T) {
	b := januaryBudget()
	p := ComputeBudgetProgress([]model.Transaction{expense("a", "500", "x", "2024-01-02")}, b)
	assert.False(t, p.IsOverBudget)
	assert.InDelta(t, 100.0, p.Percentage, 1e-9)
	assert.True(t, p.Remaining.IsZero())

	p = ComputeBudgetProgress([]model.Transaction{expense("a", "500.01", "x", "2024-01-02")}, b)
	assert.True(t, p.IsOverBudget)
	assert.True(t, p.Remaining.IsNegative())
}

func TestComputeBudgetProgress_Idempotent(t *testing.T) {
	txns := []model.Transaction{
		expense("a", "12.34", "x", "2024-01-02"),
		expense("b", "0.66", "x", "2024-01-03"),
	}
	b := januaryBudget()

	first := ComputeBudgetProgress(txns, b)
	second := ComputeBudgetProgress(txns, b)
	assert.Equal(t, first, second)
	assert.True(t, first.Spent.Equal(d("13")))
}

func TestComputeGoalProgress(t *testing.T) {
	tests := []struct {
		name         string
		progress     string
		target       string
		wantPct      float64
		wantComplete bool
		wantRemain   string
	}{
		{"savings complete", "1000", "1000", 100, true, "0"},
		{"overshoot", "600", "500", 120, true, "-100"},
		{"halfway", "250", "500", 50, false, "250"},
		{"zero target", "10", "0", 0, true, "-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := model.Goal{ID: "g", TargetAmount: d(tt.target), CurrentProgress: d(tt.progress)}
			p := ComputeGoalProgress(g)
			require.Equal(t, "g", p.GoalID)
			assert.InDelta(t, tt.wantPct, p.Percentage, 1e-9)
			assert.Equal(t, tt.wantComplete, p.IsComplete)
			assert.True(t, p.Remaining.Equal(d(tt.wantRemain)), "remaining = %s", p.Remaining)
			assert.True(t, p.Progress.Equal(g.CurrentProgress))
			assert.True(t, p.Target.Equal(g.TargetAmount))
		})
	}
}
