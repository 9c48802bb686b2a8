package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalpost/internal/model"
)

func TestBudgetTone(t *testing.T) {
	tests := []struct {
		pct  float64
		want Tone
	}{
		{0, ToneGreen},
		{49.99, ToneGreen},
		{50, ToneAmber},
		{74.9, ToneAmber},
		{75, ToneDarkOrange},
		{99.99, ToneDarkOrange},
		{100, ToneRed},
		{350, ToneRed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BudgetTone(tt.pct), "BudgetTone(%.2f)", tt.pct)
	}
}

func TestGoalTone(t *testing.T) {
	tests := []struct {
		typ  model.GoalType
		pct  float64
		want Tone
	}{
		{model.Savings, 0, ToneRed},
		{model.Savings, 24.9, ToneRed},
		{model.Savings, 25, ToneOrange},
		{model.Savings, 50, ToneLightOrange},
		{model.Savings, 75, ToneGreen},
		{model.Savings, 100, ToneDarkGreen},
		{model.Savings, 180, ToneDarkGreen},
		{model.Spending, 10, ToneGreen},
		{model.Spending, 60, ToneAmber},
		{model.Spending, 80, ToneDarkOrange},
		{model.Spending, 120, ToneRed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GoalTone(tt.typ, tt.pct), "GoalTone(%s, %.1f)", tt.typ, tt.pct)
	}
}

func TestGoalTone_SpendingOvershoot(t *testing.T) {
	g := model.Goal{Type: model.Spending, TargetAmount: d("500"), CurrentProgress: d("600")}
	p := ComputeGoalProgress(g)
	require.InDelta(t, 120.0, p.Percentage, 1e-9)
	assert.Equal(t, ToneRed, GoalTone(g.Type, p.Percentage))
}
