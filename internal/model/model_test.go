package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorySet(t *testing.T) {
	empty := NewCategorySet()
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.Contains("food"))

	set := NewCategorySet("food", " ", "transport", "food")
	assert.False(t, set.IsEmpty())
	assert.True(t, set.Contains("food"))
	assert.False(t, set.Contains("rent"))
	assert.Equal(t, []string{"food", "transport"}, set.IDs())
}

func TestParseTransactionType(t *testing.T) {
	for _, tt := range TransactionTypes {
		got, err := ParseTransactionType(tt.String())
		require.NoError(t, err)
		assert.Equal(t, tt, got)
	}

	got, err := ParseTransactionType(" Income ")
	require.NoError(t, err)
	assert.Equal(t, Income, got)

	_, err = ParseTransactionType("refund")
	assert.ErrorIs(t, err, ErrUnknownTransactionType)
}

func TestParseGoalType(t *testing.T) {
	got, err := ParseGoalType("SAVINGS")
	require.NoError(t, err)
	assert.Equal(t, Savings, got)

	_, err = ParseGoalType("investing")
	assert.ErrorIs(t, err, ErrUnknownGoalType)
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{
		Name:      "Groceries",
		Amount:    decimal.NewFromInt(500),
		StartDate: Day(2024, time.January, 1),
		EndDate:   Day(2024, time.January, 31),
	}
	require.NoError(t, good.Validate())

	oneDay := good
	oneDay.EndDate = oneDay.StartDate
	assert.NoError(t, oneDay.Validate())

	tests := []struct {
		name   string
		mutate func(*Budget)
		want   error
	}{
		{"blank name", func(b *Budget) { b.Name = "  " }, ErrEmptyName},
		{"zero amount", func(b *Budget) { b.Amount = decimal.Zero }, ErrInvalidAmount},
		{"missing start", func(b *Budget) { b.StartDate = time.Time{} }, ErrMissingDate},
		{"inverted window", func(b *Budget) { b.EndDate = Day(2023, time.December, 31) }, ErrInvalidDateRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := good
			tt.mutate(&b)
			assert.ErrorIs(t, b.Validate(), tt.want)
		})
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{
		Type:         Savings,
		Name:         "Emergency fund",
		TargetAmount: decimal.NewFromInt(1000),
		StartDate:    Day(2024, time.January, 1),
		EndDate:      Day(2024, time.December, 31),
	}
	require.NoError(t, good.Validate())

	neg := good
	neg.CurrentProgress = decimal.NewFromInt(-1)
	assert.ErrorIs(t, neg.Validate(), ErrNegativeAmount)

	bad := good
	bad.Type = GoalType(9)
	assert.ErrorIs(t, bad.Validate(), ErrUnknownGoalType)
}

func TestTransactionValidate(t *testing.T) {
	tx := Transaction{Type: Expense, Amount: decimal.NewFromInt(10), Date: Day(2024, time.March, 3)}
	require.NoError(t, tx.Validate())

	tx.Amount = decimal.NewFromInt(-10)
	assert.ErrorIs(t, tx.Validate(), ErrNegativeAmount)

	tx.Amount = decimal.Zero
	tx.Date = time.Time{}
	assert.ErrorIs(t, tx.Validate(), ErrMissingDate)
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Day(2024, time.February, 29), d)

	_, err = ParseDay("29/02/2024")
	assert.Error(t, err)
}
