package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OverviewStats holds the top-level roll-up across budgets and goals.
type OverviewStats struct {
	Budgets        int
	ActiveBudgets  int
	OverBudget     int
	Goals          int
	ActiveGoals    int
	CompletedGoals int
	ExpiredGoals   int

	// Totals over active budgets only.
	TotalSpent decimal.Decimal
	TotalLimit decimal.Decimal
	// 100*TotalSpent/TotalLimit, 0 when there is no active limit.
	SpentPercent float64

	Transactions int
}

// DailySpend holds included spend for a single calendar day.
type DailySpend struct {
	Date         time.Time
	Spent        decimal.Decimal
	Transactions int
}

// CategorySpend holds one category's slice of a budget's spend.
type CategorySpend struct {
	CategoryID   string
	Spent        decimal.Decimal
	Transactions int
	Share        float64 // percent of the budget's total spend
}
