package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/goalpost/internal/model"
)

func syntheticLedger(n int) []model.Transaction {
	cats := []string{"groceries", "transport", "rent", "fun"}
	types := []model.TransactionType{model.Expense, model.Expense, model.Expense, model.Income}
	txns := make([]model.Transaction, n)
	start := model.Day(2024, 1, 1)
	for i := range txns {
		txns[i] = model.Transaction{
			ID:         fmt.Sprintf("t%d", i),
			Type:       types[i%len(types)],
			Amount:     decimal.NewFromInt(int64(i%97 + 1)),
			Date:       start.AddDate(0, 0, i%366),
			CategoryID: cats[i%len(cats)],
		}
	}
	return txns
}

func BenchmarkComputeBudgetProgress(b *testing.B) {
	txns := syntheticLedger(50_000)
	budget := model.Budget{
		ID:          "b",
		Amount:      decimal.NewFromInt(5000),
		CategoryIDs: model.NewCategorySet("groceries"),
		StartDate:   model.Day(2024, 3, 1),
		EndDate:     model.Day(2024, 3, 31),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ComputeBudgetProgress(txns, budget)
	}
}

func BenchmarkOverview(b *testing.B) {
	txns := syntheticLedger(50_000)
	var budgets []model.Budget
	for m := time.January; m <= time.December; m++ {
		budgets = append(budgets, model.Budget{
			ID:        m.String(),
			Amount:    decimal.NewFromInt(2000),
			StartDate: model.Day(2024, m, 1),
			EndDate:   model.Day(2024, m+1, 1).AddDate(0, 0, -1),
		})
	}
	now := model.Day(2024, 6, 15)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Overview(txns, budgets, nil, now)
	}
}

func BenchmarkLoad(b *testing.B) {
	dir := b.TempDir()
	for f := 0; f < 16; f++ {
		var sb strings.Builder
		sb.WriteString("id,type,amount,date,category,account,description\n")
		for i := 0; i < 2000; i++ {
			fmt.Fprintf(&sb, ",expense,%d.50,2024-%02d-%02d,groceries,,\n", i%100, i%12+1, i%28+1)
		}
		path := filepath.Join(dir, fmt.Sprintf("acct%d", f), "ledger.csv")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			b.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := Load(dir, nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = result
	}
}
