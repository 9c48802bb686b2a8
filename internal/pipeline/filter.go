package pipeline

import "github.com/theirongolddev/goalpost/internal/model"

// SelectIncludedTransactions returns the transactions that count toward b's spend:
// expenses dated inside [StartDate, EndDate] whose category is tracked by b.
// Input order is preserved.
func SelectIncludedTransactions(txns []model.Transaction, b model.Budget) []model.Transaction {
	var result []model.Transaction
	for _, t := range txns {
		if !countsTowardSpend(t.Type) {
			continue
		}
		if !WithinDays(t.Date, b.StartDate, b.EndDate) {
			continue
		}
		if !b.CategoryIDs.IsEmpty() && !b.CategoryIDs.Contains(t.CategoryID) {
			continue
		}
		result = append(result, t)
	}
	return result
}

func countsTowardSpend(t model.TransactionType) bool {
	switch t {
	case model.Expense:
		return true
	case model.Income, model.Transfer:
		return false
	default:
		return false
	}
}

// FilterByCategory returns transactions in the given category, or all of them if category is empty.
func FilterByCategory(txns []model.Transaction, category string) []model.Transaction {
	if category == "" {
		return txns
	}
	var result []model.Transaction
	for _, t := range txns {
		if t.CategoryID == category {
			result = append(result, t)
		}
	}
	return result
}
