// Package model holds the plain data types shared across goalpost.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of ledger movement.
type TransactionType int

const (
	Expense TransactionType = iota
	Income
	Transfer
)

// TransactionTypes lists every transaction type in display order.
var TransactionTypes = []TransactionType{Expense, Income, Transfer}

func (t TransactionType) String() string {
	switch t {
	case Expense:
		return "expense"
	case Income:
		return "income"
	case Transfer:
		return "transfer"
	default:
		return fmt.Sprintf("TransactionType(%d)", int(t))
	}
}

// ParseTransactionType maps "expense", "income" or "transfer" (any case) to its type.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense":
		return Expense, nil
	case "income":
		return Income, nil
	case "transfer":
		return Transfer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTransactionType, s)
	}
}

// Transaction is a single immutable ledger record.
type Transaction struct {
	ID          string
	Type        TransactionType
	Amount      decimal.Decimal
	Date        time.Time
	CategoryID  string
	AccountID   string
	Description string
	SourceFile  string // ledger file it was imported from, empty for manual entries
}

var (
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrMissingDate            = errors.New("date is required")
)

// Validate checks the record is well formed before it enters the ledger.
func (t Transaction) Validate() error {
	switch t.Type {
	case Expense, Income, Transfer:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownTransactionType, int(t.Type))
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}
