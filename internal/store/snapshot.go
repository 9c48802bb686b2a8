package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/theirongolddev/goalpost/internal/logging"
	"github.com/theirongolddev/goalpost/internal/model"
)

// Snapshot is a consistent read of everything the progress engine needs.
type Snapshot struct {
	Transactions []model.Transaction
	Budgets      []model.Budget
	Goals        []model.Goal
}

// Snapshot loads the ledger, budgets and goals inside one read-only
// transaction. Under WAL the reads see a single committed state even while
// other processes write.
func (s *Store) Snapshot() (Snapshot, error) {
	tx, err := s.db.BeginTx(context.Background(), &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var snap Snapshot
	s.beforeRead("transactions")
	if snap.Transactions, err = listTransactions(tx); err != nil {
		return Snapshot{}, fmt.Errorf("loading transactions: %w", err)
	}
	s.beforeRead("budgets")
	if snap.Budgets, err = listBudgets(tx); err != nil {
		return Snapshot{}, fmt.Errorf("loading budgets: %w", err)
	}
	s.beforeRead("goals")
	if snap.Goals, err = listGoals(tx); err != nil {
		return Snapshot{}, fmt.Errorf("loading goals: %w", err)
	}

	s.log.Debug("snapshot loaded",
		logging.F(logging.FieldOperation, "snapshot"),
		logging.F(logging.FieldCount, len(snap.Transactions)))
	return snap, nil
}

func (s *Store) beforeRead(table string) {
	if s.readHook != nil {
		s.readHook(table)
	}
}
