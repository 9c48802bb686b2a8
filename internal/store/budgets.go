package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/theirongolddev/goalpost/internal/logging"
	"github.com/theirongolddev/goalpost/internal/model"
)

// SaveBudget inserts or replaces b together with its category set.
func (s *Store) SaveBudget(b model.Budget) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO budgets
		(id, name, amount, start_date, end_date, color, description, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, amount = excluded.amount,
			start_date = excluded.start_date, end_date = excluded.end_date,
			color = excluded.color, description = excluded.description,
			updated_at = excluded.updated_at`,
		b.ID, b.Name, b.Amount.String(), encodeDay(b.StartDate), encodeDay(b.EndDate),
		b.Color, b.Description, nowStamp(),
	)
	if err != nil {
		return fmt.Errorf("saving budget %s: %w", b.ID, err)
	}

	if _, err := tx.Exec("DELETE FROM budget_categories WHERE budget_id = ?", b.ID); err != nil {
		return err
	}
	for _, c := range b.CategoryIDs.IDs() {
		if _, err := tx.Exec("INSERT INTO budget_categories (budget_id, category_id) VALUES (?, ?)", b.ID, c); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug("budget saved", logging.F(logging.FieldBudgetID, b.ID))
	return nil
}

// ListBudgets returns every budget ordered by start date, then name.
func (s *Store) ListBudgets() ([]model.Budget, error) {
	return listBudgets(s.db)
}

func listBudgets(q querier) ([]model.Budget, error) {
	rows, err := q.Query(`SELECT id, name, amount, start_date, end_date, color, description
		FROM budgets ORDER BY start_date, name, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	idx := make(map[string]int)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		idx[b.ID] = len(budgets)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Batch-load category sets
	catRows, err := q.Query("SELECT budget_id, category_id FROM budget_categories")
	if err != nil {
		return nil, err
	}
	defer func() { _ = catRows.Close() }()

	for catRows.Next() {
		var bid, cid string
		if err := catRows.Scan(&bid, &cid); err != nil {
			return nil, err
		}
		if i, ok := idx[bid]; ok {
			budgets[i].CategoryIDs[cid] = struct{}{}
		}
	}
	return budgets, catRows.Err()
}

// GetBudget returns the budget with the given id, or ErrNotFound.
func (s *Store) GetBudget(id string) (model.Budget, error) {
	row := s.db.QueryRow(`SELECT id, name, amount, start_date, end_date, color, description
		FROM budgets WHERE id = ?`, id)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Budget{}, fmt.Errorf("budget %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Budget{}, err
	}

	rows, err := s.db.Query("SELECT category_id FROM budget_categories WHERE budget_id = ?", id)
	if err != nil {
		return model.Budget{}, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var cid string
		if err := rows.Scan(&cid); err != nil {
			return model.Budget{}, err
		}
		b.CategoryIDs[cid] = struct{}{}
	}
	return b, rows.Err()
}

// FindBudget looks a budget up by id, falling back to a case-insensitive name match.
func (s *Store) FindBudget(ref string) (model.Budget, error) {
	b, err := s.GetBudget(ref)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return b, err
	}

	var id string
	err = s.db.QueryRow("SELECT id FROM budgets WHERE name = ? COLLATE NOCASE ORDER BY id LIMIT 1", ref).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Budget{}, fmt.Errorf("budget %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return model.Budget{}, err
	}
	return s.GetBudget(id)
}

// DeleteBudget removes a budget and its categories.
func (s *Store) DeleteBudget(id string) error {
	res, err := s.db.Exec("DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("budget %q: %w", id, ErrNotFound)
	}
	s.log.Debug("budget deleted", logging.F(logging.FieldBudgetID, id))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBudget(r rowScanner) (model.Budget, error) {
	var (
		b                  model.Budget
		amount, start, end string
	)
	if err := r.Scan(&b.ID, &b.Name, &amount, &start, &end, &b.Color, &b.Description); err != nil {
		return model.Budget{}, err
	}

	var err error
	if b.Amount, err = decodeAmount(amount); err != nil {
		return model.Budget{}, err
	}
	if b.StartDate, err = decodeDay(start); err != nil {
		return model.Budget{}, err
	}
	if b.EndDate, err = decodeDay(end); err != nil {
		return model.Budget{}, err
	}
	b.CategoryIDs = model.CategorySet{}
	return b, nil
}
