package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/goalpost/internal/logging"
	"github.com/theirongolddev/goalpost/internal/model"
)

const goalColumns = `id, type, name, target_amount, current_progress, start_date, end_date, color, icon, description`

// SaveGoal inserts or replaces g.
func (s *Store) SaveGoal(g model.Goal) error {
	_, err := s.db.Exec(`INSERT INTO goals (`+goalColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type, name = excluded.name,
			target_amount = excluded.target_amount, current_progress = excluded.current_progress,
			start_date = excluded.start_date, end_date = excluded.end_date,
			color = excluded.color, icon = excluded.icon, description = excluded.description,
			updated_at = excluded.updated_at`,
		g.ID, g.Type.String(), g.Name, g.TargetAmount.String(), g.CurrentProgress.String(),
		encodeDay(g.StartDate), encodeDay(g.EndDate), g.Color, g.Icon, g.Description, nowStamp(),
	)
	if err != nil {
		return fmt.Errorf("saving goal %s: %w", g.ID, err)
	}
	s.log.Debug("goal saved", logging.F(logging.FieldGoalID, g.ID))
	return nil
}

// UpdateGoalProgress stores a new CurrentProgress for the goal with the given id.
func (s *Store) UpdateGoalProgress(id string, progress decimal.Decimal) error {
	res, err := s.db.Exec("UPDATE goals SET current_progress = ?, updated_at = ? WHERE id = ?",
		progress.String(), nowStamp(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %q: %w", id, ErrNotFound)
	}
	s.log.Debug("goal progress updated",
		logging.F(logging.FieldGoalID, id), logging.F("progress", progress.String()))
	return nil
}

// ListGoals returns every goal ordered by end date, then name.
func (s *Store) ListGoals() ([]model.Goal, error) {
	return listGoals(s.db)
}

func listGoals(q querier) ([]model.Goal, error) {
	rows, err := q.Query(`SELECT ` + goalColumns + ` FROM goals ORDER BY end_date, name, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// GetGoal returns the goal with the given id, or ErrNotFound.
func (s *Store) GetGoal(id string) (model.Goal, error) {
	g, err := scanGoal(s.db.QueryRow(`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Goal{}, fmt.Errorf("goal %q: %w", id, ErrNotFound)
	}
	return g, err
}

// FindGoal looks a goal up by id, falling back to a case-insensitive name match.
func (s *Store) FindGoal(ref string) (model.Goal, error) {
	g, err := s.GetGoal(ref)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return g, err
	}

	g, err = scanGoal(s.db.QueryRow(`SELECT `+goalColumns+` FROM goals
		WHERE name = ? COLLATE NOCASE ORDER BY id LIMIT 1`, ref))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Goal{}, fmt.Errorf("goal %q: %w", ref, ErrNotFound)
	}
	return g, err
}

// DeleteGoal removes a goal.
func (s *Store) DeleteGoal(id string) error {
	res, err := s.db.Exec("DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %q: %w", id, ErrNotFound)
	}
	s.log.Debug("goal deleted", logging.F(logging.FieldGoalID, id))
	return nil
}

func scanGoal(r rowScanner) (model.Goal, error) {
	var (
		g                                 model.Goal
		typ, target, progress, start, end string
	)
	err := r.Scan(&g.ID, &typ, &g.Name, &target, &progress, &start, &end, &g.Color, &g.Icon, &g.Description)
	if err != nil {
		return model.Goal{}, err
	}

	if g.Type, err = model.ParseGoalType(typ); err != nil {
		return model.Goal{}, err
	}
	if g.TargetAmount, err = decodeAmount(target); err != nil {
		return model.Goal{}, err
	}
	if g.CurrentProgress, err = decodeAmount(progress); err != nil {
		return model.Goal{}, err
	}
	if g.StartDate, err = decodeDay(start); err != nil {
		return model.Goal{}, err
	}
	if g.EndDate, err = decodeDay(end); err != nil {
		return model.Goal{}, err
	}
	return g, nil
}
