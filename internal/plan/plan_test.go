package plan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalpost/internal/model"
)

const sample = `
budgets:
  - id: groceries-jan
    name: Groceries
    amount: "500"
    categories: [groceries, " household "]
    start: 2024-01-01
    end: 2024-01-31
  - name: Everything
    amount: 1200.50
    start: 2024-01-01
    end: 2024-12-31
goals:
  - name: Emergency fund
    type: savings
    target: "1000"
    progress: "250"
    start: 2024-01-01
    end: 2024-12-31
    icon: shield
  - name: Dining out
    type: Spending
    target: 300
    start: 2024-01-01
    end: 2024-03-31
`

type memSaver struct {
	budgets []model.Budget
	goals   []model.Goal
	failOn  string
}

func (m *memSaver) SaveBudget(b model.Budget) error {
	if b.Name == m.failOn {
		return errors.New("disk full")
	}
	m.budgets = append(m.budgets, b)
	return nil
}

func (m *memSaver) SaveGoal(g model.Goal) error {
	m.goals = append(m.goals, g)
	return nil
}

func TestParseAndBuild(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	budgets, goals, err := f.Build()
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	require.Len(t, goals, 2)

	b := budgets[0]
	assert.Equal(t, "groceries-jan", b.ID)
	assert.Equal(t, []string{"groceries", "household"}, b.CategoryIDs.IDs())
	assert.Equal(t, "500", b.Amount.String())
	assert.Equal(t, model.Day(2024, 1, 31), b.EndDate)

	all := budgets[1]
	assert.True(t, all.CategoryIDs.IsEmpty())
	assert.Equal(t, "1200.5", all.Amount.String())
	assert.Equal(t, model.DeriveID("budget", "everything"), all.ID)

	assert.Equal(t, model.Savings, goals[0].Type)
	assert.Equal(t, "250", goals[0].CurrentProgress.String())
	assert.Equal(t, "shield", goals[0].Icon)
	assert.Equal(t, model.Spending, goals[1].Type)
	assert.True(t, goals[1].CurrentProgress.IsZero())
}

func TestBuild_DerivedIDsStable(t *testing.T) {
	f1, err := Parse([]byte(sample))
	require.NoError(t, err)
	f2, err := Parse([]byte(sample))
	require.NoError(t, err)

	_, g1, err := f1.Build()
	require.NoError(t, err)
	_, g2, err := f2.Build()
	require.NoError(t, err)
	assert.Equal(t, g1[0].ID, g2[0].ID)
}

func TestBuild_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"inverted range", "budgets:\n  - {name: a, amount: 1, start: 2024-02-01, end: 2024-01-01}\n", model.ErrInvalidDateRange},
		{"zero amount", "budgets:\n  - {name: a, amount: 0, start: 2024-01-01, end: 2024-01-02}\n", model.ErrInvalidAmount},
		{"unknown goal type", "goals:\n  - {name: g, type: dream, target: 1, start: 2024-01-01, end: 2024-01-02}\n", model.ErrUnknownGoalType},
		{"missing name", "goals:\n  - {type: savings, target: 1, start: 2024-01-01, end: 2024-01-02}\n", model.ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			_, _, err = f.Build()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("budgets:\n  - name: a\n    limit: 5\n"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Budgets)
	assert.Empty(t, f.Goals)
}

func TestApply(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	var s memSaver
	nb, ng, err := f.Apply(&s)
	require.NoError(t, err)
	assert.Equal(t, 2, nb)
	assert.Equal(t, 2, ng)
	assert.Len(t, s.budgets, 2)

	failing := memSaver{failOn: "Everything"}
	nb, ng, err = f.Apply(&failing)
	assert.Error(t, err)
	assert.Equal(t, 1, nb)
	assert.Equal(t, 0, ng)
}

func TestExportRoundTrip(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	budgets, goals, err := f.Build()
	require.NoError(t, err)

	data, err := FromModels(budgets, goals).Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	back, err := Load(path)
	require.NoError(t, err)
	b2, g2, err := back.Build()
	require.NoError(t, err)
	assert.Equal(t, budgets[1].ID, b2[1].ID)
	assert.True(t, b2[1].Amount.Equal(budgets[1].Amount))
	assert.Equal(t, goals[0].Name, g2[0].Name)
	assert.True(t, g2[0].CurrentProgress.Equal(goals[0].CurrentProgress))
}
