package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalpost/internal/config"
	"github.com/theirongolddev/goalpost/internal/model"
	"github.com/theirongolddev/goalpost/internal/pipeline"
	"github.com/theirongolddev/goalpost/internal/store"
	"github.com/theirongolddev/goalpost/internal/tui/components"
)

var asOf = model.Day(2024, 1, 20)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "goalpost.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.SaveBudget(model.Budget{
		ID: "food", Name: "Food", Amount: dec("500"),
		CategoryIDs: model.NewCategorySet("groceries"),
		StartDate:   model.Day(2024, 1, 1), EndDate: model.Day(2024, 1, 31),
	}))
	require.NoError(t, st.SaveBudget(model.Budget{
		ID: "dec", Name: "December", Amount: dec("100"),
		StartDate: model.Day(2023, 12, 1), EndDate: model.Day(2023, 12, 31),
	}))
	require.NoError(t, st.SaveGoal(model.Goal{
		ID: "fund", Name: "Emergency fund", Type: model.Savings,
		TargetAmount: dec("1000"), CurrentProgress: dec("250"),
		StartDate: model.Day(2024, 1, 1), EndDate: model.Day(2024, 12, 31),
	}))
	require.NoError(t, st.SaveGoal(model.Goal{
		ID: "trip", Name: "Trip", Type: model.Savings,
		TargetAmount: dec("300"), CurrentProgress: dec("300"),
		StartDate: model.Day(2023, 6, 1), EndDate: model.Day(2023, 12, 31),
	}))
	require.NoError(t, st.SaveTransactions([]model.Transaction{
		{ID: "t1", Type: model.Expense, Amount: dec("300"), Date: model.Day(2024, 1, 5), CategoryID: "groceries"},
		{ID: "t2", Type: model.Income, Amount: dec("900"), Date: model.Day(2024, 1, 6), CategoryID: "groceries"},
	}))
	return st
}

// loadedApp returns an App that has received its initial data.
func loadedApp(t *testing.T) App {
	t.Helper()
	st := seedStore(t)
	snap, err := st.Snapshot()
	require.NoError(t, err)

	a := NewApp(Options{
		Store:  st,
		Config: config.DefaultConfig(),
		Now:    func() time.Time { return asOf },
	})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	m, _ = m.Update(DataLoadedMsg{Snapshot: snap})
	return m.(App)
}

func press(t *testing.T, m tea.Model, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m.(App)
}

func TestRecompute(t *testing.T) {
	a := loadedApp(t)

	assert.Equal(t, 2, a.overview.Budgets)
	assert.Equal(t, 1, a.overview.ActiveBudgets)
	assert.Equal(t, "300", a.overview.TotalSpent.String())
	assert.InDelta(t, 60.0, a.overview.SpentPercent, 1e-9)
	assert.Equal(t, 1, a.overview.CompletedGoals)

	require.Len(t, a.budgets, 1, "inactive budgets hidden by default")
	assert.Equal(t, "food", a.budgets[0].Budget.ID)
	assert.Equal(t, pipeline.ToneAmber, a.budgets[0].Tone)
	assert.Len(t, a.goals, 2)
}

func TestTabKeys(t *testing.T) {
	a := loadedApp(t)
	assert.Equal(t, tabOverview, a.activeTab)

	a = press(t, a, "b")
	assert.Equal(t, tabBudgets, a.activeTab)
	a = press(t, a, "x")
	assert.Equal(t, tabSettings, a.activeTab)
	a = press(t, a, "right")
	assert.Equal(t, tabOverview, a.activeTab)
	a = press(t, a, "left")
	assert.Equal(t, tabSettings, a.activeTab)
}

func TestBudgetsToggleAll(t *testing.T) {
	a := press(t, loadedApp(t), "b", "a")
	assert.True(t, a.showAllBudgets)
	assert.Len(t, a.budgets, 2)

	a = press(t, a, "j", "j", "j")
	assert.Equal(t, 1, a.budgetCursor, "cursor stays in range")

	a = press(t, a, "a")
	assert.Len(t, a.budgets, 1)
	assert.Equal(t, 0, a.budgetCursor)
}

func TestGoalFilterCycle(t *testing.T) {
	a := press(t, loadedApp(t), "g")
	assert.Equal(t, pipeline.GoalFilterAll, a.goalFilter)

	a = press(t, a, "f")
	assert.Equal(t, pipeline.GoalFilterActive, a.goalFilter)
	require.Len(t, a.goals, 1)
	assert.Equal(t, "fund", a.goals[0].Goal.ID)

	a = press(t, a, "f")
	assert.Equal(t, pipeline.GoalFilterCompleted, a.goalFilter)
	require.Len(t, a.goals, 1)
	assert.Equal(t, "trip", a.goals[0].Goal.ID)
}

func TestAdjustFormOpensAndEscCloses(t *testing.T) {
	a := press(t, loadedApp(t), "g", "p")
	require.NotNil(t, a.form)
	assert.Equal(t, formAdjust, a.formKind)
	require.NotNil(t, a.adjustVals)

	a = press(t, a, "esc")
	assert.Nil(t, a.form)
	assert.Equal(t, formNone, a.formKind)
}

func TestApplyAdjustment(t *testing.T) {
	g := model.Goal{ID: "g", Name: "G", TargetAmount: dec("100"), CurrentProgress: dec("30")}

	tests := []struct {
		mode    pipeline.AdjustMode
		amount  string
		want    string
		wantErr error
	}{
		{pipeline.AdjustAdd, "20", "50", nil},
		{pipeline.AdjustRemove, "50", "0", nil},
		{pipeline.AdjustSet, "150", "150", nil},
		{pipeline.AdjustAdd, "0", "30", pipeline.ErrNonPositiveAdjustment},
		{pipeline.AdjustSet, "-1", "30", pipeline.ErrNegativeProgress},
	}
	for _, tt := range tests {
		got, err := applyAdjustment(&adjustFormValues{Goal: g, Mode: tt.mode, Amount: tt.amount})
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr)
		} else {
			assert.NoError(t, err)
		}
		assert.Equal(t, tt.want, got.CurrentProgress.String(), "%s %s", tt.mode, tt.amount)
	}
}

func TestGoalSavedFlow(t *testing.T) {
	a := loadedApp(t)

	msg := createGoalCmd(a.opts.Store, &goalFormValues{
		Name: "  Laptop ", Type: model.Savings, Target: "1500",
		Start: "2024-01-01", End: "2024-06-30",
	})()
	saved, ok := msg.(goalSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	assert.Equal(t, "Laptop", saved.goal.Name)

	m, _ := a.Update(msg)
	a = m.(App)
	assert.Contains(t, a.flash, `"Laptop" created`)
	assert.Len(t, a.snap.Goals, 3)

	stored, err := a.opts.Store.GetGoal(saved.goal.ID)
	require.NoError(t, err)
	assert.True(t, stored.TargetAmount.Equal(dec("1500")))

	bad := createGoalCmd(a.opts.Store, &goalFormValues{
		Name: "Bad", Target: "10", Start: "2024-02-01", End: "2024-01-01",
	})().(goalSavedMsg)
	assert.ErrorIs(t, bad.err, model.ErrInvalidDateRange)
}

func TestAdjustGoalCmdPersists(t *testing.T) {
	a := loadedApp(t)
	g, err := a.opts.Store.GetGoal("fund")
	require.NoError(t, err)

	msg := adjustGoalCmd(a.opts.Store, &adjustFormValues{Goal: g, Mode: pipeline.AdjustAdd, Amount: "100"})().(goalSavedMsg)
	require.NoError(t, msg.err)

	stored, err := a.opts.Store.GetGoal("fund")
	require.NoError(t, err)
	assert.Equal(t, "350", stored.CurrentProgress.String())
}

func TestSettingsSaveRejectsBadInput(t *testing.T) {
	a := press(t, loadedApp(t), "x", "j")
	require.Equal(t, settingsFieldCurrency, a.settings.cursor)

	a = press(t, a, "enter")
	require.True(t, a.settings.editing)
	a.settings.input.SetValue("EU")
	a = press(t, a, "enter")
	assert.Error(t, a.settings.err)
	assert.Equal(t, "USD", a.opts.Config.General.Currency)

	a = press(t, a, "enter")
	a.settings.input.SetValue("eur")
	a = press(t, a, "enter")
	assert.NoError(t, a.settings.err)
	assert.Equal(t, "EUR", a.opts.Config.General.Currency)
}

func TestSettingsPersistToConfigPath(t *testing.T) {
	a := loadedApp(t)
	a.opts.ConfigPath = filepath.Join(t.TempDir(), "config.toml")

	a = press(t, a, "R")
	assert.False(t, a.autoRefresh)

	cfg, err := config.LoadFrom(a.opts.ConfigPath)
	require.NoError(t, err)
	assert.False(t, cfg.TUI.AutoRefresh)
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadedApp(t)
	for i := range components.Tabs {
		a.activeTab = i
		out := a.View()
		assert.NotEmpty(t, out)
		assert.LessOrEqual(t, len(strings.Split(out, "\n")), a.height, "tab %d overflows", i)
	}

	a.width = 60
	assert.Contains(t, a.View(), "too narrow")
}

func TestGoalsTabMarksCursorRow(t *testing.T) {
	a := loadedApp(t)
	a.activeTab = tabGoals
	a.goalFilter = pipeline.GoalFilterActive
	a.recompute()

	out := a.renderGoalsTab(a.contentWidth())
	assert.Contains(t, out, "▸ ")
	assert.Contains(t, out, "Emergency fund")
	assert.NotContains(t, out, "Trip", "completed goal is outside the active filter")
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			require.Equal(t, i, a.tabAtX(pos+w/2), "active=%d x=%d", active, pos+w/2)
			pos += w + 1
		}
		assert.Equal(t, -1, a.tabAtX(pos+50), "x past the last tab")
	}
}

func TestChartDateLabels(t *testing.T) {
	days := []model.DailySpend{
		{Date: model.Day(2024, 1, 30)},
		{Date: model.Day(2024, 1, 31)},
		{Date: model.Day(2024, 2, 1)},
		{Date: model.Day(2024, 2, 2)},
	}
	assert.Equal(t, []string{"Jan", "31", "Feb", "2"}, chartDateLabels(days))
}
