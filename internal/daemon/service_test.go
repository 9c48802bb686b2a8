package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalpost/internal/model"
	"github.com/theirongolddev/goalpost/internal/store"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "goalpost.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.SaveBudget(model.Budget{
		ID:          "food",
		Name:        "Food",
		Amount:      dec("100"),
		CategoryIDs: model.NewCategorySet("food"),
		StartDate:   model.Day(2024, 1, 1),
		EndDate:     model.Day(2024, 1, 31),
	}))
	require.NoError(t, st.SaveGoal(model.Goal{
		ID:              "fund",
		Type:            model.Savings,
		Name:            "Fund",
		TargetAmount:    dec("100"),
		CurrentProgress: dec("50"),
		StartDate:       model.Day(2024, 1, 1),
		EndDate:         model.Day(2024, 12, 31),
	}))

	now := model.Day(2024, 1, 15)
	svc := New(Config{
		Store:        st,
		Interval:     10 * time.Second,
		EventsBuffer: 50,
		Now:          func() time.Time { return now },
	})
	return svc, st
}

func eventTypes(s *Service) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Type)
	}
	return out
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Transactions: 10, TotalSpent: dec("40.50"), OverBudget: 1, CompletedGoals: 2, ActiveGoals: 3}
	curr := Snapshot{Transactions: 12, TotalSpent: dec("55.25"), OverBudget: 1, CompletedGoals: 3, ActiveGoals: 2}

	delta := diffSnapshots(prev, curr)
	assert.Equal(t, 2, delta.Transactions)
	assert.True(t, delta.TotalSpent.Equal(dec("14.75")), "spent delta = %s", delta.TotalSpent)
	assert.Equal(t, 0, delta.OverBudget)
	assert.Equal(t, 1, delta.CompletedGoals)
	assert.Equal(t, -1, delta.ActiveGoals)
	assert.False(t, delta.isZero())

	assert.True(t, diffSnapshots(curr, curr).isZero())
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{Interval: 10 * time.Second, EventsBuffer: 2})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(Config{Interval: time.Second})
	assert.Equal(t, 30*time.Second, s.cfg.Interval)
	assert.Equal(t, 200, s.cfg.EventsBuffer)
	assert.Equal(t, "127.0.0.1:8787", s.cfg.Addr)
	assert.NotNil(t, s.cfg.Now)
}

func TestPollOnceTransitions(t *testing.T) {
	s, st := newTestService(t)

	s.PollOnce()
	assert.Equal(t, []string{EventSnapshot}, eventTypes(s))

	// Nothing changed: no new events.
	s.PollOnce()
	assert.Equal(t, []string{EventSnapshot}, eventTypes(s))

	require.NoError(t, st.SaveTransactions([]model.Transaction{{
		ID: "t1", Type: model.Expense, Amount: dec("150"), Date: model.Day(2024, 1, 10), CategoryID: "food",
	}}))
	s.PollOnce()
	assert.Equal(t, []string{EventSnapshot, EventOverviewDelta, EventBudgetOver}, eventTypes(s))

	require.NoError(t, st.UpdateGoalProgress("fund", dec("100")))
	s.PollOnce()
	assert.Equal(t,
		[]string{EventSnapshot, EventOverviewDelta, EventBudgetOver, EventOverviewDelta, EventGoalCompleted},
		eventTypes(s))

	s.mu.RLock()
	last := s.events[len(s.events)-1]
	over := s.events[2]
	s.mu.RUnlock()
	assert.Equal(t, "fund", last.EntityID)
	assert.Equal(t, int64(5), last.ID)
	assert.Equal(t, "food", over.EntityID)
	assert.Equal(t, 1, over.Snapshot.OverBudget)

	st2 := s.Status()
	assert.Equal(t, int64(4), st2.PollCount)
	assert.Equal(t, 5, st2.EventCount)
	assert.Empty(t, st2.LastError)
	assert.Equal(t, 1, st2.Summary.CompletedGoals)
	assert.True(t, st2.Summary.TotalSpent.Equal(dec("150")))
	assert.InDelta(t, 150.0, st2.Summary.SpentPercent, 1e-9)
}

func TestPollOnceRecordsErrors(t *testing.T) {
	s, st := newTestService(t)
	require.NoError(t, st.Close())

	s.PollOnce()
	status := s.Status()
	assert.Equal(t, int64(1), status.PollCount)
	assert.NotEmpty(t, status.LastError)
	assert.Empty(t, eventTypes(s))
}

func TestHTTPEndpoints(t *testing.T) {
	s, st := newTestService(t)
	require.NoError(t, st.SaveGoal(model.Goal{
		ID: "done", Type: model.Savings, Name: "Done", TargetAmount: dec("10"), CurrentProgress: dec("10"),
		StartDate: model.Day(2024, 1, 1), EndDate: model.Day(2024, 6, 30),
	}))
	s.PollOnce()

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	get := func(path string) *http.Response {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	resp := get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status Status
	require.NoError(t, json.NewDecoder(get("/v1/status").Body).Decode(&status))
	assert.Equal(t, 1, status.Summary.Budgets)
	assert.Equal(t, 2, status.Summary.Goals)

	var budgets []BudgetView
	require.NoError(t, json.NewDecoder(get("/v1/budgets").Body).Decode(&budgets))
	require.Len(t, budgets, 1)
	assert.Equal(t, "food", budgets[0].ID)
	assert.Equal(t, []string{"food"}, budgets[0].Categories)
	assert.True(t, budgets[0].Remaining.Equal(dec("100")))
	assert.Equal(t, "green", budgets[0].Tone)

	var goals []GoalView
	require.NoError(t, json.NewDecoder(get("/v1/goals?filter=completed").Body).Decode(&goals))
	require.Len(t, goals, 1)
	assert.Equal(t, "done", goals[0].ID)

	require.NoError(t, json.NewDecoder(get("/v1/goals?filter=active").Body).Decode(&goals))
	require.Len(t, goals, 1)
	assert.Equal(t, "fund", goals[0].ID)
	assert.InDelta(t, 50.0, goals[0].Percentage, 1e-9)

	assert.Equal(t, http.StatusBadRequest, get("/v1/goals?filter=bogus").StatusCode)

	var events []Event
	require.NoError(t, json.NewDecoder(get("/v1/events").Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, EventSnapshot, events[0].Type)
}

func TestStreamSendsCurrentSnapshot(t *testing.T) {
	s, _ := newTestService(t)
	s.PollOnce()

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	require.True(t, sc.Scan())
	assert.Equal(t, "event: snapshot", sc.Text())
	require.True(t, sc.Scan())
	data, ok := strings.CutPrefix(sc.Text(), "data: ")
	require.True(t, ok)

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Equal(t, 1, ev.Snapshot.Budgets)
}

func TestRunRequiresStore(t *testing.T) {
	err := New(Config{}).Run(context.Background())
	assert.Error(t, err)
}
