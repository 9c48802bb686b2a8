// Package daemon provides the long-running budget and goal monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/goalpost/internal/logging"
	"github.com/theirongolddev/goalpost/internal/model"
	"github.com/theirongolddev/goalpost/internal/pipeline"
	"github.com/theirongolddev/goalpost/internal/store"
)

// Event types published to /v1/events and /v1/stream.
const (
	EventSnapshot      = "snapshot"
	EventOverviewDelta = "overview_delta"
	EventBudgetOver    = "budget_over"
	EventGoalCompleted = "goal_completed"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Store        *store.Store
	LedgerDir    string // re-imported on every poll when set
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Now          func() time.Time
	Log          logging.Logger
}

// Snapshot is a compact overview state for status/event payloads.
type Snapshot struct {
	At             time.Time       `json:"at"`
	Budgets        int             `json:"budgets"`
	ActiveBudgets  int             `json:"active_budgets"`
	OverBudget     int             `json:"over_budget"`
	Goals          int             `json:"goals"`
	ActiveGoals    int             `json:"active_goals"`
	CompletedGoals int             `json:"completed_goals"`
	ExpiredGoals   int             `json:"expired_goals"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	TotalLimit     decimal.Decimal `json:"total_limit"`
	SpentPercent   float64         `json:"spent_percent"`
	Transactions   int             `json:"transactions"`
}

// Delta captures snapshot changes between polls.
type Delta struct {
	Transactions   int             `json:"transactions"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	OverBudget     int             `json:"over_budget"`
	CompletedGoals int             `json:"completed_goals"`
	ActiveBudgets  int             `json:"active_budgets"`
	ActiveGoals    int             `json:"active_goals"`
}

func (d Delta) isZero() bool {
	return d.Transactions == 0 &&
		d.TotalSpent.IsZero() &&
		d.OverBudget == 0 &&
		d.CompletedGoals == 0 &&
		d.ActiveBudgets == 0 &&
		d.ActiveGoals == 0
}

// Event is emitted whenever the overview or an entity's state changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     *Delta    `json:"delta,omitempty"`
	EntityID  string    `json:"entity_id,omitempty"`
	Name      string    `json:"name,omitempty"`
}

// BudgetView is one entry of /v1/budgets.
type BudgetView struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Start      string          `json:"start"`
	End        string          `json:"end"`
	Categories []string        `json:"categories"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
	Over       bool            `json:"over_budget"`
	Active     bool            `json:"active"`
	Tone       string          `json:"tone"`
}

// GoalView is one entry of /v1/goals.
type GoalView struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Start         string          `json:"start"`
	End           string          `json:"end"`
	Target        decimal.Decimal `json:"target"`
	Progress      decimal.Decimal `json:"progress"`
	Remaining     decimal.Decimal `json:"remaining"`
	Percentage    float64         `json:"percentage"`
	Complete      bool            `json:"complete"`
	Active        bool            `json:"active"`
	Expired       bool            `json:"expired"`
	DaysRemaining int             `json:"days_remaining"`
	Status        string          `json:"status"`
	Tone          string          `json:"tone"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	LedgerDir       string    `json:"ledger_dir,omitempty"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log logging.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	budgets     []BudgetView
	goals       []GoalView
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	log := cfg.Log
	if log == nil {
		log = logging.Nop()
	}

	return &Service{
		cfg:       cfg,
		log:       log.WithField(logging.FieldAddr, cfg.Addr),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/budgets", s.handleBudgets)
	mux.HandleFunc("GET /v1/goals", s.handleGoals)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return mux
}

// Run serves the HTTP API and polls the store until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Store == nil {
		return errors.New("daemon: no store configured")
	}

	g, gctx := errgroup.WithContext(ctx)

	// Stream handlers watch the request context; tie it to gctx so shutdown
	// does not wait on open SSE connections.
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		s.log.Info("daemon listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		// Seed initial snapshot so status is useful immediately.
		s.PollOnce()

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.PollOnce()
			}
		}
	})

	return g.Wait()
}

// PollOnce re-imports the ledger (if configured), recomputes every summary and
// publishes events for whatever changed since the previous poll.
func (s *Service) PollOnce() {
	start := time.Now()
	now := s.cfg.Now()

	snap, err := s.load()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.WithError(err).Warn("daemon poll failed")
		return
	}

	overview := pipeline.Overview(snap.Transactions, snap.Budgets, snap.Goals, now)
	budgets := pipeline.SummarizeBudgets(snap.Transactions, snap.Budgets, now)
	goals := pipeline.SummarizeGoals(snap.Goals, now)

	curr := snapshotFromOverview(overview, now)
	budgetViews := budgetViewsFrom(budgets)
	goalViews := goalViewsFrom(goals)

	var pending []Event

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot
	prevBudgets, prevGoals := s.budgets, s.goals

	s.hasSnapshot = true
	s.snapshot = curr
	s.budgets = budgetViews
	s.goals = goalViews
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		pending = append(pending, Event{Type: EventSnapshot, Snapshot: curr})
	} else {
		if delta := diffSnapshots(prev, curr); !delta.isZero() {
			pending = append(pending, Event{Type: EventOverviewDelta, Snapshot: curr, Delta: &delta})
		}
		for _, b := range newlyOver(prevBudgets, budgetViews) {
			pending = append(pending, Event{Type: EventBudgetOver, Snapshot: curr, EntityID: b.ID, Name: b.Name})
		}
		for _, g := range newlyComplete(prevGoals, goalViews) {
			pending = append(pending, Event{Type: EventGoalCompleted, Snapshot: curr, EntityID: g.ID, Name: g.Name})
		}
	}
	for i := range pending {
		s.nextEventID++
		pending[i].ID = s.nextEventID
		pending[i].Timestamp = now
	}
	s.mu.Unlock()

	for _, ev := range pending {
		s.log.Debug("daemon event", logging.F(logging.FieldEvent, ev.Type))
		s.publishEvent(ev)
	}
	s.log.Debug("daemon poll",
		logging.F(logging.FieldCount, curr.Transactions),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
}

func (s *Service) load() (store.Snapshot, error) {
	if s.cfg.LedgerDir != "" {
		if _, err := pipeline.LoadWithStore(s.cfg.LedgerDir, s.cfg.Store, s.log, nil); err != nil {
			return store.Snapshot{}, fmt.Errorf("importing ledger: %w", err)
		}
	}
	return s.cfg.Store.Snapshot()
}

func snapshotFromOverview(o model.OverviewStats, at time.Time) Snapshot {
	return Snapshot{
		At:             at,
		Budgets:        o.Budgets,
		ActiveBudgets:  o.ActiveBudgets,
		OverBudget:     o.OverBudget,
		Goals:          o.Goals,
		ActiveGoals:    o.ActiveGoals,
		CompletedGoals: o.CompletedGoals,
		ExpiredGoals:   o.ExpiredGoals,
		TotalSpent:     o.TotalSpent,
		TotalLimit:     o.TotalLimit,
		SpentPercent:   o.SpentPercent,
		Transactions:   o.Transactions,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Transactions:   curr.Transactions - prev.Transactions,
		TotalSpent:     curr.TotalSpent.Sub(prev.TotalSpent),
		OverBudget:     curr.OverBudget - prev.OverBudget,
		CompletedGoals: curr.CompletedGoals - prev.CompletedGoals,
		ActiveBudgets:  curr.ActiveBudgets - prev.ActiveBudgets,
		ActiveGoals:    curr.ActiveGoals - prev.ActiveGoals,
	}
}

// newlyOver returns budgets that are over budget now but were not on the
// previous poll. Budgets unseen before count as a transition.
func newlyOver(prev, curr []BudgetView) []BudgetView {
	was := make(map[string]bool, len(prev))
	for _, b := range prev {
		was[b.ID] = b.Over
	}
	var out []BudgetView
	for _, b := range curr {
		if b.Over && !was[b.ID] {
			out = append(out, b)
		}
	}
	return out
}

func newlyComplete(prev, curr []GoalView) []GoalView {
	was := make(map[string]bool, len(prev))
	for _, g := range prev {
		was[g.ID] = g.Complete
	}
	var out []GoalView
	for _, g := range curr {
		if g.Complete && !was[g.ID] {
			out = append(out, g)
		}
	}
	return out
}

func budgetViewsFrom(sums []pipeline.BudgetSummary) []BudgetView {
	out := make([]BudgetView, 0, len(sums))
	for _, s := range sums {
		out = append(out, BudgetView{
			ID:         s.Budget.ID,
			Name:       s.Budget.Name,
			Start:      s.Budget.StartDate.Format(model.DateLayout),
			End:        s.Budget.EndDate.Format(model.DateLayout),
			Categories: s.Budget.CategoryIDs.IDs(),
			Limit:      s.Budget.Amount,
			Spent:      s.Progress.Spent,
			Remaining:  s.Progress.Remaining,
			Percentage: s.Progress.Percentage,
			Over:       s.Progress.IsOverBudget,
			Active:     s.Active,
			Tone:       s.Tone.String(),
		})
	}
	return out
}

func goalViewsFrom(sums []pipeline.GoalSummary) []GoalView {
	out := make([]GoalView, 0, len(sums))
	for _, s := range sums {
		out = append(out, GoalView{
			ID:            s.Goal.ID,
			Name:          s.Goal.Name,
			Type:          s.Goal.Type.String(),
			Start:         s.Goal.StartDate.Format(model.DateLayout),
			End:           s.Goal.EndDate.Format(model.DateLayout),
			Target:        s.Progress.Target,
			Progress:      s.Progress.Progress,
			Remaining:     s.Progress.Remaining,
			Percentage:    s.Progress.Percentage,
			Complete:      s.Progress.IsComplete,
			Active:        s.Active,
			Expired:       s.Expired,
			DaysRemaining: s.DaysRemaining,
			Status:        s.Status,
			Tone:          s.Tone.String(),
		})
	}
	return out
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// Status returns the current poll state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		LedgerDir:       s.cfg.LedgerDir,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.Status())
}

func (s *Service) handleBudgets(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	out := make([]BudgetView, 0, len(s.budgets))
	activeOnly := r.URL.Query().Get("active") == "true"
	for _, b := range s.budgets {
		if activeOnly && !b.Active {
			continue
		}
		out = append(out, b)
	}
	s.mu.RUnlock()
	writeJSON(w, out)
}

func (s *Service) handleGoals(w http.ResponseWriter, r *http.Request) {
	filter := pipeline.GoalFilterAll
	if q := r.URL.Query().Get("filter"); q != "" {
		f, err := pipeline.ParseGoalFilter(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter = f
	}

	s.mu.RLock()
	out := make([]GoalView, 0, len(s.goals))
	for _, g := range s.goals {
		if matchesFilter(g, filter) {
			out = append(out, g)
		}
	}
	s.mu.RUnlock()
	writeJSON(w, out)
}

// matchesFilter applies the goal list policy to a precomputed view.
// Completion wins over dates.
func matchesFilter(g GoalView, f pipeline.GoalFilter) bool {
	switch f {
	case pipeline.GoalFilterActive:
		return g.Active && !g.Complete
	case pipeline.GoalFilterCompleted:
		return g.Complete
	case pipeline.GoalFilterExpired:
		return g.Expired && !g.Complete
	default:
		return true
	}
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.Status().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
