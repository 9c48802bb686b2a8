// Package tui provides the interactive Bubble Tea dashboard for goalpost.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/goalpost/internal/cli"
	"github.com/theirongolddev/goalpost/internal/config"
	"github.com/theirongolddev/goalpost/internal/logging"
	"github.com/theirongolddev/goalpost/internal/model"
	"github.com/theirongolddev/goalpost/internal/pipeline"
	"github.com/theirongolddev/goalpost/internal/store"
	"github.com/theirongolddev/goalpost/internal/tui/components"
	"github.com/theirongolddev/goalpost/internal/tui/theme"
)

// Options wires the dashboard to its data and settings.
type Options struct {
	Store      *store.Store
	Config     config.Config
	ConfigPath string
	Log        logging.Logger
	// Now is the reference clock for every classification. Defaults to time.Now.
	Now func() time.Time
	// NeedSetup opens the first-run wizard once data has loaded.
	NeedSetup bool
}

// DataLoadedMsg is sent when the initial import and snapshot finish.
type DataLoadedMsg struct {
	Snapshot store.Snapshot
	Import   *pipeline.ImportResult
	LoadTime time.Duration
	Err      error
}

// ProgressMsg reports ledger parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background refresh completes.
type RefreshDataMsg struct {
	Snapshot store.Snapshot
	LoadTime time.Duration
	Err      error
}

// goalSavedMsg reports the outcome of a goal write made from a form.
type goalSavedMsg struct {
	goal model.Goal
	verb string
	err  error
}

const (
	tabOverview = iota
	tabBudgets
	tabGoals
	tabSettings
)

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	snap     store.Snapshot
	loaded   bool
	loadTime time.Duration
	loadErr  error
	imported *pipeline.ImportResult

	// Derived for the current filters
	overview model.OverviewStats
	budgets  []pipeline.BudgetSummary
	goals    []pipeline.GoalSummary

	// Filters
	showAllBudgets bool
	goalFilter     pipeline.GoalFilter

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width        int
	height       int
	activeTab    int
	showHelp     bool
	budgetCursor int
	goalCursor   int
	flash        string

	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	// Goal forms (huh); values are heap-allocated so bindings survive model copies
	form       *huh.Form
	formKind   formKind
	goalVals   *goalFormValues
	adjustVals *adjustFormValues

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
	minRefresh       = 10 * time.Second
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}

	theme.SetActive(opts.Config.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	refreshInterval := time.Duration(opts.Config.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < minRefresh {
		refreshInterval = 30 * time.Second
	}

	return App{
		opts:            opts,
		needSetup:       opts.NeedSetup,
		autoRefresh:     opts.Config.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts.Store, a.opts.Config.General.LedgerDir, a.opts.Log, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

func (a App) now() time.Time { return a.opts.Now() }

func (a App) currency() string { return a.opts.Config.General.Currency }

func (a *App) recompute() {
	now := a.now()
	txns := a.snap.Transactions

	a.overview = pipeline.Overview(txns, a.snap.Budgets, a.snap.Goals, now)
	a.budgets = pipeline.SummarizeBudgets(txns, pipeline.FilterBudgets(a.snap.Budgets, now, !a.showAllBudgets), now)
	a.goals = pipeline.SummarizeGoals(pipeline.FilterGoals(a.snap.Goals, a.goalFilter, now), now)

	a.budgetCursor = clampCursor(a.budgetCursor, len(a.budgets))
	a.goalCursor = clampCursor(a.goalCursor, len(a.goals))
}

func clampCursor(c, n int) int {
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// selectedGoal returns the goal under the cursor on the Goals tab.
func (a App) selectedGoal() (model.Goal, bool) {
	if len(a.goals) == 0 {
		return model.Goal{}, false
	}
	return a.goals[a.goalCursor].Goal, true
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.form != nil {
			a.form = a.form.WithWidth(formWidth(msg.Width))
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil || a.form != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}
		return a.updateKeys(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		a.imported = msg.Import
		a.lastRefresh = time.Now()
		if msg.Err == nil {
			a.snap = msg.Snapshot
		}
		a.recompute()

		if a.needSetup {
			a.setupVals = NewSetupValues(a.opts.Config)
			a.setupForm = NewSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		if msg.Err != nil {
			a.opts.Log.WithError(msg.Err).Warn("dashboard refresh failed")
			a.flash = "Refresh failed: " + msg.Err.Error()
			return a, nil
		}
		a.snap = msg.Snapshot
		a.loadTime = msg.LoadTime
		a.recompute()
		return a, nil

	case goalSavedMsg:
		if msg.err != nil {
			a.flash = fmt.Sprintf("Could not %s goal: %s", msg.verb, msg.err)
			return a, nil
		}
		a.flash = fmt.Sprintf("Goal %q %s", msg.goal.Name, msg.verb+"d")
		a.upsertGoal(msg.goal)
		a.recompute()
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.opts.Store))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages (cursor blinks, etc.) to an open form.
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.form != nil {
		return a.updateForm(msg)
	}

	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.flash = ""

	switch a.activeTab {
	case tabBudgets:
		switch key {
		case "j", "down":
			a.budgetCursor = clampCursor(a.budgetCursor+1, len(a.budgets))
			return a, nil
		case "k", "up":
			a.budgetCursor = clampCursor(a.budgetCursor-1, len(a.budgets))
			return a, nil
		case "a":
			a.showAllBudgets = !a.showAllBudgets
			a.recompute()
			return a, nil
		}
	case tabGoals:
		switch key {
		case "j", "down":
			a.goalCursor = clampCursor(a.goalCursor+1, len(a.goals))
			return a, nil
		case "k", "up":
			a.goalCursor = clampCursor(a.goalCursor-1, len(a.goals))
			return a, nil
		case "f":
			a.goalFilter = nextGoalFilter(a.goalFilter)
			a.goalCursor = 0
			a.recompute()
			return a, nil
		case "p", "enter":
			if g, ok := a.selectedGoal(); ok {
				return a.openAdjustForm(g)
			}
			return a, nil
		}
	case tabSettings:
		switch key {
		case "j", "down":
			a.settings.cursor = clampCursor(a.settings.cursor+1, settingsFieldCount)
			return a, nil
		case "k", "up":
			a.settings.cursor = clampCursor(a.settings.cursor-1, settingsFieldCount)
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "n":
		return a.openGoalForm()
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.opts.Store)
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		cfg := a.opts.Config
		cfg.TUI.AutoRefresh = a.autoRefresh
		a.opts.Config = cfg
		if err := a.saveConfig(); err != nil {
			a.flash = "Could not save config: " + err.Error()
		}
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if r := []rune(key); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		switch a.activeTab {
		case tabBudgets:
			a.budgetCursor = clampCursor(a.budgetCursor-1, len(a.budgets))
		case tabGoals:
			a.goalCursor = clampCursor(a.goalCursor-1, len(a.goals))
		}
	case tea.MouseButtonWheelDown:
		switch a.activeTab {
		case tabBudgets:
			a.budgetCursor = clampCursor(a.budgetCursor+1, len(a.budgets))
		case tabGoals:
			a.goalCursor = clampCursor(a.goalCursor+1, len(a.goals))
		}
	case tea.MouseButtonLeft:
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func nextGoalFilter(f pipeline.GoalFilter) pipeline.GoalFilter {
	for i, g := range pipeline.GoalFilters {
		if g == f {
			return pipeline.GoalFilters[(i+1)%len(pipeline.GoalFilters)]
		}
	}
	return pipeline.GoalFilterAll
}

// upsertGoal replaces g in the snapshot by id, or appends it.
func (a *App) upsertGoal(g model.Goal) {
	for i := range a.snap.Goals {
		if a.snap.Goals[i].ID == g.ID {
			a.snap.Goals[i] = g
			return
		}
	}
	a.snap.Goals = append(a.snap.Goals, g)
}

func (a App) saveConfig() error {
	if a.opts.ConfigPath == "" {
		return nil
	}
	return config.SaveTo(a.opts.ConfigPath, a.opts.Config)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.applySetup()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  goalpost needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◎ goalpost"))
	b.WriteString(subtitleStyle.Render(" · budgets & goals"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := max(20, min(40, a.width-30))
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Importing ledger\n\n"))
		b.WriteString(components.LoadingBar(float64(a.progress)/float64(a.progressMax), barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
		b.WriteString(subtitleStyle.Render(" files"))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Loading budgets and goals..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o b g x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move selection"},
		}},
		{"Budgets & Goals", []struct{ key, desc string }{
			{"a", "Toggle active / all budgets"},
			{"f", "Cycle goal filter"},
			{"n", "New goal"},
			{"p Enter", "Adjust goal progress"},
		}},
		{"General", []struct{ key, desc string }{
			{"r", "Refresh data"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◎ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	budgetScope := "active"
	if a.showAllBudgets {
		budgetScope = "all"
	}
	pill := pillStyle.Render(" as of ") + pillAccent.Render(cli.FormatDate(a.now())) +
		pillStyle.Render(" │ budgets ") + pillAccent.Render(budgetScope) +
		pillStyle.Render(" │ goals ") + pillAccent.Render(a.goalFilter.String()) +
		pillStyle.Render(" ")

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(pill)

	msg := a.flash
	if a.loadErr != nil && msg == "" {
		msg = "Load failed: " + a.loadErr.Error()
	}
	statusBar := components.RenderStatusBar(w, msg, fmt.Sprintf("%.1fs", a.loadTime.Seconds()), a.refreshing, a.autoRefresh)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabBudgets:
		content = a.renderBudgetsTab(cw)
	case tabGoals:
		content = a.renderGoalsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataCmd imports the ledger directory (if configured) and snapshots the
// store in a background goroutine, streaming ProgressMsg updates and a final
// DataLoadedMsg through sub.
func loadDataCmd(st *store.Store, ledgerDir string, log logging.Logger, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; the next update catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			var imported *pipeline.ImportResult
			if ledgerDir != "" {
				res, err := pipeline.LoadWithStore(ledgerDir, st, log, progressFn)
				if err != nil {
					log.WithError(err).Warn("ledger import failed", logging.F(logging.FieldFile, ledgerDir))
				}
				imported = res
			}

			snap, err := st.Snapshot()
			sub <- DataLoadedMsg{
				Snapshot: snap,
				Import:   imported,
				LoadTime: time.Since(start),
				Err:      err,
			}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd re-reads the store without progress UI.
func refreshDataCmd(st *store.Store) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		snap, err := st.Snapshot()
		return RefreshDataMsg{Snapshot: snap, LoadTime: time.Since(start), Err: err}
	}
}

// chartDateLabels builds compact x-axis labels for an oldest-first series:
// month abbreviations at the start and at month boundaries, day numbers elsewhere.
func chartDateLabels(days []model.DailySpend) []string {
	labels := make([]string, len(days))
	prev := time.Month(0)
	for i, d := range days {
		m := d.Date.Month()
		if i == 0 || m != prev {
			labels[i] = d.Date.Format("Jan")
		} else {
			labels[i] = fmt.Sprintf("%d", d.Date.Day())
		}
		prev = m
	}
	return labels
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}
