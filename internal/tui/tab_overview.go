package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/goalpost/internal/cli"
	"github.com/theirongolddev/goalpost/internal/pipeline"
	"github.com/theirongolddev/goalpost/internal/tui/components"
	"github.com/theirongolddev/goalpost/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	ov := a.overview
	cur := a.currency()
	var b strings.Builder

	// Row 1: headline numbers
	spentColor := t.ToneColor(pipeline.BudgetTone(ov.SpentPercent))
	overColor := t.TextPrimary
	if ov.OverBudget > 0 {
		overColor = t.Red
	}
	stats := []components.Stat{
		{
			Label:  "Spent (active budgets)",
			Value:  cli.FormatMoney(ov.TotalSpent, cur),
			Detail: "of " + cli.FormatMoney(ov.TotalLimit, cur) + " · " + cli.FormatPercent(ov.SpentPercent),
			Color:  spentColor,
		},
		{
			Label:  "Budgets",
			Value:  fmt.Sprintf("%d active", ov.ActiveBudgets),
			Detail: fmt.Sprintf("%d total", ov.Budgets),
		},
		{
			Label:  "Over budget",
			Value:  fmt.Sprintf("%d", ov.OverBudget),
			Color:  overColor,
			Detail: "active budgets at or past 100%",
		},
		{
			Label:  "Goals",
			Value:  fmt.Sprintf("%d active", ov.ActiveGoals),
			Detail: fmt.Sprintf("%d completed · %d expired", ov.CompletedGoals, ov.ExpiredGoals),
		},
	}
	if a.isCompactLayout() {
		b.WriteString(components.StatCardRow(stats[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.StatCardRow(stats[2:], cw))
	} else {
		b.WriteString(components.StatCardRow(stats, cw))
	}
	b.WriteString("\n")

	// Row 2: active budgets and goals side by side
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	budgetCard := components.ContentCard("Active Budgets", a.budgetBars(components.CardInnerWidth(halves[0]), true), halves[0])
	goalCard := components.ContentCard("Goals", a.goalBars(components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		b.WriteString(budgetCard)
		b.WriteString("\n")
		b.WriteString(goalCard)
	} else {
		b.WriteString(components.CardRow([]string{budgetCard, goalCard}))
	}
	b.WriteString("\n")

	if imp := a.imported; imp != nil {
		dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
		b.WriteString(dim.Render(fmt.Sprintf(" ledger: %d files (%d reparsed, %d unchanged), %d bad rows, %s transactions",
			imp.TotalFiles, imp.Reparsed, imp.Unchanged, imp.ParseErrors, cli.FormatNumber(int64(ov.Transactions)))))
	}

	return b.String()
}

// budgetBars renders one progress row per budget in the current list.
func (a App) budgetBars(innerW int, activeOnly bool) string {
	muted := lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Background(theme.Active.Surface)

	var rows []string
	for _, s := range a.budgets {
		if activeOnly && !s.Active {
			continue
		}
		labelW, barW := rowWidths(innerW)
		rows = append(rows, components.ProgressRow(
			s.Budget.Name, s.Progress.Percentage, s.Tone,
			cli.FormatMoney(s.Progress.Remaining, a.currency())+" left",
			labelW, barW,
		))
	}
	if len(rows) == 0 {
		return muted.Render("No active budgets. Add one with `goalpost budget add`.")
	}
	return strings.Join(rows, "\n")
}

// goalBars renders one progress row per goal in the current filter.
func (a App) goalBars(innerW int) string {
	muted := lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Background(theme.Active.Surface)

	rows := make([]string, 0, len(a.goals))
	for _, s := range a.goals {
		labelW, barW := rowWidths(innerW)
		rows = append(rows, components.ProgressRow(
			s.Goal.Name, s.Progress.Percentage, s.Tone, s.Status, labelW, barW,
		))
	}
	if len(rows) == 0 {
		return muted.Render("No goals in this view. Press n to create one.")
	}
	return strings.Join(rows, "\n")
}

// rowWidths splits a card's inner width between label and bar, leaving room
// for the percentage and a short trailing note.
func rowWidths(innerW int) (labelW, barW int) {
	labelW = max(10, innerW/4)
	barW = max(8, innerW-labelW-24)
	return labelW, barW
}
