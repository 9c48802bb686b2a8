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

func (a App) renderBudgetsTab(cw int) string {
	t := theme.Active

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selected := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	marker := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	title := "Active Budgets"
	if a.showAllBudgets {
		title = "All Budgets"
	}

	if len(a.budgets) == 0 {
		body := muted.Render("Nothing here. Press a to show inactive budgets, or add one with `goalpost budget add`.")
		return components.ContentCard(title, body, cw)
	}

	listW := cw
	if !a.isCompactLayout() {
		listW = cw * 2 / 5
	}
	innerW := components.CardInnerWidth(listW)

	var list strings.Builder
	for i, s := range a.budgets {
		name := cli.Truncate(s.Budget.Name, innerW-16)
		pct := lipgloss.NewStyle().Foreground(t.ToneColor(s.Tone)).Background(t.Surface).Render(fmt.Sprintf("%5.1f%%", s.Progress.Percentage))
		if i == a.budgetCursor {
			line := marker.Render("▸ ") + selected.Render(fmt.Sprintf("%-*s", innerW-10, name)) + pct
			list.WriteString(line)
		} else {
			list.WriteString(value.Render(fmt.Sprintf("  %-*s", innerW-10, name)) + pct)
		}
		if !s.Active {
			list.WriteString(muted.Render(" ·"))
		}
		list.WriteString("\n")
	}
	list.WriteString(muted.Render("[j/k] select  [a] active/all"))
	listCard := components.ContentCard(title, list.String(), listW)

	detailW := cw - listW
	if a.isCompactLayout() {
		detailW = cw
	}
	detailCard := a.budgetDetail(a.budgets[a.budgetCursor], detailW)

	if a.isCompactLayout() {
		return listCard + "\n" + detailCard
	}
	return components.CardRow([]string{listCard, detailCard})
}

func (a App) budgetDetail(s pipeline.BudgetSummary, outerW int) string {
	t := theme.Active
	cur := a.currency()
	innerW := components.CardInnerWidth(outerW)
	bud := s.Budget

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	toned := lipgloss.NewStyle().Foreground(t.ToneColor(s.Tone)).Background(t.Surface).Bold(true)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", label.Render("Window:    "), value.Render(cli.FormatRange(bud.StartDate, bud.EndDate)))
	fmt.Fprintf(&b, "%s %s\n", label.Render("Categories:"), value.Render(cli.FormatCategories(bud.CategoryIDs)))
	fmt.Fprintf(&b, "%s %s %s %s\n", label.Render("Spent:     "),
		toned.Render(cli.FormatMoney(s.Progress.Spent, cur)),
		label.Render("of"),
		value.Render(cli.FormatMoney(bud.Amount, cur)))
	remaining := cli.FormatMoney(s.Progress.Remaining, cur)
	if s.Progress.IsOverBudget {
		remaining += " (over budget)"
	}
	fmt.Fprintf(&b, "%s %s\n\n", label.Render("Remaining: "), value.Render(remaining))
	b.WriteString(components.ToneBar(s.Progress.Percentage, s.Tone, innerW))
	b.WriteString("\n\n")

	days := pipeline.AggregateDailySpend(a.snap.Transactions, bud)
	if len(days) > 0 {
		b.WriteString(label.Render("Daily spend"))
		b.WriteString("\n")
		allowance := bud.Amount.InexactFloat64() / float64(len(days))
		b.WriteString(components.BarChart(cli.DailyValues(days), chartDateLabels(days), t.Blue, allowance, innerW, 8))
		b.WriteString("\n\n")
	}

	cats := pipeline.SpendByCategory(a.snap.Transactions, bud)
	if len(cats) > 0 {
		b.WriteString(label.Render("By category"))
		b.WriteString("\n")
		nameW := max(10, innerW/4)
		barMax := max(4, innerW-nameW-18)
		for _, c := range cats {
			barLen := int(c.Share / 100 * float64(barMax))
			fmt.Fprintf(&b, "%s %s %s\n",
				value.Render(fmt.Sprintf("%-*s", nameW, cli.Truncate(c.CategoryID, nameW))),
				lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render(strings.Repeat("█", barLen)),
				label.Render(fmt.Sprintf("%s %4.0f%%", cli.FormatMoney(c.Spent, cur), c.Share)))
		}
	}

	return components.ContentCard(bud.Name, strings.TrimRight(b.String(), "\n"), outerW)
}
