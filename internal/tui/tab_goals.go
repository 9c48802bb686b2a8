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

func (a App) renderGoalsTab(cw int) string {
	t := theme.Active

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	marker := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	active := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	// Filter pills
	var pills []string
	for _, f := range pipeline.GoalFilters {
		if f == a.goalFilter {
			pills = append(pills, active.Render("["+f.String()+"]"))
		} else {
			pills = append(pills, muted.Render(" "+f.String()+" "))
		}
	}
	header := strings.Join(pills, muted.Render(" "))

	if len(a.goals) == 0 {
		body := header + "\n\n" + muted.Render("No goals match. Press f to change the filter or n to add a goal.")
		return components.ContentCard("Goals", body, cw)
	}

	innerW := components.CardInnerWidth(cw)
	labelW, barW := rowWidths(innerW - 2)

	var list strings.Builder
	list.WriteString(header)
	list.WriteString("\n\n")
	for i, s := range a.goals {
		row := components.ProgressRow(s.Goal.Name, s.Progress.Percentage, s.Tone, s.Status, labelW, barW)
		if i == a.goalCursor {
			list.WriteString(marker.Render("▸ ") + row)
		} else {
			list.WriteString(value.Render("  ") + row)
		}
		list.WriteString("\n")
	}
	list.WriteString("\n")
	list.WriteString(muted.Render("[j/k] select  [f] filter  [p] adjust progress  [n] new goal"))

	return components.ContentCard("Goals", list.String(), cw) + "\n" + a.goalDetail(a.goals[a.goalCursor], cw)
}

func (a App) goalDetail(s pipeline.GoalSummary, outerW int) string {
	t := theme.Active
	cur := a.currency()
	g := s.Goal

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	toned := lipgloss.NewStyle().Foreground(t.ToneColor(s.Tone)).Background(t.Surface).Bold(true)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", label.Render("Type:     "), value.Render(g.Type.String()))
	fmt.Fprintf(&b, "%s %s\n", label.Render("Window:   "), value.Render(cli.FormatRange(g.StartDate, g.EndDate)))
	fmt.Fprintf(&b, "%s %s %s %s %s\n", label.Render("Progress: "),
		toned.Render(cli.FormatMoney(s.Progress.Progress, cur)),
		label.Render("of"),
		value.Render(cli.FormatMoney(s.Progress.Target, cur)),
		toned.Render("("+cli.FormatPercent(s.Progress.Percentage)+")"))
	fmt.Fprintf(&b, "%s %s\n", label.Render("Remaining:"), value.Render(cli.FormatMoney(s.Progress.Remaining, cur)))
	fmt.Fprintf(&b, "%s %s", label.Render("Status:   "), toned.Render(s.Status))
	if g.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", label.Render(g.Description))
	}

	return components.ContentCard(g.Name, b.String(), outerW)
}
