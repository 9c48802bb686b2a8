package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/goalpost/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar. message replaces the key hints
// when set; dataAge describes the last load.
func RenderStatusBar(width int, message, dataAge string, refreshing, autoRefresh bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [n]ew goal  [p]rogress  [r]efresh  [q]uit"
	if message != "" {
		left = " " + message
	}

	right := ""
	switch {
	case refreshing:
		right = "refreshing… "
	case dataAge != "":
		right = "data " + dataAge + " "
	}
	if autoRefresh {
		right = "⟳ " + right
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return style.Render(left + lipgloss.NewStyle().Width(padding).Render("") + right)
}
