package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalpost/internal/logging"
	"github.com/theirongolddev/goalpost/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	needSetup := !fileExists(configPath())

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	now := time.Now
	if flagAsOf != "" {
		fixed := s.now
		now = func() time.Time { return fixed }
	}

	app := tui.NewApp(tui.Options{
		Store:      s.st,
		Config:     s.cfg,
		ConfigPath: configPath(),
		Log:        logging.Nop(), // stderr would draw over the alt screen
		Now:        now,
		NeedSetup:  needSetup,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
