package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/goalpost/internal/config"
	"github.com/theirongolddev/goalpost/internal/tui/theme"
)

// SetupValues holds the first-run wizard bindings.
type SetupValues struct {
	Currency  string
	LedgerDir string
	Theme     string
}

// NewSetupValues seeds the wizard from cfg.
func NewSetupValues(cfg config.Config) *SetupValues {
	return &SetupValues{
		Currency:  cfg.General.Currency,
		LedgerDir: cfg.General.LedgerDir,
		Theme:     cfg.Appearance.Theme,
	}
}

// Apply copies the wizard answers onto cfg.
func (v *SetupValues) Apply(cfg config.Config) config.Config {
	cfg.General.Currency = strings.ToUpper(strings.TrimSpace(v.Currency))
	cfg.General.LedgerDir = strings.TrimSpace(v.LedgerDir)
	cfg.Appearance.Theme = v.Theme
	return cfg
}

func validateCurrency(s string) error {
	cfg := config.DefaultConfig()
	cfg.General.Currency = s
	return cfg.Validate()
}

func validateLedgerDir(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s)
	}
	return nil
}

// NewSetupForm builds the first-run wizard. It runs embedded in the dashboard
// or standalone via Run.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to goalpost").
				Description("Track budgets against your ledger and goals by hand.\nA few questions and you're set."),
			huh.NewInput().
				Title("Currency").
				Description("Three-letter code used to display amounts.").
				Value(&v.Currency).
				Validate(validateCurrency),
			huh.NewInput().
				Title("Ledger directory").
				Description("Folder of CSV exports to import. Leave blank to skip.").
				Value(&v.LedgerDir).
				Validate(validateLedgerDir),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
		),
	).WithTheme(formTheme()).WithShowHelp(true)
}

// formTheme picks the huh theme closest to the active palette.
func formTheme() *huh.Theme {
	switch theme.Active.Name {
	case theme.CatppuccinMocha.Name:
		return huh.ThemeCatppuccin()
	case theme.Terminal.Name:
		return huh.ThemeBase()
	default:
		return huh.ThemeCharm()
	}
}

// applySetup saves the wizard answers and activates the chosen theme.
func (a *App) applySetup() {
	a.opts.Config = a.setupVals.Apply(a.opts.Config)
	theme.SetActive(a.opts.Config.Appearance.Theme)
	if err := a.saveConfig(); err != nil {
		a.flash = "Could not save config: " + err.Error()
		return
	}
	a.flash = "Setup saved. Run `goalpost setup` anytime to reconfigure."
}
