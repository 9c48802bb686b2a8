// Package cmd implements the goalpost CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalpost/internal/cli"
	"github.com/theirongolddev/goalpost/internal/config"
	"github.com/theirongolddev/goalpost/internal/logging"
	"github.com/theirongolddev/goalpost/internal/model"
	"github.com/theirongolddev/goalpost/internal/pipeline"
	"github.com/theirongolddev/goalpost/internal/store"
	"github.com/theirongolddev/goalpost/internal/tui/theme"
)

var (
	flagDB     string
	flagAsOf   string
	flagQuiet  bool
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:           "goalpost",
	Short:         "Budget and goal progress tracker",
	Long:          "Track spending against budgets and progress toward savings and spending goals.",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runOverview,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default from config or "+pipeline.DBPath()+")")
	rootCmd.PersistentFlags().StringVar(&flagAsOf, "as-of", "", "Evaluate as of this date (YYYY-MM-DD) instead of today")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default "+config.ConfigPath()+")")
}

// session bundles what most commands need: resolved config, a logger and an open store.
type session struct {
	cfg config.Config
	log logging.Logger
	st  *store.Store
	now time.Time
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.ConfigPath()
}

// loadConfig reads .env, the config file and env overrides, in that order of precedence.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.LoadFrom(configPath())
	if err != nil {
		return cfg, err
	}
	cfg = config.ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", configPath(), err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config) logging.Logger {
	level := cfg.Log.Level
	if flagQuiet {
		level = "error"
	}
	return logging.New(level, cfg.Log.Format)
}

func dbPath(cfg config.Config) string {
	switch {
	case flagDB != "":
		return flagDB
	case cfg.Storage.DBPath != "":
		return cfg.Storage.DBPath
	default:
		return pipeline.DBPath()
	}
}

// resolveNow returns the --as-of date, or the current calendar day.
func resolveNow() (time.Time, error) {
	if flagAsOf == "" {
		t := time.Now()
		return model.Day(t.Year(), t.Month(), t.Day()), nil
	}
	t, err := model.ParseDay(flagAsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("--as-of: %w", err)
	}
	return t, nil
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	now, err := resolveNow()
	if err != nil {
		return nil, err
	}
	theme.SetActive(cfg.Appearance.Theme)

	log := newLogger(cfg)
	st, err := store.Open(dbPath(cfg), log)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &session{cfg: cfg, log: log, st: st, now: now}, nil
}

func (s *session) Close() {
	_ = s.st.Close()
}

func (s *session) money(d decimal.Decimal) string {
	return cli.FormatMoney(d, s.cfg.General.Currency)
}

// parseAmount accepts "250", "99.50" or "1,200".
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func statusLine(msg string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+msg+"\n", args...)
}
