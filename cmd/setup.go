package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalpost/internal/config"
	"github.com/theirongolddev/goalpost/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Read the file without env overrides so they are not persisted.
	cfg, err := config.LoadFrom(configPath())
	if err != nil {
		return err
	}

	vals := tui.NewSetupValues(cfg)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	cfg = vals.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTo(configPath(), cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", configPath())
	if cfg.General.LedgerDir != "" {
		fmt.Println("  Run `goalpost import` to load your ledger.")
	}
	fmt.Println("  Run `goalpost setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
