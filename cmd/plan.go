package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalpost/internal/plan"
)

var flagPlanOut string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Declare budgets and goals in a YAML file",
}

var planApplyCmd = &cobra.Command{
	Use:   "apply <file.yaml>",
	Short: "Create or update every budget and goal in a plan file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanApply,
}

var planExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all budgets and goals as a plan file",
	RunE:  runPlanExport,
}

func init() {
	planExportCmd.Flags().StringVarP(&flagPlanOut, "out", "o", "", "Output file (default stdout)")
	planCmd.AddCommand(planApplyCmd, planExportCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlanApply(_ *cobra.Command, args []string) error {
	p, err := plan.Load(args[0])
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	budgets, goals, err := p.Apply(s.st)
	if err != nil {
		return fmt.Errorf("applying %s: %w", args[0], err)
	}
	fmt.Printf("  Applied %s: %d budgets, %d goals\n", args[0], budgets, goals)
	return nil
}

func runPlanExport(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	budgets, err := s.st.ListBudgets()
	if err != nil {
		return err
	}
	goals, err := s.st.ListGoals()
	if err != nil {
		return err
	}

	data, err := plan.FromModels(budgets, goals).Marshal()
	if err != nil {
		return err
	}

	if flagPlanOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(flagPlanOut, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", flagPlanOut, err)
	}
	statusLine("Wrote %d budgets and %d goals to %s", len(budgets), len(goals), flagPlanOut)
	return nil
}
