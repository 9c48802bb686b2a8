package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalpost/internal/cli"
	"github.com/theirongolddev/goalpost/internal/pipeline"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Roll-up of budgets, goals and spend",
	RunE:  runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.st.Snapshot()
	if err != nil {
		return err
	}

	if len(snap.Budgets) == 0 && len(snap.Goals) == 0 {
		fmt.Println("\n  No budgets or goals yet.")
		fmt.Println("  Try `goalpost budget add` or `goalpost goal add`.")
		return nil
	}

	o := pipeline.Overview(snap.Transactions, snap.Budgets, snap.Goals, s.now)

	fmt.Println()
	fmt.Println(cli.RenderTitle("GOALPOST  as of " + cli.FormatDate(s.now)))
	fmt.Println()

	spent := fmt.Sprintf("%s of %s (%s)", s.money(o.TotalSpent), s.money(o.TotalLimit), cli.FormatPercent(o.SpentPercent))
	overBudget := cli.FormatNumber(int64(o.OverBudget))
	if o.OverBudget > 0 {
		overBudget = cli.Warn(overBudget)
	}

	rows := [][]string{
		{"Budgets", cli.FormatNumber(int64(o.Budgets))},
		{"Active budgets", cli.FormatNumber(int64(o.ActiveBudgets))},
		{"Over budget", overBudget},
		{"Active spend", spent},
		{"", cli.RenderToneBar(o.SpentPercent, pipeline.BudgetTone(o.SpentPercent), 30)},
		{"---"},
		{"Goals", cli.FormatNumber(int64(o.Goals))},
		{"Active goals", cli.FormatNumber(int64(o.ActiveGoals))},
		{"Completed goals", cli.FormatNumber(int64(o.CompletedGoals))},
		{"Expired goals", cli.FormatNumber(int64(o.ExpiredGoals))},
		{"---"},
		{"Transactions", cli.FormatNumber(int64(o.Transactions))},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	active := pipeline.FilterBudgets(snap.Budgets, s.now, true)
	if len(active) > 0 {
		fmt.Println()
		fmt.Println("  " + cli.Header("Active budgets"))
		for _, b := range pipeline.SummarizeBudgets(snap.Transactions, active, s.now) {
			fmt.Printf("  %-20s %s %6s\n",
				cli.Truncate(b.Budget.Name, 20),
				cli.RenderToneBar(b.Progress.Percentage, b.Tone, 24),
				cli.FormatPercent(b.Progress.Percentage))
		}
	}
	return nil
}
