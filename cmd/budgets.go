package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalpost/internal/cli"
	"github.com/theirongolddev/goalpost/internal/model"
	"github.com/theirongolddev/goalpost/internal/pipeline"
)

var (
	flagBudgetsAll bool

	flagBudgetName        string
	flagBudgetID          string
	flagBudgetAmount      string
	flagBudgetFrom        string
	flagBudgetTo          string
	flagBudgetCategories  []string
	flagBudgetColor       string
	flagBudgetDescription string
)

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "List budgets with spend progress",
	RunE:  runBudgets,
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Create, remove or inspect a budget",
}

var budgetAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create or replace a budget",
	RunE:  runBudgetAdd,
}

var budgetRmCmd = &cobra.Command{
	Use:     "rm <id|name>",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete a budget",
	Args:    cobra.ExactArgs(1),
	RunE:    runBudgetRm,
}

var budgetShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a budget's progress and the transactions counted toward it",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetShow,
}

func init() {
	budgetsCmd.Flags().BoolVarP(&flagBudgetsAll, "all", "a", false, "Include budgets outside their date window")

	f := budgetAddCmd.Flags()
	f.StringVar(&flagBudgetID, "id", "", "Budget id (derived from the name when empty)")
	f.StringVar(&flagBudgetName, "name", "", "Budget name")
	f.StringVar(&flagBudgetAmount, "amount", "", "Spending limit")
	f.StringVar(&flagBudgetFrom, "from", "", "First day (YYYY-MM-DD)")
	f.StringVar(&flagBudgetTo, "to", "", "Last day (YYYY-MM-DD)")
	f.StringSliceVar(&flagBudgetCategories, "category", nil, "Category to track (repeatable; none = all categories)")
	f.StringVar(&flagBudgetColor, "color", "", "Display color")
	f.StringVar(&flagBudgetDescription, "description", "", "Free-form description")
	_ = budgetAddCmd.MarkFlagRequired("name")
	_ = budgetAddCmd.MarkFlagRequired("amount")
	_ = budgetAddCmd.MarkFlagRequired("from")
	_ = budgetAddCmd.MarkFlagRequired("to")

	budgetCmd.AddCommand(budgetAddCmd, budgetRmCmd, budgetShowCmd)
	rootCmd.AddCommand(budgetsCmd, budgetCmd)
}

func runBudgets(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.st.Snapshot()
	if err != nil {
		return err
	}

	budgets := pipeline.FilterBudgets(snap.Budgets, s.now, !flagBudgetsAll)
	if len(budgets) == 0 {
		if flagBudgetsAll {
			fmt.Println("\n  No budgets yet.")
		} else {
			fmt.Println("\n  No active budgets. Use --all to include past and future ones.")
		}
		return nil
	}

	title := "Active budgets"
	if flagBudgetsAll {
		title = "All budgets"
	}

	rows := make([][]string, 0, len(budgets))
	for _, b := range pipeline.SummarizeBudgets(snap.Transactions, budgets, s.now) {
		status := "on track"
		switch {
		case b.Progress.IsOverBudget:
			status = cli.Warn("over")
		case !b.Active:
			status = cli.Muted("inactive")
		}
		rows = append(rows, []string{
			cli.Truncate(b.Budget.Name, 24),
			cli.FormatRange(b.Budget.StartDate, b.Budget.EndDate),
			s.money(b.Progress.Spent),
			s.money(b.Budget.Amount),
			s.money(b.Progress.Remaining),
			cli.FormatPercent(b.Progress.Percentage),
			cli.RenderToneBar(b.Progress.Percentage, b.Tone, 16),
			status,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   title + "  as of " + cli.FormatDate(s.now),
		Headers: []string{"Budget", "Window", "Spent", "Limit", "Remaining", "%", "", "Status"},
		Rows:    rows,
	}))
	return nil
}

func runBudgetAdd(_ *cobra.Command, _ []string) error {
	amount, err := parseAmount(flagBudgetAmount)
	if err != nil {
		return err
	}
	start, err := model.ParseDay(flagBudgetFrom)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	end, err := model.ParseDay(flagBudgetTo)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	id := flagBudgetID
	if id == "" {
		id = model.DeriveID("budget", strings.ToLower(strings.TrimSpace(flagBudgetName)), flagBudgetFrom)
	}

	b := model.Budget{
		ID:          id,
		Name:        strings.TrimSpace(flagBudgetName),
		Amount:      amount,
		CategoryIDs: model.NewCategorySet(flagBudgetCategories...),
		StartDate:   start,
		EndDate:     end,
		Color:       flagBudgetColor,
		Description: flagBudgetDescription,
	}
	if err := b.Validate(); err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.st.SaveBudget(b); err != nil {
		return err
	}
	fmt.Printf("  Saved budget %q (%s)\n", b.Name, b.ID)
	fmt.Printf("  %s for %s, categories: %s\n",
		s.money(b.Amount), cli.FormatRange(b.StartDate, b.EndDate), cli.FormatCategories(b.CategoryIDs))
	return nil
}

func runBudgetRm(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	b, err := s.st.FindBudget(args[0])
	if err != nil {
		return err
	}
	if err := s.st.DeleteBudget(b.ID); err != nil {
		return err
	}
	fmt.Printf("  Deleted budget %q\n", b.Name)
	return nil
}

func runBudgetShow(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	b, err := s.st.FindBudget(args[0])
	if err != nil {
		return err
	}
	txns, err := s.st.ListTransactions()
	if err != nil {
		return err
	}

	p := pipeline.ComputeBudgetProgress(txns, b)
	tone := pipeline.BudgetTone(p.Percentage)

	state := "active"
	switch {
	case b.EndDate.Before(b.StartDate):
		state = "invalid window"
	case !pipeline.IsBudgetActive(b, s.now) && s.now.Before(b.StartDate):
		state = "upcoming"
	case !pipeline.IsBudgetActive(b, s.now):
		state = "ended"
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(b.Name)))
	fmt.Println()

	rows := [][]string{
		{"Window", cli.FormatRange(b.StartDate, b.EndDate) + "  (" + state + ")"},
		{"Categories", cli.FormatCategories(b.CategoryIDs)},
		{"Limit", s.money(b.Amount)},
		{"Spent", s.money(p.Spent)},
		{"Remaining", s.money(p.Remaining)},
		{"Progress", cli.RenderToneBar(p.Percentage, tone, 24) + " " + cli.FormatPercent(p.Percentage)},
	}
	if p.IsOverBudget {
		rows = append(rows, []string{"Status", cli.Warn("over budget by " + s.money(p.Spent.Sub(b.Amount)))})
	}
	if b.Description != "" {
		rows = append(rows, []string{"Notes", b.Description})
	}
	fmt.Print(cli.RenderTable(cli.Table{Rows: rows}))

	if days := pipeline.AggregateDailySpend(txns, b); len(days) > 1 {
		fmt.Println()
		fmt.Printf("  %s  %s\n", cli.Muted("Daily"), cli.RenderSparkline(cli.DailyValues(days)))
	}

	cats := pipeline.SpendByCategory(txns, b)
	if len(cats) > 0 {
		fmt.Println()
		fmt.Println("  " + cli.Header("By category"))
		peak := cats[0].Spent.InexactFloat64()
		for _, c := range cats {
			label := fmt.Sprintf("%-14s %10s %6s", cli.Truncate(c.CategoryID, 14), s.money(c.Spent), cli.FormatPercent(c.Share))
			fmt.Println(cli.RenderHorizontalBar(label, c.Spent.InexactFloat64(), peak, 24))
		}
	}

	included := pipeline.SelectIncludedTransactions(txns, b)
	fmt.Println()
	if len(included) == 0 {
		fmt.Println("  No transactions counted toward this budget.")
		return nil
	}

	txRows := make([][]string, 0, len(included))
	for _, t := range included {
		txRows = append(txRows, []string{
			cli.FormatDate(t.Date),
			t.CategoryID,
			s.money(t.Amount),
			cli.Truncate(t.Description, 32),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Included transactions (%d)", len(included)),
		Headers: []string{"Date", "Category", "Amount", "Description"},
		Rows:    txRows,
	}))
	return nil
}
