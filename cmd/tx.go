package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalpost/internal/cli"
	"github.com/theirongolddev/goalpost/internal/ledger"
	"github.com/theirongolddev/goalpost/internal/model"
	"github.com/theirongolddev/goalpost/internal/pipeline"
)

var (
	flagTxType        string
	flagTxAmount      string
	flagTxDate        string
	flagTxCategory    string
	flagTxAccount     string
	flagTxDescription string

	flagTxOut            string
	flagTxExportCategory string
)

var txCmd = &cobra.Command{
	Use:     "tx",
	Aliases: []string{"transaction"},
	Short:   "Record, remove or export ledger transactions",
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a single transaction",
	RunE:  runTxAdd,
}

var txRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxRm,
}

var txExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the ledger as CSV",
	RunE:  runTxExport,
}

func init() {
	f := txAddCmd.Flags()
	f.StringVar(&flagTxType, "type", "expense", "expense, income or transfer")
	f.StringVar(&flagTxAmount, "amount", "", "Amount (non-negative)")
	f.StringVar(&flagTxDate, "date", "", "Date (YYYY-MM-DD, default today or --as-of)")
	f.StringVar(&flagTxCategory, "category", "", "Category id")
	f.StringVar(&flagTxAccount, "account", "", "Account id")
	f.StringVar(&flagTxDescription, "description", "", "Free-form description")
	_ = txAddCmd.MarkFlagRequired("amount")
	_ = txAddCmd.MarkFlagRequired("category")

	txExportCmd.Flags().StringVarP(&flagTxOut, "out", "o", "", "Output file (default stdout)")
	txExportCmd.Flags().StringVar(&flagTxExportCategory, "category", "", "Only export this category")

	txCmd.AddCommand(txAddCmd, txRmCmd, txExportCmd)
	rootCmd.AddCommand(txCmd)
}

func runTxAdd(_ *cobra.Command, _ []string) error {
	tt, err := model.ParseTransactionType(flagTxType)
	if err != nil {
		return err
	}
	amount, err := parseAmount(flagTxAmount)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	date := s.now
	if flagTxDate != "" {
		if date, err = model.ParseDay(flagTxDate); err != nil {
			return fmt.Errorf("--date: %w", err)
		}
	}

	t := model.Transaction{
		ID:          model.NewID(),
		Type:        tt,
		Amount:      amount,
		Date:        date,
		CategoryID:  strings.TrimSpace(flagTxCategory),
		AccountID:   strings.TrimSpace(flagTxAccount),
		Description: flagTxDescription,
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.st.SaveTransactions([]model.Transaction{t}); err != nil {
		return err
	}

	fmt.Printf("  Recorded %s of %s in %s on %s\n", t.Type, s.money(t.Amount), t.CategoryID, cli.FormatDate(t.Date))

	// Show which active budgets this moved.
	budgets, err := s.st.ListBudgets()
	if err != nil {
		return err
	}
	txns, err := s.st.ListTransactions()
	if err != nil {
		return err
	}
	for _, b := range pipeline.SummarizeBudgets(txns, budgets, s.now) {
		if !b.Active || len(pipeline.SelectIncludedTransactions([]model.Transaction{t}, b.Budget)) == 0 {
			continue
		}
		line := fmt.Sprintf("  %-20s %s %s", cli.Truncate(b.Budget.Name, 20),
			cli.RenderToneBar(b.Progress.Percentage, b.Tone, 20), cli.FormatPercent(b.Progress.Percentage))
		if b.Progress.IsOverBudget {
			line += "  " + cli.Warn("over budget")
		}
		fmt.Println(line)
	}
	return nil
}

func runTxRm(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.st.DeleteTransaction(args[0]); err != nil {
		return err
	}
	fmt.Printf("  Deleted transaction %s\n", args[0])
	return nil
}

func runTxExport(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	txns, err := s.st.ListTransactions()
	if err != nil {
		return err
	}
	if flagTxExportCategory != "" {
		txns = pipeline.FilterByCategory(txns, flagTxExportCategory)
	}

	w := os.Stdout
	if flagTxOut != "" {
		f, err := os.Create(flagTxOut) //nolint:gosec // user-chosen export path
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagTxOut, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := ledger.Write(w, txns); err != nil {
		return err
	}
	if flagTxOut != "" {
		statusLine("Wrote %s transactions to %s", cli.FormatNumber(int64(len(txns))), flagTxOut)
	}
	return nil
}
