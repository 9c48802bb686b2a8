package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/goalpost/internal/cli"
	"github.com/theirongolddev/goalpost/internal/pipeline"
)

var flagImportDryRun bool

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import CSV ledger files (only changed files are re-read)",
	Long: `Import CSV ledger files from dir, or from general.ledger_dir in the config.

Each file needs a header row: id,type,amount,date,category,account,description.
Files already imported are skipped unless their size or mtime changed, and
transactions from files that disappeared are dropped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Parse and report without writing to the database")
	rootCmd.AddCommand(importCmd)
}

func progressPrinter() pipeline.ProgressFunc {
	return func(current, total int) {
		if flagQuiet {
			return
		}
		if current%25 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}
}

func runImport(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	dir := s.cfg.General.LedgerDir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no ledger directory: pass one or set general.ledger_dir (goalpost setup)")
	}

	statusLine("Scanning %s...", dir)

	if flagImportDryRun {
		res, err := pipeline.Load(dir, progressPrinter())
		if err != nil {
			return err
		}
		if !flagQuiet && res.TotalFiles > 0 {
			fmt.Fprintln(os.Stderr)
		}
		fmt.Printf("  %s transactions in %d files (%d accounts), %d bad rows, %d unreadable files\n",
			cli.FormatNumber(int64(len(res.Transactions))), res.ParsedFiles, res.AccountCount,
			res.ParseErrors, res.FileErrors)
		return nil
	}

	res, err := pipeline.LoadWithStore(dir, s.st, s.log, progressPrinter())
	if err != nil {
		return err
	}
	if !flagQuiet && res.Reparsed > 0 {
		fmt.Fprintln(os.Stderr)
	}

	total, err := s.st.TransactionCount()
	if err != nil {
		return err
	}

	fmt.Printf("  %d files: %d imported, %d unchanged, %d removed\n",
		res.TotalFiles, res.ParsedFiles, res.Unchanged, res.Removed)
	fmt.Printf("  %s transactions read, %s in ledger\n",
		cli.FormatNumber(int64(len(res.Transactions))), cli.FormatNumber(int64(total)))
	if res.ParseErrors > 0 {
		fmt.Println("  " + cli.Warn(fmt.Sprintf("%d rows could not be parsed and were skipped", res.ParseErrors)))
	}
	if res.FileErrors > 0 {
		fmt.Fprintf(os.Stderr, "\n  %d files could not be read\n", res.FileErrors)
	}
	return nil
}
