// Package ledger discovers, parses and writes CSV transaction ledgers.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/goalpost/internal/model"
)

// ParseFile reads one ledger file. Rows that fail to convert are counted in
// ParseErrors and skipped; only I/O or header problems set Err.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Path: df.Path, Err: err}
	}
	defer func() { _ = f.Close() }()

	return Parse(f, df.Path, df.Account)
}

// Parse reads ledger rows from r. source names the file for derived ids and
// Transaction.SourceFile; defaultAccount fills rows with an empty account column.
func Parse(r io.Reader, source, defaultAccount string) ParseResult {
	res := ParseResult{Path: source}

	var rows []*Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return res
		}
		res.Err = fmt.Errorf("reading %s: %w", source, err)
		return res
	}

	for i, row := range rows {
		if row == nil || isBlank(row) {
			continue
		}
		res.Rows++

		// Header is line 1, so data row i sits on line i+2.
		t, err := row.toTransaction(source, i+2, defaultAccount)
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Transactions = append(res.Transactions, t)
	}
	return res
}

func (r *Row) toTransaction(source string, line int, defaultAccount string) (model.Transaction, error) {
	typ, err := model.ParseTransactionType(r.Type)
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount %q: %w", r.Amount, err)
	}
	date, err := model.ParseDay(strings.TrimSpace(r.Date))
	if err != nil {
		return model.Transaction{}, err
	}

	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = model.DeriveID("ledger", source, strconv.Itoa(line))
	}
	account := strings.TrimSpace(r.Account)
	if account == "" {
		account = defaultAccount
	}

	t := model.Transaction{
		ID:          id,
		Type:        typ,
		Amount:      amount,
		Date:        date,
		CategoryID:  strings.TrimSpace(r.Category),
		AccountID:   account,
		Description: strings.TrimSpace(r.Description),
		SourceFile:  source,
	}
	if err := t.Validate(); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

func isBlank(r *Row) bool {
	return strings.TrimSpace(r.Type) == "" &&
		strings.TrimSpace(r.Amount) == "" &&
		strings.TrimSpace(r.Date) == ""
}

// Write encodes txns as a ledger CSV with a header row.
func Write(w io.Writer, txns []model.Transaction) error {
	rows := make([]*Row, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, &Row{
			ID:          t.ID,
			Type:        t.Type.String(),
			Amount:      t.Amount.String(),
			Date:        t.Date.Format(model.DateLayout),
			Category:    t.CategoryID,
			Account:     t.AccountID,
			Description: t.Description,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}
