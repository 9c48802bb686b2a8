package ledger

import "github.com/theirongolddev/goalpost/internal/model"

// Row is one line of a ledger CSV file. Every column is read as text and
// converted afterwards so a bad cell costs one row, not the file.
type Row struct {
	ID          string `csv:"id"`
	Type        string `csv:"type"`
	Amount      string `csv:"amount"`
	Date        string `csv:"date"`
	Category    string `csv:"category"`
	Account     string `csv:"account"`
	Description string `csv:"description"`
}

// DiscoveredFile is a ledger file found during directory scanning.
type DiscoveredFile struct {
	Path    string
	Account string // parent directory name, used when a row has no account
}

// ParseResult holds the output of parsing a single ledger file.
type ParseResult struct {
	Path         string
	Transactions []model.Transaction
	Rows         int
	ParseErrors  int
	Err          error
}
