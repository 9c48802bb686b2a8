package store

import (
	"database/sql"
	"fmt"

	"github.com/theirongolddev/goalpost/internal/logging"
	"github.com/theirongolddev/goalpost/internal/model"
)

const txnColumns = `id, type, amount, date, category_id, account_id, description, source_file`

// SaveTransactions inserts or replaces txns in one database transaction.
func (s *Store) SaveTransactions(txns []model.Transaction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertTransactions(tx, txns); err != nil {
		return err
	}
	return tx.Commit()
}

func insertTransactions(tx *sql.Tx, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	var seq int64
	if err := tx.QueryRow("SELECT COALESCE(MAX(seq), 0) FROM transactions").Scan(&seq); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO transactions (` + txnColumns + `, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range txns {
		seq++
		_, err := stmt.Exec(t.ID, t.Type.String(), t.Amount.String(), encodeDay(t.Date),
			t.CategoryID, t.AccountID, t.Description, t.SourceFile, seq)
		if err != nil {
			return fmt.Errorf("saving transaction %s: %w", t.ID, err)
		}
	}
	return nil
}

// ListTransactions returns the whole ledger ordered by date, then insertion order.
func (s *Store) ListTransactions() ([]model.Transaction, error) {
	return listTransactions(s.db)
}

func listTransactions(q querier) ([]model.Transaction, error) {
	rows, err := q.Query(`SELECT ` + txnColumns + ` FROM transactions ORDER BY date, seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var (
			t                 model.Transaction
			typ, amount, date string
		)
		if err := rows.Scan(&t.ID, &typ, &amount, &date, &t.CategoryID, &t.AccountID, &t.Description, &t.SourceFile); err != nil {
			return nil, err
		}
		if t.Type, err = model.ParseTransactionType(typ); err != nil {
			return nil, err
		}
		if t.Amount, err = decodeAmount(amount); err != nil {
			return nil, err
		}
		if t.Date, err = decodeDay(date); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// DeleteTransaction removes a single ledger record.
func (s *Store) DeleteTransaction(id string) error {
	res, err := s.db.Exec("DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %q: %w", id, ErrNotFound)
	}
	return nil
}

// TransactionCount returns the number of ledger records.
func (s *Store) TransactionCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count)
	return count, err
}

// FileInfo holds the tracked mtime and size for an imported ledger file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns file_path -> FileInfo for every imported ledger file.
func (s *Store) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := s.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// ReplaceFile swaps every transaction imported from path for txns and records
// the file's mtime and size, atomically.
func (s *Store) ReplaceFile(path string, fi FileInfo, txns []model.Transaction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM transactions WHERE source_file = ?", path); err != nil {
		return err
	}
	if err := insertTransactions(tx, txns); err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes, imported_at)
		VALUES (?, ?, ?, ?)`, path, fi.MtimeNs, fi.SizeBytes, nowStamp())
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug("ledger file imported",
		logging.F(logging.FieldFile, path), logging.F(logging.FieldCount, len(txns)))
	return nil
}

// ForgetFile drops a tracked ledger file and the transactions imported from it.
func (s *Store) ForgetFile(path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM transactions WHERE source_file = ?", path); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", path); err != nil {
		return err
	}
	return tx.Commit()
}
