package ledger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalpost/internal/model"
)

const header = "id,type,amount,date,category,account,description"

// writeLedger creates a CSV file under dir/sub and returns its DiscoveredFile.
func writeLedger(t *testing.T, dir, sub string, lines ...string) DiscoveredFile {
	t.Helper()
	target := filepath.Join(dir, sub)
	require.NoError(t, os.MkdirAll(target, 0o755))
	path := filepath.Join(target, "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	df := DiscoveredFile{Path: path}
	if sub != "" {
		df.Account = sub
	}
	return df
}

func TestParseFile_Rows(t *testing.T) {
	df := writeLedger(t, t.TempDir(), "checking",
		header,
		"t1,expense,100,2024-01-10,groceries,,weekly shop",
		",Income,1000.50,2024-01-05,salary,savings,",
		"t3,transfer,20,2024-01-06,,,",
	)

	res := ParseFile(df)
	require.NoError(t, res.Err)
	assert.Equal(t, 3, res.Rows)
	assert.Zero(t, res.ParseErrors)
	require.Len(t, res.Transactions, 3)

	first := res.Transactions[0]
	assert.Equal(t, "t1", first.ID)
	assert.Equal(t, model.Expense, first.Type)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, model.Day(2024, 1, 10), first.Date)
	assert.Equal(t, "groceries", first.CategoryID)
	assert.Equal(t, "checking", first.AccountID, "empty account falls back to directory")
	assert.Equal(t, df.Path, first.SourceFile)

	second := res.Transactions[1]
	assert.Equal(t, model.Income, second.Type)
	assert.Equal(t, "savings", second.AccountID)
	assert.NotEmpty(t, second.ID, "missing id is derived")
}

func TestParseFile_DerivedIDsAreStable(t *testing.T) {
	df := writeLedger(t, t.TempDir(), "",
		header,
		",expense,5,2024-02-01,coffee,,",
	)

	a := ParseFile(df)
	b := ParseFile(df)
	require.Len(t, a.Transactions, 1)
	require.Len(t, b.Transactions, 1)
	assert.Equal(t, a.Transactions[0].ID, b.Transactions[0].ID)
}

func TestParseFile_BadRowsSkipped(t *testing.T) {
	df := writeLedger(t, t.TempDir(), "",
		header,
		"a,expense,abc,2024-01-10,food,,",
		"b,refund,10,2024-01-10,food,,",
		"c,expense,10,01/10/2024,food,,",
		"d,expense,-5,2024-01-10,food,,",
		"e,expense,7,2024-01-10,food,,",
		",,,,,,",
	)

	res := ParseFile(df)
	require.NoError(t, res.Err)
	assert.Equal(t, 5, res.Rows)
	assert.Equal(t, 4, res.ParseErrors)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "e", res.Transactions[0].ID)
}

func TestParseFile_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	res := ParseFile(DiscoveredFile{Path: path})
	assert.NoError(t, res.Err)
	assert.Empty(t, res.Transactions)
}

func TestParseFile_Missing(t *testing.T) {
	res := ParseFile(DiscoveredFile{Path: filepath.Join(t.TempDir(), "nope.csv")})
	assert.Error(t, res.Err)
}

func TestWriteThenParse(t *testing.T) {
	txns := []model.Transaction{
		{ID: "x1", Type: model.Expense, Amount: decimal.RequireFromString("12.34"), Date: model.Day(2024, 3, 1), CategoryID: "food", AccountID: "cash", Description: "lunch, with friends"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, txns))
	assert.True(t, strings.HasPrefix(buf.String(), header))

	res := Parse(&buf, "export.csv", "")
	require.NoError(t, res.Err)
	require.Len(t, res.Transactions, 1)
	got := res.Transactions[0]
	assert.Equal(t, "lunch, with friends", got.Description)
	assert.True(t, got.Amount.Equal(txns[0].Amount))
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writeLedger(t, dir, "checking", header)
	writeLedger(t, dir, "card", header)
	writeLedger(t, dir, ".hidden", header)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	files, err := ScanDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "card", files[0].Account)
	assert.Equal(t, "checking", files[1].Account)
	assert.Equal(t, 2, CountAccounts(files))
}

func TestScanDir_Missing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, err)
	assert.Nil(t, files)
}
