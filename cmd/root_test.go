package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalpost/internal/config"
	"github.com/theirongolddev/goalpost/internal/model"
	"github.com/theirongolddev/goalpost/internal/store"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"250", "250", false},
		{" 99.50 ", "99.5", false},
		{"1,200", "1200", false},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String())
	}
}

func TestResolveNow(t *testing.T) {
	defer func() { flagAsOf = "" }()

	flagAsOf = "2024-02-29"
	got, err := resolveNow()
	require.NoError(t, err)
	assert.Equal(t, model.Day(2024, 2, 29), got)

	flagAsOf = "29/02/2024"
	_, err = resolveNow()
	assert.Error(t, err)

	flagAsOf = ""
	got, err = resolveNow()
	require.NoError(t, err)
	assert.Zero(t, got.Hour())
}

func TestDBPathPrecedence(t *testing.T) {
	defer func() { flagDB = "" }()

	cfg := config.DefaultConfig()
	cfg.Storage.DBPath = "/from/config.db"
	assert.Equal(t, "/from/config.db", dbPath(cfg))

	flagDB = "/from/flag.db"
	assert.Equal(t, "/from/flag.db", dbPath(cfg))
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", "x", "--detach=true"})
	assert.Equal(t, []string{"daemon", "--addr", "x"}, got)
}

// run executes the root command against an isolated database and config.
func run(t *testing.T, dir string, args ...string) error {
	t.Helper()
	full := append([]string{
		"--db", filepath.Join(dir, "goalpost.db"),
		"--config", filepath.Join(dir, "config.toml"),
		"--quiet",
	}, args...)
	rootCmd.SetArgs(full)
	return rootCmd.Execute()
}

func TestCommandsEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() {
		flagDB, flagConfig, flagAsOf, flagQuiet = "", "", "", false
	})

	require.NoError(t, run(t, dir, "budget", "add",
		"--id", "food", "--name", "Food", "--amount", "500",
		"--from", "2024-01-01", "--to", "2024-01-31", "--category", "groceries"))
	require.NoError(t, run(t, dir, "goal", "add",
		"--id", "fund", "--name", "Fund", "--type", "savings", "--target", "1000",
		"--progress", "250", "--from", "2024-01-01", "--to", "2024-12-31"))
	require.NoError(t, run(t, dir, "tx", "add",
		"--amount", "300", "--category", "groceries", "--date", "2024-01-10"))
	require.NoError(t, run(t, dir, "goal", "progress", "add", "Fund", "100"))

	assert.Error(t, run(t, dir, "goal", "progress", "add", "Fund", "0"))
	assert.Error(t, run(t, dir, "goal", "progress", "set", "Fund", "--", "-5"))
	assert.Error(t, run(t, dir, "goals", "--filter", "bogus"))

	require.NoError(t, run(t, dir, "--as-of", "2024-01-20", "overview"))
	require.NoError(t, run(t, dir, "--as-of", "2024-01-20", "budgets"))
	require.NoError(t, run(t, dir, "--as-of", "2024-01-20", "budget", "show", "food"))
	require.NoError(t, run(t, dir, "--as-of", "2024-01-20", "goals", "--filter", "active"))

	planPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, run(t, dir, "plan", "export", "--out", planPath))
	require.NoError(t, run(t, dir, "plan", "apply", planPath))

	st, err := store.Open(filepath.Join(dir, "goalpost.db"), nil)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	g, err := st.GetGoal("fund")
	require.NoError(t, err)
	assert.Equal(t, "350", g.CurrentProgress.String())

	budgets, err := st.ListBudgets()
	require.NoError(t, err)
	assert.Len(t, budgets, 1)

	n, err := st.TransactionCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
