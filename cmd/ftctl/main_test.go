package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(dir, "finance.db"))
	t.Setenv("PERIOD_MODE", "calendar")
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--env-file", filepath.Join(dir, "absent.env")))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"summary", "goals", "import-ofx", "migrate"} {
		assert.True(t, names[want], "missing %s", want)
	}

	flag := importOFXCmd().Flag("dry-run")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestMigrate(t *testing.T) {
	dir := sqliteEnv(t)

	out, err := run(t, dir, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite schema is up to date")
}

func TestImportThenSummary(t *testing.T) {
	dir := sqliteEnv(t)

	out, err := run(t, dir, "import-ofx", "testdata/may.ofx", "--user", "u1", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would import 1 income and 2 expense entries")

	out, err = run(t, dir, "import-ofx", "testdata/may.ofx", "--user", "u1", "--account", "HDFC Savings")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 income and 2 expense entries")
	assert.Contains(t, out, "Skipped 1 zero-amount lines")

	// a second run is a separate process with an empty replay cache
	out, err = run(t, dir, "import-ofx", "testdata/may.ofx", "--user", "u1", "--account", "HDFC Savings")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 income and 0 expense entries")
	assert.Contains(t, out, "Skipped 3 already imported lines")

	out, err = run(t, dir, "summary", "--user", "u1", "--month", "2024-05", "--today", "2024-05-15")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-05-01 to 2024-05-31")
	assert.Contains(t, out, "85000.00")
	assert.Contains(t, out, "3249.75")
	assert.Contains(t, out, "Other")

	// another user's dashboard is empty
	out, err = run(t, dir, "summary", "--user", "u2", "--month", "2024-05")
	require.NoError(t, err)
	assert.NotContains(t, out, "85000.00")
}

func TestGoals_Empty(t *testing.T) {
	dir := sqliteEnv(t)

	out, err := run(t, dir, "goals", "--user", "u1", "--today", "2024-05-15")
	require.NoError(t, err)
	assert.Contains(t, out, "GOAL")
	assert.Contains(t, out, "TOTAL")
}

func TestSummary_RequiresUser(t *testing.T) {
	dir := sqliteEnv(t)

	_, err := run(t, dir, "summary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--user")
}

func TestSummary_BadMonth(t *testing.T) {
	dir := sqliteEnv(t)

	_, err := run(t, dir, "summary", "--user", "u1", "--month", "05/2024")
	assert.Error(t, err)
}
