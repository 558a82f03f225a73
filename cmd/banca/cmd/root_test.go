package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rustyeddy/banca/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command in-process. Flag variables are package
// globals, so they are reset before every call.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, journalPath, logLevel = "", "", ""
	initBalance, listMonth, exportOutput, serveAddr = "", "", "", ""
	addInput = ledger.OperationInput{}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "banca version "+version)
}

func TestAddAndKPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banca.json")
	common := []string{"--journal", path, "--log-level", "error"}

	_, err := run(t, append(common, "init", "--balance", "5000")...)
	require.NoError(t, err)

	_, err = run(t, append(common, "add", "--amount", "50", "--result", "LOSS")...)
	require.NoError(t, err)
	out, err := run(t, append(common, "add", "--amount", "100", "--result", "WIN", "--payout", "80", "--strategy", "trend")...)
	require.NoError(t, err)
	assert.Contains(t, out, "WIN")
	assert.Contains(t, out, "5.030,00")

	out, err = run(t, append(common, "kpi")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Banca")
	assert.Contains(t, out, "50,00%")

	out, err = run(t, append(common, "strategies")...)
	require.NoError(t, err)
	assert.Contains(t, out, "trend")

	_, err = run(t, append(common, "init", "--balance", "1")...)
	assert.Error(t, err)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banca.json")

	_, err := run(t, "--journal", path, "--log-level", "error", "add", "--amount", "-1", "--result", "WIN")
	var verr *ledger.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestExportCSVToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "banca.json")
	csvPath := filepath.Join(dir, "out.csv")
	common := []string{"--journal", path, "--log-level", "error"}

	_, err := run(t, append(common, "add", "--amount", "10", "--result", "WIN")...)
	require.NoError(t, err)

	_, err = run(t, append(common, "export", "csv", "-o", csvPath)...)
	require.NoError(t, err)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,created_at"))
}

func TestShowSQLite(t *testing.T) {
	t.Setenv("BANCA_JOURNAL_TYPE", "sqlite")
	path := filepath.Join(t.TempDir(), "banca.db")
	common := []string{"--journal", path, "--log-level", "error"}

	_, err := run(t, append(common, "add", "--amount", "10", "--result", "LOSS", "--strategy", "scalp")...)
	require.NoError(t, err)

	out, err := run(t, append(common, "export", "org")...)
	require.NoError(t, err)
	assert.Contains(t, out, "LOSS")

	out, err = run(t, append(common, "list", "--month", "2000-01")...)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))

	_, err = run(t, append(common, "show", "missing")...)
	assert.Error(t, err)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banca.yaml")

	out, err := run(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = run(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")

	_, err = run(t, "--config", path, "--log-level", "loud", "version")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banca.json")
	common := []string{"--journal", path, "--log-level", "error"}

	out, err := run(t, append(common, "check", "100")...)
	require.NoError(t, err)
	assert.Contains(t, out, "2,00%")

	out, err = run(t, append(common, "check", "1000")...)
	assert.Error(t, err)
	assert.Contains(t, out, "STAKE_TOO_HIGH")

	_, err = run(t, append(common, "check", "zero")...)
	assert.Error(t, err)
}
