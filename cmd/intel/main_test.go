package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/config"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/report"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/source"
)

const testStatement = `{
  "dateRange": {"startDate": "2024-04-01", "endDate": "2024-06-30"},
  "accounts": [
    {"accountId": "chk", "name": "Checking", "type": "checking", "balance": "2500.00", "currency": "USD"}
  ],
  "transactions": [
    {"transactionId": "t1", "accountId": "chk", "date": "2024-04-01", "amount": 3000, "description": "Payroll", "category": "Income"},
    {"transactionId": "t2", "accountId": "chk", "date": "2024-04-03", "amount": -1200, "description": "Rent", "category": "Housing"},
    {"transactionId": "t3", "accountId": "chk", "date": "2024-04-10", "amount": -85.40, "description": "Grocer", "category": "Groceries", "merchantName": "Grocer"}
  ]
}`

func useTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	previous := appConfig
	appConfig = cfg
	t.Cleanup(func() { appConfig = previous })
	return cfg
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSelectSource(t *testing.T) {
	cfg := useTestConfig(t)

	src, err := selectSource(cfg, sourceFlags{Statement: "s.json"})
	require.NoError(t, err)
	assert.Equal(t, "statement", src.Name())

	src, err = selectSource(cfg, sourceFlags{OFX: "a.qfx"})
	require.NoError(t, err)
	assert.IsType(t, source.OFXFile{}, src)

	_, err = selectSource(cfg, sourceFlags{})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = selectSource(cfg, sourceFlags{Statement: "s.json", OFX: "a.qfx"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = selectSource(cfg, sourceFlags{SimpleFIN: true})
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, report.FormatJSON, engineFormat("text"))
	assert.Equal(t, report.FormatHTML, engineFormat("HTML"))
	assert.Equal(t, "txt", extension("text"))
	assert.Equal(t, "html", extension("html"))
	assert.Equal(t, "pdf.json", extension("pdf"))
	assert.Equal(t, "json", extension(""))
	assert.Equal(t, "user_42_x", safeFileName("user/42 x"))
	assert.Equal(t, "report", safeFileName(""))
}

func TestReportCommand_StatementWithoutOracle(t *testing.T) {
	useTestConfig(t)
	path := writeFile(t, "statement.json", testStatement)

	var out, errOut bytes.Buffer
	cmd := reportCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--user", "u1", "--statement", path, "--request-id", "req-1"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var r report.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, "u1", r.UserID)
	assert.Equal(t, "req-1", r.RequestID)
	assert.Equal(t, report.FormatJSON, r.Format)
	require.Len(t, r.Sections, len(report.BaseSections()))
	for _, s := range r.Sections {
		assert.True(t, s.Fallback, s.ID)
		assert.NotEmpty(t, s.Content, s.ID)
	}
	assert.InDelta(t, 3000.0, r.Summary.Income, 0.001)
	assert.InDelta(t, 1285.40, r.Summary.Expenses, 0.001)
}

func TestReportCommand_TextAndArchive(t *testing.T) {
	cfg := useTestConfig(t)
	cfg.Archive.Enabled = true
	cfg.Archive.Path = filepath.Join(t.TempDir(), "archive.db")
	path := writeFile(t, "statement.json", testStatement)
	outPath := filepath.Join(t.TempDir(), "out", "report.txt")

	var errOut bytes.Buffer
	cmd := reportCmd()
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--user", "u1", "--statement", path, "--format", "text", "--detailed", "--out", outPath})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	text, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "Financial Intelligence Report")
	assert.Contains(t, errOut.String(), "written to")

	var listOut bytes.Buffer
	list := historyListCmd()
	list.SetOut(&listOut)
	list.SetArgs([]string{"--user", "u1"})
	require.NoError(t, list.ExecuteContext(context.Background()))
	assert.Contains(t, listOut.String(), "2024-04-01 to 2024-06-30")
	assert.Contains(t, listOut.String(), "8")
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"json", "HTML", "pdf", "text"} {
		assert.NoError(t, validateFormat(f), f)
	}
	err := validateFormat("xml")
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestCommands_RejectUnknownFormatBeforeWork(t *testing.T) {
	cfg := useTestConfig(t)
	cfg.Archive.Enabled = true
	cfg.Archive.Path = filepath.Join(t.TempDir(), "archive.db")
	missing := filepath.Join(t.TempDir(), "missing.json")

	tests := []struct {
		name string
		cmd  func() *cobra.Command
		args []string
	}{
		{"report", reportCmd, []string{"--user", "u1", "--statement", missing, "--format", "xml"}},
		{"bulk", bulkCmd, []string{"--manifest", missing, "--out-dir", t.TempDir(), "--format", "xml"}},
		{"history show", historyShowCmd, []string{"r1", "--format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			cmd := tt.cmd()
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			cmd.SetArgs(tt.args)

			err := cmd.ExecuteContext(context.Background())
			require.ErrorIs(t, err, common.ErrUnsupportedFormat)
			assert.NotContains(t, errOut.String(), "failed to fetch")
		})
	}

	_, err := os.Stat(cfg.Archive.Path)
	assert.True(t, os.IsNotExist(err), "archive opened for a rejected format")
}

func TestDecodeManifest(t *testing.T) {
	m, err := decodeManifest(strings.NewReader(`{"jobs": [
		{"userId": "u1", "statement": "a.json"},
		{"userId": "u2", "statementData": {"accounts": [{"accountId": "a", "balance": 12.5}], "transactions": []}}
	]}`))
	require.NoError(t, err)
	require.Len(t, m.Jobs, 2)
	assert.Equal(t, "a.json", m.Jobs[0].Statement)
	require.NotNil(t, m.Jobs[1].StatementData)
	assert.Equal(t, json.Number("12.5"), m.Jobs[1].StatementData.Accounts[0].Balance)

	_, err = decodeManifest(strings.NewReader(`{"jobs": [`))
	assert.Error(t, err)
}

func TestBuildJobs_IsolatesLoadFailures(t *testing.T) {
	cfg := useTestConfig(t)
	path := writeFile(t, "statement.json", testStatement)

	m := &manifest{Jobs: []manifestJob{
		{UserID: "u1", Statement: path},
		{UserID: "u2"},
		{UserID: "u3", Statement: filepath.Join(t.TempDir(), "missing.json")},
	}}

	jobs, failures := buildJobs(context.Background(), cfg, m, "text", false)
	require.Len(t, jobs, 1)
	assert.Equal(t, "u1", jobs[0].Request.UserID)
	assert.Equal(t, "30d", jobs[0].Request.Timeframe)
	assert.Equal(t, report.FormatJSON, jobs[0].Request.Format)
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0], "u2")
	assert.Contains(t, failures[1], "u3")
}

func TestBulkCommand(t *testing.T) {
	useTestConfig(t)
	statement := writeFile(t, "statement.json", testStatement)
	manifestPath := writeFile(t, "manifest.json", `{"jobs": [
		{"userId": "u1", "statement": "`+statement+`"},
		{"userId": "u2", "statement": "`+statement+`", "includeDetailed": true},
		{"userId": "u3"}
	]}`)
	outDir := t.TempDir()

	var errOut bytes.Buffer
	cmd := bulkCmd()
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--manifest", manifestPath, "--out-dir", outDir})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	files, err := filepath.Glob(filepath.Join(outDir, "*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, errOut.String(), "2 report(s) generated, 1 failed")
	assert.Contains(t, errOut.String(), "u3")
}
