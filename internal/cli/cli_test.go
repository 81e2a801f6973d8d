package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rshade/resinhook/internal/config"
	"github.com/rshade/resinhook/internal/engine/export"
	"github.com/rshade/resinhook/internal/engine/header"
)

// isolate points the config home at a temp dir and resets the global config.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvProjectDir, home)
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetGlobalConfigForTest()

	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExportCmd_MockRecordsJob(t *testing.T) {
	isolate(t)
	outDir := t.TempDir()

	out, err := runCmd(t, "export", "--mock", "25", "--mock-seed", "7",
		"--out-dir", outDir, "--filename", "bank", "--chunk-size", "10", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 25 rows to "+filepath.Join(outDir, "bank.xlsx"))
	assert.Contains(t, out, "streaming")

	f, err := excelize.OpenFile(filepath.Join(outDir, "bank.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("交易流水")
	require.NoError(t, err)
	assert.Len(t, rows, 26)
	assert.Equal(t, "交易流水号", rows[0][0])

	out, err = runCmd(t, "jobs", "--json")
	require.NoError(t, err)

	var page jobsPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, export.StatusDone, page.Jobs[0].Status)
	assert.Equal(t, 25, page.Jobs[0].RowsTotal)
	assert.Equal(t, "mock:transactions", page.Jobs[0].Source)
	assert.Equal(t, 1, page.Pagination.TotalItems)
}

func TestExportCmd_ColumnsAndLabels(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "rows.json", `[{"id":1,"name":"a","x":true},{"id":2,"name":"b","x":false}]`)

	_, err := runCmd(t, "export", "--input", input, "--out-dir", dir,
		"--columns", "name,id", "--header-map", "name=Name", "--plain")
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(dir, "rows.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name", "id"}, {"a", "1"}, {"b", "2"}}, rows)
}

func TestExportCmd_HeadersFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "people.json", `[{"name":"Ann","age":30,"phone":"555"}]`)
	headers := writeFile(t, dir, "headers.yaml", `headers:
  - label: Info
    children:
      - {label: Name, key: name}
      - {label: Age, key: age}
  - {label: Phone, key: phone}
`)

	_, err := runCmd(t, "export", "--input", input, "--headers-file", headers,
		"--out-dir", dir, "--filename", "people", "--plain")
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(dir, "people.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	merges, err := f.GetMergeCells("Sheet1")
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "A1", merges[0].GetStartAxis())
	assert.Equal(t, "B1", merges[0].GetEndAxis())

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Info", "", "Phone"}, rows[0])
	assert.Equal(t, []string{"Ann", "30", "555"}, rows[2])
}

func TestExportCmd_LargeChunkSize(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "people.json", `[{"name":"Ann"},{"name":"Bob"}]`)

	_, err := runCmd(t, "export", "--input", input, "--chunk-size", "1000000",
		"--out-dir", dir, "--filename", "big", "--plain")
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(dir, "big.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExportCmd_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantCode int
	}{
		{"no source", []string{"export", "--plain"}, ErrNoSource, ExitUsage},
		{"two sources", []string{"export", "--mock", "3", "--url", "http://x", "--plain"}, ErrMultipleSources, ExitUsage},
		{"empty data", []string{"export", "--mock", "5", "--mock-txn-type", "nope", "--plain"}, export.ErrEmptyData, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := runCmd(t, append(tt.args, "--out-dir", t.TempDir())...)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCode, ExitCode(err))
		})
	}
}

func TestReportExport(t *testing.T) {
	var buf bytes.Buffer

	err := reportExport(&buf, export.State{Status: export.StatusDone, RowsTotal: 1234567}, "/tmp/a.xlsx")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Exported 1,234,567 rows to /tmp/a.xlsx")

	err = reportExport(&buf, export.State{Status: export.StatusCancelled}, "")
	require.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, ExitCancelled, ExitCode(err))

	err = reportExport(&buf, export.State{Status: export.StatusError, Err: export.ErrEmptyData}, "")
	require.ErrorIs(t, err, export.ErrEmptyData)
}

func TestLoadHeaderTree(t *testing.T) {
	dir := t.TempDir()
	want := []header.Node{
		{Label: "Info", Children: []header.Node{{Label: "Name", Key: "name"}}},
		{Label: "Phone", Key: "phone"},
	}

	list := writeFile(t, dir, "list.json",
		`[{"label":"Info","children":[{"label":"Name","key":"name"}]},{"label":"Phone","key":"phone"}]`)
	nodes, err := loadHeaderTree(list)
	require.NoError(t, err)
	assert.Equal(t, want, nodes)

	doc := writeFile(t, dir, "doc.yaml", "headers:\n  - label: Info\n    children:\n      - {label: Name, key: name}\n  - {label: Phone, key: phone}\n")
	nodes, err = loadHeaderTree(doc)
	require.NoError(t, err)
	assert.Equal(t, want, nodes)

	bad := writeFile(t, dir, "bad.yaml", "- label: Orphan\n")
	_, err = loadHeaderTree(bad)
	require.ErrorIs(t, err, header.ErrInvalidHeader)
}

func TestBrowseCmd_Plain(t *testing.T) {
	isolate(t)

	out, err := runCmd(t, "browse", "--mock", "50", "--mock-seed", "1", "--mock-keys", "en",
		"--columns", "txnId,amount", "--offset", "10", "--plain")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 22)
	assert.Contains(t, lines[1], "      11  T")
	assert.Equal(t, "rows 11-30 of 50", lines[len(lines)-1])

	_, err = runCmd(t, "browse", "--mock", "5", "--offset", "9", "--plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 9 outside")
}

func TestConfigCmds(t *testing.T) {
	home := isolate(t)

	out, err := runCmd(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(home, config.FileName))

	_, err = runCmd(t, "config", "init")
	require.Error(t, err)

	out, err = runCmd(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	out, err = runCmd(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "chunk_size: 2000")

	bad := writeFile(t, t.TempDir(), "bad.yaml", "export:\n  chunk_size: 0\n")
	_, err = runCmd(t, "config", "validate", bad)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestConfigFlagOverlay(t *testing.T) {
	isolate(t)
	overlay := writeFile(t, t.TempDir(), "overlay.yaml", "export:\n  chunk_size: 123\n  out_dir: /tmp/x\n")

	out, err := runCmd(t, "--config", overlay, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "chunk_size: 123")
}

func TestJobsCmd_StoreDisabled(t *testing.T) {
	isolate(t)
	overlay := writeFile(t, t.TempDir(), "overlay.yaml", "store:\n  enabled: false\n")

	_, err := runCmd(t, "--config", overlay, "jobs")
	require.ErrorIs(t, err, ErrStoreDisabled)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(assert.AnError))
	assert.Equal(t, 42, ExitCode(&ExitError{Code: 42}))
	assert.Equal(t, ExitUsage, ExitCode(ErrNoSource))
}
