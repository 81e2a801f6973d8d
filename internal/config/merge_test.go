package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/resinhook/internal/config"
)

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShallowMergeYAML_ReplacesWholeSection(t *testing.T) {
	target := config.Default()
	target.Export.HeadersMap = map[string]string{"old": "Old"}

	overlay := writeOverlay(t, `
export:
  chunk_size: 500
  headers_map:
    txnId: 交易流水号
`)
	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, 500, target.Export.ChunkSize)
	assert.Equal(t, map[string]string{"txnId": "交易流水号"}, target.Export.HeadersMap)
	// Fields absent from the replaced section are zeroed.
	assert.Empty(t, target.Export.OutDir)
	// Other sections are untouched.
	assert.Equal(t, config.DefaultServerAddr, target.Server.Addr)
}

func TestShallowMergeYAML_HeaderTreeAndDurations(t *testing.T) {
	target := config.Default()
	overlay := writeOverlay(t, `
export:
  chunk_size: 100
  headers:
    - label: Info
      children:
        - {label: Name, key: name}
        - {label: Age, key: age}
    - {label: Phone, key: phone}
server:
  addr: ":9000"
  shutdown_timeout: 2s
`)
	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	require.Len(t, target.Export.Headers, 2)
	assert.Equal(t, "Info", target.Export.Headers[0].Label)
	assert.Len(t, target.Export.Headers[0].Children, 2)
	assert.Equal(t, ":9000", target.Server.Addr)
	assert.Equal(t, 2*time.Second, target.Server.ShutdownTimeout)
}

func TestShallowMergeYAML_IgnoresUnknownAndEmpty(t *testing.T) {
	target := config.Default()
	require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, "mystery: 1\n")))
	require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, "# nothing\n")))
	assert.Equal(t, config.Default().Export, target.Export)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	require.Error(t, config.ShallowMergeYAML(nil, "x"))
	require.Error(t, config.ShallowMergeYAML(config.Default(), filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, config.ShallowMergeYAML(config.Default(), writeOverlay(t, "window: [1, 2")))
	require.Error(t, config.ShallowMergeYAML(config.Default(), writeOverlay(t, "window: notamap")))
}
