package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Inference.Provider)
	assert.Equal(t, 5.0, cfg.Clustering.GapMinutes)
	assert.Equal(t, 2, cfg.Clustering.MinEvents)
	assert.Equal(t, 75.0, cfg.HourlyRateUSD)
	assert.Equal(t, []string{"13:00", "18:00", "23:00"}, cfg.Schedule.AnalyzeTimes)
	assert.True(t, cfg.Schedule.BriefWeekdaysOnly)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
clustering:
  gap_minutes: 10
  min_events: 3
inference:
  provider: ollama
  model: llama3.1
hourly_rate_usd: 120
data_dir: ` + dir + `
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Clustering.GapMinutes)
	assert.Equal(t, 3, cfg.Clustering.MinEvents)
	assert.Equal(t, "ollama", cfg.Inference.Provider)
	assert.Equal(t, "llama3.1", cfg.Inference.Model)
	assert.Equal(t, 120.0, cfg.HourlyRateUSD)
	assert.Equal(t, dir, cfg.DataDir)
	// File overrides must not clobber untouched defaults.
	assert.Equal(t, "07:00", cfg.Schedule.MeasureTime)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inference:\n  provider: bedrock\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bedrock")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WORKFLOWX_CLUSTERING_GAP_MINUTES", "8")
	t.Setenv("WORKFLOWX_DATA_DIR", "/tmp/wfx-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8.0, cfg.Clustering.GapMinutes)
	assert.Equal(t, "/tmp/wfx-test", cfg.DataDir)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".workflowx"), expandPath("~/.workflowx"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
}
