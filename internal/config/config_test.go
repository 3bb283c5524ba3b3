package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/launchpad/internal/launcher"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, launcher.ViewGrid, cfg.View())
	assert.Equal(t, launcher.Query{}, cfg.Query())
	assert.Equal(t, ExecutorCommand, cfg.Executor.Mode)
	assert.Equal(t, filepath.Join(cfg.DataDir, "launchpad.log"), cfg.LogFile())
}

func TestDefaultConfig_HonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	cfg := DefaultConfig()
	assert.Equal(t, "/xdg/data/launchpad", cfg.DataDir)
	assert.Equal(t, "/xdg/config/launchpad/agents", cfg.AgentsDir)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("AGENT_HOME", "/srv/agents")
	path := writeConfig(t, `
data_dir: /tmp/launchpad-data
agents_dir: $AGENT_HOME/catalog
default_view: table
sort_by: usage-count
sort_ascending: true
log:
  level: debug
  format: json
executor:
  mode: dry-run
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, "/tmp/launchpad-data", cfg.DataDir)
	assert.Equal(t, "/srv/agents/catalog", cfg.AgentsDir)
	assert.Equal(t, launcher.ViewTable, cfg.View())
	assert.Equal(t, launcher.Query{SortBy: launcher.SortByUsageCount, Ascending: true}, cfg.Query())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ExecutorDryRun, cfg.Executor.Mode)
	assert.True(t, cfg.WatchCatalog, "unset keys keep their defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "default_view: list\n")
	t.Setenv("LAUNCHPAD_DEFAULT_VIEW", "compact")
	t.Setenv("LAUNCHPAD_LOG_LEVEL", "warn")
	t.Setenv("LAUNCHPAD_FAVORITES_ONLY", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, launcher.ViewCompact, cfg.View())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Query().FavoritesOnly)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_SearchPathsFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Source)
	assert.Equal(t, filepath.Join(dir, "launchpad", "agents"), cfg.AgentsDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"view", func(c *Config) { c.DefaultView = "carousel" }},
		{"sort", func(c *Config) { c.SortBy = "colour" }},
		{"session", func(c *Config) { c.SessionType = "forever" }},
		{"level", func(c *Config) { c.Log.Level = "loud" }},
		{"format", func(c *Config) { c.Log.Format = "xml" }},
		{"mode", func(c *Config) { c.Executor.Mode = "docker" }},
		{"data dir", func(c *Config) { c.DataDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
