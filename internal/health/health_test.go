package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/launchpad/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(root, "data")
	cfg.AgentsDir = filepath.Join(root, "agents")
	return cfg
}

func byName(statuses []Status) map[string]Status {
	m := make(map[string]Status, len(statuses))
	for _, s := range statuses {
		m[s.Name] = s
	}
	return m
}

func TestCheck_FreshInstallOnlyWarns(t *testing.T) {
	cfg := testConfig(t)
	statuses := Check(context.Background(), cfg)
	require.Len(t, statuses, 5)
	assert.True(t, Healthy(statuses))

	m := byName(statuses)
	assert.True(t, m["config"].OK)
	assert.True(t, m["data directory"].Warning)
	assert.True(t, m["agents directory"].Warning)
	_, err := os.Stat(cfg.DataDir)
	assert.True(t, os.IsNotExist(err), "doctor must not create the data directory")
}

func TestCheck_MissingCommandFails(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.AgentsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.AgentsDir, "ghost.yaml"),
		[]byte("name: ghost\ncommand: definitely-not-a-real-binary-xyz\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.AgentsDir, "shell.yaml"),
		[]byte("name: shell\ncommand: sh\n"), 0644))

	statuses := Check(context.Background(), cfg)
	assert.False(t, Healthy(statuses))
	m := byName(statuses)
	assert.Contains(t, m["agent commands"].Error, "ghost")
	assert.NotContains(t, m["agent commands"].Error, "shell")

	cfg.Executor.Mode = config.ExecutorDryRun
	assert.True(t, byName(Check(context.Background(), cfg))["agent commands"].OK)
}

func TestCheck_CorruptStoreWarns(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, "stats.json"), []byte("{"), 0644))

	m := byName(Check(context.Background(), cfg))
	assert.True(t, m["data directory"].OK)
	assert.True(t, m["store"].Warning)
	assert.Contains(t, m["store"].Detail, "stats.json")
}

func TestCheck_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	statuses := Check(ctx, testConfig(t))
	assert.False(t, Healthy(statuses))
}
