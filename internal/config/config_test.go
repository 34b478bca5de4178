package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Sim.TPS)
	assert.Equal(t, 1.0, cfg.Sim.DT)
	assert.Equal(t, int64(1), cfg.Sim.Seed)
	assert.Equal(t, 100, cfg.Sim.PruneLimit)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "skirmish", cfg.Scenario)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Sim.TPS)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starsense.yaml")
	content := `
sim:
  seed: 99
  pruneLimit: 250
log:
  level: debug
  format: json
scenario: fleet
templates: ships.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Sim.Seed)
	assert.Equal(t, 250, cfg.Sim.PruneLimit)
	assert.Equal(t, 60, cfg.Sim.TPS)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "fleet", cfg.Scenario)
	assert.Equal(t, "ships.yaml", cfg.Templates)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starsense.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  seed: 5\n"), 0o600))
	t.Setenv("STARSENSE_SIM_SEED", "77")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(77), cfg.Sim.Seed)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim: [unclosed\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sim:\n  dt: 0\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sim.dt")
}
