package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWithNoOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, 1024, cfg.MaxCallDepth)
	require.False(t, cfg.NoColor)
	require.False(t, cfg.Trace)
}

func TestLoadConfigYamlOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yamlContent := "no_color: true\nmax_call_depth: 256\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".loxrc.yaml"), []byte(yamlContent), 0o644))

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.True(t, cfg.NoColor)
	require.Equal(t, 256, cfg.MaxCallDepth)
}

func TestLoadConfigEnvOverridesYaml(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yamlContent := "max_call_depth: 256\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".loxrc.yaml"), []byte(yamlContent), 0o644))

	t.Setenv("LOX_MAX_CALL_DEPTH", "64")

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, 64, cfg.MaxCallDepth)
}

// chdir switches into dir for the duration of the test and restores the
// previous working directory afterward.
func chdir(t *testing.T, dir string) {
	t.Helper()

	previous, err := os.Getwd()
	require.NoError(t, err)

	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(previous)
	})
}
