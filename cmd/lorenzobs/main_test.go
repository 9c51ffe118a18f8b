package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/lorenzobs/internal/config"
	"github.com/san-kum/lorenzobs/internal/storage"
)

func resolveWith(t *testing.T, args ...string) (*simFlags, *cobra.Command) {
	t.Helper()
	var flags simFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse(args))
	return &flags, cmd
}

func TestResolvePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("noise_std: 0.3\nsteps: 77\n"), 0644))

	flags, cmd := resolveWith(t, "--preset", "high_noise", "--config", path, "--steps", "12")
	cfg, err := flags.resolve(cmd)
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.NoiseStd, "config file overrides preset")
	assert.Equal(t, 12, cfg.Steps, "flag overrides config file")
	assert.Equal(t, uint64(42), *cfg.Seed)
}

func TestResolveConfigFileKeepsPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("noise_std: 0.3\n"), 0644))

	flags, cmd := resolveWith(t, "--preset", "high_noise", "--config", path)
	cfg, err := flags.resolve(cmd)
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.NoiseStd)
	assert.Equal(t, 3000, cfg.Steps, "preset value not named in the file survives")
	assert.Equal(t, 5.0, config.GetPreset("high_noise").NoiseStd, "preset table untouched")
}

func TestResolvePresetOnly(t *testing.T) {
	flags, cmd := resolveWith(t, "--preset", "noiseless", "--seed", "9")
	cfg, err := flags.resolve(cmd)
	require.NoError(t, err)
	assert.Zero(t, cfg.NoiseStd)
	assert.Equal(t, uint64(9), *cfg.Seed)
}

func TestResolveRejectsBadInput(t *testing.T) {
	flags, cmd := resolveWith(t, "--preset", "nope")
	_, err := flags.resolve(cmd)
	assert.Error(t, err)

	flags, cmd = resolveWith(t, "--beta", "-2")
	_, err = flags.resolve(cmd)
	assert.Error(t, err)
}

func TestRunStoresRun(t *testing.T) {
	dir := t.TempDir()
	root := newRootCmd()
	root.SetArgs([]string{"run", "--data", dir, "--steps", "25", "--log-level", "error"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	runs, err := storage.New(dir).List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 25, runs[0].StepsTaken)

	root = newRootCmd()
	root.SetArgs([]string{"export-csv", runs[0].ID, "--data", dir})
	require.NoError(t, root.ExecuteContext(context.Background()))
}

func TestParseValues(t *testing.T) {
	vs, err := parseValues("1, 2.5,3")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, 3}, vs)

	_, err = parseValues("1,x")
	assert.Error(t, err)
}
