package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	verbose, configPath, outDir, backend, registryDSN, dpi = false, "", "", "gonum", "", 0
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "echemplot "+version+"\n", out)
}

func TestRunChargeJob(t *testing.T) {
	var data, out = t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(data, "CA_pH1_KReO4.txt"),
		[]byte("Time (s)\tWE(1).Current (A)\tWE(1).Charge (C)\n0\t0.001\t0\n60\t0.002\t0.1\n"), 0o644))

	var config = filepath.Join(t.TempDir(), "echemplot.yaml")
	require.NoError(t, os.WriteFile(config, []byte("ca:\n  output: ca.png\n  width: 3\n  height: 2\n"), 0o644))

	_, err := execute(t, "ca", data, "--config", config, "--out-dir", out, "--dpi", "20")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(out, "ca.png"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunMissingDir(t *testing.T) {
	_, err := execute(t, "ca-density", filepath.Join(t.TempDir(), "missing"), "--out-dir", t.TempDir())
	assert.ErrorContains(t, err, "data directory not found")
}

func TestUnknownBackend(t *testing.T) {
	_, err := execute(t, "lsv", t.TempDir(), "--backend", "matplotlib")
	assert.ErrorContains(t, err, "unknown backend")
}

func TestDataDir(t *testing.T) {
	resetFlags()
	a, err := setup(t.Context())
	require.NoError(t, err)
	defer a.close()

	assert.Equal(t, "CAs/", dataDir(a.cfg, "ca"))
	assert.Equal(t, "EIS/", dataDir(a.cfg, "eis"))
	assert.Equal(t, "LSV/", dataDir(a.cfg, "lsv"))

	jobs, err := a.jobs([]string{"eis", "lsv"}, "elsewhere")
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, "CAs/", a.cfg.Charge.Dir, "overrides apply to a copy")

	_, err = a.jobs([]string{"cv"}, "")
	assert.Error(t, err)
}
