package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadReadsCwdConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "no_color: true\nmax_steps: 5000\nwatch: false\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, 5000, cfg.MaxSteps)
	assert.False(t, cfg.Watch)
}

func TestLoadMalformedFileIsError(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "no_color: [this is not a bool\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func writeConfig(t *testing.T, dir, contents string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644)
	require.NoError(t, err)
}
