package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
aligner:
  path_win_len: 12
  max_paths: 256
  event_probs: "0.4_50-0.6"
tracker:
  min_aln_len: 40
event_buffer: 128
`))
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Aligner.PathWinLen)
	assert.Equal(t, 256, cfg.Aligner.MaxPaths)
	assert.Equal(t, "0.4_50-0.6", cfg.Aligner.EventProbs)
	assert.Equal(t, 40, cfg.Tracker.MinAlnLen)
	assert.Equal(t, 128, cfg.EventBuffer)

	// Untouched keys keep their defaults.
	assert.Equal(t, Default().Aligner.MaxConsecStay, cfg.Aligner.MaxConsecStay)
	assert.InDelta(t, Default().Tracker.MinConfRatio, cfg.Tracker.MinConfRatio, 1e-6)
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "aligner:\n  path_window: 12\n"))
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "aligner:\n  max_paths: 0\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "aligner:\n  event_probs: \"garbage\"\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "event_buffer: 0\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
