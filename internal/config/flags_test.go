package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/moshmaster/internal/policy"
)

func TestParseFlagsPositionals(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseFlags(&cfg, []string{"a.mp4", "b.mp4", "c.mp4", "out.avi"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp4", "b.mp4", "c.mp4"}, cfg.Inputs)
	assert.Equal(t, "out.avi", cfg.Output)
}

func TestParseFlagsTooFewPositionals(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, ParseFlags(&cfg, []string{"only.mp4"}))
	cfg = DefaultConfig()
	assert.Error(t, ParseFlags(&cfg, nil))
}

func TestParseFlagsMoshOptions(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseFlags(&cfg, []string{
		"--drop", "boundaries_only",
		"--postcut", "12",
		"--hold-sec", "0.5",
		"--seed", "42",
		"-g", "300",
		"-q", "20",
		"--fps", "30000/1001",
		"in.mp4", "out.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, policy.DropBoundariesOnly, cfg.DropPolicy)
	assert.Equal(t, 12, cfg.PostcutFixed)
	assert.Equal(t, 0.5, cfg.HoldSec)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 300, cfg.GOP)
	assert.Equal(t, 20, cfg.Quality)
	assert.Equal(t, "30000/1001", cfg.FPS)
}

func TestParseFlagsInvalidEnum(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, ParseFlags(&cfg, []string{"--drop", "everything", "in.mp4", "out.mp4"}))

	cfg = DefaultConfig()
	assert.Error(t, ParseFlags(&cfg, []string{"--audio", "blast", "in.mp4", "out.mp4"}))
}

func TestParseFlagsColorOverrides(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"--no-color", "in.mp4", "out.mp4"}))
	assert.Equal(t, ColorNever, cfg.ColorMode)

	cfg = DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"--color", "in.mp4", "out.mp4"}))
	assert.Equal(t, ColorAlways, cfg.ColorMode)
}

func TestParseFlagsCheckNeedsNoPositionals(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"--check"}))
	assert.True(t, cfg.CheckOnly)
}

func TestParseFlagsInspectPositionals(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"--inspect", "in.mp4"}))
	assert.Equal(t, []string{"in.mp4"}, cfg.Inputs)
	assert.Empty(t, cfg.Output)

	cfg = DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"--inspect", "in.mp4", "frames.csv"}))
	assert.Equal(t, "frames.csv", cfg.Output)

	cfg = DefaultConfig()
	assert.Error(t, ParseFlags(&cfg, []string{"--inspect"}))
}

func TestParseFlagsConfigFileFlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mosh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gop: 100\nquality: 25\n"), 0o644))

	// File value applies when no flag overrides it.
	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"--config", path, "in.mp4", "out.mp4"}))
	assert.Equal(t, 100, cfg.GOP)
	assert.Equal(t, 25, cfg.Quality)

	// A flag beats the file for the same knob.
	cfg = DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"--config", path, "--gop", "250", "in.mp4", "out.mp4"}))
	assert.Equal(t, 250, cfg.GOP)
	assert.Equal(t, 25, cfg.Quality)
}

func TestDropPolicyValue(t *testing.T) {
	var p policy.DropPolicy
	v := dropPolicyValue{&p}
	require.NoError(t, v.Set("ALL_AFTER_FIRST"))
	assert.Equal(t, policy.DropAllAfterFirst, p)
	require.NoError(t, v.Set("boundaries_only"))
	assert.Equal(t, policy.DropBoundariesOnly, p)
	assert.Equal(t, "boundaries_only", v.String())
	assert.Error(t, v.Set("none"))
}

func TestAudioModeValue(t *testing.T) {
	var m AudioMode
	v := audioModeValue{&m}
	require.NoError(t, v.Set("re-encode"))
	assert.Equal(t, AudioReencode, m)
	require.NoError(t, v.Set("copy"))
	assert.Equal(t, AudioCopy, m)
	assert.Error(t, v.Set("mute"))
}
