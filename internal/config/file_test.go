package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/moshmaster/internal/policy"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mosh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestApplyFile(t *testing.T) {
	path := writeConfigFile(t, `
gop: 300
quality: 18
width: 640
fps: "24000/1001"
codec: libx265
crf: 24
preset: slow
drop_policy: boundaries_only
postcut: 4
hold_sec: 0.25
seed: 99
audio_mode: reencode
jobs: 2
`)

	cfg := DefaultConfig()
	require.NoError(t, ApplyFile(&cfg, path))

	assert.Equal(t, 300, cfg.GOP)
	assert.Equal(t, 18, cfg.Quality)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, "24000/1001", cfg.FPS)
	assert.Equal(t, "libx265", cfg.OutputCodec)
	assert.Equal(t, 24, cfg.DeliveryCRF)
	assert.Equal(t, "slow", cfg.Preset)
	assert.Equal(t, policy.DropBoundariesOnly, cfg.DropPolicy)
	assert.Equal(t, 4, cfg.PostcutFixed)
	assert.Equal(t, 0.25, cfg.HoldSec)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, AudioReencode, cfg.AudioMode)
	assert.Equal(t, 2, cfg.Jobs)
}

func TestApplyFilePartialLeavesDefaults(t *testing.T) {
	path := writeConfigFile(t, "quality: 22\n")
	cfg := DefaultConfig()
	require.NoError(t, ApplyFile(&cfg, path))
	assert.Equal(t, 22, cfg.Quality)
	assert.Equal(t, 600, cfg.GOP)
	assert.Equal(t, "libx264", cfg.OutputCodec)
}

func TestApplyFileEmptyOK(t *testing.T) {
	path := writeConfigFile(t, "")
	cfg := DefaultConfig()
	assert.NoError(t, ApplyFile(&cfg, path))
}

func TestApplyFileUnknownKeyRejected(t *testing.T) {
	path := writeConfigFile(t, "qualty: 22\n")
	cfg := DefaultConfig()
	assert.Error(t, ApplyFile(&cfg, path))
}

func TestApplyFileBadEnum(t *testing.T) {
	path := writeConfigFile(t, "drop_policy: maybe\n")
	cfg := DefaultConfig()
	assert.Error(t, ApplyFile(&cfg, path))
}

func TestApplyFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, ApplyFile(&cfg, filepath.Join(t.TempDir(), "nope.yaml")))
}
