package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceAtomically(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "staged.avi")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	dst := filepath.Join(dir, "out", "final.avi")
	require.NoError(t, placeAtomically(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestPlaceAtomicallyOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "staged.avi")
	dst := filepath.Join(dir, "final.avi")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

	require.NoError(t, placeAtomically(src, dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestPlaceAtomicallyMissingSourceLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "final.avi")

	err := placeAtomically(filepath.Join(dir, "missing.avi"), dst)
	var fe *FinalizationError
	require.ErrorAs(t, err, &fe)

	_, err = os.Stat(dst)
	assert.True(t, os.IsNotExist(err), "failed placement must not create the output path")
}

func TestRunStatsDropShare(t *testing.T) {
	assert.Equal(t, float64(0), RunStats{}.DropShare())
	s := RunStats{FramesTotal: 200, FramesDropped: 50}
	assert.InDelta(t, 0.25, s.DropShare(), 1e-9)
}
