package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestExpandInputsPassthrough(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "a.mp4"))
	b := touch(t, filepath.Join(dir, "b.mov"))

	got, err := ExpandInputs([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, got)
}

func TestExpandInputsDirectorySorted(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "z.mp4"))
	touch(t, filepath.Join(dir, "a.mkv"))
	touch(t, filepath.Join(dir, "m.webm"))
	touch(t, filepath.Join(dir, "notes.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	got, err := ExpandInputs([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.mkv"),
		filepath.Join(dir, "m.webm"),
		filepath.Join(dir, "z.mp4"),
	}, got)
}

func TestExpandInputsMixedOrderPreserved(t *testing.T) {
	dir := t.TempDir()
	anchor := touch(t, filepath.Join(dir, "anchor.mp4"))
	sub := filepath.Join(dir, "clips")
	require.NoError(t, os.Mkdir(sub, 0o755))
	c1 := touch(t, filepath.Join(sub, "01.mp4"))
	c2 := touch(t, filepath.Join(sub, "02.mp4"))

	got, err := ExpandInputs([]string{anchor, sub})
	require.NoError(t, err)
	assert.Equal(t, []string{anchor, c1, c2}, got)
}

func TestExpandInputsMissing(t *testing.T) {
	_, err := ExpandInputs([]string{filepath.Join(t.TempDir(), "nope.mp4")})
	assert.Error(t, err)
}

func TestExpandInputsEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "readme.md"))
	_, err := ExpandInputs([]string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no media files")
}
