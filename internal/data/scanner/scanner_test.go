package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
}

func TestFileScannerScanEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileScannerScanNonExistentSource(t *testing.T) {
	files, err := NewFileScanner("/path/that/does/not/exist").Scan()

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileScannerScanNestedAndMixed(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.jsonl"))
	touch(t, filepath.Join(dir, "a.JSONL"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "2024", "03", "march.jsonl"))

	files, err := NewFileScanner(dir).Scan()

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "2024", "03", "march.jsonl"),
		filepath.Join(dir, "a.JSONL"),
		filepath.Join(dir, "b.jsonl"),
	}, files)
}

func TestFileScannerSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	touch(t, path)

	files, err := NewFileScanner(path).Scan()

	require.NoError(t, err)
	assert.Equal(t, []string{path}, files, "an explicit file is used whatever its extension")
}

func TestFileScannerDirs(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "sub", "x.jsonl"))

	dirs, err := NewFileScanner(dir).Dirs()
	require.NoError(t, err)
	assert.Equal(t, []string{dir, filepath.Join(dir, "sub")}, dirs)

	file := filepath.Join(dir, "sub", "x.jsonl")
	dirs, err = NewFileScanner(file).Dirs()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sub")}, dirs)

	missing := filepath.Join(dir, "later.jsonl")
	dirs, err = NewFileScanner(missing).Dirs()
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, dirs)
}

func TestIsEntryFile(t *testing.T) {
	assert.True(t, IsEntryFile("a.jsonl"))
	assert.True(t, IsEntryFile("/x/A.JSONL"))
	assert.False(t, IsEntryFile("a.json"))
	assert.False(t, IsEntryFile("jsonl"))
}
