package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/datescrub/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Atomic Output
// The cleaned archive only appears at its final path once it is complete

func TestAtomicFile_CommitMovesTempToFinal(t *testing.T) {
	t.Parallel()

	// Given an atomic file in an empty directory
	dir := t.TempDir()
	path := filepath.Join(dir, "out.zip")
	f, err := fs.CreateAtomic(path)
	require.NoError(t, err)

	// When I write to it
	_, err = f.WriteString("content")
	require.NoError(t, err)

	// Then the final path does not exist yet
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "final file should not exist until commit")

	// When I commit
	require.NoError(t, f.Commit())

	// Then the final path holds the content
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))

	// And no temporary file is left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, path, f.Path())
}

func TestAtomicFile_CommitReplacesExistingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.zip")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	f, err := fs.CreateAtomic(path)
	require.NoError(t, err)
	_, err = f.WriteString("new")
	require.NoError(t, err)
	require.NoError(t, f.Commit())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestAtomicFile_AbortRemovesTempFile(t *testing.T) {
	t.Parallel()

	// Given an atomic file with partial content
	dir := t.TempDir()
	path := filepath.Join(dir, "out.zip")
	f, err := fs.CreateAtomic(path)
	require.NoError(t, err)
	_, err = f.WriteString("partial")
	require.NoError(t, err)

	// When I abort
	require.NoError(t, f.Abort())

	// Then the directory is empty
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAtomicFile_AbortAfterCommitIsNoop(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.zip")
	f, err := fs.CreateAtomic(path)
	require.NoError(t, err)
	require.NoError(t, f.Commit())

	require.NoError(t, f.Abort())

	_, err = os.Stat(path)
	assert.NoError(t, err, "committed file should survive a deferred abort")
}

func TestCreateAtomic_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := fs.CreateAtomic(filepath.Join(t.TempDir(), "missing", "out.zip"))

	assert.Error(t, err)
}

func TestDigester_DigestFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	got, err := fs.NewDigester().DigestFile(path)

	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", got)
}

func TestDigester_DigestFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := fs.NewDigester().DigestFile(filepath.Join(t.TempDir(), "missing"))

	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join("exports", "facebook.zip")

	t.Run("defaults to a sibling of the input", func(t *testing.T) {
		t.Parallel()

		got := fs.OutputPath(input, "", "_CLEANED")

		assert.Equal(t, filepath.Join("exports", "facebook_CLEANED.zip"), got)
	})

	t.Run("places the file inside an existing directory", func(t *testing.T) {
		t.Parallel()

		got := fs.OutputPath(input, dir, "_CLEANED")

		assert.Equal(t, filepath.Join(dir, "facebook_CLEANED.zip"), got)
	})

	t.Run("uses an explicit file path as is", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(dir, "clean.zip")

		assert.Equal(t, out, fs.OutputPath(input, out, "_CLEANED"))
	})

	t.Run("handles inputs without extension", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "export_CLEANED", fs.OutputPath("export", "", "_CLEANED"))
	})
}

func TestLogPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("out", "facebook_CLEANED.log"), fs.LogPath(filepath.Join("out", "facebook_CLEANED.zip")))
	assert.Equal(t, "archive.log", fs.LogPath("archive"))
}
