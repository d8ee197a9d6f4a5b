package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.h")

	t.Run("creates file", func(t *testing.T) {
		require.NoError(t, WriteFileAtomic(path, []byte("first"), 0644))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "first", string(data))
	})

	t.Run("replaces file", func(t *testing.T) {
		require.NoError(t, WriteFileAtomic(path, []byte("second"), 0644))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})

	t.Run("sets permissions", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permissions are not enforced on windows")
		}
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "hello.h", entries[0].Name())
	})
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "hello.h")
	assert.Error(t, WriteFileAtomic(path, []byte("x"), 0644))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()

	exists, err := Exists(dir)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = Exists(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.False(t, exists)
}
