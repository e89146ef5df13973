package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSymlink checks that path is a symlink resolving to dest
func AssertSymlink(t *testing.T, path, dest string) {
	t.Helper()

	info, err := os.Lstat(path)
	require.NoError(t, err, "lstat %s", path)
	require.True(t, info.Mode()&os.ModeSymlink != 0, "%s is not a symlink", path)

	got, err := os.Readlink(path)
	require.NoError(t, err)
	if !filepath.IsAbs(got) {
		got = filepath.Join(filepath.Dir(path), got)
	}
	assert.Equal(t, filepath.Clean(dest), filepath.Clean(got), "link target of %s", path)
}

// AssertRegularFile checks that path is a regular file holding content
func AssertRegularFile(t *testing.T, path, content string) {
	t.Helper()

	info, err := os.Lstat(path)
	require.NoError(t, err, "lstat %s", path)
	require.True(t, info.Mode().IsRegular(), "%s is not a regular file", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

// AssertNotExists checks that nothing exists at path, not even a broken link
func AssertNotExists(t *testing.T, path string) {
	t.Helper()

	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "%s should not exist", path)
}
