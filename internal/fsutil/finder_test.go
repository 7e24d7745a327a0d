package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.hcl", "a/z.hcl", "a/notes.txt", "c.hcl.bak", "a/b/y.hcl"} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}

	got, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "b", "y.hcl"),
		filepath.Join(root, "a", "z.hcl"),
		filepath.Join(root, "b.hcl"),
	}, got)
}

func TestFindFilesByExtensionErrors(t *testing.T) {
	_, err := FindFilesByExtension(t.TempDir(), "")
	assert.EqualError(t, err, "extension must not be empty")

	_, err = FindFilesByExtension(filepath.Join(t.TempDir(), "missing"), ".hcl")
	assert.Error(t, err)
}
