package filesystem_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sdfm/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFSLink(t *testing.T) {
	fs := filesystem.NewOS()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "nested", "dst")

	require.NoError(t, fs.WriteFile(src, []byte("content"), 0644))
	require.NoError(t, fs.MkdirAll(filepath.Dir(dst), 0755))
	require.NoError(t, fs.Link(src, dst))

	srcInfo, err := fs.Stat(src)
	require.NoError(t, err)
	dstInfo, err := fs.Lstat(dst)
	require.NoError(t, err)
	assert.True(t, os.SameFile(srcInfo, dstInfo))
}

func TestMemoryFS(t *testing.T) {
	fs := filesystem.NewMemory()

	require.NoError(t, fs.MkdirAll("/a/b", 0755))
	require.NoError(t, fs.WriteFile("/a/b/file", []byte("x"), 0644))

	data, err := fs.ReadFile("/a/b/file")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	_, err = fs.ReadFile("/a/b")
	assert.Error(t, err, "reading a directory must fail")

	err = fs.Link("/a/b/file", "/a/b/link")
	assert.True(t, errors.Is(err, errors.ErrUnsupported))

	require.NoError(t, fs.Rename("/a/b/file", "/a/b/moved"))
	_, err = fs.Stat("/a/b/moved")
	assert.NoError(t, err)
}
