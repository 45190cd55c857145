package fs

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimblecast/appfs/internal/pathname"
)

func makeTree(t *testing.T, u *UnixFS, root pathname.Pathname) map[string][]byte {
	t.Helper()
	require.NoError(t, u.EnsureFolder(root))
	require.NoError(t, u.EnsureFolder(pathname.NewFolder(root.String()+"sub")))
	require.NoError(t, u.EnsureFolder(pathname.NewFolder(root.String()+"sub/deep")))

	files := map[string][]byte{
		"top.txt":        []byte("top"),
		"sub/mid.bin":    make([]byte, 2*copyChunkSize),
		"sub/deep/leaf":  []byte("leaf"),
		"sub/deep/empty": nil,
	}
	for rel, data := range files {
		require.NoError(t, os.WriteFile(root.String()+rel, data, 0o644))
	}
	return files
}

func TestCopyFolderRecursive(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	src := pathname.NewFolder(dir + "/src")
	dst := pathname.NewFolder(dir + "/dst")
	files := makeTree(t, u, src)

	require.NoError(t, u.CopyFolderRecursive(src, dst))

	for rel, want := range files {
		got, err := os.ReadFile(dst.String() + rel)
		require.NoError(t, err, rel)
		assert.Equal(t, want, got, rel)
	}
	// Source untouched.
	assert.True(t, u.IsFolder(src))
}

func TestCopyFolderRecursiveMissingSource(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	err := u.CopyFolderRecursive(
		pathname.NewFolder(dir+"/absent"),
		pathname.NewFolder(dir+"/dst"),
	)
	assert.True(t, errors.Is(err, ErrNotFolder))
}

func TestDeleteFolderAndContents(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	root := pathname.NewFolder(dir + "/tree")
	makeTree(t, u, root)

	require.NoError(t, u.DeleteFolderAndContents(root))
	assert.True(t, u.IsAbsent(root))
}

func TestDeleteFolderAndContentsPrecondition(t *testing.T) {
	u := newTestFS()
	err := u.DeleteFolderAndContents(pathname.NewFolder(t.TempDir() + "/absent"))
	assert.True(t, errors.Is(err, ErrNotFolder))
}

func TestCrossDeviceFallbackPath(t *testing.T) {
	// EXDEV cannot be forced inside one temp filesystem; exercise the
	// fallback pair directly so the copy+delete sequence stays covered.
	u := newTestFS()
	dir := t.TempDir()
	src := pathname.New(dir + "/src")
	dst := pathname.New(dir + "/dst")
	require.NoError(t, os.WriteFile(src.String(), []byte("cross"), 0o644))

	require.NoError(t, u.CopyFile(src, dst))
	require.NoError(t, u.DeleteFile(src))

	assert.True(t, u.IsAbsent(src))
	assert.True(t, u.IsFile(dst))
}
