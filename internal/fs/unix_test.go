package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimblecast/appfs/internal/pathname"
	"github.com/nimblecast/appfs/internal/stream"
)

func newTestFS() *UnixFS {
	return NewUnix("appfs-test", "nimblecast", nil)
}

func writeFile(t *testing.T, path string, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return data
}

func TestEnsureFolderRequiresSeparator(t *testing.T) {
	u := newTestFS()
	err := u.EnsureFolder(pathname.New(filepath.Join(t.TempDir(), "sub")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFolderPath))

	assert.True(t, errors.Is(u.EnsureFolder(pathname.Pathname{}), ErrNotFolderPath))
}

func TestEnsureFolderCreatesNested(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	nested := pathname.NewFolder(dir + "/a/b/c")

	require.NoError(t, u.EnsureFolder(nested))
	assert.True(t, u.IsFolder(nested))

	// Idempotent on an existing directory.
	require.NoError(t, u.EnsureFolder(nested))
	assert.True(t, u.IsFolder(nested))
}

func TestEnsureFolderFailsOnFileNode(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	file := filepath.Join(dir, "occupied")
	writeFile(t, file, 1)

	assert.Error(t, u.EnsureFolder(pathname.NewFolder(file)))
}

func TestClassification(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	writeFile(t, file, 3)

	assert.True(t, u.IsFolder(pathname.NewFolder(dir)))
	assert.False(t, u.IsFile(pathname.NewFolder(dir)))

	assert.True(t, u.IsFile(pathname.New(file)))
	assert.False(t, u.IsFolder(pathname.New(file)))

	absent := pathname.New(filepath.Join(dir, "missing"))
	assert.True(t, u.IsAbsent(absent))
	assert.False(t, u.IsFile(absent))
	assert.False(t, u.IsFolder(absent))

	// Symlinks classify as files.
	link := filepath.Join(dir, "ln")
	require.NoError(t, os.Symlink(file, link))
	assert.True(t, u.IsFile(pathname.New(link)))
}

func TestIsAbsentBlockedAncestor(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	writeFile(t, file, 1)

	// A path under a file node is unreachable, not absent.
	assert.False(t, u.IsAbsent(pathname.New(file+"/child")))
}

func TestDeleteFile(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	writeFile(t, file, 1)

	require.NoError(t, u.DeleteFile(pathname.New(file)))
	assert.True(t, u.IsAbsent(pathname.New(file)))

	// Precondition: only files can be deleted.
	err := u.DeleteFile(pathname.NewFolder(dir))
	assert.True(t, errors.Is(err, ErrNotFile))
}

func TestDeleteEmptyFolder(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	sub := pathname.NewFolder(dir + "/sub")
	require.NoError(t, u.EnsureFolder(sub))

	require.NoError(t, u.DeleteEmptyFolder(sub))
	assert.True(t, u.IsAbsent(sub))

	file := filepath.Join(dir, "f")
	writeFile(t, file, 1)
	err := u.DeleteEmptyFolder(pathname.NewFolder(file))
	assert.True(t, errors.Is(err, ErrNotFolder))
}

func TestCopyFileContentPreserved(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()

	// Empty, sub-chunk and multi-chunk payloads.
	for _, size := range []int{0, 100, 3*copyChunkSize + 17} {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			src := filepath.Join(dir, fmt.Sprintf("src_%d", size))
			dst := filepath.Join(dir, fmt.Sprintf("dst_%d", size))
			want := writeFile(t, src, size)

			require.NoError(t, u.CopyFile(pathname.New(src), pathname.New(dst)))

			got, err := os.ReadFile(dst)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestCopyFileWriteErrorPropagated(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	u := newTestFS()
	src := filepath.Join(t.TempDir(), "src")
	writeFile(t, src, 2*copyChunkSize)

	err := u.CopyFile(pathname.New(src), pathname.New("/dev/full"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write")
}

func TestCopyFileMissingSource(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	err := u.CopyFile(
		pathname.New(filepath.Join(dir, "absent")),
		pathname.New(filepath.Join(dir, "dst")),
	)
	assert.Error(t, err)
	assert.True(t, u.IsAbsent(pathname.New(filepath.Join(dir, "dst"))))
}

func TestMoveFile(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "moved")
	want := writeFile(t, src, 2048)

	require.NoError(t, u.MoveFile(pathname.New(src), pathname.New(dst)))

	assert.True(t, u.IsAbsent(pathname.New(src)))
	assert.True(t, u.IsFile(pathname.New(dst)))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMoveFilePrecondition(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	err := u.MoveFile(
		pathname.New(filepath.Join(dir, "absent")),
		pathname.New(filepath.Join(dir, "dst")),
	)
	assert.True(t, errors.Is(err, ErrNotFile))
}

func TestMoveFolder(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()
	src := pathname.NewFolder(dir + "/src")
	require.NoError(t, u.EnsureFolder(src))
	writeFile(t, src.String()+"inner", 10)

	dst := pathname.NewFolder(dir + "/dst")
	require.NoError(t, u.MoveFolder(src, dst))

	assert.True(t, u.IsAbsent(src))
	assert.True(t, u.IsFolder(dst))
	assert.True(t, u.IsFile(pathname.New(dst.String()+"inner")))
}

func TestGetFileSize(t *testing.T) {
	u := newTestFS()
	file := filepath.Join(t.TempDir(), "f")
	writeFile(t, file, 537)

	size, err := u.GetFileSize(pathname.New(file))
	require.NoError(t, err)
	assert.Equal(t, int64(537), size)

	_, err = u.GetFileSize(pathname.New(file + ".missing"))
	assert.Error(t, err)
}

func TestGetFileTime(t *testing.T) {
	u := newTestFS()
	file := filepath.Join(t.TempDir(), "f")
	writeFile(t, file, 1)
	p := pathname.New(file)

	for _, which := range []TimeKind{TimeCreated, TimeModified, TimeAccessed} {
		ts, err := u.GetFileTime(p, which)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), ts, time.Minute)
	}

	_, err := u.GetFileTime(p, TimeKind(99))
	assert.True(t, errors.Is(err, ErrUnknownTimeKind))
}

func TestGetTemporaryFolderEnvChain(t *testing.T) {
	u := newTestFS()

	t.Setenv("TMPDIR", "/tmp/appfs-tmpdir")
	t.Setenv("TMP", "/tmp/appfs-tmp")
	p, err := u.GetTemporaryFolder(false, "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/appfs-tmpdir/", p.String())

	t.Setenv("TMPDIR", "")
	p, err = u.GetTemporaryFolder(false, "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/appfs-tmp/", p.String())

	t.Setenv("TMP", "")
	p, err = u.GetTemporaryFolder(false, "")
	require.NoError(t, err)
	assert.Equal(t, tempRoot(), p.String())
}

func TestGetTemporaryFolderAppendAndCreate(t *testing.T) {
	u := newTestFS()
	t.Setenv("TMPDIR", t.TempDir())

	p, err := u.GetTemporaryFolder(true, "scratch")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p.String(), "/scratch/"))
	assert.True(t, u.IsFolder(p))
}

func TestIsTemporaryPath(t *testing.T) {
	u := newTestFS()

	t.Setenv("TMPDIR", "")
	t.Setenv("TMP", "")
	p, err := u.GetTemporaryFolder(false, "")
	require.NoError(t, err)
	assert.True(t, u.IsTemporaryPath(p))

	assert.True(t, u.IsTemporaryPath(pathname.New("/tmp/session.lock")))
	assert.True(t, u.IsTemporaryPath(pathname.New("/var/tmp/x")))
	assert.False(t, u.IsTemporaryPath(pathname.New("/home/user/doc.txt")))
	assert.False(t, u.IsTemporaryPath(pathname.New("/tmpfile")))
}

func TestGetAppTempFolderStable(t *testing.T) {
	u := newTestFS()
	t.Setenv("TMPDIR", t.TempDir())

	first, err := u.GetAppTempFolder()
	require.NoError(t, err)
	second, err := u.GetAppTempFolder()
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())
	assert.True(t, u.IsFolder(first))
	assert.Contains(t, first.String(), "appfs-test-")
	assert.Contains(t, first.String(), fmt.Sprintf("-%d-", os.Getpid()))
}

func TestGetAppTempFolderRetriesAfterFailure(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()

	// A file node as the temp root makes folder creation fail; the failure
	// must not be cached.
	blocked := filepath.Join(dir, "blocked")
	writeFile(t, blocked, 1)
	t.Setenv("TMPDIR", blocked)
	_, err := u.GetAppTempFolder()
	require.Error(t, err)

	t.Setenv("TMPDIR", dir)
	p, err := u.GetAppTempFolder()
	require.NoError(t, err)
	assert.True(t, u.IsFolder(p))
}

func TestGetAppTempFolderRequiresName(t *testing.T) {
	u := NewUnix("", "", nil)
	_, err := u.GetAppTempFolder()
	assert.Error(t, err)
}

func TestGetAppDataFolderPerUser(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("per-user app data layout under test is linux-specific")
	}
	u := newTestFS()
	home := t.TempDir()
	t.Setenv("DOTDIR", home)

	p, err := u.GetAppDataFolder(true)
	require.NoError(t, err)
	assert.Equal(t, home+"/.nimblecast/appfs-test/", p.String())
	assert.True(t, u.IsFolder(p))
}

func TestGetAppDataFolderRequiresIdentity(t *testing.T) {
	u := NewUnix("", "", nil)
	_, err := u.GetAppDataFolder(true)
	assert.Error(t, err)
}

func TestGetDiskFreeSpace(t *testing.T) {
	u := newTestFS()
	dir := t.TempDir()

	free, err := u.GetDiskFreeSpace(pathname.NewFolder(dir))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, free, int64(0))

	// Nonexistent segments walk up to an existing ancestor.
	free, err = u.GetDiskFreeSpace(pathname.NewFolder(dir + "/no/such/path"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, free, int64(0))
}

func TestGetCurrentDirectory(t *testing.T) {
	u := newTestFS()
	p := u.GetCurrentDirectory()
	assert.False(t, p.Empty())
	assert.True(t, strings.HasSuffix(p.Folder(), pathname.Separator))
	assert.True(t, u.IsFolder(p))
}

func TestGetAppPathname(t *testing.T) {
	u := newTestFS()
	p, err := u.GetAppPathname()
	require.NoError(t, err)
	assert.False(t, p.Empty())
	assert.True(t, u.IsFile(p))
}

func TestTempFilename(t *testing.T) {
	u := newTestFS()
	dir := pathname.NewFolder(t.TempDir())

	name, err := u.TempFilename(dir, "pfx")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(name), "pfx"))
	assert.True(t, u.IsFile(pathname.New(name)))

	other, err := u.TempFilename(dir, "pfx")
	require.NoError(t, err)
	assert.NotEqual(t, name, other)
}

func TestOpenFileRoundTrip(t *testing.T) {
	u := newTestFS()
	file := filepath.Join(t.TempDir(), "f")

	w, err := u.OpenFile(pathname.New(file), os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	require.NoError(t, err)
	n, res := w.Write([]byte("payload"))
	assert.Equal(t, stream.Success, res)
	assert.Equal(t, 7, n)
	require.NoError(t, w.Close())

	got, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}
