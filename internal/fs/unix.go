package fs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/nimblecast/appfs/internal/logging"
	"github.com/nimblecast/appfs/internal/pathname"
	"github.com/nimblecast/appfs/internal/stream"
)

const (
	folderMode    = 0o755
	copyChunkSize = 4096
)

// UnixFS is the POSIX implementation of Filesystem. Platform-family
// differences (temp roots, app-data roots, executable discovery, statfs
// field selection) live in the per-platform files in this package.
type UnixFS struct {
	appName string
	orgName string
	log     *logging.Logger

	tempMu  sync.Mutex
	appTemp pathname.Pathname
}

var _ Filesystem = (*UnixFS)(nil)

// NewUnix creates a Unix filesystem adapter. The application and
// organization names scope GetAppDataFolder and GetAppTempFolder.
func NewUnix(appName, orgName string, log *logging.Logger) *UnixFS {
	if log == nil {
		log = logging.NewNop()
	}
	return &UnixFS{appName: appName, orgName: orgName, log: log}
}

// EnsureFolder implements Filesystem.
func (u *UnixFS) EnsureFolder(path pathname.Pathname) error {
	s := path.String()
	if s == "" || !strings.HasSuffix(s, pathname.Separator) {
		return fmt.Errorf("%q: %w", s, ErrNotFolderPath)
	}

	st, err := os.Stat(s)
	if err == nil {
		// Something exists here already; only a directory will do.
		if st.IsDir() {
			return nil
		}
		return fmt.Errorf("%q: %w", s, ErrNotFolder)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %q: %w", s, err)
	}

	if parent := pathname.NewFolder(s).Parent(); parent != "" {
		if err := u.EnsureFolder(pathname.NewFolder(parent)); err != nil {
			return err
		}
	}

	u.log.Info("creating folder", zap.String("path", s))
	if err := os.Mkdir(s, folderMode); err != nil {
		return fmt.Errorf("mkdir %q: %w", s, err)
	}
	return nil
}

// OpenFile implements Filesystem.
func (u *UnixFS) OpenFile(path pathname.Pathname, flag int) (stream.Interface, error) {
	s, err := stream.Open(path.String(), flag)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// DeleteFile implements Filesystem.
func (u *UnixFS) DeleteFile(path pathname.Pathname) error {
	s := path.String()
	u.log.Info("deleting file", zap.String("path", s))
	if !u.IsFile(path) {
		return fmt.Errorf("%q: %w", s, ErrNotFile)
	}
	if err := os.Remove(s); err != nil {
		return fmt.Errorf("unlink %q: %w", s, err)
	}
	return nil
}

// DeleteEmptyFolder implements Filesystem.
func (u *UnixFS) DeleteEmptyFolder(path pathname.Pathname) error {
	s := path.String()
	u.log.Info("deleting folder", zap.String("path", s))
	if !u.IsFolder(path) {
		return fmt.Errorf("%q: %w", s, ErrNotFolder)
	}
	if err := os.Remove(strings.TrimSuffix(s, pathname.Separator)); err != nil {
		return fmt.Errorf("rmdir %q: %w", s, err)
	}
	return nil
}

// CopyFile implements Filesystem.
func (u *UnixFS) CopyFile(from, to pathname.Pathname) error {
	u.log.Debug("copying file",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)

	src, err := stream.Open(from.String(), os.O_RDONLY)
	if err != nil {
		return fmt.Errorf("open source %q: %w", from.String(), err)
	}
	defer src.Close()

	dst, err := stream.Open(to.String(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("open destination %q: %w", to.String(), err)
	}

	buf := make([]byte, copyChunkSize)
	for {
		n, res := src.Read(buf)
		if res == stream.EOS {
			break
		}
		if res == stream.Error {
			dst.Close()
			return fmt.Errorf("read %q: %w", from.String(), src.Err())
		}
		if _, wres := dst.Write(buf[:n]); wres != stream.Success {
			werr := dst.Err()
			dst.Close()
			return fmt.Errorf("write %q: %w", to.String(), werr)
		}
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close %q: %w", to.String(), err)
	}
	return nil
}

// MoveFile implements Filesystem.
func (u *UnixFS) MoveFile(from, to pathname.Pathname) error {
	if !u.IsFile(from) {
		return fmt.Errorf("%q: %w", from.String(), ErrNotFile)
	}
	u.log.Debug("moving file",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)

	err := os.Rename(from.String(), to.String())
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return fmt.Errorf("rename %q: %w", from.String(), err)
	}
	// Destination is on a different volume.
	if err := u.CopyFile(from, to); err != nil {
		return err
	}
	return u.DeleteFile(from)
}

// MoveFolder implements Filesystem.
func (u *UnixFS) MoveFolder(from, to pathname.Pathname) error {
	if !u.IsFolder(from) {
		return fmt.Errorf("%q: %w", from.String(), ErrNotFolder)
	}
	u.log.Debug("moving folder",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)

	err := os.Rename(
		strings.TrimSuffix(from.String(), pathname.Separator),
		strings.TrimSuffix(to.String(), pathname.Separator),
	)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return fmt.Errorf("rename %q: %w", from.String(), err)
	}
	if err := u.CopyFolderRecursive(from, to); err != nil {
		return err
	}
	return u.DeleteFolderAndContents(from)
}

// IsFolder implements Filesystem.
func (u *UnixFS) IsFolder(path pathname.Pathname) bool {
	st, err := os.Stat(path.String())
	return err == nil && st.IsDir()
}

// IsFile implements Filesystem.
func (u *UnixFS) IsFile(path pathname.Pathname) bool {
	st, err := os.Stat(path.String())
	return err == nil && !st.IsDir()
}

// IsAbsent implements Filesystem.
func (u *UnixFS) IsAbsent(path pathname.Pathname) bool {
	_, err := os.Stat(path.String())
	// ENOTDIR stays an error: a blocked path could never be created as a
	// folder, so it is not "absent".
	return err != nil && errors.Is(err, os.ErrNotExist)
}

// IsTemporaryPath implements Filesystem.
func (u *UnixFS) IsTemporaryPath(path pathname.Pathname) bool {
	s := path.String()
	for _, prefix := range tempPrefixes() {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// GetFileSize implements Filesystem.
func (u *UnixFS) GetFileSize(path pathname.Pathname) (int64, error) {
	st, err := os.Stat(path.String())
	if err != nil {
		return 0, fmt.Errorf("stat %q: %w", path.String(), err)
	}
	return st.Size(), nil
}

// GetFileTime implements Filesystem.
func (u *UnixFS) GetFileTime(path pathname.Pathname, which TimeKind) (time.Time, error) {
	st, err := os.Stat(path.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %q: %w", path.String(), err)
	}
	sys, ok := st.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, fmt.Errorf("stat %q: no system metadata", path.String())
	}
	created, modified, accessed := statTimes(sys)
	switch which {
	case TimeCreated:
		return created, nil
	case TimeModified:
		return modified, nil
	case TimeAccessed:
		return accessed, nil
	default:
		return time.Time{}, fmt.Errorf("%d: %w", which, ErrUnknownTimeKind)
	}
}

// GetTemporaryFolder implements Filesystem.
func (u *UnixFS) GetTemporaryFolder(create bool, appendSegment string) (pathname.Pathname, error) {
	root := os.Getenv("TMPDIR")
	if root == "" {
		root = os.Getenv("TMP")
	}
	if root == "" {
		root = tempRoot()
	}

	path := pathname.NewFolder(root)
	if appendSegment != "" {
		path.AppendFolder(appendSegment)
	}
	if create {
		if err := u.EnsureFolder(path); err != nil {
			return pathname.Pathname{}, err
		}
	}
	return path, nil
}

// TempFilename implements Filesystem.
func (u *UnixFS) TempFilename(dir pathname.Pathname, prefix string) (string, error) {
	f, err := os.CreateTemp(dir.String(), prefix)
	if err != nil {
		return "", fmt.Errorf("create temp file in %q: %w", dir.String(), err)
	}
	name := f.Name()
	f.Close()
	return name, nil
}

// GetAppTempFolder implements Filesystem.
func (u *UnixFS) GetAppTempFolder() (pathname.Pathname, error) {
	u.tempMu.Lock()
	defer u.tempMu.Unlock()
	if !u.appTemp.Empty() {
		return u.appTemp, nil
	}
	if u.appName == "" {
		return pathname.Pathname{}, errors.New("application name not configured")
	}
	// <appname>-<pid>-<timestamp> under the temp root. Only a successful
	// resolution is cached; a failed one is retried on the next call.
	folder := fmt.Sprintf("%s-%d-%d", u.appName, os.Getpid(), time.Now().Unix())
	path, err := u.GetTemporaryFolder(true, folder)
	if err != nil {
		return pathname.Pathname{}, err
	}
	u.appTemp = path
	return path, nil
}

// GetAppDataFolder implements Filesystem.
func (u *UnixFS) GetAppDataFolder(perUser bool) (pathname.Pathname, error) {
	if u.orgName == "" || u.appName == "" {
		return pathname.Pathname{}, errors.New("organization and application names not configured")
	}

	root, dotPrefix, err := appDataRoot(perUser)
	if err != nil {
		return pathname.Pathname{}, err
	}

	path := pathname.NewFolder(root)
	org := u.orgName
	if dotPrefix {
		org = "." + org
	}
	path.AppendFolder(org)
	path.AppendFolder(u.appName)

	if err := u.EnsureFolder(path); err != nil {
		return pathname.Pathname{}, err
	}
	return path, nil
}

// GetAppPathname implements Filesystem.
func (u *UnixFS) GetAppPathname() (pathname.Pathname, error) {
	exe, err := executablePath()
	if err != nil {
		return pathname.Pathname{}, fmt.Errorf("resolve executable path: %w", err)
	}
	return pathname.New(exe), nil
}

// GetDiskFreeSpace implements Filesystem.
func (u *UnixFS) GetDiskFreeSpace(path pathname.Pathname) (int64, error) {
	existing := pathname.NewFolder(path.Folder())
	for existing.Folder() != "" && u.IsAbsent(existing) {
		existing.SetFolder(existing.Parent())
	}
	return freeBytes(existing.String())
}

// GetCurrentDirectory implements Filesystem.
func (u *UnixFS) GetCurrentDirectory() pathname.Pathname {
	wd, err := os.Getwd()
	if err != nil {
		u.log.Error("getcwd failed", zap.Error(err))
		return pathname.Pathname{}
	}
	return pathname.NewFolder(wd)
}
