// Package fs implements the per-OS filesystem adapter: folder creation,
// file copy/move/delete, path classification, temporary-path resolution,
// free-space queries and well-known directory discovery, expressed through
// native OS primitives.
package fs

import (
	"errors"
	"time"

	"github.com/nimblecast/appfs/internal/pathname"
	"github.com/nimblecast/appfs/internal/stream"
)

// TimeKind selects which stat timestamp GetFileTime reads.
type TimeKind int

const (
	// TimeCreated is the inode status change time, the closest portable
	// analogue of a creation timestamp.
	TimeCreated TimeKind = iota
	// TimeModified is the content modification time.
	TimeModified
	// TimeAccessed is the last access time.
	TimeAccessed
)

// Contract violations reported by the adapter. The underlying OS error, when
// there is one, stays reachable through errors.Is / errors.As.
var (
	// ErrNotFolderPath means a folder operation got a path that does not
	// end in a separator.
	ErrNotFolderPath = errors.New("folder path must end in a separator")
	// ErrNotFile means a file operation got a path that is not a file.
	ErrNotFile = errors.New("path is not a file")
	// ErrNotFolder means a folder operation got a path that is not a folder.
	ErrNotFolder = errors.New("path is not a folder")
	// ErrUnknownTimeKind means GetFileTime got an out-of-range TimeKind.
	ErrUnknownTimeKind = errors.New("unknown file time kind")
)

// Filesystem is the operation surface of the adapter. All calls are
// synchronous and single-shot; there is no retry logic and no caching of
// filesystem state beyond the per-process app temp folder.
type Filesystem interface {
	// EnsureFolder makes the directory at path exist, creating missing
	// ancestors with mode 0755. It fails if path is not
	// separator-terminated or if a non-directory node occupies it.
	EnsureFolder(path pathname.Pathname) error

	// OpenFile opens the file at path as a byte stream.
	OpenFile(path pathname.Pathname, flag int) (stream.Interface, error)

	// DeleteFile unlinks a path currently classified as a file.
	DeleteFile(path pathname.Pathname) error
	// DeleteEmptyFolder removes a path currently classified as a folder.
	DeleteEmptyFolder(path pathname.Pathname) error
	// DeleteFolderAndContents removes a folder tree.
	DeleteFolderAndContents(path pathname.Pathname) error

	// CopyFile copies from to to in fixed-size chunks. Write failures are
	// propagated, never swallowed.
	CopyFile(from, to pathname.Pathname) error
	// CopyFolderRecursive copies a folder tree.
	CopyFolderRecursive(from, to pathname.Pathname) error
	// MoveFile renames a file, falling back to copy+delete across devices.
	MoveFile(from, to pathname.Pathname) error
	// MoveFolder renames a folder, falling back to recursive copy plus
	// delete across devices.
	MoveFolder(from, to pathname.Pathname) error

	// IsFolder reports whether a directory exists at path.
	IsFolder(path pathname.Pathname) bool
	// IsFile reports whether a non-directory node exists at path.
	// Symlinks, pipes and other special nodes all count as files.
	IsFile(path pathname.Pathname) bool
	// IsAbsent reports whether nothing exists at path. A path blocked by a
	// non-directory ancestor is not absent.
	IsAbsent(path pathname.Pathname) bool
	// IsTemporaryPath reports whether path falls under one of the
	// platform's known temporary-directory prefixes.
	IsTemporaryPath(path pathname.Pathname) bool

	// GetFileSize returns the size of the node at path.
	GetFileSize(path pathname.Pathname) (int64, error)
	// GetFileTime returns one of the node's stat timestamps.
	GetFileTime(path pathname.Pathname, which TimeKind) (time.Time, error)

	// GetTemporaryFolder resolves the platform temp root (TMPDIR, TMP,
	// else the platform default), optionally appends a folder segment and
	// optionally ensures the result exists.
	GetTemporaryFolder(create bool, appendSegment string) (pathname.Pathname, error)
	// TempFilename creates a uniquely named empty file in dir and returns
	// its path. The file is left on disk.
	TempFilename(dir pathname.Pathname, prefix string) (string, error)
	// GetAppTempFolder returns the per-process application temp folder,
	// creating it on first call and caching it for the process lifetime.
	// Only a successful resolution is cached. The folder is never cleaned
	// up automatically.
	GetAppTempFolder() (pathname.Pathname, error)
	// GetAppDataFolder resolves and creates the per-user or shared
	// application data folder for the configured organization and
	// application names.
	GetAppDataFolder(perUser bool) (pathname.Pathname, error)
	// GetAppPathname returns the running executable's own path.
	GetAppPathname() (pathname.Pathname, error)
	// GetDiskFreeSpace returns the free bytes of the volume holding path,
	// walking up through nonexistent segments to an existing ancestor.
	GetDiskFreeSpace(path pathname.Pathname) (int64, error)
	// GetCurrentDirectory returns the working directory, or an empty
	// pathname on failure.
	GetCurrentDirectory() pathname.Pathname
}
