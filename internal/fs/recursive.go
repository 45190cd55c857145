package fs

import (
	"fmt"
	"os"

	"github.com/nimblecast/appfs/internal/pathname"
)

// CopyFolderRecursive implements Filesystem. Directory entries that are not
// directories themselves (including symlinks) are copied as files.
func (u *UnixFS) CopyFolderRecursive(from, to pathname.Pathname) error {
	if !u.IsFolder(from) {
		return fmt.Errorf("%q: %w", from.String(), ErrNotFolder)
	}
	if err := u.EnsureFolder(to); err != nil {
		return err
	}

	entries, err := os.ReadDir(from.String())
	if err != nil {
		return fmt.Errorf("read folder %q: %w", from.String(), err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			src := pathname.NewFolder(from.String() + name)
			dst := pathname.NewFolder(to.String() + name)
			if err := u.CopyFolderRecursive(src, dst); err != nil {
				return err
			}
			continue
		}
		src := pathname.New(from.String() + name)
		dst := pathname.New(to.String() + name)
		if err := u.CopyFile(src, dst); err != nil {
			return err
		}
	}
	return nil
}

// DeleteFolderAndContents implements Filesystem.
func (u *UnixFS) DeleteFolderAndContents(path pathname.Pathname) error {
	if !u.IsFolder(path) {
		return fmt.Errorf("%q: %w", path.String(), ErrNotFolder)
	}

	entries, err := os.ReadDir(path.String())
	if err != nil {
		return fmt.Errorf("read folder %q: %w", path.String(), err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if err := u.DeleteFolderAndContents(pathname.NewFolder(path.String() + name)); err != nil {
				return err
			}
			continue
		}
		if err := u.DeleteFile(pathname.New(path.String() + name)); err != nil {
			return err
		}
	}
	return u.DeleteEmptyFolder(path)
}
