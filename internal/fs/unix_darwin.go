//go:build darwin

package fs

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func tempRoot() string {
	return "/tmp/"
}

func tempPrefixes() []string {
	return []string{
		"/tmp/", "/var/tmp/",
		"/private/tmp/", "/private/var/tmp/", "/private/var/folders/",
	}
}

// appDataRoot resolves the base directory for application data. Per-user
// data lives under ~/Library/Application Support; there is no shared
// variant on this platform.
func appDataRoot(perUser bool) (root string, dotPrefix bool, err error) {
	if !perUser {
		return "", false, errors.New("shared app data folder is not supported on darwin")
	}
	home := os.Getenv("HOME")
	if home == "" {
		usr, err := user.Current()
		if err != nil {
			return "", false, fmt.Errorf("resolve home directory: %w", err)
		}
		home = usr.HomeDir
	}
	return home + "/Library/Application Support/", false, nil
}

func executablePath() (string, error) {
	return os.Executable()
}

func freeBytes(path string) (int64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("statfs %q: %w", path, err)
	}
	return int64(st.Bsize) * int64(st.Bavail), nil
}

func statTimes(st *syscall.Stat_t) (created, modified, accessed time.Time) {
	created = time.Unix(st.Ctimespec.Sec, st.Ctimespec.Nsec)
	modified = time.Unix(st.Mtimespec.Sec, st.Mtimespec.Nsec)
	accessed = time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
	return created, modified, accessed
}
