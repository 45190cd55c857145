//go:build linux

package fs

import (
	"fmt"
	"os"
	"os/user"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// tempRoot is the fallback temp directory when neither TMPDIR nor TMP is
// set.
func tempRoot() string {
	return "/tmp/"
}

func tempPrefixes() []string {
	return []string{"/tmp/", "/var/tmp/"}
}

// appDataRoot resolves the base directory for application data. Per-user
// data lives under a dot-prefixed org folder in the home directory
// ($DOTDIR, then $HOME, then the passwd entry); shared data lives under
// /var/cache.
func appDataRoot(perUser bool) (root string, dotPrefix bool, err error) {
	if !perUser {
		return "/var/cache/", false, nil
	}
	if dotdir := os.Getenv("DOTDIR"); dotdir != "" {
		return dotdir, true, nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return home, true, nil
	}
	usr, err := user.Current()
	if err != nil {
		return "", false, fmt.Errorf("resolve home directory: %w", err)
	}
	return usr.HomeDir, true, nil
}

func executablePath() (string, error) {
	return os.Readlink("/proc/self/exe")
}

func freeBytes(path string) (int64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("statfs %q: %w", path, err)
	}
	return int64(st.Bsize) * int64(st.Bavail), nil
}

func statTimes(st *syscall.Stat_t) (created, modified, accessed time.Time) {
	created = time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	modified = time.Unix(int64(st.Mtim.Sec), int64(st.Mtim.Nsec))
	accessed = time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))
	return created, modified, accessed
}
