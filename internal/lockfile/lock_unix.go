//go:build unix

package lockfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// flockExclusiveBlocking acquires an exclusive blocking lock on the file.
// This will wait until the lock is available.
func flockExclusiveBlocking(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

// flockExclusiveNonBlock acquires an exclusive non-blocking lock on the file.
// Returns ErrLockBusy if any lock is already held.
func flockExclusiveNonBlock(f *os.File) error {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err == unix.EWOULDBLOCK {
		return ErrLockBusy
	}
	return err
}

// flockUnlock releases a lock on the file.
func flockUnlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
