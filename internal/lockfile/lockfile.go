// Package lockfile provides flock-based advisory locking for the database
// file. One invocation holds the exclusive lock for the duration of each
// load-mutate-replace cycle so concurrent skillshub processes serialize
// their writes instead of clobbering each other.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrLockBusy indicates another process currently holds the lock.
var ErrLockBusy = errors.New("lock already held by another process")

// Lock is an acquired advisory lock backed by an open lock file.
type Lock struct {
	f *os.File
}

// Acquire opens (creating if needed) the lock file at path and blocks until
// an exclusive lock is held.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := flockExclusiveBlocking(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return &Lock{f: f}, nil
}

// TryAcquire is like Acquire but returns ErrLockBusy instead of blocking.
func TryAcquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := flockExclusiveNonBlock(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Lock{f: f}, nil
}

// Release unlocks and closes the lock file. Safe to call once.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := flockUnlock(l.f)
	closeErr := l.f.Close()
	l.f = nil
	if err != nil {
		return err
	}
	return closeErr
}
