package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// RenameWithRetry performs an atomic file rename with retry logic for Windows.
// On Windows, file renames can fail with "Access is denied" when another process
// (editor, antivirus, git) has a handle on the target file. This function retries
// with exponential backoff to handle transient locking.
//
// Returns nil on success, or the last error if all retries failed.
func RenameWithRetry(oldPath, newPath string, maxRetries int, initialDelay time.Duration) error {
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := os.Rename(oldPath, newPath)
		if err == nil {
			return nil
		}
		lastErr = err

		// On non-Windows, don't retry - the error is likely permanent
		if runtime.GOOS != "windows" {
			break
		}

		if attempt < maxRetries {
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("rename failed after %d attempt(s): %w", maxRetries+1, lastErr)
}

// DefaultRenameRetry calls RenameWithRetry with sensible defaults for Windows:
// 3 retries with 100ms initial delay (100ms, 200ms, 400ms = 700ms max wait)
func DefaultRenameRetry(oldPath, newPath string) error {
	return RenameWithRetry(oldPath, newPath, 3, 100*time.Millisecond)
}

// WriteFileAtomic writes data to path by writing a temporary file in the same
// directory and renaming it over the target. A crash mid-write leaves the
// previous contents of path intact.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	return DefaultRenameRetry(tmpName, path)
}
