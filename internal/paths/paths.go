// Package paths resolves the well-known filesystem locations used by
// skillshub: the home directory (~/.skillshub), the database file, and the
// content store where installed skill directories live.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvHome overrides the skillshub home directory. Used by tests and by
// users who want the store somewhere other than ~/.skillshub.
const EnvHome = "SKILLSHUB_HOME"

// Home returns the skillshub home directory (~/.skillshub by default).
// The directory is not created; callers that write must MkdirAll first.
func Home() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, ".skillshub"), nil
}

// DatabaseFile returns the path of the persisted database document.
func DatabaseFile() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "db.json"), nil
}

// LockFile returns the path of the flock file guarding database writes.
func LockFile() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "db.lock"), nil
}

// StoreDir returns the root of the content store (~/.skillshub/skills).
func StoreDir() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "skills"), nil
}

// StorePath returns the deterministic content-store location for a bundle,
// derived from its source identifier ("owner/repo") and its relative path
// within that source. An empty relative path (a repo whose root is itself a
// skill) maps to the repo directory.
func StorePath(storeDir, source, relPath string) string {
	owner, repo, ok := strings.Cut(source, "/")
	if !ok {
		// Legacy records may carry a bare tap name; keep them addressable.
		owner, repo = "_", source
	}
	if relPath == "" {
		return filepath.Join(storeDir, owner, repo)
	}
	return filepath.Join(storeDir, owner, repo, filepath.FromSlash(relPath))
}

// DisplayPath renders a path with ~ substituted for the user's home
// directory, for friendlier CLI output.
func DisplayPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") {
		return "~" + string(filepath.Separator) + rel
	}
	return path
}
