package installer

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxBundleBytes caps total extracted size. Skills are text bundles; a
// tarball expanding past this is not a skill.
const maxBundleBytes = 256 * 1024 * 1024

// extractTarball extracts the bundlePath subtree of a GitHub tarball into
// dest. GitHub prefixes every entry with a "owner-repo-sha/" directory,
// which is stripped. Entries outside the subtree are skipped; symlinks and
// other non-regular entries are rejected.
func extractTarball(r io.Reader, bundlePath, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	var written int64
	extracted := false

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}

		inner, ok := stripArchivePrefix(hdr.Name)
		if !ok {
			continue
		}
		rel, ok := relativeToBundle(inner, bundlePath)
		if !ok {
			continue
		}
		if !safeRelPath(rel) {
			return fmt.Errorf("unsafe path in archive: %s", hdr.Name)
		}

		target := dest
		if rel != "" {
			target = filepath.Join(dest, filepath.FromSlash(rel))
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			written += hdr.Size
			if written > maxBundleBytes {
				return fmt.Errorf("archive exceeds %d bytes", int64(maxBundleBytes))
			}
			if err := writeEntry(tr, target, hdr); err != nil {
				return err
			}
			extracted = true
		case tar.TypeXGlobalHeader:
			// pax global header, carries no content
		default:
			return fmt.Errorf("unsupported entry type %q for %s", hdr.Typeflag, hdr.Name)
		}
	}

	if !extracted {
		return fmt.Errorf("archive contains no files under %q", bundlePath)
	}
	return nil
}

func writeEntry(tr *tar.Reader, target string, hdr *tar.Header) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	mode := os.FileMode(hdr.Mode).Perm()
	if mode == 0 {
		mode = 0o644
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, tr); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// stripArchivePrefix removes the tarball's top-level directory. The bare
// top-level entry itself yields ("", true).
func stripArchivePrefix(name string) (string, bool) {
	name = strings.TrimPrefix(name, "./")
	i := strings.Index(name, "/")
	if i < 0 {
		return "", name != ""
	}
	return strings.TrimSuffix(name[i+1:], "/"), true
}

// relativeToBundle maps a repo-relative path to a bundle-relative one,
// reporting whether the path is inside the bundle at all.
func relativeToBundle(inner, bundlePath string) (string, bool) {
	if bundlePath == "" {
		return inner, true
	}
	if inner == bundlePath {
		return "", true
	}
	if strings.HasPrefix(inner, bundlePath+"/") {
		return inner[len(bundlePath)+1:], true
	}
	return "", false
}

// safeRelPath rejects traversal and absolute paths.
func safeRelPath(rel string) bool {
	if rel == "" {
		return true
	}
	if strings.HasPrefix(rel, "/") {
		return false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}
