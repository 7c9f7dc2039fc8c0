// Package installer downloads skill bundles into the content store and
// records them in the database. Installs are all-or-nothing: content is
// extracted to a staging directory and swapped into place, and the database
// record is only written after the swap succeeds.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/EYH0602/skillshub/internal/github"
	"github.com/EYH0602/skillshub/internal/paths"
	"github.com/EYH0602/skillshub/internal/registry"
	"github.com/EYH0602/skillshub/internal/skill"
	"github.com/EYH0602/skillshub/internal/telemetry"
)

// ErrBundleNotFound indicates a requested bundle name is not present in
// any tap's cached bundle list.
var ErrBundleNotFound = errors.New("bundle not found in any tap")

// Installer performs install, uninstall, and update operations.
type Installer struct {
	Client   *github.Client
	Store    *registry.Store
	StoreDir string
}

// New builds an installer over the standard store locations.
func New(client *github.Client) (*Installer, error) {
	store, err := registry.Open()
	if err != nil {
		return nil, err
	}
	storeDir, err := paths.StoreDir()
	if err != nil {
		return nil, err
	}
	return &Installer{Client: client, Store: store, StoreDir: storeDir}, nil
}

// Request describes one bundle to install.
type Request struct {
	Tap  string // "owner/repo"
	Path string // bundle directory within the repo, "" for root
	Name string // display name to record under
	Ref  string // branch, tag, or commit; "" means the default branch
	Pin  bool   // explicit @rev installs never move on update
}

// Install fetches the bundle content, swaps it into the content store, and
// records it. The returned revision is the short commit SHA that was
// installed.
func (ins *Installer) Install(ctx context.Context, req Request) (string, error) {
	ctx, span := telemetry.Tracer(otelScope).Start(ctx, "installer.install")
	defer span.End()
	span.SetAttributes(
		attribute.String("skillshub.tap", req.Tap),
		attribute.String("skillshub.bundle", req.Name),
	)

	src, err := github.ParseSource(req.Tap)
	if err != nil {
		return "", err
	}

	// Refuse colliding names before anything is fetched or written. The
	// check runs again under the lock before the record lands.
	db, err := ins.Store.Load()
	if err != nil {
		return "", err
	}
	if err := checkName(db, req); err != nil {
		return "", err
	}

	ref := req.Ref
	if ref == "" {
		ref, err = ins.Client.DefaultBranch(ctx, src.Owner, src.Repo)
		if err != nil {
			return "", err
		}
	}
	sha, err := ins.Client.ResolveRef(ctx, src.Owner, src.Repo, ref)
	if err != nil {
		return "", err
	}
	revision := github.ShortSHA(sha)

	dest := paths.StorePath(ins.StoreDir, req.Tap, req.Path)
	if err := ins.fetchInto(ctx, src, sha, req.Path, dest); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	err = ins.Store.Mutate(func(db *registry.Database) error {
		if err := checkName(db, req); err != nil {
			return err
		}

		rec := db.Installed[req.Name]
		if rec == nil {
			rec = &registry.Skill{InstalledAt: now}
			db.Installed[req.Name] = rec
		}
		rec.Tap = req.Tap
		rec.Path = req.Path
		rec.Revision = revision
		rec.Pinned = req.Pin
		rec.UpdatedAt = now
		return nil
	})
	if err != nil {
		return "", err
	}
	if installMetrics.installs != nil {
		installMetrics.installs.Add(ctx, 1, metric.WithAttributes(attribute.String("skillshub.tap", req.Tap)))
	}
	return revision, nil
}

// checkName refuses a display name already claimed by a different install
// or an external skill. Reinstalling the same (tap, path) under its own
// name is fine.
func checkName(db *registry.Database, req Request) error {
	if existing, ok := db.Installed[req.Name]; ok {
		if existing.Tap != req.Tap || existing.Path != req.Path {
			return fmt.Errorf("%w: %s (installed from %s)", registry.ErrNameCollision, req.Name, existing.Tap)
		}
		return nil
	}
	if db.NameTaken(req.Name) {
		return fmt.Errorf("%w: %s (external skill)", registry.ErrNameCollision, req.Name)
	}
	return nil
}

// fetchInto downloads the archive at sha, extracts the bundle subtree to a
// staging directory, and swaps it over dest. A transient network failure
// gets exactly one retry; everything else fails immediately.
func (ins *Installer) fetchInto(ctx context.Context, src github.Source, sha, bundlePath, dest string) error {
	installMetricsOnce.Do(initInstallMetrics)
	t0 := time.Now()
	defer func() {
		if installMetrics.fetchDuration != nil {
			installMetrics.fetchDuration.Record(ctx, float64(time.Since(t0).Milliseconds()))
		}
	}()

	if err := os.MkdirAll(ins.StoreDir, 0o755); err != nil {
		return fmt.Errorf("create store: %w", err)
	}

	staging, err := os.MkdirTemp(ins.StoreDir, ".staging-*")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	attempt := func() error {
		rc, err := ins.Client.FetchArchive(ctx, src.Owner, src.Repo, sha)
		if err != nil {
			if errors.Is(err, github.ErrNetwork) {
				return err
			}
			return backoff.Permanent(err)
		}
		defer func() { _ = rc.Close() }()

		if err := extractTarball(rc, bundlePath, staging); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}
	cleanup := func(error, time.Duration) {
		// Partial extraction from a failed attempt must not leak into
		// the retry.
		_ = os.RemoveAll(staging)
		_ = os.MkdirAll(staging, 0o755)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1), ctx)
	if err := backoff.RetryNotify(attempt, policy, cleanup); err != nil {
		return err
	}

	if !skill.IsSkillDir(staging) {
		if bundlePath == "" {
			return fmt.Errorf("%s/%s has no %s at its root", src.Owner, src.Repo, skill.MarkerFile)
		}
		return fmt.Errorf("%s in %s/%s has no %s", bundlePath, src.Owner, src.Repo, skill.MarkerFile)
	}

	return swapDir(staging, dest)
}

// swapDir moves staging over dest, keeping the previous content as a .old
// backup until the move succeeds. The previous content is restored if the
// move fails.
func swapDir(staging, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create store path: %w", err)
	}

	backup := dest + ".old"
	_ = os.RemoveAll(backup)

	hadPrevious := false
	if _, err := os.Stat(dest); err == nil {
		hadPrevious = true
		if err := os.Rename(dest, backup); err != nil {
			return fmt.Errorf("stash previous content: %w", err)
		}
	}

	if err := os.Rename(staging, dest); err != nil {
		if hadPrevious {
			_ = os.Rename(backup, dest)
		}
		return fmt.Errorf("activate new content: %w", err)
	}
	if hadPrevious {
		_ = os.RemoveAll(backup)
	}
	return nil
}

// Uninstall removes the skill's record and its content-store directory.
// Symlinks in agent directories are cleaned up by the next reconcile.
func (ins *Installer) Uninstall(name string) error {
	var storePath string
	err := ins.Store.Mutate(func(db *registry.Database) error {
		rec, ok := db.Installed[name]
		if !ok {
			return fmt.Errorf("%w: %s", registry.ErrSkillNotFound, name)
		}
		storePath = paths.StorePath(ins.StoreDir, rec.Tap, rec.Path)
		delete(db.Installed, name)
		return nil
	})
	if err != nil {
		return err
	}
	if err := os.RemoveAll(storePath); err != nil {
		return fmt.Errorf("remove store content: %w", err)
	}
	return nil
}

// FindBundle locates a bundle by display name across all tap caches,
// checking taps in sorted order.
func FindBundle(db *registry.Database, name string) (tap string, bundle *registry.Bundle, err error) {
	for _, tapName := range db.TapNames() {
		if b, ok := db.Taps[tapName].Skills[name]; ok {
			return tapName, b, nil
		}
	}
	return "", nil, fmt.Errorf("%w: %s", ErrBundleNotFound, name)
}
