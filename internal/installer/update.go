package installer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/EYH0602/skillshub/internal/github"
	"github.com/EYH0602/skillshub/internal/paths"
	"github.com/EYH0602/skillshub/internal/registry"
)

// DefaultConcurrency bounds parallel fetches during batch updates.
const DefaultConcurrency = 4

// Update outcomes.
const (
	StatusUpdated  = "updated"
	StatusUpToDate = "up-to-date"
	StatusPinned   = "pinned"
	StatusFailed   = "failed"
)

// UpdateResult reports the outcome of updating one skill.
type UpdateResult struct {
	Name     string
	Status   string
	Revision string
	Err      error
}

// Update re-resolves each named skill against its tap's default branch and
// reinstalls those whose revision moved. A nil names slice means every
// installed skill. Individual failures land in the results; the batch keeps
// going. Fetches run concurrently but each database write holds the lock.
func (ins *Installer) Update(ctx context.Context, names []string, concurrency int) ([]UpdateResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	db, err := ins.Store.Load()
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = db.SkillNames()
	}

	results := make([]UpdateResult, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, name := range names {
		rec, ok := db.Installed[name]
		if !ok {
			results[i] = UpdateResult{
				Name:   name,
				Status: StatusFailed,
				Err:    fmt.Errorf("%w: %s", registry.ErrSkillNotFound, name),
			}
			continue
		}
		snapshot := *rec

		g.Go(func() error {
			results[i] = ins.updateOne(ctx, name, snapshot)
			return nil
		})
	}

	_ = g.Wait()
	return results, nil
}

func (ins *Installer) updateOne(ctx context.Context, name string, rec registry.Skill) UpdateResult {
	if rec.Pinned {
		return UpdateResult{Name: name, Status: StatusPinned, Revision: rec.Revision}
	}

	src, err := github.ParseSource(rec.Tap)
	if err != nil {
		return UpdateResult{Name: name, Status: StatusFailed, Err: err}
	}

	branch, err := ins.Client.DefaultBranch(ctx, src.Owner, src.Repo)
	if err != nil {
		return UpdateResult{Name: name, Status: StatusFailed, Err: err}
	}
	sha, err := ins.Client.ResolveRef(ctx, src.Owner, src.Repo, branch)
	if err != nil {
		return UpdateResult{Name: name, Status: StatusFailed, Err: err}
	}
	revision := github.ShortSHA(sha)

	if rec.Revision != registry.RevisionLatest && revision == rec.Revision {
		return UpdateResult{Name: name, Status: StatusUpToDate, Revision: revision}
	}

	dest := paths.StorePath(ins.StoreDir, rec.Tap, rec.Path)
	if err := ins.fetchInto(ctx, src, sha, rec.Path, dest); err != nil {
		return UpdateResult{Name: name, Status: StatusFailed, Err: err}
	}

	now := time.Now().UTC()
	err = ins.Store.Mutate(func(db *registry.Database) error {
		cur, ok := db.Installed[name]
		if !ok {
			// Uninstalled while we were fetching; nothing to record.
			return nil
		}
		cur.Revision = revision
		cur.UpdatedAt = now
		return nil
	})
	if err != nil {
		return UpdateResult{Name: name, Status: StatusFailed, Err: err}
	}
	return UpdateResult{Name: name, Status: StatusUpdated, Revision: revision}
}
