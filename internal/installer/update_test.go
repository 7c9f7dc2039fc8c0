package installer

import (
	"context"
	"testing"

	"github.com/EYH0602/skillshub/internal/registry"
)

func installReview(t *testing.T, ins *Installer) {
	t.Helper()
	_, err := ins.Install(context.Background(), Request{
		Tap:  "acme/skills",
		Path: "skills/review",
		Name: "review",
	})
	if err != nil {
		t.Fatal(err)
	}
}

func resultFor(t *testing.T, results []UpdateResult, name string) UpdateResult {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no result for %s in %v", name, results)
	return UpdateResult{}
}

func TestUpdateUpToDate(t *testing.T) {
	fr := reviewRepo()
	ins := testInstaller(t, "acme", "skills", fr)
	installReview(t, ins)

	results, err := ins.Update(context.Background(), nil, 2)
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	r := resultFor(t, results, "review")
	if r.Status != StatusUpToDate {
		t.Errorf("status = %s, want %s (err: %v)", r.Status, StatusUpToDate, r.Err)
	}
}

func TestUpdateReinstallsOnNewRevision(t *testing.T) {
	fr := reviewRepo()
	ins := testInstaller(t, "acme", "skills", fr)
	installReview(t, ins)

	fr.sha = "fedcba9876543210fedcba9876543210fedcba98"

	results, err := ins.Update(context.Background(), []string{"review"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	r := resultFor(t, results, "review")
	if r.Status != StatusUpdated {
		t.Fatalf("status = %s, want %s (err: %v)", r.Status, StatusUpdated, r.Err)
	}
	if r.Revision != "fedcba9" {
		t.Errorf("revision = %q", r.Revision)
	}

	db, _ := ins.Store.Load()
	if db.Installed["review"].Revision != "fedcba9" {
		t.Errorf("recorded revision = %q", db.Installed["review"].Revision)
	}
}

func TestUpdateSkipsPinned(t *testing.T) {
	fr := reviewRepo()
	ins := testInstaller(t, "acme", "skills", fr)
	installReview(t, ins)

	if err := ins.Store.Mutate(func(db *registry.Database) error {
		db.Installed["review"].Pinned = true
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	fr.sha = "fedcba9876543210fedcba9876543210fedcba98"
	before := fr.tarballRequests

	results, err := ins.Update(context.Background(), nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	r := resultFor(t, results, "review")
	if r.Status != StatusPinned {
		t.Errorf("status = %s, want %s", r.Status, StatusPinned)
	}
	if fr.tarballRequests != before {
		t.Error("pinned skill was fetched")
	}
}

func TestUpdateLatestSentinelAlwaysReinstalls(t *testing.T) {
	fr := reviewRepo()
	ins := testInstaller(t, "acme", "skills", fr)
	installReview(t, ins)

	if err := ins.Store.Mutate(func(db *registry.Database) error {
		db.Installed["review"].Revision = registry.RevisionLatest
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	results, err := ins.Update(context.Background(), nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	r := resultFor(t, results, "review")
	if r.Status != StatusUpdated {
		t.Errorf("status = %s, want %s (err: %v)", r.Status, StatusUpdated, r.Err)
	}
	if r.Revision != "0123456" {
		t.Errorf("revision = %q", r.Revision)
	}
}

func TestUpdateUnknownNameReportedNotFatal(t *testing.T) {
	fr := reviewRepo()
	ins := testInstaller(t, "acme", "skills", fr)
	installReview(t, ins)

	results, err := ins.Update(context.Background(), []string{"ghost", "review"}, 2)
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	ghost := resultFor(t, results, "ghost")
	if ghost.Status != StatusFailed || ghost.Err == nil {
		t.Errorf("ghost result = %+v, want failure", ghost)
	}
	review := resultFor(t, results, "review")
	if review.Status != StatusUpToDate {
		t.Errorf("review status = %s, want %s", review.Status, StatusUpToDate)
	}
}
