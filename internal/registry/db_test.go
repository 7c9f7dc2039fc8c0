package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return &Store{
		Path:     filepath.Join(dir, "db.json"),
		LockPath: filepath.Join(dir, "db.lock"),
	}
}

func TestLoadMissingFileSeedsDefaultTap(t *testing.T) {
	s := testStore(t)

	db, err := s.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	tap, ok := db.Taps[DefaultTap]
	if !ok {
		t.Fatalf("default tap %s not seeded", DefaultTap)
	}
	if !tap.IsDefault {
		t.Error("default tap not marked is_default")
	}

	// Load must not create the file.
	if _, err := os.Stat(s.Path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() created %s", s.Path)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := testStore(t)

	db := New()
	db.Installed["code-review"] = &Skill{
		Tap:         "acme/skills",
		Path:        "skills/code-review",
		Revision:    "abc1234",
		Pinned:      true,
		InstalledAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	db.External["scratch"] = &ExternalSkill{
		SourceAgent:  "claude",
		SourcePath:   "/home/u/.claude/skills/scratch",
		DiscoveredAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	if err := s.Save(db); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("schema version = %d, want %d", got.SchemaVersion, CurrentSchemaVersion)
	}
	skill := got.Installed["code-review"]
	if skill == nil {
		t.Fatal("installed skill lost in roundtrip")
	}
	if skill.Revision != "abc1234" || !skill.Pinned {
		t.Errorf("skill = %+v", skill)
	}
	ext := got.External["scratch"]
	if ext == nil || ext.SourceAgent != "claude" {
		t.Errorf("external = %+v", ext)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.Path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load()
	if !errors.Is(err, ErrDatabaseCorrupt) {
		t.Errorf("err = %v, want ErrDatabaseCorrupt", err)
	}
}

func TestMutatePersistsChanges(t *testing.T) {
	s := testStore(t)

	err := s.Mutate(func(db *Database) error {
		db.Installed["review"] = &Skill{
			Tap:      "acme/skills",
			Path:     "skills/review",
			Revision: RevisionLatest,
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate() failed: %v", err)
	}

	db, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := db.Installed["review"]; !ok {
		t.Error("mutation not persisted")
	}
}

func TestMutateErrorWritesNothing(t *testing.T) {
	s := testStore(t)
	boom := errors.New("boom")

	err := s.Mutate(func(db *Database) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Mutate() = %v, want boom", err)
	}
	if _, err := os.Stat(s.Path); !errors.Is(err, os.ErrNotExist) {
		t.Error("failed mutation wrote the database")
	}
}

func TestMutateSeesPriorMutation(t *testing.T) {
	s := testStore(t)

	if err := s.Mutate(func(db *Database) error {
		db.Installed["first"] = &Skill{Tap: "acme/skills", Path: "first", Revision: RevisionLatest}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Mutate(func(db *Database) error {
		if _, ok := db.Installed["first"]; !ok {
			t.Error("second mutation does not see the first")
		}
		db.Installed["second"] = &Skill{Tap: "acme/skills", Path: "second", Revision: RevisionLatest}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	db, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(db.Installed) != 2 {
		t.Errorf("installed count = %d, want 2", len(db.Installed))
	}
}

func TestNameTaken(t *testing.T) {
	db := New()
	db.Installed["a"] = &Skill{}
	db.External["b"] = &ExternalSkill{}

	if !db.NameTaken("a") || !db.NameTaken("b") {
		t.Error("NameTaken() missed a claimed name")
	}
	if db.NameTaken("c") {
		t.Error("NameTaken() claimed a free name")
	}
}

func TestSkillsForTap(t *testing.T) {
	db := New()
	db.Installed["b"] = &Skill{Tap: "acme/skills"}
	db.Installed["a"] = &Skill{Tap: "acme/skills"}
	db.Installed["c"] = &Skill{Tap: "other/repo"}

	got := db.SkillsForTap("acme/skills")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("SkillsForTap() = %v, want [a b]", got)
	}
}
