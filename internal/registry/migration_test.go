package registry

import (
	"os"
	"testing"
)

const legacyDoc = `{
  "taps": {
    "acme/skills": {
      "url": "https://github.com/acme/skills",
      "is_default": false,
      "updated_at": "2025-11-01T10:00:00Z"
    }
  },
  "installed": {
    "code-review": {
      "tap": "acme/skills",
      "skill": "code-review",
      "commit": "abc1234",
      "source_path": "skills/code-review",
      "installed_at": "2025-11-02T10:00:00Z"
    },
    "no-commit": {
      "tap": "acme/skills",
      "skill": "no-commit",
      "installed_at": "2025-11-03T10:00:00Z"
    }
  }
}`

func TestMigrateLegacyDocument(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.Path, []byte(legacyDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	migrated, err := s.Migrate()
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if !migrated {
		t.Fatal("Migrate() reported no-op for a legacy document")
	}

	db, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if db.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("schema version = %d, want %d", db.SchemaVersion, CurrentSchemaVersion)
	}
	if _, ok := db.Taps["acme/skills"]; !ok {
		t.Error("tap lost in migration")
	}

	cr := db.Installed["code-review"]
	if cr == nil {
		t.Fatal("installed skill lost in migration")
	}
	if cr.Revision != "abc1234" {
		t.Errorf("revision = %q, want abc1234", cr.Revision)
	}
	if cr.Path != "skills/code-review" {
		t.Errorf("path = %q", cr.Path)
	}

	nc := db.Installed["no-commit"]
	if nc == nil {
		t.Fatal("commit-less skill lost in migration")
	}
	if nc.Revision != RevisionLatest {
		t.Errorf("revision = %q, want %q", nc.Revision, RevisionLatest)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.Path, []byte(legacyDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Migrate(); err != nil {
		t.Fatal(err)
	}
	migrated, err := s.Migrate()
	if err != nil {
		t.Fatalf("second Migrate() failed: %v", err)
	}
	if migrated {
		t.Error("second Migrate() was not a no-op")
	}
}

func TestMigrateMissingFile(t *testing.T) {
	s := testStore(t)

	migrated, err := s.Migrate()
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if migrated {
		t.Error("Migrate() claimed to migrate a missing file")
	}
}

func TestNeedsMigrationFutureVersion(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.Path, []byte(`{"schema_version": 99}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.NeedsMigration(); err == nil {
		t.Error("NeedsMigration() accepted a future schema version")
	}
}
