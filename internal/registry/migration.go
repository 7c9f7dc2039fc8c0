package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/EYH0602/skillshub/internal/utils"
)

// legacyDatabase is the pre-versioned db.json shape: no schema_version tag,
// installed entries carry a commit field and a separate skill name.
type legacyDatabase struct {
	Taps      map[string]legacyTap   `json:"taps"`
	Installed map[string]legacySkill `json:"installed"`
}

type legacyTap struct {
	URL       string    `json:"url"`
	IsDefault bool      `json:"is_default"`
	UpdatedAt time.Time `json:"updated_at"`
}

type legacySkill struct {
	Tap         string    `json:"tap"`
	Skill       string    `json:"skill"`
	Commit      string    `json:"commit"`
	SourcePath  string    `json:"source_path"`
	InstalledAt time.Time `json:"installed_at"`
}

// NeedsMigration reports whether the file at path is a pre-versioned
// document. A missing file needs no migration. A document with a version
// newer than this binary understands is an error.
func (s *Store) NeedsMigration() (bool, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read database: %w", err)
	}

	var probe struct {
		SchemaVersion *int `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrDatabaseCorrupt, s.Path, err)
	}
	if probe.SchemaVersion == nil {
		return true, nil
	}
	if *probe.SchemaVersion > CurrentSchemaVersion {
		return false, fmt.Errorf("database schema version %d is newer than this skillshub understands (max %d)",
			*probe.SchemaVersion, CurrentSchemaVersion)
	}
	return *probe.SchemaVersion < CurrentSchemaVersion, nil
}

// Migrate upgrades a pre-versioned document in place and reports whether
// anything changed. The upgraded document is written to a temp file and
// renamed over the original, so a crash mid-migration leaves the old file
// intact. Safe to call on every startup; current documents are a no-op.
func (s *Store) Migrate() (bool, error) {
	needed, err := s.NeedsMigration()
	if err != nil || !needed {
		return false, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return false, fmt.Errorf("read database: %w", err)
	}

	var legacy legacyDatabase
	if err := json.Unmarshal(data, &legacy); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrDatabaseCorrupt, s.Path, err)
	}

	db := New()
	for name, lt := range legacy.Taps {
		db.Taps[name] = &Tap{
			URL:       lt.URL,
			IsDefault: lt.IsDefault,
			UpdatedAt: lt.UpdatedAt,
		}
	}
	for name, ls := range legacy.Installed {
		revision := ls.Commit
		if revision == "" {
			// Pre-versioned installs did not always record a commit;
			// treat them as tracking the default branch.
			revision = RevisionLatest
		}
		path := ls.SourcePath
		if path == "" {
			path = ls.Skill
		}
		db.Installed[name] = &Skill{
			Tap:         ls.Tap,
			Path:        path,
			Revision:    revision,
			InstalledAt: ls.InstalledAt,
		}
	}

	out, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return false, fmt.Errorf("marshal migrated database: %w", err)
	}
	out = append(out, '\n')
	if err := utils.WriteFileAtomic(s.Path, out, 0o644); err != nil {
		return false, fmt.Errorf("write migrated database: %w", err)
	}
	return true, nil
}
