// Package registry owns the skillshub database: the single JSON document
// recording known taps, installed skills, and external skills discovered in
// agent directories. The document is the source of truth; agent directories
// hold only symlinks derived from it.
package registry

import (
	"errors"
	"sort"
	"time"
)

const (
	// CurrentSchemaVersion tags the database document shape. Documents
	// without the tag predate versioning and go through migration.
	CurrentSchemaVersion = 2

	// RevisionLatest marks a skill that tracks its tap's default branch
	// rather than a pinned commit. Update always reinstalls these.
	RevisionLatest = "latest"

	// DefaultTap is seeded into every new database.
	DefaultTap = "EYH0602/skillshub"
)

var (
	// ErrDatabaseCorrupt indicates db.json exists but cannot be parsed.
	// Never auto-repaired; the user must intervene.
	ErrDatabaseCorrupt = errors.New("database file is corrupt")

	// ErrSkillNotFound indicates the named skill is not in the database.
	ErrSkillNotFound = errors.New("skill not found")

	// ErrTapNotFound indicates the named tap is not in the database.
	ErrTapNotFound = errors.New("tap not found")

	// ErrNameCollision indicates an install would reuse a name already
	// taken by another installed or external skill.
	ErrNameCollision = errors.New("skill name already in use")

	// ErrTapInUse indicates a tap removal was refused because installed
	// skills still reference it.
	ErrTapInUse = errors.New("tap has installed skills")
)

// Database is the full db.json document.
type Database struct {
	SchemaVersion int                       `json:"schema_version"`
	Taps          map[string]*Tap           `json:"taps"`
	Installed     map[string]*Skill         `json:"installed"`
	External      map[string]*ExternalSkill `json:"external,omitempty"`
}

// Tap is a known skill source, keyed by "owner/repo" in Database.Taps.
type Tap struct {
	URL        string    `json:"url"`
	DefaultRef string    `json:"default_ref,omitempty"`
	IsDefault  bool      `json:"is_default,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Skills caches the bundle list from the last discovery run against
	// this tap, keyed by display name.
	Skills map[string]*Bundle `json:"skills,omitempty"`
}

// Bundle is one discovered skill candidate inside a tap's tree.
type Bundle struct {
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// Skill is an installed skill, keyed by display name in Database.Installed.
type Skill struct {
	Tap         string    `json:"tap"`
	Path        string    `json:"path"`
	Revision    string    `json:"revision"`
	Pinned      bool      `json:"pinned,omitempty"`
	InstalledAt time.Time `json:"installed_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// ExternalSkill is a skill directory found in an agent's skills directory
// that skillshub did not install. It is mirrored to other agents but its
// content is never touched.
type ExternalSkill struct {
	SourceAgent  string    `json:"source_agent"`
	SourcePath   string    `json:"source_path"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// New returns an empty database seeded with the default tap.
func New() *Database {
	return &Database{
		SchemaVersion: CurrentSchemaVersion,
		Taps: map[string]*Tap{
			DefaultTap: {
				URL:       "https://github.com/" + DefaultTap,
				IsDefault: true,
				UpdatedAt: time.Now().UTC(),
			},
		},
		Installed: map[string]*Skill{},
		External:  map[string]*ExternalSkill{},
	}
}

// TapNames returns tap keys in sorted order.
func (db *Database) TapNames() []string {
	names := make([]string, 0, len(db.Taps))
	for name := range db.Taps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SkillNames returns installed skill names in sorted order.
func (db *Database) SkillNames() []string {
	names := make([]string, 0, len(db.Installed))
	for name := range db.Installed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExternalNames returns external skill names in sorted order.
func (db *Database) ExternalNames() []string {
	names := make([]string, 0, len(db.External))
	for name := range db.External {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NameTaken reports whether name is claimed by an installed or external skill.
func (db *Database) NameTaken(name string) bool {
	if _, ok := db.Installed[name]; ok {
		return true
	}
	_, ok := db.External[name]
	return ok
}

// SkillsForTap returns names of installed skills referencing the tap, sorted.
func (db *Database) SkillsForTap(tap string) []string {
	var names []string
	for name, s := range db.Installed {
		if s.Tap == tap {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
