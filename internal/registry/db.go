package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/EYH0602/skillshub/internal/lockfile"
	"github.com/EYH0602/skillshub/internal/paths"
	"github.com/EYH0602/skillshub/internal/utils"
)

// Store reads and writes the database document at a fixed path. All writes
// go through Mutate, which holds the flock for the whole
// load-mutate-replace cycle so concurrent invocations serialize.
type Store struct {
	Path     string
	LockPath string
}

// Open returns a store for the standard database location.
func Open() (*Store, error) {
	dbPath, err := paths.DatabaseFile()
	if err != nil {
		return nil, err
	}
	lockPath, err := paths.LockFile()
	if err != nil {
		return nil, err
	}
	return &Store{Path: dbPath, LockPath: lockPath}, nil
}

// Load reads the database. A missing file yields a fresh seeded database
// without writing anything. An unparsable file is ErrDatabaseCorrupt.
func (s *Store) Load() (*Database, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}

	var db Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDatabaseCorrupt, s.Path, err)
	}
	if db.Taps == nil {
		db.Taps = map[string]*Tap{}
	}
	if db.Installed == nil {
		db.Installed = map[string]*Skill{}
	}
	if db.External == nil {
		db.External = map[string]*ExternalSkill{}
	}
	return &db, nil
}

// Save writes the database atomically (temp file + rename). Callers outside
// Mutate must hold no expectations about concurrent writers.
func (s *Store) Save(db *Database) error {
	db.SchemaVersion = CurrentSchemaVersion
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal database: %w", err)
	}
	data = append(data, '\n')
	return utils.WriteFileAtomic(s.Path, data, 0o644)
}

// Mutate applies fn to a freshly loaded copy of the database and writes the
// result back, all under the exclusive lock. Reloading under the lock means
// fn always sees the latest committed state, so concurrent invocations
// cannot clobber each other's records. If fn returns an error nothing is
// written.
func (s *Store) Mutate(fn func(*Database) error) error {
	lock, err := lockfile.Acquire(s.LockPath)
	if err != nil {
		return fmt.Errorf("lock database: %w", err)
	}
	defer func() { _ = lock.Release() }()

	db, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(db); err != nil {
		return err
	}
	return s.Save(db)
}
