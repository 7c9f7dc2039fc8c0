// Package reconciler keeps agent skills directories converged with the
// database. Each agent directory should hold one symlink per installed
// skill (into the content store) and one per external skill owned by
// another agent (into that agent's directory). The reconciler computes the
// desired set, compares it with what is on disk, and fixes the difference.
// Running it twice in a row changes nothing the second time.
package reconciler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/EYH0602/skillshub/internal/agent"
	"github.com/EYH0602/skillshub/internal/paths"
	"github.com/EYH0602/skillshub/internal/registry"
	"github.com/EYH0602/skillshub/internal/skill"
)

// Reconciler converges agent directories for one user home.
type Reconciler struct {
	Store    *registry.Store
	StoreDir string
	Home     string
}

// New builds a reconciler over the standard locations.
func New() (*Reconciler, error) {
	store, err := registry.Open()
	if err != nil {
		return nil, err
	}
	storeDir, err := paths.StoreDir()
	if err != nil {
		return nil, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determine home directory: %w", err)
	}
	return &Reconciler{Store: store, StoreDir: storeDir, Home: home}, nil
}

// Link identifies one symlink operation performed during convergence.
type Link struct {
	Agent string
	Name  string
	Path  string
}

// Conflict reports a desired link whose slot is occupied by something the
// reconciler refuses to touch. Conflicts are warnings, never fatal.
type Conflict struct {
	Agent string
	Name  string
	Path  string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: %s occupied by unmanaged entry %s", c.Agent, c.Name, paths.DisplayPath(c.Path))
}

// Result summarizes one reconcile run.
type Result struct {
	Agents    []string
	Created   []Link
	Removed   []Link
	Conflicts []Conflict

	// Adopted lists external skills discovered this run; Forgotten lists
	// external records whose source directory disappeared.
	Adopted   []string
	Forgotten []string
}

// Changed reports whether the run touched the filesystem or the database.
func (r *Result) Changed() bool {
	return len(r.Created) > 0 || len(r.Removed) > 0 || len(r.Adopted) > 0 || len(r.Forgotten) > 0
}

// Reconcile runs the external-discovery pass followed by the convergence
// pass over every detected agent. Both passes run under the database lock
// so concurrent invocations see consistent link state.
func (r *Reconciler) Reconcile() (*Result, error) {
	res := &Result{}
	agents := agent.Detect(r.Home)
	for _, a := range agents {
		res.Agents = append(res.Agents, a.Name)
	}

	err := r.Store.Mutate(func(db *registry.Database) error {
		r.scanExternals(db, agents, res)
		for _, a := range agents {
			if err := r.converge(db, a, res); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(res.Adopted)
	sort.Strings(res.Forgotten)
	return res, nil
}

// scanExternals adopts unmanaged skill directories found in agent
// directories and forgets external records whose source is gone. Agents
// are visited in the fixed Known order, so when two agents hold a real
// directory with the same name the earlier agent becomes the source.
func (r *Reconciler) scanExternals(db *registry.Database, agents []agent.Agent, res *Result) {
	// Installed skills shadow externals of the same name.
	for name, ext := range db.External {
		if _, installed := db.Installed[name]; installed {
			delete(db.External, name)
			res.Forgotten = append(res.Forgotten, name)
			continue
		}
		if !skill.IsSkillDir(ext.SourcePath) {
			delete(db.External, name)
			res.Forgotten = append(res.Forgotten, name)
		}
	}

	for _, a := range agents {
		dir := a.SkillsDir(r.Home)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			path := filepath.Join(dir, name)

			info, err := os.Lstat(path)
			if err != nil || info.Mode()&os.ModeSymlink != 0 {
				continue
			}
			if !info.IsDir() || !skill.IsSkillDir(path) {
				continue
			}
			if db.NameTaken(name) {
				continue
			}

			db.External[name] = &registry.ExternalSkill{
				SourceAgent:  a.Name,
				SourcePath:   path,
				DiscoveredAt: time.Now().UTC(),
			}
			res.Adopted = append(res.Adopted, name)
		}
	}
}

// converge brings one agent directory in line with the desired link set.
func (r *Reconciler) converge(db *registry.Database, a agent.Agent, res *Result) error {
	dir := a.SkillsDir(r.Home)

	desired := map[string]string{}
	for name, rec := range db.Installed {
		desired[name] = paths.StorePath(r.StoreDir, rec.Tap, rec.Path)
	}
	for name, ext := range db.External {
		if ext.SourceAgent == a.Name {
			continue
		}
		desired[name] = ext.SourcePath
	}

	if len(desired) > 0 {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s skills directory: %w", a.Name, err)
		}
	}

	names := make([]string, 0, len(desired))
	for name := range desired {
		names = append(names, name)
	}
	sort.Strings(names)

	// Create or fix desired links.
	for _, name := range names {
		target := desired[name]
		path := filepath.Join(dir, name)
		info, err := os.Lstat(path)

		switch {
		case errors.Is(err, os.ErrNotExist):
			if err := os.Symlink(target, path); err != nil {
				return fmt.Errorf("link %s for %s: %w", name, a.Name, err)
			}
			res.Created = append(res.Created, Link{Agent: a.Name, Name: name, Path: path})

		case err != nil:
			return err

		case info.Mode()&os.ModeSymlink != 0:
			current, err := os.Readlink(path)
			if err != nil {
				return err
			}
			if current == target {
				continue
			}
			// Only links skillshub created get retargeted; a user's own
			// symlink stays put and is reported instead.
			if !r.isToolTarget(current) {
				res.Conflicts = append(res.Conflicts, Conflict{Agent: a.Name, Name: name, Path: path})
				continue
			}
			if err := os.Remove(path); err != nil {
				return err
			}
			if err := os.Symlink(target, path); err != nil {
				return fmt.Errorf("relink %s for %s: %w", name, a.Name, err)
			}
			res.Removed = append(res.Removed, Link{Agent: a.Name, Name: name, Path: path})
			res.Created = append(res.Created, Link{Agent: a.Name, Name: name, Path: path})

		default:
			// A real file or directory sits where the link belongs.
			res.Conflicts = append(res.Conflicts, Conflict{Agent: a.Name, Name: name, Path: path})
		}
	}

	// Remove stale tool-created links.
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if _, ok := desired[name]; ok {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Lstat(path)
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			continue
		}
		target, err := os.Readlink(path)
		if err != nil {
			continue
		}
		if !r.isToolTarget(target) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale link %s for %s: %w", name, a.Name, err)
		}
		res.Removed = append(res.Removed, Link{Agent: a.Name, Name: name, Path: path})
	}
	return nil
}

// isToolTarget reports whether a symlink target is one skillshub would have
// created: into the content store, or into another agent's skills
// directory. Links pointing anywhere else belong to the user.
func (r *Reconciler) isToolTarget(target string) bool {
	if underDir(target, r.StoreDir) {
		return true
	}
	for _, a := range agent.Known {
		if underDir(target, a.SkillsDir(r.Home)) {
			return true
		}
	}
	return false
}

func underDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Clean removes every tool-created link from every detected agent
// directory. Real directories and foreign links stay.
func (r *Reconciler) Clean() ([]Link, error) {
	agents := agent.Detect(r.Home)
	var removed []Link
	for _, a := range agents {
		dir := a.SkillsDir(r.Home)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			info, err := os.Lstat(path)
			if err != nil || info.Mode()&os.ModeSymlink == 0 {
				continue
			}
			target, err := os.Readlink(path)
			if err != nil || !r.isToolTarget(target) {
				continue
			}
			if err := os.Remove(path); err != nil {
				return removed, err
			}
			removed = append(removed, Link{Agent: a.Name, Name: e.Name(), Path: path})
		}
	}
	return removed, nil
}
