// Package discovery finds skill bundles inside a repository tree listing.
// A bundle is any directory containing a SKILL.md blob; the repository root
// counts too. Discovery never fetches content, only reads the listing.
package discovery

import (
	"sort"
	"strings"

	"github.com/EYH0602/skillshub/internal/github"
	"github.com/EYH0602/skillshub/internal/skill"
)

// Candidate is one discovered bundle. Path is the directory relative to
// the repository root, "" when the root itself is the bundle. Name is the
// unique display name assigned within this discovery run.
type Candidate struct {
	Name string
	Path string
}

// Discover scans a recursive tree listing for SKILL.md markers and returns
// one candidate per containing directory, sorted by path.
//
// Names default to the final path segment (the repository name for a root
// bundle). When two bundles share a final segment, each colliding name is
// qualified with enclosing segments joined by "-" until names are unique.
// The same listing always yields the same names. In the degenerate case
// where two bundles still collide at full depth, the first in path order
// keeps the name and the rest are dropped.
func Discover(entries []github.TreeEntry, repo string) []Candidate {
	seen := map[string]bool{}
	var dirs []string
	for _, e := range entries {
		if e.Type != "blob" {
			continue
		}
		var dir string
		switch {
		case e.Path == skill.MarkerFile:
			dir = ""
		case strings.HasSuffix(e.Path, "/"+skill.MarkerFile):
			dir = strings.TrimSuffix(e.Path, "/"+skill.MarkerFile)
		default:
			continue
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)

	cands := make([]candidate, len(dirs))
	for i, dir := range dirs {
		cands[i] = candidate{dir: dir, depth: 1}
		if dir != "" {
			cands[i].segs = strings.Split(dir, "/")
		}
	}

	resolveCollisions(cands, repo)

	var out []Candidate
	taken := map[string]bool{}
	for _, c := range cands {
		name := c.name(repo)
		if taken[name] {
			continue
		}
		taken[name] = true
		out = append(out, Candidate{Name: name, Path: c.dir})
	}
	return out
}

type candidate struct {
	dir   string
	segs  []string
	depth int
}

// name joins the last depth segments with "-". A root bundle is named
// after the repository.
func (c candidate) name(repo string) string {
	if len(c.segs) == 0 {
		return repo
	}
	d := c.depth
	if d > len(c.segs) {
		d = len(c.segs)
	}
	return strings.Join(c.segs[len(c.segs)-d:], "-")
}

// resolveCollisions deepens the qualification of every colliding name
// until all names are unique or no colliding candidate can deepen further.
func resolveCollisions(cands []candidate, repo string) {
	for {
		byName := map[string][]int{}
		for i, c := range cands {
			byName[c.name(repo)] = append(byName[c.name(repo)], i)
		}

		changed := false
		for _, group := range byName {
			if len(group) < 2 {
				continue
			}
			for _, i := range group {
				if cands[i].depth < len(cands[i].segs) {
					cands[i].depth++
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}
