// Package agent knows which AI coding agents skillshub links skills into
// and where each one keeps its skills directory.
package agent

import (
	"os"
	"path/filepath"
)

// Agent is one known coding agent. Dir is the agent's config directory
// under the user's home; SkillsSubdir is where it looks for skills.
type Agent struct {
	Name         string
	Dir          string
	SkillsSubdir string
}

// Known lists every agent skillshub supports, in priority order. The order
// is part of external-skill adoption semantics (the earliest agent holding
// a copy of a skill wins ties), so entries must not be reordered.
var Known = []Agent{
	{Name: "claude", Dir: ".claude", SkillsSubdir: "skills"},
	{Name: "codex", Dir: ".codex", SkillsSubdir: "skills"},
	{Name: "opencode", Dir: ".opencode", SkillsSubdir: "skill"},
	{Name: "aider", Dir: ".aider", SkillsSubdir: "skills"},
	{Name: "cursor", Dir: ".cursor", SkillsSubdir: "skills"},
	{Name: "continue", Dir: ".continue", SkillsSubdir: "skills"},
}

// ConfigDir returns the agent's config directory under home.
func (a Agent) ConfigDir(home string) string {
	return filepath.Join(home, a.Dir)
}

// SkillsDir returns the agent's skills directory under home. The directory
// may not exist yet; the reconciler creates it when linking.
func (a Agent) SkillsDir(home string) string {
	return filepath.Join(home, a.Dir, a.SkillsSubdir)
}

// Detect returns the subset of Known agents whose config directory exists
// under home, preserving Known order.
func Detect(home string) []Agent {
	var present []Agent
	for _, a := range Known {
		if info, err := os.Stat(a.ConfigDir(home)); err == nil && info.IsDir() {
			present = append(present, a)
		}
	}
	return present
}

// ByName returns the Known agent with the given name.
func ByName(name string) (Agent, bool) {
	for _, a := range Known {
		if a.Name == name {
			return a, true
		}
	}
	return Agent{}, false
}
