// Package skill reads SKILL.md manifests. A directory is a skill iff it
// contains a SKILL.md file; the file's YAML frontmatter carries the
// metadata agents read.
package skill

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarkerFile is the file whose presence makes a directory a skill.
const MarkerFile = "SKILL.md"

// Manifest is the parsed SKILL.md frontmatter.
type Manifest struct {
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	AllowedTools StringList `yaml:"allowed-tools"`

	// Body is the markdown after the frontmatter, rendered by `info`.
	Body string `yaml:"-"`
}

// StringList accepts either a YAML scalar ("Bash, Read") or a sequence.
// Skill authors write both forms in the wild.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = splitCommaList(s)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("allowed-tools must be a string or a list")
	}
}

func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var frontmatterDelim = []byte("---")

// Parse parses SKILL.md content. Files without frontmatter yield an empty
// manifest with the whole content as body; a manifest name is not required
// (the directory name wins anyway).
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}

	trimmed := bytes.TrimLeft(data, "\uFEFF\r\n \t")
	if !bytes.HasPrefix(trimmed, frontmatterDelim) {
		m.Body = string(data)
		return m, nil
	}

	rest := trimmed[len(frontmatterDelim):]
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	if len(rest) > 0 && rest[0] == '\n' {
		rest = rest[1:]
	}

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, fmt.Errorf("unterminated frontmatter")
	}
	front := rest[:end]
	body := rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}

	if err := yaml.Unmarshal(front, m); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	m.Body = string(body)
	return m, nil
}

// ReadDir reads and parses dir/SKILL.md. os.ErrNotExist passes through so
// callers can distinguish "not a skill" from "broken manifest".
func ReadDir(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, MarkerFile))
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Join(dir, MarkerFile), err)
	}
	return m, nil
}

// IsSkillDir reports whether dir contains a SKILL.md marker.
func IsSkillDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MarkerFile))
	return err == nil && info.Mode().IsRegular()
}
