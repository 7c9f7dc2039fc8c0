package github

import (
	"fmt"
	"strings"
)

// Source identifies a location inside a GitHub repository. Ref and Path are
// empty when the input did not carry a /tree/ segment.
type Source struct {
	Owner string
	Repo  string
	Ref   string
	Path  string
}

// String renders the owner/repo form used throughout the database.
func (s Source) String() string {
	return s.Owner + "/" + s.Repo
}

// RepoURL returns the canonical https URL of the repository.
func (s Source) RepoURL() string {
	return "https://github.com/" + s.Owner + "/" + s.Repo
}

// ParseSource parses a repository reference in any of the accepted forms:
//
//	owner/repo
//	https://github.com/owner/repo
//	https://github.com/owner/repo.git
//	https://github.com/owner/repo/tree/ref
//	https://github.com/owner/repo/tree/ref/path/to/dir
//
// git@ SSH remotes are not accepted; everything goes through the REST API.
func ParseSource(input string) (Source, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimSuffix(s, "/")

	for _, prefix := range []string{"https://github.com/", "http://github.com/", "github.com/"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}

	if s == "" || strings.Contains(s, "://") {
		return Source{}, fmt.Errorf("unsupported repository reference: %q", input)
	}

	parts := strings.Split(s, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Source{}, fmt.Errorf("expected owner/repo, got %q", input)
	}
	if strings.ContainsAny(parts[0], "@:") {
		return Source{}, fmt.Errorf("unsupported repository reference: %q (use owner/repo or an https URL)", input)
	}

	src := Source{
		Owner: parts[0],
		Repo:  strings.TrimSuffix(parts[1], ".git"),
	}

	if len(parts) == 2 {
		return src, nil
	}

	// Anything deeper must be a /tree/{ref}[/path...] URL.
	if parts[2] != "tree" || len(parts) < 4 {
		return Source{}, fmt.Errorf("unsupported repository path in %q (expected /tree/<ref>/...)", input)
	}
	src.Ref = parts[3]
	if len(parts) > 4 {
		src.Path = strings.Join(parts[4:], "/")
	}
	return src, nil
}
