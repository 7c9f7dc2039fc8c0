package github

import (
	"errors"
	"net/http"
	"time"
)

const (
	// DefaultAPIEndpoint is the GitHub REST API base URL.
	DefaultAPIEndpoint = "https://api.github.com"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// ShortSHALength is the length revisions are truncated to for display
	// and database storage.
	ShortSHALength = 7
)

// Sentinel errors for remote lookups. Callers classify failures with
// errors.Is rather than by inspecting status codes.
var (
	// ErrSourceNotFound indicates the owner/repo does not exist or is not
	// visible with the current credentials.
	ErrSourceNotFound = errors.New("source repository not found")

	// ErrRefNotFound indicates the repository exists but the requested
	// branch, tag, or commit does not.
	ErrRefNotFound = errors.New("ref not found")

	// ErrRateLimited indicates the API rate limit is exhausted.
	ErrRateLimited = errors.New("rate limited by GitHub API")

	// ErrNetwork indicates a transport failure or server-side error.
	ErrNetwork = errors.New("network error")
)

// Client is a GitHub REST API client scoped to skill repository lookups.
// The zero value is not usable; construct with NewClient.
type Client struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

// TreeEntry is one entry of a git tree listing.
type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"` // "blob" or "tree"
	SHA  string `json:"sha"`
}

// treeResponse is the /git/trees API response shape.
type treeResponse struct {
	SHA       string      `json:"sha"`
	Tree      []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// repoResponse is the subset of the /repos/{owner}/{repo} response we use.
type repoResponse struct {
	DefaultBranch string `json:"default_branch"`
}

// commitResponse is the subset of the /repos/{owner}/{repo}/commits/{ref}
// response we use.
type commitResponse struct {
	SHA string `json:"sha"`
}

// ShortSHA truncates a commit SHA for display and storage.
func ShortSHA(sha string) string {
	if len(sha) > ShortSHALength {
		return sha[:ShortSHALength]
	}
	return sha
}
