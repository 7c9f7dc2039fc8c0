// Package github provides a client for the subset of the GitHub REST API
// skillshub needs: ref resolution, tree listings, and tarball downloads.
//
// The client makes exactly one request per call and classifies failures into
// sentinel errors. Retry policy belongs to callers, which know whether an
// operation is worth repeating.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// NewClient creates a new GitHub client. An empty token means
// unauthenticated requests (60/hour rate limit).
func NewClient(token string) *Client {
	return &Client{
		Token:   token,
		BaseURL: DefaultAPIEndpoint,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithBaseURL returns a new client with a custom base URL (for testing or
// GitHub Enterprise).
func (c *Client) WithBaseURL(baseURL string) *Client {
	return &Client{
		Token:      c.Token,
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: c.HTTPClient,
	}
}

// WithHTTPClient returns a new client with a custom HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		Token:      c.Token,
		BaseURL:    c.BaseURL,
		HTTPClient: httpClient,
	}
}

// buildURL constructs a full API URL.
func (c *Client) buildURL(path string, params map[string]string) string {
	u := c.BaseURL + path

	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		u += "?" + values.Encode()
	}

	return u
}

// get performs a single authenticated GET and returns the raw response.
// The caller owns the body. Transport failures map to ErrNetwork; HTTP
// status classification happens in checkStatus.
func (c *Client) get(ctx context.Context, urlStr string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return resp, nil
}

// checkStatus maps a non-2xx response to a sentinel error. notFound is the
// sentinel for 404, which means different things per endpoint (missing repo
// vs missing ref).
func checkStatus(resp *http.Response, notFound error) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// GitHub signals rate limiting with 429, or 403 with the remaining
	// quota header at zero.
	if resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0") {
		return ErrRateLimited
	}

	if resp.StatusCode == http.StatusNotFound {
		return notFound
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: server returned status %d", ErrNetwork, resp.StatusCode)
	}

	return fmt.Errorf("API error: status %d", resp.StatusCode)
}

// getJSON performs a GET and decodes the response into v.
func (c *Client) getJSON(ctx context.Context, urlStr string, notFound error, v interface{}) error {
	resp, err := c.get(ctx, urlStr)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, notFound); err != nil {
		return err
	}

	const maxResponseSize = 50 * 1024 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrNetwork, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// DefaultBranch returns the repository's default branch name.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	urlStr := c.buildURL("/repos/"+owner+"/"+repo, nil)

	var r repoResponse
	if err := c.getJSON(ctx, urlStr, ErrSourceNotFound, &r); err != nil {
		return "", fmt.Errorf("failed to fetch %s/%s: %w", owner, repo, err)
	}
	if r.DefaultBranch == "" {
		return "", fmt.Errorf("repository %s/%s has no default branch", owner, repo)
	}
	return r.DefaultBranch, nil
}

// ResolveRef resolves a branch, tag, or commit-ish to a full commit SHA.
func (c *Client) ResolveRef(ctx context.Context, owner, repo, ref string) (string, error) {
	urlStr := c.buildURL("/repos/"+owner+"/"+repo+"/commits/"+url.PathEscape(ref), nil)

	var r commitResponse
	if err := c.getJSON(ctx, urlStr, ErrRefNotFound, &r); err != nil {
		return "", fmt.Errorf("failed to resolve %s/%s@%s: %w", owner, repo, ref, err)
	}
	if r.SHA == "" {
		return "", fmt.Errorf("empty commit SHA for %s/%s@%s", owner, repo, ref)
	}
	return r.SHA, nil
}

// ListTree lists the full recursive tree at the given ref. Entries come
// back in the API's order; callers needing determinism must sort.
func (c *Client) ListTree(ctx context.Context, owner, repo, ref string) ([]TreeEntry, error) {
	urlStr := c.buildURL("/repos/"+owner+"/"+repo+"/git/trees/"+url.PathEscape(ref),
		map[string]string{"recursive": "1"})

	var r treeResponse
	if err := c.getJSON(ctx, urlStr, ErrRefNotFound, &r); err != nil {
		return nil, fmt.Errorf("failed to list tree %s/%s@%s: %w", owner, repo, ref, err)
	}
	if r.Truncated {
		return nil, fmt.Errorf("tree listing for %s/%s@%s truncated by API; repository too large", owner, repo, ref)
	}
	return r.Tree, nil
}

// FetchArchive streams the repository tarball at the given ref. The caller
// must close the returned reader. GitHub redirects tarball requests to a
// signed codeload URL; the default HTTP client follows it.
func (c *Client) FetchArchive(ctx context.Context, owner, repo, ref string) (io.ReadCloser, error) {
	urlStr := c.buildURL("/repos/"+owner+"/"+repo+"/tarball/"+url.PathEscape(ref), nil)

	resp, err := c.get(ctx, urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s/%s@%s: %w", owner, repo, ref, err)
	}
	if err := checkStatus(resp, ErrRefNotFound); err != nil {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to download %s/%s@%s: %w", owner, repo, ref, err)
	}
	return resp.Body, nil
}
