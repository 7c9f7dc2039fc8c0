package github

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-token").WithBaseURL(srv.URL)
}

func TestDefaultBranch(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/skills" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		_, _ = w.Write([]byte(`{"default_branch":"main"}`))
	}))

	branch, err := c.DefaultBranch(context.Background(), "acme", "skills")
	if err != nil {
		t.Fatalf("DefaultBranch() failed: %v", err)
	}
	if branch != "main" {
		t.Errorf("branch = %q, want main", branch)
	}
}

func TestDefaultBranchSourceNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.DefaultBranch(context.Background(), "acme", "missing")
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("err = %v, want ErrSourceNotFound", err)
	}
}

func TestResolveRef(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/skills/commits/main" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"sha":"0123456789abcdef0123456789abcdef01234567"}`))
	}))

	sha, err := c.ResolveRef(context.Background(), "acme", "skills", "main")
	if err != nil {
		t.Fatalf("ResolveRef() failed: %v", err)
	}
	if ShortSHA(sha) != "0123456" {
		t.Errorf("ShortSHA(%q) = %q", sha, ShortSHA(sha))
	}
}

func TestResolveRefNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.ResolveRef(context.Background(), "acme", "skills", "nosuchbranch")
	if !errors.Is(err, ErrRefNotFound) {
		t.Errorf("err = %v, want ErrRefNotFound", err)
	}
}

func TestRateLimited(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"429": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		"403 with zero remaining": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusForbidden)
		},
	} {
		t.Run(name, func(t *testing.T) {
			c := testClient(t, handler)
			_, err := c.ResolveRef(context.Background(), "acme", "skills", "main")
			if !errors.Is(err, ErrRateLimited) {
				t.Errorf("err = %v, want ErrRateLimited", err)
			}
		})
	}
}

func TestServerErrorMapsToNetwork(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.ResolveRef(context.Background(), "acme", "skills", "main")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", err)
	}
}

func TestNoRetryOnFailure(t *testing.T) {
	requests := 0
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, _ = c.ResolveRef(context.Background(), "acme", "skills", "main")
	if requests != 1 {
		t.Errorf("made %d requests, want exactly 1", requests)
	}
}

func TestListTree(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("recursive") != "1" {
			t.Error("missing recursive=1")
		}
		_, _ = w.Write([]byte(`{
			"sha": "abc",
			"tree": [
				{"path": "skills", "type": "tree"},
				{"path": "skills/review/SKILL.md", "type": "blob"}
			],
			"truncated": false
		}`))
	}))

	entries, err := c.ListTree(context.Background(), "acme", "skills", "main")
	if err != nil {
		t.Fatalf("ListTree() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[1].Path != "skills/review/SKILL.md" || entries[1].Type != "blob" {
		t.Errorf("entry = %+v", entries[1])
	}
}

func TestListTreeTruncated(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tree": [], "truncated": true}`))
	}))

	_, err := c.ListTree(context.Background(), "acme", "huge", "main")
	if err == nil {
		t.Error("ListTree() accepted a truncated listing, want error")
	}
}

func TestFetchArchive(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/skills/tarball/abc1234" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("tarball-bytes"))
	}))

	rc, err := c.FetchArchive(context.Background(), "acme", "skills", "abc1234")
	if err != nil {
		t.Fatalf("FetchArchive() failed: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "tarball-bytes" {
		t.Errorf("body = %q", data)
	}
}
