package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/EYH0602/skillshub/internal/github"
)

func TestSplitNameRef(t *testing.T) {
	tests := []struct {
		arg, name, ref string
	}{
		{"review", "review", ""},
		{"review@v2", "review", "v2"},
		{"review@abc1234", "review", "abc1234"},
		{"@weird", "@weird", ""},
		{"a@b@c", "a@b", "c"},
	}
	for _, tt := range tests {
		name, ref := splitNameRef(tt.arg)
		if name != tt.name || ref != tt.ref {
			t.Errorf("splitNameRef(%q) = (%q, %q), want (%q, %q)",
				tt.arg, name, ref, tt.name, tt.ref)
		}
	}
}

func TestDescribeErrRateLimitHint(t *testing.T) {
	wrapped := fmt.Errorf("failed to fetch acme/skills: %w", github.ErrRateLimited)
	if got := describeErr(wrapped); !strings.Contains(got, "GITHUB_TOKEN") {
		t.Errorf("describeErr(%v) = %q, want token hint", wrapped, got)
	}

	plain := errors.New("ref not found")
	if got := describeErr(plain); got != "ref not found" {
		t.Errorf("describeErr(plain) = %q", got)
	}
}
