package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/EYH0602/skillshub/internal/paths"
)

func TestInitializeWithoutConfigFile(t *testing.T) {
	t.Setenv(paths.EnvHome, t.TempDir())

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	if got := Concurrency(); got != 4 {
		t.Errorf("Concurrency() = %d, want default 4", got)
	}
}

func TestInitializeReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(paths.EnvHome, home)
	content := "github:\n  token: from-file\nconcurrency: 8\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	if got := GitHubToken(); got != "from-file" {
		t.Errorf("GitHubToken() = %q, want from-file", got)
	}
	if got := Concurrency(); got != 8 {
		t.Errorf("Concurrency() = %d, want 8", got)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv(paths.EnvHome, t.TempDir())
	t.Setenv("SKILLSHUB_CONCURRENCY", "2")

	if err := Initialize(); err != nil {
		t.Fatal(err)
	}
	if got := Concurrency(); got != 2 {
		t.Errorf("Concurrency() = %d, want 2", got)
	}
}

func TestGitHubTokenEnvFallback(t *testing.T) {
	t.Setenv(paths.EnvHome, t.TempDir())
	t.Setenv("GITHUB_TOKEN", "from-env")

	if err := Initialize(); err != nil {
		t.Fatal(err)
	}
	if got := GitHubToken(); got != "from-env" {
		t.Errorf("GitHubToken() = %q, want from-env", got)
	}
}

func TestGettersNilSafe(t *testing.T) {
	saved := v
	v = nil
	t.Cleanup(func() { v = saved })

	if GetString("x") != "" || GetBool("x") || GetInt("x") != 0 || GetDuration("x") != 0 {
		t.Error("getters not zero-valued with uninitialized config")
	}
}
