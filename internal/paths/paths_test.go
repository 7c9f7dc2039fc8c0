package paths

import (
	"path/filepath"
	"testing"
)

func TestHomeEnvOverride(t *testing.T) {
	t.Setenv(EnvHome, "/test/home")

	home, err := Home()
	if err != nil {
		t.Fatalf("Home() failed: %v", err)
	}
	if home != "/test/home" {
		t.Errorf("Home() = %q, want /test/home", home)
	}
}

func TestDatabaseFileUnderHome(t *testing.T) {
	t.Setenv(EnvHome, "/test/home")

	dbPath, err := DatabaseFile()
	if err != nil {
		t.Fatalf("DatabaseFile() failed: %v", err)
	}
	if dbPath != filepath.Join("/test/home", "db.json") {
		t.Errorf("DatabaseFile() = %q, want /test/home/db.json", dbPath)
	}
}

func TestStorePath(t *testing.T) {
	tests := []struct {
		source, rel, want string
	}{
		{"acme/tools", "skills/lint", filepath.Join("/store", "acme", "tools", "skills", "lint")},
		{"acme/tools", "", filepath.Join("/store", "acme", "tools")},
		{"legacy-tap", "skills/x", filepath.Join("/store", "_", "legacy-tap", "skills", "x")},
	}
	for _, tt := range tests {
		got := StorePath("/store", tt.source, tt.rel)
		if got != tt.want {
			t.Errorf("StorePath(%q, %q) = %q, want %q", tt.source, tt.rel, got, tt.want)
		}
	}
}

func TestStorePathDeterministic(t *testing.T) {
	a := StorePath("/store", "acme/tools", "skills/lint")
	b := StorePath("/store", "acme/tools", "skills/lint")
	if a != b {
		t.Errorf("StorePath not deterministic: %q vs %q", a, b)
	}
}
