package lockfile

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.lock")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("Release() failed: %v", err)
	}
	// Release is safe to call twice.
	if err := l.Release(); err != nil {
		t.Errorf("second Release() failed: %v", err)
	}
}

func TestAcquireCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "db.lock")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire() failed: %v", err)
	}
	defer l.Release()
}

func TestTryAcquireBusy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.lock")

	l1, err := TryAcquire(path)
	if err != nil {
		t.Fatalf("first TryAcquire() failed: %v", err)
	}
	defer l1.Release()

	// flock locks are per file description, so a second open in the same
	// process still contends.
	_, err = TryAcquire(path)
	if !errors.Is(err, ErrLockBusy) {
		t.Errorf("second TryAcquire() = %v, want ErrLockBusy", err)
	}
}

func TestTryAcquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.lock")

	l1, err := TryAcquire(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := l1.Release(); err != nil {
		t.Fatal(err)
	}

	l2, err := TryAcquire(path)
	if err != nil {
		t.Errorf("TryAcquire() after release = %v, want nil", err)
	}
	if l2 != nil {
		l2.Release()
	}
}
