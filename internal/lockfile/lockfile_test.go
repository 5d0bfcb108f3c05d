package lockfile

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAcquireReleaseReacquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foxtail.lock")

	lk, err := Acquire(path)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if _, err := Acquire(path); !errors.Is(err, ErrAlreadyLocked) {
		t.Errorf("expected ErrAlreadyLocked for held lock, got %v", err)
	}

	if err := lk.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	lk2, err := Acquire(path)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	_ = lk2.Release()
}

func TestAcquireEmptyPath(t *testing.T) {
	if _, err := Acquire(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestReleaseNil(t *testing.T) {
	var lk *Lock
	if err := lk.Release(); err != nil {
		t.Errorf("nil release: %v", err)
	}
}
