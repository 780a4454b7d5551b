package storage

import (
	"testing"
	"time"
)

func TestAcquireLockIsExclusive(t *testing.T) {
	dir := t.TempDir()
	first, err := acquireLock(dir, time.Second)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer first.Release()

	if _, err := acquireLock(dir, 200*time.Millisecond); err == nil {
		t.Fatalf("expected second acquire to time out while first is held")
	}
}

func TestAcquireLockReleaseAllowsReacquire(t *testing.T) {
	dir := t.TempDir()
	first, err := acquireLock(dir, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	second, err := acquireLock(dir, time.Second)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	defer second.Release()
}

func TestLockGuardReleaseOnNilIsNoop(t *testing.T) {
	var g *lockGuard
	if err := g.Release(); err != nil {
		t.Fatalf("nil guard release should be a no-op: %v", err)
	}
}
