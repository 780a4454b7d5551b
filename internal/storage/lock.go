package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockGuard wraps an advisory file lock scoped to one Store operation. The
// caller that acquires it is always responsible for deferring Release at
// the call site, mirroring the scoped-lock discipline the teacher's
// postgres advisory lock follows for its database-backed equivalent.
type lockGuard struct {
	fl *flock.Flock
}

// acquireLock takes the exclusive lock on dataDir/.tasklet.lock, retrying
// with a short backoff until timeout elapses. A data directory with
// locking disabled (Store.locking == false, e.g. for read-only reporting
// commands) never calls this.
func acquireLock(dataDir string, timeout time.Duration) (*lockGuard, error) {
	path := filepath.Join(dataDir, ".tasklet.lock")
	fl := flock.New(path)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire lock %s: timed out after %s", path, timeout)
	}
	return &lockGuard{fl: fl}, nil
}

// Release drops the lock. Safe to call on a nil guard (unlocked Store).
func (g *lockGuard) Release() error {
	if g == nil || g.fl == nil {
		return nil
	}
	return g.fl.Unlock()
}
