// Package storage implements TDB2, the on-disk task database: advisory
// locking, the pending/completed/undo/backlog file quartet, load-time
// waiting-reaper and recurrence materialization, commit-time undo
// journaling, and garbage collection.
package storage

import (
	"os"
	"path/filepath"
	"time"

	"tasklet/internal/env"
	"tasklet/internal/primitives"
)

// Store owns one data directory and the four files TDB2 manages within
// it (spec.md §4.3, §6.1).
type Store struct {
	dir     string
	pending string
	completed string
	undo    string
	backlog string
	locking bool
}

// Open resolves dataDir's four file paths and creates the directory if
// missing. locking controls whether Load acquires the advisory file lock;
// read-only reporting commands pass false.
func Open(dataDir string, locking bool) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &Store{
		dir:       dataDir,
		pending:   filepath.Join(dataDir, "pending.data"),
		completed: filepath.Join(dataDir, "completed.data"),
		undo:      filepath.Join(dataDir, "undo.data"),
		backlog:   filepath.Join(dataDir, "backlog.data"),
		locking:   locking,
	}, nil
}

func (s *Store) lockTimeout(e *env.Env) time.Duration {
	d := e.Config.GetDuration("locking.timeout", primitives.Duration{Seconds: 2})
	return time.Duration(d.Value()) * time.Second
}
