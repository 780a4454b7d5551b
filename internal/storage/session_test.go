package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tasklet/internal/config"
	"tasklet/internal/env"
	"tasklet/internal/primitives"
	"tasklet/internal/task"
)

func testEnv(t *testing.T, now primitives.Date) *env.Env {
	t.Helper()
	return env.New(config.New(), t.TempDir(), now, env.NopFeedback{})
}

func TestLoadOnEmptyDirectoryYieldsNoTasks(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	e := testEnv(t, now)
	store, err := Open(e.DataDir, false)
	require.NoError(t, err)

	sess, err := store.Load(e)
	require.NoError(t, err)
	require.Empty(t, sess.Pending())
}

func TestAddThenCommitPersistsOneF4Line(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	e := testEnv(t, now)
	store, err := Open(e.DataDir, true)
	require.NoError(t, err)

	sess, err := store.Load(e)
	require.NoError(t, err)

	tk := task.NewWithUUID(now)
	tk.Set("description", "Buy milk")
	tk.Set("project", "Home")
	id := sess.Add(tk)
	require.Equal(t, 1, id)

	require.NoError(t, sess.Commit(e))
	require.NoError(t, sess.Release())

	lines, err := readLinesOrEmpty(filepath.Join(e.DataDir, "pending.data"))
	require.NoError(t, err)
	require.Len(t, lines, 1)

	reloaded, err := store.Load(e)
	require.NoError(t, err)
	require.Len(t, reloaded.Pending(), 1)
	got, ok := reloaded.ByID(1)
	require.True(t, ok)
	require.Equal(t, "Buy milk", got.Description())
	require.Equal(t, "Home", got.Get("project"))
}

// TestUndoIsLeftInverse models scenario (2) from spec.md's end-to-end
// scenarios: add, modify, undo must restore the pre-modification value.
func TestUndoIsLeftInverse(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	e := testEnv(t, now)
	store, err := Open(e.DataDir, true)
	require.NoError(t, err)

	sess, err := store.Load(e)
	require.NoError(t, err)
	tk := task.NewWithUUID(now)
	tk.Set("description", "Buy milk")
	tk.Set("priority", "H")
	sess.Add(tk)
	require.NoError(t, sess.Commit(e))
	require.NoError(t, sess.Release())

	sess2, err := store.Load(e)
	require.NoError(t, err)
	t2, _ := sess2.ByID(1)
	t2.Set("priority", "L")
	sess2.MarkDirty(t2)
	require.NoError(t, sess2.Commit(e))
	require.NoError(t, sess2.Release())

	u := newUndo(filepath.Join(e.DataDir, "undo.data"))
	records, err := u.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)

	popped, err := u.PopLast()
	require.NoError(t, err)
	require.NotNil(t, popped)
	require.Contains(t, popped.Old, "priority:\"H\"")

	restored, err := task.ParseLine(popped.Old, "", 0)
	require.NoError(t, err)
	require.Equal(t, "H", restored.Get("priority"))

	remaining, err := u.Records()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
}

// TestGCPreservesTaskSet models property #7: GC only moves tasks between
// files and renumbers IDs, never drops or duplicates a UUID.
func TestGCPreservesTaskSet(t *testing.T) {
	now := primitives.Date{Epoch: 1700000000}
	e := testEnv(t, now)
	store, err := Open(e.DataDir, true)
	require.NoError(t, err)

	sess, err := store.Load(e)
	require.NoError(t, err)

	var uuids []string
	for i := 0; i < 3; i++ {
		tk := task.NewWithUUID(now)
		tk.Set("description", "task")
		if i == 1 {
			tk.SetStatus(task.StatusCompleted)
		}
		sess.Add(tk)
		uuids = append(uuids, tk.UUID())
	}
	require.NoError(t, sess.Commit(e))
	require.NoError(t, sess.GC())
	require.NoError(t, sess.Commit(e))
	require.NoError(t, sess.Release())

	sess2, err := store.Load(e)
	require.NoError(t, err)
	require.Len(t, sess2.Pending(), 2)

	completed, err := sess2.LoadCompleted()
	require.NoError(t, err)
	require.Len(t, completed, 1)

	seen := map[string]bool{}
	for _, tk := range sess2.Pending() {
		seen[tk.UUID()] = true
	}
	for _, tk := range completed {
		seen[tk.UUID()] = true
	}
	for _, u := range uuids {
		require.True(t, seen[u], "uuid %s missing after GC", u)
	}
}

func TestWaitingReaperFlipsPastDueWaitToPending(t *testing.T) {
	now := primitives.Date{Epoch: 2000}
	e := testEnv(t, now)
	store, err := Open(e.DataDir, true)
	require.NoError(t, err)

	sess, err := store.Load(e)
	require.NoError(t, err)
	tk := task.NewWithUUID(now)
	tk.SetStatus(task.StatusWaiting)
	tk.SetDate("wait", primitives.Date{Epoch: 1000})
	sess.Add(tk)
	require.NoError(t, sess.Commit(e))
	require.NoError(t, sess.Release())

	sess2, err := store.Load(e)
	require.NoError(t, err)
	got, _ := sess2.ByID(1)
	require.Equal(t, task.StatusPending, got.Status())
}
