package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupDataDir points TASKDATA at a fresh temp directory and TASKRC at a
// path that never exists, so run() never picks up a real ~/.taskrc from
// the machine running the test.
func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TASKDATA", dir)
	t.Setenv("TASKRC", filepath.Join(dir, "no-such.taskrc"))
	return dir
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// whatever it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = orig
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestAddThenListShowsTheTask(t *testing.T) {
	setupDataDir(t)
	require.NoError(t, run([]string{"add", "Buy", "milk", "project:Home"}))

	out := captureStdout(t, func() {
		require.NoError(t, run([]string{"list"}))
	})
	require.Contains(t, out, "Buy milk")
	require.Contains(t, out, "Home")
}

// TestUndoIsLeftInverse models spec.md's "add, modify, undo" scenario
// against the real CLI surface: undoing a modification restores the
// pre-modification attribute value without re-adding a new change.
func TestUndoIsLeftInverse(t *testing.T) {
	setupDataDir(t)
	require.NoError(t, run([]string{"add", "Buy", "milk", "priority:H"}))
	require.NoError(t, run([]string{"1", "modify", "priority:L"}))

	before := captureStdout(t, func() {
		require.NoError(t, run([]string{"1", "info"}))
	})
	require.Contains(t, before, fmt.Sprintf("  %-12s %s\n", "priority", "L"))

	require.NoError(t, run([]string{"undo"}))

	after := captureStdout(t, func() {
		require.NoError(t, run([]string{"1", "info"}))
	})
	require.Contains(t, after, fmt.Sprintf("  %-12s %s\n", "priority", "H"))
}

// TestDependencyCycleIsRejected models property #5: an edge that would
// close a cycle is refused, leaving the existing graph untouched.
func TestDependencyCycleIsRejected(t *testing.T) {
	setupDataDir(t)
	require.NoError(t, run([]string{"add", "Task", "A"}))
	require.NoError(t, run([]string{"add", "Task", "B"}))
	require.NoError(t, run([]string{"2", "modify", "depends:1"}))

	err := run([]string{"1", "modify", "depends:2"})
	require.Error(t, err)
}

// TestModifyWithNoFilterRequiresConfirmation exercises spec.md §7's
// "mutating command with no filter touches every task" safety rule: a
// non-interactive run can't answer the confirmation prompt and must
// abort rather than silently operate on the whole pending set.
func TestModifyWithNoFilterRequiresConfirmation(t *testing.T) {
	setupDataDir(t)
	require.NoError(t, run([]string{"add", "Task", "A"}))

	err := run([]string{"modify", "priority:H"})
	require.Error(t, err)

	out := captureStdout(t, func() {
		require.NoError(t, run([]string{"1", "info"}))
	})
	require.NotContains(t, out, "priority")
}

func TestDuplicateCreatesAFreshTaskWithoutSharedUUID(t *testing.T) {
	setupDataDir(t)
	require.NoError(t, run([]string{"add", "Task", "A"}))
	require.NoError(t, run([]string{"1", "duplicate"}))

	out := captureStdout(t, func() {
		require.NoError(t, run([]string{"list"}))
	})
	require.Equal(t, 2, strings.Count(out, "Task A"))
}

func TestImportSkipsAlreadyPresentUUID(t *testing.T) {
	dir := setupDataDir(t)
	require.NoError(t, run([]string{"add", "Task", "A"}))

	uuids := strings.TrimSpace(captureStdout(t, func() {
		require.NoError(t, run([]string{"uuids"}))
	}))

	// A hand-built F4 line for the same UUID, as if re-importing a backup
	// of a task that's already present.
	line := fmt.Sprintf(`[description:"Task A" entry:"1700000000" status:"P" uuid:"%s"]`, uuids)
	importFile := filepath.Join(dir, "batch.data")
	require.NoError(t, os.WriteFile(importFile, []byte(line+"\n"), 0o644))

	require.NoError(t, run([]string{"import", importFile}))

	out := captureStdout(t, func() {
		require.NoError(t, run([]string{"list"}))
	})
	require.Equal(t, 1, strings.Count(out, "Task A"))
}
