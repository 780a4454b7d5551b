package storage

import (
	"path/filepath"
	"testing"
)

func TestAtomicWriteLinesRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "pending.data")
	if err := atomicWriteLines(path, []string{"[uuid:\"a\"]", "[uuid:\"b\"]"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines, err := readLinesOrEmpty(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(lines) != 2 || lines[0] != `[uuid:"a"]` || lines[1] != `[uuid:"b"]` {
		t.Fatalf("unexpected lines: %#v", lines)
	}
}

func TestReadLinesOrEmptyOnMissingFile(t *testing.T) {
	lines, err := readLinesOrEmpty(filepath.Join(t.TempDir(), "missing.data"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %v", lines)
	}
}

func TestAppendLineAccumulates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "undo.data")
	if err := appendLine(path, "time 1"); err != nil {
		t.Fatalf("append 1: %v", err)
	}
	if err := appendLine(path, "time 2"); err != nil {
		t.Fatalf("append 2: %v", err)
	}
	lines, err := readLinesOrEmpty(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}
