package storage

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// UndoRecord is one transaction in undo.data: the F4 line before and/or
// after a mutation, per spec.md §6.1. Old is empty for a newly created
// task; New is empty for a task that was deleted outright rather than
// status-flipped.
type UndoRecord struct {
	Time int64
	Old  string
	New  string
}

func (r UndoRecord) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "time %d\n", r.Time)
	if r.Old != "" {
		fmt.Fprintf(&b, "old %s\n", r.Old)
	}
	if r.New != "" {
		fmt.Fprintf(&b, "new %s\n", r.New)
	}
	b.WriteString("---\n")
	return b.String()
}

// Undo owns the undo.data journal: appending records as commits happen,
// and popping the most recent one for `task undo`.
type Undo struct {
	path string
}

func newUndo(path string) *Undo { return &Undo{path: path} }

// Push appends rec to the journal.
func (u *Undo) Push(rec UndoRecord) error {
	f, err := os.OpenFile(u.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(rec.render())
	return err
}

// Records returns every record in the journal, oldest first.
func (u *Undo) Records() ([]UndoRecord, error) {
	data, err := os.ReadFile(u.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return parseUndoRecords(string(data))
}

// PopLast removes and returns the most recent record, rewriting the
// journal without it. Returns (nil, nil) when the journal is empty — the
// "nothing to undo" case `task undo` reports as a no-op rather than an
// error.
func (u *Undo) PopLast() (*UndoRecord, error) {
	records, err := u.Records()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	last := records[len(records)-1]
	records = records[:len(records)-1]

	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.render())
	}
	if err := os.WriteFile(u.path, []byte(b.String()), 0o644); err != nil {
		return nil, err
	}
	return &last, nil
}

func parseUndoRecords(data string) ([]UndoRecord, error) {
	var records []UndoRecord
	var cur UndoRecord
	for _, line := range strings.Split(data, "\n") {
		switch {
		case line == "":
			continue
		case line == "---":
			records = append(records, cur)
			cur = UndoRecord{}
		case strings.HasPrefix(line, "time "):
			epoch, err := strconv.ParseInt(strings.TrimPrefix(line, "time "), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("undo.data: malformed time field %q", line)
			}
			cur.Time = epoch
		case strings.HasPrefix(line, "old "):
			cur.Old = strings.TrimPrefix(line, "old ")
		case strings.HasPrefix(line, "new "):
			cur.New = strings.TrimPrefix(line, "new ")
		}
	}
	return records, nil
}
