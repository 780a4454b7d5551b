package storage

import (
	"encoding/json"
	"fmt"
	"sort"

	"tasklet/internal/deps"
	"tasklet/internal/env"
	"tasklet/internal/primitives"
	"tasklet/internal/recurrence"
	"tasklet/internal/task"
)

// Session is one load-commit cycle against a Store: the in-memory pending
// set with assigned ephemeral IDs, the dirty-tracking needed to build
// undo records, and the staged completed/backlog writes a commit flushes.
type Session struct {
	store *Store
	lock  *lockGuard

	pending map[int]*task.Task
	byUUID  map[string]*task.Task
	nextID  int

	dirty     map[string]bool
	originals map[string]string // uuid -> F4 line at load time; absent means newly created

	completedAppend []completedEntry
	completedCache  []*task.Task

	gcDone bool
	graph  *deps.Graph
}

type completedEntry struct {
	old  string
	line string
	uuid string
}

// Load reads pending.data, assigns IDs in file order, applies the waiting
// reaper, and runs recurrence materialization, per spec.md §4.3. The
// reaper and materialization's resulting changes are marked dirty so the
// next Commit persists them, matching upstream's "queued for commit"
// behavior; a session that is never committed (cmd/tasklet commits only
// after mutating commands) does not write them.
func (s *Store) Load(e *env.Env) (*Session, error) {
	var lg *lockGuard
	if s.locking {
		var err error
		lg, err = acquireLock(s.dir, s.lockTimeout(e))
		if err != nil {
			return nil, err
		}
	}

	lines, err := readLinesOrEmpty(s.pending)
	if err != nil {
		if lg != nil {
			_ = lg.Release()
		}
		return nil, fmt.Errorf("read %s: %w", s.pending, err)
	}

	sess := &Session{
		store:     s,
		lock:      lg,
		pending:   make(map[int]*task.Task, len(lines)),
		byUUID:    make(map[string]*task.Task, len(lines)),
		dirty:     make(map[string]bool),
		originals: make(map[string]string, len(lines)),
	}

	for i, line := range lines {
		t, err := task.ParseLine(line, s.pending, i+1)
		if err != nil {
			if lg != nil {
				_ = lg.Release()
			}
			return nil, err
		}
		id := i + 1
		sess.pending[id] = t
		sess.byUUID[t.UUID()] = t
		sess.originals[t.UUID()] = line
	}
	sess.nextID = len(lines) + 1

	sess.applyWaitingReaper(e)
	if err := sess.applyRecurrence(e); err != nil {
		if lg != nil {
			_ = lg.Release()
		}
		return nil, err
	}

	return sess, nil
}

func (s *Session) applyWaitingReaper(e *env.Env) {
	for _, t := range s.pending {
		if t.Status() != task.StatusWaiting {
			continue
		}
		wait, ok := t.GetDate("wait")
		if !ok || wait.After(e.Now) {
			continue
		}
		t.SetStatus(task.StatusPending)
		s.markDirty(t)
	}
}

func (s *Session) applyRecurrence(e *env.Env) error {
	var parents []*task.Task
	for _, t := range s.pending {
		if t.Status() == task.StatusRecurring {
			parents = append(parents, t)
		}
	}
	// Deterministic order: materialization assigns new IDs as it goes, and
	// a stable iteration order keeps that assignment reproducible.
	sort.Slice(parents, func(i, j int) bool { return parents[i].UUID() < parents[j].UUID() })

	for _, parent := range parents {
		children, newMask, deleteParent, warn := recurrence.Materialize(e.Now, parent)
		if warn != nil {
			e.Feedback.Warn("recurrence", warn.Error())
		}
		if len(children) == 0 && newMask == parent.Get("mask") && !deleteParent {
			continue
		}
		parent.Set("mask", newMask)
		s.markDirty(parent)
		for _, child := range children {
			s.Add(child)
			e.Feedback.Event("recurred", child)
		}
		if deleteParent {
			parent.SetStatus(task.StatusDeleted)
		}
	}
	return nil
}

// Pending returns the loaded pending tasks ordered by their ephemeral ID.
func (s *Session) Pending() []*task.Task {
	ids := make([]int, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*task.Task, len(ids))
	for i, id := range ids {
		out[i] = s.pending[id]
	}
	return out
}

// ByID looks up a pending task by its ephemeral session ID.
func (s *Session) ByID(id int) (*task.Task, bool) {
	t, ok := s.pending[id]
	return t, ok
}

// ByUUID looks up a pending task by UUID.
func (s *Session) ByUUID(uuid string) (*task.Task, bool) {
	t, ok := s.byUUID[uuid]
	return t, ok
}

// IDOf returns the ephemeral ID a pending task was assigned at load time.
func (s *Session) IDOf(uuid string) (int, bool) {
	for id, t := range s.pending {
		if t.UUID() == uuid {
			return id, true
		}
	}
	return 0, false
}

// Add inserts a freshly created pending task, assigning it the next
// available ephemeral ID, and marks it dirty with no prior "old" line.
func (s *Session) Add(t *task.Task) int {
	id := s.nextID
	s.nextID++
	s.pending[id] = t
	s.byUUID[t.UUID()] = t
	s.dirty[t.UUID()] = true
	s.graph = nil
	return id
}

// MarkDirty records that t (already loaded) has been mutated and needs an
// undo record and a pending.data rewrite at Commit. Call this after every
// in-place change to a task obtained from ByID/ByUUID/Pending.
func (s *Session) MarkDirty(t *task.Task) { s.markDirty(t) }

func (s *Session) markDirty(t *task.Task) {
	s.dirty[t.UUID()] = true
	s.graph = nil
}

// AddLogged registers a task created directly in the completed state
// (the `log` command) — it never occupies a pending ID.
func (s *Session) AddLogged(t *task.Task) error {
	line, err := task.Compose(t)
	if err != nil {
		return err
	}
	s.completedAppend = append(s.completedAppend, completedEntry{line: line, uuid: t.UUID()})
	s.completedCache = nil
	return nil
}

// LoadCompleted reads completed.data on demand, for reports that need the
// full history rather than just the pending set.
func (s *Session) LoadCompleted() ([]*task.Task, error) {
	if s.completedCache != nil {
		return s.completedCache, nil
	}
	lines, err := readLinesOrEmpty(s.store.completed)
	if err != nil {
		return nil, err
	}
	out := make([]*task.Task, 0, len(lines))
	for i, line := range lines {
		t, err := task.ParseLine(line, s.store.completed, i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	s.completedCache = out
	return out, nil
}

// Graph returns the dependency graph built from the current pending set,
// caching it until the next mutation invalidates it (DESIGN.md:
// "rebuilt every load", never persisted).
func (s *Session) Graph() *deps.Graph {
	if s.graph == nil {
		s.graph = deps.Build(s.Pending())
	}
	return s.graph
}

// GC moves every terminal (completed/deleted) pending task into
// completed.data and renumbers the tasks that remain, per spec.md §4.3.
// Runs at most once per Session.
func (s *Session) GC() error {
	if s.gcDone {
		return nil
	}
	s.gcDone = true

	kept := make(map[string]*task.Task)
	for _, t := range s.pending {
		switch t.Status() {
		case task.StatusCompleted, task.StatusDeleted:
			old := s.originals[t.UUID()]
			line, err := task.Compose(t)
			if err != nil {
				return err
			}
			s.completedAppend = append(s.completedAppend, completedEntry{old: old, line: line, uuid: t.UUID()})
			delete(s.dirty, t.UUID())
		default:
			kept[t.UUID()] = t
		}
	}

	ids := make([]string, 0, len(kept))
	for uuid := range kept {
		ids = append(ids, uuid)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.loadOrderIndex(ids[i]) < s.loadOrderIndex(ids[j])
	})

	s.pending = make(map[int]*task.Task, len(ids))
	for i, uuid := range ids {
		s.pending[i+1] = kept[uuid]
	}
	s.nextID = len(ids) + 1
	s.graph = nil
	s.completedCache = nil
	return nil
}

// loadOrderIndex recovers a task's position before renumbering, so GC
// preserves relative pending order instead of reshuffling by UUID.
func (s *Session) loadOrderIndex(uuid string) int {
	for id, t := range s.pending {
		if t.UUID() == uuid {
			return id
		}
	}
	return 0
}

// Commit writes undo records for every dirty/newly-completed task,
// rewrites pending.data, appends any GC'd or logged tasks to
// completed.data, and appends the corresponding backlog.data entries. It
// does not release the Session's lock; callers defer Release themselves.
func (s *Session) Commit(e *env.Env) error {
	undo := newUndo(s.store.undo)

	for uuid := range s.dirty {
		t, ok := s.byUUID[uuid]
		if !ok {
			continue
		}
		line, err := task.Compose(t)
		if err != nil {
			return err
		}
		old := s.originals[uuid]
		if err := undo.Push(UndoRecord{Time: e.Now.Epoch, Old: old, New: line}); err != nil {
			return err
		}
		if err := appendBacklog(s.store.backlog, e.Now, uuid, line); err != nil {
			return err
		}
		s.originals[uuid] = line
	}

	for _, entry := range s.completedAppend {
		rec := UndoRecord{Time: e.Now.Epoch, Old: entry.old, New: entry.line}
		if err := undo.Push(rec); err != nil {
			return err
		}
		if err := appendBacklog(s.store.backlog, e.Now, entry.uuid, entry.line); err != nil {
			return err
		}
	}

	pendingLines := make([]string, 0, len(s.pending))
	for _, t := range s.Pending() {
		line, err := task.Compose(t)
		if err != nil {
			return err
		}
		pendingLines = append(pendingLines, line)
	}
	if err := atomicWriteLines(s.store.pending, pendingLines); err != nil {
		return err
	}

	if len(s.completedAppend) > 0 {
		for _, entry := range s.completedAppend {
			if err := appendLine(s.store.completed, entry.line); err != nil {
				return err
			}
		}
		s.completedAppend = nil
	}

	s.dirty = make(map[string]bool)
	return nil
}

// Release drops the Session's advisory lock, if it holds one.
func (s *Session) Release() error {
	return s.lock.Release()
}

// PopUndo pops the most recent undo.data transaction, for the `undo`
// command (spec.md §3.4, §6.2). Returns (nil, nil) when the journal is
// empty. It does not itself touch the pending set — callers apply the
// record via RemoveByUUID/Restore and persist with RewritePendingOnly.
func (s *Session) PopUndo() (*UndoRecord, error) {
	return newUndo(s.store.undo).PopLast()
}

// RemoveByUUID deletes a pending task outright, for undoing a pure
// addition (an undo record with no "old" snapshot).
func (s *Session) RemoveByUUID(uuid string) {
	for id, t := range s.pending {
		if t.UUID() == uuid {
			delete(s.pending, id)
		}
	}
	delete(s.byUUID, uuid)
	delete(s.dirty, uuid)
	delete(s.originals, uuid)
	s.graph = nil
}

// Restore replaces (or re-adds) a pending task with t's attribute set,
// for undoing a modification or reinstating a task undo popped past its
// completion. It does not mark the task dirty: undoing a change is not
// itself a new change that needs its own undo.data record.
func (s *Session) Restore(t *task.Task) {
	if id, ok := s.IDOf(t.UUID()); ok {
		s.pending[id] = t
	} else {
		id := s.nextID
		s.nextID++
		s.pending[id] = t
	}
	s.byUUID[t.UUID()] = t
	s.originals[t.UUID()] = ""
	s.graph = nil
}

// RewritePendingOnly atomically rewrites pending.data from the current
// in-memory set without touching undo.data or backlog.data — the
// persistence step `undo` uses instead of the ordinary Commit pipeline,
// since reverting a change is not itself logged as a new change.
func (s *Session) RewritePendingOnly() error {
	lines := make([]string, 0, len(s.pending))
	for _, t := range s.Pending() {
		line, err := task.Compose(t)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}
	return atomicWriteLines(s.store.pending, lines)
}

type backlogLine struct {
	Time int64  `json:"time"`
	UUID string `json:"uuid"`
	Line string `json:"line"`
}

func appendBacklog(path string, now primitives.Date, uuid, line string) error {
	data, err := json.Marshal(backlogLine{Time: now.Epoch, UUID: uuid, Line: line})
	if err != nil {
		return err
	}
	return appendLine(path, string(data))
}
