package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tasklet/internal/deps"
	"tasklet/internal/env"
	"tasklet/internal/filter"
	"tasklet/internal/primitives"
	"tasklet/internal/recurrence"
	"tasklet/internal/storage"
	"tasklet/internal/task"
)

func init() {
	dispatch["add"] = cmdAdd
	dispatch["log"] = cmdLog
	dispatch["modify"] = cmdModify
	dispatch["done"] = cmdDone
	dispatch["delete"] = cmdDelete
	dispatch["start"] = cmdStart
	dispatch["stop"] = cmdStop
	dispatch["annotate"] = cmdAnnotate
	dispatch["denotate"] = cmdDenotate
	dispatch["duplicate"] = cmdDuplicate
	dispatch["undo"] = cmdUndo
	dispatch["import"] = cmdImport
}

// cmdAdd builds a new pending (or waiting/recurring) task from its
// modification tokens and adds it to the session (spec.md §3.4 "add").
func cmdAdd(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	mods, err := task.ParseModifications(args, e.Now)
	if err != nil {
		return err
	}
	t := task.NewWithUUID(e.Now)
	desc := mods.Description()
	if desc == "" {
		return fmt.Errorf("cannot add a task with no description")
	}
	t.Set("description", desc)
	dependsSpec := mods.Sets["depends"]
	delete(mods.Sets, "depends")
	mods.ApplyTo(t)
	setLifecycleStatus(t, e.Now)
	if err := t.Validate(); err != nil {
		return err
	}
	sess.Add(t)
	if dependsSpec != "" {
		if err := applyDependsMod(sess, t, dependsSpec); err != nil {
			return err
		}
	}
	e.Feedback.Event("added", t)
	return nil
}

// cmdLog records a task that is born already completed, bypassing
// pending.data entirely (spec.md §3.4 "log").
func cmdLog(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	mods, err := task.ParseModifications(args, e.Now)
	if err != nil {
		return err
	}
	desc := mods.Description()
	if desc == "" {
		return fmt.Errorf("cannot log a task with no description")
	}
	t := task.NewWithUUID(e.Now)
	t.Set("description", desc)
	delete(mods.Sets, "depends")
	mods.ApplyTo(t)
	t.SetStatus(task.StatusCompleted)
	t.SetDate("end", e.Now)
	if err := t.Validate(); err != nil {
		return err
	}
	return sess.AddLogged(t)
}

// cmdModify applies modification tokens to every task the filter selects
// (spec.md §3.4 "modify"). Bare words replace the description outright,
// matching the upstream rule that re-typing words overwrites rather than
// appends (annotate exists for the append case).
func cmdModify(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	mods, err := task.ParseModifications(args, e.Now)
	if err != nil {
		return err
	}
	matched, err := selectMutationTargets(sess, expr, resolverFor(e))
	if err != nil {
		return err
	}
	dependsSpec, hasDependsSet := mods.Sets["depends"]
	delete(mods.Sets, "depends")
	clearDepends := removesContains(mods.Removes, "depends")
	mods.Removes = withoutKey(mods.Removes, "depends")
	for _, m := range matched {
		t := m.Task
		if desc := mods.Description(); desc != "" {
			t.Set("description", desc)
		}
		mods.ApplyTo(t)
		if clearDepends {
			t.SetDependencies(nil)
		} else if hasDependsSet {
			if err := applyDependsMod(sess, t, dependsSpec); err != nil {
				return err
			}
		}
		if err := t.Validate(); err != nil {
			return err
		}
		sess.MarkDirty(t)
	}
	return nil
}

// cmdDone marks every matching task completed, propagating the
// completion into a recurring parent's mask and chaining dependents
// loose (spec.md §3.4 "done", §4.5, §4.7).
func cmdDone(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	matched, err := selectMutationTargets(sess, expr, resolverFor(e))
	if err != nil {
		return err
	}
	g := sess.Graph()
	for _, m := range matched {
		t := m.Task
		if t.Status() == task.StatusCompleted || t.Status() == task.StatusDeleted {
			continue
		}
		t.SetStatus(task.StatusCompleted)
		t.SetDate("end", e.Now)
		sess.MarkDirty(t)
		propagateToParent(sess, t, '+')
		deps.ChainOnComplete(g, t, e.Feedback)
		e.Feedback.Event("completed", t)
	}
	return nil
}

// cmdDelete marks every matching task deleted, the same parent-mask
// propagation as done but with the 'X' marker (spec.md §3.4 "delete").
func cmdDelete(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	matched, err := selectMutationTargets(sess, expr, resolverFor(e))
	if err != nil {
		return err
	}
	for _, m := range matched {
		t := m.Task
		if t.Status() == task.StatusDeleted {
			continue
		}
		t.SetStatus(task.StatusDeleted)
		t.SetDate("end", e.Now)
		sess.MarkDirty(t)
		propagateToParent(sess, t, 'X')
		e.Feedback.Event("deleted", t)
	}
	return nil
}

// cmdStart stamps every matching task with a start time, marking it
// active (spec.md §3.4 "start").
func cmdStart(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	matched, err := selectMutationTargets(sess, expr, resolverFor(e))
	if err != nil {
		return err
	}
	for _, m := range matched {
		t := m.Task
		if t.Has("start") {
			continue
		}
		t.SetDate("start", e.Now)
		sess.MarkDirty(t)
	}
	return nil
}

// cmdStop clears the start timestamp on every matching task (spec.md
// §3.4 "stop").
func cmdStop(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	matched, err := selectMutationTargets(sess, expr, resolverFor(e))
	if err != nil {
		return err
	}
	for _, m := range matched {
		t := m.Task
		if !t.Has("start") {
			continue
		}
		t.Remove("start")
		sess.MarkDirty(t)
	}
	return nil
}

// cmdAnnotate appends a timestamped note to every matching task (spec.md
// §3.4 "annotate").
func cmdAnnotate(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		return fmt.Errorf("annotate requires text")
	}
	matched, err := selectMutationTargets(sess, expr, resolverFor(e))
	if err != nil {
		return err
	}
	for _, m := range matched {
		m.Task.AddAnnotation(e.Now, text)
		sess.MarkDirty(m.Task)
	}
	return nil
}

// cmdDenotate removes every annotation containing the given substring
// from each matching task (spec.md §3.4 "denotate").
func cmdDenotate(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	pattern := strings.Join(args, " ")
	if pattern == "" {
		return fmt.Errorf("denotate requires a pattern")
	}
	matched, err := selectMutationTargets(sess, expr, resolverFor(e))
	if err != nil {
		return err
	}
	for _, m := range matched {
		if m.Task.RemoveAnnotationsMatching(pattern) > 0 {
			sess.MarkDirty(m.Task)
		}
	}
	return nil
}

// cmdDuplicate adds a fresh-UUID copy of every matching task, stripped of
// its start/end timestamps and dependency/parent linkage (spec.md §3.4
// "duplicate").
func cmdDuplicate(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	matched, err := selectMutationTargets(sess, expr, resolverFor(e))
	if err != nil {
		return err
	}
	for _, m := range matched {
		c := m.Task.Clone()
		c.Set("uuid", primitives.NewUUID())
		c.SetDate("entry", e.Now)
		c.SetStatus(task.StatusPending)
		c.Remove("start")
		c.Remove("end")
		c.Remove("parent")
		c.Remove("imask")
		c.Remove("mask")
		if err := c.Validate(); err != nil {
			return err
		}
		sess.Add(c)
		e.Feedback.Event("duplicated", c)
	}
	return nil
}

// cmdUndo reverts the most recent committed transaction by popping
// undo.data and restoring the task's prior attribute snapshot — or
// removing it outright if the transaction was its creation (spec.md
// §3.4 "undo"). Reverting a change is not itself logged as a new change,
// so this bypasses the normal dirty/Commit pipeline and rewrites
// pending.data directly.
func cmdUndo(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	rec, err := sess.PopUndo()
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Println("No changes to undo.")
		return nil
	}
	switch {
	case rec.Old == "" && rec.New != "":
		t, err := task.ParseLine(rec.New, "undo.data", 0)
		if err != nil {
			return err
		}
		sess.RemoveByUUID(t.UUID())
	case rec.Old != "":
		t, err := task.ParseLine(rec.Old, "undo.data", 0)
		if err != nil {
			return err
		}
		sess.Restore(t)
		e.Feedback.Event("undone", t)
	}
	return sess.RewritePendingOnly()
}

// cmdImport reads F4 lines — from a file named in args[0], or from
// stdin when no path is given — and adds each as a new task, skipping
// any whose UUID is already present (spec.md §3.4 "import"). A line
// that fails to parse is reported and skipped rather than aborting the
// whole import.
func cmdImport(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	var r *bufio.Scanner
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			err = fmt.Errorf("import: cannot open %q: %w", args[0], err)
			fmt.Fprintln(os.Stderr, err)
			return reportedError{err: err}
		}
		defer f.Close()
		r = bufio.NewScanner(f)
	} else {
		r = bufio.NewScanner(os.Stdin)
	}
	lineNo := 0
	imported := 0
	for r.Scan() {
		lineNo++
		line := strings.TrimSpace(r.Text())
		if line == "" {
			continue
		}
		t, err := task.ParseLine(line, "import", lineNo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "import: skipping line %d: %v\n", lineNo, err)
			continue
		}
		if _, ok := sess.ByUUID(t.UUID()); ok {
			continue
		}
		sess.Add(t)
		imported++
	}
	if err := r.Err(); err != nil {
		err = fmt.Errorf("import: %w", err)
		fmt.Fprintln(os.Stderr, err)
		return reportedError{err: err}
	}
	e.Feedback.Warn("import", fmt.Sprintf("%d task(s) imported", imported))
	return nil
}

// selectMutationTargets resolves the filter against the pending set for
// commands that mutate in place, excluding the "no match" case's
// confirmation concern (handled once, generically, in root.go).
func selectMutationTargets(sess *storage.Session, expr *filter.Expression, resolver filter.Resolver) ([]idTask, error) {
	return matchPending(sess, func(t *task.Task, id int) (bool, error) {
		return expr.Eval(t, id, resolver)
	})
}

// setLifecycleStatus assigns the initial non-pending status a freshly
// added task may need: recurring parents stay "recurring", and a future
// wait date starts the task out "waiting" (spec.md §3.1, §4.5).
func setLifecycleStatus(t *task.Task, now primitives.Date) {
	if t.Has("recur") {
		t.SetStatus(task.StatusRecurring)
		return
	}
	if wait, ok := t.GetDate("wait"); ok && wait.After(now) {
		t.SetStatus(task.StatusWaiting)
	}
}

// propagateToParent flips the corresponding mask character on t's
// recurring parent, if t was itself materialized from one (spec.md
// §4.5's child -> parent mask update).
func propagateToParent(sess *storage.Session, t *task.Task, mark byte) {
	parentUUID := t.Get("parent")
	if parentUUID == "" {
		return
	}
	parent, ok := sess.ByUUID(parentUUID)
	if !ok {
		return
	}
	imask, ok := t.GetInt("imask")
	if !ok {
		return
	}
	recurrence.UpdateParentMask(parent, imask, mark)
	sess.MarkDirty(parent)
}

// applyDependsMod parses a comma-separated depends: modification value
// (each token an ID or UUID, optionally "-"-prefixed to remove an
// existing edge) and applies it against the session's dependency graph,
// rejecting edges that would introduce a cycle (spec.md §3.3 property
// #5).
func applyDependsMod(sess *storage.Session, t *task.Task, raw string) error {
	g := sess.Graph()
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		remove := strings.HasPrefix(tok, "-")
		ref := strings.TrimPrefix(tok, "-")
		other, err := resolveTaskRef(sess, ref)
		if err != nil {
			return err
		}
		if remove {
			g.RemoveDependency(t, other.UUID())
			continue
		}
		if err := g.AddDependency(t, other); err != nil {
			return err
		}
	}
	return nil
}

func resolveTaskRef(sess *storage.Session, ref string) (*task.Task, error) {
	if primitives.IsUUID(ref) {
		t, ok := sess.ByUUID(ref)
		if !ok {
			return nil, fmt.Errorf("no task with uuid %s", ref)
		}
		return t, nil
	}
	id, err := strconv.Atoi(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid task reference %q", ref)
	}
	t, ok := sess.ByID(id)
	if !ok {
		return nil, fmt.Errorf("no task with id %d", id)
	}
	return t, nil
}

func removesContains(removes []string, name string) bool {
	for _, r := range removes {
		if r == name {
			return true
		}
	}
	return false
}

func withoutKey(removes []string, name string) []string {
	out := removes[:0]
	for _, r := range removes {
		if r != name {
			out = append(out, r)
		}
	}
	return out
}
