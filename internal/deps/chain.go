package deps

import (
	"tasklet/internal/env"
	"tasklet/internal/task"
)

// ChainOnComplete fires an "unblocked" feedback event for every task that
// depended on completed and has no other unresolved blocker remaining,
// per spec.md §4.7's "chain-on-complete" rule. Call this after completed's
// status has already been flipped to completed.
func ChainOnComplete(g *Graph, completed *task.Task, fb env.Feedback) {
	for _, dependent := range g.GetBlocking(completed) {
		if !g.IsBlocked(dependent) {
			fb.Event("unblocked", dependent)
		}
	}
}

// ChainOnModify cascades a due-date shift to t's dependents when t's due
// date moved forward, if enabled by configuration (`recurrence`-adjacent
// but distinct knob; spec.md §4.7 "chain-on-modify" calls this
// configurable). delta is the signed number of seconds the due date moved
// by (positive = later).
func ChainOnModify(g *Graph, t *task.Task, delta int64, cascade bool, fb env.Feedback) {
	if !cascade || delta <= 0 {
		return
	}
	for _, dependent := range g.GetBlocking(t) {
		due, ok := dependent.GetDate("due")
		if !ok {
			continue
		}
		dependent.SetDate("due", due.Add(delta))
		fb.Event("due-cascaded", dependent)
	}
}
