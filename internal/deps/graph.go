// Package deps implements the dependency graph derived from each task's
// depends attribute: blocked/blocking queries and cycle detection.
package deps

import (
	"fmt"

	"tasklet/internal/task"
)

// Graph is an adjacency view over a loaded task set, built once per
// session (per SPEC_FULL.md §4.7) rather than persisted or indexed — there
// is no query optimizer in this engine, per spec.md's non-goals.
type Graph struct {
	byUUID map[string]*task.Task
}

// Build constructs a Graph from tasks, keyed by UUID.
func Build(tasks []*task.Task) *Graph {
	g := &Graph{byUUID: make(map[string]*task.Task, len(tasks))}
	for _, t := range tasks {
		g.byUUID[t.UUID()] = t
	}
	return g
}

// unresolved reports whether a task's status still counts as an active
// blocker: spec.md §3.3 — blocked iff at least one dependency has status in
// {pending, waiting}.
func unresolved(s task.Status) bool {
	return s == task.StatusPending || s == task.StatusWaiting
}

// IsBlocked reports whether t has at least one unresolved dependency.
func (g *Graph) IsBlocked(t *task.Task) bool {
	for _, dep := range t.Dependencies() {
		if other, ok := g.byUUID[dep]; ok && unresolved(other.Status()) {
			return true
		}
	}
	return false
}

// GetBlocked returns every unresolved task t directly depends on.
func (g *Graph) GetBlocked(t *task.Task) []*task.Task {
	var out []*task.Task
	for _, dep := range t.Dependencies() {
		if other, ok := g.byUUID[dep]; ok && unresolved(other.Status()) {
			out = append(out, other)
		}
	}
	return out
}

// IsBlocking reports whether any other loaded task depends on t.
func (g *Graph) IsBlocking(t *task.Task) bool {
	return len(g.GetBlocking(t)) > 0
}

// GetBlocking returns every task that lists t as a dependency.
func (g *Graph) GetBlocking(t *task.Task) []*task.Task {
	var out []*task.Task
	for _, other := range g.byUUID {
		if other.UUID() == t.UUID() {
			continue
		}
		for _, dep := range other.Dependencies() {
			if dep == t.UUID() {
				out = append(out, other)
				break
			}
		}
	}
	return out
}

// WouldCycle reports whether adding an edge t -> other would introduce a
// cycle: true iff a path other -> ... -> t already exists. DFS with a
// visited-in-current-path set, O(V+E) per check (Design Note).
func (g *Graph) WouldCycle(t, other *task.Task) bool {
	if t.UUID() == other.UUID() {
		return true
	}
	visited := make(map[string]bool)
	var dfs func(uuid string) bool
	dfs = func(uuid string) bool {
		if uuid == t.UUID() {
			return true
		}
		if visited[uuid] {
			return false
		}
		visited[uuid] = true
		cur, ok := g.byUUID[uuid]
		if !ok {
			return false
		}
		for _, dep := range cur.Dependencies() {
			if dfs(dep) {
				return true
			}
		}
		return false
	}
	return dfs(other.UUID())
}

// AddDependency links t -> other ("t is blocked by other"), rejecting a
// self-reference or any edge that would introduce a cycle (spec.md
// property #5). An edge that is already present is left as it is and no
// error is returned.
func (g *Graph) AddDependency(t, other *task.Task) error {
	if t.UUID() == other.UUID() {
		return fmt.Errorf("task %s cannot depend on itself", t.UUID())
	}
	for _, dep := range t.Dependencies() {
		if dep == other.UUID() {
			return nil // already present, no-op
		}
	}
	if g.WouldCycle(t, other) {
		return fmt.Errorf("adding dependency %s -> %s would introduce a circular dependency", t.UUID(), other.UUID())
	}
	t.SetDependencies(append(t.Dependencies(), other.UUID()))
	return nil
}

// RemoveDependency unlinks t -> other (by UUID), a no-op if absent.
func (g *Graph) RemoveDependency(t *task.Task, otherUUID string) {
	deps := t.Dependencies()
	out := deps[:0]
	for _, d := range deps {
		if d != otherUUID {
			out = append(out, d)
		}
	}
	t.SetDependencies(out)
}
