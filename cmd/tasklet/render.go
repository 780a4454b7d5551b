package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"tasklet/internal/deps"
	"tasklet/internal/storage"
	"tasklet/internal/task"
)

// renderTable prints id/description/project/priority/due as a plain
// space-padded table via text/tabwriter — the minimal renderer SPEC_FULL.md
// §6.2 specifies in place of the excluded curses/color table layer.
func renderTable(rows []tableRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDescription\tProject\tPriority\tDue")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Description, r.Project, r.Priority, r.Due)
	}
	w.Flush()
}

type tableRow struct {
	ID          int
	Description string
	Project     string
	Priority    string
	Due         string
}

func taskToRow(id int, t *task.Task) tableRow {
	due := ""
	if d, ok := t.GetDate("due"); ok {
		due = d.Format("2006-01-02")
	}
	return tableRow{ID: id, Description: t.Description(), Project: t.Get("project"), Priority: t.Get("priority"), Due: due}
}

// idTask pairs a pending task with the ephemeral ID it was assigned at
// load time, the unit a filter/sort pass over the pending set operates on.
type idTask struct {
	ID   int
	Task *task.Task
}

// matchPending evaluates matches against every pending task, returning
// the matching subset paired with its ID, ordered by ID for a stable
// report order.
func matchPending(sess *storage.Session, matches func(t *task.Task, id int) (bool, error)) ([]idTask, error) {
	var out []idTask
	for _, t := range sess.Pending() {
		id, _ := sess.IDOf(t.UUID())
		ok, err := matches(t, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, idTask{ID: id, Task: t})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// exportLine renders t as one JSON object line, the dependency-light
// export form SPEC_FULL.md §6.2 specifies (the CSV/iCal/YAML exporters
// stay out of scope).
func exportLine(t *task.Task) (string, error) {
	data, err := json.Marshal(t.Map())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func graphFlags(g *deps.Graph, t *task.Task) (blocked, blocking bool) {
	return g.IsBlocked(t), g.IsBlocking(t)
}
