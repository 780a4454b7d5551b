package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"tasklet/internal/config"
	"tasklet/internal/env"
	"tasklet/internal/filter"
	"tasklet/internal/storage"
	"tasklet/internal/task"
	"tasklet/internal/urgency"
)

func init() {
	dispatch["list"] = cmdList
	dispatch["all"] = cmdList
	dispatch["info"] = cmdInfo
	dispatch["export"] = cmdExport
	dispatch["projects"] = cmdProjects
	dispatch["tags"] = cmdTags
	dispatch["stats"] = cmdStats
	dispatch["ids"] = cmdIDs
	dispatch["uuids"] = cmdUUIDs
	dispatch["next"] = cmdNext
	dispatch["diag"] = cmdDiag
}

func resolverFor(e *env.Env) filter.Resolver {
	if cfg, ok := e.Config.(*config.Config); ok {
		return &configResolver{cfg: cfg}
	}
	return filter.NopResolver{}
}

// cmdList renders every matching pending task as a table; `all` is the
// same query over the same pending set (the excluded presentation layer
// is what would otherwise distinguish "all" by also showing waiting
// tasks in a status column — here both list the pending set as loaded,
// since waiting->pending reaping already ran at load time).
func cmdList(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	resolver := resolverFor(e)
	matched, err := matchPending(sess, func(t *task.Task, id int) (bool, error) {
		return expr.Eval(t, id, resolver)
	})
	if err != nil {
		return err
	}
	rows := make([]tableRow, 0, len(matched))
	for _, m := range matched {
		rows = append(rows, taskToRow(m.ID, m.Task))
	}
	renderTable(rows)
	return nil
}

func cmdInfo(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	resolver := resolverFor(e)
	g := sess.Graph()
	matched, err := matchPending(sess, func(t *task.Task, id int) (bool, error) {
		return expr.Eval(t, id, resolver)
	})
	if err != nil {
		return err
	}
	for _, m := range matched {
		t := m.Task
		fmt.Printf("Task %d (%s)\n", m.ID, t.UUID())
		for _, name := range t.All() {
			fmt.Printf("  %-12s %s\n", name, t.Get(name))
		}
		blocked, blocking := graphFlags(g, t)
		cfg := urgency.LoadConfig(mustConfig(e))
		u := urgency.Score(t, blocked, blocking, cfg, e.Now)
		fmt.Printf("  %-12s %.2f\n", "urgency", u)
		fmt.Println()
	}
	return nil
}

func cmdExport(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	resolver := resolverFor(e)
	matched, err := matchPending(sess, func(t *task.Task, id int) (bool, error) {
		return expr.Eval(t, id, resolver)
	})
	if err != nil {
		return err
	}
	for _, m := range matched {
		line, err := exportLine(m.Task)
		if err != nil {
			return err
		}
		fmt.Println(line)
	}
	return nil
}

func cmdProjects(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	seen := make(map[string]int)
	for _, t := range sess.Pending() {
		if p := t.Get("project"); p != "" {
			seen[p]++
		}
	}
	names := make([]string, 0, len(seen))
	for p := range seen {
		names = append(names, p)
	}
	sort.Strings(names)
	for _, p := range names {
		fmt.Printf("%-30s %d\n", p, seen[p])
	}
	return nil
}

func cmdTags(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	seen := make(map[string]int)
	for _, t := range sess.Pending() {
		for _, tag := range t.Tags() {
			seen[tag]++
		}
	}
	names := make([]string, 0, len(seen))
	for tg := range seen {
		names = append(names, tg)
	}
	sort.Strings(names)
	for _, tg := range names {
		fmt.Printf("%-20s %d\n", tg, seen[tg])
	}
	return nil
}

// cmdStats prints aggregate counts computed directly from the loaded
// pending set, the dependency graph and completed.data — no
// burndown/history chart, per
// SPEC_FULL.md §6.2's minimal-renderer scope.
func cmdStats(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	g := sess.Graph()
	counts := map[task.Status]int{}
	blocked, blocking := 0, 0
	for _, t := range sess.Pending() {
		counts[t.Status()]++
		if g.IsBlocked(t) {
			blocked++
		}
		if g.IsBlocking(t) {
			blocking++
		}
	}
	completed, err := sess.LoadCompleted()
	if err != nil {
		return err
	}
	for _, t := range completed {
		counts[t.Status()]++
	}
	fmt.Printf("Pending       %d\n", counts[task.StatusPending])
	fmt.Printf("Waiting       %d\n", counts[task.StatusWaiting])
	fmt.Printf("Recurring     %d\n", counts[task.StatusRecurring])
	fmt.Printf("Completed     %d\n", counts[task.StatusCompleted])
	fmt.Printf("Deleted       %d\n", counts[task.StatusDeleted])
	fmt.Printf("Blocked       %d\n", blocked)
	fmt.Printf("Blocking      %d\n", blocking)
	return nil
}

func cmdIDs(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	resolver := resolverFor(e)
	matched, err := matchPending(sess, func(t *task.Task, id int) (bool, error) {
		return expr.Eval(t, id, resolver)
	})
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(matched))
	for _, m := range matched {
		ids = append(ids, fmt.Sprint(m.ID))
	}
	fmt.Println(joinComma(ids))
	return nil
}

func cmdUUIDs(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	resolver := resolverFor(e)
	matched, err := matchPending(sess, func(t *task.Task, id int) (bool, error) {
		return expr.Eval(t, id, resolver)
	})
	if err != nil {
		return err
	}
	uuids := make([]string, 0, len(matched))
	for _, m := range matched {
		uuids = append(uuids, m.Task.UUID())
	}
	fmt.Println(joinComma(uuids))
	return nil
}

// cmdNext renders the matching pending set ordered by descending urgency
// (internal/urgency), the one report spec.md §4.6 names by name.
func cmdNext(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	resolver := resolverFor(e)
	g := sess.Graph()
	cfg := urgency.LoadConfig(mustConfig(e))
	matched, err := matchPending(sess, func(t *task.Task, id int) (bool, error) {
		if t.Status() != task.StatusPending {
			return false, nil
		}
		return expr.Eval(t, id, resolver)
	})
	if err != nil {
		return err
	}
	scores := make(map[int]float64, len(matched))
	for _, m := range matched {
		blocked, blocking := graphFlags(g, m.Task)
		scores[m.ID] = urgency.Score(m.Task, blocked, blocking, cfg, e.Now)
	}
	sort.SliceStable(matched, func(i, j int) bool { return scores[matched[i].ID] > scores[matched[j].ID] })
	rows := make([]tableRow, 0, len(matched))
	for _, m := range matched {
		rows = append(rows, taskToRow(m.ID, m.Task))
	}
	renderTable(rows)
	return nil
}

// cmdDiag dumps a YAML-structured snapshot of session state (data
// directory, pending count, recurring parent UUIDs) — the structured
// diagnostics command SPEC_FULL.md §2
// names gopkg.in/yaml.v3 for.
func cmdDiag(e *env.Env, sess *storage.Session, expr *filter.Expression, args []string) error {
	report := diagReport{
		DataDir: e.DataDir,
		Pending: len(sess.Pending()),
	}
	for _, t := range sess.Pending() {
		if t.Status() == task.StatusRecurring {
			report.RecurringParents = append(report.RecurringParents, t.UUID())
		}
	}
	return printYAML(report)
}

type diagReport struct {
	DataDir          string   `yaml:"data_dir"`
	Pending          int      `yaml:"pending_count"`
	RecurringParents []string `yaml:"recurring_parents,omitempty"`
}

func printYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(v)
}

func mustConfig(e *env.Env) *config.Config {
	if cfg, ok := e.Config.(*config.Config); ok {
		return cfg
	}
	return config.New()
}

func joinComma(xs []string) string {
	out := ""
	for i, x := range xs {
		if i > 0 {
			out += ","
		}
		out += x
	}
	return out
}
