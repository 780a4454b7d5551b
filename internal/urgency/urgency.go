// Package urgency implements the deterministic scalar scoring function
// from spec.md §4.6: a weighted sum of per-attribute component scores.
package urgency

import (
	"tasklet/internal/config"
	"tasklet/internal/primitives"
	"tasklet/internal/task"
)

// Config holds the eleven urgency coefficients, defaults as tabulated in
// spec.md §4.6, overridable via `rc.urgency.<component>.coefficient`.
type Config struct {
	Priority    float64
	Project     float64
	Active      float64
	Waiting     float64
	Blocked     float64
	Blocking    float64
	Annotations float64
	Tags        float64
	Next        float64
	Due         float64
	Age         float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Priority: 6.0, Project: 1.0, Active: 4.0, Waiting: -3.0,
		Blocked: -5.0, Blocking: 8.0, Annotations: 1.0, Tags: 1.0,
		Next: 15.0, Due: 12.0, Age: 2.0,
	}
}

// LoadConfig reads every urgency.<component>.coefficient key from cfg,
// falling back to DefaultConfig for any key that's absent.
func LoadConfig(cfg *config.Config) Config {
	d := DefaultConfig()
	return Config{
		Priority:    cfg.GetFloat("urgency.priority.coefficient", d.Priority),
		Project:     cfg.GetFloat("urgency.project.coefficient", d.Project),
		Active:      cfg.GetFloat("urgency.active.coefficient", d.Active),
		Waiting:     cfg.GetFloat("urgency.waiting.coefficient", d.Waiting),
		Blocked:     cfg.GetFloat("urgency.blocked.coefficient", d.Blocked),
		Blocking:    cfg.GetFloat("urgency.blocking.coefficient", d.Blocking),
		Annotations: cfg.GetFloat("urgency.annotations.coefficient", d.Annotations),
		Tags:        cfg.GetFloat("urgency.tags.coefficient", d.Tags),
		Next:        cfg.GetFloat("urgency.next.coefficient", d.Next),
		Due:         cfg.GetFloat("urgency.due.coefficient", d.Due),
		Age:         cfg.GetFloat("urgency.age.coefficient", d.Age),
	}
}

func priorityScore(t *task.Task) float64 {
	switch t.Get("priority") {
	case "H":
		return 1.0
	case "M":
		return 0.65
	case "L":
		return 0.3
	default:
		return 0
	}
}

func projectScore(t *task.Task) float64 {
	if t.Has("project") {
		return 1.0
	}
	return 0
}

func activeScore(t *task.Task) float64 {
	if t.Has("start") {
		return 1.0
	}
	return 0
}

func waitingScore(t *task.Task) float64 {
	if t.Status() == task.StatusWaiting {
		return 1.0
	}
	return 0
}

func annotationsScore(t *task.Task) float64 {
	n := len(t.Annotations())
	if n > 3 {
		n = 3
	}
	return float64(n) / 3.0
}

func tagsScore(t *task.Task) float64 {
	n := len(t.Tags())
	if n > 3 {
		n = 3
	}
	return float64(n) / 3.0
}

func nextScore(t *task.Task) float64 {
	if t.HasTag("next") {
		return 1.0
	}
	return 0
}

// dueScore implements the piecewise function from spec.md §4.6: 1.0 when
// overdue by 7+ days, linearly decreasing to 0.2 at +14 days out, 0.2
// beyond that.
func dueScore(t *task.Task, now primitives.Date) float64 {
	due, ok := t.GetDate("due")
	if !ok {
		return 0
	}
	daysUntil := float64(due.Sub(now)) / 86400.0
	switch {
	case daysUntil <= -7:
		return 1.0
	case daysUntil >= 14:
		return 0.2
	default:
		// Linear interpolation from 1.0 at -7 days to 0.2 at +14 days.
		return 1.0 - (daysUntil-(-7))/(14-(-7))*(1.0-0.2)
	}
}

func ageScore(t *task.Task, now primitives.Date) float64 {
	entry, ok := t.GetDate("entry")
	if !ok {
		return 0
	}
	days := float64(now.Sub(entry)) / 86400.0
	if days < 0 {
		days = 0
	}
	score := days / 365.0
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Score computes urgency as a pure function of task state, the
// blocked/blocking relations (supplied by the caller from an
// internal/deps.Graph built for this session), cfg, and now. Equal inputs
// always produce equal output (spec.md property #8).
func Score(t *task.Task, blocked, blocking bool, cfg Config, now primitives.Date) float64 {
	u := 0.0
	u += cfg.Priority * priorityScore(t)
	u += cfg.Project * projectScore(t)
	u += cfg.Active * activeScore(t)
	u += cfg.Waiting * waitingScore(t)
	if blocked {
		u += cfg.Blocked * 1.0
	}
	if blocking {
		u += cfg.Blocking * 1.0
	}
	u += cfg.Annotations * annotationsScore(t)
	u += cfg.Tags * tagsScore(t)
	u += cfg.Next * nextScore(t)
	u += cfg.Due * dueScore(t, now)
	u += cfg.Age * ageScore(t, now)
	return u
}
