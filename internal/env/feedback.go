package env

import "tasklet/internal/task"

// Feedback is the small interface the excluded presentation layer
// implements: non-fatal warnings, interactive confirmation, and
// chain-reaction event notifications (unblocked tasks, recurrence
// expiry). Core packages accept a Feedback but never construct one,
// keeping them usable as a library with no TTY attached (per DESIGN.md's
// "safety rule" note: confirmation is enforced in cmd/tasklet, not here).
type Feedback interface {
	// Warn reports a non-fatal semantic warning (start > end, until < due,
	// an empty-result filter on a mutating command).
	Warn(kind, message string)
	// Confirm asks the operator to approve a risky action (a mutation with
	// no filter) and returns their answer. A non-interactive Feedback may
	// always return false, forcing callers to rely on rc.confirmation=off.
	Confirm(prompt string) bool
	// Event reports a chain-reaction notification: "unblocked" when a
	// blocked task's last blocker completes, "recurred" when a child is
	// materialized, etc.
	Event(name string, t *task.Task)
}

// NopFeedback discards every warning/event and always declines
// confirmation; the zero-value default for library use and tests that
// don't care about feedback.
type NopFeedback struct{}

func (NopFeedback) Warn(kind, message string) {}
func (NopFeedback) Confirm(prompt string) bool { return false }
func (NopFeedback) Event(name string, t *task.Task) {}

// Recording is a Feedback that remembers everything it was told, for
// tests that need to assert on warnings/events without a TTY.
type Recording struct {
	Warnings []string
	Events   []string
	Confirmed bool
}

func (r *Recording) Warn(kind, message string) { r.Warnings = append(r.Warnings, kind+": "+message) }
func (r *Recording) Confirm(prompt string) bool { return r.Confirmed }
func (r *Recording) Event(name string, t *task.Task) {
	uuid := ""
	if t != nil {
		uuid = t.UUID()
	}
	r.Events = append(r.Events, name+":"+uuid)
}
