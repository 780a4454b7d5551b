// Package task implements the Taskwarrior data model: the attribute-map
// Task record, its four on-disk line formats (F1-F4), and the UDA schema
// that governs user-defined attributes.
package task

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"tasklet/internal/primitives"
)

// Status is one of the five lifecycle states a task can occupy.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusDeleted   Status = "deleted"
	StatusRecurring Status = "recurring"
	StatusWaiting   Status = "waiting"
)

// statusCode maps a Status to its single-letter F4 encoding.
var statusCode = map[Status]byte{
	StatusPending:   'P',
	StatusCompleted: 'C',
	StatusDeleted:   'D',
	StatusRecurring: 'R',
	StatusWaiting:   'W',
}

var codeStatus = func() map[byte]Status {
	out := make(map[byte]Status, len(statusCode))
	for s, c := range statusCode {
		out[c] = s
	}
	return out
}()

// StatusFromCode decodes an F4 single-letter status code.
func StatusFromCode(c byte) (Status, bool) {
	s, ok := codeStatus[c]
	return s, ok
}

// Code returns s's single-letter F4 encoding.
func (s Status) Code() byte { return statusCode[s] }

// ValueKind classifies an attribute's semantic type for the AttributeValue
// sum type (Design Note 1): string data stays string at the file boundary,
// but filter/urgency evaluation interprets it as one of these.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInteger
	KindDate
	KindDuration
)

// AttributeValue is the typed in-memory interpretation of a raw string
// attribute. It never persists directly — only Task's map[string]string
// does; AttributeValue exists purely for evaluation (filter, urgency).
type AttributeValue struct {
	Kind     ValueKind
	String   string
	Integer  int64
	Date     primitives.Date
	Duration primitives.Duration
}

// reservedAttrs names every attribute spec.md §3.1 reserves. UDA names must
// not collide with these.
var reservedAttrs = map[string]bool{
	"uuid": true, "status": true, "entry": true, "start": true, "end": true,
	"due": true, "wait": true, "until": true, "scheduled": true, "recur": true,
	"mask": true, "imask": true, "parent": true, "description": true,
	"project": true, "priority": true, "tags": true, "depends": true,
}

// IsReservedAttribute reports whether name is one of the built-in fields
// (excluding the annotation_<epoch> family, checked separately).
func IsReservedAttribute(name string) bool {
	if reservedAttrs[name] {
		return true
	}
	return strings.HasPrefix(name, "annotation_")
}

// Task is a record: a mapping from attribute name to raw string value. All
// typed interpretation happens at read time via the accessor methods below.
type Task struct {
	attrs map[string]string

	// ID is the ephemeral 1-based position assigned at load time; 0 if the
	// task has never been loaded into a Session (e.g. freshly constructed).
	ID int
}

// New returns an empty task with no attributes set.
func New() *Task {
	return &Task{attrs: make(map[string]string)}
}

// NewWithUUID returns a fresh pending task with a newly generated UUID and
// entry timestamp, ready to accept further modifications before being
// added to a session.
func NewWithUUID(now primitives.Date) *Task {
	t := New()
	t.Set("uuid", primitives.NewUUID())
	t.Set("status", string(StatusPending))
	t.Set("entry", strconv.FormatInt(now.Epoch, 10))
	return t
}

// Clone returns a deep copy of t with all attributes duplicated but ID
// reset to 0 (the copy has not been assigned a position by any session).
func (t *Task) Clone() *Task {
	c := New()
	for k, v := range t.attrs {
		c.attrs[k] = v
	}
	return c
}

// Has reports whether name is set on t.
func (t *Task) Has(name string) bool {
	_, ok := t.attrs[name]
	return ok
}

// Get returns the raw string value of name, or "" if unset.
func (t *Task) Get(name string) string { return t.attrs[name] }

// GetOk returns the raw string value of name and whether it was set.
func (t *Task) GetOk(name string) (string, bool) {
	v, ok := t.attrs[name]
	return v, ok
}

// Set assigns a raw string value to name.
func (t *Task) Set(name, value string) { t.attrs[name] = value }

// Remove deletes name from t, a no-op if it was unset.
func (t *Task) Remove(name string) { delete(t.attrs, name) }

// All returns every attribute name currently set on t, sorted for
// deterministic iteration.
func (t *Task) All() []string {
	out := make([]string, 0, len(t.attrs))
	for k := range t.attrs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Map returns the underlying attribute map. Callers must not mutate it
// directly; it is exposed for composition (F4 writer) and testing.
func (t *Task) Map() map[string]string { return t.attrs }

// UUID returns the task's immutable identity.
func (t *Task) UUID() string { return t.attrs["uuid"] }

// Status returns the task's current lifecycle state.
func (t *Task) Status() Status { return Status(t.attrs["status"]) }

// SetStatus assigns status.
func (t *Task) SetStatus(s Status) { t.attrs["status"] = string(s) }

// GetDate returns name interpreted as epoch seconds.
func (t *Task) GetDate(name string) (primitives.Date, bool) {
	v, ok := t.attrs[name]
	if !ok || v == "" {
		return primitives.Date{}, false
	}
	epoch, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return primitives.Date{}, false
	}
	return primitives.Date{Epoch: epoch}, true
}

// SetDate assigns name as epoch seconds.
func (t *Task) SetDate(name string, d primitives.Date) {
	t.attrs[name] = strconv.FormatInt(d.Epoch, 10)
}

// GetInt returns name interpreted as a base-10 integer.
func (t *Task) GetInt(name string) (int, bool) {
	v, ok := t.attrs[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetInt assigns name as a base-10 integer.
func (t *Task) SetInt(name string, v int) { t.attrs[name] = strconv.Itoa(v) }

// Description returns the task's description text.
func (t *Task) Description() string { return t.attrs["description"] }

// Tags returns the task's tag set, split from the comma-joined attribute.
func (t *Task) Tags() []string {
	v := t.attrs["tags"]
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

// HasTag reports whether tag is present.
func (t *Task) HasTag(tag string) bool {
	for _, x := range t.Tags() {
		if x == tag {
			return true
		}
	}
	return false
}

// SetTags replaces the task's tag set.
func (t *Task) SetTags(tags []string) {
	if len(tags) == 0 {
		delete(t.attrs, "tags")
		return
	}
	t.attrs["tags"] = strings.Join(tags, ",")
}

// AddTag adds tag if not already present.
func (t *Task) AddTag(tag string) {
	if t.HasTag(tag) {
		return
	}
	t.SetTags(append(t.Tags(), tag))
}

// RemoveTag removes tag, a no-op if absent.
func (t *Task) RemoveTag(tag string) {
	tags := t.Tags()
	out := tags[:0]
	for _, x := range tags {
		if x != tag {
			out = append(out, x)
		}
	}
	t.SetTags(out)
}

// Dependencies returns the UUIDs this task depends on.
func (t *Task) Dependencies() []string {
	v := t.attrs["depends"]
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

// SetDependencies replaces the depends attribute.
func (t *Task) SetDependencies(uuids []string) {
	if len(uuids) == 0 {
		delete(t.attrs, "depends")
		return
	}
	t.attrs["depends"] = strings.Join(uuids, ",")
}

// Annotation is one time-keyed annotation entry.
type Annotation struct {
	Entry primitives.Date
	Text  string
}

// Annotations returns every annotation_<epoch> attribute as a sorted
// (by epoch) list.
func (t *Task) Annotations() []Annotation {
	var out []Annotation
	for k, v := range t.attrs {
		if epoch, ok := strings.CutPrefix(k, "annotation_"); ok {
			n, err := strconv.ParseInt(epoch, 10, 64)
			if err != nil {
				continue
			}
			out = append(out, Annotation{Entry: primitives.Date{Epoch: n}, Text: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entry.Epoch < out[j].Entry.Epoch })
	return out
}

// AddAnnotation appends a new annotation at the given time. If an
// annotation already exists at that exact epoch, the epoch is bumped by a
// second until a free slot is found (matching upstream's collision
// avoidance for rapid-fire annotate calls).
func (t *Task) AddAnnotation(now primitives.Date, text string) {
	key := fmt.Sprintf("annotation_%d", now.Epoch)
	for t.Has(key) {
		now = now.Add(1)
		key = fmt.Sprintf("annotation_%d", now.Epoch)
	}
	t.attrs[key] = text
}

// RemoveAnnotationsMatching deletes every annotation whose text contains
// substr, returning the count removed.
func (t *Task) RemoveAnnotationsMatching(substr string) int {
	removed := 0
	for k, v := range t.attrs {
		if strings.HasPrefix(k, "annotation_") && strings.Contains(v, substr) {
			delete(t.attrs, k)
			removed++
		}
	}
	return removed
}

// Validate checks the structural invariants spec.md §3.1 assigns to a
// single task in isolation (attributes that require looking at other tasks
// — dependency cycles — are validated by internal/deps instead).
func (t *Task) Validate() error {
	if t.UUID() == "" {
		return fmt.Errorf("task has no uuid")
	}
	desc := t.Description()
	if strings.TrimSpace(desc) == "" {
		return fmt.Errorf("task %s has an empty description", t.UUID())
	}
	for _, r := range desc {
		if r < 0x20 && r != '\t' {
			return fmt.Errorf("task %s description contains a control character", t.UUID())
		}
	}
	switch t.Status() {
	case StatusRecurring:
		if !t.Has("due") || !t.Has("recur") {
			return fmt.Errorf("task %s is recurring but lacks due/recur", t.UUID())
		}
	case StatusWaiting:
		wait, ok := t.GetDate("wait")
		if !ok {
			return fmt.Errorf("task %s is waiting but has no wait date", t.UUID())
		}
		_ = wait
	}
	if t.Has("parent") {
		if _, ok := t.GetInt("imask"); !ok {
			return fmt.Errorf("task %s has parent but no imask", t.UUID())
		}
	}
	seen := make(map[string]bool)
	for _, tag := range t.Tags() {
		if tag == "" || strings.ContainsAny(tag, " \t") {
			return fmt.Errorf("task %s has an invalid tag %q", t.UUID(), tag)
		}
		if seen[tag] {
			return fmt.Errorf("task %s has duplicate tag %q", t.UUID(), tag)
		}
		seen[tag] = true
	}
	return nil
}

// MaxLineBytes is the hard per-line limit spec.md §6.1 imposes on
// pending.data/completed.data. ParseLine and Compose check the length of
// the whole line against it; the description has no separate limit.
const MaxLineBytes = 32768
