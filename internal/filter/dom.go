package filter

import (
	"fmt"
	"regexp"
	"strings"

	"tasklet/internal/task"
)

// Resolver answers DOM lookups that aren't a direct task attribute:
// "tags.count", "rc.<name>", and similar dotted paths spec.md §4.4
// describes. cmd/tasklet implements this against internal/config; tests
// use a small stub.
type Resolver interface {
	ResolveDOM(path string, t *task.Task) (Value, bool)
}

// NopResolver answers every DOM lookup as absent; used when no
// configuration-backed resolver is needed (pure attribute filters).
type NopResolver struct{}

func (NopResolver) ResolveDOM(path string, t *task.Task) (Value, bool) { return Value{}, false }

// evalContext carries the per-task, per-evaluation state threaded through
// Node.Eval: the task itself, its ephemeral ID (0 if not loaded into a
// session), a Resolver for DOM paths, and the compiled-regex cache shared
// across the whole evaluation pass.
type evalContext struct {
	t        *task.Task
	id       int
	uuid     string
	resolver Resolver
	cache    *regexCache
}

func newEvalContext(t *task.Task, id int, resolver Resolver, cache *regexCache) *evalContext {
	if resolver == nil {
		resolver = NopResolver{}
	}
	return &evalContext{t: t, id: id, uuid: t.UUID(), resolver: resolver, cache: cache}
}

func (c *evalContext) description() string { return c.t.Description() }

func (c *evalContext) hasTag(name string) bool { return c.t.HasTag(name) }

func (c *evalContext) regex(pattern string) (*regexp.Regexp, error) {
	return c.cache.get(pattern)
}

// resolveDOM resolves a dotted path: first against direct task attributes,
// a handful of built-in derived paths (tags.count, annotations.count), and
// finally the Resolver for anything else (rc.*, etc), per spec.md §4.4
// step 4 ("name resolves first as a task attribute, else via DOM").
func (c *evalContext) resolveDOM(path string) (Value, error) {
	if v, ok := c.t.GetOk(path); ok {
		return stringValue(v), nil
	}
	switch path {
	case "tags.count":
		return numberValue(float64(len(c.t.Tags()))), nil
	case "annotations.count":
		return numberValue(float64(len(c.t.Annotations()))), nil
	case "id":
		return numberValue(float64(c.id)), nil
	case "uuid":
		return stringValue(c.uuid), nil
	}
	if v, ok := c.resolver.ResolveDOM(path, c.t); ok {
		return v, nil
	}
	if strings.HasPrefix(path, "rc.") {
		// An unresolved rc.* reference is not an error: it simply evaluates
		// to an empty string, matching an unset configuration key.
		return stringValue(""), nil
	}
	return Value{}, fmt.Errorf("unknown DOM reference %q", path)
}
