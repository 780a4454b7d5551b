// Package config loads the `.taskrc` key=value configuration file (with
// `#` comments and `include` directives) and layers command-line
// `rc.<name>=<value>` overrides on top of it, exposing typed accessors.
// Modeled on the teacher's SourceDefault < SourceFile < SourceEnv <
// SourceOverride layering (internal/config/loader.go, internal/config/types.go).
package config

import (
	"strconv"
	"strings"

	"tasklet/internal/primitives"
)

// ValueSource records where a resolved value came from, for diagnostics.
type ValueSource string

const (
	SourceDefault  ValueSource = "default"
	SourceFile     ValueSource = "file"
	SourceOverride ValueSource = "override"
)

// Config is the layered key/value store: SourceOverride beats SourceFile
// beats SourceDefault, exactly the precedence spec.md §6.3 specifies for
// `rc.<name>=<value>` CLI tokens.
type Config struct {
	defaults  map[string]string
	file      map[string]string
	overrides map[string]string
}

// New returns a Config seeded with the documented defaults (urgency
// coefficients, weekstart, dateformat, etc).
func New() *Config {
	c := &Config{
		defaults:  defaultValues(),
		file:      make(map[string]string),
		overrides: make(map[string]string),
	}
	return c
}

// defaultValues is the documented default for every core-relevant key in
// spec.md §6.3 / §4.6.
func defaultValues() map[string]string {
	return map[string]string{
		"locking":    "true",
		"weekstart":  "sunday",
		"dateformat": "m/d/Y",
		"recurrence": "true",
		"color":      "on",
		"confirmation": "on",

		"urgency.priority.coefficient":    "6.0",
		"urgency.project.coefficient":     "1.0",
		"urgency.active.coefficient":      "4.0",
		"urgency.waiting.coefficient":     "-3.0",
		"urgency.blocked.coefficient":     "-5.0",
		"urgency.blocking.coefficient":    "8.0",
		"urgency.annotations.coefficient": "1.0",
		"urgency.tags.coefficient":        "1.0",
		"urgency.next.coefficient":        "15.0",
		"urgency.due.coefficient":         "12.0",
		"urgency.age.coefficient":         "2.0",
	}
}

// resolve returns v's raw string value and the source it came from,
// walking the precedence chain override > file > default.
func (c *Config) resolve(key string) (string, ValueSource, bool) {
	if v, ok := c.overrides[key]; ok {
		return v, SourceOverride, true
	}
	if v, ok := c.file[key]; ok {
		return v, SourceFile, true
	}
	if v, ok := c.defaults[key]; ok {
		return v, SourceDefault, true
	}
	return "", "", false
}

// SourceOf reports which layer key's effective value came from.
func (c *Config) SourceOf(key string) (ValueSource, bool) {
	_, src, ok := c.resolve(key)
	return src, ok
}

// GetString returns key's effective value, or def if unset.
func (c *Config) GetString(key, def string) string {
	if v, _, ok := c.resolve(key); ok {
		return v
	}
	return def
}

// GetBool interprets key's effective value as a boolean; accepts the
// Taskwarrior-style on/off/yes/no in addition to strconv.ParseBool forms.
func (c *Config) GetBool(key string, def bool) bool {
	v, _, ok := c.resolve(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes", "1", "true":
		return true
	case "off", "no", "0", "false":
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

// GetInt interprets key's effective value as a base-10 integer.
func (c *Config) GetInt(key string, def int) int {
	v, _, ok := c.resolve(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// GetFloat interprets key's effective value as a float64, used for
// urgency coefficients.
func (c *Config) GetFloat(key string, def float64) float64 {
	v, _, ok := c.resolve(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// GetDuration interprets key's effective value via primitives.ParseDuration.
func (c *Config) GetDuration(key string, def primitives.Duration) primitives.Duration {
	v, _, ok := c.resolve(key)
	if !ok {
		return def
	}
	d, err := primitives.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// SetFile assigns a value loaded from the rc file (SourceFile layer).
func (c *Config) SetFile(key, value string) { c.file[key] = value }

// SetOverride assigns a value from an `rc.<name>=<value>` CLI token
// (SourceOverride layer, always wins).
func (c *Config) SetOverride(key, value string) { c.overrides[key] = value }

// Keys returns every key with an effective value, across all layers.
func (c *Config) Keys() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range []map[string]string{c.defaults, c.file, c.overrides} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}
