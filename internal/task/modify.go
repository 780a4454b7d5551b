package task

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tasklet/internal/primitives"
)

// modAttrPattern recognizes a bare `name:value` modification token. Unlike
// the filter tokenizer's attrPattern, modifications never carry a
// `.modifier` suffix — `due:tomorrow` assigns, it doesn't query.
var modAttrPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*):(.*)$`)

// dateAttrs names every reserved attribute whose raw value is epoch
// seconds, so ParseModifications can resolve a relative keyword
// (`due:tomorrow`) or explicit date through primitives.ParseDate instead
// of storing the keyword text verbatim.
var dateAttrs = map[string]bool{
	"due": true, "wait": true, "until": true, "scheduled": true,
	"start": true, "end": true, "entry": true,
}

// Modifications is the parsed form of a command's trailing `<mods>`
// tokens (spec.md §6.2): attribute assignments, tag add/remove, and the
// free words that accumulate into the description.
type Modifications struct {
	Sets       map[string]string // attribute -> raw string value to store
	Removes    []string          // attribute names cleared by an empty value (`due:`)
	AddTags    []string
	RemoveTags []string
	Words      []string // non-attribute, non-tag tokens, in order
}

// ParseModifications classifies each token in args per spec.md §4.4's
// clause grammar, minus the relational `.modifier` suffix and DOM/regex
// forms that only make sense inside a filter: `name:value` assigns,
// `+tag`/`-tag` adds/removes a tag, anything else is a description word.
// Relative/explicit date values for the reserved date attributes are
// resolved against now immediately so Sets always holds epoch-second
// strings for those names.
func ParseModifications(args []string, now primitives.Date) (*Modifications, error) {
	m := &Modifications{Sets: make(map[string]string)}
	for _, raw := range args {
		if raw == "" {
			continue
		}
		switch {
		case len(raw) >= 2 && (raw[0] == '+' || raw[0] == '-') && !isNumericToken(raw):
			tag := raw[1:]
			if tag == "" {
				m.Words = append(m.Words, raw)
				continue
			}
			if raw[0] == '+' {
				m.AddTags = append(m.AddTags, tag)
			} else {
				m.RemoveTags = append(m.RemoveTags, tag)
			}
		case modAttrPattern.MatchString(raw):
			mm := modAttrPattern.FindStringSubmatch(raw)
			name, value := mm[1], unquoteMod(mm[2])
			if IsReservedAttribute(name) && name != "tags" && name != "depends" {
				if value == "" {
					m.Removes = append(m.Removes, name)
					continue
				}
				if dateAttrs[name] {
					d, err := primitives.ParseDate(value, now)
					if err != nil {
						return nil, fmt.Errorf("modification %q: %w", raw, err)
					}
					m.Sets[name] = strconv.FormatInt(d.Epoch, 10)
					continue
				}
			}
			if value == "" {
				m.Removes = append(m.Removes, name)
				continue
			}
			m.Sets[name] = value
		default:
			m.Words = append(m.Words, raw)
		}
	}
	return m, nil
}

func isNumericToken(s string) bool {
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func unquoteMod(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// Description joins the accumulated words into a single description
// string, the form `add`/`modify` store on the task.
func (m *Modifications) Description() string { return strings.Join(m.Words, " ") }

// ApplyTo mutates t in place: assigns/removes attributes, adds/removes
// tags. It does not touch the description — callers decide whether to
// set (add) or append (modify) it, since the two commands differ there.
func (m *Modifications) ApplyTo(t *Task) {
	for name, value := range m.Sets {
		t.Set(name, value)
	}
	for _, name := range m.Removes {
		t.Remove(name)
	}
	for _, tag := range m.AddTags {
		t.AddTag(tag)
	}
	for _, tag := range m.RemoveTags {
		t.RemoveTag(tag)
	}
}
