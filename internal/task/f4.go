package task

import (
	"fmt"
	"sort"
	"strings"

	tlerrors "tasklet/internal/errors"
	"tasklet/internal/primitives"
)

// parseF4 parses the canonical `[name:"value" name:"value" ...]` line
// format. Quoted values have already had their structural characters
// (quote, brackets, tab, comma) entity-escaped by composeF4, so the quoted
// span itself never contains an unescaped closing quote.
func parseF4(line, file string, lineNo int) (*Task, error) {
	n := primitives.NewNibbler(line)
	if !n.ConsumeChar('[') {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F4 line does not start with '['")}
	}

	t := New()
	for {
		n.SkipWS()
		if n.ConsumeChar(']') {
			break
		}
		name, ok := n.ConsumeUntil(':')
		if !ok || name == "" {
			return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: n.Remainder(), Err: fmt.Errorf("expected 'name:' in F4 attribute")}
		}
		if !n.ConsumeChar(':') {
			return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: n.Remainder(), Err: fmt.Errorf("expected ':' after attribute name %q", name)}
		}
		value, ok := n.ConsumeQuoted('"', false)
		if !ok {
			return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: n.Remainder(), Err: fmt.Errorf("expected quoted value for attribute %q", name)}
		}
		value = primitives.UnescapeF4(value)
		if name == "status" {
			if len(value) != 1 {
				return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: value, Err: fmt.Errorf("F4 status code must be a single character, got %q", value)}
			}
			s, known := StatusFromCode(value[0])
			if !known {
				return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: value, Err: fmt.Errorf("unrecognized F4 status code %q", value)}
			}
			t.SetStatus(s)
		} else {
			t.Set(name, value)
		}
		if n.Depleted() {
			return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("unterminated F4 line, missing ']'")}
		}
	}

	if t.UUID() == "" {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F4 task has no uuid")}
	}
	return t, nil
}

// composeF4 renders t's attribute map into the canonical F4 line, key
// order sorted for determinism (the round-trip invariant only requires
// that the attribute set, not the order, survive a parse/compose cycle).
func composeF4(t *Task) string {
	names := t.All()
	sort.Strings(names)
	var sb strings.Builder
	sb.WriteByte('[')
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(name)
		sb.WriteByte(':')
		sb.WriteByte('"')
		if name == "status" {
			sb.WriteByte(t.Status().Code())
		} else {
			sb.WriteString(primitives.EscapeF4(t.Get(name)))
		}
		sb.WriteByte('"')
	}
	sb.WriteByte(']')
	return sb.String()
}
