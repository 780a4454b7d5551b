package task

import (
	"fmt"
	"strings"

	tlerrors "tasklet/internal/errors"
	"tasklet/internal/primitives"
)

// parseF1 parses the original 2006-era format:
//
//	[tags] [attributes] description\n
//	X [tags] [attributes] description\n
//
// A fresh UUID is synthesized since F1 predates the uuid attribute.
func parseF1(line, file string, lineNo int) (*Task, error) {
	deleted := false
	if strings.HasPrefix(line, "X") {
		deleted = true
		line = strings.TrimPrefix(line, "X")
		line = strings.TrimPrefix(line, " ")
	}

	openTag := strings.IndexByte(line, '[')
	if openTag < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F1 line is missing tag brackets")}
	}
	closeTag := strings.IndexByte(line[openTag:], ']')
	if closeTag < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F1 line is missing tag brackets")}
	}
	closeTag += openTag

	openAttr := strings.IndexByte(line[closeTag:], '[')
	if openAttr < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F1 line is missing attribute brackets")}
	}
	openAttr += closeTag
	closeAttr := strings.IndexByte(line[openAttr:], ']')
	if closeAttr < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F1 line is missing attribute brackets")}
	}
	closeAttr += openAttr

	t := New()
	t.Set("uuid", primitives.NewUUID())
	if deleted {
		t.SetStatus(StatusDeleted)
	} else {
		t.SetStatus(StatusPending)
	}

	tagsText := line[openTag+1 : closeTag]
	var tags []string
	for _, w := range strings.Fields(tagsText) {
		tags = append(tags, w)
	}
	t.SetTags(tags)

	attrText := line[openAttr+1 : closeAttr]
	for _, pair := range strings.Fields(attrText) {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) == 2 && kv[1] != "" {
			t.Set(kv[0], kv[1])
		}
	}

	if closeAttr+2 <= len(line) {
		t.Set("description", line[closeAttr+2:])
	}

	return t, nil
}
