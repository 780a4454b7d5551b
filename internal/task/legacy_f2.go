package task

import (
	"fmt"
	"strings"

	tlerrors "tasklet/internal/errors"
)

var f2StatusCodes = map[byte]Status{
	'-': StatusPending,
	'+': StatusCompleted,
	'X': StatusDeleted,
	'r': StatusRecurring,
	'W': StatusWaiting,
}

// parseF2 parses the 2008-era format:
//
//	<uuid> <status> [tags] [attributes] description\n
func parseF2(line, file string, lineNo int) (*Task, error) {
	if len(line) < 38 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F2 line too short")}
	}
	uuid := line[:36]
	status, ok := f2StatusCodes[line[37]]
	if !ok {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("unrecognized F2 status code %q", string(line[37]))}
	}

	openTag := strings.IndexByte(line, '[')
	if openTag < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F2 line is missing tag brackets")}
	}
	closeTag := strings.IndexByte(line[openTag:], ']')
	if closeTag < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F2 line is missing tag brackets")}
	}
	closeTag += openTag

	openAttr := strings.IndexByte(line[closeTag:], '[')
	if openAttr < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F2 line is missing attribute brackets")}
	}
	openAttr += closeTag
	closeAttr := strings.IndexByte(line[openAttr:], ']')
	if closeAttr < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F2 line is missing attribute brackets")}
	}
	closeAttr += openAttr

	t := New()
	t.Set("uuid", uuid)
	t.SetStatus(status)

	var tags []string
	tags = append(tags, strings.Fields(line[openTag+1:closeTag])...)
	t.SetTags(tags)

	for _, pair := range strings.Fields(line[openAttr+1 : closeAttr]) {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) == 2 {
			t.Set(kv[0], kv[1])
		}
	}

	if closeAttr+2 <= len(line) {
		t.Set("description", line[closeAttr+2:])
	}

	return t, nil
}
