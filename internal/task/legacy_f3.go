package task

import (
	"fmt"
	"strconv"
	"strings"

	tlerrors "tasklet/internal/errors"
)

// parseF3 parses the 2009-era format:
//
//	<uuid> <status> [tags] [attributes] [annotations] description\n
//
// annotations is a space-separated list of `<epoch>:"<text>"` pairs. The
// boundary behavior of this state machine (quote pairing, embedded spaces
// in the quoted text) is exactly what spec.md §8's testable scenarios
// describe; anything outside that contract is reported rather than
// guessed at, per spec.md §7 and §9's open question on F3 ambiguity.
func parseF3(line, file string, lineNo int) (*Task, error) {
	if len(line) < 38 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F3 line too short")}
	}
	uuid := line[:36]
	status, ok := f2StatusCodes[line[37]]
	if !ok {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("unrecognized F3 status code %q", string(line[37]))}
	}

	openTag := strings.IndexByte(line, '[')
	if openTag < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F3 line is missing tag brackets")}
	}
	closeTag := strings.IndexByte(line[openTag:], ']')
	if closeTag < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F3 line is missing tag brackets")}
	}
	closeTag += openTag

	openAttr := strings.IndexByte(line[closeTag:], '[')
	if openAttr < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F3 line is missing attribute brackets")}
	}
	openAttr += closeTag
	closeAttr := strings.IndexByte(line[openAttr:], ']')
	if closeAttr < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F3 line is missing attribute brackets")}
	}
	closeAttr += openAttr

	openAnno := strings.IndexByte(line[closeAttr:], '[')
	if openAnno < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F3 line is missing annotation brackets")}
	}
	openAnno += closeAttr
	closeAnno := strings.IndexByte(line[openAnno:], ']')
	if closeAnno < 0 {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Token: line, Err: fmt.Errorf("F3 line is missing annotation brackets")}
	}
	closeAnno += openAnno

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

	if err := parseF3Annotations(t, line[openAnno+1:closeAnno], file, lineNo); err != nil {
		return nil, err
	}

	if closeAnno+2 <= len(line) {
		t.Set("description", line[closeAnno+2:])
	}

	return t, nil
}

// parseF3Annotations walks text pairing successive double-quote marks to
// recover `epoch:"text"` entries, mirroring the original C++ state machine
// byte-for-byte rather than a general tokenizer.
func parseF3Annotations(t *Task, text, file string, lineNo int) error {
	start := 0
	for start < len(text) {
		firstQuote := strings.IndexByte(text[start:], '"')
		if firstQuote < 0 {
			break
		}
		firstQuote += start
		secondQuote := strings.IndexByte(text[firstQuote+1:], '"')
		if secondQuote < 0 {
			return &tlerrors.ParseError{File: file, Line: lineNo, Token: text, Err: fmt.Errorf("unterminated F3 annotation")}
		}
		secondQuote += firstQuote + 1

		entry := text[start:secondQuote]
		colon := strings.IndexByte(entry, ':')
		if colon < 0 {
			return &tlerrors.ParseError{File: file, Line: lineNo, Token: entry, Err: fmt.Errorf("malformed F3 annotation %q", entry)}
		}
		epochText := strings.TrimSpace(entry[:colon])
		epoch, err := strconv.ParseInt(epochText, 10, 64)
		if err != nil {
			return &tlerrors.ParseError{File: file, Line: lineNo, Token: epochText, Err: fmt.Errorf("malformed F3 annotation timestamp %q", epochText)}
		}
		annoText := entry[colon+2:] // skip ':"' prefix; entry already excludes the closing quote
		t.Set(fmt.Sprintf("annotation_%d", epoch), annoText)

		start = secondQuote + 2 // skip closing quote and the following space
	}
	return nil
}
