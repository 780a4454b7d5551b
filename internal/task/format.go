package task

import (
	"fmt"
	"strings"

	tlerrors "tasklet/internal/errors"
)

// Format identifies which of the four historical line formats a line was
// written in. Only FormatF4 is ever written by this engine; F1-F3 are
// read-only legacy support.
type Format int

const (
	FormatUnknown Format = iota
	FormatF1
	FormatF2
	FormatF3
	FormatF4
)

// DetectFormat classifies line using the ordered rules from spec.md §4.2,
// with one check in front of them: a line that starts with '[', ends with
// ']' and carries a `uuid:"` attribute is F4. Otherwise a leading '[' or
// 'X' is F1; a canonical-UUID-shaped prefix followed by a status code is
// F2 or F3 depending on how many bracketed groups precede the description;
// anything else is presumed F4.
func DetectFormat(line string) Format {
	if len(line) == 0 {
		return FormatUnknown
	}
	if line[0] == '[' && line[len(line)-1] == ']' && strings.Contains(line, `uuid:"`) {
		return FormatF4
	}
	if line[0] == '[' || line[0] == 'X' {
		return FormatF1
	}
	if len(line) > 37 &&
		line[8] == '-' && line[13] == '-' && line[18] == '-' && line[23] == '-' &&
		line[36] == ' ' &&
		(line[37] == '-' || line[37] == '+' || line[37] == 'X' || line[37] == 'r' || line[37] == 'W') {
		tagAtts := indexFrom(line, "] [", 0)
		attsAnno := indexFrom(line, "] [", tagAtts+1)
		annoDesc := indexFrom(line, "] ", attsAnno+1)
		if tagAtts >= 0 && attsAnno >= 0 && annoDesc >= 0 {
			return FormatF3
		}
		return FormatF2
	}
	return FormatF4
}

func indexFrom(s, substr string, from int) int {
	if from < 0 || from > len(s) {
		return -1
	}
	idx := indexByte(s[from:], substr)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func indexByte(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

// ParseLine parses a single data-file line (without its trailing newline)
// into a Task, dispatching on DetectFormat. file and lineNo are used only
// to annotate a *tlerrors.ParseError on failure.
func ParseLine(line, file string, lineNo int) (*Task, error) {
	if len(line) > MaxLineBytes {
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Err: fmt.Errorf("line exceeds %d bytes", MaxLineBytes)}
	}
	switch DetectFormat(line) {
	case FormatF1:
		return parseF1(line, file, lineNo)
	case FormatF2:
		return parseF2(line, file, lineNo)
	case FormatF3:
		return parseF3(line, file, lineNo)
	case FormatF4:
		return parseF4(line, file, lineNo)
	default:
		return nil, &tlerrors.ParseError{File: file, Line: lineNo, Err: fmt.Errorf("empty or unrecognized line")}
	}
}

// Compose always renders t in F4, the only format this engine writes.
func Compose(t *Task) (string, error) {
	line := composeF4(t)
	if len(line) > MaxLineBytes {
		return "", fmt.Errorf("composed line for task %s exceeds %d bytes", t.UUID(), MaxLineBytes)
	}
	return line, nil
}
