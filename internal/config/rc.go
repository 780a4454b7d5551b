package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tlerrors "tasklet/internal/errors"
)

// MaxIncludeDepth bounds `include` directive nesting per spec.md §6.3.
const MaxIncludeDepth = 10

// LoadFile reads a `.taskrc`-style file into c's SourceFile layer:
// `key=value` lines, `#`-prefixed comments, blank lines, and
// `include <path>` directives (relative to the including file's
// directory, nested up to MaxIncludeDepth, cycle-checked).
func LoadFile(c *Config, path string) error {
	return loadFileDepth(c, path, 0, make(map[string]bool))
}

func loadFileDepth(c *Config, path string, depth int, visited map[string]bool) error {
	if depth > MaxIncludeDepth {
		return &tlerrors.ParseError{File: path, Err: fmt.Errorf("include nesting exceeds max depth %d", MaxIncludeDepth)}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if visited[abs] {
		return &tlerrors.ParseError{File: path, Err: fmt.Errorf("include cycle detected")}
	}
	visited[abs] = true

	f, err := os.Open(path)
	if err != nil {
		return &tlerrors.IOError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	lineNo := 0
	dir := filepath.Dir(path)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "include "); ok {
			includePath := strings.TrimSpace(rest)
			if !filepath.IsAbs(includePath) {
				includePath = filepath.Join(dir, includePath)
			}
			if err := loadFileDepth(c, includePath, depth+1, visited); err != nil {
				return err
			}
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return &tlerrors.ParseError{File: path, Line: lineNo, Token: line, Err: fmt.Errorf("expected key=value")}
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		if key == "" {
			return &tlerrors.ParseError{File: path, Line: lineNo, Token: line, Err: fmt.Errorf("empty key")}
		}
		c.SetFile(key, value)
	}
	if err := scanner.Err(); err != nil {
		return &tlerrors.IOError{Path: path, Op: "read", Err: err}
	}
	return nil
}

// DefaultPath returns $TASKRC if set, else "~/.taskrc".
func DefaultPath() string {
	if v := os.Getenv("TASKRC"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskrc"
	}
	return filepath.Join(home, ".taskrc")
}

// LoadDefaultIfPresent loads DefaultPath() into c if it exists; a missing
// rc file is not an error (defaults apply).
func LoadDefaultIfPresent(c *Config) error {
	path := DefaultPath()
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return LoadFile(c, path)
}
