// Command tasklet is the CLI surface over the task-data engine: it parses
// a freeform argument list into a filter + command + modifications
// (internal/filter), loads the task set (internal/storage), applies the
// command, commits, and renders a plain-text or JSON report. The
// TTY/curses presentation layer, color rule tables, and interactive shell
// a full Taskwarrior ships are explicitly out of scope (spec.md §1); this
// binary exists only to exercise the core engine end to end.
package main

import (
	"fmt"
	"os"

	tlerrors "tasklet/internal/errors"
)

func main() {
	if err := Execute(os.Args[1:]); err != nil {
		if !errIsReported(err) {
			fmt.Fprintln(os.Stderr, DeepTaskError(err.Error()))
		}
		os.Exit(tlerrors.ExitCode(err))
	}
}

// reportedError marks an error whose message has already been written to
// stderr by the command that produced it (e.g. import's file-open or read
// failure), so main doesn't print it a second time.
type reportedError struct{ err error }

func (r reportedError) Error() string { return r.err.Error() }
func (r reportedError) Unwrap() error { return r.err }

func errIsReported(err error) bool {
	_, ok := err.(reportedError)
	return ok
}
