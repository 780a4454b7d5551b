package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"tasklet/internal/config"
	"tasklet/internal/task"
)

// isTTY reports whether both stdin and stdout are attached to a terminal,
// grounded on the teacher's cmd/cobra_cli.go isTTY() helper.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// ttyFeedback implements env.Feedback against the real terminal: warnings
// and events are printed (colored when color=on and attached to a TTY),
// confirmation reads a y/n answer from stdin when interactive, and always
// declines otherwise (forcing automation to pass rc.confirmation=off).
type ttyFeedback struct {
	color bool
	tty   bool
}

func newTTYFeedback(cfg *config.Config) *ttyFeedback {
	tty := isTTY()
	return &ttyFeedback{
		color: cfg.GetBool("color", true) && tty,
		tty:   tty,
	}
}

func (f *ttyFeedback) Warn(kind, message string) {
	line := fmt.Sprintf("[%s] %s", kind, message)
	if f.color {
		fmt.Fprintln(os.Stderr, color.New(color.FgYellow).Sprint(line))
		return
	}
	fmt.Fprintln(os.Stderr, line)
}

func (f *ttyFeedback) Confirm(prompt string) bool {
	if !f.tty {
		return false
	}
	fmt.Fprintf(os.Stderr, "%s (y/n) ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func (f *ttyFeedback) Event(name string, t *task.Task) {
	uuid := ""
	desc := ""
	if t != nil {
		uuid = t.UUID()
		desc = t.Description()
	}
	line := fmt.Sprintf("%s: %s %s", name, uuid, desc)
	if f.color {
		fmt.Fprintln(os.Stderr, color.New(color.FgCyan).Sprint(line))
		return
	}
	fmt.Fprintln(os.Stderr, line)
}
