package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tasklet/internal/config"
	"tasklet/internal/env"
	tlerrors "tasklet/internal/errors"
	"tasklet/internal/filter"
	"tasklet/internal/primitives"
	"tasklet/internal/storage"
)

// mutatingCommands lists every command in spec.md §6.2 that changes task
// state and therefore needs a write lock and a commit at the end of
// dispatch.
var mutatingCommands = map[string]bool{
	"add": true, "log": true, "modify": true, "done": true, "delete": true,
	"start": true, "stop": true, "annotate": true, "denotate": true,
	"duplicate": true, "undo": true, "import": true,
}

// readOnlyCommands lists the reporting commands that load with
// locking=false (spec.md §4.3, §5).
var readOnlyCommands = map[string]bool{
	"info": true, "list": true, "all": true, "export": true,
	"projects": true, "tags": true, "stats": true, "ids": true,
	"uuids": true, "next": true, "diag": true,
}

// allCommands is the full command vocabulary filter.Compile needs in
// order to find where the filter clause ends and the command begins.
func allCommands() map[string]bool {
	out := make(map[string]bool, len(mutatingCommands)+len(readOnlyCommands))
	for k := range mutatingCommands {
		out[k] = true
	}
	for k := range readOnlyCommands {
		out[k] = true
	}
	return out
}

var (
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
)

// DeepTaskError renders a fatal error message the way the teacher's CLI
// styles its error output (cmd/cobra_cli.go's DeepCodingError), minus the
// emoji prefix — this engine reports machine-adjacent failures, not
// conversational ones.
func DeepTaskError(msg string) string { return errColor.Sprint(msg) }

// Execute builds the root Cobra command and runs it against args
// (os.Args[1:]). Flag parsing is disabled: Taskwarrior's own grammar
// (`task [<filter>] <command> [<mods>]`) is not POSIX-flag-shaped — `-tag`
// and `+tag` would otherwise be misread as options — so internal/filter
// and internal/task own all argument classification instead.
func Execute(args []string) error {
	root := &cobra.Command{
		Use:                "tasklet [filter] <command> [modifications]",
		Short:              "a single-user command-line task manager",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args)
		},
	}
	root.SetArgs(args)
	return root.Execute()
}

// run is the full invocation pipeline: resolve config, extract rc.*
// overrides, compile the filter, open storage, dispatch the command, and
// commit (spec.md §2's control-flow diagram).
func run(rawArgs []string) error {
	cfg := config.New()
	if err := config.LoadDefaultIfPresent(cfg); err != nil {
		return err
	}
	args := config.ExtractOverrides(cfg, rawArgs)

	expr, remainder, err := filter.Compile(args, allCommands())
	if err != nil {
		return err
	}
	if len(remainder) == 0 {
		fmt.Println(usageText())
		return nil
	}
	cmdName := remainder[0]
	rest := remainder[1:]

	now := primitives.Now()
	dataDir := resolveDataDir(cfg)
	fb := newTTYFeedback(cfg)
	e := env.New(cfg, dataDir, now, fb)

	locking := cfg.GetBool("locking", true)
	if readOnlyCommands[cmdName] {
		locking = false
	}
	store, err := storage.Open(dataDir, locking)
	if err != nil {
		return &tlerrors.IOError{Path: dataDir, Op: "open data directory", Err: err}
	}

	sess, err := store.Load(e)
	if err != nil {
		return err
	}
	defer sess.Release()

	disp, ok := dispatch[cmdName]
	if !ok {
		return fmt.Errorf("unrecognized command %q", cmdName)
	}

	if needsFilter[cmdName] && expr.Unfiltered() && cfg.GetBool("confirmation", true) {
		if !fb.Confirm("This command has no filter and will affect every task. Continue?") {
			return fmt.Errorf("command %q aborted: no filter and confirmation declined", cmdName)
		}
	}

	if err := disp(e, sess, expr, rest); err != nil {
		return err
	}

	if mutatingCommands[cmdName] && !selfCommits[cmdName] {
		if err := sess.GC(); err != nil {
			return err
		}
		if err := sess.Commit(e); err != nil {
			return err
		}
	}
	return nil
}

// selfCommits lists mutating commands that persist their own result
// instead of going through the generic GC+Commit pipeline: undo reverts
// a change, so writing that reversion through Commit would log the
// revert itself as a fresh undoable change.
var selfCommits = map[string]bool{
	"undo": true,
}

// needsFilter marks the mutating commands whose filter selects the tasks
// to act on, as opposed to add/log/undo/import which never take one.
var needsFilter = map[string]bool{
	"modify": true, "done": true, "delete": true, "start": true, "stop": true,
	"annotate": true, "denotate": true, "duplicate": true,
}

func resolveDataDir(cfg *config.Config) string {
	if v := cfg.GetString("data.location", ""); v != "" {
		return expandHome(v)
	}
	if v := os.Getenv("TASKDATA"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".task"
	}
	return filepath.Join(home, ".task")
}

func expandHome(path string) string {
	if path == "~" || len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				return home
			}
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func usageText() string {
	return "usage: tasklet [filter] <command> [modifications]\n" +
		"commands: add log modify done delete start stop annotate denotate\n" +
		"          duplicate undo import info list all export projects tags\n" +
		"          stats ids uuids next diag"
}
