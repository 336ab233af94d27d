// Package cmd implements the task-cli command line.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/task-cli/internal/config"
	"github.com/nibzard/task-cli/internal/logging"
	"github.com/nibzard/task-cli/internal/store"
	"github.com/nibzard/task-cli/internal/todo"
	"github.com/nibzard/task-cli/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

const noCommandHint = `Please provide a command. Example: add "Your task description"`

// app carries everything a command handler needs for one invocation.
type app struct {
	cfg    *config.Config
	log    *log.Logger
	store  *store.Store
	stdout io.Writer
	stderr io.Writer
	color  bool
}

// Run executes the task-cli CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("task-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		var flagErr *config.FlagError
		if errors.As(err, &flagErr) {
			return &UsageError{Hint: flagErr.Error()}
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	a := newApp(cfg, stdout, stderr)

	remaining := fs.Args()
	if len(remaining) == 0 {
		fmt.Fprintln(stdout, noCommandHint)
		return &UsageError{Hint: noCommandHint}
	}
	command := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	a.log.Debug("dispatching", "command", command, "args", len(remaining))

	err = a.dispatch(ctx, fs, command, remaining)
	a.report(err)
	return err
}

func newApp(cfg *config.Config, stdout, stderr io.Writer) *app {
	logger := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat)
	for _, f := range cfg.Files {
		logger.Debug("config file applied", "path", f)
	}

	// Validate already rejected unknown policies.
	policy, _ := store.ParseCorruptPolicy(cfg.OnCorrupt)
	st := store.Open(cfg.WorkDir,
		store.WithCorruptPolicy(policy),
		store.WithLockTimeout(cfg.LockTimeout()),
		store.WithLogger(logger),
	)

	return &app{
		cfg:    cfg,
		log:    logger,
		store:  st,
		stdout: stdout,
		stderr: stderr,
		color:  useColor(cfg.Color, stdout),
	}
}

func (a *app) dispatch(ctx context.Context, fs *flag.FlagSet, command string, args []string) error {
	switch command {
	case "add":
		return a.addCommand(ctx, args)
	case "update":
		return a.updateCommand(ctx, args)
	case "delete":
		return a.deleteCommand(ctx, args)
	case "list":
		return a.listCommand(ctx, args)
	case "mark-todo", "mark-in-progress", "mark-done":
		return a.markCommand(ctx, command, args)
	case "browse":
		return a.browseCommand(ctx)
	case "init":
		return a.initCommand(ctx, args)
	case "doctor":
		return a.doctorCommand(ctx, args)
	case "schema":
		return a.schemaCommand()
	case "help":
		printUsage(fs, a.stdout)
		return nil
	case "version":
		return versionCommand(a.stdout)
	default:
		return &UnknownCommandError{Name: command}
	}
}

// report prints the user-facing line for domain errors. Handlers print their
// own usage hints before returning a UsageError.
func (a *app) report(err error) {
	if err == nil {
		return
	}
	var (
		notFound *todo.NotFoundError
		corrupt  *store.CorruptStoreError
		unknown  *UnknownCommandError
	)
	switch {
	case errors.As(err, &notFound):
		fmt.Fprintln(a.stdout, "Task not found.")
	case errors.As(err, &unknown):
		fmt.Fprintln(a.stdout, "Unknown command.")
	case errors.As(err, &corrupt):
		fmt.Fprintln(a.stderr, corrupt.Error())
		fmt.Fprintln(a.stderr, "Fix or remove the file, or rerun with --on-corrupt reset to start over.")
	}
}

func useColor(mode string, stdout io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return ui.IsTTY(stdout)
	}
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "task-cli version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "task-cli - track tasks in tasks.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  task-cli [options] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description>           Add a task")
	fmt.Fprintln(w, "  update <id> <description>   Replace a task's description")
	fmt.Fprintln(w, "  delete <id>                 Delete a task (later IDs shift down)")
	fmt.Fprintln(w, "  list [status]               List tasks, optionally by status")
	fmt.Fprintln(w, "  mark-todo <id>              Set status to todo")
	fmt.Fprintln(w, "  mark-in-progress <id>       Set status to in-progress")
	fmt.Fprintln(w, "  mark-done <id>              Set status to done")
	fmt.Fprintln(w, "  browse                      Browse and mark tasks interactively")
	fmt.Fprintln(w, "  init [-force]               Write task-cli.toml and create tasks.json")
	fmt.Fprintln(w, "  doctor [-v]                 Check config and tasks.json")
	fmt.Fprintln(w, "  schema                      Print the JSON Schema for tasks.json")
	fmt.Fprintln(w, "  version                     Show version information")
	fmt.Fprintln(w, "  help                        Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
