package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nibzard/task-cli/internal/config"
	"github.com/nibzard/task-cli/internal/store"
	"github.com/nibzard/task-cli/internal/todo"
)

// projectConfigName is the file init writes in the working directory.
const projectConfigName = "task-cli.toml"

// initCommand writes a commented project config and makes sure tasks.json
// exists.
func (a *app) initCommand(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("task-cli init", flag.ContinueOnError)
	flags.SetOutput(a.stderr)
	force := flags.Bool("force", false, "Overwrite an existing task-cli.toml")
	if err := flags.Parse(args); err != nil {
		return &UsageError{Hint: err.Error()}
	}
	if flags.NArg() > 0 {
		return a.usage("Usage: init [-force]")
	}

	configPath := filepath.Join(a.cfg.WorkDir, projectConfigName)
	_, statErr := os.Stat(configPath)
	switch {
	case statErr == nil && !*force:
		fmt.Fprintf(a.stdout, "%s already exists (use -force to overwrite)\n", projectConfigName)
	case statErr == nil || errors.Is(statErr, fs.ErrNotExist):
		if err := os.WriteFile(configPath, []byte(config.ExampleConfig()), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", projectConfigName, err)
		}
		fmt.Fprintf(a.stdout, "Wrote %s\n", projectConfigName)
	default:
		return fmt.Errorf("checking %s: %w", projectConfigName, statErr)
	}

	unlock, err := a.store.Lock(ctx, true)
	if err != nil {
		return err
	}
	defer a.release(unlock)
	tasks, err := a.store.Load()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s ready (%d tasks)\n", store.FileName, len(tasks))
	return nil
}

// doctorCommand reports on config and the task file. It never writes
// tasks.json.
func (a *app) doctorCommand(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("task-cli doctor", flag.ContinueOnError)
	flags.SetOutput(a.stderr)
	verbose := flags.Bool("v", false, "List every task")
	if err := flags.Parse(args); err != nil {
		return &UsageError{Hint: err.Error()}
	}

	w := a.stdout
	fmt.Fprintln(w, "task-cli doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintf(w, "Working directory: %s\n", a.cfg.WorkDir)
	fmt.Fprintln(w, "Config:")
	if len(a.cfg.Files) == 0 {
		fmt.Fprintln(w, "  (defaults, no config files)")
	}
	for _, f := range a.cfg.Files {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	fmt.Fprintf(w, "  format=%s color=%s on_corrupt=%s lock_timeout=%s\n",
		a.cfg.Format, a.cfg.Color, a.cfg.OnCorrupt, a.cfg.LockTimeout())
	fmt.Fprintln(w)

	path := a.store.Path()
	fmt.Fprintf(w, "Task file: %s\n", path)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created by the first command)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	default:
		tasks, decodeErr := store.Decode(data)
		if decodeErr != nil {
			fmt.Fprintf(w, "  ❌ %v\n", decodeErr)
			allOK = false
			break
		}
		fmt.Fprintf(w, "  ✅ Valid (%d tasks)\n", len(tasks))
		if ok := reportTaskFile(w, tasks, *verbose); !ok {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Lock file: %s\n", a.store.LockPath())
	probe := store.New(path, store.WithLockTimeout(0), store.WithLogger(a.log))
	if unlock, err := probe.Lock(ctx, false); err != nil {
		fmt.Fprintf(w, "  ⚠️  %v\n", err)
	} else {
		a.release(unlock)
		fmt.Fprintln(w, "  ✅ Free")
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// reportTaskFile prints status counts and flags anything the commands would
// not have written themselves. Duplicate IDs make tasks unreachable, so they
// fail the check.
func reportTaskFile(w io.Writer, tasks []todo.Task, verbose bool) bool {
	counts := todo.NewRepository(tasks).Counts()
	for _, st := range todo.Statuses() {
		fmt.Fprintf(w, "     %-11s %d\n", st, counts[st])
	}

	ok := true
	seen := make(map[int]bool, len(tasks))
	for i, t := range tasks {
		if _, known := todo.ParseStatus(string(t.Status)); !known {
			fmt.Fprintf(w, "  ⚠️  Task %d has unknown status %q\n", t.ID, t.Status)
		}
		switch {
		case seen[t.ID]:
			fmt.Fprintf(w, "  ❌ Duplicate ID %d\n", t.ID)
			ok = false
		case t.ID != i+1:
			fmt.Fprintf(w, "  ⚠️  Task at position %d has ID %d (IDs are renumbered on the next delete)\n", i+1, t.ID)
		}
		seen[t.ID] = true
		if verbose {
			fmt.Fprintf(w, "    - [%s] %d: %s\n", t.Status, t.ID, t.Description)
		}
	}
	return ok
}

// schemaCommand prints the JSON Schema tasks.json is validated against.
func (a *app) schemaCommand() error {
	_, err := fmt.Fprint(a.stdout, store.Schema())
	return err
}
