package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/task-cli/internal/render"
	"github.com/nibzard/task-cli/internal/todo"
	"github.com/nibzard/task-cli/internal/ui"
)

const (
	addHint    = "Please provide a task description."
	updateHint = `Usage: update <id> "new description"`
	deleteHint = "Usage: delete <id>"
)

// addCommand appends a task with the joined arguments as its description.
func (a *app) addCommand(ctx context.Context, args []string) error {
	description := strings.Join(args, " ")
	if strings.TrimSpace(description) == "" {
		return a.usage(addHint)
	}

	var added todo.Task
	err := a.withTasks(ctx, func(repo *todo.Repository) error {
		added = repo.Add(description)
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Task added successfully (ID: %d)\n", added.ID)
	return nil
}

// updateCommand replaces the description of an existing task.
func (a *app) updateCommand(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return a.usage(updateHint)
	}
	id, ok := parseID(args[0])
	if !ok {
		return a.usage(updateHint)
	}
	description := strings.Join(args[1:], " ")

	err := a.withTasks(ctx, func(repo *todo.Repository) error {
		_, err := repo.Update(id, description)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Task updated successfully (ID: %d)\n", id)
	return nil
}

// deleteCommand removes a task and renumbers the rest.
func (a *app) deleteCommand(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return a.usage(deleteHint)
	}
	id, ok := parseID(args[0])
	if !ok {
		return a.usage(deleteHint)
	}

	err := a.withTasks(ctx, func(repo *todo.Repository) error {
		return repo.Remove(id)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Task deleted successfully (ID: %d)\n", id)
	return nil
}

// markCommand sets the status named by the command, e.g. mark-done.
func (a *app) markCommand(ctx context.Context, command string, args []string) error {
	hint := fmt.Sprintf("Usage: %s <id>", command)
	if len(args) < 1 {
		return a.usage(hint)
	}
	id, ok := parseID(args[0])
	if !ok {
		return a.usage(hint)
	}
	// The dispatcher only routes the three known mark- commands here.
	status, _ := todo.ParseStatus(strings.TrimPrefix(command, "mark-"))

	err := a.withTasks(ctx, func(repo *todo.Repository) error {
		_, err := repo.SetStatus(id, status)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Task status updated to '%s' (ID: %d)\n", status, id)
	return nil
}

// listCommand prints tasks, optionally filtered by status. Extra arguments
// after the filter are ignored.
func (a *app) listCommand(ctx context.Context, args []string) error {
	var filter string
	if len(args) > 0 {
		filter = strings.ToLower(args[0])
	}

	unlock, err := a.store.Lock(ctx, false)
	if err != nil {
		return err
	}
	tasks, err := a.store.Load()
	a.release(unlock)
	if err != nil {
		return err
	}

	matched := todo.NewRepository(tasks).List(filter)
	a.log.Debug("listing tasks", "filter", filter, "matched", len(matched), "total", len(tasks))
	return render.New(a.stdout, a.color).Tasks(a.cfg.Format, matched)
}

// browseCommand opens the interactive browser. It holds the exclusive lock
// for the whole session so no other invocation writes underneath it.
func (a *app) browseCommand(ctx context.Context) error {
	if !ui.IsTTY(a.stdout) {
		return fmt.Errorf("browse requires a terminal")
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
	repo := todo.NewRepository(tasks)
	model := ui.NewModel(repo, a.store.Save, a.store.Path())
	if err := ui.Run(ctx, model); err != nil {
		return err
	}
	return model.Err()
}

// withTasks loads the collection under the exclusive lock, applies fn and
// saves the result. Nothing is written when fn fails.
func (a *app) withTasks(ctx context.Context, fn func(*todo.Repository) error) error {
	unlock, err := a.store.Lock(ctx, true)
	if err != nil {
		return err
	}
	defer a.release(unlock)

	tasks, err := a.store.Load()
	if err != nil {
		return err
	}
	repo := todo.NewRepository(tasks)
	if err := fn(repo); err != nil {
		return err
	}
	return a.store.Save(repo.Tasks())
}

func (a *app) release(unlock func() error) {
	if err := unlock(); err != nil {
		a.log.Warn("releasing lock", "path", a.store.LockPath(), "err", err)
	}
}

// usage prints hint and returns it as a UsageError.
func (a *app) usage(hint string) error {
	fmt.Fprintln(a.stdout, hint)
	return &UsageError{Hint: hint}
}

func parseID(s string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return id, true
}
