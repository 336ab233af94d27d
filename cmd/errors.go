package cmd

import (
	"context"
	"errors"

	"github.com/nibzard/task-cli/internal/store"
	"github.com/nibzard/task-cli/internal/todo"
)

// Exit codes returned by ExitCode.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitNotFound    = 3
	ExitCorrupt     = 4
	ExitUnknown     = 5
	ExitInterrupted = 130
)

// UsageError reports arguments of the wrong shape. Hint is what the user
// was shown.
type UsageError struct {
	Hint string
}

func (e *UsageError) Error() string {
	return e.Hint
}

// UnknownCommandError reports a verb task-cli does not recognise.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return "unknown command: " + e.Name
}

// ExitCode maps an error returned by Run to a process exit status.
func ExitCode(err error) int {
	var (
		usage   *UsageError
		unknown *UnknownCommandError
		corrupt *store.CorruptStoreError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, &usage):
		return ExitUsage
	case errors.Is(err, todo.ErrNotFound):
		return ExitNotFound
	case errors.As(err, &corrupt):
		return ExitCorrupt
	case errors.As(err, &unknown):
		return ExitUnknown
	default:
		return ExitFailure
	}
}

// Reported reports whether Run already told the user about err.
func Reported(err error) bool {
	switch ExitCode(err) {
	case ExitUsage, ExitNotFound, ExitCorrupt, ExitUnknown:
		return true
	default:
		return false
	}
}
