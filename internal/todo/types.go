package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status represents a task status.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists the known statuses in display order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// ParseStatus returns the known status matching s case-insensitively.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses() {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// Task represents a single tracked item.
// Field names match the on-disk document exactly.
type Task struct {
	ID          int       `json:"Id" yaml:"id"`
	Description string    `json:"Description" yaml:"description"`
	Status      Status    `json:"Status" yaml:"status"`
	CreatedAt   time.Time `json:"CreatedAt" yaml:"created_at"`
	UpdatedAt   time.Time `json:"UpdatedAt" yaml:"updated_at"`
}

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("task not found")

// NotFoundError reports an ID with no task behind it.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
