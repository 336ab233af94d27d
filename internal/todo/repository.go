package todo

import (
	"strings"
	"time"
)

// Repository is the task collection for a single process run.
// It is not safe for concurrent use.
type Repository struct {
	tasks []Task
	now   func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// NewRepository wraps a loaded collection. The slice is copied.
func NewRepository(tasks []Task, opts ...Option) *Repository {
	r := &Repository{
		tasks: make([]Task, len(tasks)),
		now:   time.Now,
	}
	copy(r.tasks, tasks)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Len returns the number of tasks.
func (r *Repository) Len() int {
	return len(r.tasks)
}

// Tasks returns a copy of the collection in insertion order, ready to save.
func (r *Repository) Tasks() []Task {
	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Replace swaps in a new collection, e.g. to roll back after a failed save.
func (r *Repository) Replace(tasks []Task) {
	r.tasks = make([]Task, len(tasks))
	copy(r.tasks, tasks)
}

// Get returns the task with the given ID.
func (r *Repository) Get(id int) (Task, error) {
	i := r.index(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	return r.tasks[i], nil
}

// Add appends a new todo task and returns it.
func (r *Repository) Add(description string) Task {
	next := 1
	for _, t := range r.tasks {
		if t.ID >= next {
			next = t.ID + 1
		}
	}

	now := r.now()
	task := Task{
		ID:          next,
		Description: description,
		Status:      StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.tasks = append(r.tasks, task)
	return task
}

// Update replaces a task's description.
func (r *Repository) Update(id int, description string) (Task, error) {
	return r.mutate(id, func(t *Task) {
		t.Description = description
	})
}

// SetStatus sets a task's status to the given literal.
func (r *Repository) SetStatus(id int, status Status) (Task, error) {
	return r.mutate(id, func(t *Task) {
		t.Status = status
	})
}

// Remove deletes a task and renumbers the rest to 1..N, keeping their order.
func (r *Repository) Remove(id int) error {
	i := r.index(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	for j := range r.tasks {
		r.tasks[j].ID = j + 1
	}
	return nil
}

// List returns the tasks whose status equals filter case-insensitively,
// or every task when filter is empty. The result is never nil.
func (r *Repository) List(filter string) []Task {
	out := make([]Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if filter == "" || strings.EqualFold(string(t.Status), filter) {
			out = append(out, t)
		}
	}
	return out
}

// Counts returns the number of tasks per status.
func (r *Repository) Counts() map[Status]int {
	counts := make(map[Status]int, len(Statuses()))
	for _, st := range Statuses() {
		counts[st] = 0
	}
	for _, t := range r.tasks {
		counts[t.Status]++
	}
	return counts
}

func (r *Repository) mutate(id int, fn func(*Task)) (Task, error) {
	i := r.index(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	fn(&r.tasks[i])
	r.tasks[i].UpdatedAt = r.now()
	return r.tasks[i], nil
}

func (r *Repository) index(id int) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
