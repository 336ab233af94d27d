// Package render formats task lists for the terminal, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/task-cli/internal/todo"
)

// EmptyMessage is printed in text mode when nothing matches.
const EmptyMessage = "No matching tasks found."

// Header is the first line of the text table.
const Header = "ID || Description || Status"

// Renderer writes task lists to w.
type Renderer struct {
	w     io.Writer
	color bool
}

// New returns a Renderer. colorize enables ANSI colours in text mode.
func New(w io.Writer, colorize bool) *Renderer {
	return &Renderer{w: w, color: colorize}
}

// Tasks writes tasks in the given format (text, json or yaml).
func (r *Renderer) Tasks(format string, tasks []todo.Task) error {
	switch format {
	case "", "text":
		return r.text(tasks)
	case "json":
		return r.json(tasks)
	case "yaml":
		return r.yaml(tasks)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func (r *Renderer) text(tasks []todo.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(r.w, EmptyMessage)
		return err
	}

	if _, err := fmt.Fprintln(r.w, r.paint(color.New(color.Bold), Header)); err != nil {
		return err
	}
	for _, t := range tasks {
		status := r.paint(statusColor(t.Status), string(t.Status))
		if _, err := fmt.Fprintf(r.w, "%d || %s || %s\n", t.ID, t.Description, status); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) json(tasks []todo.Task) error {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(tasks)
}

func (r *Renderer) yaml(tasks []todo.Task) error {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func (r *Renderer) paint(c *color.Color, s string) string {
	if r.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func statusColor(s todo.Status) *color.Color {
	switch s {
	case todo.StatusTodo:
		return color.New(color.FgYellow)
	case todo.StatusInProgress:
		return color.New(color.FgCyan)
	case todo.StatusDone:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgMagenta)
	}
}
