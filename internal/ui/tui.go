// Package ui provides the optional interactive task browser.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/task-cli/internal/todo"
)

// SaveFunc persists the whole collection after a change.
type SaveFunc func([]todo.Task) error

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyles  = map[todo.Status]lipgloss.Style{
		todo.StatusTodo:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		todo.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		todo.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

// Model is the bubbletea model for the browser.
type Model struct {
	repo     *todo.Repository
	save     SaveFunc
	path     string
	filter   todo.Status
	cursor   int
	showHelp bool
	message  string
	err      error
}

// NewModel creates a browser over repo. Every status change is written
// through save before it is shown as applied.
func NewModel(repo *todo.Repository, save SaveFunc, path string) *Model {
	return &Model{repo: repo, save: save, path: path}
}

// Run starts the browser on the terminal.
func Run(ctx context.Context, m *Model) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("browse requires a TTY")
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "h", "?":
		m.showHelp = !m.showHelp
	case "1":
		m.setFilter(todo.StatusTodo)
	case "2":
		m.setFilter(todo.StatusInProgress)
	case "3":
		m.setFilter(todo.StatusDone)
	case "0":
		m.setFilter("")
	case "t":
		m.mark(todo.StatusTodo)
	case "i":
		m.mark(todo.StatusInProgress)
	case "d":
		m.mark(todo.StatusDone)
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.path)
		return b.String()
	}

	counts := m.repo.Counts()
	b.WriteString(fmt.Sprintf("  Todo: %d  In progress: %d  Done: %d\n",
		counts[todo.StatusTodo],
		counts[todo.StatusInProgress],
		counts[todo.StatusDone],
	))
	if m.filter != "" {
		b.WriteString(fmt.Sprintf("  Filter: %s (0 to clear)\n", m.filter))
	}
	b.WriteString("\n")

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString("  No matching tasks found.\n")
	}
	for i, t := range visible {
		line := fmt.Sprintf("%3d  %s  %s", t.ID, statusLabel(t.Status), t.Description)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	} else if m.message != "" {
		b.WriteString(m.message + "\n\n")
	}

	writeFooter(&b, m.path)
	return b.String()
}

// Err returns the last save error, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) visible() []todo.Task {
	return m.repo.List(string(m.filter))
}

func (m *Model) setFilter(s todo.Status) {
	m.filter = s
	m.cursor = 0
}

func (m *Model) mark(status todo.Status) {
	visible := m.visible()
	if len(visible) == 0 {
		return
	}
	target := visible[m.cursor]
	if target.Status == status {
		return
	}

	before := m.repo.Tasks()
	if _, err := m.repo.SetStatus(target.ID, status); err != nil {
		m.err = err
		return
	}
	if err := m.save(m.repo.Tasks()); err != nil {
		m.repo.Replace(before)
		m.err = err
		return
	}

	m.err = nil
	m.message = fmt.Sprintf("Task status updated to '%s' (ID: %d)", status, target.ID)
	if n := len(m.visible()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	} else if n == 0 {
		m.cursor = 0
	}
}

func statusLabel(s todo.Status) string {
	label := fmt.Sprintf("%-11s", s)
	if style, ok := statusStyles[s]; ok {
		return style.Render(label)
	}
	return label
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, esc, ctrl+c  Quit\n")
	b.WriteString("  up/k, down/j    Move selection\n")
	b.WriteString("  h, ?            Toggle this help screen\n")
	b.WriteString("  1               Filter by todo\n")
	b.WriteString("  2               Filter by in-progress\n")
	b.WriteString("  3               Filter by done\n")
	b.WriteString("  0               Clear filter\n")
	b.WriteString("  t / i / d       Mark selected task todo / in-progress / done\n\n")
}

func writeFooter(b *strings.Builder, path string) {
	footer := "Press h for help | q to quit"
	if path != "" {
		footer += " | " + path
	}
	b.WriteString(dimStyle.Render(footer) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
