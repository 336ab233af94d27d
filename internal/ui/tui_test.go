package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/task-cli/internal/todo"
)

type recorder struct {
	saves [][]todo.Task
	err   error
}

func (r *recorder) save(tasks []todo.Task) error {
	if r.err != nil {
		return r.err
	}
	r.saves = append(r.saves, tasks)
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(rec *recorder) *Model {
	repo := todo.NewRepository(nil)
	repo.Add("Buy milk")
	repo.Add("Walk dog")
	repo.Add("Write report")
	return NewModel(repo, rec.save, "tasks.json")
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestMarkPersists(t *testing.T) {
	rec := &recorder{}
	m := newTestModel(rec)

	send(m, tea.KeyMsg{Type: tea.KeyDown}, runes("d"))

	if len(rec.saves) != 1 {
		t.Fatalf("saves = %d, want 1", len(rec.saves))
	}
	saved := rec.saves[0]
	if saved[1].Status != todo.StatusDone {
		t.Errorf("saved task 2 status = %s, want done", saved[1].Status)
	}
	if saved[0].Status != todo.StatusTodo {
		t.Errorf("task 1 should be untouched, got %s", saved[0].Status)
	}
	if !strings.Contains(m.View(), "Task status updated to 'done' (ID: 2)") {
		t.Errorf("confirmation missing from view:\n%s", m.View())
	}
}

func TestMarkSameStatusDoesNotSave(t *testing.T) {
	rec := &recorder{}
	m := newTestModel(rec)

	send(m, runes("t"))

	if len(rec.saves) != 0 {
		t.Errorf("saves = %d, want 0", len(rec.saves))
	}
}

func TestMarkRollsBackOnSaveError(t *testing.T) {
	rec := &recorder{err: errors.New("disk full")}
	m := newTestModel(rec)

	send(m, runes("i"))

	task, _ := m.repo.Get(1)
	if task.Status != todo.StatusTodo {
		t.Errorf("status = %s after failed save, want todo", task.Status)
	}
	if m.Err() == nil {
		t.Fatal("Err() = nil, want save error")
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Errorf("error missing from view:\n%s", m.View())
	}
}

func TestFilterAndCursor(t *testing.T) {
	rec := &recorder{}
	m := newTestModel(rec)

	// Mark task 3 done, then filter to done: only task 3 is visible.
	send(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, runes("d"), runes("3"))

	if m.cursor != 0 {
		t.Errorf("cursor = %d after filter change, want 0", m.cursor)
	}
	visible := m.visible()
	if len(visible) != 1 || visible[0].ID != 3 {
		t.Fatalf("visible = %+v, want only task 3", visible)
	}

	// Moving past the end stays put.
	send(m, runes("j"), runes("j"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	// Marking it todo empties the filtered view.
	send(m, runes("t"))
	if len(m.visible()) != 0 || m.cursor != 0 {
		t.Errorf("visible = %d cursor = %d, want 0/0", len(m.visible()), m.cursor)
	}
	if !strings.Contains(m.View(), "No matching tasks found.") {
		t.Errorf("empty message missing:\n%s", m.View())
	}

	send(m, runes("0"))
	if len(m.visible()) != 3 {
		t.Errorf("visible = %d after clearing filter, want 3", len(m.visible()))
	}
}

func TestCursorClampsAtTop(t *testing.T) {
	m := newTestModel(&recorder{})
	send(m, tea.KeyMsg{Type: tea.KeyUp}, runes("k"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(&recorder{})

	send(m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help screen not shown")
	}
	send(m, runes("h"))
	if strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help screen not hidden")
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		t.Run(msg.String(), func(t *testing.T) {
			m := newTestModel(&recorder{})
			cmd := send(m, msg)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("command did not quit")
			}
		})
	}
}

func TestViewListsTasks(t *testing.T) {
	m := newTestModel(&recorder{})
	view := m.View()
	for _, want := range []string{"Buy milk", "Walk dog", "Write report", "Todo: 3", "tasks.json"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer should not be a TTY")
	}
}
