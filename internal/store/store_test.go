package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/task-cli/internal/todo"
)

func sampleTasks() []todo.Task {
	created := time.Date(2024, 5, 4, 10, 30, 0, 123456789, time.FixedZone("CEST", 2*60*60))
	return []todo.Task{
		{ID: 1, Description: "Buy milk", Status: todo.StatusTodo, CreatedAt: created, UpdatedAt: created},
		{ID: 2, Description: "Walk <dog> & cat", Status: todo.StatusDone, CreatedAt: created, UpdatedAt: created.Add(time.Hour)},
	}
}

func TestLoadCreatesMissingFile(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("Load() = %v, want empty non-nil slice", tasks)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("created file = %q, want %q", data, "[]")
	}
}

func TestLoadAndSave(t *testing.T) {
	s := Open(t.TempDir())
	original := sampleTasks()

	if err := s.Save(original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != len(original) {
		t.Fatalf("Tasks count: got %d, want %d", len(loaded), len(original))
	}
	for i := range original {
		got, want := loaded[i], original[i]
		if got.ID != want.ID || got.Description != want.Description || got.Status != want.Status {
			t.Errorf("task %d: got %+v, want %+v", i, got, want)
		}
		if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
			t.Errorf("task %d timestamps: got %v/%v, want %v/%v", i, got.CreatedAt, got.UpdatedAt, want.CreatedAt, want.UpdatedAt)
		}
	}
}

func TestSaveLoadIsByteStable(t *testing.T) {
	s := Open(t.TempDir())
	if err := s.Save(sampleTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var snapshots [][]byte
	for i := 0; i < 2; i++ {
		tasks, err := s.Load()
		if err != nil {
			t.Fatalf("Load #%d failed: %v", i, err)
		}
		if err := s.Save(tasks); err != nil {
			t.Fatalf("Save #%d failed: %v", i, err)
		}
		data, err := os.ReadFile(s.Path())
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		snapshots = append(snapshots, data)
	}

	if !bytes.Equal(snapshots[0], snapshots[1]) {
		t.Errorf("save(load()) not stable:\n%s\n---\n%s", snapshots[0], snapshots[1])
	}
}

func TestFileOutputFormat(t *testing.T) {
	s := Open(t.TempDir())
	if err := s.Save(sampleTasks()[:1]); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"[\n  {\n",
		`    "Id": 1,`,
		`    "Description": "Buy milk",`,
		`    "Status": "todo",`,
		`    "CreatedAt": "2024-05-04T10:30:00.123456789+02:00",`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("output missing %q:\n%s", want, content)
		}
	}
	if !strings.HasSuffix(content, "]\n") {
		t.Error("expected trailing newline")
	}
}

func TestSaveDoesNotEscapeHTML(t *testing.T) {
	s := Open(t.TempDir())
	if err := s.Save(sampleTasks()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, _ := os.ReadFile(s.Path())
	if !strings.Contains(string(data), "Walk <dog> & cat") {
		t.Errorf("description was escaped:\n%s", data)
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	s := Open(t.TempDir())
	if err := s.Save(nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, _ := os.ReadFile(s.Path())
	if string(data) != "[]\n" {
		t.Errorf("Save(nil) wrote %q", data)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)
	for i := 0; i < 3; i++ {
		if err := s.Save(sampleTasks()); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != FileName {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only %s", names, FileName)
	}
}

func TestLoadReadsForeignTimestamps(t *testing.T) {
	// Seven fractional digits and an explicit offset, as other writers of
	// this format produce.
	content := `[
  {
    "Id": 1,
    "Description": "Buy milk",
    "Status": "in-progress",
    "CreatedAt": "2024-11-02T18:04:05.1234567+01:00",
    "UpdatedAt": "2024-11-02T18:04:05.1234567+01:00"
  }
]`
	s := Open(t.TempDir())
	if err := os.WriteFile(s.Path(), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Status != todo.StatusInProgress {
		t.Fatalf("Load() = %+v", tasks)
	}
	if tasks[0].CreatedAt.Nanosecond() != 123456700 {
		t.Errorf("Nanosecond = %d, want 123456700", tasks[0].CreatedAt.Nanosecond())
	}
}

func TestLoadNullIsEmpty(t *testing.T) {
	s := Open(t.TempDir())
	if err := os.WriteFile(s.Path(), []byte("null\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("Load() = %v, want empty", tasks)
	}
}

func TestLoadCorrupt(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantProblem string
	}{
		{name: "not json", content: "{oops"},
		{name: "empty file", content: ""},
		{name: "trailing data", content: "[] []"},
		{name: "object instead of array", content: `{"Id": 1}`, wantProblem: "(root)"},
		{
			name:        "missing description",
			content:     `[{"Id": 1, "Status": "todo", "CreatedAt": "2024-01-01T00:00:00Z", "UpdatedAt": "2024-01-01T00:00:00Z"}]`,
			wantProblem: "[0]",
		},
		{
			name:        "string id",
			content:     `[{"Id": "1", "Description": "x", "Status": "todo", "CreatedAt": "2024-01-01T00:00:00Z", "UpdatedAt": "2024-01-01T00:00:00Z"}]`,
			wantProblem: "[0].Id",
		},
		{
			name:        "zero id",
			content:     `[{"Id": 0, "Description": "x", "Status": "todo", "CreatedAt": "2024-01-01T00:00:00Z", "UpdatedAt": "2024-01-01T00:00:00Z"}]`,
			wantProblem: "[0].Id",
		},
		{
			name:        "bad timestamp",
			content:     `[{"Id": 1, "Description": "x", "Status": "todo", "CreatedAt": "yesterday", "UpdatedAt": "2024-01-01T00:00:00Z"}]`,
			wantProblem: "[0].CreatedAt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Open(t.TempDir())
			if err := os.WriteFile(s.Path(), []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			_, err := s.Load()
			var corrupt *CorruptStoreError
			if !errors.As(err, &corrupt) {
				t.Fatalf("Load() error = %v, want *CorruptStoreError", err)
			}
			if corrupt.Path != s.Path() {
				t.Errorf("Path = %q, want %q", corrupt.Path, s.Path())
			}
			if tt.wantProblem != "" {
				found := false
				for _, p := range corrupt.Problems {
					if strings.HasPrefix(p, tt.wantProblem) {
						found = true
					}
				}
				if !found {
					t.Errorf("Problems = %v, want one starting with %q", corrupt.Problems, tt.wantProblem)
				}
			}

			data, _ := os.ReadFile(s.Path())
			if string(data) != tt.content {
				t.Error("corrupt file must not be modified")
			}
		})
	}
}

func TestLoadCorruptReset(t *testing.T) {
	s := Open(t.TempDir(), WithCorruptPolicy(CorruptReset))
	if err := os.WriteFile(s.Path(), []byte("{oops"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Load() = %v, want empty", tasks)
	}
}

func TestParseCorruptPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    CorruptPolicy
		wantErr bool
	}{
		{"", CorruptFail, false},
		{"fail", CorruptFail, false},
		{"RESET", CorruptReset, false},
		{"ignore", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCorruptPolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCorruptPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCorruptPolicy(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCorruptStoreErrorMessage(t *testing.T) {
	err := &CorruptStoreError{
		Path:     "tasks.json",
		Problems: []string{"[0].Id: expected integer", "[1]: missing properties"},
		Err:      errors.New("schema validation failed (2 problems)"),
	}
	want := "tasks.json is corrupt: schema validation failed (2 problems)\n  [0].Id: expected integer\n  [1]: missing properties"
	if got := err.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}
}
