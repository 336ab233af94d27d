package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/task-cli/internal/todo"
)

// FileName is the task file name inside the working directory.
const FileName = "tasks.json"

// CorruptPolicy decides what Load does with an unreadable task file.
type CorruptPolicy string

const (
	// CorruptFail surfaces a *CorruptStoreError and leaves the file alone.
	CorruptFail CorruptPolicy = "fail"
	// CorruptReset logs a warning and treats the file as empty. The next
	// save overwrites it.
	CorruptReset CorruptPolicy = "reset"
)

// ParseCorruptPolicy validates a policy name.
func ParseCorruptPolicy(s string) (CorruptPolicy, error) {
	switch CorruptPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case CorruptFail, "":
		return CorruptFail, nil
	case CorruptReset:
		return CorruptReset, nil
	default:
		return "", fmt.Errorf("invalid corrupt-file policy %q, must be one of: fail, reset", s)
	}
}

// CorruptStoreError reports a task file that exists but cannot be used.
type CorruptStoreError struct {
	Path     string
	Problems []string
	Err      error
}

func (e *CorruptStoreError) Error() string {
	name := e.Path
	if name == "" {
		name = "task file"
	}
	msg := fmt.Sprintf("%s is corrupt: %v", name, e.Err)
	if len(e.Problems) > 0 {
		msg += "\n  " + strings.Join(e.Problems, "\n  ")
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CorruptStoreError) Unwrap() error {
	return e.Err
}

// Option configures a Store.
type Option func(*Store)

// WithCorruptPolicy sets how Load treats a corrupt file.
func WithCorruptPolicy(p CorruptPolicy) Option {
	return func(s *Store) {
		s.onCorrupt = p
	}
}

// WithLockTimeout bounds how long Lock waits for another process.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = d
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store reads and writes one task file.
type Store struct {
	path        string
	onCorrupt   CorruptPolicy
	lockTimeout time.Duration
	logger      *log.Logger
}

// New returns a Store for the task file at path.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:        path,
		onCorrupt:   CorruptFail,
		lockTimeout: DefaultLockTimeout,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns a Store for tasks.json inside dir.
func Open(dir string, opts ...Option) *Store {
	return New(filepath.Join(dir, FileName), opts...)
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the whole collection. A missing file is created as "[]".
func (s *Store) Load() ([]todo.Task, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("task file missing, creating", "path", s.path)
		if err := writeAtomic(s.path, []byte("[]")); err != nil {
			return nil, fmt.Errorf("create task file: %w", err)
		}
		return []todo.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	tasks, err := Decode(data)
	if err != nil {
		var corrupt *CorruptStoreError
		if !errors.As(err, &corrupt) {
			return nil, err
		}
		corrupt.Path = s.path
		if s.onCorrupt == CorruptReset {
			s.logger.Warn("task file is corrupt, starting from an empty list", "path", s.path, "err", corrupt.Err)
			return []todo.Task{}, nil
		}
		return nil, corrupt
	}

	s.logger.Debug("loaded tasks", "path", s.path, "count", len(tasks))
	return tasks, nil
}

// Save replaces the task file with the given collection.
func (s *Store) Save(tasks []todo.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	s.logger.Debug("saved tasks", "path", s.path, "count", len(tasks))
	return nil
}

// Decode validates and parses task file content.
func Decode(data []byte) ([]todo.Task, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var tasks []todo.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &CorruptStoreError{Err: fmt.Errorf("decode tasks: %w", err)}
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}
	return tasks, nil
}

// Encode renders the collection with 2-space indentation and a trailing
// newline. A nil collection encodes as an empty array.
func Encode(tasks []todo.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tasks); err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return buf.Bytes(), nil
}

// writeAtomic writes data to a temp file beside path, syncs it and renames
// it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
