package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store is the ordered, in-memory collection of tasks for one invocation.
type Store struct {
	tasks  []Task
	nextID int
}

// fileFormat is the on-disk envelope.
type fileFormat struct {
	NextID int    `json:"next_id"`
	Tasks  []Task `json:"tasks"`
}

// NewStore returns a store holding tasks in the given order. The identifier
// high-water mark starts after the largest id present.
func NewStore(tasks ...Task) *Store {
	s := &Store{tasks: append([]Task(nil), tasks...)}
	s.nextID = s.maxID() + 1
	return s
}

// Load reads the task file at path. A missing file yields an empty store.
// Any other failure is a *ReadError.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewStore(), nil
		}
		return nil, &ReadError{Path: path, Err: err}
	}

	s, err := decode(data)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return s, nil
}

func decode(data []byte) (*Store, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewStore(), nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if errs := Validate(doc); len(errs) > 0 {
		return nil, fmt.Errorf("invalid task file: %w", errors.Join(errs...))
	}

	var f fileFormat
	if _, isArray := doc.([]any); isArray {
		if err := json.Unmarshal(data, &f.Tasks); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	} else if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	seen := make(map[int]bool, len(f.Tasks))
	for i, t := range f.Tasks {
		if seen[t.ID] {
			return nil, &ValidationError{
				Path: fmt.Sprintf("tasks[%d].id", i),
				Err:  fmt.Errorf("duplicate id %d", t.ID),
			}
		}
		seen[t.ID] = true
	}

	s := NewStore(f.Tasks...)
	if f.NextID > s.nextID {
		s.nextID = f.NextID
	}
	return s, nil
}

// Save writes the full collection to path, replacing earlier contents.
// Parent directories are created as needed. Failures are *WriteError.
func (s *Store) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := writeFileAtomic(path, data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Marshal encodes the store with 2-space indentation and a trailing newline.
func (s *Store) Marshal() ([]byte, error) {
	tasks := s.tasks
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(fileFormat{NextID: s.nextID, Tasks: tasks}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

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

// Tasks returns a copy of the tasks in store order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// NextID returns the identifier the next Add will assign.
func (s *Store) NextID() int {
	if m := s.maxID() + 1; m > s.nextID {
		return m
	}
	return s.nextID
}

func (s *Store) maxID() int {
	highest := 0
	for _, t := range s.tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest
}

// Add appends a new open task and returns its identifier.
func (s *Store) Add(title string, description *string, priority Priority, due *Date) (int, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, ErrEmptyTitle
	}
	if !priority.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPriority, int(priority))
	}

	id := s.NextID()
	s.tasks = append(s.tasks, Task{
		ID:          id,
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     due,
	})
	s.nextID = id + 1
	return id, nil
}

// Find returns the task with the given identifier.
func (s *Store) Find(id int) (*Task, error) {
	i := s.index(id)
	if i < 0 {
		return nil, notFound(id)
	}
	return &s.tasks[i], nil
}

// MarkDone marks the task as done. Marking a done task again is a no-op.
func (s *Store) MarkDone(id int) error {
	t, err := s.Find(id)
	if err != nil {
		return err
	}
	t.Done = true
	return nil
}

// Remove deletes the task, keeping the remaining tasks in order.
func (s *Store) Remove(id int) error {
	i := s.index(id)
	if i < 0 {
		return notFound(id)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// SetPriority overwrites the task's priority.
func (s *Store) SetPriority(id int, priority Priority) error {
	if !priority.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, int(priority))
	}
	t, err := s.Find(id)
	if err != nil {
		return err
	}
	t.Priority = priority
	return nil
}

func (s *Store) index(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
