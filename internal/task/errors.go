package task

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no task has the requested identifier.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidPriority is returned for unknown priority names.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidDate is returned for dates that match no accepted layout.
	ErrInvalidDate = errors.New("invalid date")
	// ErrEmptyTitle is returned when adding a task without a title.
	ErrEmptyTitle = errors.New("task title is empty")
)

// ReadError reports a task file that exists but could not be read or parsed.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read task file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError reports a failure to persist the task file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write task file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// ValidationError locates a schema violation inside the task file.
type ValidationError struct {
	Path string // dot path, e.g. tasks[2].priority
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func notFound(id int) error {
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}
