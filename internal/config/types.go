package config

import (
	"github.com/nibzard/taskr/internal/task"
	"github.com/nibzard/taskr/internal/taskdir"
)

// Default values.
const (
	DefaultJournal    = true
	DefaultJournalDir = "~/.taskr"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// DefaultTaskFile is the task file path relative to the working directory.
var DefaultTaskFile = taskdir.DefaultTaskFile

// DefaultPriority is used by add when no priority is given.
const DefaultPriority = task.PriorityMedium

// Config holds the full configuration for taskr.
type Config struct {
	// Paths
	TaskFile   string `toml:"task_file"`
	JournalDir string `toml:"journal_dir"`

	// History journal of applied changes
	Journal bool `toml:"journal"`

	// Priority for new tasks when none is given
	DefaultPriority task.Priority `toml:"default_priority"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`

	// Config files applied, in load order (computed)
	Files []string `toml:"-"`
}
