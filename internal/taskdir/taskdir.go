// Package taskdir provides constants and helpers for the .taskr state directory.
package taskdir

import "path/filepath"

const (
	// Dir is the name of the taskr state directory.
	Dir = ".taskr"

	// TasksFile is the task file name (inside .taskr).
	TasksFile = "tasks.json"

	// ConfigFile is the config file name, used both inside ~/.taskr and at a
	// project root.
	ConfigFile = "taskr.toml"

	// JournalFile is the history journal file name.
	JournalFile = "history.jsonl"
)

// DefaultTaskFile is the fixed relative path of the task file.
var DefaultTaskFile = TasksPath("")

// TasksPath returns the task file path within a work directory.
func TasksPath(workDir string) string {
	return joinPath(workDir, TasksFile)
}

// ConfigPath returns the config file path within a work directory's .taskr.
func ConfigPath(workDir string) string {
	return joinPath(workDir, ConfigFile)
}

// DirPath returns the .taskr directory within a work directory.
func DirPath(workDir string) string {
	if workDir == "." || workDir == "" {
		return Dir
	}
	return filepath.Join(workDir, Dir)
}

func joinPath(workDir, file string) string {
	return filepath.Join(DirPath(workDir), file)
}
