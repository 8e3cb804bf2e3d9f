package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskr configuration file
# Values can be overridden by TASKR_* environment variables or CLI flags

# Task file (relative to the working directory)
task_file = ".taskr/tasks.json"

# Record applied changes in a JSONL history journal
journal = true

# Journal directory (supports ~ expansion and %VAR% on Windows)
journal_dir = "~/.taskr"

# Priority for new tasks when none is given: low, medium or high
default_priority = "medium"

# Diagnostics written to stderr
log_level = "info"       # debug, info, warn, error
log_format = "text"      # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
