package config

import (
	"flag"
)

// FlagError wraps a failure to parse the global command-line flags.
type FlagError struct {
	Err error
}

func (e *FlagError) Error() string {
	return e.Err.Error()
}

func (e *FlagError) Unwrap() error {
	return e.Err
}

// parseFlags defines the global CLI flags on fs and parses args.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskr", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.TaskFile, "file", cfg.TaskFile, "Path to task file")
	fs.StringVar(&cfg.JournalDir, "journal-dir", cfg.JournalDir, "History journal directory")
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Record applied changes in the history journal")

	// Tasks
	fs.TextVar(&cfg.DefaultPriority, "default-priority", cfg.DefaultPriority, "Priority for new tasks (low|medium|high)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return &FlagError{Err: err}
	}
	return nil
}
