package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/taskr/internal/task"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TASKR_FILE"); v != "" {
		cfg.TaskFile = v
	}
	if v := os.Getenv("TASKR_JOURNAL"); v != "" {
		cfg.Journal = boolFromString(v)
	}
	if v := os.Getenv("TASKR_JOURNAL_DIR"); v != "" {
		cfg.JournalDir = v
	}
	if v := os.Getenv("TASKR_DEFAULT_PRIORITY"); v != "" {
		p, err := task.ParsePriority(v)
		if err != nil {
			return fmt.Errorf("TASKR_DEFAULT_PRIORITY: %w", err)
		}
		cfg.DefaultPriority = p
	}

	// Logging configuration
	if v := os.Getenv("TASKR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKR_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASKR_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
	if v := os.Getenv("TASKR_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
	}
	return nil
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
