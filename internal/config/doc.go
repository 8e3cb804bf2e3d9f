// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskr/taskr.toml or OS-specific config directory)
// 3. Project config file (taskr.toml, .taskr.toml or .taskr/taskr.toml in the working directory)
// 4. Environment variables (TASKR_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.taskr/taskr.toml (preferred)
// - Windows: %APPDATA%\taskr\taskr.toml
// - macOS: ~/Library/Application Support/taskr/taskr.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskr/taskr.toml or ~/.config/taskr/taskr.toml
package config
