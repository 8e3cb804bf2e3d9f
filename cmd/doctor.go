package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nibzard/taskr/internal/logging"
	"github.com/nibzard/taskr/internal/task"
)

// errDoctorFailed is returned when any doctor check fails.
var errDoctorFailed = errors.New("doctor found problems")

// doctorCommand checks config, the task file, and the history journal.
func (a *app) doctorCommand(c Command) error {
	out := a.streams.Out
	cfg := a.cfg

	fmt.Fprintln(out, "Taskr Doctor")
	fmt.Fprintln(out, "============")
	fmt.Fprintln(out)

	allOK := true

	// Config
	fmt.Fprintln(out, "Config:")
	if len(cfg.Files) == 0 {
		fmt.Fprintln(out, "  ✅ No config files (defaults)")
	}
	for _, path := range cfg.Files {
		fmt.Fprintf(out, "  ✅ %s\n", path)
	}
	fmt.Fprintf(out, "  Default priority: %s\n", cfg.DefaultPriority)
	fmt.Fprintln(out)

	// Task file
	fmt.Fprintf(out, "Task file: %s\n", cfg.TaskFile)
	info, err := os.Stat(cfg.TaskFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(out, "  ⚠️  Not found (created by the first add)")
	case err != nil:
		fmt.Fprintf(out, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(out, "  ❌ Error: path is a directory")
		allOK = false
	default:
		store, loadErr := task.Load(cfg.TaskFile)
		if loadErr != nil {
			fmt.Fprintf(out, "  ❌ Invalid: %v\n", loadErr)
			allOK = false
			break
		}
		fmt.Fprintf(out, "  ✅ Valid (%d tasks, next id %d)\n", store.Len(), store.NextID())
		if c.Verbose {
			today := task.Today()
			for _, t := range store.Tasks() {
				fmt.Fprintf(out, "    %s\n", formatTask(&t, today, false))
			}
		}
	}
	fmt.Fprintln(out)

	// Journal
	fmt.Fprintln(out, "History journal:")
	if !cfg.Journal {
		fmt.Fprintln(out, "  ⚠️  Disabled")
	} else if path, err := logging.JournalPath(cfg.JournalDir, cfg.TaskFile); err != nil {
		fmt.Fprintf(out, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(out, "  %s\n", path)
		if err := checkJournalDir(cfg.JournalDir); err != nil {
			fmt.Fprintf(out, "  ❌ Error: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintln(out, "  ✅ OK")
		}
	}
	fmt.Fprintln(out)

	if !allOK {
		return errDoctorFailed
	}
	fmt.Fprintln(out, "All checks passed.")
	return nil
}

// checkJournalDir reports whether dir, or its nearest existing parent, is a
// directory. Nothing is created.
func checkJournalDir(dir string) error {
	for p := filepath.Clean(dir); ; p = filepath.Dir(p) {
		info, err := os.Stat(p)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", p)
			}
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if parent := filepath.Dir(p); parent == p {
			return err
		}
	}
}
