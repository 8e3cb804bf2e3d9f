// Package cmd implements the CLI command structure for taskr.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskr/internal/config"
	"github.com/nibzard/taskr/internal/logging"
	"github.com/nibzard/taskr/internal/prompt"
	"github.com/nibzard/taskr/internal/task"
	"github.com/nibzard/taskr/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// saveStore persists the store after a mutation. Tests replace it to fail
// between load and save.
var saveStore = (*task.Store).Save

// Streams are the standard streams a command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run executes the taskr CLI against the process's standard streams.
func Run(ctx context.Context, args []string) error {
	return Execute(ctx, args, Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
}

// Execute executes the taskr CLI. Malformed input returns a *UsageError after
// the usage text has been written to s.Err.
func Execute(ctx context.Context, args []string, s Streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskr", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	showVersion := fs.Bool("version", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(fs, s.Out)
			return nil
		}
		var flagErr *config.FlagError
		if errors.As(err, &flagErr) {
			return usageFailure(fs, s.Err, &UsageError{Msg: flagErr.Error()})
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *showVersion {
		return versionCommand(s.Out)
	}

	command, err := Parse(fs.Args())
	if err != nil {
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			return usageFailure(fs, s.Err, usageErr)
		}
		return err
	}

	logger, err := logging.NewConsoleFromConfig(s.Err, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	for _, path := range cfg.Files {
		logger.Debug("applied config file", "path", path)
	}

	a := &app{cfg: cfg, log: logger, streams: s, flags: fs}
	return a.execute(ctx, command)
}

func usageFailure(fs *flag.FlagSet, w io.Writer, err *UsageError) error {
	fmt.Fprintf(w, "Error: %s\n\n", err.Msg)
	printUsage(fs, w)
	return err
}

// app carries the state of one invocation.
type app struct {
	cfg     *config.Config
	log     *log.Logger
	streams Streams
	flags   *flag.FlagSet
}

func (a *app) execute(ctx context.Context, c Command) error {
	switch c.Kind {
	case KindHelp:
		printUsage(a.flags, a.streams.Out)
		return nil
	case KindVersion:
		return versionCommand(a.streams.Out)
	case KindDoctor:
		return a.doctorCommand(c)
	case KindHistory:
		return a.historyCommand(c)
	case KindConfig:
		fmt.Fprint(a.streams.Out, config.ExampleConfig())
		return nil
	case KindTUI:
		return ui.Run(ctx, a.cfg.TaskFile, ui.WithOutput(a.streams.Out), ui.WithLogger(a.log))
	case KindList, KindAdd, KindDone, KindRemove, KindPriority:
		return a.apply(ctx, c)
	default:
		return fmt.Errorf("unhandled command %q", c.Kind)
	}
}

// apply runs one load/mutate/save cycle against the task file.
func (a *app) apply(ctx context.Context, c Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := a.cfg.TaskFile
	store, err := task.Load(path)
	if err != nil {
		a.log.Error("cannot load task file", "path", path, "err", err)
		return err
	}
	a.log.Debug("loaded tasks", "path", path, "count", store.Len())

	if !c.Mutates() {
		a.listTasks(store, c)
		return nil
	}

	var entry *logging.Entry
	switch c.Kind {
	case KindAdd:
		entry, err = a.addTask(ctx, store, c)
	case KindDone:
		entry, err = a.markDone(store, c)
	case KindRemove:
		entry, err = a.removeTask(store, c)
	case KindPriority:
		entry, err = a.setPriority(store, c)
	}
	if err != nil {
		return err
	}
	if entry == nil {
		// Nothing changed; leave the file alone.
		return nil
	}

	if err := saveStore(store, path); err != nil {
		a.log.Error("cannot save task file", "path", path, "err", err)
		return fmt.Errorf("%w; the change may not have persisted", err)
	}
	a.log.Debug("saved tasks", "path", path, "count", store.Len())
	fmt.Fprintln(a.streams.Out, confirmation(*entry))

	a.record(*entry)
	return nil
}

func (a *app) addTask(ctx context.Context, store *task.Store, c Command) (*logging.Entry, error) {
	title, description, priority, due := c.Title, c.Description, c.Priority, c.DueDate

	if c.Interactive() {
		p := prompt.New(ctx, a.streams.In, a.streams.Out)
		var err error
		if title, err = p.Required("Title: "); err != nil {
			return nil, fmt.Errorf("reading task details: %w", err)
		}
		if !c.HasDescription {
			if description, err = p.Optional("Description (optional): "); err != nil {
				return nil, fmt.Errorf("reading task details: %w", err)
			}
		}
		if !priority.Valid() {
			label := fmt.Sprintf("Priority (low/medium/high) [%s]: ", a.cfg.DefaultPriority)
			if priority, err = prompt.Ask(p, label, a.priorityAnswer); err != nil {
				return nil, fmt.Errorf("reading task details: %w", err)
			}
		}
		if due == nil {
			// An unparsable date is asked again rather than dropped; a blank
			// answer means no due date.
			if due, err = prompt.Ask(p, "Due date (DD-MM-YYYY, blank for none): ", dueAnswer); err != nil {
				return nil, fmt.Errorf("reading task details: %w", err)
			}
		}
	}
	if !priority.Valid() {
		priority = a.cfg.DefaultPriority
	}

	id, err := store.Add(title, description, priority, due)
	if err != nil {
		return nil, err
	}
	a.log.Debug("added task", "id", id, "priority", priority)
	return &logging.Entry{Command: string(KindAdd), TaskID: id, Title: title, Priority: priority.String()}, nil
}

// confirmation is the message shown once a change has been saved.
func confirmation(e logging.Entry) string {
	switch Kind(e.Command) {
	case KindAdd:
		return fmt.Sprintf("Added task %d", e.TaskID)
	case KindDone:
		return fmt.Sprintf("Marked task %d as done", e.TaskID)
	case KindRemove:
		return fmt.Sprintf("Removed task %d", e.TaskID)
	case KindPriority:
		return fmt.Sprintf("Set priority of task %d to %s", e.TaskID, e.Priority)
	default:
		return fmt.Sprintf("Applied %s to task %d", e.Command, e.TaskID)
	}
}

func (a *app) priorityAnswer(answer string) (task.Priority, error) {
	if answer == "" {
		return a.cfg.DefaultPriority, nil
	}
	return task.ParsePriority(answer)
}

func dueAnswer(answer string) (*task.Date, error) {
	if answer == "" {
		return nil, nil
	}
	d, err := task.ParseDate(answer)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (a *app) markDone(store *task.Store, c Command) (*logging.Entry, error) {
	t, err := store.Find(c.ID)
	if err != nil {
		return nil, a.notFound(c.ID, err)
	}
	title := t.Title
	if err := store.MarkDone(c.ID); err != nil {
		return nil, a.notFound(c.ID, err)
	}
	return &logging.Entry{Command: string(KindDone), TaskID: c.ID, Title: title}, nil
}

func (a *app) removeTask(store *task.Store, c Command) (*logging.Entry, error) {
	t, err := store.Find(c.ID)
	if err != nil {
		return nil, a.notFound(c.ID, err)
	}
	title := t.Title
	if err := store.Remove(c.ID); err != nil {
		return nil, a.notFound(c.ID, err)
	}
	return &logging.Entry{Command: string(KindRemove), TaskID: c.ID, Title: title}, nil
}

func (a *app) setPriority(store *task.Store, c Command) (*logging.Entry, error) {
	t, err := store.Find(c.ID)
	if err != nil {
		return nil, a.notFound(c.ID, err)
	}
	title := t.Title
	if err := store.SetPriority(c.ID, c.Priority); err != nil {
		return nil, a.notFound(c.ID, err)
	}
	return &logging.Entry{Command: string(KindPriority), TaskID: c.ID, Title: title, Priority: c.Priority.String()}, nil
}

// notFound reports a missing task to the user. It is not a failure of the
// invocation, so it returns nil for task.ErrNotFound and err otherwise.
func (a *app) notFound(id int, err error) error {
	if !errors.Is(err, task.ErrNotFound) {
		return err
	}
	fmt.Fprintf(a.streams.Out, "No task with id %d\n", id)
	return nil
}

func (a *app) listTasks(store *task.Store, c Command) {
	var shown []task.Task
	for _, t := range store.Tasks() {
		switch {
		case c.Status == StatusPending && t.Done:
			continue
		case c.Status == StatusDone && !t.Done:
			continue
		}
		shown = append(shown, t)
	}

	out := a.streams.Out
	if len(shown) == 0 {
		if store.Len() == 0 {
			fmt.Fprintln(out, "No tasks.")
		} else {
			fmt.Fprintf(out, "No %s tasks.\n", c.Status)
		}
		return
	}

	today := task.Today()
	for i := range shown {
		fmt.Fprintln(out, formatTask(&shown[i], today, c.Verbose))
	}
}

// formatTask renders one list line, for example:
//
//	  3 [x] high    Write report (due 2026-10-31)
func formatTask(t *task.Task, today task.Date, verbose bool) string {
	mark := " "
	if t.Done {
		mark = "x"
	}
	line := fmt.Sprintf("%3d [%s] %-7s %s", t.ID, mark, t.Priority, t.Title)
	if t.DueDate != nil {
		line += fmt.Sprintf(" (due %s)", t.DueDate)
		if t.Overdue(today) {
			line += " OVERDUE"
		}
	}
	if verbose && t.Description != nil && *t.Description != "" {
		for _, l := range strings.Split(*t.Description, "\n") {
			line += "\n        " + l
		}
	}
	return line
}

// record appends entry to the history journal. Journal problems never fail
// the command.
func (a *app) record(entry logging.Entry) {
	if !a.cfg.Journal {
		return
	}
	j, err := logging.OpenJournal(a.cfg.JournalDir, a.cfg.TaskFile)
	if err != nil {
		a.log.Warn("history journal unavailable", "dir", a.cfg.JournalDir, "err", err)
		return
	}
	defer j.Close()
	if err := j.Record(entry); err != nil {
		a.log.Warn("cannot write history journal", "path", j.Path, "err", err)
		return
	}
	a.log.Debug("recorded history", "path", j.Path, "command", entry.Command, "id", entry.TaskID)
}

func (a *app) historyCommand(c Command) error {
	path, err := logging.JournalPath(a.cfg.JournalDir, a.cfg.TaskFile)
	if err != nil {
		return fmt.Errorf("locating history journal: %w", err)
	}
	entries, err := logging.ReadTail(path, c.Limit)
	if err != nil {
		return err
	}

	out := a.streams.Out
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history.")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-8s #%d", e.Time.Local().Format("2006-01-02 15:04:05"), e.Command, e.TaskID)
		if e.Title != "" {
			line += " " + e.Title
		}
		if e.Priority != "" {
			line += " (" + e.Priority + ")"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "taskr version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "taskr - a personal task tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskr [global options] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add [title]              Add a task (prompts for details when no title is given)")
	fmt.Fprintln(w, "  list, ls [status]        List tasks (all|pending|done)")
	fmt.Fprintln(w, "  done <id>                Mark a task as done")
	fmt.Fprintln(w, "  remove, rm <id>          Remove a task")
	fmt.Fprintln(w, "  priority <id> <level>    Set a task's priority (low|medium|high)")
	fmt.Fprintln(w, "  history                  Show recent changes")
	fmt.Fprintln(w, "  doctor                   Check config, task file and journal")
	fmt.Fprintln(w, "  tui                      Browse tasks in a terminal UI")
	fmt.Fprintln(w, "  config                   Print an example taskr.toml")
	fmt.Fprintln(w, "  version                  Show version information")
	fmt.Fprintln(w, "  help                     Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (use -- before a title word starting with -):")
	fmt.Fprintln(w, "  -title string")
	fmt.Fprintln(w, "        Task title")
	fmt.Fprintln(w, "  -description string")
	fmt.Fprintln(w, "        Task description")
	fmt.Fprintln(w, "  -priority string")
	fmt.Fprintln(w, "        Priority (low|medium|high, default from config)")
	fmt.Fprintln(w, "  -due string")
	fmt.Fprintln(w, "        Due date (DD-MM-YYYY)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options:")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Filter by status (all|pending|done)")
	fmt.Fprintln(w, "  -v    Show descriptions")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "History Options:")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of entries to show (0 = all, default 20)")
}
