package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nibzard/taskr/internal/task"
)

// Kind names a subcommand.
type Kind string

const (
	KindAdd      Kind = "add"
	KindList     Kind = "list"
	KindDone     Kind = "done"
	KindRemove   Kind = "remove"
	KindPriority Kind = "priority"
	KindHelp     Kind = "help"
	KindVersion  Kind = "version"
	KindDoctor   Kind = "doctor"
	KindHistory  Kind = "history"
	KindTUI      Kind = "tui"
	KindConfig   Kind = "config"
)

// Status filters for list.
const (
	StatusAll     = "all"
	StatusPending = "pending"
	StatusDone    = "done"
)

// defaultHistoryLimit is the number of journal entries history shows.
const defaultHistoryLimit = 20

// Command is one parsed invocation. Only the fields of its Kind are set.
type Command struct {
	Kind Kind

	// Target task for done, remove and priority.
	ID int

	// add
	Title          string
	Description    *string
	HasDescription bool
	Priority       task.Priority // zero means "not given"
	DueDate        *task.Date

	// list
	Status  string
	Verbose bool

	// history
	Limit int
}

// Mutates reports whether the command changes the task file.
func (c Command) Mutates() bool {
	switch c.Kind {
	case KindAdd, KindDone, KindRemove, KindPriority:
		return true
	}
	return false
}

// Interactive reports whether add must prompt for task details.
func (c Command) Interactive() bool {
	return c.Kind == KindAdd && c.Title == ""
}

// UsageError reports malformed command-line input. The store is never
// touched when parsing fails.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usagef(format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// Parse turns the arguments after the global flags into a Command.
func Parse(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, usagef("no command given")
	}

	name, rest := args[0], args[1:]
	switch name {
	case "add":
		return parseAdd(rest)
	case "list", "ls":
		return parseList(rest)
	case "done":
		id, err := parseIDArgs(name, rest)
		return Command{Kind: KindDone, ID: id}, err
	case "remove", "rm":
		id, err := parseIDArgs(name, rest)
		return Command{Kind: KindRemove, ID: id}, err
	case "priority":
		return parsePriority(rest)
	case "help", "--help", "-h":
		return Command{Kind: KindHelp}, nil
	case "version", "--version":
		if len(rest) > 0 {
			return Command{}, usagef("version: unexpected arguments: %s", strings.Join(rest, " "))
		}
		return Command{Kind: KindVersion}, nil
	case "doctor":
		return parseDoctor(rest)
	case "history":
		return parseHistory(rest)
	case "tui", "config":
		if len(rest) > 0 {
			return Command{}, usagef("%s: unexpected arguments: %s", name, strings.Join(rest, " "))
		}
		return Command{Kind: Kind(name)}, nil
	default:
		return Command{}, usagef("unknown command: %s", name)
	}
}

func parseAdd(args []string) (Command, error) {
	fs := newSubFlagSet("add")
	title := fs.String("title", "", "Task title")
	description := fs.String("description", "", "Task description")
	priority := fs.String("priority", "", "Priority (low|medium|high)")
	due := fs.String("due", "", "Due date (DD-MM-YYYY)")
	words, err := parseInterleaved(fs, args)
	if err != nil {
		return subcommandFlagError("add", err)
	}

	c := Command{Kind: KindAdd, Title: strings.TrimSpace(*title)}

	// Positional words form the title: taskr add Buy milk -priority high
	if joined := strings.TrimSpace(strings.Join(words, " ")); joined != "" {
		if c.Title != "" {
			return Command{}, usagef("add: give the title either with -title or as arguments, not both")
		}
		c.Title = joined
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "description" {
			c.HasDescription = true
		}
	})
	if c.HasDescription {
		c.Description = task.StringPtr(*description)
	}

	if *priority != "" {
		p, err := task.ParsePriority(*priority)
		if err != nil {
			return Command{}, usagef("add: %v", err)
		}
		c.Priority = p
	}
	if *due != "" {
		d, err := task.ParseDate(*due)
		if err != nil {
			return Command{}, usagef("add: %v", err)
		}
		c.DueDate = &d
	}
	return c, nil
}

func parseList(args []string) (Command, error) {
	fs := newSubFlagSet("list")
	status := fs.String("status", StatusAll, "Filter by status (all|pending|done)")
	verbose := fs.Bool("v", false, "Show descriptions")
	if err := fs.Parse(args); err != nil {
		return subcommandFlagError("list", err)
	}

	rest := fs.Args()
	if len(rest) > 1 {
		return Command{}, usagef("list: unexpected arguments: %s", strings.Join(rest[1:], " "))
	}
	if len(rest) == 1 {
		*status = rest[0]
	}

	s := strings.ToLower(strings.TrimSpace(*status))
	switch s {
	case StatusAll, StatusPending, StatusDone:
	case "open", "todo":
		s = StatusPending
	default:
		return Command{}, usagef("list: unknown status %q (expected all, pending or done)", *status)
	}
	return Command{Kind: KindList, Status: s, Verbose: *verbose}, nil
}

func parsePriority(args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, usagef("priority: expected <id> <low|medium|high>")
	}
	id, err := parseID("priority", args[0])
	if err != nil {
		return Command{}, err
	}
	p, err := task.ParsePriority(args[1])
	if err != nil {
		return Command{}, usagef("priority: %v", err)
	}
	return Command{Kind: KindPriority, ID: id, Priority: p}, nil
}

func parseDoctor(args []string) (Command, error) {
	fs := newSubFlagSet("doctor")
	verbose := fs.Bool("v", false, "List tasks found in the task file")
	if err := fs.Parse(args); err != nil {
		return subcommandFlagError("doctor", err)
	}
	if fs.NArg() > 0 {
		return Command{}, usagef("doctor: unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return Command{Kind: KindDoctor, Verbose: *verbose}, nil
}

func parseHistory(args []string) (Command, error) {
	fs := newSubFlagSet("history")
	n := fs.Int("n", defaultHistoryLimit, "Number of entries to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return subcommandFlagError("history", err)
	}
	if fs.NArg() > 0 {
		return Command{}, usagef("history: unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if *n < 0 {
		return Command{}, usagef("history: -n must not be negative")
	}
	return Command{Kind: KindHistory, Limit: *n}, nil
}

func parseIDArgs(name string, args []string) (int, error) {
	switch len(args) {
	case 0:
		return 0, usagef("%s: missing task id", name)
	case 1:
		return parseID(name, args[0])
	default:
		return 0, usagef("%s: unexpected arguments: %s", name, strings.Join(args[1:], " "))
	}
}

func parseID(name, arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, usagef("%s: invalid task id %q", name, arg)
	}
	return id, nil
}

// parseInterleaved parses flags that appear before, between or after
// positional arguments and returns the positional ones in order. Everything
// after "--" is positional.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		consumed := args[:len(args)-len(rest)]
		if len(consumed) > 0 && consumed[len(consumed)-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func newSubFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("taskr "+name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// subcommandFlagError maps -h on a subcommand to help and anything else to a
// usage error.
func subcommandFlagError(name string, err error) (Command, error) {
	if errors.Is(err, flag.ErrHelp) {
		return Command{Kind: KindHelp}, nil
	}
	return Command{}, usagef("%s: %v", name, err)
}
