// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/taskr/internal/logging"
	"github.com/nibzard/taskr/internal/task"
)

// ErrNotTTY is returned when the TUI is started without a terminal.
var ErrNotTTY = errors.New("tui requires a TTY")

// DefaultRefreshInterval is how often the task file is re-read.
const DefaultRefreshInterval = 2 * time.Second

// Option configures the TUI behavior.
type Option func(*options)

type options struct {
	out      io.Writer
	logger   *log.Logger
	interval time.Duration
}

// WithOutput sets the terminal the TUI draws on. It must be a TTY.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRefreshInterval sets how often the task file is re-read.
func WithRefreshInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// Run starts a read-only viewer of the task file at path.
func Run(ctx context.Context, path string, opts ...Option) error {
	o := &options{
		out:      os.Stdout,
		logger:   logging.Discard(),
		interval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(o)
	}

	if !IsTTY(o.out) {
		return ErrNotTTY
	}
	o.logger.Debug("starting tui", "path", path, "refresh", o.interval)

	model := newModel(path, o.interval)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(o.out))
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// filter selects which tasks the viewer shows.
type filter int

const (
	filterAll filter = iota
	filterPending
	filterDone
)

func (f filter) String() string {
	switch f {
	case filterPending:
		return "pending"
	case filterDone:
		return "done"
	default:
		return "all"
	}
}

func (f filter) match(t task.Task) bool {
	switch f {
	case filterPending:
		return !t.Done
	case filterDone:
		return t.Done
	default:
		return true
	}
}

type model struct {
	path         string
	tickInterval time.Duration
	tasks        []task.Task
	loadErr      error
	filter       filter
	cursor       int
	showHelp     bool
	today        task.Date
}

type tickMsg time.Time

func newModel(path string, interval time.Duration) *model {
	return &model{
		path:         path,
		tickInterval: interval,
	}
}

func (m *model) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "h", "?":
			m.showHelp = !m.showHelp
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible())-1 {
				m.cursor++
			}
		case "0", "a":
			m.setFilter(filterAll)
		case "1", "p":
			m.setFilter(filterPending)
		case "2", "d":
			m.setFilter(filterDone)
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("taskr") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error loading task file:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeOverview(&b, m.tasks, m.filter)

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(faintStyle.Render("  No tasks.") + "\n\n")
	} else {
		for i := range visible {
			b.WriteString(renderTask(&visible[i], m.today, i == m.cursor) + "\n")
		}
		b.WriteString("\n")
		writeDetail(&b, &visible[m.cursor])
	}

	b.WriteString(faintStyle.Render("Task file: "+m.path) + "\n")
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *model) refresh() {
	m.today = task.Today()
	store, err := task.Load(m.path)
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = nil
	m.tasks = store.Tasks()
	m.clampCursor()
}

func (m *model) setFilter(f filter) {
	m.filter = f
	m.cursor = 0
}

func (m *model) visible() []task.Task {
	var out []task.Task
	for _, t := range m.tasks {
		if m.filter.match(t) {
			out = append(out, t)
		}
	}
	return out
}

func (m *model) clampCursor() {
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func writeOverview(b *strings.Builder, tasks []task.Task, f filter) {
	done := 0
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	b.WriteString(fmt.Sprintf("  Pending: %d  Done: %d  Filter: %s\n\n", len(tasks)-done, done, f))
}

func writeDetail(b *strings.Builder, t *task.Task) {
	b.WriteString(headerStyle.Render(fmt.Sprintf("Task %d", t.ID)) + "\n")
	b.WriteString("  " + t.Title + "\n")
	if desc := t.DescriptionText(); desc != "" {
		for _, line := range strings.Split(desc, "\n") {
			b.WriteString("  " + faintStyle.Render(line) + "\n")
		}
	}
	due := "none"
	if t.DueDate != nil {
		due = t.DueDate.String()
	}
	b.WriteString(fmt.Sprintf("  Priority: %s  Due: %s\n\n", t.Priority, due))
}

func writeHelp(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Keyboard Shortcuts") + "\n\n")
	b.WriteString("  q, esc, ctrl+c  Quit\n")
	b.WriteString("  r, F5           Refresh data\n")
	b.WriteString("  up/k, down/j    Move selection\n")
	b.WriteString("  h, ?            Toggle this help screen\n")
	b.WriteString("  1, p            Show pending tasks\n")
	b.WriteString("  2, d            Show done tasks\n")
	b.WriteString("  0, a            Show all tasks\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(faintStyle.Render(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s", interval)) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
