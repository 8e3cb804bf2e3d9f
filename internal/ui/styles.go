package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskr/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.PriorityHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
)

func renderTask(t *task.Task, today task.Date, selected bool) string {
	mark := " "
	if t.Done {
		mark = "x"
	}
	priority := priorityStyles[t.Priority].Width(7).Render(t.Priority.String())

	title := t.Title
	if t.Done {
		title = doneStyle.Render(title)
	}
	if selected {
		title = selectedStyle.Render(t.Title)
	}

	line := fmt.Sprintf("  %3d [%s] %s %s", t.ID, mark, priority, title)
	if t.DueDate != nil {
		due := "due " + t.DueDate.String()
		if t.Overdue(today) {
			due = overdueStyle.Render(due + " (overdue)")
		} else {
			due = faintStyle.Render(due)
		}
		line += "  " + due
	}
	return line
}
