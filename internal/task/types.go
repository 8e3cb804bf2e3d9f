package task

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency of a task.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority parses low, medium or high (case-insensitive). The single
// letters l, m and h are accepted as well.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	default:
		return 0, fmt.Errorf("%w %q, must be one of: low, medium, high", ErrInvalidPriority, s)
	}
}

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// MarshalText encodes the priority as its lowercase name.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a priority name. It backs both JSON and TOML decoding.
func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Date layouts.
const (
	// DateLayout is how due dates are stored.
	DateLayout = "2006-01-02"
	// InputDateLayout is the day-first layout users type (DD-MM-YYYY).
	InputDateLayout = "02-01-2006"
)

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses DD-MM-YYYY, falling back to YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{InputDateLayout, DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w %q, expected DD-MM-YYYY", ErrInvalidDate, s)
}

func dateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a YYYY-MM-DD date.
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse(DateLayout, string(text))
	if err != nil {
		return fmt.Errorf("%w %q, expected YYYY-MM-DD", ErrInvalidDate, string(text))
	}
	*d = dateOf(t)
	return nil
}

// Task is a single to-do item.
type Task struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Priority    Priority `json:"priority"`
	DueDate     *Date    `json:"due_date,omitempty"`
	Done        bool     `json:"done"`
}

// DescriptionText returns the description or "" when unset.
func (t *Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// Overdue reports whether the task is open and its due date is before today.
func (t *Task) Overdue(today Date) bool {
	if t.Done || t.DueDate == nil {
		return false
	}
	return t.DueDate.Time().Before(today.Time())
}

// Today returns the current local calendar date.
func Today() Date {
	return dateOf(time.Now())
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
