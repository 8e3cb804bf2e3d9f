// Package logging provides tests for the console logger and history journal.
package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"debug", log.DebugLevel, false},
		{"INFO", log.InfoLevel, false},
		{"warning", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"verbose", log.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	if f, err := ParseFormatter("json"); err != nil || f != log.JSONFormatter {
		t.Errorf("ParseFormatter(json) = %v, %v", f, err)
	}
	if f, err := ParseFormatter("logfmt"); err != nil || f != log.LogfmtFormatter {
		t.Errorf("ParseFormatter(logfmt) = %v, %v", f, err)
	}
	if _, err := ParseFormatter("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestNewConsoleFromConfig(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewConsoleFromConfig(&buf, "warn", "logfmt", false, false)
	if err != nil {
		t.Fatalf("NewConsoleFromConfig: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("save failed", "path", "/tmp/tasks.json")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "save failed") || !strings.Contains(out, "path=/tmp/tasks.json") {
		t.Errorf("unexpected output: %q", out)
	}

	if _, err := NewConsoleFromConfig(&buf, "loud", "text", false, false); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestJournalPath(t *testing.T) {
	base := t.TempDir()
	taskFile := filepath.Join(t.TempDir(), "my project", ".taskr", "tasks.json")

	path, err := JournalPath(base, taskFile)
	if err != nil {
		t.Fatalf("JournalPath: %v", err)
	}
	if filepath.Base(path) != "history.jsonl" {
		t.Errorf("journal file = %q", filepath.Base(path))
	}
	dir := filepath.Base(filepath.Dir(path))
	if !strings.HasPrefix(dir, "my_project-") {
		t.Errorf("journal dir = %q, want my_project-<hash>", dir)
	}

	other, _ := JournalPath(base, filepath.Join(t.TempDir(), ".taskr", "tasks.json"))
	if other == path {
		t.Error("different task files share a journal")
	}

	if _, err := JournalPath("", taskFile); err == nil {
		t.Error("expected error for empty journal dir")
	}
}

func TestJournalRecordAndReadTail(t *testing.T) {
	base := t.TempDir()
	taskFile := filepath.Join(t.TempDir(), "tasks.json")

	j, err := OpenJournal(base, taskFile)
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	fixed := time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	for i := 1; i <= 4; i++ {
		if err := j.Record(Entry{Command: "add", TaskID: i, Title: "task"}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopening appends.
	j, err = OpenJournal(base, taskFile)
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	if err := j.Record(Entry{Command: "done", TaskID: 2}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	j.Close()

	all, err := ReadTail(j.Path, 0)
	if err != nil {
		t.Fatalf("ReadTail: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("entries = %d, want 5", len(all))
	}
	if !all[0].Time.Equal(fixed) {
		t.Errorf("Time = %v, want %v", all[0].Time, fixed)
	}

	last, err := ReadTail(j.Path, 2)
	if err != nil {
		t.Fatalf("ReadTail: %v", err)
	}
	if len(last) != 2 || last[0].TaskID != 4 || last[1].Command != "done" {
		t.Errorf("tail = %+v", last)
	}
}

func TestReadTailSkipsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"time":"2026-10-17T09:30:00Z","command":"add","task_id":1}
not json

{"time":"2026-10-17T09:31:00Z","command":"remove","task_id":1}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	entries, err := ReadTail(path, 0)
	if err != nil {
		t.Fatalf("ReadTail: %v", err)
	}
	if len(entries) != 2 || entries[1].Command != "remove" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestReadTailMissing(t *testing.T) {
	entries, err := ReadTail(filepath.Join(t.TempDir(), "absent.jsonl"), 5)
	if err != nil {
		t.Fatalf("ReadTail: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v, want none", entries)
	}
}

func TestNilJournal(t *testing.T) {
	var j *Journal
	if err := j.Record(Entry{Command: "add"}); err != nil {
		t.Errorf("Record on nil journal: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("Close on nil journal: %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"my-project":  "my-project",
		"my project!": "my_project",
		".taskr":      "taskr",
		"":            "project",
		"@@@":         "project",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
