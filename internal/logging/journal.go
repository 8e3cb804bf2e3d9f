package logging

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nibzard/taskr/internal/taskdir"
)

// Entry is one applied change in the history journal.
type Entry struct {
	Time     time.Time `json:"time"`
	Command  string    `json:"command"`
	TaskID   int       `json:"task_id"`
	Title    string    `json:"title,omitempty"`
	Priority string    `json:"priority,omitempty"`
}

// Journal appends entries to a per-task-file JSONL history.
type Journal struct {
	Dir  string
	Path string
	file *os.File
	now  func() time.Time
}

// JournalPath returns the journal path for a task file under baseDir. Each
// project gets its own subdirectory named <slug>-<hash>, where the project is
// the directory holding the task file, or the parent of a .taskr directory.
func JournalPath(baseDir, taskFile string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("journal dir is empty")
	}
	abs, err := filepath.Abs(taskFile)
	if err != nil {
		return "", fmt.Errorf("resolve task file: %w", err)
	}
	root := filepath.Dir(abs)
	if filepath.Base(root) == taskdir.Dir {
		root = filepath.Dir(root)
	}
	return filepath.Join(filepath.Clean(baseDir), projectSlug(root), taskdir.JournalFile), nil
}

// OpenJournal opens (creating if needed) the journal for taskFile.
func OpenJournal(baseDir, taskFile string) (*Journal, error) {
	path, err := JournalPath(baseDir, taskFile)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{Dir: dir, Path: path, file: file, now: time.Now}, nil
}

// Record appends e as one JSON line. A zero Time is set to now.
func (j *Journal) Record(e Entry) error {
	if j == nil || j.file == nil {
		return nil
	}
	if e.Time.IsZero() {
		e.Time = j.now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}
	if _, err := j.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil || j.file == nil {
		return nil
	}
	return j.file.Close()
}

// ReadTail returns the last n entries of the journal at path, oldest first.
// n <= 0 returns every entry. A missing journal has no entries. Lines that
// do not decode are skipped.
func ReadTail(path string, n int) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, e)
		if n > 0 && len(entries) > n {
			entries = entries[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return entries, nil
}

func projectSlug(projectRoot string) string {
	return fmt.Sprintf("%s-%s", slugify(filepath.Base(projectRoot)), hashPath(projectRoot))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "project"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_.")
	if slug == "" {
		return "project"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}
