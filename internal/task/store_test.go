package task

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestAddAssignsSequentialIDs(t *testing.T) {
	s := NewStore()
	for want := 1; want <= 5; want++ {
		id, err := s.Add("task", nil, PriorityMedium, nil)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if id != want {
			t.Errorf("Add returned id %d, want %d", id, want)
		}
	}

	tasks := s.Tasks()
	for i, task := range tasks {
		if task.ID != i+1 {
			t.Errorf("tasks[%d].ID = %d, want %d", i, task.ID, i+1)
		}
		if task.Done {
			t.Errorf("tasks[%d] is done at creation", i)
		}
	}
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	s := NewStore()
	if _, err := s.Add("   ", nil, PriorityLow, nil); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("Add error = %v, want ErrEmptyTitle", err)
	}
	if _, err := s.Add("ok", nil, Priority(0), nil); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("Add error = %v, want ErrInvalidPriority", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestRemoveNeverReusesIDs(t *testing.T) {
	t.Run("remove newest", func(t *testing.T) {
		s := NewStore()
		s.Add("a", nil, PriorityLow, nil)
		id, _ := s.Add("b", nil, PriorityLow, nil)
		if err := s.Remove(id); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		next, _ := s.Add("c", nil, PriorityLow, nil)
		if next == id {
			t.Errorf("identifier %d reused", id)
		}
		if next != 3 {
			t.Errorf("next id = %d, want 3", next)
		}
	})

	t.Run("store emptied and reloaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		s := NewStore()
		id, _ := s.Add("Buy milk", nil, PriorityLow, nil)
		if err := s.MarkDone(id); err != nil {
			t.Fatalf("MarkDone: %v", err)
		}
		if err := s.Remove(id); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		if s.Len() != 0 {
			t.Fatalf("Len() = %d, want 0", s.Len())
		}
		if err := s.Save(path); err != nil {
			t.Fatalf("Save: %v", err)
		}

		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		next, _ := loaded.Add("Write report", nil, PriorityMedium, nil)
		if next != 2 {
			t.Errorf("next id after emptying = %d, want 2", next)
		}
	})
}

func TestRemovePreservesOrder(t *testing.T) {
	s := NewStore()
	for _, title := range []string{"a", "b", "c", "d"} {
		s.Add(title, nil, PriorityLow, nil)
	}
	if err := s.Remove(2); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	var titles []string
	for _, task := range s.Tasks() {
		titles = append(titles, task.Title)
	}
	if want := []string{"a", "c", "d"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("titles = %v, want %v", titles, want)
	}
}

func TestNotFound(t *testing.T) {
	s := NewStore(Task{ID: 1, Title: "only", Priority: PriorityLow})

	checks := map[string]error{
		"MarkDone":    s.MarkDone(9),
		"Remove":      s.Remove(9),
		"SetPriority": s.SetPriority(9, PriorityHigh),
	}
	_, findErr := s.Find(9)
	checks["Find"] = findErr

	for name, err := range checks {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s error = %v, want ErrNotFound", name, err)
		}
	}

	want := []Task{{ID: 1, Title: "only", Priority: PriorityLow}}
	if !reflect.DeepEqual(s.Tasks(), want) {
		t.Errorf("store mutated by failed operations: %+v", s.Tasks())
	}
}

func TestMarkDoneIdempotent(t *testing.T) {
	once := NewStore(Task{ID: 1, Title: "a", Priority: PriorityLow})
	twice := NewStore(Task{ID: 1, Title: "a", Priority: PriorityLow})

	if err := once.MarkDone(1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := twice.MarkDone(1); err != nil {
			t.Fatal(err)
		}
	}

	if !reflect.DeepEqual(once.Tasks(), twice.Tasks()) {
		t.Errorf("once = %+v, twice = %+v", once.Tasks(), twice.Tasks())
	}
	if !once.Tasks()[0].Done {
		t.Error("task not marked done")
	}
}

func TestSetPriority(t *testing.T) {
	s := NewStore(
		Task{ID: 1, Title: "a", Priority: PriorityLow},
		Task{ID: 2, Title: "b", Priority: PriorityHigh},
	)
	if err := s.SetPriority(1, PriorityHigh); err != nil {
		t.Fatalf("SetPriority: %v", err)
	}

	tasks := s.Tasks()
	if tasks[0].Priority != PriorityHigh {
		t.Errorf("task 1 priority = %v, want high", tasks[0].Priority)
	}
	if tasks[1].Priority != PriorityHigh || tasks[1].Title != "b" {
		t.Errorf("task 2 changed: %+v", tasks[1])
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")
	due := NewDate(2026, time.October, 31)

	s := NewStore()
	s.Add("Buy milk", nil, PriorityLow, nil)
	s.Add("Write report", StringPtr("Quarterly numbers"), PriorityHigh, &due)
	s.Add("Empty description", StringPtr(""), PriorityMedium, nil)
	s.MarkDone(2)
	s.Remove(1)

	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded.Tasks(), s.Tasks()) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded.Tasks(), s.Tasks())
	}
	if loaded.NextID() != s.NextID() {
		t.Errorf("NextID = %d, want %d", loaded.NextID(), s.NextID())
	}
	if loaded.Tasks()[1].Description == nil {
		t.Error("empty description lost its presence")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Error("expected trailing newline")
	}
	if strings.Contains(string(data), `"due_date": null`) {
		t.Error("absent due date should be omitted")
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file is empty store", func(t *testing.T) {
		s, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if s.Len() != 0 || s.NextID() != 1 {
			t.Errorf("Len = %d, NextID = %d", s.Len(), s.NextID())
		}
	})

	t.Run("bare array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		content := `[
  {"id": 2, "title": "second", "priority": "high", "done": false},
  {"id": 1, "title": "first", "description": null, "priority": "low", "due_date": "2026-01-05", "done": true}
]`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		s, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		tasks := s.Tasks()
		if len(tasks) != 2 || tasks[0].ID != 2 || tasks[1].ID != 1 {
			t.Fatalf("order not preserved: %+v", tasks)
		}
		if tasks[1].DueDate == nil || *tasks[1].DueDate != NewDate(2026, time.January, 5) {
			t.Errorf("due date = %v", tasks[1].DueDate)
		}
		if s.NextID() != 3 {
			t.Errorf("NextID = %d, want 3", s.NextID())
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
		s, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if s.Len() != 0 {
			t.Errorf("Len = %d", s.Len())
		}
	})

	invalid := map[string]string{
		"malformed json":    `{"tasks": [`,
		"unknown priority":  `[{"id": 1, "title": "x", "priority": "urgent", "done": false}]`,
		"missing title":     `[{"id": 1, "priority": "low", "done": false}]`,
		"zero id":           `[{"id": 0, "title": "x", "priority": "low", "done": false}]`,
		"bad date":          `[{"id": 1, "title": "x", "priority": "low", "due_date": "31-12-2026", "done": false}]`,
		"duplicate ids":     `[{"id": 1, "title": "x", "priority": "low", "done": false}, {"id": 1, "title": "y", "priority": "low", "done": false}]`,
		"unexpected member": `{"tasks": [], "version": 2}`,
	}
	for name, content := range invalid {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			var readErr *ReadError
			if !errors.As(err, &readErr) {
				t.Fatalf("Load error = %v, want *ReadError", err)
			}
			if readErr.Path != path {
				t.Errorf("ReadError.Path = %q, want %q", readErr.Path, path)
			}
		})
	}

	t.Run("high-water mark kept", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		content := `{"next_id": 9, "tasks": [{"id": 1, "title": "x", "priority": "low", "done": false}]}`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		s, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if s.NextID() != 9 {
			t.Errorf("NextID = %d, want 9", s.NextID())
		}
	})
}

func TestSaveWriteError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory permissions differ on windows")
	}

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// A regular file in place of the parent directory.
	err := NewStore().Save(filepath.Join(blocker, "tasks.json"))
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Save error = %v, want *WriteError", err)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	s := NewStore()
	s.Add("a", nil, PriorityLow, nil)
	for i := 0; i < 3; i++ {
		if err := s.Save(path); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "tasks.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want [tasks.json]", names)
	}
}

func TestValidateReportsPaths(t *testing.T) {
	doc := []any{
		map[string]any{"id": float64(1), "title": "x", "priority": "urgent", "done": false},
	}
	errs := Validate(doc)
	if len(errs) == 0 {
		t.Fatal("expected validation errors")
	}

	found := false
	for _, err := range errs {
		var ve *ValidationError
		if errors.As(err, &ve) && ve.Path == "[0].priority" {
			found = true
		}
	}
	if !found {
		t.Errorf("no error located at [0].priority: %v", errs)
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":                  "",
		"#":                 "",
		"/tasks/0/priority": "tasks[0].priority",
		"#/tasks/12/id":     "tasks[12].id",
		"/0/title":          "[0].title",
		"/a~1b/c~0d":        "a/b.c~d",
	}
	for in, want := range tests {
		if got := jsonPointerToPath(in); got != want {
			t.Errorf("jsonPointerToPath(%q) = %q, want %q", in, got, want)
		}
	}
}
