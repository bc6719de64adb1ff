package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tareas/internal/task"
)

func TestReadAllMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "tareas.json"))

	tasks, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("got %d tasks, want 0 for a missing file", len(tasks))
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "tareas.json"))

	due := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	original := []task.Task{
		{
			ID:         "id-2",
			Title:      "Second",
			CreatedAt:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			DueDate:    &due,
			Difficulty: task.DifficultyHigh,
			Priority:   5,
			Status:     task.StatusInProgress,
			Tags:       []string{"work"},
			RelatedIDs: []string{"id-1"},
		},
		{
			ID:         "id-1",
			Title:      "First",
			CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Difficulty: task.DifficultyMedium,
			Priority:   3,
			Status:     task.StatusTodo,
			Deleted:    true,
		},
	}

	if err := s.WriteAll(original); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	got, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d tasks, want 2", len(got))
	}
	// Insertion order is preserved, not sorted.
	if got[0].ID != "id-2" || got[1].ID != "id-1" {
		t.Errorf("order: got [%s %s], want [id-2 id-1]", got[0].ID, got[1].ID)
	}
	if got[0].DueDate == nil || !got[0].DueDate.Equal(due) {
		t.Errorf("DueDate: got %v, want %v", got[0].DueDate, due)
	}
	if !got[1].Deleted {
		t.Error("Deleted flag lost in round trip")
	}
}

func TestReadAllDropsMalformedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tareas.json")
	content := `[
  {"id": "ok", "title": "Valid", "priority": 3, "status": "todo", "difficulty": "medium", "createdAt": "2024-01-01T00:00:00Z"},
  {"id": "", "title": "No id"},
  {"id": "no-title"},
  {"id": 42, "title": "Numeric id"},
  {"id": "ok-2", "title": "Also valid", "priority": 1, "status": "done", "difficulty": "low", "createdAt": "2024-01-02T00:00:00Z"}
]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := New(path).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d tasks, want 2 (malformed records dropped)", len(got))
	}
	if got[0].ID != "ok" || got[1].ID != "ok-2" {
		t.Errorf("kept records: got [%s %s], want [ok ok-2]", got[0].ID, got[1].ID)
	}
}

func TestReadAllCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tareas.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(path).ReadAll(); err == nil {
		t.Fatal("ReadAll: got nil error for corrupt file")
	}
}

func TestWriteAllCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tareas.json")
	s := New(path)

	if err := s.WriteAll([]task.Task{{ID: "a", Title: "A"}}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not created: %v", err)
	}
}

func TestWriteAllEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tareas.json")
	s := New(path)

	if err := s.WriteAll(nil); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty collection: got %q, want []", string(data))
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("file should end with a newline")
	}
}

func TestWriteAllHumanReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tareas.json")
	s := New(path)

	if err := s.WriteAll([]task.Task{{ID: "a", Title: "A"}}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  {") {
		t.Errorf("expected 2-space indented output, got:\n%s", data)
	}
}

func TestWriteAllLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "tareas.json"))

	if err := s.WriteAll([]task.Task{{ID: "a", Title: "A"}}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "tareas.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents: got %v, want just tareas.json", names)
	}
}

func TestDefaultPath(t *testing.T) {
	if got := New("").Path(); got != DefaultFile {
		t.Errorf("Path: got %s, want %s", got, DefaultFile)
	}
}
