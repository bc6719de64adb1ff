// Package store persists the task collection as a single JSON document.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tareas/internal/task"
)

// DefaultFile is the task file used when no path is configured.
const DefaultFile = "tareas.json"

// Store reads and writes the full task collection at a fixed path.
// It holds no state beyond the path; callers own caching.
type Store struct {
	path string
}

// New creates a store for the given file path. An empty path falls back
// to DefaultFile in the working directory.
func New(path string) *Store {
	if path == "" {
		path = DefaultFile
	}
	return &Store{path: path}
}

// Path returns the file path the store operates on.
func (s *Store) Path() string {
	return s.path
}

// ReadAll returns every task stored in the file, in file order. A missing
// file yields an empty collection, not an error. Records that do not carry
// a text id and a text title are dropped; any other read or parse failure
// propagates.
func (s *Store) ReadAll() ([]task.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("read tasks file: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tasks file: %w", err)
	}

	tasks := make([]task.Task, 0, len(raw))
	for _, rec := range raw {
		var t task.Task
		if err := json.Unmarshal(rec, &t); err != nil {
			continue
		}
		if t.ID == "" || t.Title == "" {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// WriteAll replaces the file contents with the given tasks, preserving
// their order. Parent directories are created as needed. The document is
// written to a temporary file first and moved into place, so a crash
// mid-write cannot leave a truncated file behind.
func (s *Store) WriteAll(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create tasks dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".tareas-*.json")
	if err != nil {
		return fmt.Errorf("create temp tasks file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write tasks file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close tasks file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod tasks file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace tasks file: %w", err)
	}
	return nil
}
