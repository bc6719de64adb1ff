// Package manager orchestrates the task store and the in-memory cache.
//
// The manager is the single mutable component: it lazily loads the full
// collection from the store once, serves every read from that cache, and
// writes the entire cache back through the store after each mutation.
// If a write fails the cache keeps the mutation, so cache and disk may
// diverge until the next successful write or an explicit Reload.
//
// The store is single-writer by contract; two managers pointed at the same
// file can overwrite each other's writes. There is no locking.
package manager

import (
	"strings"
	"time"

	"tareas/internal/store"
	"tareas/internal/task"
)

// SortKey selects the ordering applied by List.
type SortKey string

const (
	SortNone       SortKey = ""
	SortTitle      SortKey = "title"
	SortCreatedAt  SortKey = "createdAt"
	SortDueDate    SortKey = "dueDate"
	SortDifficulty SortKey = "difficulty"
)

// ListOptions controls filtering and ordering of List results.
type ListOptions struct {
	// IncludeDeleted keeps soft-deleted tasks in the result.
	IncludeDeleted bool
	// SortBy orders the result via the corresponding pure comparator.
	// SortNone preserves cache (insertion) order.
	SortBy SortKey
}

// Patch holds partial changes for Update. Nil fields are left unchanged;
// the task's id and creation time are never patchable.
type Patch struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Difficulty   *task.Difficulty
	Priority     *int
	Status       *task.Status
	Tags         *[]string
	RelatedIDs   *[]string
}

// Manager owns the in-memory task collection backed by a store.
type Manager struct {
	store  *store.Store
	cache  []task.Task
	loaded bool
}

// New creates a manager over the given store. The cache starts unloaded;
// the first operation populates it.
func New(s *store.Store) *Manager {
	return &Manager{store: s}
}

// Load populates the cache from the store if it has not been loaded yet.
// Subsequent calls are no-ops until Reload.
func (m *Manager) Load() error {
	if m.loaded {
		return nil
	}
	tasks, err := m.store.ReadAll()
	if err != nil {
		return err
	}
	m.cache = tasks
	m.loaded = true
	return nil
}

// Reload discards the cache and re-reads the store unconditionally.
func (m *Manager) Reload() error {
	m.loaded = false
	m.cache = nil
	return m.Load()
}

// persist writes the whole cache through to the store.
func (m *Manager) persist() error {
	return m.store.WriteAll(m.cache)
}

// Add constructs a task from the payload, appends it to the collection,
// and persists. Construction fails on a missing title.
func (m *Manager) Add(p task.Payload) (task.Task, error) {
	if err := m.Load(); err != nil {
		return task.Task{}, err
	}
	t, err := task.New(p)
	if err != nil {
		return task.Task{}, err
	}
	m.cache = append(m.cache, t)
	if err := m.persist(); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// FindByID returns the task with the given id. The second result is false
// when no task matches; absence is not an error.
func (m *Manager) FindByID(id string) (task.Task, bool, error) {
	if err := m.Load(); err != nil {
		return task.Task{}, false, err
	}
	for _, t := range m.cache {
		if t.ID == id {
			return t, true, nil
		}
	}
	return task.Task{}, false, nil
}

// Update merges the patch over the matching task and persists. It returns
// the updated task, or found=false without touching the store when the id
// is unknown. An explicit empty title is rejected.
func (m *Manager) Update(id string, p Patch) (task.Task, bool, error) {
	if err := m.Load(); err != nil {
		return task.Task{}, false, err
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return task.Task{}, false, task.ErrTitleRequired
	}
	for i := range m.cache {
		if m.cache[i].ID != id {
			continue
		}
		t := &m.cache[i]
		if p.Title != nil {
			t.Title = *p.Title
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if p.DueDate != nil {
			t.DueDate = p.DueDate
		} else if p.ClearDueDate {
			t.DueDate = nil
		}
		if p.Difficulty != nil {
			t.Difficulty = *p.Difficulty
		}
		if p.Priority != nil {
			t.Priority = *p.Priority
		}
		if p.Status != nil {
			t.Status = *p.Status
		}
		if p.Tags != nil {
			t.Tags = *p.Tags
		}
		if p.RelatedIDs != nil {
			t.RelatedIDs = *p.RelatedIDs
		}
		if err := m.persist(); err != nil {
			return task.Task{}, false, err
		}
		return *t, true, nil
	}
	return task.Task{}, false, nil
}

// Complete marks the matching task done and persists. It returns the
// updated task, or found=false when the id is unknown.
func (m *Manager) Complete(id string) (task.Task, bool, error) {
	if err := m.Load(); err != nil {
		return task.Task{}, false, err
	}
	for i := range m.cache {
		if m.cache[i].ID == id {
			m.cache[i].Complete()
			if err := m.persist(); err != nil {
				return task.Task{}, false, err
			}
			return m.cache[i], true, nil
		}
	}
	return task.Task{}, false, nil
}

// SoftDelete flags the matching task as deleted and persists. It reports
// whether a match was found.
func (m *Manager) SoftDelete(id string) (bool, error) {
	if err := m.Load(); err != nil {
		return false, err
	}
	for i := range m.cache {
		if m.cache[i].ID == id {
			m.cache[i].SoftDelete()
			if err := m.persist(); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Restore clears the deleted flag on the matching task and persists.
func (m *Manager) Restore(id string) (bool, error) {
	if err := m.Load(); err != nil {
		return false, err
	}
	for i := range m.cache {
		if m.cache[i].ID == id {
			m.cache[i].Restore()
			if err := m.persist(); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// HardDelete removes the matching task from the collection and persists.
// It reports whether the collection shrank.
func (m *Manager) HardDelete(id string) (bool, error) {
	if err := m.Load(); err != nil {
		return false, err
	}
	for i := range m.cache {
		if m.cache[i].ID == id {
			m.cache = append(m.cache[:i], m.cache[i+1:]...)
			if err := m.persist(); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// List returns the cached collection, excluding soft-deleted tasks unless
// requested, optionally ordered by one of the pure comparators.
func (m *Manager) List(opts ListOptions) ([]task.Task, error) {
	if err := m.Load(); err != nil {
		return nil, err
	}
	tasks := m.cache
	if !opts.IncludeDeleted {
		tasks = task.Filter(tasks, task.NotDeleted)
	}
	switch opts.SortBy {
	case SortTitle:
		tasks = task.SortByTitle(tasks)
	case SortCreatedAt:
		tasks = task.SortByCreatedAt(tasks)
	case SortDueDate:
		tasks = task.SortByDueDate(tasks)
	case SortDifficulty:
		tasks = task.SortByDifficulty(tasks)
	default:
		out := make([]task.Task, len(tasks))
		copy(out, tasks)
		tasks = out
	}
	return tasks, nil
}

// Statistics aggregates counts over the full current cache. Soft-deleted
// tasks are excluded by the aggregation itself.
func (m *Manager) Statistics() (task.Stats, error) {
	if err := m.Load(); err != nil {
		return task.Stats{}, err
	}
	return task.Collect(m.cache), nil
}

// HighPriority returns the cached tasks with priority 4 or above; the
// predicate already excludes soft-deleted tasks.
func (m *Manager) HighPriority() ([]task.Task, error) {
	if err := m.Load(); err != nil {
		return nil, err
	}
	return task.Filter(m.cache, task.HighPriority), nil
}

// Overdue returns the cached tasks whose due date lies strictly before
// now, excluding soft-deleted ones. A zero now means the current time.
func (m *Manager) Overdue(now time.Time) ([]task.Task, error) {
	if err := m.Load(); err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = time.Now()
	}
	return task.Filter(m.cache, func(t task.Task) bool {
		return task.Overdue(t, now) && !t.Deleted
	}), nil
}

// RelatedTasks returns the cached tasks whose relatedIds contain id.
// The relation is directional; only incoming links are reported.
func (m *Manager) RelatedTasks(id string) ([]task.Task, error) {
	if err := m.Load(); err != nil {
		return nil, err
	}
	return task.Filter(m.cache, func(t task.Task) bool {
		return task.RelatedTo(t, id)
	}), nil
}

// ParseSortKey maps a user-supplied sort name to a SortKey. Unknown names
// report ok=false.
func ParseSortKey(name string) (SortKey, bool) {
	switch name {
	case "":
		return SortNone, true
	case "title":
		return SortTitle, true
	case "created", "createdAt":
		return SortCreatedAt, true
	case "due", "dueDate":
		return SortDueDate, true
	case "difficulty":
		return SortDifficulty, true
	default:
		return SortNone, false
	}
}
