package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents a task lifecycle state.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// Difficulty represents how hard a task is expected to be.
type Difficulty string

const (
	DifficultyLow    Difficulty = "low"
	DifficultyMedium Difficulty = "medium"
	DifficultyHigh   Difficulty = "high"
)

// DefaultPriority is assigned when a payload carries no priority.
// The documented range is 1 (lowest) to 5 (highest); values outside it
// are stored as given and only flagged by schema validation.
const DefaultPriority = 3

// ErrTitleRequired is returned when a task is constructed without a title.
var ErrTitleRequired = errors.New("task title is required")

// Task is a single entry in the task list.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	Priority    int        `json:"priority"`
	Status      Status     `json:"status"`
	Tags        []string   `json:"tags,omitempty"`
	RelatedIDs  []string   `json:"relatedIds,omitempty"`
	Deleted     bool       `json:"deleted,omitempty"`
}

// Payload holds the caller-supplied fields for constructing a task.
// Zero values mean "not supplied" and take the documented defaults.
type Payload struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	DueDate     *time.Time
	Difficulty  Difficulty
	Priority    int
	Status      Status
	Tags        []string
	RelatedIDs  []string
}

// New constructs a validated task from a payload. The title is required;
// every other field falls back to its default: a generated UUID, the
// current time, medium difficulty, priority 3, and status todo.
func New(p Payload) (Task, error) {
	if strings.TrimSpace(p.Title) == "" {
		return Task{}, ErrTitleRequired
	}

	t := Task{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		DueDate:     p.DueDate,
		Difficulty:  p.Difficulty,
		Priority:    p.Priority,
		Status:      p.Status,
		Tags:        p.Tags,
		RelatedIDs:  p.RelatedIDs,
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.Difficulty == "" {
		t.Difficulty = DifficultyMedium
	}
	if t.Priority == 0 {
		t.Priority = DefaultPriority
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	return t, nil
}

// Complete marks the task as done.
func (t *Task) Complete() {
	t.Status = StatusDone
}

// SoftDelete marks the task as logically removed while keeping it in storage.
func (t *Task) SoftDelete() {
	t.Deleted = true
}

// Restore clears the soft-delete flag.
func (t *Task) Restore() {
	t.Deleted = false
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}
