package task

import (
	"slices"
	"time"
)

// Filter returns the tasks for which keep is true, in input order.
// The input slice is never modified.
func Filter(tasks []Task, keep func(Task) bool) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// NotDeleted reports whether the task has not been soft-deleted.
func NotDeleted(t Task) bool {
	return !t.Deleted
}

// HighPriority reports whether the task has priority 4 or above and is
// not soft-deleted.
func HighPriority(t Task) bool {
	return t.Priority >= 4 && !t.Deleted
}

// Overdue reports whether the task has a due date strictly before now.
// Tasks without a due date are never overdue.
func Overdue(t Task, now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}

// HasTag reports whether the task carries the given tag.
func HasTag(t Task, tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// RelatedTo reports whether the task lists id among its related task IDs.
// The relation is directional; no reverse link is implied.
func RelatedTo(t Task, id string) bool {
	return slices.Contains(t.RelatedIDs, id)
}
