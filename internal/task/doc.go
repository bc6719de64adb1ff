// Package task defines the task record and the pure queries over task lists.
//
// The on-disk task format (tareas.json) is a JSON array of records:
//
//	[
//	  {
//	    "id": "6f1c6a2e-6f6e-4e3a-9f6e-1a2b3c4d5e6f",
//	    "title": "Task title",
//	    "description": "Optional details",
//	    "createdAt": "2024-01-01T00:00:00Z",
//	    "dueDate": "2024-02-01T00:00:00Z",
//	    "difficulty": "medium",
//	    "priority": 3,
//	    "status": "todo",
//	    "tags": ["tag1"],
//	    "relatedIds": ["other-task-id"],
//	    "deleted": false
//	  }
//	]
//
// # Status Values
//
//   - "todo": Task is pending
//   - "in_progress": Task is currently being worked on
//   - "done": Task is complete
//   - "cancelled": Task was abandoned
//
// # Difficulty Values
//
//   - "low", "medium", "high". Ordering logic ranks unknown values as medium.
//
// # Priority Range
//
//   - 5: Highest priority
//   - 1: Lowest priority
//
// The range is documented, not enforced; out-of-range values are stored as
// given and only reported by schema validation (see internal/store).
//
// Every function in this package that takes a []Task treats it as read-only
// and returns fresh slices or maps. Soft-deleted tasks are retained in
// storage and excluded by the NotDeleted predicate and the aggregations.
package task
