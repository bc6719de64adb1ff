package task

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// titleCollator performs locale-aware string comparison for title ordering.
// The store runs single-threaded, so a shared collator is safe here.
var titleCollator = collate.New(language.Und)

// SortByTitle returns a copy of tasks ordered by title using locale-aware
// collation. The input slice is left untouched.
func SortByTitle(tasks []Task) []Task {
	out := copyTasks(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return titleCollator.CompareString(out[i].Title, out[j].Title) < 0
	})
	return out
}

// SortByCreatedAt returns a copy of tasks ordered by creation time, oldest
// first.
func SortByCreatedAt(tasks []Task) []Task {
	out := copyTasks(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// SortByDueDate returns a copy of tasks ordered by due date ascending.
// Tasks without a due date sort after all tasks that have one.
func SortByDueDate(tasks []Task) []Task {
	out := copyTasks(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out
}

// SortByDifficulty returns a copy of tasks ordered low < medium < high.
// An unrecognized difficulty ranks as medium.
func SortByDifficulty(tasks []Task) []Task {
	out := copyTasks(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return DifficultyRank(out[i].Difficulty) < DifficultyRank(out[j].Difficulty)
	})
	return out
}

// DifficultyRank maps a difficulty to its ordering rank:
// low=1, medium=2, high=3. Unknown values rank as medium.
func DifficultyRank(d Difficulty) int {
	switch d {
	case DifficultyLow:
		return 1
	case DifficultyHigh:
		return 3
	default:
		return 2
	}
}

func copyTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
