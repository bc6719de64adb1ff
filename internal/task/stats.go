package task

// Stats aggregates counts over the non-deleted portion of a task list.
type Stats struct {
	Total        int                `json:"total"`
	ByStatus     map[Status]int     `json:"byStatus"`
	ByDifficulty map[Difficulty]int `json:"byDifficulty"`
}

// Collect computes all aggregations in one pass. Soft-deleted tasks are
// excluded. Map keys are present only for values that actually occur.
func Collect(tasks []Task) Stats {
	s := Stats{
		ByStatus:     make(map[Status]int),
		ByDifficulty: make(map[Difficulty]int),
	}
	for _, t := range tasks {
		if t.Deleted {
			continue
		}
		s.Total++
		s.ByStatus[t.Status]++
		s.ByDifficulty[t.Difficulty]++
	}
	return s
}

// Total counts the non-deleted tasks.
func Total(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Deleted {
			n++
		}
	}
	return n
}

// CountByStatus counts non-deleted tasks per status.
func CountByStatus(tasks []Task) map[Status]int {
	return Collect(tasks).ByStatus
}

// CountByDifficulty counts non-deleted tasks per difficulty.
func CountByDifficulty(tasks []Task) map[Difficulty]int {
	return Collect(tasks).ByDifficulty
}
