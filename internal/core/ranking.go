package core

import "sort"

// VolunteerStats aggregates the volunteer roster together with the task
// board. CompletedTaskRatio is 0 when there are no tasks at all.
type VolunteerStats struct {
	TotalHours         float64
	TotalVolunteers    int
	CompletedTaskRatio float64
}

// RankVolunteers returns a new slice sorted by hours contributed, highest
// first. The sort is stable: volunteers with equal hours keep their original
// relative order. The input slice is left untouched.
func RankVolunteers(volunteers []Volunteer) []Volunteer {
	ranked := make([]Volunteer, len(volunteers))
	copy(ranked, volunteers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].HoursContributed > ranked[j].HoursContributed
	})
	return ranked
}

// TopVolunteers slices the first n entries of an already-ranked list.
func TopVolunteers(ranked []Volunteer, n int) []Volunteer {
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// ComputeVolunteerStats totals hours across the roster and the completion
// ratio across the separately supplied task board. Task completion and
// volunteer hour totals are independent records; nothing links them here.
func ComputeVolunteerStats(volunteers []Volunteer, tasks []Task) VolunteerStats {
	s := VolunteerStats{TotalVolunteers: len(volunteers)}
	for _, v := range volunteers {
		s.TotalHours += v.HoursContributed
	}
	if len(tasks) > 0 {
		completed := 0
		for _, t := range tasks {
			if t.Status == TaskCompleted {
				completed++
			}
		}
		s.CompletedTaskRatio = float64(completed) / float64(len(tasks))
	}
	return s
}
