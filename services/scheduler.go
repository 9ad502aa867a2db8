package services

import (
	"sort"

	"waitline/models"
)

// MultiServerScheduler projects start/end times for queue items across a
// pool of identical servers using greedy earliest-available assignment.
// The schedule is deterministic and O(n * numServers), not optimal
// makespan.
type MultiServerScheduler struct{}

func NewMultiServerScheduler() *MultiServerScheduler {
	return &MultiServerScheduler{}
}

// CalculateCompletionTimes assigns each item a projected service window,
// processing items in input order. Callers that want position ordering use
// CalculateCompletionTimesByPosition instead.
func (s *MultiServerScheduler) CalculateCompletionTimes(items []models.QueueItem, numServers int) []models.CompletionAssignment {
	return s.schedule(items, numServers)
}

// CalculateCompletionTimesByPosition is CalculateCompletionTimes over the
// items sorted ascending by position. The sort is stable, so ties keep
// their input order.
func (s *MultiServerScheduler) CalculateCompletionTimesByPosition(items []models.QueueItem, numServers int) []models.CompletionAssignment {
	ordered := make([]models.QueueItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})
	return s.schedule(ordered, numServers)
}

func (s *MultiServerScheduler) schedule(items []models.QueueItem, numServers int) []models.CompletionAssignment {
	assignments := make([]models.CompletionAssignment, 0, len(items))
	if len(items) == 0 {
		return assignments
	}
	if numServers < 1 {
		numServers = 1
	}

	// One next-free timestamp per server, all starting now. Each item takes
	// the earliest-free server; ties go to the lowest index.
	nextFree := make([]float64, numServers)

	for _, item := range items {
		server := 0
		for i := 1; i < numServers; i++ {
			if nextFree[i] < nextFree[server] {
				server = i
			}
		}

		start := nextFree[server]
		end := start + item.ServiceTime
		nextFree[server] = end

		assignments = append(assignments, models.CompletionAssignment{
			Item:         item,
			StartSeconds: start,
			EndSeconds:   end,
		})
	}

	return assignments
}
