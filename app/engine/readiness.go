package engine

import "goal-planner/app/models"

// IsReady reports whether every prereq of t is in completed.
func IsReady(t models.Task, completed models.CompletedSet) bool {
	for _, id := range t.Prereqs {
		if !completed.Has(id) {
			return false
		}
	}
	return true
}

// NextReady returns the first task in scan order that is incomplete and has
// all prereqs completed. Blocked tasks are skipped, not treated as a stop.
// Cycles and dangling prereqs are never ready.
func NextReady(flat []models.FlatTask, completed models.CompletedSet) (models.FlatTask, bool) {
	for _, t := range flat {
		if completed.Has(t.ID) {
			continue
		}
		if IsReady(t.Task, completed) {
			return t, true
		}
	}
	return models.FlatTask{}, false
}

// Blocked returns the incomplete tasks that still wait on a prereq.
func Blocked(flat []models.FlatTask, completed models.CompletedSet) []models.FlatTask {
	blocked := make([]models.FlatTask, 0)
	for _, t := range flat {
		if !completed.Has(t.ID) && !IsReady(t.Task, completed) {
			blocked = append(blocked, t)
		}
	}
	return blocked
}

// MissingPrereqs maps task IDs to the prereqs that do not exist in flat.
func MissingPrereqs(flat []models.FlatTask) map[string][]string {
	known := make(map[string]struct{}, len(flat))
	for _, t := range flat {
		known[t.ID] = struct{}{}
	}

	missing := make(map[string][]string)
	for _, t := range flat {
		for _, id := range t.Prereqs {
			if _, ok := known[id]; !ok {
				missing[t.ID] = append(missing[t.ID], id)
			}
		}
	}
	return missing
}
