// Package engine holds the pure plan-progression logic: flattening, task
// readiness, progress accounting and replan merging. Nothing here performs I/O
// or keeps state between calls.
package engine

import "goal-planner/app/models"

// Flatten projects the plan into its tasks in document order.
func Flatten(plan *models.Plan) []models.FlatTask {
	flat := make([]models.FlatTask, 0)
	if plan == nil {
		return flat
	}
	for _, w := range plan.Weeks {
		for _, m := range w.Milestones {
			for _, t := range m.Tasks {
				flat = append(flat, models.FlatTask{
					Task:      t.Clone(),
					Week:      w.Week,
					Milestone: m.Name,
				})
			}
		}
	}
	return flat
}
