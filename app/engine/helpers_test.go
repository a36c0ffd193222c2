package engine_test

import (
	"goal-planner/app/models"
)

func task(id string, prereqs ...string) models.Task {
	return models.Task{
		ID:              id,
		Text:            "do " + id,
		Minutes:         30,
		Category:        models.CategoryPractice,
		SuccessCriteria: id + " is done",
		Prereqs:         prereqs,
	}
}

func week(n int, milestones ...models.Milestone) models.Week {
	return models.Week{Week: n, Theme: "theme", Milestones: milestones}
}

func milestone(name string, tasks ...models.Task) models.Milestone {
	return models.Milestone{Name: name, Why: "because", Tasks: tasks}
}

func plan(weeks ...models.Week) *models.Plan {
	return &models.Plan{Title: "plan", Summary: "summary", Weeks: weeks}
}

func ids(flat []models.FlatTask) []string {
	out := make([]string, 0, len(flat))
	for _, t := range flat {
		out = append(out, t.ID)
	}
	return out
}
