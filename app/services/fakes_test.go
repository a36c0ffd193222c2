package services_test

import (
	"context"
	"fmt"
	"time"

	"goal-planner/app/engine"
	"goal-planner/app/models"
)

type fakeGenerator struct {
	plan       *models.Plan
	planErr    error
	batch      []models.ProposedTask
	replanErr  error
	replanReqs []models.ReplanContext
	onReplan   func()
}

func (g *fakeGenerator) GeneratePlan(ctx context.Context, goal models.GoalInput) (*models.Plan, error) {
	if g.planErr != nil {
		return nil, g.planErr
	}
	return g.plan.Clone(), nil
}

func (g *fakeGenerator) GenerateReplan(ctx context.Context, req models.ReplanContext) ([]models.ProposedTask, error) {
	g.replanReqs = append(g.replanReqs, req)
	if g.onReplan != nil {
		g.onReplan()
	}
	if g.replanErr != nil {
		return nil, g.replanErr
	}
	return g.batch, nil
}

type fakeWriter struct{}

func (fakeWriter) Explain(ctx context.Context, goal models.GoalInput, task models.FlatTask) (string, error) {
	return "explain " + task.ID, nil
}

func (fakeWriter) Motivate(ctx context.Context, goal models.GoalInput, progress *engine.Progress) (string, error) {
	return fmt.Sprintf("you are at %d%%", progress.Percent), nil
}

type fakeSpeaker struct {
	names []string
}

func (s *fakeSpeaker) Speak(ctx context.Context, name, text string) ([]byte, error) {
	s.names = append(s.names, name)
	return []byte("audio:" + text), nil
}

func sampleTask(id string, prereqs ...string) models.Task {
	return models.Task{
		ID:              id,
		Text:            "work on " + id,
		Minutes:         30,
		Category:        models.CategoryResearch,
		SuccessCriteria: id + " done",
		Prereqs:         prereqs,
	}
}

func samplePlan() *models.Plan {
	return &models.Plan{
		Title:   "Frontend developer in 3 weeks",
		Summary: "Short and focused",
		Weeks: []models.Week{
			{Week: 1, Theme: "Basics", Milestones: []models.Milestone{
				{Name: "Setup", Why: "tools", Tasks: []models.Task{sampleTask("A"), sampleTask("B", "A")}},
			}},
			{Week: 2, Theme: "Build", Milestones: []models.Milestone{
				{Name: "Project", Why: "portfolio", Tasks: []models.Task{sampleTask("C", "B"), sampleTask("D", "C")}},
			}},
			{Week: 3, Theme: "Apply", Milestones: []models.Milestone{
				{Name: "Job hunt", Why: "the goal", Tasks: []models.Task{sampleTask("E", "D")}},
			}},
		},
	}
}

func sampleGoal() models.GoalInput {
	return models.GoalInput{
		GoalText:      "Get a frontend job",
		TargetRole:    "Frontend Developer",
		HoursPerWeek:  10,
		TimelineWeeks: 3,
		SkillLevel:    models.SkillBeginner,
	}
}

func sampleBatch(n int, prereqs ...string) []models.ProposedTask {
	out := make([]models.ProposedTask, n)
	for i := range out {
		out[i] = models.ProposedTask{
			Text:            fmt.Sprintf("new task %d", i),
			Minutes:         45,
			Category:        models.CategoryBuild,
			SuccessCriteria: "shipped",
			Prereqs:         prereqs,
			Week:            1 + i%2,
			MilestoneName:   "Rerouted",
		}
	}
	return out
}

func fixedClock() func() time.Time {
	t := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
