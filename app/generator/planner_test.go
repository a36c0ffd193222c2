package generator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"goal-planner/app/engine"
	"goal-planner/app/generator"
	"goal-planner/app/models"
)

const planReply = "Sure! Here is the plan:\n```json\n" + `{
  "title": "Backend in 2 weeks",
  "summary": "From basics to a deployed API",
  "weeks": [
    {"week": 1, "theme": "Basics", "milestones": [
      {"name": "Setup", "why": "tools first", "tasks": [
        {"id": "t1", "text": "Install Go", "minutes": 20, "category": "research", "successCriteria": "go version works"},
        {"id": "t2", "text": "Tour of Go", "minutes": 60, "category": "practice", "successCriteria": "finished", "prereqs": ["t1"]}
      ]}
    ]},
    {"week": 2, "theme": "Build", "milestones": [
      {"name": "API", "why": "portfolio", "tasks": [
        {"id": "t3", "text": "Write a REST API", "minutes": 90, "category": "build", "successCriteria": "tests pass", "prereqs": ["t2"]}
      ]}
    ]}
  ]
}` + "\n```"

func sampleGoal() models.GoalInput {
	return models.GoalInput{
		GoalText:      "Become a backend developer",
		TargetRole:    "Backend engineer",
		HoursPerWeek:  5,
		TimelineWeeks: 2,
		SkillLevel:    models.SkillBeginner,
	}
}

func newPlanGenerator(t *testing.T, stub *stubGenerator) *generator.PlanGenerator {
	t.Helper()
	g, err := generator.NewPlanGenerator(stub)
	gt.NoError(t, err).Required()
	return g
}

func TestGeneratePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes a fenced reply", func(t *testing.T) {
		stub := &stubGenerator{reply: planReply}
		plan, err := newPlanGenerator(t, stub).GeneratePlan(ctx, sampleGoal())
		gt.NoError(t, err).Required()

		gt.Equal(t, plan.Title, "Backend in 2 weeks")
		gt.A(t, plan.Weeks).Length(2)
		flat := engine.Flatten(plan)
		gt.A(t, flat).Length(3)
		gt.Equal(t, flat[1].Prereqs, []string{"t1"})
		gt.Equal(t, flat[2].Category, models.CategoryBuild)
		gt.NoError(t, models.ValidatePlan(plan))

		gt.True(t, stub.last.JSON)
		gt.S(t, stub.last.User).Contains("Become a backend developer")
		gt.S(t, stub.last.User).Contains("2 week plan")
		gt.S(t, stub.last.System).Contains("career coach")
	})

	t.Run("rejects a reply that breaks the schema", func(t *testing.T) {
		stub := &stubGenerator{reply: `{"title": "x", "weeks": [{"week": 1, "milestones": [{"name": "m", "tasks": [{"id": "a", "text": "t", "minutes": 30, "category": "dance", "successCriteria": "s"}]}]}]}`}
		_, err := newPlanGenerator(t, stub).GeneratePlan(ctx, sampleGoal())
		gt.True(t, errors.Is(err, generator.ErrGeneration))
	})

	t.Run("rejects prose", func(t *testing.T) {
		stub := &stubGenerator{reply: "I cannot help with that."}
		_, err := newPlanGenerator(t, stub).GeneratePlan(ctx, sampleGoal())
		gt.True(t, errors.Is(err, generator.ErrGeneration))
	})

	t.Run("passes generator errors through", func(t *testing.T) {
		down := errors.New("down")
		_, err := newPlanGenerator(t, &stubGenerator{err: down}).GeneratePlan(ctx, sampleGoal())
		gt.True(t, errors.Is(err, down))
	})
}

func TestGenerateReplan(t *testing.T) {
	ctx := context.Background()
	req := models.ReplanContext{
		Goal:          sampleGoal(),
		TimelineWeeks: 2,
		Count:         2,
		Completed: []models.FlatTask{
			{Task: models.Task{ID: "t1", Text: "Install Go"}, Week: 1, Milestone: "Setup"},
		},
		Remaining: []models.FlatTask{
			{Task: models.Task{ID: "t3", Text: "Write a REST API"}, Week: 2, Milestone: "API"},
		},
		Kept: []models.FlatTask{
			{Task: models.Task{ID: "t2", Text: "Tour of Go"}, Week: 1, Milestone: "Setup"},
		},
		Constraints: "only weekends",
		Feedback:    "too much reading",
	}

	t.Run("decodes proposals", func(t *testing.T) {
		stub := &stubGenerator{reply: `{"tasks": [
			{"text": "Build a CLI", "minutes": 45, "category": "build", "successCriteria": "runs", "prereqs": ["t1"], "week": 1, "milestoneName": "Hands on"},
			{"text": "Pair with a friend", "minutes": 60, "category": "network", "successCriteria": "session held", "week": 2, "milestoneName": "Hands on"}
		]}`}
		batch, err := newPlanGenerator(t, stub).GenerateReplan(ctx, req)
		gt.NoError(t, err).Required()

		gt.A(t, batch).Length(2)
		gt.Equal(t, batch[0].Prereqs, []string{"t1"})
		gt.Equal(t, batch[1].Week, 2)
		gt.Equal(t, batch[1].MilestoneName, "Hands on")

		gt.S(t, stub.last.User).Contains("exactly 2 tasks")
		gt.S(t, stub.last.User).Contains("[t1] week 1: Install Go")
		gt.S(t, stub.last.User).Contains("Earlier tasks that stay in the plan:\n- week 1, Setup: Tour of Go")
		gt.S(t, stub.last.User).Contains("only weekends")
		gt.S(t, stub.last.User).Contains("too much reading")
	})

	t.Run("missing tasks key", func(t *testing.T) {
		stub := &stubGenerator{reply: `{"items": []}`}
		_, err := newPlanGenerator(t, stub).GenerateReplan(ctx, req)
		gt.True(t, errors.Is(err, generator.ErrGeneration))
	})
}

func TestCoachingText(t *testing.T) {
	ctx := context.Background()
	task := models.FlatTask{Task: models.Task{ID: "t2", Text: "Tour of Go", Minutes: 60, SuccessCriteria: "finished"}, Week: 1}

	t.Run("explain", func(t *testing.T) {
		stub := &stubGenerator{reply: "  Start with the basics.  "}
		text, err := newPlanGenerator(t, stub).Explain(ctx, sampleGoal(), task)
		gt.NoError(t, err)
		gt.Equal(t, text, "Start with the basics.")
		gt.False(t, stub.last.JSON)
		gt.S(t, stub.last.User).Contains("Tour of Go")
	})

	t.Run("motivate", func(t *testing.T) {
		stub := &stubGenerator{reply: "Keep going!"}
		progress := &engine.Progress{Total: 3, Completed: 1, Percent: 33, BandLabel: "Climbing", Next: &task}
		text, err := newPlanGenerator(t, stub).Motivate(ctx, sampleGoal(), progress)
		gt.NoError(t, err)
		gt.Equal(t, text, "Keep going!")
		gt.S(t, stub.last.User).Contains("1 of 3 tasks done (33%, Climbing)")
		gt.S(t, stub.last.User).Contains("Next up: Tour of Go")
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := newPlanGenerator(t, &stubGenerator{reply: " "}).Explain(ctx, sampleGoal(), task)
		gt.True(t, errors.Is(err, generator.ErrGeneration))
	})
}
