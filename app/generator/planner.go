package generator

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"goal-planner/app/engine"
	"goal-planner/app/logging"
	"goal-planner/app/models"
)

// PlanGenerator turns goals and plan state into prompts and decodes the
// replies into plan data.
type PlanGenerator struct {
	gen    Generator
	plan   *jsonschema.Schema
	replan *jsonschema.Schema
}

// NewPlanGenerator creates a PlanGenerator backed by gen.
func NewPlanGenerator(gen Generator) (*PlanGenerator, error) {
	plan, err := compileSchema(planSchema)
	if err != nil {
		return nil, err
	}
	replan, err := compileSchema(replanSchema)
	if err != nil {
		return nil, err
	}
	return &PlanGenerator{gen: gen, plan: plan, replan: replan}, nil
}

// GeneratePlan asks the model for a full plan for goal.
func (g *PlanGenerator) GeneratePlan(ctx context.Context, goal models.GoalInput) (*models.Plan, error) {
	user, err := render(planTmpl, planTemplateData{Goal: goal, Categories: categoryList()})
	if err != nil {
		return nil, err
	}

	reply, err := g.gen.Generate(ctx, Prompt{System: systemPrompt, User: user, JSON: true})
	if err != nil {
		return nil, err
	}

	var plan models.Plan
	if err := decodeReply(reply, g.plan, &plan); err != nil {
		return nil, goerr.Wrap(err, "failed to read generated plan")
	}
	logging.From(ctx).Info("plan generated", "weeks", len(plan.Weeks), "tasks", engine.TotalCount(engine.Flatten(&plan)))
	return &plan, nil
}

// GenerateReplan asks the model for replacement tasks. The batch is returned
// as proposed; the caller checks it.
func (g *PlanGenerator) GenerateReplan(ctx context.Context, req models.ReplanContext) ([]models.ProposedTask, error) {
	user, err := render(replanTmpl, replanTemplateData{ReplanContext: req, Categories: categoryList()})
	if err != nil {
		return nil, err
	}

	reply, err := g.gen.Generate(ctx, Prompt{System: systemPrompt, User: user, JSON: true})
	if err != nil {
		return nil, err
	}

	var out struct {
		Tasks []models.ProposedTask `json:"tasks"`
	}
	if err := decodeReply(reply, g.replan, &out); err != nil {
		return nil, goerr.Wrap(err, "failed to read replan batch")
	}
	logging.From(ctx).Info("replan batch generated", "want", req.Count, "got", len(out.Tasks))
	return out.Tasks, nil
}

// Explain writes a short spoken explanation of task.
func (g *PlanGenerator) Explain(ctx context.Context, goal models.GoalInput, task models.FlatTask) (string, error) {
	user, err := render(explainTmpl, explainTemplateData{Goal: goal, Task: task})
	if err != nil {
		return "", err
	}
	return g.text(ctx, user)
}

// Motivate writes a short spoken encouragement based on progress.
func (g *PlanGenerator) Motivate(ctx context.Context, goal models.GoalInput, progress *engine.Progress) (string, error) {
	user, err := render(motivateTmpl, motivateTemplateData{Goal: goal, Progress: progress})
	if err != nil {
		return "", err
	}
	return g.text(ctx, user)
}

func (g *PlanGenerator) text(ctx context.Context, user string) (string, error) {
	reply, err := g.gen.Generate(ctx, Prompt{System: systemPrompt, User: user})
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", goerr.Wrap(ErrGeneration, "model returned empty text")
	}
	return reply, nil
}
