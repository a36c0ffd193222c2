package services

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"

	"goal-planner/app/engine"
	"goal-planner/app/models"
)

// CoachWriter writes short spoken-style texts about a plan.
type CoachWriter interface {
	Explain(ctx context.Context, goal models.GoalInput, task models.FlatTask) (string, error)
	Motivate(ctx context.Context, goal models.GoalInput, progress *engine.Progress) (string, error)
}

// Speaker turns text into audio. name identifies the clip for archiving.
type Speaker interface {
	Speak(ctx context.Context, name, text string) ([]byte, error)
}

// Clip is a spoken text and its audio.
type Clip struct {
	Text  string
	Audio []byte
}

// CoachService produces spoken explanations and motivation for a plan.
type CoachService struct {
	plans   *PlanService
	writer  CoachWriter
	speaker Speaker
}

// NewCoachService creates a new instance of CoachService.
func NewCoachService(plans *PlanService, writer CoachWriter, speaker Speaker) *CoachService {
	return &CoachService{plans: plans, writer: writer, speaker: speaker}
}

// Explain narrates why and how to do taskID.
func (s *CoachService) Explain(ctx context.Context, userID, planID, taskID string) (*Clip, error) {
	rec, err := s.plans.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	var target *models.FlatTask
	for _, t := range engine.Flatten(rec.Plan) {
		if t.ID == taskID {
			target = &t
			break
		}
	}
	if target == nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "cannot explain", goerr.V("plan_id", planID), goerr.V("task_id", taskID))
	}

	text, err := s.writer.Explain(ctx, rec.Goal, *target)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to write explanation", goerr.V("task_id", taskID))
	}
	return s.speak(ctx, fmt.Sprintf("%s/explain-%s.mp3", planID, taskID), text)
}

// Motivate narrates an encouragement based on the plan's progress.
func (s *CoachService) Motivate(ctx context.Context, userID, planID string) (*Clip, error) {
	rec, err := s.plans.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	progress, err := engine.Summarize(rec.Plan, rec.Completed)
	if err != nil {
		return nil, err
	}

	text, err := s.writer.Motivate(ctx, rec.Goal, progress)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to write motivation", goerr.V("plan_id", planID))
	}
	return s.speak(ctx, fmt.Sprintf("%s/motivation-%d.mp3", planID, progress.Completed), text)
}

func (s *CoachService) speak(ctx context.Context, name, text string) (*Clip, error) {
	audio, err := s.speaker.Speak(ctx, name, text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to synthesize speech", goerr.V("clip", name))
	}
	return &Clip{Text: text, Audio: audio}, nil
}
