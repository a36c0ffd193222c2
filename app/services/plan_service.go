package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"goal-planner/app/engine"
	"goal-planner/app/logging"
	"goal-planner/app/models"
)

// PlanGenerator produces plans and replan batches from an external model.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, goal models.GoalInput) (*models.Plan, error)
	GenerateReplan(ctx context.Context, req models.ReplanContext) ([]models.ProposedTask, error)
}

// PlanService handles plan-related operations.
type PlanService struct {
	store PlanStore
	gen   PlanGenerator
	now   func() time.Time
	newID func() string
}

// Option configures a PlanService.
type Option func(*PlanService)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *PlanService) {
		s.now = now
	}
}

// WithIDGenerator replaces the generator used for plan and task IDs.
func WithIDGenerator(newID func() string) Option {
	return func(s *PlanService) {
		s.newID = newID
	}
}

// NewPlanService creates a new instance of PlanService.
func NewPlanService(store PlanStore, gen PlanGenerator, options ...Option) *PlanService {
	s := &PlanService{
		store: store,
		gen:   gen,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Generate creates a plan for goal and stores it with an empty completion set.
func (s *PlanService) Generate(ctx context.Context, userID string, goal models.GoalInput) (*PlanRecord, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	if err := models.ValidateGoal(goal); err != nil {
		return nil, err
	}

	plan, err := s.gen.GeneratePlan(ctx, goal)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate plan")
	}
	if err := models.ValidatePlan(plan); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrRejectedOutput, err), "generated plan is invalid")
	}

	flat := engine.Flatten(plan)
	if missing := engine.MissingPrereqs(flat); len(missing) > 0 {
		logging.From(ctx).Warn("generated plan has unknown prereqs", "tasks", missing)
	}

	now := s.now()
	rec := &PlanRecord{
		ID:        s.newID(),
		UserID:    userID,
		Goal:      goal,
		Plan:      plan,
		Completed: models.NewCompletedSet(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("plan created",
		"plan_id", rec.ID,
		"user_id", userID,
		"tasks", engine.TotalCount(flat))
	return rec, nil
}

// Get returns the plan if it belongs to userID.
func (s *PlanService) Get(ctx context.Context, userID, planID string) (*PlanRecord, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	rec, err := s.store.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, goerr.Wrap(ErrForbidden, "cannot read plan", goerr.V("plan_id", planID), goerr.V("user_id", userID))
	}
	return rec, nil
}

// List returns the plans owned by userID.
func (s *PlanService) List(ctx context.Context, userID string) ([]*PlanRecord, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	return s.store.ListByUser(ctx, userID)
}

// Delete removes a plan owned by userID.
func (s *PlanService) Delete(ctx context.Context, userID, planID string) error {
	if _, err := s.Get(ctx, userID, planID); err != nil {
		return err
	}
	return s.store.Delete(ctx, planID)
}

// TaskView is a flattened task with its state under the current completion set.
type TaskView struct {
	models.FlatTask
	Completed bool `json:"completed"`
	Ready     bool `json:"ready"`
}

// Tasks returns the flattened plan in document order.
func (s *PlanService) Tasks(ctx context.Context, userID, planID string) ([]TaskView, error) {
	rec, err := s.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	flat := engine.Flatten(rec.Plan)
	views := make([]TaskView, 0, len(flat))
	for _, t := range flat {
		done := rec.Completed.Has(t.ID)
		views = append(views, TaskView{
			FlatTask:  t,
			Completed: done,
			Ready:     !done && engine.IsReady(t.Task, rec.Completed),
		})
	}
	return views, nil
}

// Next returns the next ready task, or nil when there is none.
func (s *PlanService) Next(ctx context.Context, userID, planID string) (*models.FlatTask, error) {
	rec, err := s.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	next, ok := engine.NextReady(engine.Flatten(rec.Plan), rec.Completed)
	if !ok {
		return nil, nil
	}
	return &next, nil
}

// Progress summarises the plan's progress.
func (s *PlanService) Progress(ctx context.Context, userID, planID string) (*engine.Progress, error) {
	rec, err := s.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	return engine.Summarize(rec.Plan, rec.Completed)
}

// Toggle flips the completion state of taskID.
func (s *PlanService) Toggle(ctx context.Context, userID, planID, taskID string) (*PlanRecord, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	rec, err := s.store.Update(ctx, planID, func(rec *PlanRecord) error {
		if rec.UserID != userID {
			return goerr.Wrap(ErrForbidden, "cannot update plan", goerr.V("plan_id", planID), goerr.V("user_id", userID))
		}
		if _, ok := rec.Plan.TaskIDs()[taskID]; !ok {
			return goerr.Wrap(ErrTaskNotFound, "cannot toggle", goerr.V("plan_id", planID), goerr.V("task_id", taskID))
		}
		rec.Completed = rec.Completed.Toggle(taskID)
		rec.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("task toggled",
		"plan_id", planID,
		"task_id", taskID,
		"completed", rec.Completed.Has(taskID))
	return rec, nil
}

// ReplanRequest selects what a replan replaces and how.
type ReplanRequest struct {
	// FromWeek is the first week whose incomplete tasks are replaced. Zero
	// means the earliest week with incomplete work.
	FromWeek    int    `json:"fromWeek"`
	Constraints string `json:"constraints"`
	Feedback    string `json:"feedback"`
}

// ReplanResult reports what a replan changed.
type ReplanResult struct {
	Record         *PlanRecord `json:"record"`
	Replaced       int         `json:"replaced"`
	Added          int         `json:"added"`
	DroppedPrereqs int         `json:"droppedPrereqs"`
}

// Replan swaps the remaining work of a plan for a freshly generated batch.
// Either the whole batch is merged and saved, or the stored record is left
// as it was.
func (s *PlanService) Replan(ctx context.Context, userID, planID string, req ReplanRequest) (*ReplanResult, error) {
	logger := logging.From(ctx).With("plan_id", planID)

	snapshot, err := s.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	window, err := engine.ReplanWindow(snapshot.Plan, snapshot.Completed, req.FromWeek, snapshot.Goal.TimelineWeeks)
	if err != nil {
		return nil, err
	}
	if len(window.Replaced) == 0 {
		logger.Info("nothing to replan")
		return &ReplanResult{Record: snapshot}, nil
	}

	want := engine.BatchSize(len(window.Replaced))
	batch, err := s.gen.GenerateReplan(ctx, models.ReplanContext{
		Goal:          snapshot.Goal,
		TimelineWeeks: window.TimelineWeeks,
		Count:         want,
		Completed:     window.Completed,
		Remaining:     window.Replaced,
		Kept:          window.Kept,
		Constraints:   req.Constraints,
		Feedback:      req.Feedback,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate replan", goerr.V("plan_id", planID))
	}

	batch, dropped, err := engine.CheckBatch(batch, window.CompletedIDs(), window.TimelineWeeks, want)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(ErrRejectedOutput, err), "replan batch rejected", goerr.V("plan_id", planID))
	}

	rec, err := s.store.Update(ctx, planID, func(rec *PlanRecord) error {
		if rec.Version != snapshot.Version {
			return goerr.Wrap(ErrConflict, "plan changed during replan",
				goerr.V("plan_id", planID), goerr.V("expected", snapshot.Version), goerr.V("actual", rec.Version))
		}
		plan, completed, err := engine.Merge(rec.Plan, rec.Completed, window.ReplacedIDs(), batch, window.StartWeek, s.newID)
		if err != nil {
			return err
		}
		rec.Plan = plan
		rec.Completed = completed
		rec.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("plan rerouted",
		"replaced", len(window.Replaced),
		"added", len(batch),
		"dropped_prereqs", dropped,
		"start_week", window.StartWeek)

	return &ReplanResult{
		Record:         rec,
		Replaced:       len(window.Replaced),
		Added:          len(batch),
		DroppedPrereqs: dropped,
	}, nil
}
