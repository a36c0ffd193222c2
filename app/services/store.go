package services

import (
	"context"
	"time"

	"goal-planner/app/models"
)

// PlanRecord is the persisted unit: one plan, its completion set and the goal
// it was generated from.
type PlanRecord struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	Goal      models.GoalInput    `json:"goal"`
	Plan      *models.Plan        `json:"plan"`
	Completed models.CompletedSet `json:"completed"`
	Version   int64               `json:"version"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// Clone returns a deep copy of the record.
func (r *PlanRecord) Clone() *PlanRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Plan = r.Plan.Clone()
	return &out
}

// PlanStore persists plan records as whole documents.
type PlanStore interface {
	Create(ctx context.Context, rec *PlanRecord) error
	Get(ctx context.Context, planID string) (*PlanRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*PlanRecord, error)
	// Update loads the record, applies fn and saves the result with no other
	// writer on the same plan in between. If fn returns an error nothing is
	// saved. The version is incremented on every successful update.
	Update(ctx context.Context, planID string, fn func(rec *PlanRecord) error) (*PlanRecord, error)
	Delete(ctx context.Context, planID string) error
}
