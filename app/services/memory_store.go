package services

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// MemoryStore is a PlanStore kept in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*PlanRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*PlanRecord)}
}

func (s *MemoryStore) Create(ctx context.Context, rec *PlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.ID]; ok {
		return goerr.New("plan already exists", goerr.V("plan_id", rec.ID))
	}
	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, planID string) (*PlanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[planID]
	if !ok {
		return nil, goerr.Wrap(ErrPlanNotFound, "not in memory store", goerr.V("plan_id", planID))
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID string) ([]*PlanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*PlanRecord, 0)
	for _, rec := range s.records {
		if rec.UserID == userID {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, planID string, fn func(rec *PlanRecord) error) (*PlanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[planID]
	if !ok {
		return nil, goerr.Wrap(ErrPlanNotFound, "not in memory store", goerr.V("plan_id", planID))
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.Version = current.Version + 1
	s.records[planID] = next
	return next.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[planID]; !ok {
		return goerr.Wrap(ErrPlanNotFound, "not in memory store", goerr.V("plan_id", planID))
	}
	delete(s.records, planID)
	return nil
}
