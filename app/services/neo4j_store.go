package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"goal-planner/app/models"
)

// Neo4jStore persists plan records as (:User)-[:OWNS]->(:Plan) nodes. The plan
// document is stored as a JSON string and the completion set as a string list.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore creates a new instance of Neo4jStore.
func NewNeo4jStore(driver neo4j.DriverWithContext, database string) *Neo4jStore {
	return &Neo4jStore{driver: driver, database: database}
}

const planFields = "p.id AS id, u.id AS user_id, p.goal_text AS goal_text, p.target_role AS target_role, " +
	"p.hours_per_week AS hours_per_week, p.timeline_weeks AS timeline_weeks, p.skill_level AS skill_level, " +
	"p.document AS document, p.completed AS completed, p.version AS version, " +
	"p.created_at AS created_at, p.updated_at AS updated_at"

func (s *Neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

// EnsureSchema creates the uniqueness constraints the store relies on.
func (s *Neo4jStore) EnsureSchema(ctx context.Context) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for _, q := range []string{
		"CREATE CONSTRAINT plan_id IF NOT EXISTS FOR (p:Plan) REQUIRE p.id IS UNIQUE",
		"CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
	} {
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, q, nil)
			if err != nil {
				return nil, err
			}
			return res.Consume(ctx)
		})
		if err != nil {
			return goerr.Wrap(err, "failed to create constraint", goerr.V("query", q))
		}
	}
	return nil
}

// Create stores a new plan record and links it to its owner.
func (s *Neo4jStore) Create(ctx context.Context, rec *PlanRecord) error {
	params, err := recordParams(rec)
	if err != nil {
		return err
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MERGE (u:User {id: $user_id}) "+
				"CREATE (p:Plan {id: $id, goal_text: $goal_text, target_role: $target_role, "+
				"hours_per_week: $hours_per_week, timeline_weeks: $timeline_weeks, skill_level: $skill_level, "+
				"document: $document, completed: $completed, version: $version, "+
				"created_at: $created_at, updated_at: $updated_at}) "+
				"CREATE (u)-[:OWNS]->(p)",
			params,
		)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create plan", goerr.V("plan_id", rec.ID))
	}
	return nil
}

// Get retrieves a single plan record by its ID.
func (s *Neo4jStore) Get(ctx context.Context, planID string) (*PlanRecord, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (u:User)-[:OWNS]->(p:Plan {id: $id}) RETURN "+planFields,
			map[string]any{"id": planID},
		)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, goerr.Wrap(ErrPlanNotFound, "no plan node", goerr.V("plan_id", planID))
		}
		return recordFromNeo4j(res.Record())
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get plan", goerr.V("plan_id", planID))
	}
	return result.(*PlanRecord), nil
}

// ListByUser retrieves the plans owned by userID, newest first.
func (s *Neo4jStore) ListByUser(ctx context.Context, userID string) ([]*PlanRecord, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (u:User {id: $user_id})-[:OWNS]->(p:Plan) RETURN "+planFields+" ORDER BY p.created_at DESC",
			map[string]any{"user_id": userID},
		)
		if err != nil {
			return nil, err
		}

		records := make([]*PlanRecord, 0)
		for res.Next(ctx) {
			rec, err := recordFromNeo4j(res.Record())
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return records, nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list plans", goerr.V("user_id", userID))
	}
	return result.([]*PlanRecord), nil
}

// Update applies fn to the stored record inside one write transaction. The
// version bump in the first statement takes the node's write lock, so no
// other writer can interleave between the read and the write.
func (s *Neo4jStore) Update(ctx context.Context, planID string, fn func(rec *PlanRecord) error) (*PlanRecord, error) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (u:User)-[:OWNS]->(p:Plan {id: $id}) "+
				"SET p.version = p.version + 1 "+
				"RETURN "+planFields,
			map[string]any{"id": planID},
		)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, goerr.Wrap(ErrPlanNotFound, "no plan node", goerr.V("plan_id", planID))
		}
		rec, err := recordFromNeo4j(res.Record())
		if err != nil {
			return nil, err
		}
		next := rec.Version
		rec.Version--

		if err := fn(rec); err != nil {
			return nil, err
		}
		rec.ID = planID
		rec.Version = next

		params, err := recordParams(rec)
		if err != nil {
			return nil, err
		}
		res, err = tx.Run(ctx,
			"MATCH (p:Plan {id: $id}) "+
				"SET p.document = $document, p.completed = $completed, p.updated_at = $updated_at",
			params,
		)
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return rec, nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update plan", goerr.V("plan_id", planID))
	}
	return result.(*PlanRecord), nil
}

// Delete removes a plan and its relationships.
func (s *Neo4jStore) Delete(ctx context.Context, planID string) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (p:Plan {id: $id}) DETACH DELETE p RETURN count(p) AS deleted",
			map[string]any{"id": planID},
		)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		deleted, _, err := neo4j.GetRecordValue[int64](record, "deleted")
		if err != nil {
			return nil, err
		}
		if deleted == 0 {
			return nil, goerr.Wrap(ErrPlanNotFound, "no plan node", goerr.V("plan_id", planID))
		}
		return nil, nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete plan", goerr.V("plan_id", planID))
	}
	return nil
}

func recordParams(rec *PlanRecord) (map[string]any, error) {
	document, err := json.Marshal(rec.Plan)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode plan document", goerr.V("plan_id", rec.ID))
	}
	return map[string]any{
		"id":             rec.ID,
		"user_id":        rec.UserID,
		"goal_text":      rec.Goal.GoalText,
		"target_role":    rec.Goal.TargetRole,
		"hours_per_week": int64(rec.Goal.HoursPerWeek),
		"timeline_weeks": int64(rec.Goal.TimelineWeeks),
		"skill_level":    string(rec.Goal.SkillLevel),
		"document":       string(document),
		"completed":      rec.Completed.IDs(),
		"version":        rec.Version,
		"created_at":     rec.CreatedAt,
		"updated_at":     rec.UpdatedAt,
	}, nil
}

func recordFromNeo4j(record *neo4j.Record) (*PlanRecord, error) {
	var (
		rec PlanRecord
		err error
	)
	str := func(key string) string {
		if err != nil {
			return ""
		}
		var v string
		v, _, err = neo4j.GetRecordValue[string](record, key)
		return v
	}
	num := func(key string) int64 {
		if err != nil {
			return 0
		}
		var v int64
		v, _, err = neo4j.GetRecordValue[int64](record, key)
		return v
	}
	when := func(key string) time.Time {
		if err != nil {
			return time.Time{}
		}
		var v time.Time
		v, _, err = neo4j.GetRecordValue[time.Time](record, key)
		return v
	}

	rec.ID = str("id")
	rec.UserID = str("user_id")
	rec.Goal = models.GoalInput{
		GoalText:      str("goal_text"),
		TargetRole:    str("target_role"),
		HoursPerWeek:  int(num("hours_per_week")),
		TimelineWeeks: int(num("timeline_weeks")),
		SkillLevel:    models.SkillLevel(str("skill_level")),
	}
	document := str("document")
	rec.Version = num("version")
	rec.CreatedAt = when("created_at")
	rec.UpdatedAt = when("updated_at")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read plan record")
	}

	var plan models.Plan
	if err := json.Unmarshal([]byte(document), &plan); err != nil {
		return nil, goerr.Wrap(err, "failed to decode plan document", goerr.V("plan_id", rec.ID))
	}
	rec.Plan = &plan

	completed, _, err := neo4j.GetRecordValue[[]any](record, "completed")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read completed ids", goerr.V("plan_id", rec.ID))
	}
	ids := make([]string, 0, len(completed))
	for _, v := range completed {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	rec.Completed = models.NewCompletedSet(ids...)
	return &rec, nil
}
