package engine

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"

	"goal-planner/app/models"
)

const (
	MinBatchSize = 5
	MaxBatchSize = 30
	BatchBuffer  = 5
)

// BatchSize returns how many tasks a replan should generate when replacing n
// tasks.
func BatchSize(replaced int) int {
	n := replaced + BatchBuffer
	if n < MinBatchSize {
		return MinBatchSize
	}
	if n > MaxBatchSize {
		return MaxBatchSize
	}
	return n
}

// Window is the split of a plan into what a replan keeps and what it replaces.
type Window struct {
	Completed []models.FlatTask
	Replaced  []models.FlatTask
	Kept      []models.FlatTask

	// StartWeek is the absolute week that relative week 1 of the replan maps to.
	StartWeek int
	// TimelineWeeks is the remaining horizon counted from StartWeek.
	TimelineWeeks int
}

// ReplacedIDs returns the IDs of the tasks the replan discards.
func (w *Window) ReplacedIDs() []string {
	ids := make([]string, 0, len(w.Replaced))
	for _, t := range w.Replaced {
		ids = append(ids, t.ID)
	}
	return ids
}

// CompletedIDs returns the completed tasks as a set.
func (w *Window) CompletedIDs() models.CompletedSet {
	ids := make([]string, 0, len(w.Completed))
	for _, t := range w.Completed {
		ids = append(ids, t.ID)
	}
	return models.NewCompletedSet(ids...)
}

// ReplanWindow splits plan at fromWeek. Incomplete tasks in weeks >= fromWeek
// are replaced. A fromWeek below 1 starts at the earliest week that still has
// incomplete work. totalWeeks is the plan's full horizon.
func ReplanWindow(plan *models.Plan, completed models.CompletedSet, fromWeek, totalWeeks int) (*Window, error) {
	if plan == nil {
		return nil, goerr.Wrap(ErrNilPlan, "cannot compute replan window")
	}

	flat := Flatten(plan)
	if fromWeek < 1 {
		fromWeek = 0
		for _, t := range flat {
			if !completed.Has(t.ID) && (fromWeek == 0 || t.Week < fromWeek) {
				fromWeek = t.Week
			}
		}
		if fromWeek == 0 {
			fromWeek = 1
		}
	}

	w := &Window{StartWeek: fromWeek}
	for _, t := range flat {
		switch {
		case completed.Has(t.ID):
			w.Completed = append(w.Completed, t)
		case t.Week >= fromWeek:
			w.Replaced = append(w.Replaced, t)
		default:
			w.Kept = append(w.Kept, t)
		}
		if t.Week > totalWeeks {
			totalWeeks = t.Week
		}
	}

	w.TimelineWeeks = totalWeeks - fromWeek + 1
	if w.TimelineWeeks < 1 {
		w.TimelineWeeks = 1
	}
	return w, nil
}

// CheckBatch validates a generated batch before it may be merged. Any
// invalid proposal rejects the whole batch. Surplus proposals beyond want are
// discarded, and prereqs that do not name a task in completed are removed.
// The returned count is the number of prereq references removed.
func CheckBatch(batch []models.ProposedTask, completed models.CompletedSet, timelineWeeks, want int) ([]models.ProposedTask, int, error) {
	if len(batch) < want {
		return nil, 0, goerr.Wrap(ErrBatchTooSmall, "not enough tasks generated",
			goerr.V("got", len(batch)), goerr.V("want", want))
	}
	batch = batch[:want]

	out := make([]models.ProposedTask, 0, len(batch))
	dropped := 0
	for i, p := range batch {
		if err := models.ValidateProposal(i, p, timelineWeeks); err != nil {
			return nil, 0, err
		}

		var prereqs []string
		seen := make(map[string]struct{})
		for _, id := range p.Prereqs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if !completed.Has(id) {
				dropped++
				continue
			}
			prereqs = append(prereqs, id)
		}
		p.Prereqs = prereqs
		out = append(out, p)
	}
	return out, dropped, nil
}

const replanMilestoneWhy = "Added when the plan was rerouted"

// Merge builds a new plan from plan with the replaced tasks swapped for batch.
// Completed tasks are never removed or changed. Relative week n of the batch lands in
// absolute week startWeek+n-1. newID must return a fresh task ID on each call.
// The returned set is completed pruned to tasks that still exist.
func Merge(plan *models.Plan, completed models.CompletedSet, replaced []string, batch []models.ProposedTask, startWeek int, newID func() string) (*models.Plan, models.CompletedSet, error) {
	if plan == nil {
		return nil, models.CompletedSet{}, goerr.Wrap(ErrNilPlan, "cannot merge")
	}
	if startWeek < 1 {
		startWeek = 1
	}

	removed := make(map[string]struct{}, len(replaced))
	for _, id := range replaced {
		if !completed.Has(id) {
			removed[id] = struct{}{}
		}
	}

	out := plan.Clone()
	weeks := make([]models.Week, 0, len(out.Weeks))
	for _, w := range out.Weeks {
		milestones := make([]models.Milestone, 0, len(w.Milestones))
		for _, m := range w.Milestones {
			tasks := make([]models.Task, 0, len(m.Tasks))
			for _, t := range m.Tasks {
				if _, gone := removed[t.ID]; gone {
					continue
				}
				if !completed.Has(t.ID) {
					t.Prereqs = withoutIDs(t.Prereqs, removed)
				}
				tasks = append(tasks, t)
			}
			if len(tasks) == 0 && len(m.Tasks) > 0 {
				continue
			}
			m.Tasks = tasks
			milestones = append(milestones, m)
		}
		if len(milestones) == 0 && len(w.Milestones) > 0 {
			continue
		}
		w.Milestones = milestones
		weeks = append(weeks, w)
	}
	out.Weeks = weeks

	ids := out.TaskIDs()
	for _, p := range batch {
		id := newID()
		for {
			if _, taken := ids[id]; !taken && id != "" {
				break
			}
			id = newID()
		}
		ids[id] = struct{}{}

		task := models.Task{
			ID:              id,
			Text:            p.Text,
			Minutes:         p.Minutes,
			Category:        p.Category,
			SuccessCriteria: p.SuccessCriteria,
			Prereqs:         slices.Clone(p.Prereqs),
		}
		wi := weekIndex(out, startWeek+p.Week-1, p.MilestoneName)
		mi := milestoneIndex(&out.Weeks[wi], p.MilestoneName)
		out.Weeks[wi].Milestones[mi].Tasks = append(out.Weeks[wi].Milestones[mi].Tasks, task)
	}

	if err := models.ValidatePlan(out); err != nil {
		return nil, models.CompletedSet{}, goerr.Wrap(err, "merged plan is invalid")
	}
	return out, completed.Retain(out.TaskIDs()), nil
}

func withoutIDs(ids []string, drop map[string]struct{}) []string {
	if len(ids) == 0 {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// weekIndex finds the week numbered n, creating it before the first later
// week when absent.
func weekIndex(p *models.Plan, n int, theme string) int {
	pos := len(p.Weeks)
	for i, w := range p.Weeks {
		if w.Week == n {
			return i
		}
		if w.Week > n && pos == len(p.Weeks) {
			pos = i
		}
	}
	week := models.Week{Week: n, Theme: theme, Milestones: []models.Milestone{}}
	p.Weeks = append(p.Weeks, models.Week{})
	copy(p.Weeks[pos+1:], p.Weeks[pos:])
	p.Weeks[pos] = week
	return pos
}

func milestoneIndex(w *models.Week, name string) int {
	for i, m := range w.Milestones {
		if m.Name == name {
			return i
		}
	}
	w.Milestones = append(w.Milestones, models.Milestone{Name: name, Why: replanMilestoneWhy, Tasks: []models.Task{}})
	return len(w.Milestones) - 1
}
