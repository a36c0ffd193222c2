package models

import "slices"

// Milestone groups tasks under a named objective.
type Milestone struct {
	Name  string `json:"name"`
	Why   string `json:"why"`
	Tasks []Task `json:"tasks"`
}

// Week is a numbered period of the plan.
type Week struct {
	Week       int         `json:"week"`
	Theme      string      `json:"theme"`
	Milestones []Milestone `json:"milestones"`
}

// Plan is the root document produced for a goal.
type Plan struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Weeks   []Week `json:"weeks"`
}

// Clone returns a deep copy of the plan.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := *p
	out.Weeks = slices.Clone(p.Weeks)
	for wi := range out.Weeks {
		w := &out.Weeks[wi]
		w.Milestones = slices.Clone(w.Milestones)
		for mi := range w.Milestones {
			m := &w.Milestones[mi]
			m.Tasks = slices.Clone(m.Tasks)
			for ti := range m.Tasks {
				m.Tasks[ti] = m.Tasks[ti].Clone()
			}
		}
	}
	return &out
}

// TaskIDs returns the set of task IDs present in the plan.
func (p *Plan) TaskIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	if p == nil {
		return ids
	}
	for _, w := range p.Weeks {
		for _, m := range w.Milestones {
			for _, t := range m.Tasks {
				ids[t.ID] = struct{}{}
			}
		}
	}
	return ids
}
