package models

import (
	"fmt"
	"strings"
)

const (
	MinTaskMinutes = 15
	MaxTaskMinutes = 90

	MinHoursPerWeek  = 1
	MaxHoursPerWeek  = 80
	MinTimelineWeeks = 1
	MaxTimelineWeeks = 52
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidatePlan checks the plan document shape. It returns a *ValidationError
// naming the first offending field, or nil.
func ValidatePlan(p *Plan) error {
	if p == nil {
		return violation("plan", "is required")
	}
	if blank(p.Title) {
		return violation("title", "must not be empty")
	}

	seen := make(map[string]string)
	for wi, w := range p.Weeks {
		wf := fmt.Sprintf("weeks[%d]", wi)
		if w.Week < 1 {
			return violation(wf+".week", "must be a positive integer, got %d", w.Week)
		}
		for mi, m := range w.Milestones {
			mf := fmt.Sprintf("%s.milestones[%d]", wf, mi)
			if blank(m.Name) {
				return violation(mf+".name", "must not be empty")
			}
			for ti, t := range m.Tasks {
				tf := fmt.Sprintf("%s.tasks[%d]", mf, ti)
				if err := validateTask(tf, t); err != nil {
					return err
				}
				if prev, ok := seen[t.ID]; ok {
					return violation(tf+".id", "duplicates %s", prev)
				}
				seen[t.ID] = tf
			}
		}
	}
	return nil
}

func validateTask(field string, t Task) error {
	if blank(t.ID) {
		return violation(field+".id", "must not be empty")
	}
	if blank(t.Text) {
		return violation(field+".text", "must not be empty")
	}
	if t.Minutes < 1 {
		return violation(field+".minutes", "must be positive, got %d", t.Minutes)
	}
	if !t.Category.Valid() {
		return violation(field+".category", "unknown category %q", t.Category)
	}
	if blank(t.SuccessCriteria) {
		return violation(field+".successCriteria", "must not be empty")
	}
	for i, id := range t.Prereqs {
		if blank(id) {
			return violation(fmt.Sprintf("%s.prereqs[%d]", field, i), "must not be empty")
		}
	}
	return nil
}

// ValidateProposal checks a single replan proposal at position idx against
// the remaining timeline.
func ValidateProposal(idx int, p ProposedTask, timelineWeeks int) error {
	field := fmt.Sprintf("tasks[%d]", idx)
	if blank(p.Text) {
		return violation(field+".text", "must not be empty")
	}
	if p.Minutes < MinTaskMinutes || p.Minutes > MaxTaskMinutes {
		return violation(field+".minutes", "must be within [%d, %d], got %d", MinTaskMinutes, MaxTaskMinutes, p.Minutes)
	}
	if !p.Category.Valid() {
		return violation(field+".category", "unknown category %q", p.Category)
	}
	if blank(p.SuccessCriteria) {
		return violation(field+".successCriteria", "must not be empty")
	}
	if blank(p.MilestoneName) {
		return violation(field+".milestoneName", "must not be empty")
	}
	if p.Week < 1 || p.Week > timelineWeeks {
		return violation(field+".week", "must be within [1, %d], got %d", timelineWeeks, p.Week)
	}
	return nil
}

// ValidateGoal checks the user supplied goal and constraints.
func ValidateGoal(g GoalInput) error {
	if blank(g.GoalText) {
		return violation("goalText", "must not be empty")
	}
	if g.HoursPerWeek < MinHoursPerWeek || g.HoursPerWeek > MaxHoursPerWeek {
		return violation("hoursPerWeek", "must be within [%d, %d], got %d", MinHoursPerWeek, MaxHoursPerWeek, g.HoursPerWeek)
	}
	if g.TimelineWeeks < MinTimelineWeeks || g.TimelineWeeks > MaxTimelineWeeks {
		return violation("timelineWeeks", "must be within [%d, %d], got %d", MinTimelineWeeks, MaxTimelineWeeks, g.TimelineWeeks)
	}
	if !g.SkillLevel.Valid() {
		return violation("skillLevel", "unknown skill level %q", g.SkillLevel)
	}
	return nil
}
