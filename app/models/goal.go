package models

// SkillLevel describes how experienced the user already is.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// Valid reports whether l is one of the known skill levels.
func (l SkillLevel) Valid() bool {
	switch l {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	}
	return false
}

// GoalInput holds the goal and constraints a plan is generated from.
type GoalInput struct {
	GoalText      string     `json:"goalText"`
	TargetRole    string     `json:"targetRole"`
	HoursPerWeek  int        `json:"hoursPerWeek"`
	TimelineWeeks int        `json:"timelineWeeks"`
	SkillLevel    SkillLevel `json:"skillLevel"`
}

// ProposedTask is a task suggested by the replan generator. It carries the
// relative week and milestone it should be placed in.
type ProposedTask struct {
	Text            string   `json:"text"`
	Minutes         int      `json:"minutes"`
	Category        Category `json:"category"`
	SuccessCriteria string   `json:"successCriteria"`
	Prereqs         []string `json:"prereqs,omitempty"`
	Week            int      `json:"week"`
	MilestoneName   string   `json:"milestoneName"`
}

// ReplanContext is what the replan generator needs to propose replacement work.
type ReplanContext struct {
	Goal GoalInput
	// TimelineWeeks is the remaining horizon; proposals use weeks 1..TimelineWeeks.
	TimelineWeeks int
	// Count is the exact number of tasks to propose.
	Count     int
	Completed []FlatTask
	Remaining []FlatTask
	// Kept is incomplete work before the replan window that stays in the plan.
	Kept        []FlatTask
	Constraints string
	Feedback    string
}
