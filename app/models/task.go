package models

import "slices"

// Category classifies the kind of work a task represents.
type Category string

const (
	CategoryResearch Category = "research"
	CategoryBuild    Category = "build"
	CategoryPractice Category = "practice"
	CategoryNetwork  Category = "network"
	CategoryApply    Category = "apply"
)

// Categories returns every valid category in display order.
func Categories() []Category {
	return []Category{CategoryResearch, CategoryBuild, CategoryPractice, CategoryNetwork, CategoryApply}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryResearch, CategoryBuild, CategoryPractice, CategoryNetwork, CategoryApply:
		return true
	}
	return false
}

// Task represents a single actionable unit of work inside a milestone.
type Task struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Minutes         int      `json:"minutes"`
	Category        Category `json:"category"`
	SuccessCriteria string   `json:"successCriteria"`
	Prereqs         []string `json:"prereqs"`
}

// Clone returns a copy of the task that shares no slices with t.
func (t Task) Clone() Task {
	out := t
	out.Prereqs = slices.Clone(t.Prereqs)
	return out
}

// FlatTask is a task with its owning week and milestone inlined.
type FlatTask struct {
	Task
	Week      int    `json:"week"`
	Milestone string `json:"milestone"`
}
