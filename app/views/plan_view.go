// Package views renders plans for the terminal.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"goal-planner/app/engine"
	"goal-planner/app/services"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	weekStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginTop(1)

	milestoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			PaddingLeft(4)

	todoStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	nextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(4)

	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// RenderPlan draws the plan with its completion state and progress.
func RenderPlan(rec *services.PlanRecord, progress *engine.Progress) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(rec.Plan.Title))
	b.WriteString("\n")
	if rec.Plan.Summary != "" {
		b.WriteString(summaryStyle.Render(rec.Plan.Summary))
		b.WriteString("\n")
	}
	b.WriteString(RenderProgress(progress))
	b.WriteString("\n")

	nextID := ""
	if progress.Next != nil {
		nextID = progress.Next.ID
	}

	for _, w := range rec.Plan.Weeks {
		b.WriteString(weekStyle.Render(fmt.Sprintf("Week %d: %s", w.Week, w.Theme)))
		b.WriteString("\n")
		for _, m := range w.Milestones {
			b.WriteString(milestoneStyle.Render(m.Name))
			b.WriteString("\n")
			for _, t := range m.Tasks {
				line := fmt.Sprintf("%s (%d min)", t.Text, t.Minutes)
				switch {
				case rec.Completed.Has(t.ID):
					b.WriteString(doneStyle.Render("[x] " + line))
				case t.ID == nextID:
					b.WriteString(nextStyle.Render("[>] " + line))
				default:
					b.WriteString(todoStyle.Render("[ ] " + line))
				}
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// RenderProgress draws a progress bar with the band label.
func RenderProgress(p *engine.Progress) string {
	filled := p.Percent * barWidth / 100
	bar := barFillStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
	line := fmt.Sprintf("%s %3d%%  %d/%d tasks  %s", bar, p.Percent, p.Completed, p.Total, p.BandLabel)
	if p.Blocked > 0 {
		line += fmt.Sprintf("  (%d blocked)", p.Blocked)
	}
	return line
}
