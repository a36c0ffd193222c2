package engine

import (
	"math"

	"github.com/m-mizutani/goerr/v2"

	"goal-planner/app/models"
)

// Band is a named stage of plan progress.
type Band string

const (
	BandTrailhead  Band = "trailhead"
	BandBaseCamp   Band = "base-camp"
	BandClimbing   Band = "climbing"
	BandSummitPush Band = "summit-push"
	BandSummit     Band = "summit"
)

// Label returns the display name of the band.
func (b Band) Label() string {
	switch b {
	case BandTrailhead:
		return "Trailhead"
	case BandBaseCamp:
		return "Base Camp"
	case BandClimbing:
		return "Climbing"
	case BandSummitPush:
		return "Summit Push"
	case BandSummit:
		return "Summit"
	}
	return string(b)
}

// TotalCount returns the number of tasks in the flattened plan.
func TotalCount(flat []models.FlatTask) int {
	return len(flat)
}

// CompletedCount counts tasks of flat that are in completed. IDs in completed
// that are not part of flat are ignored.
func CompletedCount(flat []models.FlatTask, completed models.CompletedSet) int {
	n := 0
	for _, t := range flat {
		if completed.Has(t.ID) {
			n++
		}
	}
	return n
}

// Percentage returns round(100*completed/total), or 0 when total is 0. The
// result only reaches 100 once every task is completed.
func Percentage(completed, total int) (int, error) {
	if completed < 0 || total < 0 || completed > total {
		return 0, goerr.Wrap(ErrInvalidPercentage, "completed must be within [0, total]",
			goerr.V("completed", completed), goerr.V("total", total))
	}
	if total == 0 {
		return 0, nil
	}
	pct := int(math.Round(100 * float64(completed) / float64(total)))
	if pct == 100 && completed < total {
		pct = 99
	}
	return pct, nil
}

// BandFor maps a percentage in [0, 100] to its band.
func BandFor(pct int) (Band, error) {
	switch {
	case pct < 0 || pct > 100:
		return "", goerr.Wrap(ErrInvalidPercentage, "percentage out of range", goerr.V("percentage", pct))
	case pct == 0:
		return BandTrailhead, nil
	case pct < 25:
		return BandBaseCamp, nil
	case pct < 75:
		return BandClimbing, nil
	case pct < 100:
		return BandSummitPush, nil
	default:
		return BandSummit, nil
	}
}

// Progress summarises how far a plan has come.
type Progress struct {
	Total            int              `json:"total"`
	Completed        int              `json:"completed"`
	Blocked          int              `json:"blocked"`
	Percent          int              `json:"percent"`
	Band             Band             `json:"band"`
	BandLabel        string           `json:"bandLabel"`
	MinutesRemaining int              `json:"minutesRemaining"`
	Next             *models.FlatTask `json:"next,omitempty"`
}

// Summarize computes the progress of plan under completed.
func Summarize(plan *models.Plan, completed models.CompletedSet) (*Progress, error) {
	if plan == nil {
		return nil, goerr.Wrap(ErrNilPlan, "cannot summarize")
	}

	flat := Flatten(plan)
	total := TotalCount(flat)
	done := CompletedCount(flat, completed)

	pct, err := Percentage(done, total)
	if err != nil {
		return nil, err
	}
	band, err := BandFor(pct)
	if err != nil {
		return nil, err
	}

	p := &Progress{
		Total:     total,
		Completed: done,
		Blocked:   len(Blocked(flat, completed)),
		Percent:   pct,
		Band:      band,
		BandLabel: band.Label(),
	}
	for _, t := range flat {
		if !completed.Has(t.ID) {
			p.MinutesRemaining += t.Minutes
		}
	}
	if next, ok := NextReady(flat, completed); ok {
		p.Next = &next
	}
	return p, nil
}
