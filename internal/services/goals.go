package services

import (
	"math"
	"time"

	"accountable/internal/core"
)

// GoalProgress is a goal decorated with its derived progress figures.
type GoalProgress struct {
	core.Goal
	Progress      float64 `json:"progress"` // percent, may exceed 100
	Completed     bool    `json:"completed"`
	DaysRemaining *int    `json:"daysRemaining,omitempty"`
}

// EvaluateGoals computes progress for each goal. DaysRemaining is nil for
// goals without a deadline and can go negative once the deadline passes.
func EvaluateGoals(goals []core.Goal, now time.Time) []GoalProgress {
	out := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		gp := GoalProgress{Goal: g}
		if g.TargetAmount > 0 {
			gp.Progress = g.CurrentAmount / g.TargetAmount * 100
		}
		gp.Completed = gp.Progress >= 100

		if g.Deadline != "" {
			if d, err := core.ParseDate(g.Deadline); err == nil {
				days := int(math.Ceil(d.Sub(now).Hours() / 24))
				gp.DaysRemaining = &days
			}
		}
		out = append(out, gp)
	}
	return out
}
