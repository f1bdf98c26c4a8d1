package insights

import (
	"math"
	"strings"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

const (
	// defaultSuccessProbability applies when a goal has no contribution
	// history at all.
	defaultSuccessProbability = 20.0

	// fallbackHorizonMonths is the planning horizon for goals without a
	// target date.
	fallbackHorizonMonths = 12
)

// EvaluateGoal derives the read-time snapshot for a goal. daysRemaining is a
// whole-day ceiling; negative means overdue.
func EvaluateGoal(g core.Goal, asOf time.Time) core.GoalSnapshot {
	snapshot := core.GoalSnapshot{
		GoalID:          g.ID,
		Title:           g.Title,
		RemainingAmount: g.Target.Units() - g.Current.Units(),
		HasDeadline:     !g.TargetDate.IsEmpty(),
	}
	if g.Target.Cents > 0 {
		snapshot.ProgressPercentage = float64(g.Current.Cents) / float64(g.Target.Cents) * 100
	}
	if snapshot.HasDeadline {
		snapshot.DaysRemaining = daysUntil(asOf, g.TargetDate.Time)
	}

	switch {
	case g.Completed:
		snapshot.Status = core.GoalCompleted
	case snapshot.ProgressPercentage >= 100:
		snapshot.Status = core.GoalReady
	case snapshot.HasDeadline && snapshot.DaysRemaining < 0:
		snapshot.Status = core.GoalOverdue
	case snapshot.HasDeadline && snapshot.DaysRemaining <= 30 && snapshot.ProgressPercentage < 80:
		snapshot.Status = core.GoalUrgent
	default:
		snapshot.Status = core.GoalOnTrack
	}
	return snapshot
}

// GoalContributions selects transactions attributed to the goal by matching
// notes against the goal title, case-insensitively. This mirrors the
// original attribution heuristic; an explicit goal foreign key would be the
// structural fix.
func GoalContributions(g core.Goal, txs []core.Transaction) []core.Transaction {
	title := strings.ToLower(strings.TrimSpace(g.Title))
	if title == "" {
		return nil
	}
	var matched []core.Transaction
	for _, tx := range txs {
		if strings.Contains(strings.ToLower(tx.Note), title) {
			matched = append(matched, tx)
		}
	}
	return matched
}

// EstimateCompletion extrapolates linearly from the average monthly
// contribution rate. With no history the probability defaults to 20 and the
// estimated date falls back to the stated target date unchanged.
func EstimateCompletion(g core.Goal, contributions []core.Transaction, asOf time.Time) core.CompletionEstimate {
	estimate := core.CompletionEstimate{}

	remainingCents := g.Target.Cents - g.Current.Cents
	if remainingCents <= 0 {
		estimate.ProbabilityOfSuccess = 95
		estimate.EstimatedCompletionDate = asOf.Format("2006-01-02")
		return estimate
	}
	remaining := float64(remainingCents) / 100

	months := fallbackHorizonMonths
	if !g.TargetDate.IsEmpty() {
		months = monthsUntil(asOf, g.TargetDate.Time)
	}
	if months < 1 {
		months = 1
	}
	estimate.RequiredMonthlyContribution = remaining / float64(months)

	series := analytics.MonthlySeries(contributions)
	if len(series) == 0 {
		estimate.ProbabilityOfSuccess = defaultSuccessProbability
		if !g.TargetDate.IsEmpty() {
			estimate.EstimatedCompletionDate = g.TargetDate.Format("2006-01-02")
		}
		return estimate
	}

	var total int64
	for _, b := range series {
		total += b.Income + b.Expense
	}
	avg := float64(total) / 100 / float64(len(series))
	estimate.AverageMonthlyContribution = avg

	estimate.ProbabilityOfSuccess = analytics.Clamp(
		avg/estimate.RequiredMonthlyContribution*100, 5, 95)

	if avg > 0 {
		monthsNeeded := int(math.Ceil(remaining / avg))
		estimate.EstimatedCompletionDate = asOf.AddDate(0, monthsNeeded, 0).Format("2006-01-02")
	} else if !g.TargetDate.IsEmpty() {
		estimate.EstimatedCompletionDate = g.TargetDate.Format("2006-01-02")
	}
	return estimate
}

// daysUntil returns whole days from now to target, rounding partial days up.
func daysUntil(now, target time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}

func monthsUntil(now, target time.Time) int {
	months := (target.Year()-now.Year())*12 + int(target.Month()) - int(now.Month())
	if target.Day() > now.Day() {
		months++
	}
	return months
}
