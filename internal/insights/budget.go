// Package insights turns aggregated ledger data into budget, goal, plan, and
// health derivations. Everything here is pure and total: snapshots are
// recomputed on every call, zero denominators fall back to policy defaults,
// and no function returns an error.
package insights

import (
	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

// Status thresholds are policy constants, not configuration.
const (
	overThreshold        = 100.0
	urgentThreshold      = 90.0
	approachingThreshold = 75.0
)

// SpentInWindow sums expense transactions in the budget's category that fall
// inside its window. Category matching is case-insensitive.
func SpentInWindow(b core.Budget, txs []core.Transaction) int64 {
	totals := analytics.SumByCategory(txs, analytics.Window{
		Start: b.WindowStart.Time,
		End:   b.WindowEnd.Time,
	})
	return totals.Expense[core.NormalizeCategory(b.Category)]
}

// EvaluateBudget derives the read-time snapshot for a budget given the cents
// spent in its window. A zero limit yields percentUsed 0, never NaN.
func EvaluateBudget(b core.Budget, spentCents int64) core.BudgetSnapshot {
	snapshot := core.BudgetSnapshot{
		BudgetID:  b.ID,
		Category:  core.NormalizeCategory(b.Category),
		Allocated: b.Limit.Units(),
		Spent:     float64(spentCents) / 100,
	}
	snapshot.Remaining = snapshot.Allocated - snapshot.Spent

	if b.Limit.Cents > 0 {
		snapshot.PercentUsed = float64(spentCents) / float64(b.Limit.Cents) * 100
	}

	switch {
	case snapshot.PercentUsed >= overThreshold:
		snapshot.Status = core.BudgetOver
	case snapshot.PercentUsed >= urgentThreshold:
		snapshot.Status = core.BudgetUrgent
	case snapshot.PercentUsed >= approachingThreshold:
		snapshot.Status = core.BudgetApproaching
	default:
		snapshot.Status = core.BudgetOnTrack
	}
	return snapshot
}
