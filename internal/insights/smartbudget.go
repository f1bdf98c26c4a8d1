package insights

import (
	"fmt"
	"sort"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

// Fixed 50/30/20 partition. Categories outside both sets keep their
// historical average unchanged.
var (
	needsCategories = map[string]bool{
		"rent": true, "utilities": true, "groceries": true,
		"insurance": true, "transport": true, "housing": true,
	}
	wantsCategories = map[string]bool{
		"entertainment": true, "shopping": true, "food": true, "travel": true,
	}
	// Regular categories eligible for automation suggestions.
	automatableCategories = []string{"rent", "utilities", "insurance", "subscriptions"}
)

const (
	needsShare = 0.5
	wantsShare = 0.3

	// Minimum unused amount, in currency units, before a reallocation is
	// worth suggesting.
	reallocateFloor = 50.0

	maxOptimizations = 5
)

const (
	OptimizeReduce     = "reduce"
	OptimizeReallocate = "reallocate"
	OptimizeAutomate   = "automate"
)

type (
	// Allocation is a proposed monthly amount for one category.
	Allocation struct {
		Category   string  `json:"category"`
		Group      string  `json:"group"` // needs | wants | other
		Historical float64 `json:"historical"`
		Proposed   float64 `json:"proposed"`
	}

	Optimization struct {
		Type        string  `json:"type"`
		Category    string  `json:"category"`
		Amount      float64 `json:"amount,omitempty"`
		Description string  `json:"description"`
	}

	Plan struct {
		MonthlyIncome     float64        `json:"monthlyIncome"`
		TargetSavingsRate float64        `json:"targetSavingsRate"`
		Months            int            `json:"months"`
		Allocations       []Allocation   `json:"allocations"`
		PlannedSavings    float64        `json:"plannedSavings"`
		Optimizations     []Optimization `json:"optimizations"`
	}
)

// GeneratePlan proposes per-category monthly allocations from historical
// averages and a target savings rate. When months is zero the trailing
// window is estimated from transaction density (distinct months present,
// capped at twelve).
func GeneratePlan(txs []core.Transaction, monthlyIncomeCents int64, targetSavingsRate float64, months int, asOf time.Time) Plan {
	if months <= 0 {
		months = estimateMonths(txs)
	}

	income := float64(monthlyIncomeCents) / 100
	plan := Plan{
		MonthlyIncome:     income,
		TargetSavingsRate: targetSavingsRate,
		Months:            months,
	}

	averages := monthlyAverages(txs, asOf, months)
	if len(averages) == 0 {
		plan.PlannedSavings = income
		return plan
	}

	var needsTotal, wantsTotal float64
	for cat, avg := range averages {
		switch {
		case needsCategories[cat]:
			needsTotal += avg
		case wantsCategories[cat]:
			wantsTotal += avg
		}
	}

	cats := make([]string, 0, len(averages))
	for cat := range averages {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	var allocatedTotal float64
	for _, cat := range cats {
		avg := averages[cat]
		a := Allocation{Category: cat, Group: "other", Historical: avg, Proposed: avg}
		switch {
		case needsCategories[cat] && needsTotal > 0:
			a.Group = "needs"
			a.Proposed = income * needsShare * (avg / needsTotal)
		case wantsCategories[cat] && wantsTotal > 0:
			a.Group = "wants"
			a.Proposed = income * wantsShare * (avg / wantsTotal)
		}
		allocatedTotal += a.Proposed
		plan.Allocations = append(plan.Allocations, a)
	}
	plan.PlannedSavings = income - allocatedTotal

	plan.Optimizations = buildOptimizations(plan.Allocations, income, targetSavingsRate, plan.PlannedSavings)
	return plan
}

// buildOptimizations derives reduce/reallocate/automate suggestions, capped
// at five, reductions first.
func buildOptimizations(allocations []Allocation, income, targetRate, plannedSavings float64) []Optimization {
	var out []Optimization

	// Reductions only when the plan misses the target savings rate.
	actualRate := 0.0
	if income > 0 {
		actualRate = plannedSavings / income
	}
	if actualRate < targetRate {
		shortfall := (targetRate - actualRate) * income

		overspent := make([]Allocation, 0)
		for _, a := range allocations {
			if a.Historical > a.Proposed {
				overspent = append(overspent, a)
			}
		}
		sort.Slice(overspent, func(i, j int) bool {
			return overspent[i].Historical-overspent[i].Proposed > overspent[j].Historical-overspent[j].Proposed
		})
		for _, a := range overspent {
			overage := a.Historical - a.Proposed
			reduction := overage
			if ceiling := shortfall / 2; reduction > ceiling {
				reduction = ceiling
			}
			if reduction <= 0 {
				continue
			}
			out = append(out, Optimization{
				Type:        OptimizeReduce,
				Category:    a.Category,
				Amount:      reduction,
				Description: fmt.Sprintf("Spending on %s runs %.2f over its allocation; trimming %.2f closes part of the savings gap", a.Category, overage, reduction),
			})
		}
	}

	for _, a := range allocations {
		unused := a.Proposed - a.Historical
		if a.Historical < a.Proposed*0.8 && unused > reallocateFloor {
			out = append(out, Optimization{
				Type:        OptimizeReallocate,
				Category:    a.Category,
				Amount:      unused,
				Description: fmt.Sprintf("%s uses under 80%% of its allocation; %.2f could move toward savings or goals", a.Category, unused),
			})
		}
	}

	for _, name := range automatableCategories {
		for _, a := range allocations {
			if a.Category == name && a.Historical <= a.Proposed {
				out = append(out, Optimization{
					Type:        OptimizeAutomate,
					Category:    name,
					Description: fmt.Sprintf("%s is regular and on-track; automating the payment avoids missed due dates", name),
				})
			}
		}
	}

	rank := map[string]int{OptimizeReduce: 0, OptimizeReallocate: 1, OptimizeAutomate: 2}
	sort.SliceStable(out, func(i, j int) bool { return rank[out[i].Type] < rank[out[j].Type] })
	if len(out) > maxOptimizations {
		out = out[:maxOptimizations]
	}
	return out
}

// monthlyAverages returns per-category expense averages, in currency units,
// over a seeded trailing window so sparse categories divide by the full
// window length.
func monthlyAverages(txs []core.Transaction, asOf time.Time, months int) map[string]float64 {
	window := analytics.Window{
		Start: time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0),
		End:   asOf,
	}
	totals := analytics.SumByCategory(txs, window)

	averages := make(map[string]float64, len(totals.Expense))
	for cat, cents := range totals.Expense {
		averages[cat] = float64(cents) / 100 / float64(months)
	}
	return averages
}

func estimateMonths(txs []core.Transaction) int {
	seen := make(map[string]bool)
	for _, tx := range txs {
		seen[tx.OccurredOn.MonthKey()] = true
	}
	months := len(seen)
	if months < 1 {
		return 1
	}
	if months > 12 {
		return 12
	}
	return months
}
