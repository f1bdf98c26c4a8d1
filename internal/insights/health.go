package insights

import (
	"strings"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

// Profile carries the user-supplied inputs the ledger cannot derive.
type Profile struct {
	// MonthlyBudgetTarget in currency units; zero means no target was set.
	MonthlyBudgetTarget float64
	// EmergencyFundBalance in currency units.
	EmergencyFundBalance float64
}

type (
	HealthBreakdown struct {
		BudgetAdherence float64 `json:"budgetAdherence"`
		Savings         float64 `json:"savings"`
		Debt            float64 `json:"debt"`
		Diversification float64 `json:"diversification"`
		EmergencyFund   float64 `json:"emergencyFund"`
	}

	HealthReport struct {
		Overall         float64         `json:"overall"`
		Breakdown       HealthBreakdown `json:"breakdown"`
		Recommendations []string        `json:"recommendations"`
	}
)

// Sub-score scaling constants: a 20% savings rate, a debt load of a third of
// income, five distinct holdings, and six months of expense coverage each map
// to a full sub-score.
const (
	savingsScale       = 500.0
	debtScale          = 300.0
	diversifyScale     = 20.0
	emergencyScale     = 16.67
	monthsFullCoverage = 6
)

// ScoreHealth folds the ledger, goals, and profile into a 0-100 score with
// equal-weight sub-scores. Total over any input: empty history produces
// defaults, never NaN or a panic.
func ScoreHealth(txs []core.Transaction, goals []core.Goal, profile Profile) HealthReport {
	totals := analytics.SumByCategory(txs, analytics.Window{})
	income := float64(totals.IncomeTotal) / 100
	expenses := float64(totals.ExpenseTotal) / 100

	breakdown := HealthBreakdown{
		BudgetAdherence: adherenceScore(expenses, profile.MonthlyBudgetTarget),
		Savings:         savingsScore(income, expenses),
		Debt:            debtScore(income, debtPayments(totals)),
		Diversification: diversificationScore(txs),
		EmergencyFund:   emergencyScore(profile.EmergencyFundBalance, expenses, txs),
	}

	overall := (breakdown.BudgetAdherence + breakdown.Savings + breakdown.Debt +
		breakdown.Diversification + breakdown.EmergencyFund) / 5

	return HealthReport{
		Overall:         overall,
		Breakdown:       breakdown,
		Recommendations: recommend(breakdown, goals),
	}
}

// adherenceScore compares expenses to the budget target. With no target the
// comparison degenerates to expenses against themselves, a perfect score;
// that literal behavior is kept for compatibility.
func adherenceScore(expenses, target float64) float64 {
	if expenses == 0 {
		return 100
	}
	if target == 0 {
		target = expenses
	}
	deviation := expenses - target
	if deviation < 0 {
		deviation = -deviation
	}
	return analytics.Clamp(100*(1-deviation/expenses), 0, 100)
}

func savingsScore(income, expenses float64) float64 {
	if income == 0 {
		return 0
	}
	rate := (income - expenses) / income
	return analytics.Clamp(rate*savingsScale, 0, 100)
}

func debtScore(income, debt float64) float64 {
	if income == 0 {
		if debt > 0 {
			return 0
		}
		return 100
	}
	return analytics.Clamp(100-(debt/income)*debtScale, 0, 100)
}

// debtPayments identifies debt service by category substring match.
func debtPayments(totals analytics.CategoryTotals) float64 {
	var cents int64
	for cat, amount := range totals.Expense {
		if strings.Contains(cat, "debt") || strings.Contains(cat, "loan") {
			cents += amount
		}
	}
	return float64(cents) / 100
}

// diversificationScore counts distinct investment notes: each distinct note
// on an investment-category transaction reads as one holding.
func diversificationScore(txs []core.Transaction) float64 {
	distinct := make(map[string]bool)
	for _, tx := range txs {
		if !strings.Contains(core.NormalizeCategory(tx.Category), "invest") {
			continue
		}
		note := strings.ToLower(strings.TrimSpace(tx.Note))
		if note != "" {
			distinct[note] = true
		}
	}
	return analytics.Clamp(float64(len(distinct))*diversifyScale, 0, 100)
}

func emergencyScore(balance, totalExpenses float64, txs []core.Transaction) float64 {
	months := len(analytics.MonthlySeries(txs))
	if months < 1 {
		months = 1
	}
	monthlyExpenses := totalExpenses / float64(months)
	if monthlyExpenses == 0 {
		if balance > 0 {
			return 100
		}
		return 0
	}
	return analytics.Clamp(balance/monthlyExpenses*emergencyScale, 0, 100)
}

// recommend maps low sub-scores to fixed advice texts.
func recommend(b HealthBreakdown, goals []core.Goal) []string {
	var recs []string
	if b.EmergencyFund < 50 {
		recs = append(recs, "Build an emergency fund covering at least three months of expenses")
	}
	if b.Savings < 50 {
		recs = append(recs, "Increase your savings rate; aim for 20% of income")
	}
	if b.BudgetAdherence < 70 {
		recs = append(recs, "Review category budgets, spending is drifting from the monthly target")
	}
	if b.Debt < 60 {
		recs = append(recs, "Prioritize paying down high-interest debt")
	}
	if b.Diversification < 40 {
		recs = append(recs, "Diversify investments across more holdings")
	}
	if len(goals) == 0 {
		recs = append(recs, "Define a savings goal to anchor your monthly plan")
	}
	return recs
}
