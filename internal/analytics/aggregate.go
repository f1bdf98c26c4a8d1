// Package analytics reduces a raw transaction ledger into the sums, series,
// and dispersion statistics the evaluators build on.
//
// Every function here is total: empty input yields zero-valued output, never
// an error, and nothing is cached or mutated. Callers guarantee validated
// input (non-negative amounts, well-formed dates); re-validation happens at
// the ingestion boundary, not here.
package analytics

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

// Window restricts an aggregation to [Start, End]. A zero bound is open.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// CategoryTotals maps lower-cased category names to summed cents, split by
// transaction kind, with grand totals per kind.
type CategoryTotals struct {
	Income       map[string]int64
	Expense      map[string]int64
	IncomeTotal  int64
	ExpenseTotal int64
}

// SumByCategory folds the transactions inside the window into per-category
// totals. Category matching is case-insensitive.
func SumByCategory(txs []core.Transaction, w Window) CategoryTotals {
	totals := CategoryTotals{
		Income:  make(map[string]int64),
		Expense: make(map[string]int64),
	}
	for _, tx := range txs {
		if !w.Contains(tx.OccurredOn.Time) {
			continue
		}
		cat := core.NormalizeCategory(tx.Category)
		switch tx.Kind {
		case core.Income:
			totals.Income[cat] += tx.Amount.Cents
			totals.IncomeTotal += tx.Amount.Cents
		case core.Expense:
			totals.Expense[cat] += tx.Amount.Cents
			totals.ExpenseTotal += tx.Amount.Cents
		}
	}
	return totals
}

// Balance returns income minus expense in cents over the window.
func Balance(txs []core.Transaction, w Window) int64 {
	t := SumByCategory(txs, w)
	return t.IncomeTotal - t.ExpenseTotal
}

// MonthBucket is one calendar month of summed activity.
type MonthBucket struct {
	Month   string `json:"month"` // YYYY-MM
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// MonthlySeries groups transactions by calendar month, ascending by month
// key. Months with no transactions do not appear; use MonthlySeriesSeeded
// when a fixed window is required.
func MonthlySeries(txs []core.Transaction) []MonthBucket {
	byMonth := make(map[string]*MonthBucket)
	for _, tx := range txs {
		key := tx.OccurredOn.MonthKey()
		b, ok := byMonth[key]
		if !ok {
			b = &MonthBucket{Month: key}
			byMonth[key] = b
		}
		switch tx.Kind {
		case core.Income:
			b.Income += tx.Amount.Cents
		case core.Expense:
			b.Expense += tx.Amount.Cents
		}
	}

	series := make([]MonthBucket, 0, len(byMonth))
	for _, b := range byMonth {
		series = append(series, *b)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })
	return series
}

// MonthlySeriesSeeded returns exactly `months` buckets ending at the month of
// `end`, pre-seeding a zero bucket for every month before folding in real
// data. Transactions outside the window are dropped.
func MonthlySeriesSeeded(txs []core.Transaction, end time.Time, months int) []MonthBucket {
	if months <= 0 {
		return nil
	}
	series := make([]MonthBucket, months)
	index := make(map[string]int, months)
	first := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		series[i] = MonthBucket{Month: key}
		index[key] = i
	}
	for _, tx := range txs {
		i, ok := index[tx.OccurredOn.MonthKey()]
		if !ok {
			continue
		}
		switch tx.Kind {
		case core.Income:
			series[i].Income += tx.Amount.Cents
		case core.Expense:
			series[i].Expense += tx.Amount.Cents
		}
	}
	return series
}
