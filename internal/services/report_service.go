package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/storage"
)

type (
	// CategoryAmount is one row of a per-category breakdown, in currency
	// units.
	CategoryAmount struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	// SummaryReport is the aggregate view over a date window.
	SummaryReport struct {
		TotalIncome   float64          `json:"totalIncome"`
		TotalExpenses float64          `json:"totalExpenses"`
		Balance       float64          `json:"balance"`
		ByCategory    []CategoryAmount `json:"byCategory"`
	}

	// TrendReport classifies spending direction for one category.
	TrendReport struct {
		Category   string  `json:"category"`
		Trend      string  `json:"trend"`
		Confidence float64 `json:"confidence"`
	}
)

// ReportService computes the read-only analytics and insight endpoints. It
// loads the ledger and delegates to the pure computation packages.
type ReportService struct {
	store storage.Store
}

func NewReportService(store storage.Store) *ReportService {
	return &ReportService{store: store}
}

// Summary aggregates totals and a per-category expense breakdown over an
// optional date window.
func (s *ReportService) Summary(ctx context.Context, ownerID string, from, to core.Date) (SummaryReport, error) {
	txs, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{From: from, To: to})
	if err != nil {
		return SummaryReport{}, fmt.Errorf("load transactions: %w", err)
	}

	totals := analytics.SumByCategory(txs, analytics.Window{})
	report := SummaryReport{
		TotalIncome:   float64(totals.IncomeTotal) / 100,
		TotalExpenses: float64(totals.ExpenseTotal) / 100,
		Balance:       float64(totals.IncomeTotal-totals.ExpenseTotal) / 100,
		ByCategory:    make([]CategoryAmount, 0, len(totals.Expense)),
	}
	for cat, cents := range totals.Expense {
		report.ByCategory = append(report.ByCategory, CategoryAmount{
			Category: cat,
			Amount:   float64(cents) / 100,
		})
	}
	sort.Slice(report.ByCategory, func(i, j int) bool {
		return report.ByCategory[i].Category < report.ByCategory[j].Category
	})
	return report, nil
}

// Monthly returns the per-month income and expense series. With months > 0
// the window is seeded so every requested month appears even when empty.
func (s *ReportService) Monthly(ctx context.Context, ownerID string, months int, asOf time.Time) ([]analytics.MonthBucket, error) {
	txs, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if months > 0 {
		return analytics.MonthlySeriesSeeded(txs, asOf, months), nil
	}
	return analytics.MonthlySeries(txs), nil
}

// Trend classifies the spending direction for a category from its monthly
// expense series.
func (s *ReportService) Trend(ctx context.Context, ownerID, category string, asOf time.Time) (TrendReport, error) {
	category = core.NormalizeCategory(category)
	txs, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{
		Category: category,
		Kind:     core.Expense,
	})
	if err != nil {
		return TrendReport{}, fmt.Errorf("load transactions: %w", err)
	}

	series := analytics.MonthlySeries(txs)
	values := make([]float64, len(series))
	for i, b := range series {
		values[i] = float64(b.Expense) / 100
	}

	result := analytics.ClassifyTrend(values)
	return TrendReport{
		Category:   category,
		Trend:      string(result.Trend),
		Confidence: result.Confidence,
	}, nil
}

// SmartBudget generates the 50/30/20 allocation plan from spending history.
func (s *ReportService) SmartBudget(ctx context.Context, ownerID string, monthlyIncomeCents int64, targetSavingsRate float64, months int, asOf time.Time) (insights.Plan, error) {
	txs, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{})
	if err != nil {
		return insights.Plan{}, fmt.Errorf("load transactions: %w", err)
	}
	return insights.GeneratePlan(txs, monthlyIncomeCents, targetSavingsRate, months, asOf), nil
}

// Health folds the full ledger, goals, and profile into the health score.
func (s *ReportService) Health(ctx context.Context, ownerID string, profile insights.Profile) (insights.HealthReport, error) {
	txs, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{})
	if err != nil {
		return insights.HealthReport{}, fmt.Errorf("load transactions: %w", err)
	}
	goals, err := s.store.ListGoals(ctx, ownerID)
	if err != nil {
		return insights.HealthReport{}, fmt.Errorf("load goals: %w", err)
	}
	return insights.ScoreHealth(txs, goals, profile), nil
}
