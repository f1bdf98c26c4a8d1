package services

import (
	"context"
	"math"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/storage"
)

func seedLedger(t *testing.T, store *storage.MemoryStore, txs []core.Transaction) {
	t.Helper()
	for _, tx := range txs {
		if err := store.CreateTransaction(context.Background(), tx); err != nil {
			t.Fatalf("CreateTransaction(%s): %v", tx.ID, err)
		}
	}
}

func TestReportServiceSummary(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := NewReportService(store)

	seedLedger(t, store, []core.Transaction{
		{ID: "a", OwnerID: "alice", Kind: core.Income, Amount: core.Money{Cents: 500000}, Category: "salary", OccurredOn: core.NewDate(2026, 3, 1)},
		{ID: "b", OwnerID: "alice", Kind: core.Expense, Amount: core.Money{Cents: 120000}, Category: "rent", OccurredOn: core.NewDate(2026, 3, 2)},
		{ID: "c", OwnerID: "alice", Kind: core.Expense, Amount: core.Money{Cents: 30345}, Category: "groceries", OccurredOn: core.NewDate(2026, 3, 10)},
	})

	report, err := svc.Summary(ctx, "alice", core.Date{}, core.Date{})
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if report.TotalIncome != 5000 {
		t.Errorf("totalIncome = %v, want 5000", report.TotalIncome)
	}
	if report.TotalExpenses != 1503.45 {
		t.Errorf("totalExpenses = %v, want 1503.45", report.TotalExpenses)
	}
	// Balance identity holds exactly in cents.
	if report.Balance != 3496.55 {
		t.Errorf("balance = %v, want 3496.55", report.Balance)
	}
	if len(report.ByCategory) != 2 {
		t.Fatalf("byCategory rows = %d, want 2", len(report.ByCategory))
	}
	if report.ByCategory[0].Category != "groceries" {
		t.Errorf("byCategory sorted, got %q first", report.ByCategory[0].Category)
	}
}

func TestReportServiceMonthlySeeded(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := NewReportService(store)

	seedLedger(t, store, []core.Transaction{
		{ID: "a", OwnerID: "alice", Kind: core.Expense, Amount: core.Money{Cents: 10000}, Category: "rent", OccurredOn: core.NewDate(2026, 1, 5)},
	})

	asOf := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	series, err := svc.Monthly(ctx, "alice", 3, asOf)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("seeded series length = %d, want 3", len(series))
	}
	if series[0].Month != "2026-01" || series[2].Month != "2026-03" {
		t.Errorf("series spans %s..%s, want 2026-01..2026-03", series[0].Month, series[2].Month)
	}
	if series[1].Expense != 0 {
		t.Errorf("empty month expense = %d, want 0", series[1].Expense)
	}
}

func TestReportServiceTrend(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := NewReportService(store)

	// Rising spend: second-half mean well above first-half mean.
	amounts := []int64{10000, 10000, 20000, 20000}
	for i, cents := range amounts {
		seedLedger(t, store, []core.Transaction{{
			ID:         string(rune('a' + i)),
			OwnerID:    "alice",
			Kind:       core.Expense,
			Amount:     core.Money{Cents: cents},
			Category:   "groceries",
			OccurredOn: core.NewDate(2026, 1+i, 5),
		}})
	}

	report, err := svc.Trend(ctx, "alice", "Groceries", time.Now())
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if report.Trend != "increasing" {
		t.Errorf("trend = %q, want increasing", report.Trend)
	}
	if report.Category != "groceries" {
		t.Errorf("category = %q, want normalized groceries", report.Category)
	}
}

func TestReportServiceSmartBudgetShares(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := NewReportService(store)

	// One month of history: needs 2200, wants 1200.
	seedLedger(t, store, []core.Transaction{
		{ID: "a", OwnerID: "alice", Kind: core.Expense, Amount: core.Money{Cents: 120000}, Category: "rent", OccurredOn: core.NewDate(2026, 3, 1)},
		{ID: "b", OwnerID: "alice", Kind: core.Expense, Amount: core.Money{Cents: 100000}, Category: "groceries", OccurredOn: core.NewDate(2026, 3, 5)},
		{ID: "c", OwnerID: "alice", Kind: core.Expense, Amount: core.Money{Cents: 70000}, Category: "entertainment", OccurredOn: core.NewDate(2026, 3, 8)},
		{ID: "d", OwnerID: "alice", Kind: core.Expense, Amount: core.Money{Cents: 50000}, Category: "travel", OccurredOn: core.NewDate(2026, 3, 12)},
	})

	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	plan, err := svc.SmartBudget(ctx, "alice", 500000, 0.2, 1, asOf)
	if err != nil {
		t.Fatalf("SmartBudget: %v", err)
	}

	var needsTotal, wantsTotal float64
	for _, a := range plan.Allocations {
		switch a.Group {
		case "needs":
			needsTotal += a.Proposed
		case "wants":
			wantsTotal += a.Proposed
		}
	}
	if math.Abs(needsTotal-2500) > 1e-6 {
		t.Errorf("needs total = %v, want 2500", needsTotal)
	}
	if math.Abs(wantsTotal-1500) > 1e-6 {
		t.Errorf("wants total = %v, want 1500", wantsTotal)
	}
}

func TestReportServiceHealthEmptyLedger(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(storage.NewMemoryStore())

	report, err := svc.Health(ctx, "alice", insights.Profile{})
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if math.IsNaN(report.Overall) {
		t.Error("overall score must never be NaN")
	}
	if len(report.Recommendations) == 0 {
		t.Error("empty ledger with no goals should still recommend defining a goal")
	}
}
