package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/storage"
)

// BudgetService owns the budget lifecycle and read-time snapshots.
type BudgetService struct {
	store storage.Store
}

func NewBudgetService(store storage.Store) *BudgetService {
	return &BudgetService{store: store}
}

// CreateBudget fills in defaults and persists. An empty window is derived
// from the period anchored at asOf. Creation fails when an active budget
// already covers the same owner, category and period.
func (s *BudgetService) CreateBudget(ctx context.Context, b core.Budget, asOf time.Time) (core.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.Category = core.NormalizeCategory(b.Category)
	b.Active = true

	if b.WindowStart.IsEmpty() && b.WindowEnd.IsEmpty() {
		b.WindowStart, b.WindowEnd = periodWindow(b.Period, asOf)
	}

	if err := b.Validate(); err != nil {
		return core.Budget{}, fmt.Errorf("validate budget: %w", err)
	}
	if err := s.store.CreateBudget(ctx, b); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (s *BudgetService) GetBudget(ctx context.Context, ownerID, id string) (core.Budget, error) {
	return s.store.GetBudget(ctx, ownerID, id)
}

func (s *BudgetService) ListBudgets(ctx context.Context, ownerID string, activeOnly bool) ([]core.Budget, error) {
	return s.store.ListBudgets(ctx, ownerID, activeOnly)
}

func (s *BudgetService) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.Category = core.NormalizeCategory(b.Category)
	if err := b.Validate(); err != nil {
		return core.Budget{}, fmt.Errorf("validate budget: %w", err)
	}
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

// DeactivateBudget retires a budget; history stays queryable.
func (s *BudgetService) DeactivateBudget(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteBudget(ctx, ownerID, id)
}

// Snapshot recomputes the utilization snapshot for one budget.
func (s *BudgetService) Snapshot(ctx context.Context, ownerID, id string) (core.BudgetSnapshot, error) {
	b, err := s.store.GetBudget(ctx, ownerID, id)
	if err != nil {
		return core.BudgetSnapshot{}, err
	}
	txs, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{
		Category: b.Category,
		Kind:     core.Expense,
		From:     b.WindowStart,
		To:       b.WindowEnd,
	})
	if err != nil {
		return core.BudgetSnapshot{}, fmt.Errorf("load transactions: %w", err)
	}
	return insights.EvaluateBudget(b, insights.SpentInWindow(b, txs)), nil
}

// Snapshots recomputes utilization for every active budget.
func (s *BudgetService) Snapshots(ctx context.Context, ownerID string) ([]core.BudgetSnapshot, error) {
	budgets, err := s.store.ListBudgets(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{Kind: core.Expense})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	snapshots := make([]core.BudgetSnapshot, 0, len(budgets))
	for _, b := range budgets {
		snapshots = append(snapshots, insights.EvaluateBudget(b, insights.SpentInWindow(b, txs)))
	}
	return snapshots, nil
}

// periodWindow derives a calendar-aligned window for a period: the ISO week,
// the calendar month, or the calendar year containing asOf.
func periodWindow(p core.Period, asOf time.Time) (core.Date, core.Date) {
	y, m, d := asOf.Date()
	switch p {
	case core.Weekly:
		weekday := int(asOf.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday closes the week
		}
		start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(weekday - 1))
		return core.Date{Time: start}, core.Date{Time: start.AddDate(0, 0, 6)}
	case core.Yearly:
		return core.NewDate(y, 1, 1), core.NewDate(y, 12, 31)
	default:
		start := core.NewDate(y, int(m), 1)
		return start, core.Date{Time: start.AddDate(0, 1, -1)}
	}
}
