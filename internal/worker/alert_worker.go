// Package worker runs the alerting side of the budget monitor: evaluating
// budgets on demand and recording durable alerts with deduplication.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/storage"
)

// DefaultDedupWindow suppresses repeat alerts for the same budget and level.
const DefaultDedupWindow = 24 * time.Hour

// AlertWorker evaluates budgets and persists alerts.
type AlertWorker struct {
	store       storage.Store
	dedupWindow time.Duration
	now         func() time.Time
}

func NewAlertWorker(store storage.Store, dedupWindow time.Duration) *AlertWorker {
	if dedupWindow <= 0 {
		dedupWindow = DefaultDedupWindow
	}
	return &AlertWorker{
		store:       store,
		dedupWindow: dedupWindow,
		now:         time.Now,
	}
}

// HandleBudgetCheck processes a single check message: re-evaluate the budget
// against current spending and record an alert when it is urgent or over.
// A missing or inactive budget drops the message without error; it may have
// been deactivated while the message sat in the queue.
func (w *AlertWorker) HandleBudgetCheck(ctx context.Context, msg *amqp.BudgetCheckMessage) error {
	b, err := w.store.GetBudget(ctx, msg.OwnerID, msg.BudgetID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "Budget gone, dropping check message",
			"owner_id", msg.OwnerID, "budget_id", msg.BudgetID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get budget: %w", err)
	}
	if !b.Active {
		slog.InfoContext(ctx, "Budget inactive, dropping check message", "budget_id", b.ID)
		return nil
	}
	return w.evaluate(ctx, b)
}

// Sweep re-evaluates every active budget across all owners. The monitor runs
// it periodically so alerts fire even when no transaction write triggered a
// check.
func (w *AlertWorker) Sweep(ctx context.Context) error {
	budgets, err := w.store.ListAllActiveBudgets(ctx)
	if err != nil {
		return fmt.Errorf("list active budgets: %w", err)
	}
	for _, b := range budgets {
		if err := w.evaluate(ctx, b); err != nil {
			slog.ErrorContext(ctx, "Budget evaluation failed during sweep",
				"budget_id", b.ID, "error", err)
		}
	}
	return nil
}

func (w *AlertWorker) evaluate(ctx context.Context, b core.Budget) error {
	txs, err := w.store.ListTransactions(ctx, b.OwnerID, storage.TransactionFilter{
		Category: b.Category,
		Kind:     core.Expense,
		From:     b.WindowStart,
		To:       b.WindowEnd,
	})
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	snapshot := insights.EvaluateBudget(b, insights.SpentInWindow(b, txs))
	if snapshot.Status != core.BudgetUrgent && snapshot.Status != core.BudgetOver {
		return nil
	}

	alert := core.Alert{
		ID:       uuid.NewString(),
		OwnerID:  b.OwnerID,
		BudgetID: b.ID,
		Level:    string(snapshot.Status),
		Message: fmt.Sprintf("Budget %s is at %.1f%% (%.2f of %.2f spent)",
			snapshot.Category, snapshot.PercentUsed, snapshot.Spent, snapshot.Allocated),
		CreatedAt: w.now(),
	}

	inserted, err := w.store.InsertAlert(ctx, alert, w.dedupWindow)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	if inserted {
		slog.InfoContext(ctx, "Alert raised",
			"budget_id", b.ID,
			"level", alert.Level,
			"percent_used", snapshot.PercentUsed)
	}
	return nil
}
