package worker

import (
	"context"
	"log/slog"
	"time"

	"fintrack/internal/storage"
)

// CheckPublisher is the queue side the monitor fans out to.
type CheckPublisher interface {
	PublishBudgetCheck(ctx context.Context, ownerID, budgetID string) error
}

// Monitor periodically publishes a check message for every active budget.
// The alert worker on the other side of the queue does the evaluation, so a
// slow evaluation never delays the scan.
type Monitor struct {
	budgets   storage.BudgetStore
	publisher CheckPublisher
	interval  time.Duration
}

func NewMonitor(budgets storage.BudgetStore, publisher CheckPublisher, interval time.Duration) *Monitor {
	return &Monitor{
		budgets:   budgets,
		publisher: publisher,
		interval:  interval,
	}
}

// Run scans on every tick until ctx is cancelled. The first scan happens
// immediately.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Budget monitor started", "interval", m.interval)

	for {
		if err := m.scan(ctx); err != nil {
			slog.ErrorContext(ctx, "Budget scan failed", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Budget monitor stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (m *Monitor) scan(ctx context.Context) error {
	budgets, err := m.budgets.ListAllActiveBudgets(ctx)
	if err != nil {
		return err
	}

	published := 0
	for _, b := range budgets {
		if err := m.publisher.PublishBudgetCheck(ctx, b.OwnerID, b.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish budget check",
				"budget_id", b.ID, "error", err)
			continue
		}
		published++
	}

	slog.InfoContext(ctx, "Budget scan completed",
		"budgets", len(budgets),
		"published", published)
	return nil
}
