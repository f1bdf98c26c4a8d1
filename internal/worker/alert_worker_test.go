package worker

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func seedBudgetWithSpend(t *testing.T, store *storage.MemoryStore, spentCents int64) core.Budget {
	t.Helper()
	ctx := context.Background()

	b := core.Budget{
		ID:          "b-1",
		OwnerID:     "alice",
		Category:    "groceries",
		Limit:       core.Money{Cents: 40000},
		Period:      core.Monthly,
		WindowStart: core.NewDate(2026, 3, 1),
		WindowEnd:   core.NewDate(2026, 3, 31),
		Active:      true,
	}
	if err := store.CreateBudget(ctx, b); err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	if spentCents > 0 {
		tx := core.Transaction{
			ID:         "tx-1",
			OwnerID:    "alice",
			Kind:       core.Expense,
			Amount:     core.Money{Cents: spentCents},
			Category:   "groceries",
			OccurredOn: core.NewDate(2026, 3, 10),
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}
	return b
}

func TestHandleBudgetCheckLevels(t *testing.T) {
	tests := []struct {
		name       string
		spentCents int64
		wantLevel  string
		wantAlert  bool
	}{
		{"on track", 20000, "", false},
		{"approaching stays quiet", 31000, "", false},
		{"urgent", 37000, "urgent", true},
		{"over", 45000, "over", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemoryStore()
			seedBudgetWithSpend(t, store, tt.spentCents)
			w := NewAlertWorker(store, DefaultDedupWindow)

			msg := amqp.NewBudgetCheckMessage("alice", "b-1")
			if err := w.HandleBudgetCheck(ctx, msg); err != nil {
				t.Fatalf("HandleBudgetCheck: %v", err)
			}

			alerts, err := store.ListAlerts(ctx, "alice", 10)
			if err != nil {
				t.Fatalf("ListAlerts: %v", err)
			}
			if tt.wantAlert {
				if len(alerts) != 1 {
					t.Fatalf("got %d alerts, want 1", len(alerts))
				}
				if alerts[0].Level != tt.wantLevel {
					t.Errorf("level = %q, want %q", alerts[0].Level, tt.wantLevel)
				}
			} else if len(alerts) != 0 {
				t.Errorf("got %d alerts, want none", len(alerts))
			}
		})
	}
}

func TestHandleBudgetCheckDedup(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	seedBudgetWithSpend(t, store, 45000)

	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	w := NewAlertWorker(store, DefaultDedupWindow)
	w.now = func() time.Time { return base }

	msg := amqp.NewBudgetCheckMessage("alice", "b-1")
	for i := 0; i < 3; i++ {
		if err := w.HandleBudgetCheck(ctx, msg); err != nil {
			t.Fatalf("HandleBudgetCheck #%d: %v", i, err)
		}
	}
	alerts, _ := store.ListAlerts(ctx, "alice", 10)
	if len(alerts) != 1 {
		t.Fatalf("repeat checks inside the window produced %d alerts, want 1", len(alerts))
	}

	// Past the window the alert fires again.
	w.now = func() time.Time { return base.Add(25 * time.Hour) }
	if err := w.HandleBudgetCheck(ctx, msg); err != nil {
		t.Fatalf("HandleBudgetCheck after window: %v", err)
	}
	alerts, _ = store.ListAlerts(ctx, "alice", 10)
	if len(alerts) != 2 {
		t.Errorf("got %d alerts after window, want 2", len(alerts))
	}
}

func TestHandleBudgetCheckMissingBudgetDropsMessage(t *testing.T) {
	ctx := context.Background()
	w := NewAlertWorker(storage.NewMemoryStore(), DefaultDedupWindow)

	msg := amqp.NewBudgetCheckMessage("alice", "gone")
	if err := w.HandleBudgetCheck(ctx, msg); err != nil {
		t.Errorf("missing budget should drop the message, got error: %v", err)
	}
}

func TestSweepCoversAllOwners(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	for _, owner := range []string{"alice", "bob"} {
		b := core.Budget{
			ID:          owner + "-budget",
			OwnerID:     owner,
			Category:    "groceries",
			Limit:       core.Money{Cents: 10000},
			Period:      core.Monthly,
			WindowStart: core.NewDate(2026, 3, 1),
			WindowEnd:   core.NewDate(2026, 3, 31),
			Active:      true,
		}
		if err := store.CreateBudget(ctx, b); err != nil {
			t.Fatalf("CreateBudget(%s): %v", owner, err)
		}
		tx := core.Transaction{
			ID:         owner + "-tx",
			OwnerID:    owner,
			Kind:       core.Expense,
			Amount:     core.Money{Cents: 15000},
			Category:   "groceries",
			OccurredOn: core.NewDate(2026, 3, 5),
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction(%s): %v", owner, err)
		}
	}

	w := NewAlertWorker(store, DefaultDedupWindow)
	if err := w.Sweep(ctx); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	for _, owner := range []string{"alice", "bob"} {
		alerts, err := store.ListAlerts(ctx, owner, 10)
		if err != nil {
			t.Fatalf("ListAlerts(%s): %v", owner, err)
		}
		if len(alerts) != 1 {
			t.Errorf("%s alerts = %d, want 1", owner, len(alerts))
		}
	}
}
