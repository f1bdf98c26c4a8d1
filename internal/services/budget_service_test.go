package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func TestBudgetServiceCreateDerivesWindow(t *testing.T) {
	ctx := context.Background()
	svc := NewBudgetService(storage.NewMemoryStore())
	asOf := time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC) // a Wednesday

	tests := []struct {
		name      string
		period    core.Period
		wantStart string
		wantEnd   string
	}{
		{"monthly", core.Monthly, "2026-03-01", "2026-03-31"},
		{"weekly", core.Weekly, "2026-03-16", "2026-03-22"},
		{"yearly", core.Yearly, "2026-01-01", "2026-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := svc.CreateBudget(ctx, core.Budget{
				OwnerID:  "alice",
				Category: "groceries",
				Limit:    core.Money{Cents: 40000},
				Period:   tt.period,
			}, asOf)
			if err != nil {
				t.Fatalf("CreateBudget: %v", err)
			}
			if got := created.WindowStart.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("window start = %s, want %s", got, tt.wantStart)
			}
			if got := created.WindowEnd.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("window end = %s, want %s", got, tt.wantEnd)
			}
			if !created.Active {
				t.Error("new budget should be active")
			}
		})
	}
}

func TestBudgetServiceCreateRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewBudgetService(storage.NewMemoryStore())
	asOf := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)

	b := core.Budget{
		OwnerID:  "alice",
		Category: "groceries",
		Limit:    core.Money{Cents: 40000},
		Period:   core.Monthly,
	}
	if _, err := svc.CreateBudget(ctx, b, asOf); err != nil {
		t.Fatalf("first CreateBudget: %v", err)
	}
	if _, err := svc.CreateBudget(ctx, b, asOf); !errors.Is(err, storage.ErrBudgetExists) {
		t.Errorf("duplicate error = %v, want ErrBudgetExists", err)
	}
}

func TestBudgetServiceSnapshots(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := NewBudgetService(store)
	asOf := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)

	if _, err := svc.CreateBudget(ctx, core.Budget{
		OwnerID:  "alice",
		Category: "groceries",
		Limit:    core.Money{Cents: 40000}, // 400.00
		Period:   core.Monthly,
	}, asOf); err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}

	spend := []int64{20000, 25000} // 450.00 total, 112.5% of the limit
	for i, cents := range spend {
		tx := core.Transaction{
			ID:         string(rune('a' + i)),
			OwnerID:    "alice",
			Kind:       core.Expense,
			Amount:     core.Money{Cents: cents},
			Category:   "groceries",
			OccurredOn: core.NewDate(2026, 3, 10+i),
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	snapshots, err := svc.Snapshots(ctx, "alice")
	if err != nil {
		t.Fatalf("Snapshots: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snapshots))
	}
	snap := snapshots[0]
	if snap.Spent != 450 {
		t.Errorf("spent = %v, want 450", snap.Spent)
	}
	if snap.Remaining != -50 {
		t.Errorf("remaining = %v, want -50", snap.Remaining)
	}
	if snap.PercentUsed != 112.5 {
		t.Errorf("percentUsed = %v, want 112.5", snap.PercentUsed)
	}
	if snap.Status != core.BudgetOver {
		t.Errorf("status = %q, want %q", snap.Status, core.BudgetOver)
	}
}
