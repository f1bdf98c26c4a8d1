package core

import (
	"errors"
	"testing"
)

func validTransaction() Transaction {
	return Transaction{
		ID:         "t1",
		OwnerID:    "u1",
		Kind:       Expense,
		Amount:     Money{Cents: 1250},
		Category:   "groceries",
		OccurredOn: NewDate(2025, 3, 14),
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid", func(*Transaction) {}, nil},
		{"missing owner", func(tx *Transaction) { tx.OwnerID = " " }, ErrEmptyOwner},
		{"bad kind", func(tx *Transaction) { tx.Kind = "transfer" }, ErrInvalidKind},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"empty category", func(tx *Transaction) { tx.Category = "" }, ErrEmptyCategory},
		{"zero date", func(tx *Transaction) { tx.OccurredOn = Date{} }, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudgetValidate(t *testing.T) {
	b := Budget{
		ID:          "b1",
		OwnerID:     "u1",
		Category:    "groceries",
		Limit:       Money{Cents: 40000},
		Period:      Monthly,
		WindowStart: NewDate(2025, 3, 1),
		WindowEnd:   NewDate(2025, 3, 31),
		Active:      true,
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}

	inverted := b
	inverted.WindowStart, inverted.WindowEnd = inverted.WindowEnd, inverted.WindowStart
	if err := inverted.Validate(); err == nil {
		t.Error("inverted window should not validate")
	}

	badPeriod := b
	badPeriod.Period = "quarterly"
	if !errors.Is(badPeriod.Validate(), ErrInvalidPeriod) {
		t.Error("unknown period should not validate")
	}
}

func TestGoalValidateAndFunded(t *testing.T) {
	g := Goal{
		ID:       "g1",
		OwnerID:  "u1",
		Title:    "Emergency fund",
		Target:   Money{Cents: 500000},
		Current:  Money{Cents: 80000},
		Priority: High,
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("valid goal rejected: %v", err)
	}
	if g.Funded() {
		t.Error("underfunded goal reported as funded")
	}

	g.Current = Money{Cents: 500000}
	if !g.Funded() {
		t.Error("goal at target should be funded")
	}
	g.Current = Money{Cents: 600000}
	if !g.Funded() {
		t.Error("overfunded goal should be funded")
	}

	g.Priority = "critical"
	if !errors.Is(g.Validate(), ErrInvalidPriority) {
		t.Error("unknown priority should not validate")
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("  Groceries "); got != "groceries" {
		t.Errorf("NormalizeCategory = %q, want %q", got, "groceries")
	}
}

func TestGoalSnapshotDisplayProgress(t *testing.T) {
	s := GoalSnapshot{ProgressPercentage: 140}
	if got := s.DisplayProgress(); got != 100 {
		t.Errorf("DisplayProgress() = %v, want 100", got)
	}
	s.ProgressPercentage = 62.5
	if got := s.DisplayProgress(); got != 62.5 {
		t.Errorf("DisplayProgress() = %v, want 62.5", got)
	}
}
