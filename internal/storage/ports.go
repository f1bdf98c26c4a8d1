// Package storage persists the ledger. Two backends implement the same
// ports: SQLite for real deployments and an in-memory map for tests and
// local development.
package storage

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/core"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to a
	// different owner.
	ErrNotFound = errors.New("record not found")

	// ErrBudgetExists is returned when an active budget already covers the
	// same owner, category and period.
	ErrBudgetExists = errors.New("active budget already exists for category and period")
)

// TransactionFilter narrows ListTransactions. Zero fields are ignored.
type TransactionFilter struct {
	Category string
	Kind     core.Kind
	From     core.Date
	To       core.Date
	Limit    int
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) error
	GetTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, ownerID string, filter TransactionFilter) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, ownerID, id string) error
}

type BudgetStore interface {
	CreateBudget(ctx context.Context, b core.Budget) error
	// ListAllActiveBudgets scans active budgets across every owner. The
	// monitor sweep uses it to fan out check messages.
	ListAllActiveBudgets(ctx context.Context) ([]core.Budget, error)
	GetBudget(ctx context.Context, ownerID, id string) (core.Budget, error)
	ListBudgets(ctx context.Context, ownerID string, activeOnly bool) ([]core.Budget, error)
	UpdateBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, ownerID, id string) error
}

type GoalStore interface {
	CreateGoal(ctx context.Context, g core.Goal) error
	GetGoal(ctx context.Context, ownerID, id string) (core.Goal, error)
	ListGoals(ctx context.Context, ownerID string) ([]core.Goal, error)
	UpdateGoal(ctx context.Context, g core.Goal) error
	DeleteGoal(ctx context.Context, ownerID, id string) error
}

type AlertStore interface {
	// InsertAlert stores the alert unless an alert with the same budget and
	// level was already recorded inside the dedup window. It reports whether
	// the alert was actually inserted.
	InsertAlert(ctx context.Context, a core.Alert, dedupWindow time.Duration) (bool, error)
	ListAlerts(ctx context.Context, ownerID string, limit int) ([]core.Alert, error)
}

// Store is the full persistence surface the services depend on.
type Store interface {
	TransactionStore
	BudgetStore
	GoalStore
	AlertStore
}

const dateLayout = "2006-01-02"

func dateToString(d core.Date) string {
	if d.IsEmpty() {
		return ""
	}
	return d.Format(dateLayout)
}

func parseDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: t}, nil
}
