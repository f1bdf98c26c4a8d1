// Package services orchestrates storage, categorization, analytics, and
// messaging behind the HTTP handlers. Services validate and normalize at the
// boundary so the stores and the pure computation packages can trust their
// inputs.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"fintrack/internal/categorize"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// BudgetCheckPublisher pushes budget re-evaluation requests onto the queue.
// Nil publishers are tolerated everywhere; alerting degrades to the periodic
// sweep.
type BudgetCheckPublisher interface {
	PublishBudgetCheck(ctx context.Context, ownerID, budgetID string) error
}

// recentHistoryLimit bounds how much history feeds a categorization hint.
const recentHistoryLimit = 50

// LedgerService owns the transaction lifecycle.
type LedgerService struct {
	store       storage.Store
	categorizer categorize.Categorizer
	publisher   BudgetCheckPublisher
}

func NewLedgerService(store storage.Store, categorizer categorize.Categorizer, publisher BudgetCheckPublisher) *LedgerService {
	return &LedgerService{
		store:       store,
		categorizer: categorizer,
		publisher:   publisher,
	}
}

// CreateTransaction normalizes, fills in a category suggestion when none was
// given, validates, persists, and nudges the alert pipeline for any budget
// watching the category.
func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.Category = core.NormalizeCategory(tx.Category)

	if tx.Category == "" && s.categorizer != nil {
		result, err := s.suggest(ctx, tx.OwnerID, tx.Note, tx.Amount.Cents)
		if err != nil {
			slog.WarnContext(ctx, "Category suggestion failed", "error", err)
		} else {
			tx.Category = result.Category
			slog.InfoContext(ctx, "Category suggested",
				"category", result.Category,
				"confidence", result.Confidence)
		}
	}

	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if tx.Kind == core.Expense {
		s.notifyBudgets(ctx, tx)
	}
	return tx, nil
}

// notifyBudgets publishes a check for every active budget on the transaction
// category. Failures are logged and swallowed; the save already succeeded.
func (s *LedgerService) notifyBudgets(ctx context.Context, tx core.Transaction) {
	if s.publisher == nil {
		return
	}
	budgets, err := s.store.ListBudgets(ctx, tx.OwnerID, true)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list budgets for check publish", "error", err)
		return
	}
	for _, b := range budgets {
		if b.Category != tx.Category {
			continue
		}
		if err := s.publisher.PublishBudgetCheck(ctx, b.OwnerID, b.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish budget check",
				"budget_id", b.ID, "error", err)
		}
	}
}

func (s *LedgerService) GetTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, ownerID, id)
}

func (s *LedgerService) ListTransactions(ctx context.Context, ownerID string, filter storage.TransactionFilter) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, ownerID, filter)
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.Category = core.NormalizeCategory(tx.Category)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}
	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteTransaction(ctx, ownerID, id)
}

// SuggestCategory exposes the categorizer directly for the suggestion
// endpoint.
func (s *LedgerService) SuggestCategory(ctx context.Context, ownerID, description string, amountCents int64) (categorize.Result, error) {
	if s.categorizer == nil {
		return categorize.Result{}, fmt.Errorf("categorizer not configured")
	}
	return s.suggest(ctx, ownerID, description, amountCents)
}

func (s *LedgerService) suggest(ctx context.Context, ownerID, description string, amountCents int64) (categorize.Result, error) {
	recent, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{Limit: recentHistoryLimit})
	if err != nil {
		slog.WarnContext(ctx, "Failed to load recent transactions for categorization", "error", err)
		recent = nil
	}
	return s.categorizer.Categorize(ctx, description, amountCents, recent)
}
