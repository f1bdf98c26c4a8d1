package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
)

// MemoryStore keeps everything in maps behind a mutex. It backs tests and
// the memory data backend; semantics mirror the SQLite repository.
type MemoryStore struct {
	mu           sync.RWMutex
	transactions map[string]core.Transaction
	deleted      map[string]bool
	budgets      map[string]core.Budget
	goals        map[string]core.Goal
	alerts       []core.Alert
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]core.Transaction),
		deleted:      make(map[string]bool),
		budgets:      make(map[string]core.Budget),
		goals:        make(map[string]core.Goal),
	}
}

func (s *MemoryStore) CreateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID] = tx
	return nil
}

func (s *MemoryStore) GetTransaction(_ context.Context, ownerID, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[id]
	if !ok || s.deleted[id] || tx.OwnerID != ownerID {
		return core.Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, ownerID string, filter TransactionFilter) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var txs []core.Transaction
	for id, tx := range s.transactions {
		if s.deleted[id] || tx.OwnerID != ownerID {
			continue
		}
		if filter.Category != "" && tx.Category != core.NormalizeCategory(filter.Category) {
			continue
		}
		if filter.Kind != "" && tx.Kind != filter.Kind {
			continue
		}
		if !filter.From.IsEmpty() && tx.OccurredOn.Before(filter.From.Time) {
			continue
		}
		if !filter.To.IsEmpty() && tx.OccurredOn.After(filter.To.Time) {
			continue
		}
		txs = append(txs, tx)
	}

	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].OccurredOn.Equal(txs[j].OccurredOn.Time) {
			return txs[i].OccurredOn.After(txs[j].OccurredOn.Time)
		}
		return txs[i].ID < txs[j].ID
	})
	if filter.Limit > 0 && len(txs) > filter.Limit {
		txs = txs[:filter.Limit]
	}
	return txs, nil
}

func (s *MemoryStore) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.transactions[tx.ID]
	if !ok || s.deleted[tx.ID] || existing.OwnerID != tx.OwnerID {
		return ErrNotFound
	}
	s.transactions[tx.ID] = tx
	return nil
}

func (s *MemoryStore) DeleteTransaction(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok || s.deleted[id] || tx.OwnerID != ownerID {
		return ErrNotFound
	}
	s.deleted[id] = true
	return nil
}

func (s *MemoryStore) CreateBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.Active {
		for _, existing := range s.budgets {
			if existing.Active && existing.OwnerID == b.OwnerID &&
				existing.Category == b.Category && existing.Period == b.Period {
				return ErrBudgetExists
			}
		}
	}
	s.budgets[b.ID] = b
	return nil
}

func (s *MemoryStore) GetBudget(_ context.Context, ownerID, id string) (core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[id]
	if !ok || b.OwnerID != ownerID {
		return core.Budget{}, ErrNotFound
	}
	return b, nil
}

func (s *MemoryStore) ListBudgets(_ context.Context, ownerID string, activeOnly bool) ([]core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var budgets []core.Budget
	for _, b := range s.budgets {
		if b.OwnerID != ownerID {
			continue
		}
		if activeOnly && !b.Active {
			continue
		}
		budgets = append(budgets, b)
	}
	sort.Slice(budgets, func(i, j int) bool {
		if budgets[i].Category != budgets[j].Category {
			return budgets[i].Category < budgets[j].Category
		}
		return budgets[i].Period < budgets[j].Period
	})
	return budgets, nil
}

func (s *MemoryStore) ListAllActiveBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var budgets []core.Budget
	for _, b := range s.budgets {
		if b.Active {
			budgets = append(budgets, b)
		}
	}
	sort.Slice(budgets, func(i, j int) bool {
		if budgets[i].OwnerID != budgets[j].OwnerID {
			return budgets[i].OwnerID < budgets[j].OwnerID
		}
		return budgets[i].Category < budgets[j].Category
	})
	return budgets, nil
}

func (s *MemoryStore) UpdateBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.budgets[b.ID]
	if !ok || existing.OwnerID != b.OwnerID {
		return ErrNotFound
	}
	s.budgets[b.ID] = b
	return nil
}

func (s *MemoryStore) DeleteBudget(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok || b.OwnerID != ownerID || !b.Active {
		return ErrNotFound
	}
	b.Active = false
	s.budgets[id] = b
	return nil
}

func (s *MemoryStore) CreateGoal(_ context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
	return nil
}

func (s *MemoryStore) GetGoal(_ context.Context, ownerID, id string) (core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok || g.OwnerID != ownerID {
		return core.Goal{}, ErrNotFound
	}
	return g, nil
}

func (s *MemoryStore) ListGoals(_ context.Context, ownerID string) ([]core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var goals []core.Goal
	for _, g := range s.goals {
		if g.OwnerID == ownerID {
			goals = append(goals, g)
		}
	}
	sort.Slice(goals, func(i, j int) bool {
		if goals[i].Completed != goals[j].Completed {
			return !goals[i].Completed
		}
		return goals[i].Title < goals[j].Title
	})
	return goals, nil
}

func (s *MemoryStore) UpdateGoal(_ context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.goals[g.ID]
	if !ok || existing.OwnerID != g.OwnerID {
		return ErrNotFound
	}
	s.goals[g.ID] = g
	return nil
}

func (s *MemoryStore) DeleteGoal(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *MemoryStore) InsertAlert(_ context.Context, a core.Alert, dedupWindow time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := a.CreatedAt.Add(-dedupWindow)
	for _, existing := range s.alerts {
		if existing.BudgetID == a.BudgetID && existing.Level == a.Level &&
			existing.CreatedAt.After(cutoff) {
			return false, nil
		}
	}
	s.alerts = append(s.alerts, a)
	return true, nil
}

func (s *MemoryStore) ListAlerts(_ context.Context, ownerID string, limit int) ([]core.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	var alerts []core.Alert
	for _, a := range s.alerts {
		if a.OwnerID == ownerID {
			alerts = append(alerts, a)
		}
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	if len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts, nil
}
