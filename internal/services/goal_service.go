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

// GoalProgress pairs the goal snapshot with its completion estimate.
type GoalProgress struct {
	Goal     core.GoalSnapshot       `json:"goal"`
	Estimate core.CompletionEstimate `json:"estimate"`
}

// GoalService owns the goal lifecycle and progress derivations.
type GoalService struct {
	store storage.Store
}

func NewGoalService(store storage.Store) *GoalService {
	return &GoalService{store: store}
}

func (s *GoalService) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.Category = core.NormalizeCategory(g.Category)
	if g.Priority == "" {
		g.Priority = core.Medium
	}
	if g.Funded() {
		g.Completed = true
	}

	if err := g.Validate(); err != nil {
		return core.Goal{}, fmt.Errorf("validate goal: %w", err)
	}
	if err := s.store.CreateGoal(ctx, g); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (s *GoalService) GetGoal(ctx context.Context, ownerID, id string) (core.Goal, error) {
	return s.store.GetGoal(ctx, ownerID, id)
}

func (s *GoalService) ListGoals(ctx context.Context, ownerID string) ([]core.Goal, error) {
	return s.store.ListGoals(ctx, ownerID)
}

// UpdateGoal persists changes. Reaching the target flips Completed on write;
// a manual Completed flag is never cleared automatically.
func (s *GoalService) UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.Category = core.NormalizeCategory(g.Category)
	if g.Funded() {
		g.Completed = true
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, fmt.Errorf("validate goal: %w", err)
	}
	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteGoal(ctx, ownerID, id)
}

// Progress recomputes the snapshot and completion estimate for one goal.
func (s *GoalService) Progress(ctx context.Context, ownerID, id string, asOf time.Time) (GoalProgress, error) {
	g, err := s.store.GetGoal(ctx, ownerID, id)
	if err != nil {
		return GoalProgress{}, err
	}
	txs, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{})
	if err != nil {
		return GoalProgress{}, fmt.Errorf("load transactions: %w", err)
	}
	contributions := insights.GoalContributions(g, txs)
	return GoalProgress{
		Goal:     insights.EvaluateGoal(g, asOf),
		Estimate: insights.EstimateCompletion(g, contributions, asOf),
	}, nil
}

// ProgressAll recomputes progress for every goal the owner has.
func (s *GoalService) ProgressAll(ctx context.Context, ownerID string, asOf time.Time) ([]GoalProgress, error) {
	goals, err := s.store.ListGoals(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	progress := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		contributions := insights.GoalContributions(g, txs)
		progress = append(progress, GoalProgress{
			Goal:     insights.EvaluateGoal(g, asOf),
			Estimate: insights.EstimateCompletion(g, contributions, asOf),
		})
	}
	return progress, nil
}
