package insights

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

var asOf = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func goalFixture() core.Goal {
	return core.Goal{
		ID:       "g1",
		OwnerID:  "u1",
		Title:    "House deposit",
		Target:   core.Money{Cents: 500000},
		Current:  core.Money{Cents: 80000},
		Priority: core.High,
	}
}

func TestEvaluateGoalUrgentNearDeadline(t *testing.T) {
	// Target 5000, current 800, deadline 30 days out: 16% progress, urgent.
	g := goalFixture()
	g.TargetDate = core.Date{Time: asOf.AddDate(0, 0, 30)}

	snap := EvaluateGoal(g, asOf)
	if snap.ProgressPercentage != 16 {
		t.Errorf("progressPercentage = %v, want 16", snap.ProgressPercentage)
	}
	if snap.RemainingAmount != 4200 {
		t.Errorf("remainingAmount = %v, want 4200", snap.RemainingAmount)
	}
	if snap.DaysRemaining != 30 {
		t.Errorf("daysRemaining = %d, want 30", snap.DaysRemaining)
	}
	if snap.Status != core.GoalUrgent {
		t.Errorf("status = %s, want urgent", snap.Status)
	}
}

func TestEvaluateGoalStatusPriority(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*core.Goal)
		want   core.GoalStatus
	}{
		{"completed flag wins", func(g *core.Goal) {
			g.Completed = true
			g.TargetDate = core.Date{Time: asOf.AddDate(0, 0, -10)}
		}, core.GoalCompleted},
		{"funded but flag unset", func(g *core.Goal) {
			g.Current = core.Money{Cents: 500000}
		}, core.GoalReady},
		{"overfunded still ready", func(g *core.Goal) {
			g.Current = core.Money{Cents: 600000}
		}, core.GoalReady},
		{"past deadline", func(g *core.Goal) {
			g.TargetDate = core.Date{Time: asOf.AddDate(0, 0, -1)}
		}, core.GoalOverdue},
		{"near deadline high progress stays on track", func(g *core.Goal) {
			g.Current = core.Money{Cents: 450000} // 90%
			g.TargetDate = core.Date{Time: asOf.AddDate(0, 0, 10)}
		}, core.GoalOnTrack},
		{"no deadline", func(g *core.Goal) {}, core.GoalOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := goalFixture()
			tt.mutate(&g)
			if got := EvaluateGoal(g, asOf).Status; got != tt.want {
				t.Errorf("status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEvaluateGoalZeroTarget(t *testing.T) {
	g := goalFixture()
	g.Target = core.Money{}
	snap := EvaluateGoal(g, asOf)
	if snap.ProgressPercentage != 0 {
		t.Errorf("zero target progress = %v, want 0", snap.ProgressPercentage)
	}
}

func TestProgressMonotonicity(t *testing.T) {
	g := goalFixture()
	prev := -1.0
	for cents := int64(0); cents <= g.Target.Cents; cents += 50000 {
		g.Current = core.Money{Cents: cents}
		p := EvaluateGoal(g, asOf).ProgressPercentage
		if p < prev {
			t.Fatalf("progress decreased from %v to %v at current=%d", prev, p, cents)
		}
		prev = p
	}
}

func TestEstimateCompletionNoHistory(t *testing.T) {
	g := goalFixture()
	g.TargetDate = core.Date{Time: asOf.AddDate(0, 0, 30)}

	est := EstimateCompletion(g, nil, asOf)
	if est.ProbabilityOfSuccess != 20 {
		t.Errorf("probabilityOfSuccess = %v, want default 20", est.ProbabilityOfSuccess)
	}
	if est.EstimatedCompletionDate != g.TargetDate.Format("2006-01-02") {
		t.Errorf("estimated date = %s, want target date fallback", est.EstimatedCompletionDate)
	}
	if est.RequiredMonthlyContribution <= 0 {
		t.Errorf("requiredMonthlyContribution = %v, want positive", est.RequiredMonthlyContribution)
	}
}

func TestEstimateCompletionWithHistory(t *testing.T) {
	g := goalFixture()
	g.TargetDate = core.Date{Time: asOf.AddDate(0, 6, 0)}

	contributions := []core.Transaction{
		{Kind: core.Income, Amount: core.Money{Cents: 70000}, Category: "savings", Note: "house deposit jan", OccurredOn: core.NewDate(2025, 1, 15)},
		{Kind: core.Income, Amount: core.Money{Cents: 70000}, Category: "savings", Note: "house deposit feb", OccurredOn: core.NewDate(2025, 2, 15)},
	}

	est := EstimateCompletion(g, contributions, asOf)
	if est.AverageMonthlyContribution != 700 {
		t.Errorf("averageMonthlyContribution = %v, want 700", est.AverageMonthlyContribution)
	}
	if est.ProbabilityOfSuccess < 5 || est.ProbabilityOfSuccess > 95 {
		t.Errorf("probabilityOfSuccess = %v, out of [5, 95]", est.ProbabilityOfSuccess)
	}
	// 4200 remaining at 700/month: six months out.
	if want := asOf.AddDate(0, 6, 0).Format("2006-01-02"); est.EstimatedCompletionDate != want {
		t.Errorf("estimated date = %s, want %s", est.EstimatedCompletionDate, want)
	}
}

func TestEstimateCompletionFundedGoal(t *testing.T) {
	g := goalFixture()
	g.Current = g.Target

	est := EstimateCompletion(g, nil, asOf)
	if est.ProbabilityOfSuccess != 95 {
		t.Errorf("funded goal probability = %v, want 95", est.ProbabilityOfSuccess)
	}
	if est.RequiredMonthlyContribution != 0 {
		t.Errorf("funded goal required contribution = %v, want 0", est.RequiredMonthlyContribution)
	}
}

func TestGoalContributions(t *testing.T) {
	g := goalFixture()
	txs := []core.Transaction{
		{Note: "transfer toward House Deposit", Amount: core.Money{Cents: 100}},
		{Note: "groceries", Amount: core.Money{Cents: 200}},
		{Note: "HOUSE DEPOSIT top-up", Amount: core.Money{Cents: 300}},
	}

	got := GoalContributions(g, txs)
	if len(got) != 2 {
		t.Fatalf("matched %d transactions, want 2", len(got))
	}

	if got := GoalContributions(core.Goal{}, txs); got != nil {
		t.Errorf("empty title must match nothing, got %d", len(got))
	}
}
