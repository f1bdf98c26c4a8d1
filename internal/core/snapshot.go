package core

// Derived, read-time-only records. Snapshots are never persisted; handlers
// recompute them from the ledger on every request. The JSON field names below
// are consumed by the dashboard frontend and must not be renamed.

const (
	BudgetOnTrack     BudgetStatus = "on_track"
	BudgetApproaching BudgetStatus = "approaching" // presentation tier, >= 75%
	BudgetUrgent      BudgetStatus = "urgent"
	BudgetOver        BudgetStatus = "over"
)

const (
	GoalCompleted GoalStatus = "completed"
	GoalReady     GoalStatus = "ready" // funded but flag not yet set
	GoalOverdue   GoalStatus = "overdue"
	GoalUrgent    GoalStatus = "urgent"
	GoalOnTrack   GoalStatus = "on_track"
)

type (
	BudgetStatus string
	GoalStatus   string

	BudgetSnapshot struct {
		BudgetID    string       `json:"budgetId"`
		Category    string       `json:"category"`
		Allocated   float64      `json:"allocated"`
		Spent       float64      `json:"spent"`
		Remaining   float64      `json:"remaining"`
		PercentUsed float64      `json:"percentUsed"`
		Status      BudgetStatus `json:"status"`
	}

	GoalSnapshot struct {
		GoalID             string     `json:"goalId"`
		Title              string     `json:"title"`
		ProgressPercentage float64    `json:"progressPercentage"`
		RemainingAmount    float64    `json:"remainingAmount"`
		DaysRemaining      int        `json:"daysRemaining"`
		HasDeadline        bool       `json:"hasDeadline"`
		Status             GoalStatus `json:"status"`
	}

	CompletionEstimate struct {
		RequiredMonthlyContribution float64 `json:"requiredMonthlyContribution"`
		AverageMonthlyContribution  float64 `json:"averageMonthlyContribution"`
		ProbabilityOfSuccess        float64 `json:"probabilityOfSuccess"`
		EstimatedCompletionDate     string  `json:"estimatedCompletionDate,omitempty"` // YYYY-MM-DD
	}
)

// DisplayProgress clamps progress to 100 for presentation. The snapshot
// itself may report more when a goal is overfunded.
func (s GoalSnapshot) DisplayProgress() float64 {
	if s.ProgressPercentage > 100 {
		return 100
	}
	return s.ProgressPercentage
}
