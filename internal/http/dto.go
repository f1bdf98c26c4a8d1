package http

import (
	"fintrack/internal/core"
)

// Wire representations. Amounts cross the API as decimal currency units; the
// core keeps cents.

type transactionJSON struct {
	ID         string  `json:"id"`
	OwnerID    string  `json:"ownerId"`
	Kind       string  `json:"kind"`
	Amount     float64 `json:"amount"`
	Category   string  `json:"category"`
	OccurredOn string  `json:"occurredOn"`
	Note       string  `json:"note,omitempty"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:         tx.ID,
		OwnerID:    tx.OwnerID,
		Kind:       string(tx.Kind),
		Amount:     tx.Amount.Units(),
		Category:   tx.Category,
		OccurredOn: tx.OccurredOn.Format("2006-01-02"),
		Note:       tx.Note,
	}
}

func toTransactionList(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, len(txs))
	for i, tx := range txs {
		out[i] = toTransactionJSON(tx)
	}
	return out
}

type budgetJSON struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"ownerId"`
	Category    string  `json:"category"`
	Limit       float64 `json:"limit"`
	Period      string  `json:"period"`
	WindowStart string  `json:"windowStart"`
	WindowEnd   string  `json:"windowEnd"`
	Active      bool    `json:"active"`
}

func toBudgetJSON(b core.Budget) budgetJSON {
	return budgetJSON{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Category:    b.Category,
		Limit:       b.Limit.Units(),
		Period:      string(b.Period),
		WindowStart: b.WindowStart.Format("2006-01-02"),
		WindowEnd:   b.WindowEnd.Format("2006-01-02"),
		Active:      b.Active,
	}
}

func toBudgetList(budgets []core.Budget) []budgetJSON {
	out := make([]budgetJSON, len(budgets))
	for i, b := range budgets {
		out[i] = toBudgetJSON(b)
	}
	return out
}

type goalJSON struct {
	ID         string  `json:"id"`
	OwnerID    string  `json:"ownerId"`
	Title      string  `json:"title"`
	Target     float64 `json:"target"`
	Current    float64 `json:"current"`
	TargetDate string  `json:"targetDate,omitempty"`
	Category   string  `json:"category,omitempty"`
	Priority   string  `json:"priority"`
	Completed  bool    `json:"completed"`
}

func toGoalJSON(g core.Goal) goalJSON {
	out := goalJSON{
		ID:        g.ID,
		OwnerID:   g.OwnerID,
		Title:     g.Title,
		Target:    g.Target.Units(),
		Current:   g.Current.Units(),
		Category:  g.Category,
		Priority:  string(g.Priority),
		Completed: g.Completed,
	}
	if !g.TargetDate.IsEmpty() {
		out.TargetDate = g.TargetDate.Format("2006-01-02")
	}
	return out
}

func toGoalList(goals []core.Goal) []goalJSON {
	out := make([]goalJSON, len(goals))
	for i, g := range goals {
		out[i] = toGoalJSON(g)
	}
	return out
}

type alertJSON struct {
	ID        string `json:"id"`
	BudgetID  string `json:"budgetId"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

func toAlertList(alerts []core.Alert) []alertJSON {
	out := make([]alertJSON, len(alerts))
	for i, a := range alerts {
		out[i] = alertJSON{
			ID:        a.ID,
			BudgetID:  a.BudgetID,
			Level:     a.Level,
			Message:   a.Message,
			CreatedAt: a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return out
}
