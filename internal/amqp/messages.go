package amqp

import (
	"encoding/json"
	"time"
)

// BudgetCheckMessage asks the worker to re-evaluate one budget. It carries
// only identifiers; the worker fetches current state from the database so a
// delayed delivery never acts on stale numbers.
type BudgetCheckMessage struct {
	OwnerID   string    `json:"ownerId"`
	BudgetID  string    `json:"budgetId"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBudgetCheckMessage creates a check request for one budget.
func NewBudgetCheckMessage(ownerID, budgetID string) *BudgetCheckMessage {
	return &BudgetCheckMessage{
		OwnerID:   ownerID,
		BudgetID:  budgetID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetCheckMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetCheckMessageFromJSON creates a message from JSON bytes
func BudgetCheckMessageFromJSON(data []byte) (*BudgetCheckMessage, error) {
	var msg BudgetCheckMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
