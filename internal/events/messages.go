package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Expense event actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ExpenseEvent is published whenever a spending record changes. It carries
// enough to notify without another store round trip.
type ExpenseEvent struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	ExpenseID   string    `json:"expenseId"`
	OwnerID     string    `json:"ownerId"`
	AmountUnits int64     `json:"amountUnits"`
	Category    string    `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseEvent creates an event with a fresh ID and timestamp.
func NewExpenseEvent(action, expenseID, ownerID string, amountUnits int64, category string) *ExpenseEvent {
	return &ExpenseEvent{
		ID:          uuid.NewString(),
		Action:      action,
		ExpenseID:   expenseID,
		OwnerID:     ownerID,
		AmountUnits: amountUnits,
		Category:    category,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON creates an event from JSON bytes
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var e ExpenseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
