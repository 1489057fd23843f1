package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseCreatedMessage notifies the worker that a user's expense history
// changed. It carries only identifiers; the worker re-reads the full
// snapshot from storage.
type ExpenseCreatedMessage struct {
	UserID    int64     `json:"user_id"`
	ExpenseID int64     `json:"expense_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseCreatedMessage creates an event for a freshly recorded expense.
func NewExpenseCreatedMessage(userID, expenseID int64) *ExpenseCreatedMessage {
	return &ExpenseCreatedMessage{
		UserID:    userID,
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseCreatedMessageFromJSON creates a message from JSON bytes
func ExpenseCreatedMessageFromJSON(data []byte) (*ExpenseCreatedMessage, error) {
	var msg ExpenseCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
