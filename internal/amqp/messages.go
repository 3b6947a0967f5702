package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// BillReminderMessage carries one upcoming bill for notification delivery.
// Consumers get everything they need to render the reminder without a
// store round trip.
type BillReminderMessage struct {
	ExpenseID   string    `json:"expenseId"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amountCents"`
	DueDate     time.Time `json:"dueDate"`
	DaysLeft    int       `json:"daysLeft"`
	Urgent      bool      `json:"urgent"`
	Timestamp   time.Time `json:"timestamp"`
}

func (m *BillReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BillReminderMessageFromJSON(data []byte) (*BillReminderMessage, error) {
	var msg BillReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Summary renders the reminder as a single human-readable line.
func (m *BillReminderMessage) Summary() string {
	amount := fmt.Sprintf("%d,%02d", m.AmountCents/100, m.AmountCents%100)
	switch {
	case m.DaysLeft <= 0:
		return fmt.Sprintf("%s (%s) vence hoje", m.Description, amount)
	case m.DaysLeft == 1:
		return fmt.Sprintf("%s (%s) vence amanhã", m.Description, amount)
	default:
		return fmt.Sprintf("%s (%s) vence em %d dias", m.Description, amount, m.DaysLeft)
	}
}
