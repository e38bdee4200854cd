// internal/models/entry.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Entry types
const (
	EntryTypeIncome  = "income"
	EntryTypeExpense = "expense"
)

// Entry is a financial transaction record owned by the entry-management
// subsystem. This core only reads it: the due date and the optional per-entry
// lead time feed the fire-time computation, the rest feeds the email body.
type Entry struct {
	ID                      uuid.UUID `json:"id"`
	UserID                  uuid.UUID `json:"userId"`
	Description             string    `json:"description"`
	Amount                  float64   `json:"amount"`
	Type                    string    `json:"type"` // "income" or "expense"
	Date                    time.Time `json:"date"`
	NotificationTimeMinutes *int      `json:"notificationTimeMinutes,omitempty"`
}
