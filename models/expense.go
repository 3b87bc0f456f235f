package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is money taken out of the cash drawer for shop costs (supplies,
// utilities, courier runs). Expenses reduce the expected drawer count; closing
// a session adopts any still-unlinked expenses the same way it adopts
// payments.
type Expense struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	Description string          `json:"description" gorm:"not null"`
	Category    string          `json:"category" gorm:"size:40"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Date        time.Time       `json:"date" gorm:"not null"`
	SessionID   *string         `json:"session_id" gorm:"index"`
	CreatedBy   string          `json:"created_by"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	return
}

type ExpenseView struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	SessionID   string          `json:"sessionId,omitempty"`
	CreatedBy   string          `json:"createdBy,omitempty"`
}

func (e Expense) View() ExpenseView {
	v := ExpenseView{
		ID:          e.ID,
		Description: e.Description,
		Category:    e.Category,
		Amount:      e.Amount,
		Date:        e.Date.UTC().Format(time.RFC3339),
		CreatedBy:   e.CreatedBy,
	}
	if e.SessionID != nil {
		v.SessionID = *e.SessionID
	}
	return v
}

func ExpenseViews(expenses []Expense) []ExpenseView {
	views := make([]ExpenseView, 0, len(expenses))
	for _, e := range expenses {
		views = append(views, e.View())
	}
	return views
}
