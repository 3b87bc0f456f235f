package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Accepted payment methods.
const (
	MethodCash         = "Cash"
	MethodCreditCard   = "Credit Card"
	MethodBankTransfer = "Bank Transfer"
	MethodCheck        = "Check"
	MethodOther        = "Other"
)

// ValidPaymentMethod reports whether m is one of the enumerated methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodCash, MethodCreditCard, MethodBankTransfer, MethodCheck, MethodOther:
		return true
	}
	return false
}

// Payment is money received from or paid to a ledger entity. Every payment
// produces exactly one history event with amount = -Amount.
type Payment struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	EntityKind string          `json:"entity_kind" gorm:"size:20;not null;index:idx_payments_entity,priority:1"`
	EntityID   string          `json:"entity_id" gorm:"not null;index:idx_payments_entity,priority:2"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Method     string          `json:"method" gorm:"size:20;not null"`
	Date       time.Time       `json:"date" gorm:"not null;index:idx_payments_session,priority:2"`
	Notes      string          `json:"notes"`
	ReceivedBy string          `json:"received_by"`
	SessionID  *string         `json:"session_id" gorm:"index:idx_payments_session,priority:1"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	return
}

type PaymentView struct {
	ID         string          `json:"id"`
	EntityID   string          `json:"entityId"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Date       string          `json:"date"`
	Notes      string          `json:"notes,omitempty"`
	ReceivedBy string          `json:"receivedBy,omitempty"`
	SessionID  string          `json:"sessionId,omitempty"`
}

func (p Payment) View() PaymentView {
	v := PaymentView{
		ID:         p.ID,
		EntityID:   p.EntityID,
		Amount:     p.Amount,
		Method:     p.Method,
		Date:       p.Date.UTC().Format(time.RFC3339),
		Notes:      p.Notes,
		ReceivedBy: p.ReceivedBy,
	}
	if p.SessionID != nil {
		v.SessionID = *p.SessionID
	}
	return v
}

func PaymentViews(payments []Payment) []PaymentView {
	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, p.View())
	}
	return views
}
