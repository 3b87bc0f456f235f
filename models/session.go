package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cash session statuses.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// CashSession is one cash-drawer shift. At most one session is open at a
// time; payments taken while it is open are tagged with its id. Closing sets
// closing_balance = counted_amount - withdrawal_amount (the carry-forward).
type CashSession struct {
	ID               string           `json:"id" gorm:"primaryKey"`
	StartTime        time.Time        `json:"start_time" gorm:"not null"`
	EndTime          *time.Time       `json:"end_time"`
	OpeningBalance   decimal.Decimal  `json:"opening_balance" gorm:"type:numeric(12,2)"`
	ClosingBalance   *decimal.Decimal `json:"closing_balance" gorm:"type:numeric(12,2)"`
	CountedAmount    *decimal.Decimal `json:"counted_amount" gorm:"type:numeric(12,2)"`
	WithdrawalAmount *decimal.Decimal `json:"withdrawal_amount" gorm:"type:numeric(12,2)"`
	Status           string           `json:"status" gorm:"size:10;not null;default:'open';index"`
	Notes            string           `json:"notes"`
	CreatedBy        string           `json:"created_by"`
}

func (session *CashSession) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.StartTime.IsZero() {
		session.StartTime = time.Now().UTC()
	}
	return
}

type CashSessionView struct {
	ID               string           `json:"id"`
	StartTime        string           `json:"startTime"`
	EndTime          string           `json:"endTime,omitempty"`
	OpeningBalance   decimal.Decimal  `json:"openingBalance"`
	ClosingBalance   *decimal.Decimal `json:"closingBalance,omitempty"`
	CountedAmount    *decimal.Decimal `json:"countedAmount,omitempty"`
	WithdrawalAmount *decimal.Decimal `json:"withdrawalAmount,omitempty"`
	Status           string           `json:"status"`
	Notes            string           `json:"notes,omitempty"`
	CreatedBy        string           `json:"createdBy,omitempty"`
}

func (session CashSession) View() CashSessionView {
	v := CashSessionView{
		ID:               session.ID,
		StartTime:        session.StartTime.UTC().Format(time.RFC3339),
		OpeningBalance:   session.OpeningBalance,
		ClosingBalance:   session.ClosingBalance,
		CountedAmount:    session.CountedAmount,
		WithdrawalAmount: session.WithdrawalAmount,
		Status:           session.Status,
		Notes:            session.Notes,
		CreatedBy:        session.CreatedBy,
	}
	if session.EndTime != nil {
		v.EndTime = session.EndTime.UTC().Format(time.RFC3339)
	}
	return v
}
