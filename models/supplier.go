package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Supplier is a parts supplier. OutstandingBalance is the credit the shop
// still owes the supplier; payments reduce it.
type Supplier struct {
	ID                     string          `json:"id" gorm:"primaryKey"`
	Name                   string          `json:"name" gorm:"not null"`
	ContactName            string          `json:"contact_name"`
	Email                  string          `json:"email"`
	Phone                  string          `json:"phone"`
	Address                string          `json:"address"`
	Notes                  string          `json:"notes"`
	PreferredPaymentMethod string          `json:"preferred_payment_method" gorm:"size:20"`
	OutstandingBalance     decimal.Decimal `json:"outstanding_balance" gorm:"type:numeric(12,2)"`
	Active                 bool            `json:"active" gorm:"default:true"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`

	History []HistoryEvent `json:"history,omitempty" gorm:"-"`
}

func (supplier *Supplier) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if supplier.ID == "" {
		supplier.ID = uuid.NewString()
	}
	return
}

type SupplierView struct {
	ID                     string             `json:"id"`
	Name                   string             `json:"name"`
	ContactName            string             `json:"contactName,omitempty"`
	Email                  string             `json:"email,omitempty"`
	Phone                  string             `json:"phone,omitempty"`
	Address                string             `json:"address,omitempty"`
	Notes                  string             `json:"notes,omitempty"`
	PreferredPaymentMethod string             `json:"preferredPaymentMethod,omitempty"`
	OutstandingBalance     decimal.Decimal    `json:"outstandingBalance"`
	Active                 bool               `json:"active"`
	CreatedAt              string             `json:"createdAt"`
	UpdatedAt              string             `json:"updatedAt"`
	History                []HistoryEventView `json:"history"`
}

func (supplier Supplier) View() SupplierView {
	return SupplierView{
		ID:                     supplier.ID,
		Name:                   supplier.Name,
		ContactName:            supplier.ContactName,
		Email:                  supplier.Email,
		Phone:                  supplier.Phone,
		Address:                supplier.Address,
		Notes:                  supplier.Notes,
		PreferredPaymentMethod: supplier.PreferredPaymentMethod,
		OutstandingBalance:     supplier.OutstandingBalance,
		Active:                 supplier.Active,
		CreatedAt:              supplier.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:              supplier.UpdatedAt.UTC().Format(time.RFC3339),
		History:                HistoryViews(supplier.History),
	}
}

func (v SupplierView) Record() Supplier {
	createdAt, _ := time.Parse(time.RFC3339, v.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, v.UpdatedAt)
	supplier := Supplier{
		ID:                     v.ID,
		Name:                   v.Name,
		ContactName:            v.ContactName,
		Email:                  v.Email,
		Phone:                  v.Phone,
		Address:                v.Address,
		Notes:                  v.Notes,
		PreferredPaymentMethod: v.PreferredPaymentMethod,
		OutstandingBalance:     v.OutstandingBalance,
		Active:                 v.Active,
		CreatedAt:              createdAt,
		UpdatedAt:              updatedAt,
	}
	for _, h := range v.History {
		date, _ := time.Parse(time.RFC3339, h.Date)
		supplier.History = append(supplier.History, HistoryEvent{
			ID:         h.ID,
			EntityKind: KindSupplier,
			EntityID:   h.EntityID,
			Date:       date,
			Type:       h.Type,
			Notes:      h.Notes,
			Amount:     h.Amount,
			RelatedID:  h.RelatedID,
			RecordedBy: h.RecordedBy,
		})
	}
	return supplier
}

func SupplierViews(suppliers []Supplier) []SupplierView {
	views := make([]SupplierView, 0, len(suppliers))
	for _, s := range suppliers {
		views = append(views, s.View())
	}
	return views
}
