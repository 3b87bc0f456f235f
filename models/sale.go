package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SaleItem is one line of a sale as captured at sale time. Lines are stored
// as a JSONB snapshot on the sale so later price or name edits on the
// inventory item never rewrite past sales.
type SaleItem struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Sale is a counter sale of stocked items. Creating one decrements stock
// through the inventory ledger and records the payment against the open cash
// session when there is one.
type Sale struct {
	ID            string          `json:"id" gorm:"primaryKey"`
	ClientID      *string         `json:"client_id" gorm:"index"`
	Items         datatypes.JSON  `json:"items" gorm:"type:jsonb"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2)"`
	Discount      decimal.Decimal `json:"discount" gorm:"type:numeric(12,2)"`
	Total         decimal.Decimal `json:"total" gorm:"type:numeric(12,2)"`
	PaymentMethod string          `json:"payment_method" gorm:"size:20;not null"`
	SessionID     *string         `json:"session_id" gorm:"index"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (sale *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	return
}

type SaleView struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"clientId,omitempty"`
	Items         []SaleItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	SessionID     string          `json:"sessionId,omitempty"`
	CreatedAt     string          `json:"createdAt"`
}

// View decodes the stored item snapshot; a corrupt snapshot maps to an empty
// line list rather than an error.
func (sale Sale) View() SaleView {
	items := make([]SaleItem, 0)
	_ = json.Unmarshal(sale.Items, &items)
	v := SaleView{
		ID:            sale.ID,
		Items:         items,
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod,
		CreatedAt:     sale.CreatedAt.UTC().Format(time.RFC3339),
	}
	if sale.ClientID != nil {
		v.ClientID = *sale.ClientID
	}
	if sale.SessionID != nil {
		v.SessionID = *sale.SessionID
	}
	return v
}

func SaleViews(sales []Sale) []SaleView {
	views := make([]SaleView, 0, len(sales))
	for _, s := range sales {
		views = append(views, s.View())
	}
	return views
}
