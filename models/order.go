package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderItem is one line of a purchase order as captured at order time, stored
// as a JSONB snapshot like sale lines.
type OrderItem struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PurchaseOrder is a parts order placed with a supplier. Creating one raises
// the supplier's outstanding balance by TotalAmount (the shop now owes the
// supplier) and receives the ordered quantities into stock.
type PurchaseOrder struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	SupplierID  string          `json:"supplier_id" gorm:"not null;index"`
	Items       datatypes.JSON  `json:"items" gorm:"type:jsonb"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2)"`
	Notes       string          `json:"notes"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (order *PurchaseOrder) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	return
}

type PurchaseOrderView struct {
	ID          string          `json:"id"`
	SupplierID  string          `json:"supplierId"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	CreatedAt   string          `json:"createdAt"`
}

// View decodes the stored line snapshot; a corrupt snapshot maps to an empty
// line list rather than an error.
func (order PurchaseOrder) View() PurchaseOrderView {
	items := make([]OrderItem, 0)
	_ = json.Unmarshal(order.Items, &items)
	return PurchaseOrderView{
		ID:          order.ID,
		SupplierID:  order.SupplierID,
		Items:       items,
		TotalAmount: order.TotalAmount,
		Notes:       order.Notes,
		CreatedBy:   order.CreatedBy,
		CreatedAt:   order.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func PurchaseOrderViews(orders []PurchaseOrder) []PurchaseOrderView {
	views := make([]PurchaseOrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, o.View())
	}
	return views
}
