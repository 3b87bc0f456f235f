package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is a stocked spare part. QuantityInStock is the item's ledger
// balance and never goes negative; every change appends a history event with
// the signed quantity delta.
type InventoryItem struct {
	ID                string          `json:"id" gorm:"primaryKey"`
	ItemName          string          `json:"item_name" gorm:"not null"`
	PhoneBrand        string          `json:"phone_brand" gorm:"size:40"`
	ItemType          string          `json:"item_type" gorm:"size:40"`
	BuyingPrice       decimal.Decimal `json:"buying_price" gorm:"type:numeric(12,2)"`
	SellingPrice      decimal.Decimal `json:"selling_price" gorm:"type:numeric(12,2)"`
	QuantityInStock   int64           `json:"quantity_in_stock" gorm:"default:0"`
	LowStockThreshold int64           `json:"low_stock_threshold" gorm:"default:0"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	History []HistoryEvent `json:"history,omitempty" gorm:"-"`
}

func (item *InventoryItem) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return
}

type InventoryItemView struct {
	ID                string             `json:"id"`
	ItemName          string             `json:"itemName"`
	PhoneBrand        string             `json:"phoneBrand,omitempty"`
	ItemType          string             `json:"itemType,omitempty"`
	BuyingPrice       decimal.Decimal    `json:"buyingPrice"`
	SellingPrice      decimal.Decimal    `json:"sellingPrice"`
	QuantityInStock   int64              `json:"quantityInStock"`
	LowStockThreshold int64              `json:"lowStockThreshold"`
	CreatedAt         string             `json:"createdAt"`
	UpdatedAt         string             `json:"updatedAt"`
	History           []HistoryEventView `json:"history"`
}

func (item InventoryItem) View() InventoryItemView {
	return InventoryItemView{
		ID:                item.ID,
		ItemName:          item.ItemName,
		PhoneBrand:        item.PhoneBrand,
		ItemType:          item.ItemType,
		BuyingPrice:       item.BuyingPrice,
		SellingPrice:      item.SellingPrice,
		QuantityInStock:   item.QuantityInStock,
		LowStockThreshold: item.LowStockThreshold,
		CreatedAt:         item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         item.UpdatedAt.UTC().Format(time.RFC3339),
		History:           HistoryViews(item.History),
	}
}

func (v InventoryItemView) Record() InventoryItem {
	createdAt, _ := time.Parse(time.RFC3339, v.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, v.UpdatedAt)
	item := InventoryItem{
		ID:                v.ID,
		ItemName:          v.ItemName,
		PhoneBrand:        v.PhoneBrand,
		ItemType:          v.ItemType,
		BuyingPrice:       v.BuyingPrice,
		SellingPrice:      v.SellingPrice,
		QuantityInStock:   v.QuantityInStock,
		LowStockThreshold: v.LowStockThreshold,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}
	for _, h := range v.History {
		date, _ := time.Parse(time.RFC3339, h.Date)
		item.History = append(item.History, HistoryEvent{
			ID:         h.ID,
			EntityKind: KindItem,
			EntityID:   h.EntityID,
			Date:       date,
			Type:       h.Type,
			Notes:      h.Notes,
			Amount:     h.Amount,
			RelatedID:  h.RelatedID,
			RecordedBy: h.RecordedBy,
		})
	}
	return item
}

func InventoryItemViews(items []InventoryItem) []InventoryItemView {
	views := make([]InventoryItemView, 0, len(items))
	for _, it := range items {
		views = append(views, it.View())
	}
	return views
}
