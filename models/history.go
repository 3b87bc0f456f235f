package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entity kinds a history event or payment can belong to.
const (
	KindClient   = "client"
	KindSupplier = "supplier"
	KindItem     = "item"
	KindRepair   = "repair"
	KindSale     = "sale"
)

// History event types. The set is shared across entity kinds; not every kind
// uses every type (e.g. "Purchased" is inventory-only).
const (
	EventCreated          = "Created"
	EventUpdated          = "Updated"
	EventPaymentMade      = "Payment Made"
	EventCreditAdjusted   = "Credit Balance Adjusted"
	EventPurchaseOrder    = "Purchase Order Created"
	EventManualCorrection = "Manual Correction"
	EventPurchased        = "Purchased"
	EventOther            = "Other"
)

// HistoryEvent is one immutable record of a balance-changing action.
// Summing Amount over an entity's events, starting from its initial balance,
// yields its current balance; the ledger stores append events in the same
// transaction as the balance update to keep that true.
type HistoryEvent struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	EntityKind string          `json:"entity_kind" gorm:"size:20;not null;index:idx_history_entity,priority:1"`
	EntityID   string          `json:"entity_id" gorm:"not null;index:idx_history_entity,priority:2"`
	Date       time.Time       `json:"date" gorm:"not null"`
	Type       string          `json:"type" gorm:"size:40;not null"`
	Notes      string          `json:"notes"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	RelatedID  string          `json:"related_id"`
	RecordedBy string          `json:"recorded_by"`
}

func (e *HistoryEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	return
}

// HistoryEventView is the camelCase shape served to clients of the API.
type HistoryEventView struct {
	ID         string          `json:"id"`
	EntityID   string          `json:"entityId"`
	Date       string          `json:"date"`
	Type       string          `json:"type"`
	Notes      string          `json:"notes,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	RelatedID  string          `json:"relatedId,omitempty"`
	RecordedBy string          `json:"recordedBy,omitempty"`
}

func (e HistoryEvent) View() HistoryEventView {
	return HistoryEventView{
		ID:         e.ID,
		EntityID:   e.EntityID,
		Date:       e.Date.UTC().Format(time.RFC3339),
		Type:       e.Type,
		Notes:      e.Notes,
		Amount:     e.Amount,
		RelatedID:  e.RelatedID,
		RecordedBy: e.RecordedBy,
	}
}

// HistoryViews maps a slice of events; a nil slice maps to an empty slice so
// API consumers always see an array.
func HistoryViews(events []HistoryEvent) []HistoryEventView {
	views := make([]HistoryEventView, 0, len(events))
	for _, e := range events {
		views = append(views, e.View())
	}
	return views
}
