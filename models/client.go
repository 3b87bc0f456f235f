package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client is a repair-shop customer carrying an outstanding balance (debt owed
// to the shop) plus an append-only history (see HistoryEvent).
type Client struct {
	ID                 string          `json:"id" gorm:"primaryKey"`
	Name               string          `json:"name" gorm:"not null"`
	PhoneNumber        string          `json:"phone_number"`
	Address            string          `json:"address"`
	Notes              string          `json:"notes"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance" gorm:"type:numeric(12,2)"`
	Active             bool            `json:"active" gorm:"default:true"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	History []HistoryEvent `json:"history,omitempty" gorm:"-"`
}

func (client *Client) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	return
}

// ClientView is the camelCase API shape of a Client.
type ClientView struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	PhoneNumber        string             `json:"phoneNumber,omitempty"`
	Address            string             `json:"address,omitempty"`
	Notes              string             `json:"notes,omitempty"`
	OutstandingBalance decimal.Decimal    `json:"outstandingBalance"`
	Active             bool               `json:"active"`
	CreatedAt          string             `json:"createdAt"`
	UpdatedAt          string             `json:"updatedAt"`
	History            []HistoryEventView `json:"history"`
}

// View maps the storage record to the API shape. Missing optionals default:
// zero balance stays zero, nil history becomes an empty slice.
func (client Client) View() ClientView {
	return ClientView{
		ID:                 client.ID,
		Name:               client.Name,
		PhoneNumber:        client.PhoneNumber,
		Address:            client.Address,
		Notes:              client.Notes,
		OutstandingBalance: client.OutstandingBalance,
		Active:             client.Active,
		CreatedAt:          client.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          client.UpdatedAt.UTC().Format(time.RFC3339),
		History:            HistoryViews(client.History),
	}
}

// Record maps the API shape back to a storage record. Unparseable timestamps
// fall back to their zero value; mapping never fails.
func (v ClientView) Record() Client {
	createdAt, _ := time.Parse(time.RFC3339, v.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, v.UpdatedAt)
	client := Client{
		ID:                 v.ID,
		Name:               v.Name,
		PhoneNumber:        v.PhoneNumber,
		Address:            v.Address,
		Notes:              v.Notes,
		OutstandingBalance: v.OutstandingBalance,
		Active:             v.Active,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
	for _, h := range v.History {
		date, _ := time.Parse(time.RFC3339, h.Date)
		client.History = append(client.History, HistoryEvent{
			ID:         h.ID,
			EntityKind: KindClient,
			EntityID:   h.EntityID,
			Date:       date,
			Type:       h.Type,
			Notes:      h.Notes,
			Amount:     h.Amount,
			RelatedID:  h.RelatedID,
			RecordedBy: h.RecordedBy,
		})
	}
	return client
}

func ClientViews(clients []Client) []ClientView {
	views := make([]ClientView, 0, len(clients))
	for _, c := range clients {
		views = append(views, c.View())
	}
	return views
}
