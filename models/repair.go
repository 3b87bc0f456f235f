package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repair job statuses.
const (
	RepairPending    = "Pending"
	RepairInProgress = "In Progress"
	RepairCompleted  = "Completed"
	RepairDelivered  = "Delivered"
)

// Derived payment statuses.
const (
	PaymentUnpaid        = "Unpaid"
	PaymentPartiallyPaid = "Partially Paid"
	PaymentPaid          = "Paid"
)

// Repair is a repair job. Unlike clients and suppliers its balance is not
// stored: the remaining amount is derived as TotalCost minus the sum of its
// payments.
type Repair struct {
	ID               string          `json:"id" gorm:"primaryKey"`
	ClientID         *string         `json:"client_id" gorm:"index"`
	ClientName       string          `json:"client_name" gorm:"not null"`
	PhoneBrand       string          `json:"phone_brand" gorm:"size:40"`
	PhoneModel       string          `json:"phone_model"`
	IssueDescription string          `json:"issue_description"`
	Status           string          `json:"status" gorm:"size:20;default:'Pending'"`
	LaborCost        decimal.Decimal `json:"labor_cost" gorm:"type:numeric(12,2)"`
	PartsCost        decimal.Decimal `json:"parts_cost" gorm:"type:numeric(12,2)"`
	TotalCost        decimal.Decimal `json:"total_cost" gorm:"type:numeric(12,2)"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Payments []Payment `json:"payments,omitempty" gorm:"-"`
}

func (repair *Repair) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if repair.ID == "" {
		repair.ID = uuid.NewString()
	}
	return
}

type RepairView struct {
	ID               string          `json:"id"`
	ClientID         string          `json:"clientId,omitempty"`
	ClientName       string          `json:"clientName"`
	PhoneBrand       string          `json:"phoneBrand,omitempty"`
	PhoneModel       string          `json:"phoneModel,omitempty"`
	IssueDescription string          `json:"issueDescription,omitempty"`
	Status           string          `json:"status"`
	LaborCost        decimal.Decimal `json:"laborCost"`
	PartsCost        decimal.Decimal `json:"partsCost"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	PaymentStatus    string          `json:"paymentStatus"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt"`
	Payments         []PaymentView   `json:"payments"`
}

// View maps the record plus its loaded payments to the API shape, including
// the derived payment figures.
func (repair Repair) View() RepairView {
	totalPaid := decimal.Zero
	for _, p := range repair.Payments {
		totalPaid = totalPaid.Add(p.Amount)
	}
	remaining := repair.TotalCost.Sub(totalPaid)

	status := PaymentUnpaid
	switch {
	case totalPaid.GreaterThanOrEqual(repair.TotalCost) && repair.TotalCost.IsPositive():
		status = PaymentPaid
	case totalPaid.IsPositive():
		status = PaymentPartiallyPaid
	}

	v := RepairView{
		ID:               repair.ID,
		ClientName:       repair.ClientName,
		PhoneBrand:       repair.PhoneBrand,
		PhoneModel:       repair.PhoneModel,
		IssueDescription: repair.IssueDescription,
		Status:           repair.Status,
		LaborCost:        repair.LaborCost,
		PartsCost:        repair.PartsCost,
		TotalCost:        repair.TotalCost,
		TotalPaid:        totalPaid,
		RemainingBalance: remaining,
		PaymentStatus:    status,
		CreatedAt:        repair.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        repair.UpdatedAt.UTC().Format(time.RFC3339),
		Payments:         PaymentViews(repair.Payments),
	}
	if repair.ClientID != nil {
		v.ClientID = *repair.ClientID
	}
	return v
}

func RepairViews(repairs []Repair) []RepairView {
	views := make([]RepairView, 0, len(repairs))
	for _, r := range repairs {
		views = append(views, r.View())
	}
	return views
}
