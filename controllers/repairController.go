package controllers

import (
	"errors"
	"strings"
	"time"

	"repairshop-backend/database"
	"repairshop-backend/ledger"
	"repairshop-backend/middlewares"
	"repairshop-backend/models"
	"repairshop-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RepairCreateDTO struct {
	ClientID         string          `json:"clientId" validate:"omitempty,uuid4"`
	ClientName       string          `json:"clientName" validate:"required,min=1"`
	PhoneBrand       string          `json:"phoneBrand" validate:"omitempty"`
	PhoneModel       string          `json:"phoneModel" validate:"omitempty"`
	IssueDescription string          `json:"issueDescription" validate:"omitempty"`
	LaborCost        decimal.Decimal `json:"laborCost"`
	PartsCost        decimal.Decimal `json:"partsCost"`
}

type RepairUpdateDTO struct {
	ClientName       *string          `json:"clientName" validate:"omitempty,min=1"`
	PhoneBrand       *string          `json:"phoneBrand" validate:"omitempty"`
	PhoneModel       *string          `json:"phoneModel" validate:"omitempty"`
	IssueDescription *string          `json:"issueDescription" validate:"omitempty"`
	Status           *string          `json:"status" validate:"omitempty,oneof=Pending 'In Progress' Completed Delivered"`
	LaborCost        *decimal.Decimal `json:"laborCost" validate:"omitempty"`
	PartsCost        *decimal.Decimal `json:"partsCost" validate:"omitempty"`
}

// POST /api/repair
func CreateRepair(c *fiber.Ctx) error {
	var in RepairCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	repair := models.Repair{
		ClientName:       in.ClientName,
		PhoneBrand:       in.PhoneBrand,
		PhoneModel:       in.PhoneModel,
		IssueDescription: in.IssueDescription,
		Status:           models.RepairPending,
		LaborCost:        in.LaborCost,
		PartsCost:        in.PartsCost,
		TotalCost:        in.LaborCost.Add(in.PartsCost),
	}
	if in.ClientID != "" {
		repair.ClientID = &in.ClientID
	}

	err := database.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&repair).Error; err != nil {
			return err
		}
		event := models.HistoryEvent{
			EntityKind: models.KindRepair,
			EntityID:   repair.ID,
			Type:       models.EventCreated,
			Notes:      "Repair job created",
			Amount:     repair.TotalCost,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return err
	}
	notifier.Publish(ledger.TopicFinancialDataChange)
	return c.Status(fiber.StatusCreated).JSON(repair.View())
}

// GET /api/repairs
func GetRepairs(c *fiber.Ctx) error {
	var repairs []models.Repair
	if err := database.DB.WithContext(c.Context()).Order("created_at DESC").Find(&repairs).Error; err != nil {
		return err
	}

	var payments []models.Payment
	if err := database.DB.WithContext(c.Context()).
		Where("entity_kind = ?", models.KindRepair).
		Order("date").
		Find(&payments).Error; err != nil {
		return err
	}
	byRepair := make(map[string][]models.Payment, len(repairs))
	for _, p := range payments {
		byRepair[p.EntityID] = append(byRepair[p.EntityID], p)
	}
	for i := range repairs {
		repairs[i].Payments = byRepair[repairs[i].ID]
	}

	return c.JSON(models.RepairViews(repairs))
}

// GET /api/repair/:id
func GetRepair(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing repair id in path")
	}
	repair, err := loadRepair(c, id)
	if err != nil {
		return err
	}
	return c.JSON(repair.View())
}

// PUT /api/repair/:id
func UpdateRepair(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing repair id in path")
	}

	var in RepairUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	repair, err := loadRepair(c, id)
	if err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&in, map[string]string{
		"clientName":       "client_name",
		"phoneBrand":       "phone_brand",
		"phoneModel":       "phone_model",
		"issueDescription": "issue_description",
		"laborCost":        "labor_cost",
		"partsCost":        "parts_cost",
	})
	if len(updates) == 0 {
		return c.JSON(repair.View())
	}

	// Cost edits re-derive the total
	labor := repair.LaborCost
	parts := repair.PartsCost
	if in.LaborCost != nil {
		labor = *in.LaborCost
	}
	if in.PartsCost != nil {
		parts = *in.PartsCost
	}
	updates["total_cost"] = labor.Add(parts)

	err = database.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Repair{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		event := models.HistoryEvent{
			EntityKind: models.KindRepair,
			EntityID:   id,
			Type:       models.EventUpdated,
			Notes:      "Repair details updated",
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return err
	}

	notifier.Publish(ledger.TopicFinancialDataChange)
	out, err := loadRepair(c, id)
	if err != nil {
		return err
	}
	return c.JSON(out.View())
}

// POST /api/repair/:id/payments
func AddRepairPayment(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing repair id in path")
	}

	var in PaymentDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	if !in.Amount.IsPositive() {
		return ledger.ErrNonPositiveAmount
	}
	if !models.ValidPaymentMethod(in.Method) {
		return ledger.ErrInvalidMethod
	}

	userID, _ := c.Locals("userID").(string)
	payment := models.Payment{
		EntityKind: models.KindRepair,
		EntityID:   id,
		Amount:     in.Amount,
		Method:     in.Method,
		Date:       time.Now().UTC(),
		Notes:      in.Notes,
		ReceivedBy: userID,
		SessionID:  openSessionID(),
	}

	err := database.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Repair{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ledger.ErrNotFound
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		event := models.HistoryEvent{
			EntityKind: models.KindRepair,
			EntityID:   id,
			Type:       models.EventPaymentMade,
			Notes:      "Payment of " + in.Amount.StringFixed(2) + " via " + in.Method,
			Amount:     in.Amount.Neg(),
			RelatedID:  payment.ID,
			RecordedBy: userID,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return err
	}

	notifier.Publish(ledger.TopicFinancialDataChange)
	repair, err := loadRepair(c, id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment": payment.View(),
		"repair":  repair.View(),
	})
}

func loadRepair(c *fiber.Ctx, id string) (models.Repair, error) {
	var repair models.Repair
	err := database.DB.WithContext(c.Context()).First(&repair, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repair, ledger.ErrNotFound
	}
	if err != nil {
		return repair, err
	}
	if err := database.DB.WithContext(c.Context()).
		Where("entity_kind = ? AND entity_id = ?", models.KindRepair, id).
		Order("date").
		Find(&repair.Payments).Error; err != nil {
		return repair, err
	}
	return repair, nil
}
