package controllers

import (
	"strings"
	"time"

	"repairshop-backend/ledger"
	"repairshop-backend/middlewares"
	"repairshop-backend/models"
	"repairshop-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ClientCreateDTO struct {
	Name               string          `json:"name" validate:"required,min=1"`
	PhoneNumber        string          `json:"phoneNumber" validate:"omitempty"`
	Address            string          `json:"address" validate:"omitempty"`
	Notes              string          `json:"notes" validate:"omitempty"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
}

type ClientUpdateDTO struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty"`
	Address     *string `json:"address" validate:"omitempty"`
	Notes       *string `json:"notes" validate:"omitempty"`
	Active      *bool   `json:"active" validate:"omitempty"`
}

type PaymentDTO struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" validate:"required"`
	Notes  string          `json:"notes" validate:"omitempty"`
}

type AdjustmentDTO struct {
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason" validate:"omitempty"`
	RelatedID string          `json:"relatedId" validate:"omitempty"`
}

// POST /api/client
func CreateClient(c *fiber.Ctx) error {
	var in ClientCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	client := models.Client{
		Name:               in.Name,
		PhoneNumber:        in.PhoneNumber,
		Address:            in.Address,
		Notes:              in.Notes,
		OutstandingBalance: in.OutstandingBalance,
		Active:             true,
	}
	created, err := clients.Create(c.Context(), client)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created.View())
}

// GET /api/clients
func GetClients(c *fiber.Ctx) error {
	if err := clients.Initialize(c.Context()); err != nil {
		return err
	}
	return c.JSON(models.ClientViews(clients.All()))
}

// GET /api/clients/overdue
func GetOverdueClients(c *fiber.Ctx) error {
	if err := clients.Initialize(c.Context()); err != nil {
		return err
	}
	overdue := ledger.OverdueClients(clients.All(), time.Now().UTC(), overdueAfter)
	return c.JSON(models.ClientViews(overdue))
}

// GET /api/client/:id
func GetClient(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing client id in path")
	}
	client, err := clients.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(client.View())
}

// PUT /api/client/:id
func UpdateClient(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing client id in path")
	}

	var in ClientUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	client, err := clients.Get(c.Context(), id)
	if err != nil {
		return err
	}
	if in.Name != nil {
		client.Name = *in.Name
	}
	if in.PhoneNumber != nil {
		client.PhoneNumber = *in.PhoneNumber
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	if in.Notes != nil {
		client.Notes = *in.Notes
	}
	if in.Active != nil {
		client.Active = *in.Active
	}

	if err := clients.Update(c.Context(), client); err != nil {
		return err
	}
	out, err := clients.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(out.View())
}

// DELETE /api/client/:id
func DeleteClient(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing client id in path")
	}
	if err := clients.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "client deleted"})
}

// POST /api/client/:id/payments
func AddClientPayment(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing client id in path")
	}

	var in PaymentDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	userID, _ := c.Locals("userID").(string)
	payment, err := clients.AddPayment(c.Context(), id, in.Amount, in.Method, in.Notes, userID, openSessionID())
	if err != nil {
		return err
	}

	client, _ := clients.Selected()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment": payment.View(),
		"client":  client.View(),
	})
}

// POST /api/client/:id/adjustments
func AdjustClientBalance(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing client id in path")
	}

	var in AdjustmentDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	if err := clients.AdjustBalance(c.Context(), id, in.Amount, in.Reason, in.RelatedID); err != nil {
		return err
	}
	client, err := clients.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(client.View())
}

// GET /api/client/:id/history
func GetClientHistory(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing client id in path")
	}
	events, err := clients.History(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(models.HistoryViews(events))
}
