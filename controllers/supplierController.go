package controllers

import (
	"strings"

	"repairshop-backend/middlewares"
	"repairshop-backend/models"
	"repairshop-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SupplierCreateDTO struct {
	Name                   string          `json:"name" validate:"required,min=1"`
	ContactName            string          `json:"contactName" validate:"omitempty"`
	Email                  string          `json:"email" validate:"omitempty,email"`
	Phone                  string          `json:"phone" validate:"omitempty"`
	Address                string          `json:"address" validate:"omitempty"`
	Notes                  string          `json:"notes" validate:"omitempty"`
	PreferredPaymentMethod string          `json:"preferredPaymentMethod" validate:"omitempty"`
	OutstandingBalance     decimal.Decimal `json:"outstandingBalance"`
}

type SupplierUpdateDTO struct {
	Name                   *string `json:"name" validate:"omitempty,min=1"`
	ContactName            *string `json:"contactName" validate:"omitempty"`
	Email                  *string `json:"email" validate:"omitempty,email"`
	Phone                  *string `json:"phone" validate:"omitempty"`
	Address                *string `json:"address" validate:"omitempty"`
	Notes                  *string `json:"notes" validate:"omitempty"`
	PreferredPaymentMethod *string `json:"preferredPaymentMethod" validate:"omitempty"`
	Active                 *bool   `json:"active" validate:"omitempty"`
}

// POST /api/supplier
func CreateSupplier(c *fiber.Ctx) error {
	var in SupplierCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	supplier := models.Supplier{
		Name:                   in.Name,
		ContactName:            in.ContactName,
		Email:                  in.Email,
		Phone:                  in.Phone,
		Address:                in.Address,
		Notes:                  in.Notes,
		PreferredPaymentMethod: in.PreferredPaymentMethod,
		OutstandingBalance:     in.OutstandingBalance,
		Active:                 true,
	}
	created, err := suppliers.Create(c.Context(), supplier)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created.View())
}

// GET /api/suppliers
func GetSuppliers(c *fiber.Ctx) error {
	if err := suppliers.Initialize(c.Context()); err != nil {
		return err
	}
	return c.JSON(models.SupplierViews(suppliers.All()))
}

// GET /api/supplier/:id
func GetSupplier(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing supplier id in path")
	}
	supplier, err := suppliers.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(supplier.View())
}

// PUT /api/supplier/:id
func UpdateSupplier(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing supplier id in path")
	}

	var in SupplierUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	supplier, err := suppliers.Get(c.Context(), id)
	if err != nil {
		return err
	}
	if in.Name != nil {
		supplier.Name = *in.Name
	}
	if in.ContactName != nil {
		supplier.ContactName = *in.ContactName
	}
	if in.Email != nil {
		supplier.Email = *in.Email
	}
	if in.Phone != nil {
		supplier.Phone = *in.Phone
	}
	if in.Address != nil {
		supplier.Address = *in.Address
	}
	if in.Notes != nil {
		supplier.Notes = *in.Notes
	}
	if in.PreferredPaymentMethod != nil {
		supplier.PreferredPaymentMethod = *in.PreferredPaymentMethod
	}
	if in.Active != nil {
		supplier.Active = *in.Active
	}

	if err := suppliers.Update(c.Context(), supplier); err != nil {
		return err
	}
	out, err := suppliers.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(out.View())
}

// DELETE /api/supplier/:id
func DeleteSupplier(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing supplier id in path")
	}
	if err := suppliers.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "supplier deleted"})
}

// POST /api/supplier/:id/payments
func AddSupplierPayment(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing supplier id in path")
	}

	var in PaymentDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	userID, _ := c.Locals("userID").(string)
	payment, err := suppliers.AddPayment(c.Context(), id, in.Amount, in.Method, in.Notes, userID, openSessionID())
	if err != nil {
		return err
	}

	supplier, _ := suppliers.Selected()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment":  payment.View(),
		"supplier": supplier.View(),
	})
}

// POST /api/supplier/:id/adjustments
func AdjustSupplierBalance(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing supplier id in path")
	}

	var in AdjustmentDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	if err := suppliers.AdjustBalance(c.Context(), id, in.Amount, in.Reason, in.RelatedID); err != nil {
		return err
	}
	supplier, err := suppliers.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(supplier.View())
}

// GET /api/supplier/:id/history
func GetSupplierHistory(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing supplier id in path")
	}
	events, err := suppliers.History(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(models.HistoryViews(events))
}
