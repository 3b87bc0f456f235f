package controllers

import (
	"time"

	"repairshop-backend/database"
	"repairshop-backend/ledger"
	"repairshop-backend/middlewares"
	"repairshop-backend/models"
	"repairshop-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ExpenseCreateDTO struct {
	Description string          `json:"description" validate:"required,min=1"`
	Category    string          `json:"category" validate:"omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// POST /api/expense
func CreateExpense(c *fiber.Ctx) error {
	var in ExpenseCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	if !in.Amount.IsPositive() {
		return ledger.ErrNonPositiveAmount
	}

	userID, _ := c.Locals("userID").(string)
	expense := models.Expense{
		Description: in.Description,
		Category:    in.Category,
		Amount:      in.Amount,
		Date:        time.Now().UTC(),
		SessionID:   openSessionID(),
		CreatedBy:   userID,
	}
	if err := database.DB.WithContext(c.Context()).Create(&expense).Error; err != nil {
		return err
	}

	notifier.Publish(ledger.TopicFinancialDataChange)
	return c.Status(fiber.StatusCreated).JSON(expense.View())
}

// GET /api/expenses
func GetExpenses(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 100)
	var expenses []models.Expense
	if err := database.DB.WithContext(c.Context()).Order("date DESC").Limit(limit).Find(&expenses).Error; err != nil {
		return err
	}
	return c.JSON(models.ExpenseViews(expenses))
}
