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

type SessionStartDTO struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Notes          string          `json:"notes" validate:"omitempty"`
}

type SessionCloseDTO struct {
	CountedAmount    decimal.Decimal `json:"countedAmount"`
	WithdrawalAmount decimal.Decimal `json:"withdrawalAmount"`
	Notes            string          `json:"notes" validate:"omitempty"`
}

// POST /api/session/start
func StartSession(c *fiber.Ctx) error {
	var in SessionStartDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	userID, _ := c.Locals("userID").(string)
	session := models.CashSession{
		StartTime:      time.Now().UTC(),
		OpeningBalance: in.OpeningBalance,
		Status:         models.SessionOpen,
		Notes:          in.Notes,
		CreatedBy:      userID,
	}

	err := database.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.CashSession{}).Where("status = ?", models.SessionOpen).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ledger.ErrSessionOpen
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(session.View())
}

// GET /api/session/current
func GetCurrentSession(c *fiber.Ctx) error {
	var session models.CashSession
	err := database.DB.WithContext(c.Context()).
		Where("status = ?", models.SessionOpen).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledger.ErrNoOpenSession
	}
	if err != nil {
		return err
	}

	// Cash taken during the session, for the drawer count hint.
	var cashTotal decimal.NullDecimal
	if err := database.DB.WithContext(c.Context()).
		Model(&models.Payment{}).
		Where("session_id = ? AND method = ?", session.ID, models.MethodCash).
		Select("SUM(amount)").
		Scan(&cashTotal).Error; err != nil {
		return err
	}
	var expenseTotal decimal.NullDecimal
	if err := database.DB.WithContext(c.Context()).
		Model(&models.Expense{}).
		Where("session_id = ?", session.ID).
		Select("SUM(amount)").
		Scan(&expenseTotal).Error; err != nil {
		return err
	}

	expected := session.OpeningBalance
	if cashTotal.Valid {
		expected = expected.Add(cashTotal.Decimal)
	}
	if expenseTotal.Valid {
		expected = expected.Sub(expenseTotal.Decimal)
	}

	return c.JSON(fiber.Map{
		"session":      session.View(),
		"expectedCash": expected,
	})
}

// POST /api/session/:id/close
func CloseSession(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing session id in path")
	}

	var in SessionCloseDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	var session models.CashSession
	err := database.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledger.ErrNotFound
			}
			return err
		}
		if session.Status != models.SessionOpen {
			return ledger.ErrNoOpenSession
		}

		now := time.Now().UTC()
		closing := in.CountedAmount.Sub(in.WithdrawalAmount)
		session.EndTime = &now
		session.CountedAmount = &in.CountedAmount
		session.WithdrawalAmount = &in.WithdrawalAmount
		session.ClosingBalance = &closing
		session.Status = models.SessionClosed
		if in.Notes != "" {
			session.Notes = in.Notes
		}
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		// Adopt payments and expenses taken during the session that were
		// never tagged (recorded while the open-session lookup raced or
		// failed).
		if err := tx.Model(&models.Payment{}).
			Where("session_id IS NULL AND date >= ? AND date <= ?", session.StartTime, now).
			Update("session_id", session.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Expense{}).
			Where("session_id IS NULL AND date >= ? AND date <= ?", session.StartTime, now).
			Update("session_id", session.ID).Error
	})
	if err != nil {
		return err
	}

	notifier.Publish(ledger.TopicFinancialDataChange)
	return c.JSON(session.View())
}

// openSessionID returns the id of the currently open cash session, or nil so
// the payment stays unlinked and gets adopted at close time.
func openSessionID() *string {
	var session models.CashSession
	err := database.DB.Where("status = ?", models.SessionOpen).First(&session).Error
	if err != nil {
		return nil
	}
	return &session.ID
}
