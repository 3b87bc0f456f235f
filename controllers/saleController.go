package controllers

import (
	"encoding/json"
	"errors"
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

type SaleLineDTO struct {
	ItemID   string `json:"itemId" validate:"required,uuid4"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

type SaleCreateDTO struct {
	ClientID      string          `json:"clientId" validate:"omitempty,uuid4"`
	Items         []SaleLineDTO   `json:"items" validate:"required,min=1,dive"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"paymentMethod" validate:"required"`
}

// POST /api/sale
//
// Prices come from the live inventory records at sale time and are frozen
// into the JSONB snapshot. The stock decrement, its history events, the sale
// row and the payment all commit in one transaction.
func CreateSale(c *fiber.Ctx) error {
	var in SaleCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return ledger.ErrInvalidMethod
	}
	if in.Discount.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "discount cannot be negative")
	}

	userID, _ := c.Locals("userID").(string)
	sessionID := openSessionID()

	var sale models.Sale
	err := database.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		lines := make([]models.SaleItem, 0, len(in.Items))
		subtotal := decimal.Zero
		for _, l := range in.Items {
			var item models.InventoryItem
			if err := tx.First(&item, "id = ?", l.ItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ledger.ErrNotFound
				}
				return err
			}
			if item.QuantityInStock < l.Quantity {
				return ledger.ErrInsufficientStock
			}
			lineTotal := item.SellingPrice.Mul(decimal.NewFromInt(l.Quantity))
			lines = append(lines, models.SaleItem{
				ItemID:    item.ID,
				ItemName:  item.ItemName,
				Quantity:  l.Quantity,
				UnitPrice: item.SellingPrice,
				LineTotal: lineTotal,
			})
			subtotal = subtotal.Add(lineTotal)
		}

		snapshot, err := json.Marshal(lines)
		if err != nil {
			return err
		}
		sale = models.Sale{
			Items:         snapshot,
			Subtotal:      subtotal,
			Discount:      in.Discount,
			Total:         subtotal.Sub(in.Discount),
			PaymentMethod: in.PaymentMethod,
			SessionID:     sessionID,
		}
		if in.ClientID != "" {
			sale.ClientID = &in.ClientID
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		for _, l := range lines {
			res := tx.Model(&models.InventoryItem{}).
				Where("id = ? AND quantity_in_stock >= ?", l.ItemID, l.Quantity).
				UpdateColumns(map[string]interface{}{
					"quantity_in_stock": gorm.Expr("quantity_in_stock - ?", l.Quantity),
					"updated_at":        time.Now().UTC(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ledger.ErrInsufficientStock
			}
			event := models.HistoryEvent{
				EntityKind: models.KindItem,
				EntityID:   l.ItemID,
				Type:       models.EventPurchased,
				Notes:      "Sold " + l.ItemName,
				Amount:     decimal.NewFromInt(-l.Quantity),
				RelatedID:  sale.ID,
				RecordedBy: userID,
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
		}

		payment := models.Payment{
			EntityKind: models.KindSale,
			EntityID:   sale.ID,
			Amount:     sale.Total,
			Method:     in.PaymentMethod,
			Date:       time.Now().UTC(),
			ReceivedBy: userID,
			SessionID:  sessionID,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return err
	}

	notifier.Publish(ledger.TopicFinancialDataChange)
	if err := stock.Fetch(c.Context()); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sale.View())
}

// GET /api/sales
func GetSales(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 100)
	var sales []models.Sale
	if err := database.DB.WithContext(c.Context()).Order("created_at DESC").Limit(limit).Find(&sales).Error; err != nil {
		return err
	}
	return c.JSON(models.SaleViews(sales))
}
