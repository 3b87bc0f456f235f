package controllers

import (
	"encoding/json"
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

type OrderLineDTO struct {
	ItemID   string `json:"itemId" validate:"required,uuid4"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

type OrderCreateDTO struct {
	Items []OrderLineDTO `json:"items" validate:"required,min=1,dive"`
	Notes string         `json:"notes" validate:"omitempty"`
}

// POST /api/supplier/:id/orders
//
// Costs come from the items' buying prices at order time and are frozen into
// the JSONB snapshot. The order row and the stock receipts commit in one
// transaction; the supplier's balance is then raised through the ledger,
// which pairs it with its "Purchase Order Created" event.
func CreateSupplierOrder(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing supplier id in path")
	}

	var in OrderCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	if _, err := suppliers.Get(c.Context(), id); err != nil {
		return err
	}

	userID, _ := c.Locals("userID").(string)
	var order models.PurchaseOrder
	err := database.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		lines := make([]models.OrderItem, 0, len(in.Items))
		total := decimal.Zero
		for _, l := range in.Items {
			var item models.InventoryItem
			if err := tx.First(&item, "id = ?", l.ItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ledger.ErrNotFound
				}
				return err
			}
			lineTotal := item.BuyingPrice.Mul(decimal.NewFromInt(l.Quantity))
			lines = append(lines, models.OrderItem{
				ItemID:    item.ID,
				ItemName:  item.ItemName,
				Quantity:  l.Quantity,
				UnitCost:  item.BuyingPrice,
				LineTotal: lineTotal,
			})
			total = total.Add(lineTotal)
		}

		snapshot, err := json.Marshal(lines)
		if err != nil {
			return err
		}
		order = models.PurchaseOrder{
			SupplierID:  id,
			Items:       snapshot,
			TotalAmount: total,
			Notes:       in.Notes,
			CreatedBy:   userID,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Receive the ordered quantities into stock.
		for _, l := range lines {
			res := tx.Model(&models.InventoryItem{}).
				Where("id = ?", l.ItemID).
				UpdateColumns(map[string]interface{}{
					"quantity_in_stock": gorm.Expr("quantity_in_stock + ?", l.Quantity),
					"updated_at":        time.Now().UTC(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ledger.ErrNotFound
			}
			event := models.HistoryEvent{
				EntityKind: models.KindItem,
				EntityID:   l.ItemID,
				Type:       models.EventPurchaseOrder,
				Notes:      "Received " + l.ItemName,
				Amount:     decimal.NewFromInt(l.Quantity),
				RelatedID:  order.ID,
				RecordedBy: userID,
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := suppliers.RecordOrder(c.Context(), id, order.TotalAmount, order.ID, userID); err != nil {
		return err
	}
	if err := stock.Fetch(c.Context()); err != nil {
		return err
	}

	supplier, err := suppliers.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":    order.View(),
		"supplier": supplier.View(),
	})
}

// GET /api/supplier/:id/orders
func GetSupplierOrders(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing supplier id in path")
	}
	limit := utils.ParseIntDefault(c.Query("limit"), 100)
	var orders []models.PurchaseOrder
	if err := database.DB.WithContext(c.Context()).
		Where("supplier_id = ?", id).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return err
	}
	return c.JSON(models.PurchaseOrderViews(orders))
}
