package controllers

import (
	"strings"

	"repairshop-backend/middlewares"
	"repairshop-backend/models"
	"repairshop-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ItemCreateDTO struct {
	ItemName          string          `json:"itemName" validate:"required,min=1"`
	PhoneBrand        string          `json:"phoneBrand" validate:"omitempty"`
	ItemType          string          `json:"itemType" validate:"omitempty"`
	BuyingPrice       decimal.Decimal `json:"buyingPrice"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	QuantityInStock   int64           `json:"quantityInStock" validate:"gte=0"`
	LowStockThreshold int64           `json:"lowStockThreshold" validate:"gte=0"`
}

type ItemUpdateDTO struct {
	ItemName          *string          `json:"itemName" validate:"omitempty,min=1"`
	PhoneBrand        *string          `json:"phoneBrand" validate:"omitempty"`
	ItemType          *string          `json:"itemType" validate:"omitempty"`
	BuyingPrice       *decimal.Decimal `json:"buyingPrice" validate:"omitempty"`
	SellingPrice      *decimal.Decimal `json:"sellingPrice" validate:"omitempty"`
	LowStockThreshold *int64           `json:"lowStockThreshold" validate:"omitempty,gte=0"`
}

type QuantityAdjustmentDTO struct {
	Quantity  int64  `json:"quantity" validate:"required"`
	Reason    string `json:"reason" validate:"omitempty"`
	Type      string `json:"type" validate:"omitempty"`
	RelatedID string `json:"relatedId" validate:"omitempty"`
}

// POST /api/item
func CreateItem(c *fiber.Ctx) error {
	var in ItemCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	item := models.InventoryItem{
		ItemName:          in.ItemName,
		PhoneBrand:        in.PhoneBrand,
		ItemType:          in.ItemType,
		BuyingPrice:       in.BuyingPrice,
		SellingPrice:      in.SellingPrice,
		QuantityInStock:   in.QuantityInStock,
		LowStockThreshold: in.LowStockThreshold,
	}
	created, err := stock.Create(c.Context(), item)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created.View())
}

// GET /api/items
func GetItems(c *fiber.Ctx) error {
	if err := stock.Initialize(c.Context()); err != nil {
		return err
	}
	return c.JSON(models.InventoryItemViews(stock.All()))
}

// GET /api/items/low-stock
func GetLowStockItems(c *fiber.Ctx) error {
	items, err := stock.LowStock(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(models.InventoryItemViews(items))
}

// GET /api/item/:id
func GetItem(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing item id in path")
	}
	item, err := stock.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(item.View())
}

// PUT /api/item/:id
func UpdateItem(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing item id in path")
	}

	var in ItemUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	item, err := stock.Get(c.Context(), id)
	if err != nil {
		return err
	}
	if in.ItemName != nil {
		item.ItemName = *in.ItemName
	}
	if in.PhoneBrand != nil {
		item.PhoneBrand = *in.PhoneBrand
	}
	if in.ItemType != nil {
		item.ItemType = *in.ItemType
	}
	if in.BuyingPrice != nil {
		item.BuyingPrice = *in.BuyingPrice
	}
	if in.SellingPrice != nil {
		item.SellingPrice = *in.SellingPrice
	}
	if in.LowStockThreshold != nil {
		item.LowStockThreshold = *in.LowStockThreshold
	}

	if err := stock.Update(c.Context(), item); err != nil {
		return err
	}
	out, err := stock.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(out.View())
}

// DELETE /api/item/:id
func DeleteItem(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing item id in path")
	}
	if err := stock.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "item deleted"})
}

// POST /api/item/:id/adjustments
func AdjustItemQuantity(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing item id in path")
	}

	var in QuantityAdjustmentDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	if err := stock.AdjustQuantity(c.Context(), id, in.Quantity, in.Type, in.Reason, in.RelatedID); err != nil {
		return err
	}
	item, err := stock.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(item.View())
}

// GET /api/item/:id/history
func GetItemHistory(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing item id in path")
	}
	events, err := stock.History(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(models.HistoryViews(events))
}
