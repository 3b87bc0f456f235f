package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop-backend/models"
)

func newTestStockLedger() (*StockLedger, *MemoryStockStore) {
	store := NewMemoryStockStore()
	return NewStockLedger(store, NewNotifier()), store
}

func TestCreateItemRecordsInitialQuantity(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestStockLedger()

	created, err := svc.Create(ctx, models.InventoryItem{
		ItemName:        "iPhone 12 screen",
		QuantityInStock: 7,
	})
	require.NoError(t, err)

	events, err := store.History(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventCreated, events[0].Type)
	assert.True(t, events[0].Amount.Equal(decimal.NewFromInt(7)))
}

func TestNegativeStockRejectedBeforeStoreCall(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestStockLedger()

	created, err := svc.Create(ctx, models.InventoryItem{
		ItemName:        "Samsung battery",
		QuantityInStock: 3,
	})
	require.NoError(t, err)

	err = svc.AdjustQuantity(ctx, created.ID, -5, "", "oversold", "")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing was written: quantity unchanged, no new history event.
	item, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.QuantityInStock)
	events, err := store.History(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestAdjustQuantityAppliesDeltaWithEvent(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestStockLedger()

	created, err := svc.Create(ctx, models.InventoryItem{
		ItemName:        "charging port",
		QuantityInStock: 10,
	})
	require.NoError(t, err)

	require.NoError(t, svc.AdjustQuantity(ctx, created.ID, -4, models.EventPurchased, "sold at counter", "sale-1"))

	item, ok := svc.Cached(created.ID)
	require.True(t, ok)
	assert.Equal(t, int64(6), item.QuantityInStock)

	events, err := store.History(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	var purchase models.HistoryEvent
	for _, e := range events {
		if e.Type == models.EventPurchased {
			purchase = e
		}
	}
	assert.True(t, purchase.Amount.Equal(decimal.NewFromInt(-4)))
	assert.Equal(t, "sale-1", purchase.RelatedID)
}

func TestAdjustQuantityZeroDeltaIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestStockLedger()

	created, err := svc.Create(ctx, models.InventoryItem{ItemName: "flex cable", QuantityInStock: 1})
	require.NoError(t, err)

	require.NoError(t, svc.AdjustQuantity(ctx, created.ID, 0, "", "", ""))
	events, err := store.History(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestUpdatePreservesQuantity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestStockLedger()

	created, err := svc.Create(ctx, models.InventoryItem{
		ItemName:        "back glass",
		QuantityInStock: 5,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Initialize(ctx))

	// A detail edit carrying a stale quantity must not change stock.
	created.ItemName = "back glass (black)"
	created.QuantityInStock = 999
	require.NoError(t, svc.Update(ctx, created))

	item, ok := svc.Cached(created.ID)
	require.True(t, ok)
	assert.Equal(t, "back glass (black)", item.ItemName)
	assert.Equal(t, int64(5), item.QuantityInStock)
}

func TestLowStockFilter(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestStockLedger()

	_, err := svc.Create(ctx, models.InventoryItem{ItemName: "plenty", QuantityInStock: 50, LowStockThreshold: 5})
	require.NoError(t, err)
	low, err := svc.Create(ctx, models.InventoryItem{ItemName: "scarce", QuantityInStock: 2, LowStockThreshold: 5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.InventoryItem{ItemName: "untracked", QuantityInStock: 0, LowStockThreshold: 0})
	require.NoError(t, err)

	items, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}
