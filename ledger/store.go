package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"repairshop-backend/models"
)

// AccountStore is the durable boundary for one balance-carrying entity kind
// (clients, suppliers). Mutating calls that change a balance take the
// matching history event and must apply both in a single transaction, so the
// balance and the history never diverge.
type AccountStore[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, entity *T, event models.HistoryEvent) error
	Update(ctx context.Context, entity *T, event models.HistoryEvent) error
	Delete(ctx context.Context, id string) error
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, event models.HistoryEvent) error
	RecordPayment(ctx context.Context, payment *models.Payment, event models.HistoryEvent) error
	History(ctx context.Context, id string) ([]models.HistoryEvent, error)
}

// StockStore is the durable boundary for inventory items, whose balance is
// an integer quantity.
type StockStore interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	LowStock(ctx context.Context) ([]models.InventoryItem, error)
	Get(ctx context.Context, id string) (models.InventoryItem, error)
	Insert(ctx context.Context, item *models.InventoryItem, event models.HistoryEvent) error
	Update(ctx context.Context, item *models.InventoryItem, event models.HistoryEvent) error
	Delete(ctx context.Context, id string) error
	AdjustQuantity(ctx context.Context, id string, delta int64, event models.HistoryEvent) error
	History(ctx context.Context, id string) ([]models.HistoryEvent, error)
}
