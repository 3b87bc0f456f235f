package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"repairshop-backend/models"
)

// gormAccountStore implements AccountStore on top of GORM. One instance per
// entity kind; the kind tags history events and payments so all kinds share
// the history_events and payments tables.
type gormAccountStore[T any] struct {
	db   *gorm.DB
	kind string
}

// NewGormClientStore returns the client-ledger store.
func NewGormClientStore(db *gorm.DB) AccountStore[models.Client] {
	return &gormAccountStore[models.Client]{db: db, kind: models.KindClient}
}

// NewGormSupplierStore returns the supplier-ledger store.
func NewGormSupplierStore(db *gorm.DB) AccountStore[models.Supplier] {
	return &gormAccountStore[models.Supplier]{db: db, kind: models.KindSupplier}
}

func (s *gormAccountStore[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := s.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormAccountStore[T]) Get(ctx context.Context, id string) (T, error) {
	var entity T
	err := s.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity, ErrNotFound
	}
	return entity, err
}

func (s *gormAccountStore[T]) Insert(ctx context.Context, entity *T, event models.HistoryEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return err
		}
		event.EntityKind = s.kind
		return tx.Create(&event).Error
	})
}

func (s *gormAccountStore[T]) Update(ctx context.Context, entity *T, event models.HistoryEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Save(entity)
		if res.Error != nil {
			return res.Error
		}
		event.EntityKind = s.kind
		return tx.Create(&event).Error
	})
}

// Delete removes the entity together with its history and payments; the
// model treats post-delete history as a cascading removal, not an archive.
func (s *gormAccountStore[T]) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(new(T), "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("entity_kind = ? AND entity_id = ?", s.kind, id).
			Delete(&models.HistoryEvent{}).Error; err != nil {
			return err
		}
		return tx.Where("entity_kind = ? AND entity_id = ?", s.kind, id).
			Delete(&models.Payment{}).Error
	})
}

// AdjustBalance applies the signed delta and appends the paired history
// event in one transaction.
func (s *gormAccountStore[T]) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, event models.HistoryEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := adjustColumn(tx, new(T), "outstanding_balance", id, delta); err != nil {
			return err
		}
		event.EntityKind = s.kind
		event.EntityID = id
		event.Amount = delta
		return tx.Create(&event).Error
	})
}

// RecordPayment inserts the payment row, applies delta = -amount to the
// balance and appends the history event, all in one transaction.
func (s *gormAccountStore[T]) RecordPayment(ctx context.Context, payment *models.Payment, event models.HistoryEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment.EntityKind = s.kind
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		if err := adjustColumn(tx, new(T), "outstanding_balance", payment.EntityID, payment.Amount.Neg()); err != nil {
			return err
		}
		event.EntityKind = s.kind
		event.EntityID = payment.EntityID
		event.Amount = payment.Amount.Neg()
		event.RelatedID = payment.ID
		return tx.Create(&event).Error
	})
}

func (s *gormAccountStore[T]) History(ctx context.Context, id string) ([]models.HistoryEvent, error) {
	return historyFor(s.db.WithContext(ctx), s.kind, id)
}

// gormStockStore implements StockStore.
type gormStockStore struct {
	db *gorm.DB
}

func NewGormStockStore(db *gorm.DB) StockStore {
	return &gormStockStore{db: db}
}

func (s *gormStockStore) List(ctx context.Context) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	if err := s.db.WithContext(ctx).Order("item_name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStockStore) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	err := s.db.WithContext(ctx).
		Where("low_stock_threshold > 0 AND quantity_in_stock <= low_stock_threshold").
		Order("quantity_in_stock").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStockStore) Get(ctx context.Context, id string) (models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return item, ErrNotFound
	}
	return item, err
}

func (s *gormStockStore) Insert(ctx context.Context, item *models.InventoryItem, event models.HistoryEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		event.EntityKind = models.KindItem
		return tx.Create(&event).Error
	})
}

func (s *gormStockStore) Update(ctx context.Context, item *models.InventoryItem, event models.HistoryEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		event.EntityKind = models.KindItem
		return tx.Create(&event).Error
	})
}

func (s *gormStockStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.InventoryItem{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("entity_kind = ? AND entity_id = ?", models.KindItem, id).
			Delete(&models.HistoryEvent{}).Error
	})
}

// AdjustQuantity applies the signed quantity delta and appends the paired
// history event in one transaction. The WHERE guard backs up the service's
// pre-call check so concurrent decrements can never drive stock negative.
func (s *gormStockStore) AdjustQuantity(ctx context.Context, id string, delta int64, event models.HistoryEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.InventoryItem{}).
			Where("id = ? AND quantity_in_stock + ? >= 0", id, delta).
			UpdateColumns(map[string]interface{}{
				"quantity_in_stock": gorm.Expr("quantity_in_stock + ?", delta),
				"updated_at":        time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.InventoryItem{}).Where("id = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrNotFound
			}
			return ErrInsufficientStock
		}
		event.EntityKind = models.KindItem
		event.EntityID = id
		event.Amount = decimal.NewFromInt(delta)
		return tx.Create(&event).Error
	})
}

func (s *gormStockStore) History(ctx context.Context, id string) ([]models.HistoryEvent, error) {
	return historyFor(s.db.WithContext(ctx), models.KindItem, id)
}

// adjustColumn applies "column = column + delta" and bumps updated_at,
// returning ErrNotFound when no row matched.
func adjustColumn(tx *gorm.DB, model interface{}, column, id string, delta decimal.Decimal) error {
	res := tx.Model(model).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			column:       gorm.Expr(column+" + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func historyFor(db *gorm.DB, kind, id string) ([]models.HistoryEvent, error) {
	var events []models.HistoryEvent
	err := db.Where("entity_kind = ? AND entity_id = ?", kind, id).
		Order("date DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
