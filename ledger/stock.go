package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"repairshop-backend/models"
)

// StockLedger is the inventory counterpart of AccountLedger. The balance is
// the integer quantity in stock and must never go negative; adjustments are
// rejected before any store call when the loaded quantity would not cover
// the delta.
type StockLedger struct {
	store    StockStore
	cache    *Collection[models.InventoryItem]
	notifier *Notifier
	log      *logrus.Entry
}

func NewStockLedger(store StockStore, notifier *Notifier) *StockLedger {
	return &StockLedger{
		store:    store,
		cache:    NewCollection[models.InventoryItem](),
		notifier: notifier,
		log:      logrus.WithField("ledger", models.KindItem),
	}
}

func (l *StockLedger) Initialize(ctx context.Context) error {
	return l.cache.Initialize(func() ([]models.InventoryItem, error) { return l.store.List(ctx) })
}

func (l *StockLedger) Fetch(ctx context.Context) error {
	if err := l.cache.Refresh(func() ([]models.InventoryItem, error) { return l.store.List(ctx) }); err != nil {
		l.log.WithError(err).Error("fetch failed, keeping stale collection")
		return err
	}
	return nil
}

func (l *StockLedger) All() []models.InventoryItem {
	return l.cache.Items()
}

func (l *StockLedger) Err() error {
	return l.cache.Err()
}

func (l *StockLedger) State() State {
	return l.cache.State()
}

func (l *StockLedger) Cached(id string) (models.InventoryItem, bool) {
	return l.cache.Find(func(it models.InventoryItem) bool { return it.ID == id })
}

func (l *StockLedger) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := l.store.LowStock(ctx)
	if err != nil {
		l.cache.SetErr(err)
		return nil, err
	}
	return items, nil
}

// Get loads one item with its merged history, reconciling the stored
// quantity against a replay of the history (report-only, like the account
// ledgers).
func (l *StockLedger) Get(ctx context.Context, id string) (models.InventoryItem, error) {
	item, err := l.store.Get(ctx, id)
	if err != nil {
		l.cache.SetErr(err)
		return item, err
	}
	events, err := l.store.History(ctx, id)
	if err != nil {
		l.cache.SetErr(err)
		return item, err
	}
	item.History = events

	if replayed := ReplayBalance(decimal.Zero, events); !replayed.Equal(decimal.NewFromInt(item.QuantityInStock)) {
		l.log.WithFields(logrus.Fields{
			"entity_id": id,
			"stored":    item.QuantityInStock,
			"replayed":  replayed,
		}).Warn("quantity does not match history replay")
	}

	l.cache.Merge(func(it models.InventoryItem) bool { return it.ID == id }, item)
	return item, nil
}

// Create inserts the item with an opening history event carrying the
// initial quantity.
func (l *StockLedger) Create(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	event := models.HistoryEvent{
		EntityID: item.ID,
		Type:     models.EventCreated,
		Notes:    "Item added to inventory",
		Amount:   decimal.NewFromInt(item.QuantityInStock),
	}
	if err := l.store.Insert(ctx, &item, event); err != nil {
		l.cache.SetErr(err)
		return item, err
	}
	l.notifier.Publish(TopicFinancialDataChange)
	if err := l.Fetch(ctx); err != nil {
		return item, err
	}
	return item, nil
}

// Update saves item details. Quantity changes do NOT go through here; use
// AdjustQuantity so the history stays paired with the balance.
func (l *StockLedger) Update(ctx context.Context, item models.InventoryItem) error {
	if cached, ok := l.Cached(item.ID); ok {
		item.QuantityInStock = cached.QuantityInStock
	}
	event := models.HistoryEvent{
		EntityID: item.ID,
		Type:     models.EventUpdated,
		Notes:    "Item details updated",
	}
	if err := l.store.Update(ctx, &item, event); err != nil {
		l.cache.SetErr(err)
		return err
	}
	return l.Fetch(ctx)
}

func (l *StockLedger) Delete(ctx context.Context, id string) error {
	if err := l.store.Delete(ctx, id); err != nil {
		l.cache.SetErr(err)
		return err
	}
	return l.Fetch(ctx)
}

// AdjustQuantity applies a signed quantity delta with a paired history
// event. The guard runs against the loaded item before the store is called;
// an uncached item is fetched first.
func (l *StockLedger) AdjustQuantity(ctx context.Context, id string, delta int64, eventType, reason, relatedID string) error {
	if delta == 0 {
		return nil
	}
	item, ok := l.Cached(id)
	if !ok {
		var err error
		item, err = l.store.Get(ctx, id)
		if err != nil {
			l.cache.SetErr(err)
			return err
		}
	}
	if item.QuantityInStock+delta < 0 {
		return ErrInsufficientStock
	}

	if eventType == "" {
		eventType = models.EventManualCorrection
	}
	if reason == "" {
		reason = "Manual entry"
	}
	event := models.HistoryEvent{
		Type:      eventType,
		Notes:     reason,
		RelatedID: relatedID,
	}
	if err := l.store.AdjustQuantity(ctx, id, delta, event); err != nil {
		l.cache.SetErr(err)
		return err
	}
	l.notifier.Publish(TopicFinancialDataChange)
	return l.Fetch(ctx)
}

// History loads the ordered event sequence and merges it into the cached
// item.
func (l *StockLedger) History(ctx context.Context, id string) ([]models.HistoryEvent, error) {
	events, err := l.store.History(ctx, id)
	if err != nil {
		l.cache.SetErr(err)
		return nil, err
	}
	if cached, ok := l.Cached(id); ok {
		cached.History = events
		l.cache.Merge(func(it models.InventoryItem) bool { return it.ID == id }, cached)
	}
	return events, nil
}
