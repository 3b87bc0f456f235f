package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"repairshop-backend/models"
)

// AccountLedger owns the in-memory collection of one balance-carrying entity
// kind and gates every mutation. All writes go through the store and are
// followed by a refetch; the cache is never patched from a mutation result.
type AccountLedger[T any] struct {
	kind     string
	store    AccountStore[T]
	cache    *Collection[T]
	notifier *Notifier
	log      *logrus.Entry

	idOf        func(T) string
	withID      func(T, string) T
	balanceOf   func(T) decimal.Decimal
	withHistory func(T, []models.HistoryEvent) T

	selMu    sync.RWMutex
	selected *T
}

// NewClientLedger builds the ledger service for clients (balance = debt owed
// to the shop).
func NewClientLedger(store AccountStore[models.Client], notifier *Notifier) *AccountLedger[models.Client] {
	return newAccountLedger(models.KindClient, store, notifier,
		func(c models.Client) string { return c.ID },
		func(c models.Client, id string) models.Client { c.ID = id; return c },
		func(c models.Client) decimal.Decimal { return c.OutstandingBalance },
		func(c models.Client, h []models.HistoryEvent) models.Client { c.History = h; return c },
	)
}

// NewSupplierLedger builds the ledger service for suppliers (balance =
// credit the shop owes).
func NewSupplierLedger(store AccountStore[models.Supplier], notifier *Notifier) *AccountLedger[models.Supplier] {
	return newAccountLedger(models.KindSupplier, store, notifier,
		func(s models.Supplier) string { return s.ID },
		func(s models.Supplier, id string) models.Supplier { s.ID = id; return s },
		func(s models.Supplier) decimal.Decimal { return s.OutstandingBalance },
		func(s models.Supplier, h []models.HistoryEvent) models.Supplier { s.History = h; return s },
	)
}

func newAccountLedger[T any](
	kind string,
	store AccountStore[T],
	notifier *Notifier,
	idOf func(T) string,
	withID func(T, string) T,
	balanceOf func(T) decimal.Decimal,
	withHistory func(T, []models.HistoryEvent) T,
) *AccountLedger[T] {
	return &AccountLedger[T]{
		kind:        kind,
		store:       store,
		cache:       NewCollection[T](),
		notifier:    notifier,
		log:         logrus.WithField("ledger", kind),
		idOf:        idOf,
		withID:      withID,
		balanceOf:   balanceOf,
		withHistory: withHistory,
	}
}

// Initialize loads the collection once; repeat calls after a successful load
// do nothing.
func (l *AccountLedger[T]) Initialize(ctx context.Context) error {
	return l.cache.Initialize(func() ([]T, error) { return l.store.List(ctx) })
}

// Fetch re-queries the full collection. On failure the cached entities stay
// as they were and the error is recorded.
func (l *AccountLedger[T]) Fetch(ctx context.Context) error {
	if err := l.cache.Refresh(func() ([]T, error) { return l.store.List(ctx) }); err != nil {
		l.log.WithError(err).Error("fetch failed, keeping stale collection")
		return err
	}
	return nil
}

// All returns the cached entities.
func (l *AccountLedger[T]) All() []T {
	return l.cache.Items()
}

// Err returns the last operation error recorded on the collection.
func (l *AccountLedger[T]) Err() error {
	return l.cache.Err()
}

// State exposes the collection lifecycle state.
func (l *AccountLedger[T]) State() State {
	return l.cache.State()
}

// Cached returns the cached entity with the given id.
func (l *AccountLedger[T]) Cached(id string) (T, bool) {
	return l.cache.Find(func(t T) bool { return l.idOf(t) == id })
}

// Selected returns the most recently loaded single entity.
func (l *AccountLedger[T]) Selected() (T, bool) {
	l.selMu.RLock()
	defer l.selMu.RUnlock()
	if l.selected == nil {
		var zero T
		return zero, false
	}
	return *l.selected, true
}

// Get loads one entity with its merged history and stores it in both the
// selected slot and the collection. It also replays the history against the
// stored balance and logs a warning when the two diverge; divergent data is
// reported, never rewritten.
func (l *AccountLedger[T]) Get(ctx context.Context, id string) (T, error) {
	entity, err := l.store.Get(ctx, id)
	if err != nil {
		l.cache.SetErr(err)
		return entity, err
	}
	events, err := l.store.History(ctx, id)
	if err != nil {
		l.cache.SetErr(err)
		return entity, err
	}
	entity = l.withHistory(entity, events)

	if replayed := ReplayBalance(decimal.Zero, events); !replayed.Equal(l.balanceOf(entity)) {
		l.log.WithFields(logrus.Fields{
			"entity_id": id,
			"stored":    l.balanceOf(entity),
			"replayed":  replayed,
		}).Warn("balance does not match history replay")
	}

	l.selMu.Lock()
	l.selected = &entity
	l.selMu.Unlock()
	l.cache.Merge(func(t T) bool { return l.idOf(t) == id }, entity)
	return entity, nil
}

// Create inserts the entity plus its opening history event. The event
// carries the opening balance as its amount so a replay of the full history
// always reproduces the current balance.
func (l *AccountLedger[T]) Create(ctx context.Context, entity T) (T, error) {
	if l.idOf(entity) == "" {
		entity = l.withID(entity, uuid.NewString())
	}
	event := models.HistoryEvent{
		EntityID: l.idOf(entity),
		Type:     models.EventCreated,
		Notes:    "Account created",
		Amount:   l.balanceOf(entity),
	}
	if err := l.store.Insert(ctx, &entity, event); err != nil {
		l.cache.SetErr(err)
		return entity, err
	}
	l.notifier.Publish(TopicFinancialDataChange)
	if err := l.Fetch(ctx); err != nil {
		return entity, err
	}
	return entity, nil
}

// Update saves the entity and appends a zero-amount "Updated" event.
func (l *AccountLedger[T]) Update(ctx context.Context, entity T) error {
	event := models.HistoryEvent{
		EntityID: l.idOf(entity),
		Type:     models.EventUpdated,
		Notes:    "Account details updated",
	}
	if err := l.store.Update(ctx, &entity, event); err != nil {
		l.cache.SetErr(err)
		return err
	}
	return l.Fetch(ctx)
}

// Delete removes the entity and its history from the store and the cache.
func (l *AccountLedger[T]) Delete(ctx context.Context, id string) error {
	if err := l.store.Delete(ctx, id); err != nil {
		l.cache.SetErr(err)
		return err
	}
	l.selMu.Lock()
	if l.selected != nil && l.idOf(*l.selected) == id {
		l.selected = nil
	}
	l.selMu.Unlock()
	return l.Fetch(ctx)
}

// AddPayment records a payment: one payment row, balance delta of -amount
// and one history event, applied atomically by the store. The single entity
// is re-fetched afterwards so the caller sees the merged balance and history
// immediately.
func (l *AccountLedger[T]) AddPayment(ctx context.Context, id string, amount decimal.Decimal, method, notes, receivedBy string, sessionID *string) (models.Payment, error) {
	if !amount.IsPositive() {
		return models.Payment{}, ErrNonPositiveAmount
	}
	if !models.ValidPaymentMethod(method) {
		return models.Payment{}, ErrInvalidMethod
	}

	payment := models.Payment{
		ID:         uuid.NewString(),
		EntityID:   id,
		Amount:     amount,
		Method:     method,
		Date:       time.Now().UTC(),
		Notes:      notes,
		ReceivedBy: receivedBy,
		SessionID:  sessionID,
	}
	eventNotes := fmt.Sprintf("Payment of %s via %s", amount.StringFixed(2), method)
	if notes != "" {
		eventNotes += ": " + notes
	}
	event := models.HistoryEvent{
		Type:       models.EventPaymentMade,
		Notes:      eventNotes,
		RecordedBy: receivedBy,
	}
	if err := l.store.RecordPayment(ctx, &payment, event); err != nil {
		l.cache.SetErr(err)
		return models.Payment{}, err
	}

	l.notifier.Publish(TopicFinancialDataChange)
	if _, err := l.Get(ctx, id); err != nil {
		return payment, err
	}
	if err := l.Fetch(ctx); err != nil {
		return payment, err
	}
	return payment, nil
}

// RecordOrder raises the balance by a purchase-order total with a paired
// "Purchase Order Created" event. The order row itself is stored by the
// caller; relatedID links the event back to it.
func (l *AccountLedger[T]) RecordOrder(ctx context.Context, id string, total decimal.Decimal, relatedID, recordedBy string) error {
	if !total.IsPositive() {
		return ErrNonPositiveAmount
	}
	event := models.HistoryEvent{
		Type:       models.EventPurchaseOrder,
		Notes:      "Purchase order for " + total.StringFixed(2),
		RelatedID:  relatedID,
		RecordedBy: recordedBy,
	}
	if err := l.store.AdjustBalance(ctx, id, total, event); err != nil {
		l.cache.SetErr(err)
		return err
	}
	l.notifier.Publish(TopicFinancialDataChange)
	return l.Fetch(ctx)
}

// AdjustBalance applies a signed delta with a paired history event. A zero
// delta is a no-op.
func (l *AccountLedger[T]) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, reason, relatedID string) error {
	if delta.IsZero() {
		return nil
	}
	if reason == "" {
		reason = "Manual entry"
	}
	event := models.HistoryEvent{
		Type:      models.EventCreditAdjusted,
		Notes:     reason,
		RelatedID: relatedID,
	}
	if err := l.store.AdjustBalance(ctx, id, delta, event); err != nil {
		l.cache.SetErr(err)
		return err
	}
	l.notifier.Publish(TopicFinancialDataChange)
	return l.Fetch(ctx)
}

// History loads the ordered event sequence and merges it into both the
// selected slot and the matching collection entry.
func (l *AccountLedger[T]) History(ctx context.Context, id string) ([]models.HistoryEvent, error) {
	events, err := l.store.History(ctx, id)
	if err != nil {
		l.cache.SetErr(err)
		return nil, err
	}
	l.selMu.Lock()
	if l.selected != nil && l.idOf(*l.selected) == id {
		merged := l.withHistory(*l.selected, events)
		l.selected = &merged
	}
	l.selMu.Unlock()
	if cached, ok := l.Cached(id); ok {
		l.cache.Merge(func(t T) bool { return l.idOf(t) == id }, l.withHistory(cached, events))
	}
	return events, nil
}
