package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"repairshop-backend/models"
)

// MemoryAccountStore is an in-memory AccountStore. It backs service tests
// and the demo mode; the two entity-specific accessors tell it how to read
// and adjust the balance of the concrete entity type.
type MemoryAccountStore[T any] struct {
	Kind string
	// ID returns the entity's identifier.
	ID func(*T) string
	// AddToBalance applies a signed delta to the entity's balance field.
	AddToBalance func(*T, decimal.Decimal)

	// Fail* inject errors for the next matching call, then reset.
	FailList    error
	FailMutate  error
	FailHistory error

	mu       sync.Mutex
	entities map[string]T
	events   []models.HistoryEvent
	payments []models.Payment
}

func NewMemoryAccountStore[T any](kind string, id func(*T) string, add func(*T, decimal.Decimal)) *MemoryAccountStore[T] {
	return &MemoryAccountStore[T]{
		Kind:         kind,
		ID:           id,
		AddToBalance: add,
		entities:     make(map[string]T),
	}
}

func (m *MemoryAccountStore[T]) takeListErr() error {
	err := m.FailList
	m.FailList = nil
	return err
}

func (m *MemoryAccountStore[T]) takeMutateErr() error {
	err := m.FailMutate
	m.FailMutate = nil
	return err
}

func (m *MemoryAccountStore[T]) List(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeListErr(); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(m.entities))
	for id := range m.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.entities[id])
	}
	return out, nil
}

func (m *MemoryAccountStore[T]) Get(ctx context.Context, id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entity, ok := m.entities[id]
	if !ok {
		return entity, ErrNotFound
	}
	return entity, nil
}

func (m *MemoryAccountStore[T]) Insert(ctx context.Context, entity *T, event models.HistoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeMutateErr(); err != nil {
		return err
	}
	m.entities[m.ID(entity)] = *entity
	event.EntityKind = m.Kind
	m.events = append(m.events, event)
	return nil
}

func (m *MemoryAccountStore[T]) Update(ctx context.Context, entity *T, event models.HistoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeMutateErr(); err != nil {
		return err
	}
	id := m.ID(entity)
	if _, ok := m.entities[id]; !ok {
		return ErrNotFound
	}
	m.entities[id] = *entity
	event.EntityKind = m.Kind
	m.events = append(m.events, event)
	return nil
}

func (m *MemoryAccountStore[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeMutateErr(); err != nil {
		return err
	}
	if _, ok := m.entities[id]; !ok {
		return ErrNotFound
	}
	delete(m.entities, id)
	kept := m.events[:0]
	for _, e := range m.events {
		if e.EntityID != id {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

func (m *MemoryAccountStore[T]) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, event models.HistoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeMutateErr(); err != nil {
		return err
	}
	entity, ok := m.entities[id]
	if !ok {
		return ErrNotFound
	}
	m.AddToBalance(&entity, delta)
	m.entities[id] = entity
	event.EntityKind = m.Kind
	event.EntityID = id
	event.Amount = delta
	m.events = append(m.events, event)
	return nil
}

func (m *MemoryAccountStore[T]) RecordPayment(ctx context.Context, payment *models.Payment, event models.HistoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeMutateErr(); err != nil {
		return err
	}
	entity, ok := m.entities[payment.EntityID]
	if !ok {
		return ErrNotFound
	}
	payment.EntityKind = m.Kind
	m.payments = append(m.payments, *payment)
	m.AddToBalance(&entity, payment.Amount.Neg())
	m.entities[payment.EntityID] = entity
	event.EntityKind = m.Kind
	event.EntityID = payment.EntityID
	event.Amount = payment.Amount.Neg()
	event.RelatedID = payment.ID
	m.events = append(m.events, event)
	return nil
}

func (m *MemoryAccountStore[T]) History(ctx context.Context, id string) ([]models.HistoryEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailHistory; err != nil {
		m.FailHistory = nil
		return nil, err
	}
	var out []models.HistoryEvent
	for _, e := range m.events {
		if e.EntityID == id {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// Payments returns a copy of all recorded payments, in insertion order.
func (m *MemoryAccountStore[T]) Payments() []models.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Payment, len(m.payments))
	copy(out, m.payments)
	return out
}

var _ AccountStore[models.Client] = (*MemoryAccountStore[models.Client])(nil)

// MemoryStockStore is the in-memory StockStore counterpart.
type MemoryStockStore struct {
	FailList   error
	FailMutate error

	mu     sync.Mutex
	items  map[string]models.InventoryItem
	events []models.HistoryEvent
}

func NewMemoryStockStore() *MemoryStockStore {
	return &MemoryStockStore{items: make(map[string]models.InventoryItem)}
}

func (m *MemoryStockStore) List(ctx context.Context) ([]models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailList; err != nil {
		m.FailList = nil
		return nil, err
	}
	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]models.InventoryItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *MemoryStockStore) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.InventoryItem
	for _, it := range all {
		if it.LowStockThreshold > 0 && it.QuantityInStock <= it.LowStockThreshold {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *MemoryStockStore) Get(ctx context.Context, id string) (models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return item, ErrNotFound
	}
	return item, nil
}

func (m *MemoryStockStore) Insert(ctx context.Context, item *models.InventoryItem, event models.HistoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailMutate; err != nil {
		m.FailMutate = nil
		return err
	}
	m.items[item.ID] = *item
	event.EntityKind = models.KindItem
	m.events = append(m.events, event)
	return nil
}

func (m *MemoryStockStore) Update(ctx context.Context, item *models.InventoryItem, event models.HistoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailMutate; err != nil {
		m.FailMutate = nil
		return err
	}
	if _, ok := m.items[item.ID]; !ok {
		return ErrNotFound
	}
	m.items[item.ID] = *item
	event.EntityKind = models.KindItem
	m.events = append(m.events, event)
	return nil
}

func (m *MemoryStockStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryStockStore) AdjustQuantity(ctx context.Context, id string, delta int64, event models.HistoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailMutate; err != nil {
		m.FailMutate = nil
		return err
	}
	item, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	if item.QuantityInStock+delta < 0 {
		return ErrInsufficientStock
	}
	item.QuantityInStock += delta
	m.items[id] = item
	event.EntityKind = models.KindItem
	event.EntityID = id
	event.Amount = decimal.NewFromInt(delta)
	m.events = append(m.events, event)
	return nil
}

func (m *MemoryStockStore) History(ctx context.Context, id string) ([]models.HistoryEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HistoryEvent
	for _, e := range m.events {
		if e.EntityID == id {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

var _ StockStore = (*MemoryStockStore)(nil)
