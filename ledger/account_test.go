package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop-backend/models"
)

func newTestClientLedger() (*AccountLedger[models.Client], *MemoryAccountStore[models.Client]) {
	store := NewMemoryAccountStore(models.KindClient,
		func(c *models.Client) string { return c.ID },
		func(c *models.Client, d decimal.Decimal) { c.OutstandingBalance = c.OutstandingBalance.Add(d) },
	)
	return NewClientLedger(store, NewNotifier()), store
}

func TestCreateRecordsOpeningBalanceEvent(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestClientLedger()

	created, err := svc.Create(ctx, models.Client{
		Name:               "Amina",
		OutstandingBalance: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	events, err := store.History(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventCreated, events[0].Type)
	assert.True(t, events[0].Amount.Equal(decimal.NewFromInt(50)))

	// Replaying the full history from zero reproduces the stored balance.
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ReplayBalance(decimal.Zero, got.History).Equal(got.OutstandingBalance))
}

func TestBalanceAlwaysMatchesHistoryReplay(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestClientLedger()

	created, err := svc.Create(ctx, models.Client{
		Name:               "Karim",
		OutstandingBalance: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	require.NoError(t, svc.AdjustBalance(ctx, created.ID, decimal.NewFromInt(25), "parts on credit", ""))
	_, err = svc.AddPayment(ctx, created.ID, decimal.NewFromInt(30), models.MethodCash, "", "staff-1", nil)
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.OutstandingBalance.Equal(decimal.NewFromInt(95)))
	assert.True(t, ReplayBalance(decimal.Zero, got.History).Equal(got.OutstandingBalance))
}

func TestPaymentEmitsNegativeAmountEvent(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestClientLedger()

	created, err := svc.Create(ctx, models.Client{
		Name:               "Sofia",
		OutstandingBalance: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	payment, err := svc.AddPayment(ctx, created.ID, decimal.NewFromInt(40), models.MethodCreditCard, "deposit", "staff-1", nil)
	require.NoError(t, err)
	require.NotEmpty(t, payment.ID)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(40)))

	events, err := store.History(ctx, created.ID)
	require.NoError(t, err)

	var paymentEvents []models.HistoryEvent
	for _, e := range events {
		if e.Type == models.EventPaymentMade {
			paymentEvents = append(paymentEvents, e)
		}
	}
	require.Len(t, paymentEvents, 1, "exactly one history event per payment")
	assert.True(t, paymentEvents[0].Amount.Equal(decimal.NewFromInt(-40)))
	assert.Equal(t, payment.ID, paymentEvents[0].RelatedID)

	// The id is generated by the service, not left for the store to backfill.
	stored := store.Payments()
	require.Len(t, stored, 1)
	assert.Equal(t, payment.ID, stored[0].ID)
}

func newTestSupplierLedger() (*AccountLedger[models.Supplier], *MemoryAccountStore[models.Supplier]) {
	store := NewMemoryAccountStore(models.KindSupplier,
		func(s *models.Supplier) string { return s.ID },
		func(s *models.Supplier, d decimal.Decimal) { s.OutstandingBalance = s.OutstandingBalance.Add(d) },
	)
	return NewSupplierLedger(store, NewNotifier()), store
}

func TestRecordOrderRaisesSupplierBalance(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestSupplierLedger()

	created, err := svc.Create(ctx, models.Supplier{Name: "TechParts"})
	require.NoError(t, err)

	total := decimal.RequireFromString("230.50")
	require.NoError(t, svc.RecordOrder(ctx, created.ID, total, "order-1", "staff-1"))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.OutstandingBalance.Equal(total))
	assert.True(t, ReplayBalance(decimal.Zero, got.History).Equal(got.OutstandingBalance))

	events, err := store.History(ctx, created.ID)
	require.NoError(t, err)

	var orderEvents []models.HistoryEvent
	for _, e := range events {
		if e.Type == models.EventPurchaseOrder {
			orderEvents = append(orderEvents, e)
		}
	}
	require.Len(t, orderEvents, 1)
	assert.True(t, orderEvents[0].Amount.Equal(total))
	assert.Equal(t, "order-1", orderEvents[0].RelatedID)
}

func TestRecordOrderRejectsNonPositiveTotal(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestSupplierLedger()

	created, err := svc.Create(ctx, models.Supplier{Name: "TechParts"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RecordOrder(ctx, created.ID, decimal.Zero, "order-1", ""), ErrNonPositiveAmount)
	assert.ErrorIs(t, svc.RecordOrder(ctx, created.ID, decimal.NewFromInt(-10), "order-1", ""), ErrNonPositiveAmount)

	events, err := store.History(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1, "only the Created event")
}

func TestPaymentReducesBalance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestClientLedger()

	created, err := svc.Create(ctx, models.Client{
		Name:               "Yusuf",
		OutstandingBalance: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = svc.AddPayment(ctx, created.ID, decimal.NewFromInt(40), models.MethodCash, "", "staff-1", nil)
	require.NoError(t, err)

	got, ok := svc.Cached(created.ID)
	require.True(t, ok)
	assert.True(t, got.OutstandingBalance.Equal(decimal.NewFromInt(60)))
}

func TestPaymentValidation(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestClientLedger()

	created, err := svc.Create(ctx, models.Client{Name: "Nadia"})
	require.NoError(t, err)

	_, err = svc.AddPayment(ctx, created.ID, decimal.Zero, models.MethodCash, "", "", nil)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = svc.AddPayment(ctx, created.ID, decimal.NewFromInt(-5), models.MethodCash, "", "", nil)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = svc.AddPayment(ctx, created.ID, decimal.NewFromInt(5), "Barter", "", "", nil)
	assert.ErrorIs(t, err, ErrInvalidMethod)

	// Rejected payments leave no trace.
	assert.Empty(t, store.Payments())
}

func TestInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestClientLedger()

	_, err := svc.Create(ctx, models.Client{Name: "First"})
	require.NoError(t, err)
	require.NoError(t, svc.Initialize(ctx))
	require.Equal(t, Ready, svc.State())

	// A second Initialize in Ready must not hit the store at all; a planted
	// list failure would surface if it did.
	store.FailList = errors.New("boom")
	require.NoError(t, svc.Initialize(ctx))
	assert.Equal(t, Ready, svc.State())
	assert.Len(t, svc.All(), 1)
}

func TestFailedFetchPreservesStaleItems(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestClientLedger()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, models.Client{Name: fmt.Sprintf("client-%d", i)})
		require.NoError(t, err)
	}
	require.NoError(t, svc.Initialize(ctx))
	require.Len(t, svc.All(), 5)

	store.FailList = errors.New("connection reset")
	err := svc.Fetch(ctx)
	require.Error(t, err)

	assert.Len(t, svc.All(), 5, "stale items survive a failed refetch")
	assert.Error(t, svc.Err())
	assert.Equal(t, Ready, svc.State())
}

func TestAdjustBalanceZeroDeltaIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestClientLedger()

	created, err := svc.Create(ctx, models.Client{Name: "Zara"})
	require.NoError(t, err)

	require.NoError(t, svc.AdjustBalance(ctx, created.ID, decimal.Zero, "nothing", ""))
	events, err := store.History(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1, "only the Created event")
}

func TestGetUnknownEntity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestClientLedger()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Err(), ErrNotFound)
}

func TestDeleteClearsSelected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestClientLedger()

	created, err := svc.Create(ctx, models.Client{Name: "Tariq"})
	require.NoError(t, err)
	_, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	_, ok := svc.Selected()
	require.True(t, ok)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, ok = svc.Selected()
	assert.False(t, ok)
	assert.Len(t, svc.All(), 0)
}
