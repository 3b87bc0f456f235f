package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"repairshop-backend/models"
)

func TestTotalPaidNegatesPaymentEvents(t *testing.T) {
	events := []models.HistoryEvent{
		{Type: models.EventCreated, Amount: decimal.NewFromInt(100)},
		{Type: models.EventPaymentMade, Amount: decimal.NewFromInt(-30)},
		{Type: models.EventCreditAdjusted, Amount: decimal.NewFromInt(10)},
		{Type: models.EventPaymentMade, Amount: decimal.NewFromInt(-20)},
	}
	assert.True(t, TotalPaid(events).Equal(decimal.NewFromInt(50)))
}

func TestRemainingBalance(t *testing.T) {
	events := []models.HistoryEvent{
		{Type: models.EventPaymentMade, Amount: decimal.NewFromInt(-60)},
	}
	remaining := RemainingBalance(decimal.NewFromInt(150), events)
	assert.True(t, remaining.Equal(decimal.NewFromInt(90)))
}

func TestReplayBalance(t *testing.T) {
	events := []models.HistoryEvent{
		{Amount: decimal.NewFromInt(100)},
		{Amount: decimal.NewFromInt(-40)},
		{Amount: decimal.NewFromInt(25)},
	}
	assert.True(t, ReplayBalance(decimal.Zero, events).Equal(decimal.NewFromInt(85)))
	assert.True(t, ReplayBalance(decimal.NewFromInt(10), nil).Equal(decimal.NewFromInt(10)))
}

func TestLastActivityFallsBackToUpdatedAt(t *testing.T) {
	fallback := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, fallback, LastActivity(nil, fallback))

	later := fallback.Add(48 * time.Hour)
	events := []models.HistoryEvent{
		{Date: fallback.Add(time.Hour)},
		{Date: later},
	}
	assert.Equal(t, later, LastActivity(events, fallback))
}

func TestOverdueClientsUsesUpdatedAtWhenHistoryAbsent(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	stale := now.Add(-45 * 24 * time.Hour)
	fresh := now.Add(-2 * 24 * time.Hour)

	clients := []models.Client{
		{ID: "a", OutstandingBalance: decimal.NewFromInt(80), UpdatedAt: stale},
		{ID: "b", OutstandingBalance: decimal.NewFromInt(80), UpdatedAt: fresh},
		{ID: "c", OutstandingBalance: decimal.Zero, UpdatedAt: stale},
	}
	overdue := OverdueClients(clients, now, DefaultOverdueAfter)

	if assert.Len(t, overdue, 1) {
		assert.Equal(t, "a", overdue[0].ID)
	}
}

func TestOverdueClientsPrefersMergedHistory(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	stale := now.Add(-45 * 24 * time.Hour)

	// A recent payment event clears the overdue flag even though the row's
	// updated_at predates the window.
	client := models.Client{
		ID:                 "a",
		OutstandingBalance: decimal.NewFromInt(80),
		UpdatedAt:          stale,
		History: []models.HistoryEvent{
			{Type: models.EventPaymentMade, Date: now.Add(-24 * time.Hour)},
		},
	}
	overdue := OverdueClients([]models.Client{client}, now, DefaultOverdueAfter)
	assert.Empty(t, overdue)
}

func TestIsOverdueBoundary(t *testing.T) {
	last := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	balance := decimal.NewFromInt(75)

	justOver := last.Add(30*24*time.Hour + time.Second)
	assert.True(t, IsOverdue(balance, last, justOver, DefaultOverdueAfter))

	justUnder := last.Add(29*24*time.Hour + 23*time.Hour + 59*time.Minute)
	assert.False(t, IsOverdue(balance, last, justUnder, DefaultOverdueAfter))

	// Exactly at the threshold is not yet overdue.
	assert.False(t, IsOverdue(balance, last, last.Add(30*24*time.Hour), DefaultOverdueAfter))

	// Settled accounts are never overdue, however stale.
	assert.False(t, IsOverdue(decimal.Zero, last, justOver, DefaultOverdueAfter))
	assert.False(t, IsOverdue(decimal.NewFromInt(-5), last, justOver, DefaultOverdueAfter))
}
