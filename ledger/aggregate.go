package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"repairshop-backend/models"
)

// DefaultOverdueAfter is the fallback inactivity window before an entity
// with an outstanding balance counts as overdue. Override via OVERDUE_DAYS.
const DefaultOverdueAfter = 30 * 24 * time.Hour

// TotalPaid sums the money received across payment events. Payment events
// carry the negative balance delta, so the paid total is the negated sum.
func TotalPaid(events []models.HistoryEvent) decimal.Decimal {
	total := decimal.Zero
	for _, e := range events {
		if e.Type == models.EventPaymentMade {
			total = total.Sub(e.Amount)
		}
	}
	return total
}

// RemainingBalance is a given total cost minus everything paid so far. Used
// for repairs; for clients and suppliers the stored balance is authoritative.
func RemainingBalance(total decimal.Decimal, events []models.HistoryEvent) decimal.Decimal {
	return total.Sub(TotalPaid(events))
}

// LastActivity returns the most recent event date, or fallback (the entity's
// updated_at) when there is no history.
func LastActivity(events []models.HistoryEvent, fallback time.Time) time.Time {
	last := time.Time{}
	for _, e := range events {
		if e.Date.After(last) {
			last = e.Date
		}
	}
	if last.IsZero() {
		return fallback
	}
	return last
}

// IsOverdue reports whether an entity with outstanding balance has been
// inactive for longer than the threshold.
func IsOverdue(balance decimal.Decimal, lastActivity, now time.Time, threshold time.Duration) bool {
	if !balance.IsPositive() {
		return false
	}
	return now.Sub(lastActivity) > threshold
}

// OverdueClients filters the listing down to clients owing money with no
// activity inside the threshold. Listings carry no history, so updated_at
// stands in for last activity; every ledger write touches the row and bumps
// it. When a history has been merged in (single-entity loads) its newest
// event date takes precedence.
func OverdueClients(clients []models.Client, now time.Time, threshold time.Duration) []models.Client {
	overdue := make([]models.Client, 0)
	for _, client := range clients {
		last := LastActivity(client.History, client.UpdatedAt)
		if IsOverdue(client.OutstandingBalance, last, now, threshold) {
			overdue = append(overdue, client)
		}
	}
	return overdue
}

// ReplayBalance recomputes a balance by applying every event delta to the
// initial value. Used by the load-time reconciliation check.
func ReplayBalance(initial decimal.Decimal, events []models.HistoryEvent) decimal.Decimal {
	balance := initial
	for _, e := range events {
		balance = balance.Add(e.Amount)
	}
	return balance
}
