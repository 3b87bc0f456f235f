package controllers

import (
	"time"

	"repairshop-backend/ledger"
	"repairshop-backend/models"
)

// Shared services, wired once at startup.
var (
	clients   *ledger.AccountLedger[models.Client]
	suppliers *ledger.AccountLedger[models.Supplier]
	stock     *ledger.StockLedger
	notifier  *ledger.Notifier

	overdueAfter = ledger.DefaultOverdueAfter
)

// Wire injects the ledger services the handlers operate on. Must be called
// before routes are registered.
func Wire(c *ledger.AccountLedger[models.Client], s *ledger.AccountLedger[models.Supplier], st *ledger.StockLedger, n *ledger.Notifier, overdue time.Duration) {
	clients = c
	suppliers = s
	stock = st
	notifier = n
	if overdue > 0 {
		overdueAfter = overdue
	}
	startDashboardCache(n)
}
