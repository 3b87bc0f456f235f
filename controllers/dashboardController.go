package controllers

import (
	"sync"
	"time"

	"repairshop-backend/database"
	"repairshop-backend/ledger"
	"repairshop-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates the shop-wide financial totals shown on the
// landing view.
type DashboardSummary struct {
	TotalReceivables decimal.Decimal `json:"totalReceivables"`
	TotalPayables    decimal.Decimal `json:"totalPayables"`
	StockValue       decimal.Decimal `json:"stockValue"`
	LowStockCount    int64           `json:"lowStockCount"`
	OpenRepairs      int64           `json:"openRepairs"`
	OpenSessionCash  decimal.Decimal `json:"openSessionCash"`
	OverdueClients   int64           `json:"overdueClients"`
	GeneratedAt      string          `json:"generatedAt"`
}

// dashboardCache holds the last computed summary and is invalidated by the
// financial-data-change topic instead of a TTL.
var dashboardCache struct {
	mu      sync.Mutex
	summary DashboardSummary
	valid   bool
}

func startDashboardCache(n *ledger.Notifier) {
	events, _ := n.Subscribe()
	go func() {
		for range events {
			dashboardCache.mu.Lock()
			dashboardCache.valid = false
			dashboardCache.mu.Unlock()
		}
	}()
}

// GET /api/dashboard
func GetDashboard(c *fiber.Ctx) error {
	dashboardCache.mu.Lock()
	if dashboardCache.valid {
		summary := dashboardCache.summary
		dashboardCache.mu.Unlock()
		return c.JSON(summary)
	}
	dashboardCache.mu.Unlock()

	summary, err := computeDashboard(c)
	if err != nil {
		return err
	}

	dashboardCache.mu.Lock()
	dashboardCache.summary = summary
	dashboardCache.valid = true
	dashboardCache.mu.Unlock()
	return c.JSON(summary)
}

func computeDashboard(c *fiber.Ctx) (DashboardSummary, error) {
	db := database.DB.WithContext(c.Context())
	var summary DashboardSummary

	var receivables decimal.NullDecimal
	if err := db.Model(&models.Client{}).
		Where("active = true AND outstanding_balance > 0").
		Select("SUM(outstanding_balance)").
		Scan(&receivables).Error; err != nil {
		return summary, err
	}

	var payables decimal.NullDecimal
	if err := db.Model(&models.Supplier{}).
		Where("active = true AND outstanding_balance > 0").
		Select("SUM(outstanding_balance)").
		Scan(&payables).Error; err != nil {
		return summary, err
	}

	var stockValue decimal.NullDecimal
	if err := db.Model(&models.InventoryItem{}).
		Select("SUM(buying_price * quantity_in_stock)").
		Scan(&stockValue).Error; err != nil {
		return summary, err
	}

	var lowStock int64
	if err := db.Model(&models.InventoryItem{}).
		Where("low_stock_threshold > 0 AND quantity_in_stock <= low_stock_threshold").
		Count(&lowStock).Error; err != nil {
		return summary, err
	}

	var openRepairs int64
	if err := db.Model(&models.Repair{}).
		Where("status IN ?", []string{models.RepairPending, models.RepairInProgress}).
		Count(&openRepairs).Error; err != nil {
		return summary, err
	}

	sessionCash := decimal.Zero
	var session models.CashSession
	if err := db.Where("status = ?", models.SessionOpen).First(&session).Error; err == nil {
		var cash decimal.NullDecimal
		if err := db.Model(&models.Payment{}).
			Where("session_id = ? AND method = ?", session.ID, models.MethodCash).
			Select("SUM(amount)").
			Scan(&cash).Error; err != nil {
			return summary, err
		}
		var spent decimal.NullDecimal
		if err := db.Model(&models.Expense{}).
			Where("session_id = ?", session.ID).
			Select("SUM(amount)").
			Scan(&spent).Error; err != nil {
			return summary, err
		}
		sessionCash = session.OpeningBalance
		if cash.Valid {
			sessionCash = sessionCash.Add(cash.Decimal)
		}
		if spent.Valid {
			sessionCash = sessionCash.Sub(spent.Decimal)
		}
	}

	cutoff := time.Now().UTC().Add(-overdueAfter)
	var overdue int64
	if err := db.Model(&models.Client{}).
		Where("active = true AND outstanding_balance > 0 AND updated_at < ?", cutoff).
		Count(&overdue).Error; err != nil {
		return summary, err
	}

	summary = DashboardSummary{
		TotalReceivables: receivables.Decimal,
		TotalPayables:    payables.Decimal,
		StockValue:       stockValue.Decimal,
		LowStockCount:    lowStock,
		OpenRepairs:      openRepairs,
		OpenSessionCash:  sessionCash,
		OverdueClients:   overdue,
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	return summary, nil
}
