package routes

import (
	"github.com/gofiber/fiber/v2"

	"repairshop-backend/controllers"
	"repairshop-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard for retried POS writes
	protected.Use(middlewares.Idempotency())

	// Clients (receivables ledger)
	protected.Post("/client", controllers.CreateClient)
	protected.Get("/clients", controllers.GetClients)
	protected.Get("/clients/overdue", controllers.GetOverdueClients)
	protected.Get("/client/:id", controllers.GetClient)
	protected.Put("/client/:id", controllers.UpdateClient)
	protected.Delete("/client/:id", controllers.DeleteClient)
	protected.Post("/client/:id/payments", controllers.AddClientPayment)
	protected.Post("/client/:id/adjustments", controllers.AdjustClientBalance)
	protected.Get("/client/:id/history", controllers.GetClientHistory)

	// Suppliers (payables ledger)
	protected.Post("/supplier", controllers.CreateSupplier)
	protected.Get("/suppliers", controllers.GetSuppliers)
	protected.Get("/supplier/:id", controllers.GetSupplier)
	protected.Put("/supplier/:id", controllers.UpdateSupplier)
	protected.Delete("/supplier/:id", controllers.DeleteSupplier)
	protected.Post("/supplier/:id/payments", controllers.AddSupplierPayment)
	protected.Post("/supplier/:id/adjustments", controllers.AdjustSupplierBalance)
	protected.Get("/supplier/:id/history", controllers.GetSupplierHistory)
	protected.Post("/supplier/:id/orders", controllers.CreateSupplierOrder)
	protected.Get("/supplier/:id/orders", controllers.GetSupplierOrders)

	// Inventory (stock ledger)
	protected.Post("/item", controllers.CreateItem)
	protected.Get("/items", controllers.GetItems)
	protected.Get("/items/low-stock", controllers.GetLowStockItems)
	protected.Get("/item/:id", controllers.GetItem)
	protected.Put("/item/:id", controllers.UpdateItem)
	protected.Delete("/item/:id", controllers.DeleteItem)
	protected.Post("/item/:id/adjustments", controllers.AdjustItemQuantity)
	protected.Get("/item/:id/history", controllers.GetItemHistory)

	// Repairs
	protected.Post("/repair", controllers.CreateRepair)
	protected.Get("/repairs", controllers.GetRepairs)
	protected.Get("/repair/:id", controllers.GetRepair)
	protected.Put("/repair/:id", controllers.UpdateRepair)
	protected.Post("/repair/:id/payments", controllers.AddRepairPayment)

	// Cash sessions
	protected.Post("/session/start", controllers.StartSession)
	protected.Get("/session/current", controllers.GetCurrentSession)
	protected.Post("/session/:id/close", controllers.CloseSession)

	// Sales
	protected.Post("/sale", controllers.CreateSale)
	protected.Get("/sales", controllers.GetSales)

	// Expenses (drawer outflows)
	protected.Post("/expense", controllers.CreateExpense)
	protected.Get("/expenses", controllers.GetExpenses)

	// Dashboard
	protected.Get("/dashboard", controllers.GetDashboard)
}
