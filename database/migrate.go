package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Harden applies (idempotent) schema hardening on top of AutoMigrate:
// - Money column types (NUMERIC(12,2))
// - Indexes for history/payment lookups
// - Basic CHECK constraints (non-negative stock, positive payments)
func Harden() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE clients          ALTER COLUMN outstanding_balance TYPE numeric(12,2)`,
			`ALTER TABLE suppliers        ALTER COLUMN outstanding_balance TYPE numeric(12,2)`,
			`ALTER TABLE inventory_items  ALTER COLUMN buying_price        TYPE numeric(12,2)`,
			`ALTER TABLE inventory_items  ALTER COLUMN selling_price       TYPE numeric(12,2)`,
			`ALTER TABLE history_events   ALTER COLUMN amount              TYPE numeric(12,2)`,
			`ALTER TABLE payments         ALTER COLUMN amount              TYPE numeric(12,2)`,
			`ALTER TABLE repairs          ALTER COLUMN labor_cost          TYPE numeric(12,2)`,
			`ALTER TABLE repairs          ALTER COLUMN parts_cost          TYPE numeric(12,2)`,
			`ALTER TABLE repairs          ALTER COLUMN total_cost          TYPE numeric(12,2)`,
			`ALTER TABLE sales            ALTER COLUMN subtotal            TYPE numeric(12,2)`,
			`ALTER TABLE sales            ALTER COLUMN discount            TYPE numeric(12,2)`,
			`ALTER TABLE sales            ALTER COLUMN total               TYPE numeric(12,2)`,
			`ALTER TABLE cash_sessions    ALTER COLUMN opening_balance     TYPE numeric(12,2)`,
			`ALTER TABLE purchase_orders  ALTER COLUMN total_amount        TYPE numeric(12,2)`,
			`ALTER TABLE expenses         ALTER COLUMN amount              TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_history_entity_date ON history_events (entity_kind, entity_id, date)`,
			`CREATE INDEX IF NOT EXISTS idx_payments_entity_date ON payments (entity_kind, entity_id, date)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_cash_sessions_single_open ON cash_sessions (status) WHERE status = 'open'`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Stock can never go negative
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'inventory_items'::regclass
					  AND conname  = 'chk_inventory_items_quantity_nonneg'
				) THEN
					ALTER TABLE inventory_items
					ADD CONSTRAINT chk_inventory_items_quantity_nonneg
					CHECK (quantity_in_stock >= 0);
				END IF;
			END $$;`,
			// Payments.amount > 0
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'payments'::regclass
					  AND conname  = 'chk_payments_amount_positive'
				) THEN
					ALTER TABLE payments
					ADD CONSTRAINT chk_payments_amount_positive
					CHECK (amount > 0);
				END IF;
			END $$;`,
			// Expenses.amount > 0
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'expenses'::regclass
					  AND conname  = 'chk_expenses_amount_positive'
				) THEN
					ALTER TABLE expenses
					ADD CONSTRAINT chk_expenses_amount_positive
					CHECK (amount > 0);
				END IF;
			END $$;`,
			// Item prices are non-negative
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'inventory_items'::regclass
					  AND conname  = 'chk_inventory_items_prices_nonneg'
				) THEN
					ALTER TABLE inventory_items
					ADD CONSTRAINT chk_inventory_items_prices_nonneg
					CHECK (buying_price >= 0 AND selling_price >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
