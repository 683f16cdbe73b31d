package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at the
// end.
var migrations = []string{
	// Migration 1: lookup indexes for the hot query paths (movement audit log
	// and order listing by date).
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_product
	     ON stock_movements(product_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_order
	     ON stock_movements(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_date
	     ON orders(order_date)`,
	// Migration 2: order items are fetched by order on every detail view.
	`CREATE INDEX IF NOT EXISTS idx_order_items_order
	     ON order_items(order_id)`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
