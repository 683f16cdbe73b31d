package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/trgovina/internal/model"
)

// InventoryFilter narrows ListInventory results.
type InventoryFilter struct {
	Search      string // matches product name or SKU
	Category    string // category name
	StockStatus string // normal, low, out, excess
	Page        int
	PageSize    int
}

// Stock adjustment modes.
const (
	AdjustSet      = "set"
	AdjustAdd      = "add"
	AdjustSubtract = "subtract"
)

// ErrNegativeStock is returned when a stock adjustment would make stock
// negative.
var ErrNegativeStock = errors.New("stock cannot go negative")

// stockStatusCond translates a derived stock status into SQL, so status
// filtering happens before pagination and the totals stay correct.
func stockStatusCond(status string) string {
	switch status {
	case model.StockStatusOut:
		return "p.stock = 0"
	case model.StockStatusLow:
		return "p.stock > 0 AND p.stock <= p.min_stock"
	case model.StockStatusExcess:
		return "p.max_stock IS NOT NULL AND p.stock > p.max_stock"
	case model.StockStatusNormal:
		return "p.stock > p.min_stock AND (p.max_stock IS NULL OR p.stock <= p.max_stock)"
	}
	return ""
}

// ListInventory returns a page of the inventory view: products with their
// category, derived stock status, stock value, and last movement time,
// ordered by most recently updated.
func ListInventory(ctx context.Context, db *sqlx.DB, f InventoryFilter) ([]model.InventoryItem, int, error) {
	conds := []string{"1=1"}
	var args []any

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds, "(p.name LIKE ? OR p.sku LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if f.Category != "" {
		conds = append(conds, "c.name = ?")
		args = append(args, f.Category)
	}
	if cond := stockStatusCond(f.StockStatus); cond != "" {
		conds = append(conds, cond)
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM products p JOIN categories c ON c.id = p.category_id WHERE `+where,
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("counting inventory: %w", err)
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	limit, offset := pageBounds(page, pageSize)

	var items []model.InventoryItem
	err = db.SelectContext(ctx, &items,
		`SELECT p.*, c.name AS category_name,
		        COALESCE((SELECT MAX(created_at) FROM stock_movements WHERE product_id = p.id),
		                 p.updated_at) AS last_movement
		 FROM products p
		 JOIN categories c ON c.id = p.category_id
		 WHERE `+where+`
		 ORDER BY p.updated_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing inventory: %w", err)
	}

	for i := range items {
		items[i].Derive()
	}
	return items, total, nil
}

// AdjustStock sets, adds, or subtracts a product's stock and records the
// delta as an ADJUST movement in the same transaction. Returns the updated
// product, or nil when it does not exist.
func AdjustStock(ctx context.Context, db *sqlx.DB, productID int64, mode string, quantity int, reason *string) (*model.Product, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var stock int
	err = tx.GetContext(ctx, &stock, `SELECT stock FROM products WHERE id = ?`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product stock: %w", err)
	}

	var delta int
	switch mode {
	case AdjustSet:
		delta = quantity - stock
	case AdjustAdd:
		delta = quantity
	case AdjustSubtract:
		delta = -quantity
	default:
		return nil, fmt.Errorf("unknown adjustment mode %q", mode)
	}

	if stock+delta < 0 {
		return nil, ErrNegativeStock
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		delta, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("adjusting product stock: %w", err)
	}

	adjustReason := "库存调整"
	if reason != nil && *reason != "" {
		adjustReason = *reason
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO stock_movements (product_id, type, quantity, reason) VALUES (?, 'ADJUST', ?, ?)`,
		productID, delta, adjustReason,
	)
	if err != nil {
		return nil, fmt.Errorf("recording stock adjustment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock adjustment: %w", err)
	}

	return GetProduct(ctx, db, productID)
}
