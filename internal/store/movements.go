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

// MovementFilter narrows ListMovements results.
type MovementFilter struct {
	Search   string // matches product name or SKU
	Type     string
	OrderNo  string // substring match on the linked order's number
	DateFrom string // YYYY-MM-DD, inclusive
	DateTo   string // YYYY-MM-DD, inclusive
	Page     int
	PageSize int
}

const movementColumns = `v.*, p.name AS product_name, p.sku AS product_sku, o.order_no AS order_no`

const movementJoins = `
	JOIN products p ON p.id = v.product_id
	LEFT JOIN orders o ON o.id = v.order_id`

// CreateMovement records a manual stock movement. ADJUST movements also
// update the product's stock by the movement quantity, in the same
// transaction, and return ErrNegativeStock when the result would drop below
// zero; other types are audit entries only.
func CreateMovement(ctx context.Context, db *sqlx.DB, productID int64, typ string, quantity int, reason *string) (*model.StockMovement, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if typ == model.MovementAdjust {
		var stock int
		err := tx.GetContext(ctx, &stock, `SELECT stock FROM products WHERE id = ?`, productID)
		if err != nil {
			return nil, fmt.Errorf("getting product stock: %w", err)
		}
		if stock+quantity < 0 {
			return nil, ErrNegativeStock
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO stock_movements (product_id, type, quantity, reason) VALUES (?, ?, ?, ?)`,
		productID, typ, quantity, reason,
	)
	if err != nil {
		return nil, fmt.Errorf("creating stock movement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting stock movement id: %w", err)
	}

	if typ == model.MovementAdjust {
		_, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			quantity, productID,
		)
		if err != nil {
			return nil, fmt.Errorf("adjusting product stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock movement: %w", err)
	}

	return GetMovement(ctx, db, id)
}

// GetMovement returns a stock movement by ID with product and order details.
func GetMovement(ctx context.Context, db *sqlx.DB, id int64) (*model.StockMovement, error) {
	m := &model.StockMovement{}
	err := db.GetContext(ctx, m,
		`SELECT `+movementColumns+` FROM stock_movements v`+movementJoins+` WHERE v.id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting stock movement: %w", err)
	}
	return m, nil
}

// ListMovements returns a page of stock movements matching the filter,
// newest first, along with the total number of matches.
func ListMovements(ctx context.Context, db *sqlx.DB, f MovementFilter) ([]model.StockMovement, int, error) {
	conds := []string{"1=1"}
	var args []any

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds, "(p.name LIKE ? OR p.sku LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if f.Type != "" {
		conds = append(conds, "v.type = ?")
		args = append(args, f.Type)
	}
	if f.OrderNo != "" {
		conds = append(conds, "o.order_no LIKE ?")
		args = append(args, "%"+f.OrderNo+"%")
	}
	if f.DateFrom != "" {
		conds = append(conds, "v.created_at >= ?")
		args = append(args, startOfDay(f.DateFrom))
	}
	if f.DateTo != "" {
		conds = append(conds, "v.created_at <= ?")
		args = append(args, endOfDay(f.DateTo))
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM stock_movements v`+movementJoins+` WHERE `+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("counting stock movements: %w", err)
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	limit, offset := pageBounds(page, pageSize)

	var movements []model.StockMovement
	err = db.SelectContext(ctx, &movements,
		`SELECT `+movementColumns+` FROM stock_movements v`+movementJoins+`
		 WHERE `+where+`
		 ORDER BY v.created_at DESC, v.id DESC
		 LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing stock movements: %w", err)
	}
	return movements, total, nil
}

// SumMovementDelta returns the net stock change recorded for a product
// across its whole movement history. For products touched only by order
// fulfillment and ADJUST movements this equals the materialized stock level;
// manual non-ADJUST movements are audit entries and shift the sum without
// moving stock.
func SumMovementDelta(ctx context.Context, db *sqlx.DB, productID int64) (int, error) {
	var sum int
	err := db.GetContext(ctx, &sum,
		`SELECT COALESCE(SUM(CASE WHEN type IN ('SALE_OUT', 'RETURN_OUT') THEN -quantity ELSE quantity END), 0)
		 FROM stock_movements WHERE product_id = ?`, productID,
	)
	if err != nil {
		return 0, fmt.Errorf("summing stock movements: %w", err)
	}
	return sum, nil
}
