package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/erazemk/trgovina/internal/model"
)

// OrderFilter narrows ListOrders results.
type OrderFilter struct {
	Type     string
	Status   string
	Keyword  string // matches order number or counterparty name
	DateFrom string // YYYY-MM-DD, inclusive
	DateTo   string // YYYY-MM-DD, inclusive
	Page     int
	PageSize int
}

// OrderItemParams is one order line in a create request.
type OrderItemParams struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderParams describes a new order. TotalAmount is always computed
// from the items, never taken from the caller. UserID is the authenticated
// user creating the order.
type CreateOrderParams struct {
	OrderNo    string // optional, generated when empty
	Type       string
	Status     string // defaults to PENDING
	SupplierID *int64
	CustomerID *int64
	MemberID   *int64
	PaidAmount decimal.Decimal
	OrderDate  time.Time
	UserID     int64
	Notes      *string
	Items      []OrderItemParams
}

// UpdateOrderParams describes an order update. Items are immutable after
// creation; only the header fields change.
type UpdateOrderParams struct {
	OrderNo    string
	Status     string
	SupplierID *int64
	CustomerID *int64
	MemberID   *int64
	PaidAmount decimal.Decimal
	OrderDate  time.Time
	Notes      *string
}

const orderColumns = `o.*,
	s.name AS supplier_name, c.name AS customer_name, m.name AS member_name, u.name AS user_name`

const orderJoins = `
	LEFT JOIN suppliers s ON s.id = o.supplier_id
	LEFT JOIN customers c ON c.id = o.customer_id
	LEFT JOIN members m ON m.id = o.member_id
	JOIN users u ON u.id = o.user_id`

// generateOrderNo builds an order number from the order type, a second
// resolution timestamp, and a random numeric suffix of the given width.
func generateOrderNo(typ string, digits int) string {
	prefix := "SO"
	if typ == model.OrderTypePurchase {
		prefix = "PO"
	}
	limit := 1
	for i := 0; i < digits; i++ {
		limit *= 10
	}
	return fmt.Sprintf("%s%s%0*d", prefix, time.Now().UTC().Format("20060102150405"), digits, rand.IntN(limit))
}

// CreateOrder creates an order with its items and, when the initial status
// already crosses the fulfillment threshold, applies the stock side effects.
// Everything happens in one transaction: a failed stock check leaves no
// order, no items, and no movements behind.
func CreateOrder(ctx context.Context, db *sqlx.DB, params CreateOrderParams) (*model.Order, error) {
	status := params.Status
	if status == "" {
		status = model.OrderStatusPending
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	orderNo := params.OrderNo
	generated := orderNo == ""
	if generated {
		orderNo = generateOrderNo(params.Type, 3)
	}

	taken, err := orderNoExists(ctx, tx, orderNo)
	if err != nil {
		return nil, err
	}
	if taken {
		if !generated {
			return nil, ErrDuplicateOrderNo
		}
		// Retry once with a wider random suffix.
		orderNo = generateOrderNo(params.Type, 4)
		if taken, err = orderNoExists(ctx, tx, orderNo); err != nil {
			return nil, err
		} else if taken {
			return nil, fmt.Errorf("generating order number: %q already exists", orderNo)
		}
	}

	total := decimal.Zero
	for _, item := range params.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO orders (order_no, type, status, supplier_id, customer_id, member_id,
		                     total_amount, paid_amount, order_date, user_id, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		orderNo, params.Type, status, params.SupplierID, params.CustomerID, params.MemberID,
		total, params.PaidAmount, formatTime(params.OrderDate), params.UserID, params.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting order id: %w", err)
	}

	items := make([]model.OrderItem, 0, len(params.Items))
	for _, item := range params.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
			 VALUES (?, ?, ?, ?, ?)`,
			id, item.ProductID, item.Quantity, item.UnitPrice, lineTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("creating order item: %w", err)
		}
		items = append(items, model.OrderItem{
			OrderID:   id,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	if effect := model.FulfillmentEffect(params.Type, "", status); effect != model.StockEffectNone {
		if err := applyOrderStock(ctx, tx, id, orderNo, params.Type, items, effect); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing order: %w", err)
	}

	return GetOrder(ctx, db, id)
}

// UpdateOrder updates an order's header fields. When the status change
// crosses the fulfillment threshold, stock side effects are applied or
// reversed in the same transaction. Returns nil when the order does not
// exist.
func UpdateOrder(ctx context.Context, db *sqlx.DB, id int64, params UpdateOrderParams) (*model.Order, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	existing := &model.Order{}
	err = tx.GetContext(ctx, existing, `SELECT * FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}

	orderNo := params.OrderNo
	if orderNo == "" {
		orderNo = existing.OrderNo
	}
	if orderNo != existing.OrderNo {
		taken, err := orderNoExists(ctx, tx, orderNo)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateOrderNo
		}
	}

	if effect := model.FulfillmentEffect(existing.Type, existing.Status, params.Status); effect != model.StockEffectNone {
		var items []model.OrderItem
		err := tx.SelectContext(ctx, &items,
			`SELECT * FROM order_items WHERE order_id = ?`, id)
		if err != nil {
			return nil, fmt.Errorf("getting order items: %w", err)
		}
		if err := applyOrderStock(ctx, tx, id, existing.OrderNo, existing.Type, items, effect); err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET order_no = ?, status = ?, supplier_id = ?, customer_id = ?,
		        member_id = ?, paid_amount = ?, order_date = ?, notes = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		orderNo, params.Status, params.SupplierID, params.CustomerID,
		params.MemberID, params.PaidAmount, formatTime(params.OrderDate), params.Notes,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing order update: %w", err)
	}

	return GetOrder(ctx, db, id)
}

// DeleteOrder deletes an order, its items, and its movement history in one
// transaction. Orders that have affected inventory (RECEIVED or COMPLETED)
// are refused with ErrOrderFulfilled.
func DeleteOrder(ctx context.Context, db *sqlx.DB, id int64) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.GetContext(ctx, &status, `SELECT status FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.ErrNoRows
	}
	if err != nil {
		return fmt.Errorf("getting order: %w", err)
	}

	if status == model.OrderStatusReceived || status == model.OrderStatusCompleted {
		return ErrOrderFulfilled
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM stock_movements WHERE order_id = ?`, id); err != nil {
		return fmt.Errorf("deleting order movements: %w", err)
	}
	// Order items go with the order via ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order deletion: %w", err)
	}
	return nil
}

// GetOrder returns an order by ID with counterparty names and items.
func GetOrder(ctx context.Context, db *sqlx.DB, id int64) (*model.Order, error) {
	o := &model.Order{}
	err := db.GetContext(ctx, o,
		`SELECT `+orderColumns+` FROM orders o`+orderJoins+` WHERE o.id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}

	err = db.SelectContext(ctx, &o.Items,
		`SELECT i.*, p.name AS product_name, p.sku AS product_sku
		 FROM order_items i
		 JOIN products p ON p.id = i.product_id
		 WHERE i.order_id = ?
		 ORDER BY i.id`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting order items: %w", err)
	}
	return o, nil
}

// ListOrders returns a page of orders matching the filter, newest first,
// with counterparty names and items, along with the total number of matches.
func ListOrders(ctx context.Context, db *sqlx.DB, f OrderFilter) ([]model.Order, int, error) {
	conds := []string{"1=1"}
	var args []any

	if f.Type != "" {
		conds = append(conds, "o.type = ?")
		args = append(args, f.Type)
	}
	if f.Status != "" {
		conds = append(conds, "o.status = ?")
		args = append(args, f.Status)
	}
	if f.Keyword != "" {
		pattern := "%" + f.Keyword + "%"
		conds = append(conds, "(o.order_no LIKE ? OR s.name LIKE ? OR c.name LIKE ? OR m.name LIKE ?)")
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if f.DateFrom != "" {
		conds = append(conds, "o.order_date >= ?")
		args = append(args, startOfDay(f.DateFrom))
	}
	if f.DateTo != "" {
		conds = append(conds, "o.order_date <= ?")
		args = append(args, endOfDay(f.DateTo))
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM orders o`+orderJoins+` WHERE `+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	limit, offset := pageBounds(page, pageSize)

	var orders []model.Order
	err = db.SelectContext(ctx, &orders,
		`SELECT `+orderColumns+` FROM orders o`+orderJoins+`
		 WHERE `+where+`
		 ORDER BY o.created_at DESC, o.id DESC
		 LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, total, nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]*model.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
	}

	query, inArgs, err := sqlx.In(
		`SELECT i.*, p.name AS product_name, p.sku AS product_sku
		 FROM order_items i
		 JOIN products p ON p.id = i.product_id
		 WHERE i.order_id IN (?)
		 ORDER BY i.id`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("building order items query: %w", err)
	}

	var items []model.OrderItem
	if err := db.SelectContext(ctx, &items, db.Rebind(query), inArgs...); err != nil {
		return nil, 0, fmt.Errorf("listing order items: %w", err)
	}
	for _, item := range items {
		o := byID[item.OrderID]
		o.Items = append(o.Items, item)
	}

	return orders, total, nil
}

// orderNoExists reports whether an order number is already taken.
func orderNoExists(ctx context.Context, tx *sqlx.Tx, orderNo string) (bool, error) {
	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders WHERE order_no = ?`, orderNo); err != nil {
		return false, fmt.Errorf("checking order number: %w", err)
	}
	return count > 0, nil
}

// applyOrderStock applies or reverses an order's inventory side effects and
// writes the matching movement rows. Movement quantities are positive when
// applying and negative when reversing; the movement type carries the stock
// direction. Sale fulfillment checks stock first, and purchase reversal is
// allowed to drive stock negative so the audit trail stays truthful.
func applyOrderStock(ctx context.Context, tx *sqlx.Tx, orderID int64, orderNo, typ string, items []model.OrderItem, effect model.StockEffect) error {
	for _, item := range items {
		var movType, reason string
		var stockDelta, movQty int

		switch typ {
		case model.OrderTypePurchase:
			movType = model.MovementPurchaseIn
			if effect == model.StockEffectApply {
				stockDelta, movQty = item.Quantity, item.Quantity
				reason = fmt.Sprintf("采购入库 - 订单号: %s", orderNo)
			} else {
				stockDelta, movQty = -item.Quantity, -item.Quantity
				reason = fmt.Sprintf("撤销采购入库 - 订单号: %s", orderNo)
			}
		case model.OrderTypeSale:
			movType = model.MovementSaleOut
			if effect == model.StockEffectApply {
				var p struct {
					Name  string `db:"name"`
					Stock int    `db:"stock"`
				}
				if err := tx.GetContext(ctx, &p, `SELECT name, stock FROM products WHERE id = ?`, item.ProductID); err != nil {
					return fmt.Errorf("getting product stock: %w", err)
				}
				if p.Stock < item.Quantity {
					return &InsufficientStockError{Product: p.Name, Stock: p.Stock, Needed: item.Quantity}
				}
				stockDelta, movQty = -item.Quantity, item.Quantity
				reason = fmt.Sprintf("销售出库 - 订单号: %s", orderNo)
			} else {
				stockDelta, movQty = item.Quantity, -item.Quantity
				reason = fmt.Sprintf("撤销销售出库 - 订单号: %s", orderNo)
			}
		default:
			// Return orders never touch inventory.
			return nil
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			stockDelta, item.ProductID,
		)
		if err != nil {
			return fmt.Errorf("updating product stock: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO stock_movements (product_id, type, quantity, reason, order_id)
			 VALUES (?, ?, ?, ?, ?)`,
			item.ProductID, movType, movQty, reason, orderID,
		)
		if err != nil {
			return fmt.Errorf("recording stock movement: %w", err)
		}
	}
	return nil
}
