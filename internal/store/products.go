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

// ProductFilter narrows ListProducts results. Zero values mean "no filter".
type ProductFilter struct {
	Search     string // matches name, SKU, or barcode
	CategoryID int64
	Status     string
	Page       int
	PageSize   int
}

// CreateProduct creates a new product. Stock starts at zero unless set.
func CreateProduct(ctx context.Context, db *sqlx.DB, p *model.Product) (*model.Product, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO products (sku, name, description, barcode, category_id, cost_price,
		                       selling_price, member_price, stock, min_stock, max_stock, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SKU, p.Name, p.Description, p.Barcode, p.CategoryID, p.CostPrice,
		p.SellingPrice, p.MemberPrice, p.Stock, p.MinStock, p.MaxStock, p.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting product id: %w", err)
	}

	return GetProduct(ctx, db, id)
}

// GetProduct returns a product by ID with its category name.
func GetProduct(ctx context.Context, db *sqlx.DB, id int64) (*model.Product, error) {
	p := &model.Product{}
	err := db.GetContext(ctx, p,
		`SELECT p.*, c.name AS category_name
		 FROM products p
		 JOIN categories c ON c.id = p.category_id
		 WHERE p.id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// GetProductBySKU returns a product by SKU.
func GetProductBySKU(ctx context.Context, db *sqlx.DB, sku string) (*model.Product, error) {
	p := &model.Product{}
	err := db.GetContext(ctx, p,
		`SELECT p.*, c.name AS category_name
		 FROM products p
		 JOIN categories c ON c.id = p.category_id
		 WHERE p.sku = ?`, sku,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product by sku: %w", err)
	}
	return p, nil
}

// ListProducts returns a page of products matching the filter, newest first,
// along with the total number of matches.
func ListProducts(ctx context.Context, db *sqlx.DB, f ProductFilter) ([]model.Product, int, error) {
	conds := []string{"1=1"}
	var args []any

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds, "(p.name LIKE ? OR p.sku LIKE ? OR p.barcode LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if f.CategoryID != 0 {
		conds = append(conds, "p.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.Status != "" {
		conds = append(conds, "p.status = ?")
		args = append(args, f.Status)
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM products p WHERE `+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	limit, offset := pageBounds(page, pageSize)

	var products []model.Product
	err = db.SelectContext(ctx, &products,
		`SELECT p.*, c.name AS category_name
		 FROM products p
		 JOIN categories c ON c.id = p.category_id
		 WHERE `+where+`
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	return products, total, nil
}

// UpdateProduct updates a product's catalog fields. Stock is not touched
// here; it only moves through orders and stock adjustments.
func UpdateProduct(ctx context.Context, db *sqlx.DB, p *model.Product) error {
	_, err := db.ExecContext(ctx,
		`UPDATE products SET sku = ?, name = ?, description = ?, barcode = ?, category_id = ?,
		        cost_price = ?, selling_price = ?, member_price = ?, min_stock = ?, max_stock = ?,
		        status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.SKU, p.Name, p.Description, p.Barcode, p.CategoryID,
		p.CostPrice, p.SellingPrice, p.MemberPrice, p.MinStock, p.MaxStock,
		p.Status, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

// DeleteProduct deletes a product.
func DeleteProduct(ctx context.Context, db *sqlx.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

// CountProductOrderItems returns the number of order lines referencing a
// product. Products with order history cannot be deleted.
func CountProductOrderItems(ctx context.Context, db *sqlx.DB, id int64) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM order_items WHERE product_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("counting product order items: %w", err)
	}
	return count, nil
}
