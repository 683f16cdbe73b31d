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

// PartnerFilter narrows supplier and customer listings.
type PartnerFilter struct {
	Search   string // matches name, contact, or phone
	Page     int
	PageSize int
}

// CreateSupplier creates a new supplier.
func CreateSupplier(ctx context.Context, db *sqlx.DB, s *model.Supplier) (*model.Supplier, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO suppliers (name, contact_name, phone, email, address) VALUES (?, ?, ?, ?, ?)`,
		s.Name, s.ContactName, s.Phone, s.Email, s.Address,
	)
	if err != nil {
		return nil, fmt.Errorf("creating supplier: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting supplier id: %w", err)
	}

	return GetSupplier(ctx, db, id)
}

// GetSupplier returns a supplier by ID.
func GetSupplier(ctx context.Context, db *sqlx.DB, id int64) (*model.Supplier, error) {
	s := &model.Supplier{}
	err := db.GetContext(ctx, s, `SELECT * FROM suppliers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting supplier: %w", err)
	}
	return s, nil
}

// ListSuppliers returns a page of suppliers matching the filter, newest
// first, along with the total number of matches.
func ListSuppliers(ctx context.Context, db *sqlx.DB, f PartnerFilter) ([]model.Supplier, int, error) {
	conds := []string{"1=1"}
	var args []any

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds, "(name LIKE ? OR contact_name LIKE ? OR phone LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := db.GetContext(ctx, &total, `SELECT COUNT(*) FROM suppliers WHERE `+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("counting suppliers: %w", err)
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	limit, offset := pageBounds(page, pageSize)

	var suppliers []model.Supplier
	err = db.SelectContext(ctx, &suppliers,
		`SELECT * FROM suppliers WHERE `+where+`
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing suppliers: %w", err)
	}
	return suppliers, total, nil
}

// UpdateSupplier updates a supplier.
func UpdateSupplier(ctx context.Context, db *sqlx.DB, s *model.Supplier) error {
	_, err := db.ExecContext(ctx,
		`UPDATE suppliers SET name = ?, contact_name = ?, phone = ?, email = ?, address = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		s.Name, s.ContactName, s.Phone, s.Email, s.Address, s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating supplier: %w", err)
	}
	return nil
}

// DeleteSupplier deletes a supplier.
func DeleteSupplier(ctx context.Context, db *sqlx.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting supplier: %w", err)
	}
	return nil
}

// CountSupplierOrders returns the number of orders referencing a supplier.
// Suppliers with order history cannot be deleted.
func CountSupplierOrders(ctx context.Context, db *sqlx.DB, id int64) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders WHERE supplier_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("counting supplier orders: %w", err)
	}
	return count, nil
}
