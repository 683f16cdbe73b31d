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

// CreateCustomer creates a new customer.
func CreateCustomer(ctx context.Context, db *sqlx.DB, c *model.Customer) (*model.Customer, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO customers (name, contact_name, phone, email, address) VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.ContactName, c.Phone, c.Email, c.Address,
	)
	if err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting customer id: %w", err)
	}

	return GetCustomer(ctx, db, id)
}

// GetCustomer returns a customer by ID.
func GetCustomer(ctx context.Context, db *sqlx.DB, id int64) (*model.Customer, error) {
	c := &model.Customer{}
	err := db.GetContext(ctx, c, `SELECT * FROM customers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting customer: %w", err)
	}
	return c, nil
}

// ListCustomers returns a page of customers matching the filter, newest
// first, along with the total number of matches.
func ListCustomers(ctx context.Context, db *sqlx.DB, f PartnerFilter) ([]model.Customer, int, error) {
	conds := []string{"1=1"}
	var args []any

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds, "(name LIKE ? OR contact_name LIKE ? OR phone LIKE ? OR email LIKE ?)")
		args = append(args, pattern, pattern, pattern, pattern)
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := db.GetContext(ctx, &total, `SELECT COUNT(*) FROM customers WHERE `+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("counting customers: %w", err)
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	limit, offset := pageBounds(page, pageSize)

	var customers []model.Customer
	err = db.SelectContext(ctx, &customers,
		`SELECT * FROM customers WHERE `+where+`
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing customers: %w", err)
	}
	return customers, total, nil
}

// UpdateCustomer updates a customer.
func UpdateCustomer(ctx context.Context, db *sqlx.DB, c *model.Customer) error {
	_, err := db.ExecContext(ctx,
		`UPDATE customers SET name = ?, contact_name = ?, phone = ?, email = ?, address = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		c.Name, c.ContactName, c.Phone, c.Email, c.Address, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating customer: %w", err)
	}
	return nil
}

// DeleteCustomer deletes a customer.
func DeleteCustomer(ctx context.Context, db *sqlx.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}
	return nil
}

// CountCustomerOrders returns the number of orders referencing a customer.
// Customers with order history cannot be deleted.
func CountCustomerOrders(ctx context.Context, db *sqlx.DB, id int64) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders WHERE customer_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("counting customer orders: %w", err)
	}
	return count, nil
}
