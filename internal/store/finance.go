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

// FinanceFilter narrows ListFinanceRecords results.
type FinanceFilter struct {
	Search   string // matches description or category
	Type     string
	Category string
	DateFrom string // YYYY-MM-DD, inclusive, on the record date
	DateTo   string // YYYY-MM-DD, inclusive
	Page     int
	PageSize int
}

// CreateFinanceRecord creates a new income or expense record. A zero
// RecordDate defaults to now.
func CreateFinanceRecord(ctx context.Context, db *sqlx.DB, r *model.FinanceRecord) (*model.FinanceRecord, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO finance_records (type, category, amount, description, order_id, record_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Type, r.Category, r.Amount, r.Description, r.OrderID, formatTime(r.RecordDate),
	)
	if err != nil {
		return nil, fmt.Errorf("creating finance record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting finance record id: %w", err)
	}

	return GetFinanceRecord(ctx, db, id)
}

// GetFinanceRecord returns a finance record by ID.
func GetFinanceRecord(ctx context.Context, db *sqlx.DB, id int64) (*model.FinanceRecord, error) {
	r := &model.FinanceRecord{}
	err := db.GetContext(ctx, r, `SELECT * FROM finance_records WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting finance record: %w", err)
	}
	return r, nil
}

// ListFinanceRecords returns a page of finance records matching the filter,
// newest record date first, along with the total number of matches.
func ListFinanceRecords(ctx context.Context, db *sqlx.DB, f FinanceFilter) ([]model.FinanceRecord, int, error) {
	conds := []string{"1=1"}
	var args []any

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds, "(description LIKE ? OR category LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if f.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, f.Type)
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.DateFrom != "" {
		conds = append(conds, "record_date >= ?")
		args = append(args, startOfDay(f.DateFrom))
	}
	if f.DateTo != "" {
		conds = append(conds, "record_date <= ?")
		args = append(args, endOfDay(f.DateTo))
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := db.GetContext(ctx, &total, `SELECT COUNT(*) FROM finance_records WHERE `+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("counting finance records: %w", err)
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	limit, offset := pageBounds(page, pageSize)

	var records []model.FinanceRecord
	err = db.SelectContext(ctx, &records,
		`SELECT * FROM finance_records WHERE `+where+`
		 ORDER BY record_date DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing finance records: %w", err)
	}
	return records, total, nil
}

// UpdateFinanceRecord updates a finance record.
func UpdateFinanceRecord(ctx context.Context, db *sqlx.DB, r *model.FinanceRecord) error {
	_, err := db.ExecContext(ctx,
		`UPDATE finance_records SET type = ?, category = ?, amount = ?, description = ?,
		        order_id = ?, record_date = ?
		 WHERE id = ?`,
		r.Type, r.Category, r.Amount, r.Description, r.OrderID, formatTime(r.RecordDate), r.ID,
	)
	if err != nil {
		return fmt.Errorf("updating finance record: %w", err)
	}
	return nil
}

// DeleteFinanceRecord deletes a finance record.
func DeleteFinanceRecord(ctx context.Context, db *sqlx.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM finance_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting finance record: %w", err)
	}
	return nil
}
