package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/erazemk/trgovina/internal/model"
)

// PaymentFilter narrows ListPayments results.
type PaymentFilter struct {
	MemberID int64
	Page     int
	PageSize int
}

// CreatePaymentParams describes one membership-fee payment. If StartDate and
// EndDate are both set they are used verbatim; otherwise the period starts at
// the member's current expiry (or now, whichever is later) and runs for
// PeriodYears years.
type CreatePaymentParams struct {
	MemberID    int64
	Amount      decimal.Decimal
	Method      string
	PeriodYears int
	StartDate   *time.Time
	EndDate     *time.Time
	Notes       *string
}

const paymentColumns = `p.*, m.name AS member_name, m.member_no AS member_no`

// CreatePayment records a membership-fee payment and extends the member's
// membership in the same transaction: the fee, the new expiry, and ACTIVE
// status are written together with the ledger row.
func CreatePayment(ctx context.Context, db *sqlx.DB, params CreatePaymentParams) (*model.MembershipPayment, error) {
	member, err := GetMember(ctx, db, params.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("member %d not found", params.MemberID)
	}

	var start, end time.Time
	if params.StartDate != nil && params.EndDate != nil {
		start, end = *params.StartDate, *params.EndDate
	} else {
		start = time.Now()
		if member.MembershipExpiry != nil && member.MembershipExpiry.After(start) {
			start = *member.MembershipExpiry
		}
		years := params.PeriodYears
		if years < 1 {
			years = 1
		}
		end = start.AddDate(years, 0, 0)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO membership_payments (member_id, amount, method, status, start_date, end_date, notes)
		 VALUES (?, ?, ?, 'PAID', ?, ?, ?)`,
		params.MemberID, params.Amount, params.Method,
		formatTime(start), formatTime(end), params.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating payment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting payment id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE members SET membership_fee = ?, membership_expiry = ?, status = 'ACTIVE',
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		params.Amount, formatTime(end), params.MemberID,
	)
	if err != nil {
		return nil, fmt.Errorf("extending membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing payment: %w", err)
	}

	return GetPayment(ctx, db, id)
}

// GetPayment returns a payment by ID with its member's name and number.
func GetPayment(ctx context.Context, db *sqlx.DB, id int64) (*model.MembershipPayment, error) {
	p := &model.MembershipPayment{}
	err := db.GetContext(ctx, p,
		`SELECT `+paymentColumns+`
		 FROM membership_payments p
		 JOIN members m ON m.id = p.member_id
		 WHERE p.id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting payment: %w", err)
	}
	return p, nil
}

// ListPayments returns a page of payments matching the filter, newest first,
// along with the total number of matches.
func ListPayments(ctx context.Context, db *sqlx.DB, f PaymentFilter) ([]model.MembershipPayment, int, error) {
	conds := []string{"1=1"}
	var args []any

	if f.MemberID != 0 {
		conds = append(conds, "p.member_id = ?")
		args = append(args, f.MemberID)
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM membership_payments p WHERE `+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("counting payments: %w", err)
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	limit, offset := pageBounds(page, pageSize)

	var payments []model.MembershipPayment
	err = db.SelectContext(ctx, &payments,
		`SELECT `+paymentColumns+`
		 FROM membership_payments p
		 JOIN members m ON m.id = p.member_id
		 WHERE `+where+`
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing payments: %w", err)
	}
	return payments, total, nil
}
