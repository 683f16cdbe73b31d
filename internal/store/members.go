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

// MemberFilter narrows ListMembers results.
type MemberFilter struct {
	Search   string // matches name, phone, or member number
	LevelID  int64
	Status   string
	Page     int
	PageSize int
}

const memberColumns = `m.*, l.name AS level_name`

// CreateMember registers a new member. The member number is derived from the
// row ID inside the insert transaction, so concurrent registrations can never
// collide.
func CreateMember(ctx context.Context, db *sqlx.DB, m *model.Member) (*model.Member, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO members (member_no, name, phone, email, gender, birthday, address,
		                      level_id, status, membership_fee, membership_expiry, registered_by)
		 VALUES ('', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Phone, m.Email, m.Gender, formatTimePtr(m.Birthday), m.Address,
		m.LevelID, m.Status, m.MembershipFee, formatTimePtr(m.MembershipExpiry), m.RegisteredBy,
	)
	if err != nil {
		return nil, fmt.Errorf("creating member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting member id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE members SET member_no = printf('M%06d', id) WHERE id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("assigning member number: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing member: %w", err)
	}

	return GetMember(ctx, db, id)
}

// GetMember returns a member by ID with their level name.
func GetMember(ctx context.Context, db *sqlx.DB, id int64) (*model.Member, error) {
	m := &model.Member{}
	err := db.GetContext(ctx, m,
		`SELECT `+memberColumns+`
		 FROM members m
		 JOIN member_levels l ON l.id = m.level_id
		 WHERE m.id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting member: %w", err)
	}
	return m, nil
}

// GetMemberByPhone returns a member by phone number.
func GetMemberByPhone(ctx context.Context, db *sqlx.DB, phone string) (*model.Member, error) {
	m := &model.Member{}
	err := db.GetContext(ctx, m,
		`SELECT `+memberColumns+`
		 FROM members m
		 JOIN member_levels l ON l.id = m.level_id
		 WHERE m.phone = ?`, phone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting member by phone: %w", err)
	}
	return m, nil
}

// ListMembers returns a page of members matching the filter, newest first,
// along with the total number of matches.
func ListMembers(ctx context.Context, db *sqlx.DB, f MemberFilter) ([]model.Member, int, error) {
	conds := []string{"1=1"}
	var args []any

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds, "(m.name LIKE ? OR m.phone LIKE ? OR m.member_no LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if f.LevelID != 0 {
		conds = append(conds, "m.level_id = ?")
		args = append(args, f.LevelID)
	}
	if f.Status != "" {
		conds = append(conds, "m.status = ?")
		args = append(args, f.Status)
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := db.GetContext(ctx, &total, `SELECT COUNT(*) FROM members m WHERE `+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("counting members: %w", err)
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	limit, offset := pageBounds(page, pageSize)

	var members []model.Member
	err = db.SelectContext(ctx, &members,
		`SELECT `+memberColumns+`
		 FROM members m
		 JOIN member_levels l ON l.id = m.level_id
		 WHERE `+where+`
		 ORDER BY m.created_at DESC, m.id DESC
		 LIMIT ? OFFSET ?`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing members: %w", err)
	}
	return members, total, nil
}

// UpdateMember updates a member's profile and level. The member number and
// registering user are immutable.
func UpdateMember(ctx context.Context, db *sqlx.DB, m *model.Member) error {
	_, err := db.ExecContext(ctx,
		`UPDATE members SET name = ?, phone = ?, email = ?, gender = ?, birthday = ?,
		        address = ?, level_id = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		m.Name, m.Phone, m.Email, m.Gender, formatTimePtr(m.Birthday),
		m.Address, m.LevelID, m.Status, m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating member: %w", err)
	}
	return nil
}

// DeleteMember deletes a member together with their membership payment
// history, in one transaction.
func DeleteMember(ctx context.Context, db *sqlx.DB, id int64) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM membership_payments WHERE member_id = ?`, id); err != nil {
		return fmt.Errorf("deleting member payments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing member deletion: %w", err)
	}
	return nil
}

// CountMemberOrders returns the number of orders referencing a member.
// Members with order history cannot be deleted.
func CountMemberOrders(ctx context.Context, db *sqlx.DB, id int64) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders WHERE member_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("counting member orders: %w", err)
	}
	return count, nil
}
