package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/trgovina/internal/model"
)

// CreateMemberLevel creates a new membership tier.
func CreateMemberLevel(ctx context.Context, db *sqlx.DB, l *model.MemberLevel) (*model.MemberLevel, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO member_levels (name, description, min_spent, discount, membership_fee)
		 VALUES (?, ?, ?, ?, ?)`,
		l.Name, l.Description, l.MinSpent, l.Discount, l.MembershipFee,
	)
	if err != nil {
		return nil, fmt.Errorf("creating member level: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting member level id: %w", err)
	}

	return GetMemberLevel(ctx, db, id)
}

// GetMemberLevel returns a membership tier by ID with its member count.
func GetMemberLevel(ctx context.Context, db *sqlx.DB, id int64) (*model.MemberLevel, error) {
	l := &model.MemberLevel{}
	err := db.GetContext(ctx, l,
		`SELECT l.*, (SELECT COUNT(*) FROM members WHERE level_id = l.id) AS member_count
		 FROM member_levels l WHERE l.id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting member level: %w", err)
	}
	return l, nil
}

// ListMemberLevels returns all membership tiers ordered by spending
// threshold, each with its member count.
func ListMemberLevels(ctx context.Context, db *sqlx.DB) ([]model.MemberLevel, error) {
	var levels []model.MemberLevel
	err := db.SelectContext(ctx, &levels,
		`SELECT l.*, (SELECT COUNT(*) FROM members WHERE level_id = l.id) AS member_count
		 FROM member_levels l
		 ORDER BY CAST(l.min_spent AS REAL), l.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing member levels: %w", err)
	}
	return levels, nil
}

// UpdateMemberLevel updates a membership tier.
func UpdateMemberLevel(ctx context.Context, db *sqlx.DB, l *model.MemberLevel) error {
	_, err := db.ExecContext(ctx,
		`UPDATE member_levels SET name = ?, description = ?, min_spent = ?, discount = ?,
		        membership_fee = ?
		 WHERE id = ?`,
		l.Name, l.Description, l.MinSpent, l.Discount, l.MembershipFee, l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating member level: %w", err)
	}
	return nil
}

// DeleteMemberLevel deletes a membership tier.
func DeleteMemberLevel(ctx context.Context, db *sqlx.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM member_levels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting member level: %w", err)
	}
	return nil
}

// CountLevelMembers returns the number of members on a tier. Tiers with
// members cannot be deleted.
func CountLevelMembers(ctx context.Context, db *sqlx.DB, id int64) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM members WHERE level_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("counting level members: %w", err)
	}
	return count, nil
}
