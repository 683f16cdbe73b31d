package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/trgovina/internal/model"
)

// CreateCategory creates a new category, optionally under a parent.
func CreateCategory(ctx context.Context, db *sqlx.DB, name string, description *string, parentID *int64) (*model.Category, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, description, parent_id) VALUES (?, ?, ?)`,
		name, description, parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID, with its parent name and the number
// of products filed under it.
func GetCategory(ctx context.Context, db *sqlx.DB, id int64) (*model.Category, error) {
	c := &model.Category{}
	err := db.GetContext(ctx, c,
		`SELECT c.*, p.name AS parent_name,
		        (SELECT COUNT(*) FROM products WHERE category_id = c.id) AS product_count
		 FROM categories c
		 LEFT JOIN categories p ON p.id = c.parent_id
		 WHERE c.id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// ListCategories returns all categories ordered by name, each with its parent
// name and product count.
func ListCategories(ctx context.Context, db *sqlx.DB) ([]model.Category, error) {
	var categories []model.Category
	err := db.SelectContext(ctx, &categories,
		`SELECT c.*, p.name AS parent_name,
		        (SELECT COUNT(*) FROM products WHERE category_id = c.id) AS product_count
		 FROM categories c
		 LEFT JOIN categories p ON p.id = c.parent_id
		 ORDER BY c.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory updates a category's metadata.
func UpdateCategory(ctx context.Context, db *sqlx.DB, id int64, name string, description *string, parentID *int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, parent_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		name, description, parentID, id,
	)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return nil
}

// DeleteCategory deletes a category.
func DeleteCategory(ctx context.Context, db *sqlx.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}

// CountCategoryChildren returns the number of direct child categories.
func CountCategoryChildren(ctx context.Context, db *sqlx.DB, id int64) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM categories WHERE parent_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("counting child categories: %w", err)
	}
	return count, nil
}

// CountCategoryProducts returns the number of products filed under a category.
func CountCategoryProducts(ctx context.Context, db *sqlx.DB, id int64) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM products WHERE category_id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("counting category products: %w", err)
	}
	return count, nil
}
