package model

import "time"

// Category represents a product category. Categories form a tree via ParentID.
type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	ParentID    *int64    `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields (not always populated).
	ParentName   *string `db:"parent_name" json:"parent_name,omitempty"`
	ProductCount int     `db:"product_count" json:"product_count"`
}
