package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product with its materialized stock level.
// Stock is kept consistent with the stock movement ledger: every stock write
// and its movement row share one transaction.
type Product struct {
	ID           int64               `db:"id" json:"id"`
	SKU          string              `db:"sku" json:"sku"`
	Name         string              `db:"name" json:"name"`
	Description  *string             `db:"description" json:"description,omitempty"`
	Barcode      *string             `db:"barcode" json:"barcode,omitempty"`
	CategoryID   int64               `db:"category_id" json:"category_id"`
	CostPrice    decimal.Decimal     `db:"cost_price" json:"cost_price"`
	SellingPrice decimal.Decimal     `db:"selling_price" json:"selling_price"`
	MemberPrice  decimal.NullDecimal `db:"member_price" json:"member_price,omitempty"`
	Stock        int                 `db:"stock" json:"stock"`
	MinStock     int                 `db:"min_stock" json:"min_stock"`
	MaxStock     *int                `db:"max_stock" json:"max_stock,omitempty"`
	Status       string              `db:"status" json:"status"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`

	// Joined fields (not always populated).
	CategoryName string `db:"category_name" json:"category_name,omitempty"`
}

// Product statuses.
const (
	ProductStatusActive       = "ACTIVE"
	ProductStatusInactive     = "INACTIVE"
	ProductStatusDiscontinued = "DISCONTINUED"
)

// ValidProductStatus reports whether status is a known product status.
func ValidProductStatus(status string) bool {
	switch status {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}

// Stock status values derived for the inventory view.
const (
	StockStatusNormal = "normal"
	StockStatusLow    = "low"
	StockStatusOut    = "out"
	StockStatusExcess = "excess"
)

// StockStatus derives the inventory status of the product from its stock
// level relative to its thresholds.
func (p *Product) StockStatus() string {
	switch {
	case p.Stock == 0:
		return StockStatusOut
	case p.Stock <= p.MinStock:
		return StockStatusLow
	case p.MaxStock != nil && p.Stock > *p.MaxStock:
		return StockStatusExcess
	}
	return StockStatusNormal
}
