package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a product viewed through the inventory lens: the catalog
// row plus its derived stock status, the value of the stock on hand, and the
// time of the last movement.
type InventoryItem struct {
	Product

	StockStatusValue string          `db:"-" json:"stock_status"`
	TotalValue       decimal.Decimal `db:"-" json:"total_value"`
	// LastMovementRaw holds the datetime text the driver returns for the
	// last_movement expression column, which has no declared type; Derive
	// parses it into LastMovement.
	LastMovementRaw string    `db:"last_movement" json:"-"`
	LastMovement    time.Time `db:"-" json:"last_movement"`
}

// Derive fills the computed fields from the product data.
func (i *InventoryItem) Derive() {
	i.StockStatusValue = i.StockStatus()
	i.TotalValue = i.CostPrice.Mul(decimal.NewFromInt(int64(i.Stock)))
	// CURRENT_TIMESTAMP text is UTC in db.TimeFormat.
	if t, err := time.Parse("2006-01-02 15:04:05", i.LastMovementRaw); err == nil {
		i.LastMovement = t
	}
}
