package model

import "time"

// StockMovement is an append-only audit record of a stock-affecting event.
// Quantity is positive for normal entries and negative for reversals; the
// direction of the stock change is carried by the movement type (see
// SignedDelta).
type StockMovement struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Type      string    `db:"type" json:"type"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	OrderID   *int64    `db:"order_id" json:"order_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined fields (not always populated).
	ProductName string  `db:"product_name" json:"product_name,omitempty"`
	ProductSKU  string  `db:"product_sku" json:"product_sku,omitempty"`
	OrderNo     *string `db:"order_no" json:"order_no,omitempty"`
}

// Stock movement types.
const (
	MovementPurchaseIn = "PURCHASE_IN"
	MovementSaleOut    = "SALE_OUT"
	MovementReturnIn   = "RETURN_IN"
	MovementReturnOut  = "RETURN_OUT"
	MovementAdjust     = "ADJUST"
	MovementTransfer   = "TRANSFER"
)

// ValidMovementType reports whether typ is a known stock movement type.
func ValidMovementType(typ string) bool {
	switch typ {
	case MovementPurchaseIn, MovementSaleOut, MovementReturnIn,
		MovementReturnOut, MovementAdjust, MovementTransfer:
		return true
	}
	return false
}

// SignedDelta returns the movement's effect on stock: quantity for inbound
// and adjustment types, negated quantity for outbound types. Summed over the
// movements written by order fulfillment and stock adjustments, the deltas
// reproduce the product's stock level; manual audit-only entries are not part
// of that balance.
func (m *StockMovement) SignedDelta() int {
	switch m.Type {
	case MovementSaleOut, MovementReturnOut:
		return -m.Quantity
	}
	return m.Quantity
}
