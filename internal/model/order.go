package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a purchase, sale, or return order together with its line
// items. Status transitions across the fulfillment threshold of the order's
// type trigger stock side effects (see FulfillmentEffect).
type Order struct {
	ID          int64           `db:"id" json:"id"`
	OrderNo     string          `db:"order_no" json:"order_no"`
	Type        string          `db:"type" json:"type"`
	Status      string          `db:"status" json:"status"`
	SupplierID  *int64          `db:"supplier_id" json:"supplier_id,omitempty"`
	CustomerID  *int64          `db:"customer_id" json:"customer_id,omitempty"`
	MemberID    *int64          `db:"member_id" json:"member_id,omitempty"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaidAmount  decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	OrderDate   time.Time       `db:"order_date" json:"order_date"`
	UserID      int64           `db:"user_id" json:"user_id"`
	Notes       *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`

	// Joined fields (not always populated).
	SupplierName *string `db:"supplier_name" json:"supplier_name,omitempty"`
	CustomerName *string `db:"customer_name" json:"customer_name,omitempty"`
	MemberName   *string `db:"member_name" json:"member_name,omitempty"`
	UserName     *string `db:"user_name" json:"user_name,omitempty"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem is a single order line. Immutable once the order is fulfilled.
type OrderItem struct {
	ID         int64           `db:"id" json:"id"`
	OrderID    int64           `db:"order_id" json:"order_id"`
	ProductID  int64           `db:"product_id" json:"product_id"`
	Quantity   int             `db:"quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalPrice decimal.Decimal `db:"total_price" json:"total_price"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`

	// Joined fields (not always populated).
	ProductName string `db:"product_name" json:"product_name,omitempty"`
	ProductSKU  string `db:"product_sku" json:"product_sku,omitempty"`
}

// Order types.
const (
	OrderTypePurchase = "PURCHASE"
	OrderTypeSale     = "SALE"
	OrderTypeReturn   = "RETURN"
)

// Order statuses. Purchase orders use PENDING/CONFIRMED/RECEIVED/CANCELLED,
// sale and return orders use PENDING/CONFIRMED/SHIPPED/COMPLETED/CANCELLED.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusReceived  = "RECEIVED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// ValidOrderType reports whether typ is a known order type.
func ValidOrderType(typ string) bool {
	return typ == OrderTypePurchase || typ == OrderTypeSale || typ == OrderTypeReturn
}

// ValidOrderStatus reports whether status is allowed for the given order type.
func ValidOrderStatus(typ, status string) bool {
	switch typ {
	case OrderTypePurchase:
		switch status {
		case OrderStatusPending, OrderStatusConfirmed, OrderStatusReceived, OrderStatusCancelled:
			return true
		}
	case OrderTypeSale, OrderTypeReturn:
		switch status {
		case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
			OrderStatusCompleted, OrderStatusCancelled:
			return true
		}
	}
	return false
}

// StockEffect is the inventory side effect of an order status transition.
type StockEffect int

const (
	// StockEffectNone means the transition does not touch inventory.
	StockEffectNone StockEffect = iota
	// StockEffectApply means the order's stock deltas must be applied.
	StockEffectApply
	// StockEffectReverse means previously applied deltas must be compensated.
	StockEffectReverse
)

// fulfillmentStatus returns the single status value at which an order of the
// given type affects inventory. Return orders never do.
func fulfillmentStatus(typ string) string {
	switch typ {
	case OrderTypePurchase:
		return OrderStatusReceived
	case OrderTypeSale:
		return OrderStatusCompleted
	}
	return ""
}

// IsFulfilled reports whether an order of the given type has crossed into its
// inventory-affecting status.
func IsFulfilled(typ, status string) bool {
	f := fulfillmentStatus(typ)
	return f != "" && status == f
}

// FulfillmentEffect computes the stock side effect of moving an order of the
// given type from oldStatus to newStatus. Only transitions that cross the
// type's fulfillment threshold have an effect; every other transition,
// including PENDING<->CONFIRMED shuffling, is stock-neutral. For order
// creation pass the empty string as oldStatus.
func FulfillmentEffect(typ, oldStatus, newStatus string) StockEffect {
	was := IsFulfilled(typ, oldStatus)
	is := IsFulfilled(typ, newStatus)
	switch {
	case !was && is:
		return StockEffectApply
	case was && !is:
		return StockEffectReverse
	}
	return StockEffectNone
}
