package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFulfillmentEffect(t *testing.T) {
	tests := []struct {
		name      string
		typ       string
		oldStatus string
		newStatus string
		want      StockEffect
	}{
		{"purchase created received", OrderTypePurchase, "", OrderStatusReceived, StockEffectApply},
		{"purchase created pending", OrderTypePurchase, "", OrderStatusPending, StockEffectNone},
		{"purchase confirmed to received", OrderTypePurchase, OrderStatusConfirmed, OrderStatusReceived, StockEffectApply},
		{"purchase received to cancelled", OrderTypePurchase, OrderStatusReceived, OrderStatusCancelled, StockEffectReverse},
		{"purchase received stays received", OrderTypePurchase, OrderStatusReceived, OrderStatusReceived, StockEffectNone},
		{"purchase pending to confirmed", OrderTypePurchase, OrderStatusPending, OrderStatusConfirmed, StockEffectNone},
		{"sale created completed", OrderTypeSale, "", OrderStatusCompleted, StockEffectApply},
		{"sale confirmed to completed", OrderTypeSale, OrderStatusConfirmed, OrderStatusCompleted, StockEffectApply},
		{"sale completed to cancelled", OrderTypeSale, OrderStatusCompleted, OrderStatusCancelled, StockEffectReverse},
		{"sale shipped to confirmed", OrderTypeSale, OrderStatusShipped, OrderStatusConfirmed, StockEffectNone},
		{"return never affects stock", OrderTypeReturn, OrderStatusPending, OrderStatusCompleted, StockEffectNone},
		{"return reversal never happens", OrderTypeReturn, OrderStatusCompleted, OrderStatusCancelled, StockEffectNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FulfillmentEffect(tt.typ, tt.oldStatus, tt.newStatus))
		})
	}
}

func TestFulfillmentReversalSymmetry(t *testing.T) {
	// Crossing out of and back into the fulfilled state must produce
	// exactly one Reverse and one Apply, regardless of the intermediate
	// status touched.
	for _, intermediate := range []string{OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled} {
		assert.Equal(t, StockEffectReverse, FulfillmentEffect(OrderTypePurchase, OrderStatusReceived, intermediate))
		assert.Equal(t, StockEffectApply, FulfillmentEffect(OrderTypePurchase, intermediate, OrderStatusReceived))
	}
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderTypePurchase, OrderStatusReceived))
	assert.False(t, ValidOrderStatus(OrderTypePurchase, OrderStatusShipped))
	assert.False(t, ValidOrderStatus(OrderTypePurchase, OrderStatusCompleted))
	assert.True(t, ValidOrderStatus(OrderTypeSale, OrderStatusShipped))
	assert.False(t, ValidOrderStatus(OrderTypeSale, OrderStatusReceived))
	assert.True(t, ValidOrderStatus(OrderTypeReturn, OrderStatusCompleted))
	assert.False(t, ValidOrderStatus("UNKNOWN", OrderStatusPending))
}

func TestMovementSignedDelta(t *testing.T) {
	tests := []struct {
		typ      string
		quantity int
		want     int
	}{
		{MovementPurchaseIn, 5, 5},
		{MovementPurchaseIn, -5, -5}, // purchase reversal
		{MovementSaleOut, 3, -3},
		{MovementSaleOut, -3, 3}, // sale reversal
		{MovementReturnIn, 2, 2},
		{MovementReturnOut, 2, -2},
		{MovementAdjust, -4, -4},
		{MovementTransfer, 1, 1},
	}
	for _, tt := range tests {
		m := StockMovement{Type: tt.typ, Quantity: tt.quantity}
		assert.Equal(t, tt.want, m.SignedDelta(), "type %s qty %d", tt.typ, tt.quantity)
	}
}
