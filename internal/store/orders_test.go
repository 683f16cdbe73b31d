package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/trgovina/internal/db"
	"github.com/erazemk/trgovina/internal/model"
)

func TestCreatePurchaseOrderReceived(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	category := seedCategory(t, database, "Drinks")
	cola := seedProduct(t, database, category.ID, "SKU-COLA", 0)
	water := seedProduct(t, database, category.ID, "SKU-WATER", 0)
	supplier := seedSupplier(t, database, "Acme Beverages")

	order, err := CreateOrder(ctx, database, CreateOrderParams{
		Type:       model.OrderTypePurchase,
		Status:     model.OrderStatusReceived,
		SupplierID: &supplier.ID,
		PaidAmount: decimal.Zero,
		OrderDate:  time.Now(),
		UserID:     user.ID,
		Items: []OrderItemParams{
			{ProductID: cola.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(4)},
			{ProductID: water.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.True(t, strings.HasPrefix(order.OrderNo, "PO"))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(50)))
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Acme Beverages", *order.SupplierName)

	// Stock was applied and movements recorded for both items.
	cola, err = GetProduct(ctx, database, cola.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, cola.Stock)

	water, err = GetProduct(ctx, database, water.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, water.Stock)

	movements, total, err := ListMovements(ctx, database, MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, m := range movements {
		assert.Equal(t, model.MovementPurchaseIn, m.Type)
		assert.Contains(t, *m.Reason, order.OrderNo)
	}
}

func TestCreatePendingOrderLeavesStockAlone(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	category := seedCategory(t, database, "Drinks")
	product := seedProduct(t, database, category.ID, "SKU-1", 0)

	order, err := CreateOrder(ctx, database, CreateOrderParams{
		Type:      model.OrderTypePurchase,
		OrderDate: time.Now(),
		UserID:    user.ID,
		Items:     []OrderItemParams{{ProductID: product.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)

	product, err = GetProduct(ctx, database, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)

	_, total, err := ListMovements(ctx, database, MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestSaleInsufficientStockRollsBackEverything(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	category := seedCategory(t, database, "Drinks")
	plenty := seedProduct(t, database, category.ID, "SKU-PLENTY", 100)
	scarce := seedProduct(t, database, category.ID, "SKU-SCARCE", 2)

	_, err := CreateOrder(ctx, database, CreateOrderParams{
		Type:      model.OrderTypeSale,
		Status:    model.OrderStatusCompleted,
		OrderDate: time.Now(),
		UserID:    user.ID,
		Items: []OrderItemParams{
			{ProductID: plenty.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: scarce.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(10)},
		},
	})
	require.Error(t, err)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Stock)
	assert.Equal(t, 5, stockErr.Needed)
	assert.Contains(t, err.Error(), "当前库存: 2，需要: 5")

	// Nothing was written: no order, no movements, untouched stock.
	_, total, err := ListOrders(ctx, database, OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	_, total, err = ListMovements(ctx, database, MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	plenty, err = GetProduct(ctx, database, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, plenty.Stock)
}

func TestSaleFulfillmentAndReversal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	category := seedCategory(t, database, "Drinks")
	product := seedProduct(t, database, category.ID, "SKU-1", 10)

	order, err := CreateOrder(ctx, database, CreateOrderParams{
		Type:      model.OrderTypeSale,
		Status:    model.OrderStatusCompleted,
		OrderDate: time.Now(),
		UserID:    user.ID,
		Items:     []OrderItemParams{{ProductID: product.ID, Quantity: 4, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.OrderNo, "SO"))

	product, err = GetProduct(ctx, database, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, product.Stock)

	// Cancelling the completed sale restores the stock and records a
	// negative SALE_OUT movement.
	updated, err := UpdateOrder(ctx, database, order.ID, UpdateOrderParams{
		Status:     model.OrderStatusCancelled,
		PaidAmount: order.PaidAmount,
		OrderDate:  order.OrderDate,
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, updated.Status)

	product, err = GetProduct(ctx, database, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, product.Stock)

	movements, total, err := ListMovements(ctx, database, MovementFilter{Type: model.MovementSaleOut})
	require.NoError(t, err)
	require.Equal(t, 2, total)

	// Newest first: the reversal row carries a negative quantity.
	assert.Equal(t, -4, movements[0].Quantity)
	assert.Contains(t, *movements[0].Reason, "撤销销售出库")
	assert.Equal(t, 4, movements[1].Quantity)

	// The ledger still sums to the stock delta from the starting level.
	sum, err := SumMovementDelta(ctx, database, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, sum)
}

func TestPurchaseReversalMayGoNegative(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	category := seedCategory(t, database, "Drinks")
	product := seedProduct(t, database, category.ID, "SKU-1", 0)

	order, err := CreateOrder(ctx, database, CreateOrderParams{
		Type:      model.OrderTypePurchase,
		Status:    model.OrderStatusReceived,
		OrderDate: time.Now(),
		UserID:    user.ID,
		Items:     []OrderItemParams{{ProductID: product.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)

	// Sell 3 of the received 5.
	_, err = CreateOrder(ctx, database, CreateOrderParams{
		Type:      model.OrderTypeSale,
		Status:    model.OrderStatusCompleted,
		OrderDate: time.Now(),
		UserID:    user.ID,
		Items:     []OrderItemParams{{ProductID: product.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	// Reverting the purchase is allowed even though it drives stock to -3.
	_, err = UpdateOrder(ctx, database, order.ID, UpdateOrderParams{
		Status:     model.OrderStatusCancelled,
		PaidAmount: decimal.Zero,
		OrderDate:  time.Now(),
	})
	require.NoError(t, err)

	product, err = GetProduct(ctx, database, product.ID)
	require.NoError(t, err)
	assert.Equal(t, -3, product.Stock)

	sum, err := SumMovementDelta(ctx, database, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Stock, sum)
}

func TestStatusShuffleWithoutThresholdIsStockNeutral(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	category := seedCategory(t, database, "Drinks")
	product := seedProduct(t, database, category.ID, "SKU-1", 10)

	order, err := CreateOrder(ctx, database, CreateOrderParams{
		Type:      model.OrderTypeSale,
		OrderDate: time.Now(),
		UserID:    user.ID,
		Items:     []OrderItemParams{{ProductID: product.ID, Quantity: 4, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	for _, status := range []string{model.OrderStatusConfirmed, model.OrderStatusShipped, model.OrderStatusConfirmed} {
		_, err = UpdateOrder(ctx, database, order.ID, UpdateOrderParams{
			Status:     status,
			PaidAmount: decimal.Zero,
			OrderDate:  time.Now(),
		})
		require.NoError(t, err)
	}

	product, err = GetProduct(ctx, database, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, product.Stock)

	_, total, err := ListMovements(ctx, database, MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestDuplicateOrderNoRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	category := seedCategory(t, database, "Drinks")
	product := seedProduct(t, database, category.ID, "SKU-1", 0)

	params := CreateOrderParams{
		OrderNo:   "PO-FIXED",
		Type:      model.OrderTypePurchase,
		OrderDate: time.Now(),
		UserID:    user.ID,
		Items:     []OrderItemParams{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(4)}},
	}
	_, err := CreateOrder(ctx, database, params)
	require.NoError(t, err)

	_, err = CreateOrder(ctx, database, params)
	assert.ErrorIs(t, err, ErrDuplicateOrderNo)
}

func TestDeleteOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	category := seedCategory(t, database, "Drinks")
	product := seedProduct(t, database, category.ID, "SKU-1", 10)

	pending, err := CreateOrder(ctx, database, CreateOrderParams{
		Type:      model.OrderTypeSale,
		OrderDate: time.Now(),
		UserID:    user.ID,
		Items:     []OrderItemParams{{ProductID: product.ID, Quantity: 4, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	completed, err := CreateOrder(ctx, database, CreateOrderParams{
		Type:      model.OrderTypeSale,
		Status:    model.OrderStatusCompleted,
		OrderDate: time.Now(),
		UserID:    user.ID,
		Items:     []OrderItemParams{{ProductID: product.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	// Fulfilled orders are refused.
	err = DeleteOrder(ctx, database, completed.ID)
	assert.ErrorIs(t, err, ErrOrderFulfilled)

	// Pending orders go away together with their items.
	require.NoError(t, DeleteOrder(ctx, database, pending.ID))

	gone, err := GetOrder(ctx, database, pending.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	var itemCount int
	require.NoError(t, database.Get(&itemCount, `SELECT COUNT(*) FROM order_items WHERE order_id = ?`, pending.ID))
	assert.Equal(t, 0, itemCount)
}

func TestListOrdersFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	category := seedCategory(t, database, "Drinks")
	product := seedProduct(t, database, category.ID, "SKU-1", 100)
	supplier := seedSupplier(t, database, "Acme Beverages")
	customer := seedCustomer(t, database, "Walk-in Bob")

	_, err := CreateOrder(ctx, database, CreateOrderParams{
		Type:       model.OrderTypePurchase,
		SupplierID: &supplier.ID,
		OrderDate:  time.Now(),
		UserID:     user.ID,
		Items:      []OrderItemParams{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)

	_, err = CreateOrder(ctx, database, CreateOrderParams{
		Type:       model.OrderTypeSale,
		Status:     model.OrderStatusCompleted,
		CustomerID: &customer.ID,
		OrderDate:  time.Now(),
		UserID:     user.ID,
		Items:      []OrderItemParams{{ProductID: product.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	sales, total, err := ListOrders(ctx, database, OrderFilter{Type: model.OrderTypeSale})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, sales, 1)
	assert.Equal(t, "Walk-in Bob", *sales[0].CustomerName)
	assert.Len(t, sales[0].Items, 1)

	byName, total, err := ListOrders(ctx, database, OrderFilter{Keyword: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, model.OrderTypePurchase, byName[0].Type)

	none, total, err := ListOrders(ctx, database, OrderFilter{DateTo: "2000-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, none)
}
