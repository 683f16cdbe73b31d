package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/trgovina/internal/db"
	"github.com/erazemk/trgovina/internal/model"
)

func TestAdjustStockModes(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category := seedCategory(t, database, "Drinks")
	product := seedProduct(t, database, category.ID, "SKU-1", 10)

	p, err := AdjustStock(ctx, database, product.ID, AdjustSet, 25, nil)
	require.NoError(t, err)
	assert.Equal(t, 25, p.Stock)

	p, err = AdjustStock(ctx, database, product.ID, AdjustAdd, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 30, p.Stock)

	reason := "damaged goods"
	p, err = AdjustStock(ctx, database, product.ID, AdjustSubtract, 12, &reason)
	require.NoError(t, err)
	assert.Equal(t, 18, p.Stock)

	// Each adjustment left an ADJUST movement carrying the delta.
	movements, total, err := ListMovements(ctx, database, MovementFilter{Type: model.MovementAdjust})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	assert.Equal(t, -12, movements[0].Quantity)
	assert.Equal(t, "damaged goods", *movements[0].Reason)
	assert.Equal(t, 5, movements[1].Quantity)
	assert.Equal(t, 15, movements[2].Quantity)
	assert.Equal(t, "库存调整", *movements[2].Reason)

	sum, err := SumMovementDelta(ctx, database, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, sum) // 15 + 5 - 12, on top of the seeded 10
}

func TestAdjustStockCannotGoNegative(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category := seedCategory(t, database, "Drinks")
	product := seedProduct(t, database, category.ID, "SKU-1", 3)

	_, err := AdjustStock(ctx, database, product.ID, AdjustSubtract, 5, nil)
	assert.ErrorIs(t, err, ErrNegativeStock)

	p, err := GetProduct(ctx, database, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	// The failed adjustment left no movement behind.
	_, total, err := ListMovements(ctx, database, MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestAdjustStockMissingProduct(t *testing.T) {
	database := db.NewTestDB(t)

	p, err := AdjustStock(context.Background(), database, 999, AdjustAdd, 1, nil)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestListInventoryStatusFilter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category := seedCategory(t, database, "Drinks")
	seedProduct(t, database, category.ID, "SKU-OUT", 0)
	seedProduct(t, database, category.ID, "SKU-LOW", 2) // min stock is 2
	seedProduct(t, database, category.ID, "SKU-OK", 50)

	items, total, err := ListInventory(ctx, database, InventoryFilter{StockStatus: model.StockStatusLow})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "SKU-LOW", items[0].SKU)
	assert.Equal(t, model.StockStatusLow, items[0].StockStatusValue)

	items, total, err = ListInventory(ctx, database, InventoryFilter{StockStatus: model.StockStatusOut})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "SKU-OUT", items[0].SKU)

	// Total value is stock at cost; the seeded cost price is 5.
	items, total, err = ListInventory(ctx, database, InventoryFilter{Search: "SKU-OK"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "250", items[0].TotalValue.String())
	assert.Equal(t, "Drinks", items[0].CategoryName)
}

func TestCreateMovementAdjustCannotGoNegative(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category := seedCategory(t, database, "Drinks")
	product := seedProduct(t, database, category.ID, "SKU-1", 2)

	_, err := CreateMovement(ctx, database, product.ID, model.MovementAdjust, -5, nil)
	assert.ErrorIs(t, err, ErrNegativeStock)

	// The refused movement left neither a ledger row nor a stock change.
	p, err := GetProduct(ctx, database, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)

	_, total, err := ListMovements(ctx, database, MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestCreateMovementAdjustUpdatesStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category := seedCategory(t, database, "Drinks")
	product := seedProduct(t, database, category.ID, "SKU-1", 10)

	m, err := CreateMovement(ctx, database, product.ID, model.MovementAdjust, -4, nil)
	require.NoError(t, err)
	assert.Equal(t, -4, m.Quantity)
	assert.Equal(t, "Product SKU-1", m.ProductName)

	p, err := GetProduct(ctx, database, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Stock)

	// Non-ADJUST manual movements are audit entries only.
	_, err = CreateMovement(ctx, database, product.ID, model.MovementTransfer, 3, nil)
	require.NoError(t, err)

	p, err = GetProduct(ctx, database, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Stock)
}
