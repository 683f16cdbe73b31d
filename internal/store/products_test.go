package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/trgovina/internal/db"
	"github.com/erazemk/trgovina/internal/model"
)

func TestProductCRUD(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category := seedCategory(t, database, "Drinks")

	memberPrice := decimal.NewFromFloat(8.5)
	created, err := CreateProduct(ctx, database, &model.Product{
		SKU:          "COLA-330",
		Name:         "Cola 330ml",
		CategoryID:   category.ID,
		CostPrice:    decimal.NewFromFloat(3.2),
		SellingPrice: decimal.NewFromInt(10),
		MemberPrice:  decimal.NullDecimal{Decimal: memberPrice, Valid: true},
		MinStock:     5,
		Status:       model.ProductStatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Drinks", created.CategoryName)
	assert.True(t, created.MemberPrice.Decimal.Equal(memberPrice))
	assert.True(t, created.CostPrice.Equal(decimal.NewFromFloat(3.2)))

	bySKU, err := GetProductBySKU(ctx, database, "COLA-330")
	require.NoError(t, err)
	require.NotNil(t, bySKU)
	assert.Equal(t, created.ID, bySKU.ID)

	created.Name = "Cola 330ml Can"
	created.Status = model.ProductStatusInactive
	require.NoError(t, UpdateProduct(ctx, database, created))

	updated, err := GetProduct(ctx, database, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cola 330ml Can", updated.Name)
	assert.Equal(t, model.ProductStatusInactive, updated.Status)

	require.NoError(t, DeleteProduct(ctx, database, created.ID))
	gone, err := GetProduct(ctx, database, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestListProductsPagination(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category := seedCategory(t, database, "Drinks")
	for i := 0; i < 25; i++ {
		seedProduct(t, database, category.ID, fmt.Sprintf("SKU-%02d", i), 0)
	}

	page1, total, err := ListProducts(ctx, database, ProductFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, page1, 10)

	page3, total, err := ListProducts(ctx, database, ProductFilter{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, page3, 5)

	// Defaults kick in for unset paging values.
	defaults, _, err := ListProducts(ctx, database, ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, defaults, DefaultPageSize)
}

func TestListProductsSearch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	drinks := seedCategory(t, database, "Drinks")
	snacks := seedCategory(t, database, "Snacks")
	seedProduct(t, database, drinks.ID, "COLA-330", 0)
	seedProduct(t, database, snacks.ID, "CHIPS-100", 0)

	bySKU, total, err := ListProducts(ctx, database, ProductFilter{Search: "COLA"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "COLA-330", bySKU[0].SKU)

	byCategory, total, err := ListProducts(ctx, database, ProductFilter{CategoryID: snacks.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "CHIPS-100", byCategory[0].SKU)
}

func TestCategoryTree(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	parent := seedCategory(t, database, "Drinks")
	child, err := CreateCategory(ctx, database, "Soda", nil, &parent.ID)
	require.NoError(t, err)
	require.NotNil(t, child.ParentName)
	assert.Equal(t, "Drinks", *child.ParentName)

	seedProduct(t, database, child.ID, "COLA-330", 0)

	child, err = GetCategory(ctx, database, child.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, child.ProductCount)

	children, err := CountCategoryChildren(ctx, database, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, children)
}
