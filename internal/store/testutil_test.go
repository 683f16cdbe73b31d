package store

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/trgovina/internal/model"
)

func seedUser(t *testing.T, db *sqlx.DB) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), db, "clerk@example.com", "hash", "Clerk", model.RoleUser)
	require.NoError(t, err)
	return u
}

func seedCategory(t *testing.T, db *sqlx.DB, name string) *model.Category {
	t.Helper()
	c, err := CreateCategory(context.Background(), db, name, nil, nil)
	require.NoError(t, err)
	return c
}

func seedProduct(t *testing.T, db *sqlx.DB, categoryID int64, sku string, stock int) *model.Product {
	t.Helper()
	p, err := CreateProduct(context.Background(), db, &model.Product{
		SKU:          sku,
		Name:         "Product " + sku,
		CategoryID:   categoryID,
		CostPrice:    decimal.NewFromInt(5),
		SellingPrice: decimal.NewFromInt(10),
		Stock:        stock,
		MinStock:     2,
		Status:       model.ProductStatusActive,
	})
	require.NoError(t, err)
	return p
}

func seedLevel(t *testing.T, db *sqlx.DB, name string) *model.MemberLevel {
	t.Helper()
	l, err := CreateMemberLevel(context.Background(), db, &model.MemberLevel{
		Name:     name,
		MinSpent: decimal.Zero,
		Discount: decimal.NewFromFloat(0.95),
	})
	require.NoError(t, err)
	return l
}

func seedMember(t *testing.T, db *sqlx.DB, levelID, registeredBy int64, name string) *model.Member {
	t.Helper()
	m, err := CreateMember(context.Background(), db, &model.Member{
		Name:         name,
		LevelID:      levelID,
		Status:       model.MemberStatusActive,
		RegisteredBy: registeredBy,
	})
	require.NoError(t, err)
	return m
}

func seedSupplier(t *testing.T, db *sqlx.DB, name string) *model.Supplier {
	t.Helper()
	s, err := CreateSupplier(context.Background(), db, &model.Supplier{Name: name})
	require.NoError(t, err)
	return s
}

func seedCustomer(t *testing.T, db *sqlx.DB, name string) *model.Customer {
	t.Helper()
	c, err := CreateCustomer(context.Background(), db, &model.Customer{Name: name})
	require.NoError(t, err)
	return c
}
