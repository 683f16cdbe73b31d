package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/trgovina/internal/db"
	"github.com/erazemk/trgovina/internal/model"
)

func TestGetDashboardStats(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	category := seedCategory(t, database, "Drinks")
	product := seedProduct(t, database, category.ID, "SKU-1", 100)
	low := seedProduct(t, database, category.ID, "SKU-LOW", 1)
	level := seedLevel(t, database, "Silver")
	member := seedMember(t, database, level.ID, user.ID, "Alice")

	_, err := CreateOrder(ctx, database, CreateOrderParams{
		Type:      model.OrderTypeSale,
		Status:    model.OrderStatusCompleted,
		MemberID:  &member.ID,
		OrderDate: time.Now(),
		UserID:    user.ID,
		Items:     []OrderItemParams{{ProductID: product.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	_, err = CreatePayment(ctx, database, CreatePaymentParams{
		MemberID:    member.ID,
		Amount:      decimal.NewFromInt(99),
		Method:      model.PaymentMethodCash,
		PeriodYears: 1,
	})
	require.NoError(t, err)

	stats, err := GetDashboardStats(ctx, database)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 1, stats.TotalMembers)
	assert.Equal(t, 1, stats.TodayOrders)
	assert.True(t, stats.TodayRevenue.Equal(decimal.NewFromInt(30)))
	assert.True(t, stats.MonthlyMembershipRevenue.Equal(decimal.NewFromInt(99)))

	require.Len(t, stats.LowStockItems, 1)
	assert.Equal(t, low.SKU, stats.LowStockItems[0].SKU)
	assert.Equal(t, model.StockStatusLow, stats.LowStockItems[0].Status)

	require.Len(t, stats.RecentMembers, 1)
	assert.Equal(t, "Alice", stats.RecentMembers[0].Name)

	require.Len(t, stats.MemberLevelDistribution, 1)
	assert.Equal(t, 100, stats.MemberLevelDistribution[0].Percentage)
}

func TestGetSalesAnalytics(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	category := seedCategory(t, database, "Drinks")
	cola := seedProduct(t, database, category.ID, "SKU-COLA", 100)
	water := seedProduct(t, database, category.ID, "SKU-WATER", 100)

	for i := 0; i < 2; i++ {
		_, err := CreateOrder(ctx, database, CreateOrderParams{
			Type:      model.OrderTypeSale,
			Status:    model.OrderStatusCompleted,
			OrderDate: time.Now(),
			UserID:    user.ID,
			Items: []OrderItemParams{
				{ProductID: cola.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(10)},
				{ProductID: water.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(4)},
			},
		})
		require.NoError(t, err)
	}

	// Pending sales don't count.
	_, err := CreateOrder(ctx, database, CreateOrderParams{
		Type:      model.OrderTypeSale,
		OrderDate: time.Now(),
		UserID:    user.ID,
		Items:     []OrderItemParams{{ProductID: cola.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	a, err := GetSalesAnalytics(ctx, database, "", "")
	require.NoError(t, err)

	assert.Equal(t, 2, a.TotalOrders)
	assert.True(t, a.TotalSales.Equal(decimal.NewFromInt(108)))
	assert.True(t, a.AverageOrderValue.Equal(decimal.NewFromInt(54)))

	require.Len(t, a.TopProducts, 2)
	assert.Equal(t, cola.ID, a.TopProducts[0].ProductID)
	assert.Equal(t, 10, a.TopProducts[0].TotalSold)

	require.Len(t, a.SalesTrend, 1)
	assert.Equal(t, 2, a.SalesTrend[0].Orders)

	// A range in the past excludes everything.
	empty, err := GetSalesAnalytics(ctx, database, "2000-01-01", "2000-12-31")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalOrders)
	assert.Empty(t, empty.TopProducts)
}

func TestGetFinanceReport(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	now := time.Now()
	for _, rec := range []model.FinanceRecord{
		{Type: model.FinanceIncome, Category: "销售收入", Amount: decimal.NewFromInt(500), RecordDate: now},
		{Type: model.FinanceIncome, Category: "会员费", Amount: decimal.NewFromInt(99), RecordDate: now},
		{Type: model.FinanceExpense, Category: "采购支出", Amount: decimal.NewFromInt(200), RecordDate: now},
	} {
		_, err := CreateFinanceRecord(ctx, database, &rec)
		require.NoError(t, err)
	}

	r, err := GetFinanceReport(ctx, database, "", "")
	require.NoError(t, err)

	assert.True(t, r.TotalIncome.Equal(decimal.NewFromInt(599)))
	assert.True(t, r.TotalExpense.Equal(decimal.NewFromInt(200)))
	assert.True(t, r.Profit.Equal(decimal.NewFromInt(399)))
	assert.Len(t, r.IncomeByCategory, 2)
	assert.Len(t, r.ExpenseByCategory, 1)
	assert.Len(t, r.MonthlyTrend, 6)
	assert.Len(t, r.RecentTransactions, 3)

	// The current month carries the whole profit.
	last := r.MonthlyTrend[5]
	assert.True(t, last.Profit.Equal(decimal.NewFromInt(399)))
}

func TestGetMemberAnalytics(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	silver := seedLevel(t, database, "Silver")
	gold := seedLevel(t, database, "Gold")
	seedMember(t, database, silver.ID, user.ID, "Alice")
	seedMember(t, database, silver.ID, user.ID, "Bob")
	carol := seedMember(t, database, gold.ID, user.ID, "Carol")

	_, err := CreatePayment(ctx, database, CreatePaymentParams{
		MemberID:    carol.ID,
		Amount:      decimal.NewFromInt(199),
		Method:      model.PaymentMethodCash,
		PeriodYears: 1,
	})
	require.NoError(t, err)

	a, err := GetMemberAnalytics(ctx, database, "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, a.TotalMembers)
	assert.Equal(t, 0, a.NewMembers) // range not set
	assert.True(t, a.MembershipRevenue.Equal(decimal.NewFromInt(199)))

	require.Len(t, a.LevelDistribution, 2)
	assert.Equal(t, "Silver", a.LevelDistribution[0].Name)
	assert.Equal(t, 67, a.LevelDistribution[0].Percentage)

	today := time.Now().Format("2006-01-02")
	ranged, err := GetMemberAnalytics(ctx, database, today, today)
	require.NoError(t, err)
	assert.Equal(t, 3, ranged.NewMembers)
}

func TestGetInventoryAnalytics(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	drinks := seedCategory(t, database, "Drinks")
	snacks := seedCategory(t, database, "Snacks")
	seedProduct(t, database, drinks.ID, "SKU-1", 10) // value 50 at cost 5
	seedProduct(t, database, drinks.ID, "SKU-2", 0)  // low stock
	seedProduct(t, database, snacks.ID, "SKU-3", 4)  // value 20

	a, err := GetInventoryAnalytics(ctx, database)
	require.NoError(t, err)

	assert.Equal(t, 3, a.TotalProducts)
	assert.Equal(t, 1, a.LowStockCount)
	assert.True(t, a.TotalValue.Equal(decimal.NewFromInt(70)))

	require.Len(t, a.CategoryDistribution, 2)
	assert.Equal(t, "Drinks", a.CategoryDistribution[0].Name)
	assert.Equal(t, 2, a.CategoryDistribution[0].Count)
	assert.Equal(t, 67, a.CategoryDistribution[0].Percentage)
}
