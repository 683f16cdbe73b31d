package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/erazemk/trgovina/internal/model"
)

// LevelCount is one slice of a member level distribution.
type LevelCount struct {
	Name       string `db:"name" json:"name"`
	Count      int    `db:"count" json:"count"`
	Percentage int    `db:"-" json:"percentage"`
}

// LowStockItem is a product at or below its minimum stock level.
type LowStockItem struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	SKU      string `db:"sku" json:"sku"`
	Stock    int    `db:"stock" json:"stock"`
	MinStock int    `db:"min_stock" json:"min_stock"`
	Category string `db:"category" json:"category"`
	Status   string `db:"-" json:"status"`
}

// DashboardStats is the headline view of the business for the dashboard.
type DashboardStats struct {
	TotalProducts            int             `json:"total_products"`
	TotalMembers             int             `json:"total_members"`
	TodayOrders              int             `json:"today_orders"`
	TodayRevenue             decimal.Decimal `json:"today_revenue"`
	MonthlyMembershipRevenue decimal.Decimal `json:"monthly_membership_revenue"`
	LowStockItems            []LowStockItem  `json:"low_stock_items"`
	RecentMembers            []model.Member  `json:"recent_members"`
	MemberLevelDistribution  []LevelCount    `json:"member_level_distribution"`
}

// GetDashboardStats assembles the dashboard statistics: catalog and member
// totals, today's completed sales, this month's membership revenue, the
// products running low, and the newest members.
func GetDashboardStats(ctx context.Context, db *sqlx.DB) (*DashboardStats, error) {
	stats := &DashboardStats{
		TodayRevenue:             decimal.Zero,
		MonthlyMembershipRevenue: decimal.Zero,
	}

	if err := db.GetContext(ctx, &stats.TotalProducts, `SELECT COUNT(*) FROM products`); err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}
	if err := db.GetContext(ctx, &stats.TotalMembers, `SELECT COUNT(*) FROM members`); err != nil {
		return nil, fmt.Errorf("counting members: %w", err)
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var todayAmounts []decimal.Decimal
	err := db.SelectContext(ctx, &todayAmounts,
		`SELECT total_amount FROM orders
		 WHERE status = 'COMPLETED' AND created_at >= ? AND created_at < ?`,
		formatTime(dayStart), formatTime(dayEnd),
	)
	if err != nil {
		return nil, fmt.Errorf("getting today's orders: %w", err)
	}
	stats.TodayOrders = len(todayAmounts)
	for _, amount := range todayAmounts {
		stats.TodayRevenue = stats.TodayRevenue.Add(amount)
	}

	var monthlyFees []decimal.Decimal
	err = db.SelectContext(ctx, &monthlyFees,
		`SELECT amount FROM membership_payments WHERE created_at >= ?`,
		formatTime(monthStart(now, 0)),
	)
	if err != nil {
		return nil, fmt.Errorf("getting monthly membership payments: %w", err)
	}
	for _, amount := range monthlyFees {
		stats.MonthlyMembershipRevenue = stats.MonthlyMembershipRevenue.Add(amount)
	}

	err = db.SelectContext(ctx, &stats.LowStockItems,
		`SELECT p.id, p.name, p.sku, p.stock, p.min_stock, c.name AS category
		 FROM products p
		 JOIN categories c ON c.id = p.category_id
		 WHERE p.stock <= p.min_stock
		 ORDER BY p.stock ASC
		 LIMIT 10`,
	)
	if err != nil {
		return nil, fmt.Errorf("getting low stock products: %w", err)
	}
	for i := range stats.LowStockItems {
		if stats.LowStockItems[i].Stock == 0 {
			stats.LowStockItems[i].Status = model.StockStatusOut
		} else {
			stats.LowStockItems[i].Status = model.StockStatusLow
		}
	}

	err = db.SelectContext(ctx, &stats.RecentMembers,
		`SELECT `+memberColumns+`
		 FROM members m
		 JOIN member_levels l ON l.id = m.level_id
		 ORDER BY m.created_at DESC, m.id DESC
		 LIMIT 5`,
	)
	if err != nil {
		return nil, fmt.Errorf("getting recent members: %w", err)
	}

	stats.MemberLevelDistribution, err = memberLevelDistribution(ctx, db)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// memberLevelDistribution counts members per level and derives percentages.
func memberLevelDistribution(ctx context.Context, db *sqlx.DB) ([]LevelCount, error) {
	var counts []LevelCount
	err := db.SelectContext(ctx, &counts,
		`SELECT l.name AS name, COUNT(m.id) AS count
		 FROM member_levels l
		 LEFT JOIN members m ON m.level_id = l.id
		 GROUP BY l.id
		 ORDER BY count DESC, l.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("getting member level distribution: %w", err)
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total > 0 {
		for i := range counts {
			counts[i].Percentage = int(float64(counts[i].Count)/float64(total)*100 + 0.5)
		}
	}
	return counts, nil
}

// ProductSales is one row of the best-seller list.
type ProductSales struct {
	ProductID int64           `db:"product_id" json:"product_id"`
	Name      string          `db:"name" json:"name"`
	TotalSold int             `db:"total_sold" json:"total_sold"`
	Revenue   decimal.Decimal `db:"revenue" json:"revenue"`
}

// DailySales is one day of the sales trend.
type DailySales struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
}

// SalesAnalytics summarizes completed sales over an optional date range.
type SalesAnalytics struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalOrders       int             `json:"total_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	TopProducts       []ProductSales  `json:"top_products"`
	SalesTrend        []DailySales    `json:"sales_trend"`
}

// GetSalesAnalytics aggregates completed sale orders: totals, the ten best
// selling products, and a per-day trend. Dates are YYYY-MM-DD and inclusive;
// empty strings mean no bound.
func GetSalesAnalytics(ctx context.Context, db *sqlx.DB, dateFrom, dateTo string) (*SalesAnalytics, error) {
	conds := `o.type = 'SALE' AND o.status = 'COMPLETED'`
	var args []any
	if dateFrom != "" {
		conds += ` AND o.created_at >= ?`
		args = append(args, startOfDay(dateFrom))
	}
	if dateTo != "" {
		conds += ` AND o.created_at <= ?`
		args = append(args, endOfDay(dateTo))
	}

	var rows []struct {
		TotalAmount decimal.Decimal `db:"total_amount"`
		CreatedAt   time.Time       `db:"created_at"`
	}
	err := db.SelectContext(ctx, &rows,
		`SELECT o.total_amount, o.created_at FROM orders o WHERE `+conds+` ORDER BY o.created_at`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("getting sales: %w", err)
	}

	a := &SalesAnalytics{
		TotalSales:        decimal.Zero,
		TotalOrders:       len(rows),
		AverageOrderValue: decimal.Zero,
	}

	// Rows are sorted by creation time, so days come out in order.
	byDay := make(map[string]*DailySales)
	var days []string
	for _, row := range rows {
		a.TotalSales = a.TotalSales.Add(row.TotalAmount)

		day := row.CreatedAt.Format("2006-01-02")
		d, ok := byDay[day]
		if !ok {
			d = &DailySales{Date: day, Sales: decimal.Zero}
			byDay[day] = d
			days = append(days, day)
		}
		d.Sales = d.Sales.Add(row.TotalAmount)
		d.Orders++
	}
	for _, day := range days {
		a.SalesTrend = append(a.SalesTrend, *byDay[day])
	}

	if a.TotalOrders > 0 {
		a.AverageOrderValue = a.TotalSales.Div(decimal.NewFromInt(int64(a.TotalOrders))).Round(2)
	}

	err = db.SelectContext(ctx, &a.TopProducts,
		`SELECT i.product_id, p.name, SUM(i.quantity) AS total_sold,
		        SUM(CAST(i.total_price AS REAL)) AS revenue
		 FROM order_items i
		 JOIN orders o ON o.id = i.order_id
		 JOIN products p ON p.id = i.product_id
		 WHERE `+conds+`
		 GROUP BY i.product_id
		 ORDER BY total_sold DESC
		 LIMIT 10`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("getting top products: %w", err)
	}

	return a, nil
}

// MemberAnalytics summarizes the member base over an optional date range.
type MemberAnalytics struct {
	TotalMembers      int             `json:"total_members"`
	NewMembers        int             `json:"new_members"`
	MembershipRevenue decimal.Decimal `json:"membership_revenue"`
	LevelDistribution []LevelCount    `json:"level_distribution"`
}

// GetMemberAnalytics aggregates member counts, new registrations, and
// membership-fee revenue. The date range only narrows the new member and
// revenue figures; both bounds must be set for it to apply.
func GetMemberAnalytics(ctx context.Context, db *sqlx.DB, dateFrom, dateTo string) (*MemberAnalytics, error) {
	a := &MemberAnalytics{MembershipRevenue: decimal.Zero}

	if err := db.GetContext(ctx, &a.TotalMembers, `SELECT COUNT(*) FROM members`); err != nil {
		return nil, fmt.Errorf("counting members: %w", err)
	}

	ranged := dateFrom != "" && dateTo != ""
	if ranged {
		err := db.GetContext(ctx, &a.NewMembers,
			`SELECT COUNT(*) FROM members WHERE created_at >= ? AND created_at <= ?`,
			startOfDay(dateFrom), endOfDay(dateTo),
		)
		if err != nil {
			return nil, fmt.Errorf("counting new members: %w", err)
		}
	}

	query := `SELECT amount FROM membership_payments`
	var args []any
	if ranged {
		query += ` WHERE created_at >= ? AND created_at <= ?`
		args = append(args, startOfDay(dateFrom), endOfDay(dateTo))
	}
	var amounts []decimal.Decimal
	if err := db.SelectContext(ctx, &amounts, query, args...); err != nil {
		return nil, fmt.Errorf("getting membership payments: %w", err)
	}
	for _, amount := range amounts {
		a.MembershipRevenue = a.MembershipRevenue.Add(amount)
	}

	var err error
	a.LevelDistribution, err = memberLevelDistribution(ctx, db)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// CategoryCount is one slice of a product category distribution.
type CategoryCount struct {
	Name       string `db:"name" json:"name"`
	Count      int    `db:"count" json:"count"`
	Percentage int    `db:"-" json:"percentage"`
}

// InventoryAnalytics summarizes the stock on hand.
type InventoryAnalytics struct {
	TotalProducts        int             `json:"total_products"`
	LowStockCount        int             `json:"low_stock_count"`
	TotalValue           decimal.Decimal `json:"total_value"`
	CategoryDistribution []CategoryCount `json:"category_distribution"`
}

// GetInventoryAnalytics aggregates product counts, low stock warnings, the
// total value of stock at cost, and the category distribution.
func GetInventoryAnalytics(ctx context.Context, db *sqlx.DB) (*InventoryAnalytics, error) {
	a := &InventoryAnalytics{TotalValue: decimal.Zero}

	var rows []struct {
		Stock     int             `db:"stock"`
		MinStock  int             `db:"min_stock"`
		CostPrice decimal.Decimal `db:"cost_price"`
	}
	err := db.SelectContext(ctx, &rows, `SELECT stock, min_stock, cost_price FROM products`)
	if err != nil {
		return nil, fmt.Errorf("getting products: %w", err)
	}

	a.TotalProducts = len(rows)
	for _, row := range rows {
		if row.Stock <= row.MinStock {
			a.LowStockCount++
		}
		a.TotalValue = a.TotalValue.Add(row.CostPrice.Mul(decimal.NewFromInt(int64(row.Stock))))
	}

	var counts []CategoryCount
	err = db.SelectContext(ctx, &counts,
		`SELECT c.name AS name, COUNT(p.id) AS count
		 FROM categories c
		 LEFT JOIN products p ON p.category_id = c.id
		 GROUP BY c.id
		 HAVING count > 0
		 ORDER BY count DESC, c.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("getting category distribution: %w", err)
	}
	if a.TotalProducts > 0 {
		for i := range counts {
			counts[i].Percentage = int(float64(counts[i].Count)/float64(a.TotalProducts)*100 + 0.5)
		}
	}
	a.CategoryDistribution = counts

	return a, nil
}

// CategoryAmount is an amount grouped by finance category.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthlyFinance is one month of the income/expense trend.
type MonthlyFinance struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// FinanceReport is the full income/expense report.
type FinanceReport struct {
	TotalIncome        decimal.Decimal       `json:"total_income"`
	TotalExpense       decimal.Decimal       `json:"total_expense"`
	Profit             decimal.Decimal       `json:"profit"`
	ProfitMargin       decimal.Decimal       `json:"profit_margin"`
	IncomeByCategory   []CategoryAmount      `json:"income_by_category"`
	ExpenseByCategory  []CategoryAmount      `json:"expense_by_category"`
	MonthlyTrend       []MonthlyFinance      `json:"monthly_trend"`
	RecentTransactions []model.FinanceRecord `json:"recent_transactions"`
}

// GetFinanceReport aggregates finance records into totals, per-category
// breakdowns, a six month trend, and the twenty most recent transactions.
// Both date bounds must be set for the range to apply.
func GetFinanceReport(ctx context.Context, db *sqlx.DB, dateFrom, dateTo string) (*FinanceReport, error) {
	query := `SELECT * FROM finance_records`
	var args []any
	if dateFrom != "" && dateTo != "" {
		query += ` WHERE created_at >= ? AND created_at <= ?`
		args = append(args, startOfDay(dateFrom), endOfDay(dateTo))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var records []model.FinanceRecord
	if err := db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("getting finance records: %w", err)
	}

	r := &FinanceReport{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		ProfitMargin: decimal.Zero,
	}

	incomeByCat := make(map[string]decimal.Decimal)
	expenseByCat := make(map[string]decimal.Decimal)
	var incomeCats, expenseCats []string
	for _, rec := range records {
		switch rec.Type {
		case model.FinanceIncome:
			r.TotalIncome = r.TotalIncome.Add(rec.Amount)
			if _, ok := incomeByCat[rec.Category]; !ok {
				incomeCats = append(incomeCats, rec.Category)
			}
			incomeByCat[rec.Category] = incomeByCat[rec.Category].Add(rec.Amount)
		case model.FinanceExpense:
			r.TotalExpense = r.TotalExpense.Add(rec.Amount)
			if _, ok := expenseByCat[rec.Category]; !ok {
				expenseCats = append(expenseCats, rec.Category)
			}
			expenseByCat[rec.Category] = expenseByCat[rec.Category].Add(rec.Amount)
		}
	}

	r.Profit = r.TotalIncome.Sub(r.TotalExpense)
	if r.TotalIncome.IsPositive() {
		r.ProfitMargin = r.Profit.Div(r.TotalIncome).Mul(decimal.NewFromInt(100)).Round(2)
	}

	for _, cat := range incomeCats {
		r.IncomeByCategory = append(r.IncomeByCategory, CategoryAmount{Category: cat, Amount: incomeByCat[cat]})
	}
	for _, cat := range expenseCats {
		r.ExpenseByCategory = append(r.ExpenseByCategory, CategoryAmount{Category: cat, Amount: expenseByCat[cat]})
	}

	// Trend over the last six calendar months, oldest first.
	now := time.Now()
	for i := 5; i >= 0; i-- {
		start := monthStart(now, i)
		end := monthStart(now, i-1)
		month := MonthlyFinance{
			Month:   start.Format("2006-01"),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		for _, rec := range records {
			if rec.CreatedAt.Before(start) || !rec.CreatedAt.Before(end) {
				continue
			}
			if rec.Type == model.FinanceIncome {
				month.Income = month.Income.Add(rec.Amount)
			} else {
				month.Expense = month.Expense.Add(rec.Amount)
			}
		}
		month.Profit = month.Income.Sub(month.Expense)
		r.MonthlyTrend = append(r.MonthlyTrend, month)
	}

	if len(records) > 20 {
		records = records[:20]
	}
	r.RecentTransactions = records

	return r, nil
}
