package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinanceRecord is a single income or expense entry, optionally traceable to
// an order.
type FinanceRecord struct {
	ID          int64           `db:"id" json:"id"`
	Type        string          `db:"type" json:"type"`
	Category    string          `db:"category" json:"category"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Description *string         `db:"description" json:"description,omitempty"`
	OrderID     *int64          `db:"order_id" json:"order_id,omitempty"`
	RecordDate  time.Time       `db:"record_date" json:"record_date"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Finance record types.
const (
	FinanceIncome  = "INCOME"
	FinanceExpense = "EXPENSE"
)
