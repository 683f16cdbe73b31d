package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Member represents a paying member with tiered pricing and a membership that
// expires unless extended by payments.
type Member struct {
	ID               int64               `db:"id" json:"id"`
	MemberNo         string              `db:"member_no" json:"member_no"`
	Name             string              `db:"name" json:"name"`
	Phone            *string             `db:"phone" json:"phone,omitempty"`
	Email            *string             `db:"email" json:"email,omitempty"`
	Gender           *string             `db:"gender" json:"gender,omitempty"`
	Birthday         *time.Time          `db:"birthday" json:"birthday,omitempty"`
	Address          *string             `db:"address" json:"address,omitempty"`
	LevelID          int64               `db:"level_id" json:"level_id"`
	Status           string              `db:"status" json:"status"`
	MembershipFee    decimal.NullDecimal `db:"membership_fee" json:"membership_fee,omitempty"`
	MembershipExpiry *time.Time          `db:"membership_expiry" json:"membership_expiry,omitempty"`
	RegisteredBy     int64               `db:"registered_by" json:"registered_by"`
	CreatedAt        time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at" json:"updated_at"`

	// Joined fields (not always populated).
	LevelName string `db:"level_name" json:"level_name,omitempty"`
}

// Member statuses.
const (
	MemberStatusActive    = "ACTIVE"
	MemberStatusInactive  = "INACTIVE"
	MemberStatusSuspended = "SUSPENDED"
)

// MemberLevel represents a membership tier.
type MemberLevel struct {
	ID            int64               `db:"id" json:"id"`
	Name          string              `db:"name" json:"name"`
	Description   *string             `db:"description" json:"description,omitempty"`
	MinSpent      decimal.Decimal     `db:"min_spent" json:"min_spent"`
	Discount      decimal.Decimal     `db:"discount" json:"discount"`
	MembershipFee decimal.NullDecimal `db:"membership_fee" json:"membership_fee,omitempty"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`

	// Joined fields (not always populated).
	MemberCount int `db:"member_count" json:"member_count"`
}

// MembershipPayment is a ledger row recording one membership-fee payment and
// the period it covers.
type MembershipPayment struct {
	ID        int64           `db:"id" json:"id"`
	MemberID  int64           `db:"member_id" json:"member_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Method    string          `db:"method" json:"method"`
	Status    string          `db:"status" json:"status"`
	StartDate time.Time       `db:"start_date" json:"start_date"`
	EndDate   time.Time       `db:"end_date" json:"end_date"`
	Notes     *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`

	// Joined fields (not always populated).
	MemberName string `db:"member_name" json:"member_name,omitempty"`
	MemberNo   string `db:"member_no" json:"member_no,omitempty"`
}

// Payment methods.
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodAlipay   = "ALIPAY"
	PaymentMethodWechat   = "WECHAT"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodOther    = "OTHER"
)

// ValidPaymentMethod reports whether method is a known payment method.
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodAlipay,
		PaymentMethodWechat, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}
