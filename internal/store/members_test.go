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

func TestCreateMemberAssignsMemberNo(t *testing.T) {
	database := db.NewTestDB(t)

	user := seedUser(t, database)
	level := seedLevel(t, database, "Silver")

	alice := seedMember(t, database, level.ID, user.ID, "Alice")
	bob := seedMember(t, database, level.ID, user.ID, "Bob")

	assert.Regexp(t, `^M\d{6}$`, alice.MemberNo)
	assert.Regexp(t, `^M\d{6}$`, bob.MemberNo)
	assert.NotEqual(t, alice.MemberNo, bob.MemberNo)
	assert.Equal(t, "Silver", alice.LevelName)
	assert.Equal(t, user.ID, alice.RegisteredBy)
}

func TestListMembersFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	silver := seedLevel(t, database, "Silver")
	gold := seedLevel(t, database, "Gold")

	alice := seedMember(t, database, silver.ID, user.ID, "Alice")
	seedMember(t, database, gold.ID, user.ID, "Bob")

	byLevel, total, err := ListMembers(ctx, database, MemberFilter{LevelID: silver.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Alice", byLevel[0].Name)

	byNo, total, err := ListMembers(ctx, database, MemberFilter{Search: alice.MemberNo})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, alice.ID, byNo[0].ID)
}

func TestDeleteMemberRemovesPayments(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	level := seedLevel(t, database, "Silver")
	member := seedMember(t, database, level.ID, user.ID, "Alice")

	_, err := CreatePayment(ctx, database, CreatePaymentParams{
		MemberID:    member.ID,
		Amount:      decimal.NewFromInt(99),
		Method:      model.PaymentMethodCash,
		PeriodYears: 1,
	})
	require.NoError(t, err)

	require.NoError(t, DeleteMember(ctx, database, member.ID))

	gone, err := GetMember(ctx, database, member.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	_, total, err := ListPayments(ctx, database, PaymentFilter{MemberID: member.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestCreatePaymentExtendsMembership(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	level := seedLevel(t, database, "Silver")
	member := seedMember(t, database, level.ID, user.ID, "Alice")
	require.Nil(t, member.MembershipExpiry)

	payment, err := CreatePayment(ctx, database, CreatePaymentParams{
		MemberID:    member.ID,
		Amount:      decimal.NewFromInt(99),
		Method:      model.PaymentMethodWechat,
		PeriodYears: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "PAID", payment.Status)
	assert.Equal(t, member.MemberNo, payment.MemberNo)

	// A first payment runs from now for one year.
	member, err = GetMember(ctx, database, member.ID)
	require.NoError(t, err)
	require.NotNil(t, member.MembershipExpiry)
	firstExpiry := *member.MembershipExpiry
	assert.WithinDuration(t, time.Now().AddDate(1, 0, 0), firstExpiry, time.Minute)
	assert.Equal(t, model.MemberStatusActive, member.Status)
	assert.True(t, member.MembershipFee.Decimal.Equal(decimal.NewFromInt(99)))

	// Paying again before expiry extends from the current expiry, not from
	// today.
	_, err = CreatePayment(ctx, database, CreatePaymentParams{
		MemberID:    member.ID,
		Amount:      decimal.NewFromInt(99),
		Method:      model.PaymentMethodWechat,
		PeriodYears: 2,
	})
	require.NoError(t, err)

	member, err = GetMember(ctx, database, member.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, firstExpiry.AddDate(2, 0, 0), *member.MembershipExpiry, time.Minute)
}

func TestCreatePaymentExplicitPeriod(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database)
	level := seedLevel(t, database, "Silver")
	member := seedMember(t, database, level.ID, user.ID, "Alice")

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	payment, err := CreatePayment(ctx, database, CreatePaymentParams{
		MemberID:  member.ID,
		Amount:    decimal.NewFromInt(50),
		Method:    model.PaymentMethodCard,
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	assert.True(t, payment.StartDate.Equal(start))
	assert.True(t, payment.EndDate.Equal(end))
}
