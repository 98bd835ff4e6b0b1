package loyalty

import (
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Rates holds the loyalty conversion configuration for a store.
// RedemptionRate is the currency value of one point. EarnThreshold is the
// amount of spend that yields EarnRate points.
type Rates struct {
	RedemptionRate decimal.Decimal
	EarnThreshold  decimal.Decimal
	EarnRate       int64
}

// Redemption is the outcome of a redemption computation: how many points
// may be redeemed against a sale and the monetary value they carry.
type Redemption struct {
	Points int64
	Value  decimal.Decimal
}

// ComputeRedemption returns the maximum redeemable points for the given
// balance and sale total. A non-positive redemption rate disables the
// feature and yields zero. The monetary value never exceeds the sale total
// and is always Points * RedemptionRate.
func ComputeRedemption(balance int64, redemptionRate, saleTotal decimal.Decimal) Redemption {
	if redemptionRate.LessThanOrEqual(decimal.Zero) {
		return Redemption{Points: 0, Value: decimal.Zero}
	}
	if balance < 0 {
		balance = 0
	}
	if saleTotal.LessThanOrEqual(decimal.Zero) {
		return Redemption{Points: 0, Value: decimal.Zero}
	}

	byTotal := saleTotal.Div(redemptionRate).Floor().IntPart()
	points := balance
	if byTotal < points {
		points = byTotal
	}

	value := decimal.NewFromInt(points).Mul(redemptionRate)
	if value.GreaterThan(saleTotal) {
		value = saleTotal
	}
	return Redemption{Points: points, Value: value}
}

// ComputeEarn returns the points earned for a completed sale. A
// non-positive earn threshold disables earning and yields zero.
func ComputeEarn(finalTotal, earnThreshold decimal.Decimal, earnRate int64) int64 {
	if earnThreshold.LessThanOrEqual(decimal.Zero) || earnRate <= 0 {
		return 0
	}
	if finalTotal.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return finalTotal.Div(earnThreshold).Floor().IntPart() * earnRate
}

// Account is a customer's loyalty point balance. The balance is never
// negative.
type Account struct {
	Balance int64
}

// NewAccount creates an account, clamping a negative starting balance to
// zero.
func NewAccount(balance int64) Account {
	if balance < 0 {
		balance = 0
	}
	return Account{Balance: balance}
}

// Redeem subtracts points from the balance. Redeeming more than the
// balance is rejected without mutation.
func (a *Account) Redeem(points int64) error {
	if points < 0 {
		return shared.ErrInvalidInput
	}
	if points > a.Balance {
		return shared.ErrInsufficientPoints
	}
	a.Balance -= points
	return nil
}

// Earn adds points to the balance. Negative earns are ignored.
func (a *Account) Earn(points int64) {
	if points <= 0 {
		return
	}
	a.Balance += points
}
