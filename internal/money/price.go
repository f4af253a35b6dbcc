// Package money holds the fixed-point arithmetic used for balances,
// prices and sale totals. All computation stays in base-10 decimals;
// binary floating point never touches a monetary value.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Scale is the currency's minor-unit precision (cents).
const Scale = 2

var ErrNegativePrice = errors.New("price cannot be negative")

// NewPrice validates and normalizes a monetary value: negative input is
// rejected and the value is rounded to the minor-unit precision half-up.
func NewPrice(value decimal.Decimal) (decimal.Decimal, error) {
	if value.IsNegative() {
		return decimal.Decimal{}, ErrNegativePrice
	}
	// decimal.Round is half-away-from-zero, which equals half-up for the
	// non-negative values allowed here.
	return value.Round(Scale), nil
}

// Total computes unitPrice × quantity exactly, then rounds to the
// minor-unit precision. With a unit price already at Scale the rounding
// is a no-op, so repeated computation never drifts.
func Total(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity)).Round(Scale)
}
