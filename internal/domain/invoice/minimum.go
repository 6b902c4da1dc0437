package invoice

import (
	"github.com/shopspring/decimal"
)

// smallestUnit is one minor currency unit expressed in major units
var smallestUnit = decimal.NewFromFloat(0.01)

// MinimumPayable computes the minimum amount a payer must submit on a
// payment attempt. The configured percentage floor applies only to the
// first payment; once anything has been paid, any positive amount is
// accepted.
func MinimumPayable(total, amountPaid decimal.Decimal, minPercent int) decimal.Decimal {
	if amountPaid.GreaterThan(decimal.Zero) {
		return smallestUnit
	}
	if minPercent <= 0 {
		return smallestUnit
	}
	return total.
		Mul(decimal.NewFromInt(int64(minPercent))).
		Div(decimal.NewFromInt(100)).
		Round(2)
}

// ValidatePaymentAmount checks a submitted amount against the computed
// minimum and the remaining balance.
func ValidatePaymentAmount(amount, total, amountPaid decimal.Decimal, minPercent int) error {
	minimum := MinimumPayable(total, amountPaid, minPercent)
	remaining := total.Sub(amountPaid)

	if amount.LessThan(minimum) {
		return errAmountBelowMinimum(amount, minimum)
	}
	if amount.GreaterThan(remaining) {
		return errAmountAboveRemaining(amount, remaining)
	}
	return nil
}
