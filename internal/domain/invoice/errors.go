package invoice

import (
	"github.com/shopspring/decimal"

	ierr "github.com/venuebill/venuebill/internal/errors"
)

func errAmountBelowMinimum(amount, minimum decimal.Decimal) error {
	return ierr.NewError("payment amount below minimum").
		WithHintf("The minimum payment for this invoice is %s", minimum.StringFixed(2)).
		WithReportableDetails(map[string]any{
			"amount":  amount.StringFixed(2),
			"minimum": minimum.StringFixed(2),
		}).
		Mark(ierr.ErrValidation)
}

func errAmountAboveRemaining(amount, remaining decimal.Decimal) error {
	return ierr.NewError("payment amount exceeds remaining balance").
		WithHintf("The remaining balance on this invoice is %s", remaining.StringFixed(2)).
		WithReportableDetails(map[string]any{
			"amount":    amount.StringFixed(2),
			"remaining": remaining.StringFixed(2),
		}).
		Mark(ierr.ErrValidation)
}
