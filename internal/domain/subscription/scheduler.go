package subscription

import (
	"time"

	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/types"
)

// CancellationPlan is the resolved outcome of a cancellation request: the
// single effective cancellation date and the provider API mode to use.
type CancellationPlan struct {
	// Mode selects between the provider's cancel_at_period_end flag and
	// its cancel_at timestamp.
	Mode types.CancellationMode `json:"mode"`

	// EffectiveDate is when billing actually stops
	EffectiveDate time.Time `json:"effective_date"`

	// MinimumContractEnforced is set when the minimum-contract floor
	// pushed the cancellation past the next billing date, for audit and
	// UI surfacing.
	MinimumContractEnforced bool `json:"minimum_contract_enforced"`
}

// ResolveCancellation computes the effective cancellation date for a
// subscription, honoring a minimum-contract-cycle floor:
//
//	effective = max(nextBillingDate, start + minimumCycles*cycle)
//
// The effective date is never earlier than the next billing date, so a
// cancellation always runs to at least the end of the current period.
func ResolveCancellation(sub *Subscription, nextBillingDate time.Time) (*CancellationPlan, error) {
	if sub == nil {
		return nil, ierr.NewError("subscription is required").
			Mark(ierr.ErrValidation)
	}
	if err := sub.BillingPeriod.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Subscription has an invalid billing period").
			Mark(ierr.ErrValidation)
	}
	if nextBillingDate.IsZero() {
		return nil, ierr.NewError("next billing date is required").
			Mark(ierr.ErrValidation)
	}
	if sub.MinimumCycles < 0 {
		return nil, ierr.NewError("minimum cycles cannot be negative").
			Mark(ierr.ErrValidation)
	}

	unit := sub.BillingPeriodUnit
	if unit <= 0 {
		unit = 1
	}

	if sub.MinimumCycles == 0 {
		return &CancellationPlan{
			Mode:          types.CancellationModeAtPeriodEnd,
			EffectiveDate: nextBillingDate,
		}, nil
	}

	minContractEnd, err := types.NextBillingDate(sub.StartDate, unit*sub.MinimumCycles, sub.BillingPeriod)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to compute minimum contract end date").
			Mark(ierr.ErrValidation)
	}

	if minContractEnd.After(nextBillingDate) {
		return &CancellationPlan{
			Mode:                    types.CancellationModeAtDate,
			EffectiveDate:           minContractEnd,
			MinimumContractEnforced: true,
		}, nil
	}

	// Minimum already satisfied
	return &CancellationPlan{
		Mode:          types.CancellationModeAtPeriodEnd,
		EffectiveDate: nextBillingDate,
	}, nil
}

// ShouldCancelForBillingCount reports whether a subscription's billing
// count has exhausted its configured maximum. Evaluated at webhook
// processing time after each successful recurring payment.
func ShouldCancelForBillingCount(sub *Subscription, billingCount int) bool {
	if sub == nil || sub.MaxBillingCount == nil {
		return false
	}
	return billingCount >= *sub.MaxBillingCount
}
