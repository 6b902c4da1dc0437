package proration

import (
	"context"

	"github.com/shopspring/decimal"

	ierr "github.com/venuebill/venuebill/internal/errors"
)

// Calculator computes day-prorated pause credits and early-resume
// adjustments for membership billing.
type Calculator interface {
	PauseCredit(ctx context.Context, params PauseParams) (*PauseResult, error)
	ResumeAdjustment(ctx context.Context, params ResumeParams) (*ResumeResult, error)
}

// NewCalculator creates the day-based proration calculator.
func NewCalculator() Calculator {
	return &dayBasedCalculator{}
}

// dayBasedCalculator implements day-based proration: each pause day inside
// the current cycle earns cyclePrice / cycleDays.
type dayBasedCalculator struct{}

func (c *dayBasedCalculator) PauseCredit(ctx context.Context, params PauseParams) (*PauseResult, error) {
	if err := validatePauseParams(params); err != nil {
		return nil, err
	}

	// Days inside the current cycle earn a credit; the rest of the pause
	// skips whole cycles with no charge and no separate credit.
	creditedDays := params.PauseDays
	skippedCycles := 0
	if params.PauseDays > params.RemainderDays {
		creditedDays = params.RemainderDays
		skippedCycles = (params.PauseDays - params.RemainderDays) / params.CycleDays
	}

	return &PauseResult{
		Credit:        dailyCredit(params.CyclePrice, params.CycleDays, creditedDays),
		CreditedDays:  creditedDays,
		SkippedCycles: skippedCycles,
	}, nil
}

func (c *dayBasedCalculator) ResumeAdjustment(ctx context.Context, params ResumeParams) (*ResumeResult, error) {
	if err := validateResumeParams(params); err != nil {
		return nil, err
	}

	// Claw back the excess credit instead of reversing and reapplying:
	// charge = originalCredit - credit(actualDays).
	recomputed := dailyCredit(params.CyclePrice, params.CycleDays, params.ActualDays)
	charge := params.OriginalCredit.Sub(recomputed)
	if charge.LessThan(decimal.Zero) {
		charge = decimal.Zero
	}

	return &ResumeResult{
		Charge:           charge,
		RecomputedCredit: recomputed,
	}, nil
}

// dailyCredit computes days x (cyclePrice / cycleDays), rounded to currency
// precision only at the end.
func dailyCredit(cyclePrice decimal.Decimal, cycleDays, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return cyclePrice.
		Div(decimal.NewFromInt(int64(cycleDays))).
		Mul(decimal.NewFromInt(int64(days))).
		Round(2)
}

func validatePauseParams(params PauseParams) error {
	if params.PauseDays <= 0 {
		// No-op pauses are not permitted.
		return ierr.NewError("pause days must be positive").
			WithHintf("A pause of %d days is not permitted", params.PauseDays).
			Mark(ierr.ErrValidation)
	}
	if params.CycleDays <= 0 {
		return ierr.NewError("cycle length must be positive").
			WithHintf("Invalid billing cycle length: %d days", params.CycleDays).
			Mark(ierr.ErrValidation)
	}
	if params.RemainderDays < 0 || params.RemainderDays > params.CycleDays {
		return ierr.NewError("invalid cycle remainder").
			WithHintf("Remainder of %d days does not fit a %d day cycle", params.RemainderDays, params.CycleDays).
			Mark(ierr.ErrValidation)
	}
	if params.CyclePrice.LessThan(decimal.Zero) {
		return ierr.NewError("cycle price cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func validateResumeParams(params ResumeParams) error {
	if params.CycleDays <= 0 {
		return ierr.NewError("cycle length must be positive").
			WithHintf("Invalid billing cycle length: %d days", params.CycleDays).
			Mark(ierr.ErrValidation)
	}
	if params.ActualDays < 0 {
		return ierr.NewError("actual paused days cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if params.ActualDays > params.OriginalDays {
		return ierr.NewError("actual paused days exceed scheduled pause").
			WithHintf("Resumed after %d days but only %d were scheduled", params.ActualDays, params.OriginalDays).
			Mark(ierr.ErrValidation)
	}
	if params.OriginalCredit.LessThan(decimal.Zero) {
		return ierr.NewError("original credit cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}
