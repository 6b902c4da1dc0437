package proration

import (
	"github.com/shopspring/decimal"
)

// PauseParams holds the input for a pause credit calculation.
type PauseParams struct {
	// CyclePrice is the recurring price of one full billing cycle
	CyclePrice decimal.Decimal

	// CycleDays is the length of the billing cycle in calendar days
	CycleDays int

	// PauseDays is the total requested pause length in days
	PauseDays int

	// RemainderDays is the number of days left in the current billing
	// cycle measured from the pause start. Only days inside the current
	// cycle earn a credit; later cycles are skipped whole.
	RemainderDays int
}

// PauseResult holds the output of a pause credit calculation.
type PauseResult struct {
	// Credit is the day-prorated credit for the pause days that fall in
	// the current cycle, rounded to currency precision.
	Credit decimal.Decimal `json:"credit"`

	// CreditedDays is the number of pause days the credit covers
	CreditedDays int `json:"credited_days"`

	// SkippedCycles is the number of subsequent whole cycles the pause
	// spans. Skipped cycles carry no charge and no separate credit.
	SkippedCycles int `json:"skipped_cycles"`
}

// ResumeParams holds the input for an early-resume adjustment.
type ResumeParams struct {
	CyclePrice decimal.Decimal
	CycleDays  int

	// OriginalCredit is the credit issued when the pause was scheduled
	OriginalCredit decimal.Decimal

	// OriginalDays is the credited day count of the scheduled pause
	OriginalDays int

	// ActualDays is the number of days actually paused within the current
	// cycle, after the early resume
	ActualDays int
}

// ResumeResult holds the output of an early-resume adjustment.
type ResumeResult struct {
	// Charge claws back the excess credit: original credit minus the
	// credit recomputed over the actual paused days. Never negative for
	// a genuine early resume.
	Charge decimal.Decimal `json:"charge"`

	// RecomputedCredit is the credit the actual paused days would earn
	RecomputedCredit decimal.Decimal `json:"recomputed_credit"`
}
