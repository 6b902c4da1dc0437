package types

import (
	"fmt"
	"time"
)

// BillingPeriod is the frequency at which a membership is billed
type BillingPeriod string

const (
	BILLING_PERIOD_WEEKLY    BillingPeriod = "WEEKLY"
	BILLING_PERIOD_MONTHLY   BillingPeriod = "MONTHLY"
	BILLING_PERIOD_QUARTERLY BillingPeriod = "QUARTERLY"
	BILLING_PERIOD_YEARLY    BillingPeriod = "YEARLY"
)

func (p BillingPeriod) Validate() error {
	switch p {
	case BILLING_PERIOD_WEEKLY, BILLING_PERIOD_MONTHLY, BILLING_PERIOD_QUARTERLY, BILLING_PERIOD_YEARLY:
		return nil
	}
	return fmt.Errorf("invalid billing period: %s", p)
}

// NextBillingDate calculates the next billing date based on the given start
// time, billing period, and billing period unit (the frequency multiplier).
// For example:
// - If billing period is MONTHLY and unit is 2, we add two months.
// - If billing period is YEARLY and unit is 1, we add one year.
// - If billing period is WEEKLY and unit is 3, we add 21 days (3 weeks).
// Calendar arithmetic is used throughout so month-end anchors clamp rather
// than roll over (Jan 31 + 1 month = Feb 28/29).
func NextBillingDate(start time.Time, unit int, period BillingPeriod) (time.Time, error) {
	if unit <= 0 {
		return start, fmt.Errorf("billing period unit must be a positive integer, got %d", unit)
	}

	switch period {
	case BILLING_PERIOD_WEEKLY:
		return AddClampedDate(start, 0, 0, 7*unit), nil
	case BILLING_PERIOD_MONTHLY:
		return AddClampedDate(start, 0, unit, 0), nil
	case BILLING_PERIOD_QUARTERLY:
		return AddClampedDate(start, 0, 3*unit, 0), nil
	case BILLING_PERIOD_YEARLY:
		return AddClampedDate(start, unit, 0, 0), nil
	default:
		return start, fmt.Errorf("invalid billing period type: %s", period)
	}
}

// AddClampedDate adds the given years, months and days to t, clamping the
// day-of-month to the last valid day of the target month instead of letting
// it spill into the following month the way time.AddDate does.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	// Find the last valid day of the new month
	firstOfNextMonth := time.Date(newY, newM+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfNextMonth.Add(-24 * time.Hour).Day()

	newD := d + days
	if newD > lastDay && days == 0 {
		newD = lastDay
	}

	return time.Date(newY, newM, newD, h, min, sec, t.Nanosecond(), t.Location())
}

// PreviousBillingDate walks one billing interval backwards from end,
// using the same calendar arithmetic as NextBillingDate.
func PreviousBillingDate(end time.Time, unit int, period BillingPeriod) (time.Time, error) {
	if unit <= 0 {
		return end, fmt.Errorf("billing period unit must be a positive integer, got %d", unit)
	}

	switch period {
	case BILLING_PERIOD_WEEKLY:
		return AddClampedDate(end, 0, 0, -7*unit), nil
	case BILLING_PERIOD_MONTHLY:
		return AddClampedDate(end, 0, -unit, 0), nil
	case BILLING_PERIOD_QUARTERLY:
		return AddClampedDate(end, 0, -3*unit, 0), nil
	case BILLING_PERIOD_YEARLY:
		return AddClampedDate(end, -unit, 0, 0), nil
	default:
		return end, fmt.Errorf("invalid billing period type: %s", period)
	}
}

// CycleLengthDays returns the number of calendar days in the billing cycle
// that starts at cycleStart.
func CycleLengthDays(cycleStart time.Time, unit int, period BillingPeriod) (int, error) {
	cycleEnd, err := NextBillingDate(cycleStart, unit, period)
	if err != nil {
		return 0, err
	}
	return DaysBetween(cycleStart, cycleEnd), nil
}

// DaysBetween counts calendar days between two points in time, normalizing
// both to midnight in their location so DST transitions do not skew the count.
func DaysBetween(start, end time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())

	days := 0
	current := startDay
	for current.Before(endDay) {
		days++
		next := current.Add(24 * time.Hour)
		current = time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, start.Location())
	}

	return days
}
