package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillingPeriodValidate(t *testing.T) {
	assert.NoError(t, BILLING_PERIOD_WEEKLY.Validate())
	assert.NoError(t, BILLING_PERIOD_MONTHLY.Validate())
	assert.NoError(t, BILLING_PERIOD_QUARTERLY.Validate())
	assert.NoError(t, BILLING_PERIOD_YEARLY.Validate())
	assert.Error(t, BillingPeriod("DAILY").Validate())
	assert.Error(t, BillingPeriod("").Validate())
}

func TestNextBillingDate(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		unit    int
		period  BillingPeriod
		want    time.Time
		wantErr bool
	}{
		{
			name:   "monthly mid-month",
			start:  time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_MONTHLY,
			want:   time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "monthly clamps jan 31 to feb 28",
			start:  time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_MONTHLY,
			want:   time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "monthly clamps jan 31 to feb 29 in leap year",
			start:  time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_MONTHLY,
			want:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "monthly with multi-month unit",
			start:  time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC),
			unit:   3,
			period: BILLING_PERIOD_MONTHLY,
			want:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "quarterly is three calendar months",
			start:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_QUARTERLY,
			want:   time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "weekly adds exact days",
			start:  time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC),
			unit:   2,
			period: BILLING_PERIOD_WEEKLY,
			want:   time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "yearly clamps leap day",
			start:  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_YEARLY,
			want:   time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "time of day is preserved",
			start:  time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_MONTHLY,
			want:   time.Date(2025, 4, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name:    "zero unit rejected",
			start:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			unit:    0,
			period:  BILLING_PERIOD_MONTHLY,
			wantErr: true,
		},
		{
			name:    "invalid period rejected",
			start:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			unit:    1,
			period:  BillingPeriod("DAILY"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBillingDate(tt.start, tt.unit, tt.period)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "want %s, got %s", tt.want, got)
		})
	}
}

func TestPreviousBillingDate(t *testing.T) {
	tests := []struct {
		name   string
		end    time.Time
		unit   int
		period BillingPeriod
		want   time.Time
	}{
		{
			name:   "monthly mid-month",
			end:    time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_MONTHLY,
			want:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "monthly clamps mar 31 to feb 28",
			end:    time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_MONTHLY,
			want:   time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "weekly subtracts exact days",
			end:    time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			unit:   2,
			period: BILLING_PERIOD_WEEKLY,
			want:   time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "yearly across year boundary",
			end:    time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			unit:   1,
			period: BILLING_PERIOD_YEARLY,
			want:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PreviousBillingDate(tt.end, tt.unit, tt.period)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "want %s, got %s", tt.want, got)
		})
	}
}

func TestCycleLengthDays(t *testing.T) {
	tests := []struct {
		name       string
		cycleStart time.Time
		unit       int
		period     BillingPeriod
		want       int
	}{
		{
			name:       "31 day month",
			cycleStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			unit:       1,
			period:     BILLING_PERIOD_MONTHLY,
			want:       31,
		},
		{
			name:       "february",
			cycleStart: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			unit:       1,
			period:     BILLING_PERIOD_MONTHLY,
			want:       28,
		},
		{
			name:       "leap february",
			cycleStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			unit:       1,
			period:     BILLING_PERIOD_MONTHLY,
			want:       29,
		},
		{
			name:       "weekly",
			cycleStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			unit:       1,
			period:     BILLING_PERIOD_WEEKLY,
			want:       7,
		},
		{
			name:       "yearly over a leap day",
			cycleStart: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
			unit:       1,
			period:     BILLING_PERIOD_YEARLY,
			want:       366,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CycleLengthDays(tt.cycleStart, tt.unit, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 15, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, DaysBetween(
		time.Date(2025, 3, 15, 23, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 16, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, 10, DaysBetween(
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, DaysBetween(
		time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)))
}
