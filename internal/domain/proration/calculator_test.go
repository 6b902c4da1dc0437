package proration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPauseCredit(t *testing.T) {
	calc := NewCalculator()
	ctx := context.Background()

	tests := []struct {
		name              string
		params            PauseParams
		wantCredit        string
		wantCreditedDays  int
		wantSkippedCycles int
		wantErr           bool
	}{
		{
			name: "ten days of a fifty dollar monthly cycle",
			params: PauseParams{
				CyclePrice:    decimal.NewFromInt(50),
				CycleDays:     30,
				PauseDays:     10,
				RemainderDays: 30,
			},
			wantCredit:       "16.67",
			wantCreditedDays: 10,
		},
		{
			name: "pause fits exactly in cycle remainder",
			params: PauseParams{
				CyclePrice:    decimal.NewFromInt(50),
				CycleDays:     30,
				PauseDays:     12,
				RemainderDays: 12,
			},
			wantCredit:       "20.00",
			wantCreditedDays: 12,
		},
		{
			name: "pause spans a whole following cycle",
			params: PauseParams{
				CyclePrice:    decimal.NewFromInt(50),
				CycleDays:     30,
				PauseDays:     40,
				RemainderDays: 10,
			},
			wantCredit:        "16.67",
			wantCreditedDays:  10,
			wantSkippedCycles: 1,
		},
		{
			name: "pause spans two whole cycles with partial remainder",
			params: PauseParams{
				CyclePrice:    decimal.NewFromInt(90),
				CycleDays:     30,
				PauseDays:     65,
				RemainderDays: 5,
			},
			wantCredit:        "15.00",
			wantCreditedDays:  5,
			wantSkippedCycles: 2,
		},
		{
			name: "full cycle remainder earns full price",
			params: PauseParams{
				CyclePrice:    decimal.NewFromInt(30),
				CycleDays:     30,
				PauseDays:     30,
				RemainderDays: 30,
			},
			wantCredit:       "30.00",
			wantCreditedDays: 30,
		},
		{
			name: "zero pause days rejected",
			params: PauseParams{
				CyclePrice:    decimal.NewFromInt(50),
				CycleDays:     30,
				PauseDays:     0,
				RemainderDays: 30,
			},
			wantErr: true,
		},
		{
			name: "negative pause days rejected",
			params: PauseParams{
				CyclePrice:    decimal.NewFromInt(50),
				CycleDays:     30,
				PauseDays:     -3,
				RemainderDays: 30,
			},
			wantErr: true,
		},
		{
			name: "zero cycle days rejected",
			params: PauseParams{
				CyclePrice:    decimal.NewFromInt(50),
				CycleDays:     0,
				PauseDays:     10,
				RemainderDays: 0,
			},
			wantErr: true,
		},
		{
			name: "remainder larger than cycle rejected",
			params: PauseParams{
				CyclePrice:    decimal.NewFromInt(50),
				CycleDays:     30,
				PauseDays:     10,
				RemainderDays: 31,
			},
			wantErr: true,
		},
		{
			name: "negative cycle price rejected",
			params: PauseParams{
				CyclePrice:    decimal.NewFromInt(-50),
				CycleDays:     30,
				PauseDays:     10,
				RemainderDays: 30,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.PauseCredit(ctx, tt.params)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCredit, result.Credit.StringFixed(2))
			assert.Equal(t, tt.wantCreditedDays, result.CreditedDays)
			assert.Equal(t, tt.wantSkippedCycles, result.SkippedCycles)
		})
	}
}

func TestResumeAdjustment(t *testing.T) {
	calc := NewCalculator()
	ctx := context.Background()

	tests := []struct {
		name                 string
		params               ResumeParams
		wantCharge           string
		wantRecomputedCredit string
		wantErr              bool
	}{
		{
			name: "resume after six of ten credited days",
			params: ResumeParams{
				CyclePrice:     decimal.NewFromInt(50),
				CycleDays:      30,
				OriginalCredit: decimal.RequireFromString("16.67"),
				OriginalDays:   10,
				ActualDays:     6,
			},
			wantCharge:           "6.67",
			wantRecomputedCredit: "10.00",
		},
		{
			name: "resume on schedule charges nothing",
			params: ResumeParams{
				CyclePrice:     decimal.NewFromInt(50),
				CycleDays:      30,
				OriginalCredit: decimal.RequireFromString("16.67"),
				OriginalDays:   10,
				ActualDays:     10,
			},
			wantCharge:           "0.00",
			wantRecomputedCredit: "16.67",
		},
		{
			name: "immediate resume claws back the whole credit",
			params: ResumeParams{
				CyclePrice:     decimal.NewFromInt(50),
				CycleDays:      30,
				OriginalCredit: decimal.RequireFromString("16.67"),
				OriginalDays:   10,
				ActualDays:     0,
			},
			wantCharge:           "16.67",
			wantRecomputedCredit: "0.00",
		},
		{
			name: "charge never goes negative on rounding drift",
			params: ResumeParams{
				CyclePrice:     decimal.RequireFromString("9.99"),
				CycleDays:      31,
				OriginalCredit: decimal.RequireFromString("0.32"),
				OriginalDays:   1,
				ActualDays:     1,
			},
			wantCharge:           "0.00",
			wantRecomputedCredit: "0.32",
		},
		{
			name: "actual days beyond schedule rejected",
			params: ResumeParams{
				CyclePrice:     decimal.NewFromInt(50),
				CycleDays:      30,
				OriginalCredit: decimal.RequireFromString("16.67"),
				OriginalDays:   10,
				ActualDays:     11,
			},
			wantErr: true,
		},
		{
			name: "negative actual days rejected",
			params: ResumeParams{
				CyclePrice:     decimal.NewFromInt(50),
				CycleDays:      30,
				OriginalCredit: decimal.RequireFromString("16.67"),
				OriginalDays:   10,
				ActualDays:     -1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.ResumeAdjustment(ctx, tt.params)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCharge, result.Charge.StringFixed(2))
			assert.Equal(t, tt.wantRecomputedCredit, result.RecomputedCredit.StringFixed(2))
		})
	}
}
