package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/venuebill/venuebill/internal/types"
	"github.com/venuebill/venuebill/internal/validator"
)

// PauseMembershipRequest pauses billing for a number of days
type PauseMembershipRequest struct {
	PauseDays int `json:"pause_days" validate:"required,gt=0"`
}

func (r *PauseMembershipRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// PauseMembershipResponse reports the issued credit and pause window
type PauseMembershipResponse struct {
	PauseID       string          `json:"pause_id"`
	Credit        decimal.Decimal `json:"credit"`
	CreditedDays  int             `json:"credited_days"`
	SkippedCycles int             `json:"skipped_cycles"`
	ResumesAt     time.Time       `json:"resumes_at"`
}

// ResumeMembershipResponse reports the early-resume clawback, if any
type ResumeMembershipResponse struct {
	Charge           decimal.Decimal `json:"charge"`
	RecomputedCredit decimal.Decimal `json:"recomputed_credit"`
	ActualDays       int             `json:"actual_days"`
}

// CancelMembershipResponse reports the resolved cancellation plan
type CancelMembershipResponse struct {
	Mode                    types.CancellationMode `json:"mode"`
	EffectiveDate           time.Time              `json:"effective_date"`
	MinimumContractEnforced bool                   `json:"minimum_contract_enforced"`
}

// ReactivateMembershipResponse reports the post-reactivation state
type ReactivateMembershipResponse struct {
	MembershipID string                 `json:"membership_id"`
	Status       types.MembershipStatus `json:"status"`

	// AlreadyActive is set when reactivation was a no-op
	AlreadyActive bool `json:"already_active"`
}
