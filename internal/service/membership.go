package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/venuebill/venuebill/internal/api/dto"
	"github.com/venuebill/venuebill/internal/domain/membership"
	"github.com/venuebill/venuebill/internal/domain/proration"
	"github.com/venuebill/venuebill/internal/domain/subscription"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/idempotency"
	"github.com/venuebill/venuebill/internal/types"
)

// MembershipService drives the membership billing lifecycle: pausing with
// a prorated credit, resuming with an early-resume clawback, scheduling
// cancellations against the minimum contract, and reactivating scheduled
// cancellations.
//
// Provider calls always come first; local state is mutated only after the
// provider accepted the change, so a provider failure leaves the local
// record untouched.
type MembershipService interface {
	Pause(ctx context.Context, membershipID string, req *dto.PauseMembershipRequest) (*dto.PauseMembershipResponse, error)
	Resume(ctx context.Context, membershipID string) (*dto.ResumeMembershipResponse, error)
	Cancel(ctx context.Context, membershipID string) (*dto.CancelMembershipResponse, error)
	Reactivate(ctx context.Context, membershipID string) (*dto.ReactivateMembershipResponse, error)
}

type membershipService struct {
	ServiceParams
	calculator      proration.Calculator
	settingsService SettingsService
	idempotency     *idempotency.Generator
}

// NewMembershipService creates a new membership service
func NewMembershipService(params ServiceParams, calculator proration.Calculator, settingsService SettingsService) MembershipService {
	return &membershipService{
		ServiceParams:   params,
		calculator:      calculator,
		settingsService: settingsService,
		idempotency:     idempotency.NewGenerator(),
	}
}

func (s *membershipService) Pause(ctx context.Context, membershipID string, req *dto.PauseMembershipRequest) (*dto.PauseMembershipResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.MembershipRepo.Get(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if m.MembershipStatus != types.MembershipStatusActive {
		return nil, ierr.NewError("membership is not active").
			WithHintf("Cannot pause a membership in status %s", m.MembershipStatus).
			Mark(ierr.ErrInvalidOperation)
	}
	if _, err := s.MembershipRepo.GetActivePause(ctx, membershipID); err == nil {
		return nil, ierr.NewError("membership is already paused").
			WithHint("Resume the current pause before scheduling another").
			Mark(ierr.ErrInvalidOperation)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	now := time.Now().UTC()
	cycleDays, remainderDays, err := s.cycleBounds(m, now)
	if err != nil {
		return nil, err
	}

	result, err := s.calculator.PauseCredit(ctx, proration.PauseParams{
		CyclePrice:    m.CyclePrice,
		CycleDays:     cycleDays,
		PauseDays:     req.PauseDays,
		RemainderDays: remainderDays,
	})
	if err != nil {
		return nil, err
	}

	bs, err := s.settingsService.GetOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	resumesAt := now.AddDate(0, 0, req.PauseDays)
	if err := s.StripeSubscription.PauseCollection(ctx, bs.ConnectedAccountID, m.ProviderSubscriptionID, resumesAt); err != nil {
		return nil, err
	}

	pause := &membership.Pause{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_MEMBERSHIP_PAUSE),
		MembershipID:  m.ID,
		PausedAt:      now,
		ResumesAt:     resumesAt,
		PauseDays:     req.PauseDays,
		CreditedDays:  result.CreditedDays,
		Credit:        result.Credit,
		SkippedCycles: result.SkippedCycles,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}

	if result.Credit.GreaterThan(decimal.Zero) {
		err = s.StripeInvoice.CreatePendingItem(ctx, bs.ConnectedAccountID, m.ProviderCustomerID, m.Currency,
			fmt.Sprintf("Pause credit: %d days", result.CreditedDays),
			-toCents(result.Credit),
			map[string]string{
				types.ProviderMetadataMembershipID: m.ID,
				"venuebill_pause_id":               pause.ID,
			},
			s.idempotency.GenerateKey(idempotency.ScopePauseCredit, map[string]interface{}{
				"pause_id": pause.ID,
			}))
		if err != nil {
			return nil, err
		}
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.MembershipRepo.CreatePause(ctx, pause); err != nil {
			return err
		}
		m.MembershipStatus = types.MembershipStatusPaused
		return s.MembershipRepo.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("paused membership",
		"membership_id", m.ID,
		"pause_id", pause.ID,
		"credit", result.Credit,
		"credited_days", result.CreditedDays,
		"skipped_cycles", result.SkippedCycles)

	return &dto.PauseMembershipResponse{
		PauseID:       pause.ID,
		Credit:        result.Credit,
		CreditedDays:  result.CreditedDays,
		SkippedCycles: result.SkippedCycles,
		ResumesAt:     resumesAt,
	}, nil
}

func (s *membershipService) Resume(ctx context.Context, membershipID string) (*dto.ResumeMembershipResponse, error) {
	m, err := s.MembershipRepo.Get(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if m.MembershipStatus != types.MembershipStatusPaused {
		return nil, ierr.NewError("membership is not paused").
			WithHintf("Cannot resume a membership in status %s", m.MembershipStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	pause, err := s.MembershipRepo.GetActivePause(ctx, membershipID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	actualDays := types.DaysBetween(pause.PausedAt, now)
	if actualDays > pause.CreditedDays {
		// Days past the credited window earned nothing, so they cannot
		// be clawed back.
		actualDays = pause.CreditedDays
	}

	cycleDays, _, err := s.cycleBounds(m, pause.PausedAt)
	if err != nil {
		return nil, err
	}

	result, err := s.calculator.ResumeAdjustment(ctx, proration.ResumeParams{
		CyclePrice:     m.CyclePrice,
		CycleDays:      cycleDays,
		OriginalCredit: pause.Credit,
		OriginalDays:   pause.CreditedDays,
		ActualDays:     actualDays,
	})
	if err != nil {
		return nil, err
	}

	bs, err := s.settingsService.GetOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.StripeSubscription.ResumeCollection(ctx, bs.ConnectedAccountID, m.ProviderSubscriptionID); err != nil {
		return nil, err
	}

	if result.Charge.GreaterThan(decimal.Zero) {
		err = s.StripeInvoice.CreatePendingItem(ctx, bs.ConnectedAccountID, m.ProviderCustomerID, m.Currency,
			fmt.Sprintf("Early resume adjustment: %d of %d days", actualDays, pause.CreditedDays),
			toCents(result.Charge),
			map[string]string{
				types.ProviderMetadataMembershipID: m.ID,
				"venuebill_pause_id":               pause.ID,
			},
			s.idempotency.GenerateKey(idempotency.ScopeResumeCharge, map[string]interface{}{
				"pause_id": pause.ID,
			}))
		if err != nil {
			return nil, err
		}
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		pause.Completed = true
		if err := s.MembershipRepo.UpdatePause(ctx, pause); err != nil {
			return err
		}
		m.MembershipStatus = types.MembershipStatusActive
		return s.MembershipRepo.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("resumed membership",
		"membership_id", m.ID,
		"pause_id", pause.ID,
		"actual_days", actualDays,
		"charge", result.Charge)

	return &dto.ResumeMembershipResponse{
		Charge:           result.Charge,
		RecomputedCredit: result.RecomputedCredit,
		ActualDays:       actualDays,
	}, nil
}

func (s *membershipService) Cancel(ctx context.Context, membershipID string) (*dto.CancelMembershipResponse, error) {
	m, err := s.MembershipRepo.Get(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if m.MembershipStatus == types.MembershipStatusCancelled {
		return nil, ierr.NewError("membership is already cancelled").
			Mark(ierr.ErrInvalidOperation)
	}
	if m.IsCancellationScheduled() {
		return nil, ierr.NewError("cancellation is already scheduled").
			WithHint("Reactivate the membership before scheduling a new cancellation").
			Mark(ierr.ErrInvalidOperation)
	}

	plan, err := subscription.ResolveCancellation(&m.Subscription, m.NextBillingDate)
	if err != nil {
		return nil, err
	}

	bs, err := s.settingsService.GetOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	switch plan.Mode {
	case types.CancellationModeAtDate:
		err = s.StripeSubscription.CancelAt(ctx, bs.ConnectedAccountID, m.ProviderSubscriptionID, plan.EffectiveDate)
	default:
		err = s.StripeSubscription.CancelAtPeriodEnd(ctx, bs.ConnectedAccountID, m.ProviderSubscriptionID)
	}
	if err != nil {
		return nil, err
	}

	if plan.Mode == types.CancellationModeAtDate {
		effective := plan.EffectiveDate
		m.CancelAt = &effective
	} else {
		m.CancelAtPeriodEnd = true
	}
	if err := s.MembershipRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.Logger.Infow("scheduled membership cancellation",
		"membership_id", m.ID,
		"mode", plan.Mode,
		"effective_date", plan.EffectiveDate,
		"minimum_contract_enforced", plan.MinimumContractEnforced)

	return &dto.CancelMembershipResponse{
		Mode:                    plan.Mode,
		EffectiveDate:           plan.EffectiveDate,
		MinimumContractEnforced: plan.MinimumContractEnforced,
	}, nil
}

func (s *membershipService) Reactivate(ctx context.Context, membershipID string) (*dto.ReactivateMembershipResponse, error) {
	m, err := s.MembershipRepo.Get(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if m.MembershipStatus == types.MembershipStatusCancelled {
		return nil, ierr.NewError("membership is already cancelled").
			WithHint("A completed cancellation cannot be reversed").
			Mark(ierr.ErrInvalidOperation)
	}

	if !m.IsCancellationScheduled() {
		// Nothing scheduled, reactivation is a no-op.
		return &dto.ReactivateMembershipResponse{
			MembershipID:  m.ID,
			Status:        m.MembershipStatus,
			AlreadyActive: true,
		}, nil
	}

	bs, err := s.settingsService.GetOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.StripeSubscription.Reactivate(ctx, bs.ConnectedAccountID, m.ProviderSubscriptionID); err != nil {
		return nil, err
	}

	m.CancelAtPeriodEnd = false
	m.CancelAt = nil
	if err := s.MembershipRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.Logger.Infow("reactivated membership", "membership_id", m.ID)

	return &dto.ReactivateMembershipResponse{
		MembershipID: m.ID,
		Status:       m.MembershipStatus,
	}, nil
}

// cycleBounds derives the current cycle length and the remaining days
// measured from at, using the stored next billing date as the cycle end.
func (s *membershipService) cycleBounds(m *membership.Membership, at time.Time) (cycleDays, remainderDays int, err error) {
	cycleStart, err := types.PreviousBillingDate(m.NextBillingDate, m.BillingPeriodUnit, m.BillingPeriod)
	if err != nil {
		return 0, 0, err
	}

	cycleDays = types.DaysBetween(cycleStart, m.NextBillingDate)
	remainderDays = types.DaysBetween(at, m.NextBillingDate)
	if remainderDays < 0 {
		remainderDays = 0
	}
	if remainderDays > cycleDays {
		remainderDays = cycleDays
	}
	return cycleDays, remainderDays, nil
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
