package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/venuebill/venuebill/internal/api/dto"
	"github.com/venuebill/venuebill/internal/domain/membership"
	"github.com/venuebill/venuebill/internal/domain/proration"
	"github.com/venuebill/venuebill/internal/domain/subscription"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/testutil"
	"github.com/venuebill/venuebill/internal/types"
)

type MembershipServiceSuite struct {
	testutil.BaseServiceTestSuite
	service       MembershipService
	stripeSub     *testutil.FakeSubscriptionProvider
	stripeInvoice *testutil.FakeInvoiceProvider
}

func TestMembershipService(t *testing.T) {
	suite.Run(t, new(MembershipServiceSuite))
}

func (s *MembershipServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.stripeSub = testutil.NewFakeSubscriptionProvider()
	s.stripeInvoice = testutil.NewFakeInvoiceProvider()

	params := ServiceParams{
		Logger:             s.GetLogger(),
		Config:             s.GetConfig(),
		DB:                 s.GetDB(),
		Cache:              s.GetCache(),
		TransactionRepo:    stores.TransactionRepo,
		MembershipRepo:     stores.MembershipRepo,
		InvoiceRepo:        stores.InvoiceRepo,
		SettingsRepo:       stores.SettingsRepo,
		StripeInvoice:      s.stripeInvoice,
		StripeSubscription: s.stripeSub,
		StripeCheckout:     testutil.NewFakeCheckoutProvider(),
	}

	s.service = NewMembershipService(params, proration.NewCalculator(), NewSettingsService(params))
}

// seedWeekly creates an active weekly membership whose cycle is always
// exactly 7 days, keeping the prorated amounts independent of the month
// the test runs in. The next billing date lands daysUntilNext days out.
func (s *MembershipServiceSuite) seedWeekly(cyclePrice string, daysUntilNext int) *membership.Membership {
	next := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, daysUntilNext)
	m := &membership.Membership{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_MEMBERSHIP),
		CustomerID:         "cust_1",
		ProviderCustomerID: "cus_1",
		PlanName:           "Weekly Pass",
		Currency:           "usd",
		Subscription: subscription.Subscription{
			ProviderSubscriptionID: "sub_1",
			StartDate:              next.AddDate(0, 0, -70),
			BillingPeriod:          types.BILLING_PERIOD_WEEKLY,
			BillingPeriodUnit:      1,
			CyclePrice:             decimal.RequireFromString(cyclePrice),
		},
		NextBillingDate:  next,
		BillingCount:     10,
		MembershipStatus: types.MembershipStatusActive,
		BaseModel:        types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().MembershipRepo.Create(s.GetContext(), m))
	return m
}

func (s *MembershipServiceSuite) seedMonthly(minimumCycles int) *membership.Membership {
	m := &membership.Membership{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_MEMBERSHIP),
		CustomerID:         "cust_1",
		ProviderCustomerID: "cus_1",
		PlanName:           "Gold",
		Currency:           "usd",
		Subscription: subscription.Subscription{
			ProviderSubscriptionID: "sub_2",
			StartDate:              time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
			BillingPeriod:          types.BILLING_PERIOD_MONTHLY,
			BillingPeriodUnit:      1,
			CyclePrice:             decimal.RequireFromString("50.00"),
			MinimumCycles:          minimumCycles,
		},
		NextBillingDate:  time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		BillingCount:     1,
		MembershipStatus: types.MembershipStatusActive,
		BaseModel:        types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().MembershipRepo.Create(s.GetContext(), m))
	return m
}

func (s *MembershipServiceSuite) seedPause(m *membership.Membership, daysAgo, creditedDays int, credit string) *membership.Pause {
	pausedAt := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -daysAgo)
	p := &membership.Pause{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_MEMBERSHIP_PAUSE),
		MembershipID: m.ID,
		PausedAt:     pausedAt,
		ResumesAt:    pausedAt.AddDate(0, 0, creditedDays),
		PauseDays:    creditedDays,
		CreditedDays: creditedDays,
		Credit:       decimal.RequireFromString(credit),
		BaseModel:    types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().MembershipRepo.CreatePause(s.GetContext(), p))

	m.MembershipStatus = types.MembershipStatusPaused
	s.NoError(s.GetStores().MembershipRepo.Update(s.GetContext(), m))
	return p
}

func (s *MembershipServiceSuite) TestPauseIssuesCreditAndPausesCollection() {
	// 70.00 over a 7-day cycle is 10.00 per day.
	m := s.seedWeekly("70.00", 5)

	resp, err := s.service.Pause(s.GetContext(), m.ID, &dto.PauseMembershipRequest{PauseDays: 3})
	s.NoError(err)
	s.Equal("30.00", resp.Credit.StringFixed(2))
	s.Equal(3, resp.CreditedDays)
	s.Equal(0, resp.SkippedCycles)

	s.Len(s.stripeSub.Pauses, 1)
	s.Equal("sub_1", s.stripeSub.Pauses[0].SubscriptionID)
	s.True(s.stripeSub.Pauses[0].ResumesAt.After(time.Now().UTC()))

	s.Len(s.stripeInvoice.PendingItems, 1)
	item := s.stripeInvoice.PendingItems[0]
	s.Equal(int64(-3000), item.AmountCents)
	s.Equal("usd", item.Currency)
	s.NotEmpty(item.IdempotencyKey)

	updated, err := s.GetStores().MembershipRepo.Get(s.GetContext(), m.ID)
	s.NoError(err)
	s.Equal(types.MembershipStatusPaused, updated.MembershipStatus)

	pause, err := s.GetStores().MembershipRepo.GetActivePause(s.GetContext(), m.ID)
	s.NoError(err)
	s.Equal("30.00", pause.Credit.StringFixed(2))
}

func (s *MembershipServiceSuite) TestPauseSpanningCyclesSkipsWholeCycles() {
	m := s.seedWeekly("70.00", 5)

	// 12 days: 5 remain in the current cycle, one whole cycle is skipped.
	resp, err := s.service.Pause(s.GetContext(), m.ID, &dto.PauseMembershipRequest{PauseDays: 12})
	s.NoError(err)
	s.Equal(5, resp.CreditedDays)
	s.Equal(1, resp.SkippedCycles)
	s.Equal("50.00", resp.Credit.StringFixed(2))
}

func (s *MembershipServiceSuite) TestPauseProviderFailureLeavesStateUntouched() {
	m := s.seedWeekly("70.00", 5)
	s.stripeSub.Err = ierr.NewError("provider unavailable").Mark(ierr.ErrProvider)

	_, err := s.service.Pause(s.GetContext(), m.ID, &dto.PauseMembershipRequest{PauseDays: 3})
	s.Error(err)
	s.True(ierr.IsProvider(err))

	updated, getErr := s.GetStores().MembershipRepo.Get(s.GetContext(), m.ID)
	s.NoError(getErr)
	s.Equal(types.MembershipStatusActive, updated.MembershipStatus)

	_, pauseErr := s.GetStores().MembershipRepo.GetActivePause(s.GetContext(), m.ID)
	s.True(ierr.IsNotFound(pauseErr))
	s.Empty(s.stripeInvoice.PendingItems)
}

func (s *MembershipServiceSuite) TestPauseRejectedWhenNotActive() {
	m := s.seedWeekly("70.00", 5)
	s.seedPause(m, 1, 3, "30.00")

	_, err := s.service.Pause(s.GetContext(), m.ID, &dto.PauseMembershipRequest{PauseDays: 3})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Empty(s.stripeSub.Pauses)
}

func (s *MembershipServiceSuite) TestResumeOnTimeChargesNothing() {
	m := s.seedWeekly("70.00", 5)
	// Resumed 10 days after a 3-day credited window: the excess days
	// earned nothing, so there is nothing to claw back.
	s.seedPause(m, 10, 3, "30.00")

	resp, err := s.service.Resume(s.GetContext(), m.ID)
	s.NoError(err)
	s.Equal(3, resp.ActualDays)
	s.True(resp.Charge.IsZero())

	s.Equal([]string{"sub_1"}, s.stripeSub.Resumes)
	s.Empty(s.stripeInvoice.PendingItems)

	updated, err := s.GetStores().MembershipRepo.Get(s.GetContext(), m.ID)
	s.NoError(err)
	s.Equal(types.MembershipStatusActive, updated.MembershipStatus)

	_, pauseErr := s.GetStores().MembershipRepo.GetActivePause(s.GetContext(), m.ID)
	s.True(ierr.IsNotFound(pauseErr))
}

func (s *MembershipServiceSuite) TestEarlyResumeClawsBackExcessCredit() {
	m := s.seedWeekly("70.00", 5)
	// Credited 5 days up front, resumed after 2: 3 days of credit to
	// claw back at 10.00 per day.
	s.seedPause(m, 2, 5, "50.00")

	resp, err := s.service.Resume(s.GetContext(), m.ID)
	s.NoError(err)
	s.Equal(2, resp.ActualDays)
	s.Equal("30.00", resp.Charge.StringFixed(2))
	s.Equal("20.00", resp.RecomputedCredit.StringFixed(2))

	s.Len(s.stripeInvoice.PendingItems, 1)
	item := s.stripeInvoice.PendingItems[0]
	s.Equal(int64(3000), item.AmountCents)
	s.NotEmpty(item.IdempotencyKey)
}

func (s *MembershipServiceSuite) TestResumeClawbackFailureKeepsMembershipPaused() {
	m := s.seedWeekly("70.00", 5)
	s.seedPause(m, 2, 5, "50.00")
	s.stripeInvoice.Err = ierr.NewError("provider unavailable").Mark(ierr.ErrProvider)

	_, err := s.service.Resume(s.GetContext(), m.ID)
	s.Error(err)

	updated, getErr := s.GetStores().MembershipRepo.Get(s.GetContext(), m.ID)
	s.NoError(getErr)
	s.Equal(types.MembershipStatusPaused, updated.MembershipStatus)

	pause, pauseErr := s.GetStores().MembershipRepo.GetActivePause(s.GetContext(), m.ID)
	s.NoError(pauseErr)
	s.False(pause.Completed)
}

func (s *MembershipServiceSuite) TestResumeRejectedWhenNotPaused() {
	m := s.seedWeekly("70.00", 5)

	_, err := s.service.Resume(s.GetContext(), m.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *MembershipServiceSuite) TestCancelEnforcesMinimumContract() {
	// Two monthly cycles from an October 1st start push the cancellation
	// past the next billing date.
	m := s.seedMonthly(2)

	resp, err := s.service.Cancel(s.GetContext(), m.ID)
	s.NoError(err)
	s.Equal(types.CancellationModeAtDate, resp.Mode)
	s.True(resp.MinimumContractEnforced)
	s.True(resp.EffectiveDate.Equal(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))

	s.Len(s.stripeSub.DateCancels, 1)
	s.Equal("sub_2", s.stripeSub.DateCancels[0].SubscriptionID)
	s.True(s.stripeSub.DateCancels[0].CancelAt.Equal(resp.EffectiveDate))

	updated, err := s.GetStores().MembershipRepo.Get(s.GetContext(), m.ID)
	s.NoError(err)
	s.NotNil(updated.CancelAt)
	s.True(updated.CancelAt.Equal(resp.EffectiveDate))
	s.False(updated.CancelAtPeriodEnd)
}

func (s *MembershipServiceSuite) TestCancelWithoutMinimumEndsAtPeriodEnd() {
	m := s.seedMonthly(0)

	resp, err := s.service.Cancel(s.GetContext(), m.ID)
	s.NoError(err)
	s.Equal(types.CancellationModeAtPeriodEnd, resp.Mode)
	s.False(resp.MinimumContractEnforced)
	s.True(resp.EffectiveDate.Equal(m.NextBillingDate))

	s.Equal([]string{"sub_2"}, s.stripeSub.PeriodEndCancels)

	updated, err := s.GetStores().MembershipRepo.Get(s.GetContext(), m.ID)
	s.NoError(err)
	s.True(updated.CancelAtPeriodEnd)
	s.Nil(updated.CancelAt)
}

func (s *MembershipServiceSuite) TestCancelProviderFailureLeavesScheduleUnset() {
	m := s.seedMonthly(0)
	s.stripeSub.Err = ierr.NewError("provider unavailable").Mark(ierr.ErrProvider)

	_, err := s.service.Cancel(s.GetContext(), m.ID)
	s.Error(err)

	updated, getErr := s.GetStores().MembershipRepo.Get(s.GetContext(), m.ID)
	s.NoError(getErr)
	s.False(updated.CancelAtPeriodEnd)
	s.Nil(updated.CancelAt)
}

func (s *MembershipServiceSuite) TestCancelRejectedWhenAlreadyScheduled() {
	m := s.seedMonthly(0)
	m.CancelAtPeriodEnd = true
	s.NoError(s.GetStores().MembershipRepo.Update(s.GetContext(), m))

	_, err := s.service.Cancel(s.GetContext(), m.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *MembershipServiceSuite) TestReactivateClearsScheduledCancellation() {
	m := s.seedMonthly(0)
	m.CancelAtPeriodEnd = true
	s.NoError(s.GetStores().MembershipRepo.Update(s.GetContext(), m))

	resp, err := s.service.Reactivate(s.GetContext(), m.ID)
	s.NoError(err)
	s.False(resp.AlreadyActive)

	s.Equal([]string{"sub_2"}, s.stripeSub.Reactivations)

	updated, err := s.GetStores().MembershipRepo.Get(s.GetContext(), m.ID)
	s.NoError(err)
	s.False(updated.CancelAtPeriodEnd)
	s.Nil(updated.CancelAt)
}

func (s *MembershipServiceSuite) TestReactivateWithoutScheduleIsNoOp() {
	m := s.seedMonthly(0)

	resp, err := s.service.Reactivate(s.GetContext(), m.ID)
	s.NoError(err)
	s.True(resp.AlreadyActive)
	s.Empty(s.stripeSub.Reactivations)
}
