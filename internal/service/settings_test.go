package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/venuebill/venuebill/internal/domain/settings"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/testutil"
	"github.com/venuebill/venuebill/internal/types"
)

type SettingsServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SettingsService
}

func TestSettingsService(t *testing.T) {
	suite.Run(t, new(SettingsServiceSuite))
}

func (s *SettingsServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	params := ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		Cache:        s.GetCache(),
		SettingsRepo: stores.SettingsRepo,
	}
	s.service = NewSettingsService(params)
}

func (s *SettingsServiceSuite) TestGetOrDefaultFallsBackToConfig() {
	bs, err := s.service.GetOrDefault(s.GetContext())
	s.NoError(err)
	s.Equal(s.GetConfig().Billing.DefaultMinPaymentPercent, bs.MinPaymentPercent)
	s.Equal(types.DefaultOrganizationID, bs.OrganizationID)
}

func (s *SettingsServiceSuite) TestGetOrDefaultRequiresOrganization() {
	_, err := s.service.GetOrDefault(context.Background())
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SettingsServiceSuite) TestUpdateThenGetReturnsSaved() {
	saved, err := s.service.Update(s.GetContext(), &settings.BillingSettings{
		MinPaymentPercent:  25,
		ReceiptSenderName:  "Riverside Tennis Club",
		ConnectedAccountID: "acct_1",
	})
	s.NoError(err)
	s.NotEmpty(saved.ID)

	bs, err := s.service.GetOrDefault(s.GetContext())
	s.NoError(err)
	s.Equal(25, bs.MinPaymentPercent)
	s.Equal("Riverside Tennis Club", bs.ReceiptSenderName)
	s.Equal("acct_1", bs.ConnectedAccountID)
}

func (s *SettingsServiceSuite) TestUpdateInvalidatesCachedDefault() {
	// Prime the cache with the config default
	bs, err := s.service.GetOrDefault(s.GetContext())
	s.NoError(err)
	s.Equal(s.GetConfig().Billing.DefaultMinPaymentPercent, bs.MinPaymentPercent)

	_, err = s.service.Update(s.GetContext(), &settings.BillingSettings{MinPaymentPercent: 10})
	s.NoError(err)

	bs, err = s.service.GetOrDefault(s.GetContext())
	s.NoError(err)
	s.Equal(10, bs.MinPaymentPercent)
}

func (s *SettingsServiceSuite) TestUpdateRejectsOutOfRangePercent() {
	_, err := s.service.Update(s.GetContext(), &settings.BillingSettings{MinPaymentPercent: 101})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.Update(s.GetContext(), &settings.BillingSettings{MinPaymentPercent: -1})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
