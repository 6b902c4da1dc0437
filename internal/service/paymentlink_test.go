package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/venuebill/venuebill/internal/api/dto"
	"github.com/venuebill/venuebill/internal/domain/invoice"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/testutil"
	"github.com/venuebill/venuebill/internal/types"
)

type PaymentLinkServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  PaymentLinkService
	checkout *testutil.FakeCheckoutProvider
}

func TestPaymentLinkService(t *testing.T) {
	suite.Run(t, new(PaymentLinkServiceSuite))
}

func (s *PaymentLinkServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	cfg := s.GetConfig()
	stores := s.GetStores()
	s.checkout = testutil.NewFakeCheckoutProvider()

	params := ServiceParams{
		Logger:          s.GetLogger(),
		Config:          cfg,
		DB:              s.GetDB(),
		Cache:           s.GetCache(),
		TransactionRepo: stores.TransactionRepo,
		MembershipRepo:  stores.MembershipRepo,
		InvoiceRepo:     stores.InvoiceRepo,
		SettingsRepo:    stores.SettingsRepo,
		StripeCheckout:  s.checkout,
	}

	s.service = NewPaymentLinkService(params, NewSettingsService(params))
}

func (s *PaymentLinkServiceSuite) seedInvoice(amountDue, amountPaid string, status types.InvoicePaymentStatus) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		ProviderInvoiceID: "in_100",
		CustomerID:        "cust_1",
		Description:       "Court booking",
		Currency:          "usd",
		AmountDue:         decimal.RequireFromString(amountDue),
		AmountPaid:        decimal.RequireFromString(amountPaid),
		PaymentStatus:     status,
		BaseModel:         types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), inv))
	return inv
}

func (s *PaymentLinkServiceSuite) TestMintTokenAndGetSummary() {
	inv := s.seedInvoice("1000.00", "0", types.InvoicePaymentStatusOpen)

	token, err := s.service.MintToken(s.GetContext(), inv.ID)
	s.NoError(err)
	s.NotEmpty(token)

	summary, err := s.service.GetSummary(s.GetContext(), token)
	s.NoError(err)
	s.Equal(inv.ID, summary.InvoiceID)
	s.Equal("Court booking", summary.Description)
	s.Equal("1000.00", summary.Total.StringFixed(2))
	s.Equal("1000.00", summary.Remaining.StringFixed(2))
	s.Equal("500.00", summary.MinimumPayable.StringFixed(2))
	s.Equal(types.InvoicePaymentStatusOpen, summary.PaymentStatus)
}

func (s *PaymentLinkServiceSuite) TestMinimumRelaxesAfterFirstPayment() {
	inv := s.seedInvoice("1000.00", "500.00", types.InvoicePaymentStatusPartiallyPaid)

	token, err := s.service.MintToken(s.GetContext(), inv.ID)
	s.NoError(err)

	summary, err := s.service.GetSummary(s.GetContext(), token)
	s.NoError(err)
	s.Equal("500.00", summary.Remaining.StringFixed(2))
	s.Equal("0.01", summary.MinimumPayable.StringFixed(2))
}

func (s *PaymentLinkServiceSuite) TestMintTokenUnknownInvoice() {
	_, err := s.service.MintToken(s.GetContext(), "inv_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentLinkServiceSuite) TestMalformedTokenRejected() {
	_, err := s.service.GetSummary(s.GetContext(), "not-a-token")
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *PaymentLinkServiceSuite) TestTokenSignedWithWrongSecretRejected() {
	inv := s.seedInvoice("1000.00", "0", types.InvoicePaymentStatusOpen)

	claims := types.PaymentLinkClaims{
		InvoiceID:      inv.ID,
		OrganizationID: inv.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	s.NoError(err)

	_, err = s.service.GetSummary(s.GetContext(), token)
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *PaymentLinkServiceSuite) TestExpiredTokenRejected() {
	inv := s.seedInvoice("1000.00", "0", types.InvoicePaymentStatusOpen)

	claims := types.PaymentLinkClaims{
		InvoiceID:      inv.ID,
		OrganizationID: inv.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.GetConfig().Billing.PaymentLinkTokenSecret))
	s.NoError(err)

	_, err = s.service.GetSummary(s.GetContext(), token)
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *PaymentLinkServiceSuite) TestPayCreatesCheckoutSession() {
	inv := s.seedInvoice("1000.00", "0", types.InvoicePaymentStatusOpen)

	token, err := s.service.MintToken(s.GetContext(), inv.ID)
	s.NoError(err)

	resp, err := s.service.Pay(s.GetContext(), token, &dto.PaymentLinkPayRequest{
		Amount: decimal.RequireFromString("500.00"),
	})
	s.NoError(err)
	s.NotEmpty(resp.SessionID)
	s.NotEmpty(resp.CheckoutURL)

	s.Len(s.checkout.Sessions, 1)
	session := s.checkout.Sessions[0]
	s.Equal(inv.ProviderInvoiceID, session.ProviderInvoiceID)
	s.Equal(int64(50000), session.AmountCents)
	s.Equal("usd", session.Currency)
}

func (s *PaymentLinkServiceSuite) TestPayBelowMinimumRejected() {
	inv := s.seedInvoice("1000.00", "0", types.InvoicePaymentStatusOpen)

	token, err := s.service.MintToken(s.GetContext(), inv.ID)
	s.NoError(err)

	_, err = s.service.Pay(s.GetContext(), token, &dto.PaymentLinkPayRequest{
		Amount: decimal.RequireFromString("499.99"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentLinkServiceSuite) TestPayNonPositiveAmountRejected() {
	inv := s.seedInvoice("1000.00", "0", types.InvoicePaymentStatusOpen)

	token, err := s.service.MintToken(s.GetContext(), inv.ID)
	s.NoError(err)

	_, err = s.service.Pay(s.GetContext(), token, &dto.PaymentLinkPayRequest{
		Amount: decimal.Zero,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentLinkServiceSuite) TestPayPaidInvoiceRejected() {
	inv := s.seedInvoice("1000.00", "1000.00", types.InvoicePaymentStatusPaid)

	token, err := s.service.MintToken(s.GetContext(), inv.ID)
	s.NoError(err)

	_, err = s.service.Pay(s.GetContext(), token, &dto.PaymentLinkPayRequest{
		Amount: decimal.RequireFromString("1.00"),
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentLinkServiceSuite) TestPayAboveRemainingRejected() {
	inv := s.seedInvoice("1000.00", "500.00", types.InvoicePaymentStatusPartiallyPaid)

	token, err := s.service.MintToken(s.GetContext(), inv.ID)
	s.NoError(err)

	_, err = s.service.Pay(s.GetContext(), token, &dto.PaymentLinkPayRequest{
		Amount: decimal.RequireFromString("600.00"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
