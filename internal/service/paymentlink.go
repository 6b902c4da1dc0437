package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/venuebill/venuebill/internal/api/dto"
	"github.com/venuebill/venuebill/internal/domain/invoice"
	ierr "github.com/venuebill/venuebill/internal/errors"
	stripeintg "github.com/venuebill/venuebill/internal/integration/stripe"
	"github.com/venuebill/venuebill/internal/types"
)

// PaymentLinkService backs the public payment page: a signed token
// resolves to one invoice, the page shows the outstanding balance and the
// minimum payable, and a payment attempt becomes a provider checkout
// session. Payment status itself only moves via webhook events.
type PaymentLinkService interface {
	// MintToken issues a signed payment-link token for an invoice
	MintToken(ctx context.Context, invoiceID string) (string, error)

	GetSummary(ctx context.Context, token string) (*dto.PaymentLinkSummary, error)
	Pay(ctx context.Context, token string, req *dto.PaymentLinkPayRequest) (*dto.PaymentLinkPayResponse, error)
}

type paymentLinkService struct {
	ServiceParams
	settingsService SettingsService
}

// NewPaymentLinkService creates a new payment link service
func NewPaymentLinkService(params ServiceParams, settingsService SettingsService) PaymentLinkService {
	return &paymentLinkService{
		ServiceParams:   params,
		settingsService: settingsService,
	}
}

func (s *paymentLinkService) MintToken(ctx context.Context, invoiceID string) (string, error) {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	claims := types.PaymentLinkClaims{
		InvoiceID:      inv.ID,
		OrganizationID: inv.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.Config.Billing.PaymentLinkTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.Config.Billing.PaymentLinkTokenSecret))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to sign payment link token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}

func (s *paymentLinkService) GetSummary(ctx context.Context, token string) (*dto.PaymentLinkSummary, error) {
	inv, ctx, err := s.resolveInvoice(ctx, token)
	if err != nil {
		return nil, err
	}

	bs, err := s.settingsService.GetOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.PaymentLinkSummary{
		InvoiceID:      inv.ID,
		Description:    inv.Description,
		Currency:       inv.Currency,
		Total:          inv.AmountDue,
		AmountPaid:     inv.AmountPaid,
		Remaining:      inv.AmountRemaining(),
		MinimumPayable: invoice.MinimumPayable(inv.AmountDue, inv.AmountPaid, bs.MinPaymentPercent),
		PaymentStatus:  inv.PaymentStatus,
	}, nil
}

func (s *paymentLinkService) Pay(ctx context.Context, token string, req *dto.PaymentLinkPayRequest) (*dto.PaymentLinkPayResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, ctx, err := s.resolveInvoice(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.PaymentStatus == types.InvoicePaymentStatusPaid {
		return nil, ierr.NewError("invoice is already paid").
			WithHint("No balance remains on this invoice").
			Mark(ierr.ErrInvalidOperation)
	}

	bs, err := s.settingsService.GetOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	if err := invoice.ValidatePaymentAmount(req.Amount, inv.AmountDue, inv.AmountPaid, bs.MinPaymentPercent); err != nil {
		return nil, err
	}

	session, err := s.StripeCheckout.CreateSession(ctx, &stripeintg.CheckoutSessionRequest{
		ConnectedAccountID: bs.ConnectedAccountID,
		ProviderInvoiceID:  inv.ProviderInvoiceID,
		Description:        inv.Description,
		Currency:           inv.Currency,
		AmountCents:        toCents(req.Amount),
		SuccessURL:         req.SuccessURL,
		CancelURL:          req.CancelURL,
		Metadata: map[string]string{
			types.ProviderMetadataOrganizationID: inv.OrganizationID,
		},
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created payment link checkout",
		"invoice_id", inv.ID,
		"session_id", session.ID,
		"amount", req.Amount)

	return &dto.PaymentLinkPayResponse{
		CheckoutURL: session.URL,
		SessionID:   session.ID,
	}, nil
}

// resolveInvoice verifies the token and loads the invoice it names,
// scoping the context to the token's organization.
func (s *paymentLinkService) resolveInvoice(ctx context.Context, token string) (*invoice.Invoice, context.Context, error) {
	claims, err := s.verifyToken(token)
	if err != nil {
		return nil, ctx, err
	}

	ctx = types.SetOrganizationID(ctx, claims.OrganizationID)

	inv, err := s.InvoiceRepo.Get(ctx, claims.InvoiceID)
	if err != nil {
		return nil, ctx, err
	}
	if inv.OrganizationID != claims.OrganizationID {
		return nil, ctx, ierr.NewError("invoice does not belong to token organization").
			WithHint("Payment link is not valid for this invoice").
			Mark(ierr.ErrPermissionDenied)
	}
	return inv, ctx, nil
}

func (s *paymentLinkService) verifyToken(token string) (*types.PaymentLinkClaims, error) {
	claims := &types.PaymentLinkClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewError("unexpected token signing method").
				Mark(ierr.ErrValidation)
		}
		return []byte(s.Config.Billing.PaymentLinkTokenSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ierr.NewError("invalid payment link token").
			WithHint("The payment link is invalid or has expired").
			Mark(ierr.ErrPermissionDenied)
	}
	if claims.InvoiceID == "" || claims.OrganizationID == "" {
		return nil, ierr.NewError("payment link token is incomplete").
			WithHint("The payment link is invalid").
			Mark(ierr.ErrPermissionDenied)
	}
	return claims, nil
}
