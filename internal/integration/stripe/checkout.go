package stripe

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v82"

	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
)

// CheckoutProvider is the provider surface for checkout sessions.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, req *CheckoutSessionRequest) (*stripe.CheckoutSession, error)
}

// CheckoutService creates checkout sessions for public payment links.
type CheckoutService struct {
	client *Client
	logger *logger.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(client *Client, logger *logger.Logger) CheckoutProvider {
	return &CheckoutService{
		client: client,
		logger: logger,
	}
}

// CheckoutSessionRequest describes a payment-link checkout: a single
// payer-chosen amount against an open provider invoice.
type CheckoutSessionRequest struct {
	ConnectedAccountID string
	StripeCustomerID   string
	ProviderInvoiceID  string
	Description        string
	Currency           string
	AmountCents        int64
	SuccessURL         string
	CancelURL          string
	Metadata           map[string]string
}

// CreateSession creates a one-time payment checkout session.
func (s *CheckoutService) CreateSession(ctx context.Context, req *CheckoutSessionRequest) (*stripe.CheckoutSession, error) {
	metadata := map[string]string{
		"provider_invoice_id": req.ProviderInvoiceID,
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	params := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String("payment"),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		Metadata:   metadata,
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(req.AmountCents),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionCreatePaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	if req.StripeCustomerID != "" {
		params.Customer = stripe.String(req.StripeCustomerID)
	}
	params.SetStripeAccount(req.ConnectedAccountID)

	session, err := s.client.API().V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		s.logger.Errorw("failed to create Stripe checkout session",
			"error", err,
			"provider_invoice_id", req.ProviderInvoiceID)
		return nil, ierr.WithError(err).
			WithHint("Unable to start the payment with the billing provider").
			WithReportableDetails(map[string]any{
				"provider_invoice_id": req.ProviderInvoiceID,
			}).
			Mark(ierr.ErrProvider)
	}

	s.logger.Infow("created checkout session",
		"session_id", session.ID,
		"provider_invoice_id", req.ProviderInvoiceID,
		"amount_cents", req.AmountCents)

	return session, nil
}
