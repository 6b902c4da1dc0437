package stripe

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v82"

	"github.com/venuebill/venuebill/internal/domain/cart"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
)

// InvoiceProvider is the provider surface for invoice mutations.
type InvoiceProvider interface {
	CreateDraftInvoice(ctx context.Context, connectedAccountID, stripeCustomerID, description string, metadata map[string]string, idempotencyKey string) (string, error)
	AddLineItem(ctx context.Context, connectedAccountID, stripeInvoiceID, stripeCustomerID string, item cart.LineItem) error
	FinalizeInvoice(ctx context.Context, connectedAccountID, stripeInvoiceID string) (*stripe.Invoice, error)
	CreatePendingItem(ctx context.Context, connectedAccountID, stripeCustomerID, currency, description string, amountCents int64, metadata map[string]string, idempotencyKey string) error
}

// InvoiceService creates and finalizes provider invoices. Line items are
// submitted one call each; the caller must only finalize after every item
// succeeded so a partially-built invoice is never treated as complete.
type InvoiceService struct {
	client *Client
	logger *logger.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(client *Client, logger *logger.Logger) InvoiceProvider {
	return &InvoiceService{
		client: client,
		logger: logger,
	}
}

// CreateDraftInvoice creates a draft invoice on the connected account and
// returns the provider invoice id. A non-empty idempotencyKey dedupes
// retried submissions at the provider.
func (s *InvoiceService) CreateDraftInvoice(ctx context.Context, connectedAccountID, stripeCustomerID, description string, metadata map[string]string, idempotencyKey string) (string, error) {
	params := &stripe.InvoiceCreateParams{
		Customer:    stripe.String(stripeCustomerID),
		AutoAdvance: stripe.Bool(false),
		Description: stripe.String(description),
		Metadata:    metadata,
	}
	if idempotencyKey != "" {
		params.IdempotencyKey = stripe.String(idempotencyKey)
	}
	params.SetStripeAccount(connectedAccountID)

	stripeInvoice, err := s.client.API().V1Invoices.Create(ctx, params)
	if err != nil {
		s.logger.Errorw("failed to create draft invoice in Stripe",
			"error", err,
			"stripe_customer_id", stripeCustomerID)
		return "", ierr.WithError(err).
			WithHint("Unable to create draft invoice with the billing provider").
			Mark(ierr.ErrProvider)
	}

	s.logger.Infow("created draft invoice in Stripe",
		"stripe_invoice_id", stripeInvoice.ID,
		"stripe_customer_id", stripeCustomerID)

	return stripeInvoice.ID, nil
}

// AddLineItem submits a single billing line to the draft invoice.
func (s *InvoiceService) AddLineItem(ctx context.Context, connectedAccountID, stripeInvoiceID, stripeCustomerID string, item cart.LineItem) error {
	params := &stripe.InvoiceItemCreateParams{
		Customer:    stripe.String(stripeCustomerID),
		Invoice:     stripe.String(stripeInvoiceID),
		Currency:    stripe.String(strings.ToLower(item.Currency)),
		Description: stripe.String(item.Description),
		Amount:      stripe.Int64(item.AmountCents),
		Metadata:    item.Metadata,
	}
	params.SetStripeAccount(connectedAccountID)

	invoiceItem, err := s.client.API().V1InvoiceItems.Create(ctx, params)
	if err != nil {
		s.logger.Errorw("failed to add line item to Stripe invoice",
			"error", err,
			"stripe_invoice_id", stripeInvoiceID,
			"description", item.Description)
		return ierr.WithError(err).
			WithHint("Unable to add line item to the provider invoice").
			WithReportableDetails(map[string]any{
				"stripe_invoice_id": stripeInvoiceID,
				"description":       item.Description,
			}).
			Mark(ierr.ErrProvider)
	}

	s.logger.Debugw("added line item to Stripe invoice",
		"stripe_invoice_id", stripeInvoiceID,
		"stripe_item_id", invoiceItem.ID)

	return nil
}

// FinalizeInvoice finalizes the provider invoice, making it payable.
func (s *InvoiceService) FinalizeInvoice(ctx context.Context, connectedAccountID, stripeInvoiceID string) (*stripe.Invoice, error) {
	params := &stripe.InvoiceFinalizeInvoiceParams{
		AutoAdvance: stripe.Bool(true),
	}
	params.SetStripeAccount(connectedAccountID)

	finalizedInvoice, err := s.client.API().V1Invoices.FinalizeInvoice(ctx, stripeInvoiceID, params)
	if err != nil {
		s.logger.Errorw("failed to finalize Stripe invoice",
			"error", err,
			"stripe_invoice_id", stripeInvoiceID)
		return nil, ierr.WithError(err).
			WithHint("Unable to finalize the provider invoice").
			Mark(ierr.ErrProvider)
	}

	s.logger.Infow("finalized Stripe invoice",
		"stripe_invoice_id", stripeInvoiceID,
		"status", finalizedInvoice.Status,
		"total", finalizedInvoice.Total)

	return finalizedInvoice, nil
}

// CreatePendingItem creates a standalone invoice item on the customer
// that lands on their next subscription invoice. Used for pause credits
// (negative amounts) and early-resume clawback charges (positive). The
// idempotency key guards against a retried pause or resume issuing the
// same adjustment twice.
func (s *InvoiceService) CreatePendingItem(ctx context.Context, connectedAccountID, stripeCustomerID, currency, description string, amountCents int64, metadata map[string]string, idempotencyKey string) error {
	params := &stripe.InvoiceItemCreateParams{
		Customer:    stripe.String(stripeCustomerID),
		Currency:    stripe.String(strings.ToLower(currency)),
		Description: stripe.String(description),
		Amount:      stripe.Int64(amountCents),
		Metadata:    metadata,
	}
	if idempotencyKey != "" {
		params.IdempotencyKey = stripe.String(idempotencyKey)
	}
	params.SetStripeAccount(connectedAccountID)

	_, err := s.client.API().V1InvoiceItems.Create(ctx, params)
	if err != nil {
		s.logger.Errorw("failed to create pending invoice item",
			"error", err,
			"stripe_customer_id", stripeCustomerID,
			"amount_cents", amountCents)
		return ierr.WithError(err).
			WithHint("Unable to record the adjustment with the billing provider").
			Mark(ierr.ErrProvider)
	}

	return nil
}
