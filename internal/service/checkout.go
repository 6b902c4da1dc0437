package service

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/venuebill/venuebill/internal/api/dto"
	"github.com/venuebill/venuebill/internal/domain/cart"
	"github.com/venuebill/venuebill/internal/domain/invoice"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/idempotency"
	"github.com/venuebill/venuebill/internal/types"
)

// sumToleranceCents absorbs per-line rounding drift between the cart
// total and the emitted line items
const sumToleranceCents = 1

// CheckoutService turns a priced cart into a finalized provider invoice
// plus a local invoice record.
type CheckoutService interface {
	Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type checkoutService struct {
	ServiceParams
	settingsService SettingsService
	idempotency     *idempotency.Generator
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(params ServiceParams, settingsService SettingsService) CheckoutService {
	return &checkoutService{
		ServiceParams:   params,
		settingsService: settingsService,
		idempotency:     idempotency.NewGenerator(),
	}
}

func (s *checkoutService) Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	items, err := cart.BuildLineItems(req.Cart)
	if err != nil {
		return nil, err
	}

	totalCents := cart.SumCents(items)
	if err := s.checkSumInvariant(totalCents, req.Cart.Total); err != nil {
		return nil, err
	}

	bs, err := s.settingsService.GetOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	description := checkoutDescription(req.Cart)
	metadata := map[string]string{
		types.ProviderMetadataOrganizationID: types.GetOrganizationID(ctx),
	}

	idempotencyKey := ""
	if req.CheckoutReference != "" {
		idempotencyKey = s.idempotency.GenerateKey(idempotency.ScopeCheckoutInvoice, map[string]interface{}{
			"reference": req.CheckoutReference,
			"customer":  req.StripeCustomerID,
		})
	}

	providerInvoiceID, err := s.StripeInvoice.CreateDraftInvoice(ctx, bs.ConnectedAccountID, req.StripeCustomerID, description, metadata, idempotencyKey)
	if err != nil {
		return nil, err
	}

	// Items are submitted one call each; abort on the first failure so
	// a partially-built invoice is never finalized.
	for _, item := range items {
		if err := s.StripeInvoice.AddLineItem(ctx, bs.ConnectedAccountID, providerInvoiceID, req.StripeCustomerID, item); err != nil {
			return nil, err
		}
	}

	finalized, err := s.StripeInvoice.FinalizeInvoice(ctx, bs.ConnectedAccountID, providerInvoiceID)
	if err != nil {
		return nil, err
	}

	inv := &invoice.Invoice{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		ProviderInvoiceID: providerInvoiceID,
		CustomerID:        req.CustomerID,
		Description:       description,
		Currency:          req.Cart.Currency,
		AmountDue:         decimal.NewFromInt(finalized.Total).Div(decimal.NewFromInt(100)),
		AmountPaid:        decimal.Zero,
		PaymentStatus:     types.InvoicePaymentStatusOpen,
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		return s.InvoiceRepo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("checkout completed",
		"invoice_id", inv.ID,
		"provider_invoice_id", providerInvoiceID,
		"total_cents", totalCents,
		"line_items", len(items))

	return &dto.CheckoutResponse{
		InvoiceID:         inv.ID,
		ProviderInvoiceID: providerInvoiceID,
		TotalCents:        totalCents,
		LineItemCount:     len(items),
	}, nil
}

// checkSumInvariant verifies the emitted line items sum to the cart total
// within one cent of rounding drift.
func (s *checkoutService) checkSumInvariant(itemCents int64, cartTotal decimal.Decimal) error {
	cartCents := cartTotal.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	diff := itemCents - cartCents
	if diff < 0 {
		diff = -diff
	}
	if diff > sumToleranceCents {
		s.Logger.Errorw("line item sum does not match cart total",
			"item_cents", itemCents,
			"cart_cents", cartCents)
		return ierr.NewError("line items do not sum to cart total").
			WithHint("Cart pricing is inconsistent, refusing to invoice").
			WithReportableDetails(map[string]any{
				"item_cents": itemCents,
				"cart_cents": cartCents,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

func checkoutDescription(c *cart.Cart) string {
	names := lo.Map(c.Products, func(p cart.Product, _ int) string {
		return p.Name
	})
	return strings.Join(lo.Slice(names, 0, 3), ", ")
}
