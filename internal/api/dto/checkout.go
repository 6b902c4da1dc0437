package dto

import (
	"github.com/venuebill/venuebill/internal/domain/cart"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/validator"
)

// CheckoutRequest submits a cart for invoicing
type CheckoutRequest struct {
	CustomerID       string     `json:"customer_id" validate:"required"`
	StripeCustomerID string     `json:"stripe_customer_id" validate:"required"`
	Cart             *cart.Cart `json:"cart" validate:"required"`

	// CheckoutReference is the client's basket reference. When present it
	// dedupes retried submissions of the same basket at the provider.
	CheckoutReference string `json:"checkout_reference,omitempty"`
}

func (r *CheckoutRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if len(r.Cart.Products) == 0 {
		return ierr.NewError("cart is empty").
			WithHint("Checkout requires at least one product").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CheckoutResponse returns the created invoice identifiers
type CheckoutResponse struct {
	InvoiceID         string `json:"invoice_id"`
	ProviderInvoiceID string `json:"provider_invoice_id"`
	TotalCents        int64  `json:"total_cents"`
	LineItemCount     int    `json:"line_item_count"`
}
