package dto

import (
	"github.com/shopspring/decimal"

	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/types"
	"github.com/venuebill/venuebill/internal/validator"
)

// PaymentLinkSummary is the public view of an invoice on the payment page
type PaymentLinkSummary struct {
	InvoiceID      string                     `json:"invoice_id"`
	Description    string                     `json:"description"`
	Currency       string                     `json:"currency"`
	Total          decimal.Decimal            `json:"total"`
	AmountPaid     decimal.Decimal            `json:"amount_paid"`
	Remaining      decimal.Decimal            `json:"remaining"`
	MinimumPayable decimal.Decimal            `json:"minimum_payable"`
	PaymentStatus  types.InvoicePaymentStatus `json:"payment_status"`
}

// PaymentLinkPayRequest initiates a payment for a chosen amount
type PaymentLinkPayRequest struct {
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	SuccessURL string          `json:"success_url"`
	CancelURL  string          `json:"cancel_url"`
}

func (r *PaymentLinkPayRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("payment amount must be positive").
			WithHint("Enter an amount greater than zero").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentLinkPayResponse returns the provider checkout URL
type PaymentLinkPayResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}
