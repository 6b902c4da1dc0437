package types

import "fmt"

// InvoicePaymentStatus tracks how much of an invoice has been collected.
// Transitions are driven exclusively by provider webhook confirmations,
// never by client-submitted amounts.
type InvoicePaymentStatus string

const (
	InvoicePaymentStatusOpen          InvoicePaymentStatus = "open"
	InvoicePaymentStatusPartiallyPaid InvoicePaymentStatus = "partially_paid"
	InvoicePaymentStatusPaid          InvoicePaymentStatus = "paid"
)

func (s InvoicePaymentStatus) Validate() error {
	switch s {
	case InvoicePaymentStatusOpen, InvoicePaymentStatusPartiallyPaid, InvoicePaymentStatusPaid:
		return nil
	}
	return fmt.Errorf("invalid invoice payment status: %s", s)
}

// LineItemType tags a billing line item with its origin in the cart
type LineItemType string

const (
	LineItemTypeProduct   LineItemType = "product"
	LineItemTypeGroup     LineItemType = "group"
	LineItemTypeDiscount  LineItemType = "discount"
	LineItemTypeSurcharge LineItemType = "surcharge"
	LineItemTypeTax       LineItemType = "tax"
)
