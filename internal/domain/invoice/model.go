package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/venuebill/venuebill/internal/types"
)

// Invoice is the local, append-only mirror of a provider invoice: amount
// due, amount paid, and payment status. It is updated only by
// webhook-driven status syncs, never mutated directly by client code.
type Invoice struct {
	ID string `db:"id" json:"id"`

	// ProviderInvoiceID is the provider-issued invoice identifier
	ProviderInvoiceID string `db:"provider_invoice_id" json:"provider_invoice_id"`

	// TransactionID links the invoice back to its ledger transaction
	TransactionID string `db:"transaction_id" json:"transaction_id"`

	CustomerID  string `db:"customer_id" json:"customer_id"`
	Description string `db:"description" json:"description"`
	Currency    string `db:"currency" json:"currency"`

	AmountDue  decimal.Decimal `db:"amount_due" json:"amount_due"`
	AmountPaid decimal.Decimal `db:"amount_paid" json:"amount_paid"`

	PaymentStatus types.InvoicePaymentStatus `db:"payment_status" json:"payment_status"`

	types.BaseModel
}

// AmountRemaining is the outstanding balance
func (i *Invoice) AmountRemaining() decimal.Decimal {
	return i.AmountDue.Sub(i.AmountPaid)
}

// SyncPaymentStatus derives the payment status from cumulative paid
// amount: open -> partially_paid -> paid as amountPaid crosses zero and
// reaches the total.
func (i *Invoice) SyncPaymentStatus() {
	switch {
	case i.AmountPaid.GreaterThanOrEqual(i.AmountDue) && i.AmountDue.GreaterThan(decimal.Zero):
		i.PaymentStatus = types.InvoicePaymentStatusPaid
	case i.AmountPaid.GreaterThan(decimal.Zero):
		i.PaymentStatus = types.InvoicePaymentStatusPartiallyPaid
	default:
		i.PaymentStatus = types.InvoicePaymentStatusOpen
	}
}
