package transaction

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/venuebill/venuebill/internal/types"
)

// Transaction is an append-only ledger record of money collected. Exactly
// one transaction exists per provider invoice id: the provider invoice id
// is the webhook idempotency key, enforced by a unique index.
type Transaction struct {
	ID string `db:"id" json:"id"`

	// ProviderInvoiceID is the provider-issued invoice identifier this
	// transaction settles. Unique across the ledger.
	ProviderInvoiceID string `db:"provider_invoice_id" json:"provider_invoice_id"`

	// MembershipID links recurring payments back to a membership.
	// Empty for one-off checkout transactions.
	MembershipID string `db:"membership_id" json:"membership_id"`

	Amount   decimal.Decimal         `db:"amount" json:"amount"`
	Currency string                  `db:"currency" json:"currency"`
	TxStatus types.TransactionStatus `db:"tx_status" json:"tx_status"`

	// ReceiptNumber is the short human-facing receipt reference
	ReceiptNumber string `db:"receipt_number" json:"receipt_number"`

	types.BaseModel
}

// New builds a transaction with generated identifiers
func New(ctx context.Context, providerInvoiceID, membershipID string, amount decimal.Decimal, currency string) *Transaction {
	return &Transaction{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION),
		ProviderInvoiceID: providerInvoiceID,
		MembershipID:      membershipID,
		Amount:            amount,
		Currency:          currency,
		TxStatus:          types.TransactionStatusSucceeded,
		ReceiptNumber:     types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT),
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}
}
