package transaction

import "context"

// Repository provides access to the transaction ledger
type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)

	// GetByProviderInvoiceID looks up a transaction by its provider
	// invoice id. This is the webhook idempotency lookup: a nil
	// not-found error means the payment has not been processed yet.
	GetByProviderInvoiceID(ctx context.Context, providerInvoiceID string) (*Transaction, error)

	ListByMembership(ctx context.Context, membershipID string) ([]*Transaction, error)
}
