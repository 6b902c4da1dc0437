package invoice

import "context"

// Repository provides access to local invoice records
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	GetByProviderInvoiceID(ctx context.Context, providerInvoiceID string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
}
