package membership

import "context"

// Repository provides access to membership and pause records
type Repository interface {
	Create(ctx context.Context, m *Membership) error
	Get(ctx context.Context, id string) (*Membership, error)
	GetByProviderSubscriptionID(ctx context.Context, providerSubscriptionID string) (*Membership, error)
	Update(ctx context.Context, m *Membership) error

	CreatePause(ctx context.Context, p *Pause) error
	// GetActivePause returns the current incomplete pause for a
	// membership, or a not-found error.
	GetActivePause(ctx context.Context, membershipID string) (*Pause, error)
	UpdatePause(ctx context.Context, p *Pause) error
}
