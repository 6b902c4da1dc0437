package settings

import (
	"context"

	"github.com/venuebill/venuebill/internal/types"
)

// BillingSettings holds per-organization billing configuration.
type BillingSettings struct {
	ID string `db:"id" json:"id"`

	// MinPaymentPercent is the minimum first-payment percentage a payer
	// must cover on a payment link (0-100).
	MinPaymentPercent int `db:"min_payment_percent" json:"min_payment_percent"`

	// ReceiptSenderName appears on receipt notifications
	ReceiptSenderName string `db:"receipt_sender_name" json:"receipt_sender_name"`

	// ConnectedAccountID scopes provider calls to the organization's
	// connected account.
	ConnectedAccountID string `db:"connected_account_id" json:"connected_account_id"`

	types.BaseModel
}

// Repository provides access to organization billing settings
type Repository interface {
	// GetByOrganization returns the organization's settings, or a
	// not-found error when none have been configured.
	GetByOrganization(ctx context.Context, organizationID string) (*BillingSettings, error)
	Upsert(ctx context.Context, s *BillingSettings) error
}
