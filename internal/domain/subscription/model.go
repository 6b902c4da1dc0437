package subscription

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/venuebill/venuebill/internal/types"
)

// Subscription mirrors the recurring billing agreement held at the
// provider. The provider owns the billing schedule; this record carries
// the contract terms the scheduler needs.
type Subscription struct {
	// ProviderSubscriptionID is the provider-issued subscription id
	ProviderSubscriptionID string `db:"provider_subscription_id" json:"provider_subscription_id"`

	// StartDate anchors the minimum-contract window
	StartDate time.Time `db:"start_date" json:"start_date"`

	// BillingPeriod and BillingPeriodUnit define the billing frequency
	BillingPeriod     types.BillingPeriod `db:"billing_period" json:"billing_period"`
	BillingPeriodUnit int                 `db:"billing_period_unit" json:"billing_period_unit"`

	// CyclePrice is the recurring price of one billing cycle
	CyclePrice decimal.Decimal `db:"cycle_price" json:"cycle_price"`

	// MinimumCycles is the minimum-contract floor in billing cycles.
	// Zero means no minimum.
	MinimumCycles int `db:"minimum_cycles" json:"minimum_cycles"`

	// MaxBillingCount caps total successful billings. Nil means unlimited.
	MaxBillingCount *int `db:"max_billing_count" json:"max_billing_count"`

	// Cancellation intent, mirroring the provider's two modes
	CancelAtPeriodEnd bool       `db:"cancel_at_period_end" json:"cancel_at_period_end"`
	CancelAt          *time.Time `db:"cancel_at" json:"cancel_at"`
}

// IsCancellationScheduled reports whether either cancellation mode is set
func (s *Subscription) IsCancellationScheduled() bool {
	return s.CancelAtPeriodEnd || s.CancelAt != nil
}
