package membership

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/venuebill/venuebill/internal/domain/subscription"
	"github.com/venuebill/venuebill/internal/types"
)

// Membership is a customer's recurring billing agreement as tracked
// locally. The provider owns the billing schedule; this record carries the
// contract terms, the advancing billing date, and the running billing
// count the webhook handler maintains.
type Membership struct {
	ID         string `db:"id" json:"id"`
	CustomerID string `db:"customer_id" json:"customer_id"`

	// ProviderCustomerID is the provider-issued customer id the
	// subscription bills against
	ProviderCustomerID string `db:"provider_customer_id" json:"provider_customer_id"`

	// PlanName is the display name of the membership product
	PlanName string `db:"plan_name" json:"plan_name"`

	Currency string `db:"currency" json:"currency"`

	subscription.Subscription

	// NextBillingDate is advanced by one cycle per successful recurring
	// payment, at webhook processing time.
	NextBillingDate time.Time `db:"next_billing_date" json:"next_billing_date"`

	// BillingCount is the number of successful billings so far
	BillingCount int `db:"billing_count" json:"billing_count"`

	MembershipStatus types.MembershipStatus `db:"membership_status" json:"membership_status"`

	types.BaseModel
}

// Pause records one pause of a membership, including the credit issued
// when it was scheduled so an early resume can claw back the excess.
type Pause struct {
	ID           string `db:"id" json:"id"`
	MembershipID string `db:"membership_id" json:"membership_id"`

	PausedAt  time.Time `db:"paused_at" json:"paused_at"`
	ResumesAt time.Time `db:"resumes_at" json:"resumes_at"`

	// PauseDays is the scheduled pause length in days
	PauseDays int `db:"pause_days" json:"pause_days"`

	// CreditedDays is how many of those days fell in the current cycle
	// and earned the credit
	CreditedDays int `db:"credited_days" json:"credited_days"`

	// Credit issued when the pause was scheduled
	Credit decimal.Decimal `db:"credit" json:"credit"`

	// SkippedCycles is the number of whole cycles the pause spans
	SkippedCycles int `db:"skipped_cycles" json:"skipped_cycles"`

	// Completed is set when the membership resumes
	Completed bool `db:"completed" json:"completed"`

	types.BaseModel
}
