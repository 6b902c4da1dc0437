package types

import "fmt"

// MembershipStatus is the lifecycle status of a recurring membership
type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusPaused    MembershipStatus = "paused"
	MembershipStatusCancelled MembershipStatus = "cancelled"
)

// CancellationMode selects which provider API mode a cancellation uses
type CancellationMode string

const (
	// CancellationModeAtPeriodEnd maps to the provider's boolean
	// cancel_at_period_end flag.
	CancellationModeAtPeriodEnd CancellationMode = "at_period_end"

	// CancellationModeAtDate maps to the provider's cancel_at timestamp.
	// Used when a minimum-contract floor pushes cancellation past the
	// next billing date.
	CancellationModeAtDate CancellationMode = "at_date"
)

// TransactionStatus is the settlement status of a ledger transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusSucceeded TransactionStatus = "succeeded"
	TransactionStatusFailed    TransactionStatus = "failed"
)

func (s TransactionStatus) Validate() error {
	switch s {
	case TransactionStatusPending, TransactionStatusSucceeded, TransactionStatusFailed:
		return nil
	}
	return fmt.Errorf("invalid transaction status: %s", s)
}
