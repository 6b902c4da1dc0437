package types

// WebhookEventType enumerates the provider webhook events this service
// reacts to. Delivery is at-least-once and event variants for the same
// payment may arrive out of order or duplicated.
type WebhookEventType string

const (
	WebhookEventTypeInvoicePaid             WebhookEventType = "invoice.paid"
	WebhookEventTypeInvoicePaymentSucceeded WebhookEventType = "invoice.payment_succeeded"
	WebhookEventTypeInvoicePaymentFailed    WebhookEventType = "invoice.payment_failed"
	WebhookEventTypeInvoiceUpdated          WebhookEventType = "invoice.updated"
	WebhookEventTypeSubscriptionDeleted     WebhookEventType = "customer.subscription.deleted"
)

// IsPaymentSucceeded reports whether the event belongs to the
// payment-succeeded family that creates ledger transactions.
func (t WebhookEventType) IsPaymentSucceeded() bool {
	return t == WebhookEventTypeInvoicePaid || t == WebhookEventTypeInvoicePaymentSucceeded
}

// Metadata keys stamped onto provider invoices so webhook events can be
// correlated back to local records.
const (
	ProviderMetadataMembershipID   = "venuebill_membership_id"
	ProviderMetadataTransactionID  = "venuebill_transaction_id"
	ProviderMetadataOrganizationID = "venuebill_organization_id"
)
