package dto

// WebhookResultStatus describes how a webhook event was handled
type WebhookResultStatus string

const (
	// WebhookResultProcessed means the event created or mutated records
	WebhookResultProcessed WebhookResultStatus = "processed"

	// WebhookResultSkipped means the event was a duplicate for an
	// already-processed provider invoice
	WebhookResultSkipped WebhookResultStatus = "skipped"

	// WebhookResultDropped means the event lacked correlation data and
	// was logged and discarded
	WebhookResultDropped WebhookResultStatus = "dropped"

	// WebhookResultIgnored means the event type is not handled
	WebhookResultIgnored WebhookResultStatus = "ignored"
)

// WebhookResult reports the outcome of processing one provider event
type WebhookResult struct {
	Status        WebhookResultStatus `json:"status"`
	EventType     string              `json:"event_type"`
	TransactionID string              `json:"transaction_id,omitempty"`
}
