package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/venuebill/venuebill/internal/config"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
)

// Receipt is the payload posted to the notification webhook after a
// successful recurring payment.
type Receipt struct {
	TransactionID  string `json:"transaction_id"`
	ReceiptNumber  string `json:"receipt_number"`
	MembershipID   string `json:"membership_id"`
	CustomerID     string `json:"customer_id"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	SenderName     string `json:"sender_name,omitempty"`
	OrganizationID string `json:"organization_id"`
}

// ReceiptNotifier delivers receipt notifications
type ReceiptNotifier interface {
	Send(ctx context.Context, receipt *Receipt) error
}

type webhookNotifier struct {
	cfg    *config.Configuration
	client *retryablehttp.Client
	logger *logger.Logger
}

// NewReceiptNotifier creates a notifier that posts receipts to the
// configured webhook URL. Disabled configuration yields a no-op sender.
func NewReceiptNotifier(cfg *config.Configuration, log *logger.Logger) ReceiptNotifier {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.Notify.MaxRetries
	client.HTTPClient.Timeout = 15 * time.Second
	client.Logger = nil

	return &webhookNotifier{
		cfg:    cfg,
		client: client,
		logger: log,
	}
}

func (n *webhookNotifier) Send(ctx context.Context, receipt *Receipt) error {
	if !n.cfg.Notify.Enabled || n.cfg.Notify.WebhookURL == "" {
		n.logger.Debugw("receipt notifications disabled, skipping",
			"transaction_id", receipt.TransactionID)
		return nil
	}

	body, err := json.Marshal(receipt)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode receipt payload").
			Mark(ierr.ErrSystem)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.cfg.Notify.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to build receipt request").
			Mark(ierr.ErrSystem)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to deliver receipt notification").
			Mark(ierr.ErrSystem)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return ierr.NewError("receipt notification rejected").
			WithHintf("Notification endpoint returned status %d", resp.StatusCode).
			Mark(ierr.ErrSystem)
	}

	n.logger.Infow("sent receipt notification",
		"transaction_id", receipt.TransactionID,
		"receipt_number", receipt.ReceiptNumber)

	return nil
}
