package stripe

import (
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/venuebill/venuebill/internal/config"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
)

// Client handles Stripe API client setup. The platform holds a single
// secret key; individual venues are scoped per call via their connected
// account id (Stripe-Account header).
type Client struct {
	cfg    *config.Configuration
	logger *logger.Logger
	sc     *stripe.Client
}

// NewClient creates a new Stripe client
func NewClient(cfg *config.Configuration, logger *logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
		sc:     stripe.NewClient(cfg.Stripe.SecretKey, nil),
	}
}

// API returns the underlying Stripe client
func (c *Client) API() *stripe.Client {
	return c.sc
}

// VerifyWebhookEvent verifies a webhook payload signature and parses the
// event envelope.
func (c *Client) VerifyWebhookEvent(payload []byte, signature string) (*stripe.Event, error) {
	options := webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, c.cfg.Stripe.WebhookSecret, options)
	if err != nil {
		c.logger.Errorw("stripe webhook verification failed", "error", err)
		return nil, ierr.NewError("failed to verify webhook signature").
			WithHint("Invalid webhook signature or payload").
			Mark(ierr.ErrValidation)
	}
	return &event, nil
}
