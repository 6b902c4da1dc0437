package stripe

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v82"

	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
)

// SubscriptionProvider is the provider surface for subscription mutations.
type SubscriptionProvider interface {
	PauseCollection(ctx context.Context, connectedAccountID, subscriptionID string, resumesAt time.Time) error
	ResumeCollection(ctx context.Context, connectedAccountID, subscriptionID string) error
	CancelAtPeriodEnd(ctx context.Context, connectedAccountID, subscriptionID string) error
	CancelAt(ctx context.Context, connectedAccountID, subscriptionID string, cancelAt time.Time) error
	Reactivate(ctx context.Context, connectedAccountID, subscriptionID string) error
}

// SubscriptionService mutates subscriptions at the provider: collection
// pause/resume and the two cancellation modes.
type SubscriptionService struct {
	client *Client
	logger *logger.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(client *Client, logger *logger.Logger) SubscriptionProvider {
	return &SubscriptionService{
		client: client,
		logger: logger,
	}
}

// PauseCollection voids invoices for the subscription until resumesAt.
func (s *SubscriptionService) PauseCollection(ctx context.Context, connectedAccountID, subscriptionID string, resumesAt time.Time) error {
	params := &stripe.SubscriptionUpdateParams{
		PauseCollection: &stripe.SubscriptionUpdatePauseCollectionParams{
			Behavior:  stripe.String("void"),
			ResumesAt: stripe.Int64(resumesAt.Unix()),
		},
	}
	params.SetStripeAccount(connectedAccountID)

	_, err := s.client.API().V1Subscriptions.Update(ctx, subscriptionID, params)
	if err != nil {
		s.logger.Errorw("failed to pause subscription collection",
			"error", err,
			"subscription_id", subscriptionID)
		return ierr.WithError(err).
			WithHint("Unable to pause the subscription with the billing provider").
			Mark(ierr.ErrProvider)
	}

	s.logger.Infow("paused subscription collection",
		"subscription_id", subscriptionID,
		"resumes_at", resumesAt)

	return nil
}

// ResumeCollection clears the pause, restoring normal billing.
func (s *SubscriptionService) ResumeCollection(ctx context.Context, connectedAccountID, subscriptionID string) error {
	params := &stripe.SubscriptionUpdateParams{}
	// Unsetting pause_collection requires an explicit empty value
	params.AddExtra("pause_collection", "")
	params.SetStripeAccount(connectedAccountID)

	_, err := s.client.API().V1Subscriptions.Update(ctx, subscriptionID, params)
	if err != nil {
		s.logger.Errorw("failed to resume subscription collection",
			"error", err,
			"subscription_id", subscriptionID)
		return ierr.WithError(err).
			WithHint("Unable to resume the subscription with the billing provider").
			Mark(ierr.ErrProvider)
	}

	s.logger.Infow("resumed subscription collection", "subscription_id", subscriptionID)
	return nil
}

// CancelAtPeriodEnd schedules cancellation for the end of the current
// billing period.
func (s *SubscriptionService) CancelAtPeriodEnd(ctx context.Context, connectedAccountID, subscriptionID string) error {
	params := &stripe.SubscriptionUpdateParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.SetStripeAccount(connectedAccountID)

	_, err := s.client.API().V1Subscriptions.Update(ctx, subscriptionID, params)
	if err != nil {
		s.logger.Errorw("failed to schedule period-end cancellation",
			"error", err,
			"subscription_id", subscriptionID)
		return ierr.WithError(err).
			WithHint("Unable to schedule the cancellation with the billing provider").
			Mark(ierr.ErrProvider)
	}

	s.logger.Infow("scheduled period-end cancellation", "subscription_id", subscriptionID)
	return nil
}

// CancelAt schedules cancellation for a specific timestamp, used when a
// minimum-contract floor extends past the next billing date.
func (s *SubscriptionService) CancelAt(ctx context.Context, connectedAccountID, subscriptionID string, cancelAt time.Time) error {
	params := &stripe.SubscriptionUpdateParams{
		CancelAt: stripe.Int64(cancelAt.Unix()),
	}
	params.SetStripeAccount(connectedAccountID)

	_, err := s.client.API().V1Subscriptions.Update(ctx, subscriptionID, params)
	if err != nil {
		s.logger.Errorw("failed to schedule dated cancellation",
			"error", err,
			"subscription_id", subscriptionID,
			"cancel_at", cancelAt)
		return ierr.WithError(err).
			WithHint("Unable to schedule the cancellation with the billing provider").
			Mark(ierr.ErrProvider)
	}

	s.logger.Infow("scheduled dated cancellation",
		"subscription_id", subscriptionID,
		"cancel_at", cancelAt)

	return nil
}

// Reactivate clears both cancellation modes, restoring indefinite billing.
func (s *SubscriptionService) Reactivate(ctx context.Context, connectedAccountID, subscriptionID string) error {
	params := &stripe.SubscriptionUpdateParams{
		CancelAtPeriodEnd: stripe.Bool(false),
	}
	// Unsetting cancel_at requires an explicit empty value
	params.AddExtra("cancel_at", "")
	params.SetStripeAccount(connectedAccountID)

	_, err := s.client.API().V1Subscriptions.Update(ctx, subscriptionID, params)
	if err != nil {
		s.logger.Errorw("failed to reactivate subscription",
			"error", err,
			"subscription_id", subscriptionID)
		return ierr.WithError(err).
			WithHint("Unable to reactivate the subscription with the billing provider").
			Mark(ierr.ErrProvider)
	}

	s.logger.Infow("reactivated subscription", "subscription_id", subscriptionID)
	return nil
}
