package service

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"

	"github.com/venuebill/venuebill/internal/api/dto"
	"github.com/venuebill/venuebill/internal/domain/membership"
	"github.com/venuebill/venuebill/internal/domain/subscription"
	"github.com/venuebill/venuebill/internal/domain/transaction"
	ierr "github.com/venuebill/venuebill/internal/errors"
	stripeintg "github.com/venuebill/venuebill/internal/integration/stripe"
	"github.com/venuebill/venuebill/internal/notify"
	"github.com/venuebill/venuebill/internal/types"
)

// WebhookService processes provider webhook events. Delivery is
// at-least-once and the payment-succeeded family has overlapping variants,
// so the provider invoice id works as the idempotency key: the first event
// for an invoice creates the ledger transaction, every later one is
// skipped by the unique lookup.
type WebhookService interface {
	ProcessEvent(ctx context.Context, payload []byte, signature string) (*dto.WebhookResult, error)
}

type webhookService struct {
	ServiceParams
	stripeClient    *stripeintg.Client
	settingsService SettingsService
}

// NewWebhookService creates a new webhook service
func NewWebhookService(params ServiceParams, stripeClient *stripeintg.Client, settingsService SettingsService) WebhookService {
	return &webhookService{
		ServiceParams:   params,
		stripeClient:    stripeClient,
		settingsService: settingsService,
	}
}

func (s *webhookService) ProcessEvent(ctx context.Context, payload []byte, signature string) (*dto.WebhookResult, error) {
	event, err := s.stripeClient.VerifyWebhookEvent(payload, signature)
	if err != nil {
		return nil, err
	}

	eventType := types.WebhookEventType(event.Type)
	result := &dto.WebhookResult{
		Status:    dto.WebhookResultIgnored,
		EventType: string(event.Type),
	}

	switch {
	case eventType.IsPaymentSucceeded():
		return s.handlePaymentSucceeded(ctx, event)
	case eventType == types.WebhookEventTypeInvoiceUpdated:
		return s.handleInvoiceUpdated(ctx, event)
	case eventType == types.WebhookEventTypeInvoicePaymentFailed:
		// Dunning is left to the provider. Logged for operators.
		s.Logger.Warnw("invoice payment failed",
			"event_id", event.ID,
			"event_type", event.Type)
		return result, nil
	case eventType == types.WebhookEventTypeSubscriptionDeleted:
		return s.handleSubscriptionDeleted(ctx, event)
	default:
		s.Logger.Debugw("ignoring unhandled webhook event",
			"event_id", event.ID,
			"event_type", event.Type)
		return result, nil
	}
}

func (s *webhookService) handlePaymentSucceeded(ctx context.Context, event *stripe.Event) (*dto.WebhookResult, error) {
	result := &dto.WebhookResult{EventType: string(event.Type)}

	stripeInvoice, err := parseInvoiceEvent(event)
	if err != nil {
		return nil, err
	}
	if stripeInvoice.ID == "" {
		s.Logger.Warnw("payment event has no invoice id, dropping",
			"event_id", event.ID,
			"event_type", event.Type)
		result.Status = dto.WebhookResultDropped
		return result, nil
	}

	ctx = s.withEventOrganization(ctx, stripeInvoice.Metadata)

	// Idempotency gate: one transaction per provider invoice id.
	if existing, err := s.TransactionRepo.GetByProviderInvoiceID(ctx, stripeInvoice.ID); err == nil {
		s.Logger.Infow("duplicate payment event, skipping",
			"event_id", event.ID,
			"provider_invoice_id", stripeInvoice.ID,
			"transaction_id", existing.ID)
		result.Status = dto.WebhookResultSkipped
		result.TransactionID = existing.ID
		return result, nil
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	m, err := s.resolveMembership(ctx, stripeInvoice)
	if err != nil {
		return nil, err
	}
	if m == nil {
		// Without a membership the invoice must be a one-off checkout
		// payment, and those always have a local mirror. An invoice that
		// correlates to nothing local must not be ledgered.
		if _, err := s.InvoiceRepo.GetByProviderInvoiceID(ctx, stripeInvoice.ID); err != nil {
			if ierr.IsNotFound(err) {
				s.Logger.Warnw("payment event correlates to no local record, dropping",
					"event_id", event.ID,
					"provider_invoice_id", stripeInvoice.ID)
				result.Status = dto.WebhookResultDropped
				return result, nil
			}
			return nil, err
		}
	}

	amount := decimal.NewFromInt(stripeInvoice.AmountPaid).Div(decimal.NewFromInt(100))
	membershipID := ""
	if m != nil {
		membershipID = m.ID
	}

	txn := transaction.New(ctx, stripeInvoice.ID, membershipID, amount, string(stripeInvoice.Currency))

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		// A concurrent delivery may win the unique-index race; the
		// already-exists error is treated the same as the lookup hit.
		if err := s.TransactionRepo.Create(ctx, txn); err != nil {
			return err
		}
		if err := s.syncLocalInvoice(ctx, stripeInvoice, txn.ID); err != nil {
			return err
		}
		if m != nil {
			return s.advanceMembership(ctx, m)
		}
		return nil
	})
	if err != nil {
		if ierr.IsAlreadyExists(err) {
			result.Status = dto.WebhookResultSkipped
			return result, nil
		}
		return nil, err
	}

	// Post-commit side effects are best effort: the transaction stands
	// even if the provider cancel call or the receipt delivery fails.
	if m != nil {
		s.applyMaxCountCancellation(ctx, m)
	}
	s.sendReceipt(ctx, txn, m)

	s.Logger.Infow("processed payment event",
		"event_id", event.ID,
		"provider_invoice_id", stripeInvoice.ID,
		"transaction_id", txn.ID,
		"amount", amount)

	result.Status = dto.WebhookResultProcessed
	result.TransactionID = txn.ID
	return result, nil
}

func (s *webhookService) handleInvoiceUpdated(ctx context.Context, event *stripe.Event) (*dto.WebhookResult, error) {
	result := &dto.WebhookResult{EventType: string(event.Type)}

	stripeInvoice, err := parseInvoiceEvent(event)
	if err != nil {
		return nil, err
	}
	if stripeInvoice.ID == "" {
		result.Status = dto.WebhookResultDropped
		return result, nil
	}

	ctx = s.withEventOrganization(ctx, stripeInvoice.Metadata)

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		return s.syncLocalInvoice(ctx, stripeInvoice, "")
	})
	if err != nil {
		if ierr.IsNotFound(err) {
			// Not every provider invoice has a local mirror.
			result.Status = dto.WebhookResultIgnored
			return result, nil
		}
		return nil, err
	}

	result.Status = dto.WebhookResultProcessed
	return result, nil
}

func (s *webhookService) handleSubscriptionDeleted(ctx context.Context, event *stripe.Event) (*dto.WebhookResult, error) {
	result := &dto.WebhookResult{EventType: string(event.Type)}

	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Malformed subscription event payload").
			Mark(ierr.ErrValidation)
	}

	ctx = s.withEventOrganization(ctx, sub.Metadata)

	m, err := s.MembershipRepo.GetByProviderSubscriptionID(ctx, sub.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("subscription deleted for unknown membership, dropping",
				"event_id", event.ID,
				"provider_subscription_id", sub.ID)
			result.Status = dto.WebhookResultDropped
			return result, nil
		}
		return nil, err
	}

	m.MembershipStatus = types.MembershipStatusCancelled
	if err := s.MembershipRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	s.Logger.Infow("membership cancelled by provider",
		"membership_id", m.ID,
		"provider_subscription_id", sub.ID)

	result.Status = dto.WebhookResultProcessed
	return result, nil
}

// resolveMembership correlates an invoice event back to a membership via
// stamped metadata first, then the subscription id. A nil membership with
// nil error means the invoice is a one-off checkout payment.
func (s *webhookService) resolveMembership(ctx context.Context, stripeInvoice *stripe.Invoice) (*membership.Membership, error) {
	if id := stripeInvoice.Metadata[types.ProviderMetadataMembershipID]; id != "" {
		m, err := s.MembershipRepo.Get(ctx, id)
		if err == nil {
			return m, nil
		}
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		s.Logger.Warnw("invoice metadata references unknown membership",
			"membership_id", id,
			"provider_invoice_id", stripeInvoice.ID)
	}

	subID := subscriptionIDFromInvoice(stripeInvoice)
	if subID == "" {
		return nil, nil
	}

	m, err := s.MembershipRepo.GetByProviderSubscriptionID(ctx, subID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("invoice subscription has no local membership",
				"provider_subscription_id", subID,
				"provider_invoice_id", stripeInvoice.ID)
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// syncLocalInvoice mirrors provider amounts onto the local invoice record
// and links the ledger transaction when one was just created.
func (s *webhookService) syncLocalInvoice(ctx context.Context, stripeInvoice *stripe.Invoice, transactionID string) error {
	inv, err := s.InvoiceRepo.GetByProviderInvoiceID(ctx, stripeInvoice.ID)
	if err != nil {
		if ierr.IsNotFound(err) && transactionID != "" {
			// Recurring subscription invoices have no local mirror.
			return nil
		}
		return err
	}

	inv.AmountDue = decimal.NewFromInt(stripeInvoice.Total).Div(decimal.NewFromInt(100))
	inv.AmountPaid = decimal.NewFromInt(stripeInvoice.AmountPaid).Div(decimal.NewFromInt(100))
	inv.SyncPaymentStatus()
	if transactionID != "" {
		inv.TransactionID = transactionID
	}

	return s.InvoiceRepo.Update(ctx, inv)
}

// advanceMembership moves the billing schedule forward one cycle after a
// successful recurring payment.
func (s *webhookService) advanceMembership(ctx context.Context, m *membership.Membership) error {
	next, err := types.NextBillingDate(m.NextBillingDate, m.BillingPeriodUnit, m.BillingPeriod)
	if err != nil {
		return err
	}
	m.NextBillingDate = next
	m.BillingCount++
	return s.MembershipRepo.Update(ctx, m)
}

// applyMaxCountCancellation schedules a period-end cancellation once the
// billing count reaches the configured cap. Best effort: failures are
// logged and the next successful payment retries.
func (s *webhookService) applyMaxCountCancellation(ctx context.Context, m *membership.Membership) {
	if !subscription.ShouldCancelForBillingCount(&m.Subscription, m.BillingCount) {
		return
	}
	if m.IsCancellationScheduled() {
		return
	}

	bs, err := s.settingsService.GetOrDefault(ctx)
	if err != nil {
		s.Logger.Errorw("failed to load settings for max-count cancellation",
			"error", err,
			"membership_id", m.ID)
		return
	}

	if err := s.StripeSubscription.CancelAtPeriodEnd(ctx, bs.ConnectedAccountID, m.ProviderSubscriptionID); err != nil {
		s.Logger.Errorw("failed to schedule max-count cancellation",
			"error", err,
			"membership_id", m.ID)
		return
	}

	m.CancelAtPeriodEnd = true
	if err := s.MembershipRepo.Update(ctx, m); err != nil {
		s.Logger.Errorw("failed to persist max-count cancellation",
			"error", err,
			"membership_id", m.ID)
		return
	}

	s.Logger.Infow("scheduled max-count cancellation",
		"membership_id", m.ID,
		"billing_count", m.BillingCount)
}

func (s *webhookService) sendReceipt(ctx context.Context, txn *transaction.Transaction, m *membership.Membership) {
	receipt := &notify.Receipt{
		TransactionID:  txn.ID,
		ReceiptNumber:  txn.ReceiptNumber,
		MembershipID:   txn.MembershipID,
		Amount:         txn.Amount.StringFixed(2),
		Currency:       txn.Currency,
		OrganizationID: txn.OrganizationID,
	}
	if m != nil {
		receipt.CustomerID = m.CustomerID
	}
	if bs, err := s.settingsService.GetOrDefault(ctx); err == nil {
		receipt.SenderName = bs.ReceiptSenderName
	}

	if err := s.ReceiptNotifier.Send(ctx, receipt); err != nil {
		s.Logger.Errorw("failed to send receipt notification",
			"error", err,
			"transaction_id", txn.ID)
	}
}

// withEventOrganization scopes the unauthenticated webhook context to the
// organization stamped in the event metadata, when present.
func (s *webhookService) withEventOrganization(ctx context.Context, metadata map[string]string) context.Context {
	if orgID := metadata[types.ProviderMetadataOrganizationID]; orgID != "" {
		return types.SetOrganizationID(ctx, orgID)
	}
	return ctx
}

func parseInvoiceEvent(event *stripe.Event) (*stripe.Invoice, error) {
	var stripeInvoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &stripeInvoice); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Malformed invoice event payload").
			Mark(ierr.ErrValidation)
	}
	return &stripeInvoice, nil
}

func subscriptionIDFromInvoice(stripeInvoice *stripe.Invoice) string {
	parent := stripeInvoice.Parent
	if parent == nil || parent.SubscriptionDetails == nil || parent.SubscriptionDetails.Subscription == nil {
		return ""
	}
	return parent.SubscriptionDetails.Subscription.ID
}
