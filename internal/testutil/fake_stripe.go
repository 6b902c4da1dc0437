package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stripe/stripe-go/v82"

	"github.com/venuebill/venuebill/internal/domain/cart"
	stripeintg "github.com/venuebill/venuebill/internal/integration/stripe"
)

// FakeInvoiceProvider records provider invoice calls in memory. Setting
// Err makes every call fail with it, which lets tests assert that local
// state stays untouched when the provider rejects a mutation.
type FakeInvoiceProvider struct {
	mu  sync.Mutex
	Err error

	Drafts       []FakeDraftInvoice
	LineItems    []cart.LineItem
	Finalized    []string
	PendingItems []FakePendingItem
}

type FakeDraftInvoice struct {
	ConnectedAccountID string
	StripeCustomerID   string
	Description        string
	Metadata           map[string]string
	IdempotencyKey     string
}

type FakePendingItem struct {
	ConnectedAccountID string
	StripeCustomerID   string
	Currency           string
	Description        string
	AmountCents        int64
	Metadata           map[string]string
	IdempotencyKey     string
}

func NewFakeInvoiceProvider() *FakeInvoiceProvider {
	return &FakeInvoiceProvider{}
}

func (f *FakeInvoiceProvider) CreateDraftInvoice(ctx context.Context, connectedAccountID, stripeCustomerID, description string, metadata map[string]string, idempotencyKey string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return "", f.Err
	}
	f.Drafts = append(f.Drafts, FakeDraftInvoice{
		ConnectedAccountID: connectedAccountID,
		StripeCustomerID:   stripeCustomerID,
		Description:        description,
		Metadata:           metadata,
		IdempotencyKey:     idempotencyKey,
	})
	return fmt.Sprintf("in_fake_%d", len(f.Drafts)), nil
}

func (f *FakeInvoiceProvider) AddLineItem(ctx context.Context, connectedAccountID, stripeInvoiceID, stripeCustomerID string, item cart.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.LineItems = append(f.LineItems, item)
	return nil
}

func (f *FakeInvoiceProvider) FinalizeInvoice(ctx context.Context, connectedAccountID, stripeInvoiceID string) (*stripe.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	f.Finalized = append(f.Finalized, stripeInvoiceID)

	var total int64
	for _, item := range f.LineItems {
		total += item.AmountCents
	}
	return &stripe.Invoice{
		ID:     stripeInvoiceID,
		Status: stripe.InvoiceStatusOpen,
		Total:  total,
	}, nil
}

func (f *FakeInvoiceProvider) CreatePendingItem(ctx context.Context, connectedAccountID, stripeCustomerID, currency, description string, amountCents int64, metadata map[string]string, idempotencyKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.PendingItems = append(f.PendingItems, FakePendingItem{
		ConnectedAccountID: connectedAccountID,
		StripeCustomerID:   stripeCustomerID,
		Currency:           currency,
		Description:        description,
		AmountCents:        amountCents,
		Metadata:           metadata,
		IdempotencyKey:     idempotencyKey,
	})
	return nil
}

// FakeSubscriptionProvider records subscription mutations in memory.
type FakeSubscriptionProvider struct {
	mu  sync.Mutex
	Err error

	Pauses           []FakePauseCollection
	Resumes          []string
	PeriodEndCancels []string
	DateCancels      []FakeCancelAt
	Reactivations    []string
}

type FakePauseCollection struct {
	SubscriptionID string
	ResumesAt      time.Time
}

type FakeCancelAt struct {
	SubscriptionID string
	CancelAt       time.Time
}

func NewFakeSubscriptionProvider() *FakeSubscriptionProvider {
	return &FakeSubscriptionProvider{}
}

func (f *FakeSubscriptionProvider) PauseCollection(ctx context.Context, connectedAccountID, subscriptionID string, resumesAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.Pauses = append(f.Pauses, FakePauseCollection{SubscriptionID: subscriptionID, ResumesAt: resumesAt})
	return nil
}

func (f *FakeSubscriptionProvider) ResumeCollection(ctx context.Context, connectedAccountID, subscriptionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.Resumes = append(f.Resumes, subscriptionID)
	return nil
}

func (f *FakeSubscriptionProvider) CancelAtPeriodEnd(ctx context.Context, connectedAccountID, subscriptionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.PeriodEndCancels = append(f.PeriodEndCancels, subscriptionID)
	return nil
}

func (f *FakeSubscriptionProvider) CancelAt(ctx context.Context, connectedAccountID, subscriptionID string, cancelAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.DateCancels = append(f.DateCancels, FakeCancelAt{SubscriptionID: subscriptionID, CancelAt: cancelAt})
	return nil
}

func (f *FakeSubscriptionProvider) Reactivate(ctx context.Context, connectedAccountID, subscriptionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.Reactivations = append(f.Reactivations, subscriptionID)
	return nil
}

// FakeCheckoutProvider records checkout session requests in memory.
type FakeCheckoutProvider struct {
	mu  sync.Mutex
	Err error

	Sessions []*stripeintg.CheckoutSessionRequest
}

func NewFakeCheckoutProvider() *FakeCheckoutProvider {
	return &FakeCheckoutProvider{}
}

func (f *FakeCheckoutProvider) CreateSession(ctx context.Context, req *stripeintg.CheckoutSessionRequest) (*stripe.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	f.Sessions = append(f.Sessions, req)
	return &stripe.CheckoutSession{
		ID:  fmt.Sprintf("cs_fake_%d", len(f.Sessions)),
		URL: fmt.Sprintf("https://checkout.example/cs_fake_%d", len(f.Sessions)),
	}, nil
}
