package service

import (
	"github.com/venuebill/venuebill/internal/cache"
	"github.com/venuebill/venuebill/internal/config"
	"github.com/venuebill/venuebill/internal/domain/invoice"
	"github.com/venuebill/venuebill/internal/domain/membership"
	"github.com/venuebill/venuebill/internal/domain/settings"
	"github.com/venuebill/venuebill/internal/domain/transaction"
	stripeintg "github.com/venuebill/venuebill/internal/integration/stripe"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/notify"
	"github.com/venuebill/venuebill/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Repositories
	TransactionRepo transaction.Repository
	MembershipRepo  membership.Repository
	InvoiceRepo     invoice.Repository
	SettingsRepo    settings.Repository

	// Provider integration
	StripeInvoice      stripeintg.InvoiceProvider
	StripeSubscription stripeintg.SubscriptionProvider
	StripeCheckout     stripeintg.CheckoutProvider

	// Notifications
	ReceiptNotifier notify.ReceiptNotifier
}

// NewServiceParams assembles the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	transactionRepo transaction.Repository,
	membershipRepo membership.Repository,
	invoiceRepo invoice.Repository,
	settingsRepo settings.Repository,
	stripeInvoice stripeintg.InvoiceProvider,
	stripeSubscription stripeintg.SubscriptionProvider,
	stripeCheckout stripeintg.CheckoutProvider,
	receiptNotifier notify.ReceiptNotifier,
) ServiceParams {
	return ServiceParams{
		Logger:             logger,
		Config:             config,
		DB:                 db,
		Cache:              cache,
		TransactionRepo:    transactionRepo,
		MembershipRepo:     membershipRepo,
		InvoiceRepo:        invoiceRepo,
		SettingsRepo:       settingsRepo,
		StripeInvoice:      stripeInvoice,
		StripeSubscription: stripeSubscription,
		StripeCheckout:     stripeCheckout,
		ReceiptNotifier:    receiptNotifier,
	}
}
