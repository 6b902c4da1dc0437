package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/venuebill/venuebill/internal/api"
	v1 "github.com/venuebill/venuebill/internal/api/v1"
	"github.com/venuebill/venuebill/internal/cache"
	"github.com/venuebill/venuebill/internal/config"
	"github.com/venuebill/venuebill/internal/domain/proration"
	stripeintg "github.com/venuebill/venuebill/internal/integration/stripe"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/notify"
	"github.com/venuebill/venuebill/internal/postgres"
	"github.com/venuebill/venuebill/internal/repository"
	"github.com/venuebill/venuebill/internal/sentry"
	"github.com/venuebill/venuebill/internal/service"
	"github.com/venuebill/venuebill/internal/validator"
)

// @title VenueBill API
// @version 1.0
// @description Venue membership billing service
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			validator.NewValidator,
			config.NewConfig,
			logger.NewLogger,
			cache.NewInMemoryCache,
			postgres.NewDB,

			// Provider integration
			stripeintg.NewClient,
			stripeintg.NewInvoiceService,
			stripeintg.NewSubscriptionService,
			stripeintg.NewCheckoutService,

			// Notifications
			notify.NewReceiptNotifier,

			// Repositories
			repository.NewTransactionRepository,
			repository.NewMembershipRepository,
			repository.NewInvoiceRepository,
			repository.NewSettingsRepository,
		),
	)

	// Monitoring
	opts = append(opts, sentry.Module())

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			proration.NewCalculator,

			service.NewSettingsService,
			service.NewCheckoutService,
			service.NewMembershipService,
			service.NewWebhookService,
			service.NewPaymentLinkService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	checkoutService service.CheckoutService,
	membershipService service.MembershipService,
	webhookService service.WebhookService,
	paymentLinkService service.PaymentLinkService,
	settingsService service.SettingsService,
) api.Handlers {
	return api.Handlers{
		Health:      v1.NewHealthHandler(logger),
		Checkout:    v1.NewCheckoutHandler(checkoutService, logger),
		Membership:  v1.NewMembershipHandler(membershipService, logger),
		Webhook:     v1.NewWebhookHandler(webhookService, logger),
		PaymentLink: v1.NewPaymentLinkHandler(paymentLinkService, logger),
		Settings:    v1.NewSettingsHandler(settingsService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration) *gin.Engine {
	return api.NewRouter(handlers, cfg)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db postgres.IClient,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			db.Close()
			return nil
		},
	})
}
