package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	v1 "github.com/venuebill/venuebill/internal/api/v1"
	"github.com/venuebill/venuebill/internal/config"
	"github.com/venuebill/venuebill/internal/rest/middleware"
)

type Handlers struct {
	Health      *v1.HealthHandler
	Checkout    *v1.CheckoutHandler
	Membership  *v1.MembershipHandler
	Webhook     *v1.WebhookHandler
	PaymentLink *v1.PaymentLinkHandler
	Settings    *v1.SettingsHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.SentryMiddleware(cfg))
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", handlers.Health.Health)

	// Public payment-link routes, token-authenticated and rate limited
	publicLimiter := middleware.NewRateLimiter()
	pay := router.Group("/pay", publicLimiter.Handler())
	{
		pay.GET("/:token", handlers.PaymentLink.GetSummary)
		pay.POST("/:token", handlers.PaymentLink.Pay)
	}

	// Provider webhooks authenticate by payload signature
	router.POST("/webhooks/stripe", handlers.Webhook.HandleStripeWebhook)

	// v1 routes
	v1Group := router.Group("/v1", middleware.OrganizationMiddleware)
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	router.POST("/checkout", handlers.Checkout.Checkout)

	memberships := router.Group("/memberships")
	{
		memberships.POST("/:id/pause", handlers.Membership.Pause)
		memberships.POST("/:id/resume", handlers.Membership.Resume)
		memberships.POST("/:id/cancel", handlers.Membership.Cancel)
		memberships.POST("/:id/reactivate", handlers.Membership.Reactivate)
	}

	invoices := router.Group("/invoices")
	{
		invoices.POST("/:id/payment-link", handlers.PaymentLink.MintToken)
	}

	settings := router.Group("/settings")
	{
		settings.GET("/billing", handlers.Settings.GetBillingSettings)
		settings.PUT("/billing", handlers.Settings.UpdateBillingSettings)
	}
}
