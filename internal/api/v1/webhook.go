package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/service"
)

const stripeSignatureHeader = "Stripe-Signature"

// maxWebhookBodyBytes bounds the payload read from the provider
const maxWebhookBodyBytes = 1 << 20

type WebhookHandler struct {
	service service.WebhookService
	log     *logger.Logger
}

func NewWebhookHandler(service service.WebhookService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, log: log}
}

// @Summary Receive provider webhook events
// @Description Verify and process a Stripe webhook event
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookResult
// @Failure 400 {object} ierr.ErrorResponse
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		h.log.Error("Failed to read webhook payload", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Unable to read webhook payload").
			Mark(ierr.ErrValidation))
		return
	}

	result, err := h.service.ProcessEvent(c.Request.Context(), payload, c.GetHeader(stripeSignatureHeader))
	if err != nil {
		h.log.Error("Failed to process webhook event", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
