package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venuebill/venuebill/internal/api/dto"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/service"
)

type PaymentLinkHandler struct {
	service service.PaymentLinkService
	log     *logger.Logger
}

func NewPaymentLinkHandler(service service.PaymentLinkService, log *logger.Logger) *PaymentLinkHandler {
	return &PaymentLinkHandler{service: service, log: log}
}

// @Summary Mint a payment link token
// @Description Issue a signed public payment link for an invoice
// @Tags PaymentLinks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ierr.ErrorResponse
// @Router /invoices/{id}/payment-link [post]
func (h *PaymentLinkHandler) MintToken(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	token, err := h.service.MintToken(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to mint payment link token", "error", err, "invoice_id", id)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary View a payment link
// @Description Public invoice summary with the minimum payable amount
// @Tags PaymentLinks
// @Accept json
// @Produce json
// @Param token path string true "Payment link token"
// @Success 200 {object} dto.PaymentLinkSummary
// @Failure 403 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /pay/{token} [get]
func (h *PaymentLinkHandler) GetSummary(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.Error(ierr.NewError("token is required").
			WithHint("Payment link token is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetSummary(c.Request.Context(), token)
	if err != nil {
		h.log.Error("Failed to load payment link", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Pay on a payment link
// @Description Start a checkout session for the chosen amount
// @Tags PaymentLinks
// @Accept json
// @Produce json
// @Param token path string true "Payment link token"
// @Param payment body dto.PaymentLinkPayRequest true "Payment amount"
// @Success 200 {object} dto.PaymentLinkPayResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /pay/{token} [post]
func (h *PaymentLinkHandler) Pay(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.Error(ierr.NewError("token is required").
			WithHint("Payment link token is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.PaymentLinkPayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Pay(c.Request.Context(), token, &req)
	if err != nil {
		h.log.Error("Failed to start payment link checkout", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
