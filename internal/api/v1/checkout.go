package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venuebill/venuebill/internal/api/dto"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/service"
)

type CheckoutHandler struct {
	service service.CheckoutService
	log     *logger.Logger
}

func NewCheckoutHandler(service service.CheckoutService, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, log: log}
}

// @Summary Create an invoice from a cart
// @Description Build line items from the cart and issue a finalized invoice
// @Tags Checkout
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param checkout body dto.CheckoutRequest true "Cart checkout"
// @Success 201 {object} dto.CheckoutResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Checkout(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to checkout cart", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
