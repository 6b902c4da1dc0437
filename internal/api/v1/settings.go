package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venuebill/venuebill/internal/api/dto"
	"github.com/venuebill/venuebill/internal/domain/settings"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/service"
)

type SettingsHandler struct {
	service service.SettingsService
	log     *logger.Logger
}

func NewSettingsHandler(service service.SettingsService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, log: log}
}

// @Summary Get billing settings
// @Description Get the effective billing settings for the organization
// @Tags Settings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.BillingSettingsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /settings/billing [get]
func (h *SettingsHandler) GetBillingSettings(c *gin.Context) {
	bs, err := h.service.GetOrDefault(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to get billing settings", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(bs))
}

// @Summary Update billing settings
// @Description Update the organization's billing settings
// @Tags Settings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param settings body dto.UpdateBillingSettingsRequest true "Billing settings"
// @Success 200 {object} dto.BillingSettingsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /settings/billing [put]
func (h *SettingsHandler) UpdateBillingSettings(c *gin.Context) {
	var req dto.UpdateBillingSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	bs, err := h.service.GetOrDefault(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	if req.MinPaymentPercent != nil {
		bs.MinPaymentPercent = *req.MinPaymentPercent
	}
	if req.ReceiptSenderName != nil {
		bs.ReceiptSenderName = *req.ReceiptSenderName
	}
	if req.ConnectedAccountID != nil {
		bs.ConnectedAccountID = *req.ConnectedAccountID
	}

	updated, err := h.service.Update(c.Request.Context(), bs)
	if err != nil {
		h.log.Error("Failed to update billing settings", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(updated))
}

func toSettingsResponse(bs *settings.BillingSettings) *dto.BillingSettingsResponse {
	return &dto.BillingSettingsResponse{
		ID:                 bs.ID,
		MinPaymentPercent:  bs.MinPaymentPercent,
		ReceiptSenderName:  bs.ReceiptSenderName,
		ConnectedAccountID: bs.ConnectedAccountID,
	}
}
