package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venuebill/venuebill/internal/api/dto"
	ierr "github.com/venuebill/venuebill/internal/errors"
	"github.com/venuebill/venuebill/internal/logger"
	"github.com/venuebill/venuebill/internal/service"
)

type MembershipHandler struct {
	service service.MembershipService
	log     *logger.Logger
}

func NewMembershipHandler(service service.MembershipService, log *logger.Logger) *MembershipHandler {
	return &MembershipHandler{service: service, log: log}
}

// @Summary Pause a membership
// @Description Pause billing for a number of days with a prorated credit
// @Tags Memberships
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Membership ID"
// @Param pause body dto.PauseMembershipRequest true "Pause length"
// @Success 200 {object} dto.PauseMembershipResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /memberships/{id}/pause [post]
func (h *MembershipHandler) Pause(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Membership ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.PauseMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Pause(c.Request.Context(), id, &req)
	if err != nil {
		h.log.Error("Failed to pause membership", "error", err, "membership_id", id)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Resume a paused membership
// @Description Resume billing, charging back excess credit on early resume
// @Tags Memberships
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Membership ID"
// @Success 200 {object} dto.ResumeMembershipResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /memberships/{id}/resume [post]
func (h *MembershipHandler) Resume(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Membership ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Resume(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to resume membership", "error", err, "membership_id", id)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel a membership
// @Description Schedule cancellation honoring the minimum contract
// @Tags Memberships
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Membership ID"
// @Success 200 {object} dto.CancelMembershipResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /memberships/{id}/cancel [post]
func (h *MembershipHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Membership ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to cancel membership", "error", err, "membership_id", id)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Reactivate a membership
// @Description Clear a scheduled cancellation
// @Tags Memberships
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Membership ID"
// @Success 200 {object} dto.ReactivateMembershipResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /memberships/{id}/reactivate [post]
func (h *MembershipHandler) Reactivate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Membership ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Reactivate(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to reactivate membership", "error", err, "membership_id", id)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
