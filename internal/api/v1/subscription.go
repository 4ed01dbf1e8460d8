package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/herbloom/storefront/internal/api/dto"
	ierr "github.com/herbloom/storefront/internal/errors"
	"github.com/herbloom/storefront/internal/logger"
	"github.com/herbloom/storefront/internal/service"
)

// SubscriptionHandler handles customer subscription self-service requests.
// The :id path parameter accepts either identifier format; translation
// happens inside the service.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	log                 *logger.Logger
}

// NewSubscriptionHandler creates a new subscription handler.
func NewSubscriptionHandler(
	subscriptionService service.SubscriptionService,
	log *logger.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		log:                 log,
	}
}

// Get returns the normalized state of one subscription.
func (h *SubscriptionHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("subscription id is required").Mark(ierr.ErrValidation))
		return
	}

	response, err := h.subscriptionService.GetSubscription(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetMirror returns the subscription as the store mirror sees it, for the
// order-history view.
func (h *SubscriptionHandler) GetMirror(c *gin.Context) {
	response, err := h.subscriptionService.GetMirrorSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ChangePlan moves a subscription to a different tier.
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	var req dto.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).Mark(ierr.ErrValidation))
		return
	}

	response, err := h.subscriptionService.ChangePlan(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Cancel ends a subscription on both systems.
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	var req dto.CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).Mark(ierr.ErrValidation))
		return
	}

	response, err := h.subscriptionService.Cancel(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Pause pauses an active subscription.
func (h *SubscriptionHandler) Pause(c *gin.Context) {
	h.setPaused(c, true)
}

// Resume resumes a paused subscription.
func (h *SubscriptionHandler) Resume(c *gin.Context) {
	h.setPaused(c, false)
}

func (h *SubscriptionHandler) setPaused(c *gin.Context, paused bool) {
	response, err := h.subscriptionService.SetPaused(c.Request.Context(), c.Param("id"), paused)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
