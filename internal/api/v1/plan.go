package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/herbloom/storefront/internal/logger"
	"github.com/herbloom/storefront/internal/service"
)

// PlanHandler serves the plan catalog.
type PlanHandler struct {
	planService service.PlanService
	log         *logger.Logger
}

func NewPlanHandler(planService service.PlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{planService: planService, log: log}
}

// List returns all purchasable tiers.
func (h *PlanHandler) List(c *gin.Context) {
	response, err := h.planService.ListPlans(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
