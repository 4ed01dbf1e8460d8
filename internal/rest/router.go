package rest

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/herbloom/storefront/internal/api/v1"
	"github.com/herbloom/storefront/internal/config"
	"github.com/herbloom/storefront/internal/logger"
	"github.com/herbloom/storefront/internal/rest/middleware"
)

// Handlers groups the HTTP handlers wired into the router.
type Handlers struct {
	Subscription *v1.SubscriptionHandler
	Plan         *v1.PlanHandler
}

// NewRouter builds the gin engine with the standard middleware chain and
// the storefront subscription routes.
func NewRouter(cfg *config.Configuration, log *logger.Logger, handlers Handlers) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(cfg),
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandlerMiddleware(log),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/v1")
	api.GET("/plans", handlers.Plan.List)

	// Subscription self-service requires the customer session; the mirror
	// client reads the token from the request context.
	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(
		middleware.CustomerSessionMiddleware,
		middleware.SentryCustomerContextMiddleware,
	)
	subscriptions.GET("/:id", handlers.Subscription.Get)
	subscriptions.GET("/:id/mirror", handlers.Subscription.GetMirror)
	subscriptions.POST("/:id/change-plan", handlers.Subscription.ChangePlan)
	subscriptions.POST("/:id/cancel", handlers.Subscription.Cancel)
	subscriptions.POST("/:id/pause", handlers.Subscription.Pause)
	subscriptions.POST("/:id/resume", handlers.Subscription.Resume)

	return router
}
