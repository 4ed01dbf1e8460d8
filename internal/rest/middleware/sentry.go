package middleware

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/herbloom/storefront/internal/config"
	"github.com/herbloom/storefront/internal/types"
)

// SentryMiddleware returns a middleware that captures errors and performance data
func SentryMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Sentry.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// SentryCustomerContextMiddleware sets the customer id on the Sentry scope
// when the session middleware has resolved one. Add this after
// CustomerSessionMiddleware so captured events carry the tag.
func SentryCustomerContextMiddleware(c *gin.Context) {
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		c.Next()
		return
	}
	if customerID := types.GetCustomerID(c.Request.Context()); customerID != "" {
		hub.Scope().SetTag("customer_id", customerID)
	}
	c.Next()
}
