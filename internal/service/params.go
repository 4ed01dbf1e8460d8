package service

import (
	"github.com/herbloom/storefront/internal/config"
	"github.com/herbloom/storefront/internal/domain/plan"
	"github.com/herbloom/storefront/internal/integration/loop"
	"github.com/herbloom/storefront/internal/integration/shopify"
	"github.com/herbloom/storefront/internal/logger"
)

// ServiceParams bundles the dependencies shared by the services.
type ServiceParams struct {
	Logger  *logger.Logger
	Config  *config.Configuration
	Catalog plan.Catalog

	LoopClient    loop.Client
	ShopifyClient shopify.Client

	// MirrorEnabled is the constructor-time capability flag for the mirror
	// system. When false every mirror-leg operation short-circuits to a
	// no-op success instead of being silently skipped deeper in the call
	// path.
	MirrorEnabled bool
}
