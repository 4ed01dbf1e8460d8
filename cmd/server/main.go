package main

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	v1 "github.com/herbloom/storefront/internal/api/v1"
	"github.com/herbloom/storefront/internal/config"
	"github.com/herbloom/storefront/internal/domain/plan"
	"github.com/herbloom/storefront/internal/integration/loop"
	"github.com/herbloom/storefront/internal/integration/shopify"
	"github.com/herbloom/storefront/internal/logger"
	"github.com/herbloom/storefront/internal/rest"
	"github.com/herbloom/storefront/internal/service"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			plan.DefaultCatalog,
			loop.NewClient,
			shopify.NewClient,
			newServiceParams,
			service.NewSubscriptionService,
			service.NewPlanService,
			v1.NewSubscriptionHandler,
			v1.NewPlanHandler,
			newRouter,
		),
		fx.Invoke(initSentry),
		fx.Invoke(startServer),
	)
	app.Run()
}

func newServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	catalog plan.Catalog,
	loopClient loop.Client,
	shopifyClient shopify.Client,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:        log,
		Config:        cfg,
		Catalog:       catalog,
		LoopClient:    loopClient,
		ShopifyClient: shopifyClient,
		MirrorEnabled: cfg.Shopify.Enabled(),
	}
}

func newRouter(
	cfg *config.Configuration,
	log *logger.Logger,
	subscriptionHandler *v1.SubscriptionHandler,
	planHandler *v1.PlanHandler,
) *gin.Engine {
	return rest.NewRouter(cfg, log, rest.Handlers{
		Subscription: subscriptionHandler,
		Plan:         planHandler,
	})
}

func initSentry(cfg *config.Configuration, log *logger.Logger) error {
	if !cfg.Sentry.Enabled {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		TracesSampleRate: cfg.Sentry.SampleRate,
	})
	if err != nil {
		log.Errorw("failed to initialize sentry", "error", err)
		return err
	}
	return nil
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	log *logger.Logger,
	router *gin.Engine,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting storefront subscription server",
				"address", cfg.Server.Address,
				"mirror_enabled", cfg.Shopify.Enabled())
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			sentry.Flush(2 * time.Second)
			return srv.Shutdown(shutdownCtx)
		},
	})
}
