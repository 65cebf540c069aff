package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/iliyamo/storefront/internal/config"
	"github.com/iliyamo/storefront/internal/database"
	"github.com/iliyamo/storefront/internal/handler"
	"github.com/iliyamo/storefront/internal/logging"
	"github.com/iliyamo/storefront/internal/metrics"
	"github.com/iliyamo/storefront/internal/middleware"
	"github.com/iliyamo/storefront/internal/repository"
	"github.com/iliyamo/storefront/internal/router"
	"github.com/iliyamo/storefront/internal/service"
)

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides APP_PORT)")
	return cmd
}

func serve(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	db, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.WithError(err).Error("database unavailable")
		return err
	}
	defer db.Close()

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Warn("redis not available; product cache off, rate limiting in process")
	} else {
		defer rdb.Close()
	}

	agg := metrics.New()
	reporter, err := metrics.StartReporter(cfg.MetricsReportCron, agg, logging.Component(log, "metrics"))
	if err != nil {
		return err
	}
	defer reporter.Stop()

	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	addresses := repository.NewAddressRepo(db)
	orders := repository.NewOrderRepo(db)

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	var events handler.OrderEvents
	if cfg.OrderEventsEnabled {
		events = service.NewPublisher(cfg.RabbitURL, logging.Component(log, "events"))
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log, agg))

	router.RegisterRoutes(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, agg, log),
		Catalog:   handler.NewCatalogHandler(products, agg, cache, log),
		Addresses: handler.NewAddressHandler(users, addresses, agg, log),
		Orders:    handler.NewOrderHandler(users, addresses, orders, agg, events, log),
		Metrics:   handler.NewMetricsHandler(agg),
		Health:    handler.NewHealthHandler(db.DB, rdb, log),
	}, router.Options{
		AdminMobile:  cfg.AdminMobile,
		RateLimit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, cfg.JWTSecret),
		ProductCache: cache.Middleware(),
		Prometheus:   metrics.Handler(metrics.NewRegistry(agg)),
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.WithField("env", cfg.Env).Infof("listening on %s (driver=%s)", addr, cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
