package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pricewatch/pricewatch/internal/app"
	"github.com/pricewatch/pricewatch/internal/backend"
	"github.com/pricewatch/pricewatch/internal/compare"
	"github.com/pricewatch/pricewatch/internal/dashboard"
	"github.com/pricewatch/pricewatch/internal/notify"
	"github.com/pricewatch/pricewatch/internal/observability"
	"github.com/pricewatch/pricewatch/internal/platform/cache"
	"github.com/pricewatch/pricewatch/internal/shared"
	"github.com/pricewatch/pricewatch/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr, 5*time.Second)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "pricewatch_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	client := backend.NewClient(cfg.BackendURL,
		backend.WithTimeout(cfg.BackendTimeout),
		backend.WithLogger(logger),
		backend.WithUpstreamMetrics(metrics.Upstream()),
	)

	var notes notify.Center = notify.NewRedisCenter(redisClient)
	if cfg.NotifyStore == app.NotifyStoreMemory {
		notes = notify.NewMemoryCenter()
	}

	store := dashboard.NewStore()
	loader := dashboard.NewLoader(client, store, logger)
	if err := loader.LoadAll(ctx); err != nil {
		logger.Warn("initial load incomplete, serving what loaded", slog.Any("error", err))
	}

	forms := dashboard.NewForms(client, loader, notes, logger)
	dashboardHandler := dashboard.NewHandler(logger, store, forms, notes, templates, csrfManager)
	registry := compare.NewRegistry(cfg.CompareSessions, cfg.CompareTTL, client)
	compareHandler := compare.NewHandler(logger, registry, store, notes, templates, csrfManager, cfg.AppRequestTimeout)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		DashboardHandler: dashboardHandler,
		CompareHandler:   compareHandler,
		Store:            store,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("backend", cfg.BackendURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	compareHandler.Wait()
}
