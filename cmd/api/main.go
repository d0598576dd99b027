package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/revoa/analytics-backend/api/controllers"
	"github.com/revoa/analytics-backend/api/routes"
	"github.com/revoa/analytics-backend/internal/patterns"
	"github.com/revoa/analytics-backend/internal/pixel"
	"github.com/revoa/analytics-backend/internal/reports"
	"github.com/revoa/analytics-backend/internal/resolver"
	"github.com/revoa/analytics-backend/internal/warehouse"
	"github.com/revoa/analytics-backend/pkg/bigquery"
	"github.com/revoa/analytics-backend/pkg/config"
	"github.com/revoa/analytics-backend/pkg/db"
	"github.com/revoa/analytics-backend/pkg/logger"
	"github.com/revoa/analytics-backend/pkg/metrics"
	"github.com/revoa/analytics-backend/pkg/migrate"
	"github.com/revoa/analytics-backend/pkg/pubsub"
	"github.com/revoa/analytics-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	resolverService, err := resolver.NewService(resolver.NewRepository(dbClient.DB(), cfg.Reports.QueryBatchSize), logg, pipelineMetrics)
	requireResource(ctx, logg, "resolver service", err)

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB(), cfg.Reports.QueryBatchSize), resolverService, logg, pipelineMetrics, cfg.Reports)
	requireResource(ctx, logg, "reports service", err)

	patternsService, err := patterns.NewService(patterns.NewRepository(dbClient.DB()), logg, cfg.Patterns)
	requireResource(ctx, logg, "patterns service", err)

	healthChecks := []controllers.HealthCheck{
		{Name: "postgres", Pinger: dbClient},
		{Name: "redis", Pinger: redisClient},
	}

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "error closing pubsub", err)
		}
	}()
	pixelIngest, err := pixel.NewIngest(pubsubClient.PixelPublisher(), logg)
	requireResource(ctx, logg, "pixel ingest", err)
	healthChecks = append(healthChecks, controllers.HealthCheck{Name: "pubsub", Pinger: pubsubClient, Optional: true})

	if cfg.FeatureFlags.WarehouseExport {
		bqClient, err := bigquery.NewClient(ctx, cfg.GCP, cfg.BigQuery, logg)
		requireResource(ctx, logg, "bigquery", err)
		defer func() {
			if err := bqClient.Close(); err != nil {
				logg.Error(ctx, "error closing bigquery", err)
			}
		}()

		writer, err := warehouse.New(bqClient, warehouse.Config{MetricsTable: cfg.BigQuery.AdMetricsTable})
		requireResource(ctx, logg, "warehouse writer", err)
		exporter, err := warehouse.NewExporter(writer, reportsService, logg)
		requireResource(ctx, logg, "warehouse exporter", err)
		exportingService, err := warehouse.NewExportingService(reportsService, exporter, logg)
		requireResource(ctx, logg, "warehouse export wiring", err)
		reportsService = exportingService
		healthChecks = append(healthChecks, controllers.HealthCheck{Name: "bigquery", Pinger: bqClient, Optional: true})
	}

	router := routes.NewRouter(routes.RouterParams{
		Config:       cfg,
		Logger:       logg,
		Redis:        redisClient,
		Registry:     registry,
		HTTPMetrics:  httpMetrics,
		Reports:      reportsService,
		Patterns:     patternsService,
		PixelIngest:  pixelIngest,
		HealthChecks: healthChecks,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(runCtx, "graceful shutdown failed", err)
		}
	}

	logg.Info(runCtx, "api server stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
