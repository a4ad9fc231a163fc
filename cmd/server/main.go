// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/dineiq/dineiq/internal/api"
	"github.com/dineiq/dineiq/internal/cache"
	"github.com/dineiq/dineiq/internal/config"
	"github.com/dineiq/dineiq/internal/forecast"
	"github.com/dineiq/dineiq/internal/notify"
	"github.com/dineiq/dineiq/internal/repository/postgres"
	"github.com/dineiq/dineiq/internal/service"
	"github.com/dineiq/dineiq/internal/storage"
	"github.com/dineiq/dineiq/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	} else {
		logger.SetLevel("info")
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	inventoryRepo := postgres.NewInventoryRepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	countRepo := postgres.NewCountRepository(db)
	supplierRepo := postgres.NewSupplierRepository(db)

	// Initialize forecast cache (no-op when disabled)
	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		forecastCache = cache.NewNoopForecastCache()
	}

	// Initialize object storage for report archives
	ctx := context.Background()
	objectStore, err := storage.NewObjectStorage(ctx, cfg.Export)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	// Initialize estimators
	tuning := forecast.TuningFromConfig(cfg.Forecast)
	demandEstimator := forecast.NewDemandEstimator(inventoryRepo, salesRepo, supplierRepo, tuning)
	wasteEstimator := forecast.NewWasteEstimator(inventoryRepo, demandEstimator, tuning)
	varianceAnalyzer := forecast.NewVarianceAnalyzer(inventoryRepo, transactionRepo, tuning)
	truckGenerator := forecast.NewTruckOrderGenerator(inventoryRepo, supplierRepo, demandEstimator, tuning)

	// Initialize services
	forecastService := service.NewForecastService(
		demandEstimator, wasteEstimator, varianceAnalyzer, truckGenerator,
		inventoryRepo, countRepo, forecastCache,
	)
	ingestService := service.NewIngestService(salesRepo, transactionRepo, inventoryRepo, countRepo, forecastCache)

	// Scheduled waste sweep
	scheduler := cron.New()
	if cfg.Alerts.Enabled {
		notifier := notify.NewSlackNotifier(cfg.Alerts.SlackToken, cfg.Alerts.SlackChannel)
		alertService := service.NewAlertService(
			inventoryRepo, wasteEstimator, notifier,
			cfg.Alerts.WasteCostMinimum, cfg.Alerts.SweepHorizonHours,
		)
		if _, err := scheduler.AddFunc(cfg.Alerts.CronSpec, func() {
			sweepCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if _, err := alertService.SweepWasteRisk(sweepCtx); err != nil {
				logger.Log.Error().Err(err).Msg("Waste sweep failed")
			}
		}); err != nil {
			logger.Log.Fatal().Err(err).Str("spec", cfg.Alerts.CronSpec).Msg("Invalid alerts cron spec")
		}
		scheduler.Start()
		logger.Log.Info().Str("spec", cfg.Alerts.CronSpec).Msg("Waste sweep scheduled")
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		ForecastService: forecastService,
		IngestService:   ingestService,
		ObjectStorage:   objectStore,
	}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	if cfg.Alerts.Enabled {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
