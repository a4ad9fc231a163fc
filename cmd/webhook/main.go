package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/dineiq/dineiq/internal/cache"
	"github.com/dineiq/dineiq/internal/config"
	"github.com/dineiq/dineiq/internal/repository/postgres"
	"github.com/dineiq/dineiq/internal/service"
	"github.com/dineiq/dineiq/internal/webhook"
)

// The webhook listener runs as its own process so bursts of POS traffic
// never contend with the dashboard API.
func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize Database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Repositories
	inventoryRepo := postgres.NewInventoryRepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	countRepo := postgres.NewCountRepository(db)

	// Forecasts cached by the API server go stale as sales land, so the
	// ingester shares the same cache to invalidate them.
	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		log.Printf("warning: cache unavailable, continuing without it: %v", err)
		forecastCache = cache.NewNoopForecastCache()
	}

	// Initialize Services
	ingestService := service.NewIngestService(salesRepo, transactionRepo, inventoryRepo, countRepo, forecastCache)

	// Create router and register routes
	r := mux.NewRouter()
	handler := webhook.NewHandler(ingestService)
	handler.RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.WebhookPort)
	log.Printf("Webhook listener starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
