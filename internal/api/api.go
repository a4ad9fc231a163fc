// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dineiq/dineiq/internal/api/handlers"
	"github.com/dineiq/dineiq/internal/api/middleware"
	"github.com/dineiq/dineiq/internal/service"
	"github.com/dineiq/dineiq/internal/storage"
)

type Services struct {
	ForecastService *service.ForecastService
	IngestService   *service.IngestService
	ObjectStorage   storage.ObjectStorage
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.ForecastService != nil {
		forecastHandler := handlers.NewForecastHandler(services.ForecastService)
		forecastGroup := apiGroup.Group("/forecast")
		{
			forecastGroup.POST("/demand/:itemId", forecastHandler.PredictDemand)
			forecastGroup.GET("/waste/:itemId", forecastHandler.PredictWaste)
			forecastGroup.GET("/par/:itemId", forecastHandler.OptimizePar)
			forecastGroup.GET("/order-suggestion/:itemId", forecastHandler.SuggestOrder)
		}

		varianceHandler := handlers.NewVarianceHandler(services.ForecastService, services.ObjectStorage)
		varianceGroup := apiGroup.Group("/variance")
		{
			varianceGroup.POST("/analyze", varianceHandler.AnalyzeVariance)
			varianceGroup.GET("/report", varianceHandler.GenerateReport)
		}

		orderHandler := handlers.NewOrderHandler(services.ForecastService, services.ObjectStorage)
		orderGroup := apiGroup.Group("/orders")
		{
			orderGroup.POST("/truck", orderHandler.GenerateTruckOrder)
			orderGroup.GET("/low-stock", orderHandler.GetLowStock)
		}
	}

	if services != nil && services.IngestService != nil {
		inventoryHandler := handlers.NewInventoryHandler(services.IngestService)
		apiGroup.POST("/inventory/:itemId/waste", inventoryHandler.RecordWaste)
		apiGroup.POST("/counts", inventoryHandler.RecordCount)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
