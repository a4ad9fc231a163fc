// internal/api/handlers/forecast_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/forecast"
	"github.com/dineiq/dineiq/internal/service"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// demandRequest is the optional context body for demand prediction.
type demandRequest struct {
	Weather *forecast.WeatherSnapshot `json:"weather,omitempty"`
	Events  []forecast.LocalEvent     `json:"events,omitempty"`
}

// PredictDemand handles POST /forecast/demand/:itemId. The body may carry
// weather and local-event context; an empty body means history only.
func (h *ForecastHandler) PredictDemand(c *gin.Context) {
	itemID := c.Param("itemId")
	horizon := parseIntQuery(c, "horizon_hours", 0)

	var req demandRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	result, err := h.service.PredictDemand(c.Request.Context(), itemID, horizon, req.Weather, req.Events)
	if err != nil {
		if domain.IsNotFound(err) {
			errorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "failed to predict demand: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// PredictWaste handles GET /forecast/waste/:itemId.
func (h *ForecastHandler) PredictWaste(c *gin.Context) {
	itemID := c.Param("itemId")
	horizon := parseIntQuery(c, "horizon_hours", 0)

	result, err := h.service.PredictWaste(c.Request.Context(), itemID, horizon)
	if err != nil {
		if domain.IsNotFound(err) {
			errorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "failed to predict waste: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// OptimizePar handles GET /forecast/par/:itemId.
func (h *ForecastHandler) OptimizePar(c *gin.Context) {
	itemID := c.Param("itemId")

	result, err := h.service.OptimizePar(c.Request.Context(), itemID)
	if err != nil {
		if domain.IsNotFound(err) {
			errorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "failed to optimize par level: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// SuggestOrder handles GET /forecast/order-suggestion/:itemId.
func (h *ForecastHandler) SuggestOrder(c *gin.Context) {
	itemID := c.Param("itemId")
	leadDays := parseIntQuery(c, "lead_time_days", 0)

	result, err := h.service.SuggestOrder(c.Request.Context(), itemID, leadDays)
	if err != nil {
		if domain.IsNotFound(err) {
			errorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "failed to suggest order: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	if v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback))); err == nil {
		return v
	}
	return fallback
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
