// internal/api/handlers/order_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dineiq/dineiq/internal/export"
	"github.com/dineiq/dineiq/internal/service"
	"github.com/dineiq/dineiq/internal/storage"
)

type OrderHandler struct {
	service *service.ForecastService
	store   storage.ObjectStorage
}

func NewOrderHandler(service *service.ForecastService, store storage.ObjectStorage) *OrderHandler {
	return &OrderHandler{service: service, store: store}
}

// GenerateTruckOrder handles POST /orders/truck?format=json|csv.
func (h *OrderHandler) GenerateTruckOrder(c *gin.Context) {
	order, err := h.service.GenerateTruckOrder(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to generate truck order: "+err.Error())
		return
	}

	if c.DefaultQuery("format", "json") != "csv" {
		c.JSON(http.StatusOK, order)
		return
	}

	data, err := export.RenderTruckOrderCSV(order)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to render order csv: "+err.Error())
		return
	}

	objectName := fmt.Sprintf("orders/truck-%s.csv", order.OrderDate.Format("2006-01-02T15-04-05"))
	if _, err := h.store.Upload(c.Request.Context(), objectName, data, "text/csv"); err != nil {
		log.Warn().Err(err).Str("object", objectName).Msg("orders: archive failed")
	}

	c.Header("Content-Disposition", "attachment; filename=truck-order.csv")
	c.Data(http.StatusOK, "text/csv", data)
}

// GetLowStock handles GET /orders/low-stock.
func (h *OrderHandler) GetLowStock(c *gin.Context) {
	items, err := h.service.LowStockItems(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to list low stock items: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}
