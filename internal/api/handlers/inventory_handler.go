// internal/api/handlers/inventory_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/service"
)

type InventoryHandler struct {
	ingest *service.IngestService
}

func NewInventoryHandler(ingest *service.IngestService) *InventoryHandler {
	return &InventoryHandler{ingest: ingest}
}

type recordWasteRequest struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Reason   string  `json:"reason"`
}

// RecordWaste handles POST /inventory/:itemId/waste.
func (h *InventoryHandler) RecordWaste(c *gin.Context) {
	itemID := c.Param("itemId")

	var req recordWasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.ingest.RecordWaste(c.Request.Context(), itemID, req.Quantity, req.Reason); err != nil {
		if domain.IsNotFound(err) {
			errorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "failed to record waste: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}

type recordCountRequest struct {
	ItemID      string  `json:"item_id" binding:"required"`
	ActualCount float64 `json:"actual_count" binding:"gte=0"`
	CountedBy   string  `json:"counted_by"`
}

// RecordCount handles POST /counts.
func (h *InventoryHandler) RecordCount(c *gin.Context) {
	var req recordCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	count, err := h.ingest.RecordCount(c.Request.Context(), req.ItemID, req.ActualCount, req.CountedBy)
	if err != nil {
		if domain.IsNotFound(err) {
			errorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "failed to record count: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, count)
}
