// internal/api/handlers/variance_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/export"
	"github.com/dineiq/dineiq/internal/service"
	"github.com/dineiq/dineiq/internal/storage"
)

type VarianceHandler struct {
	service *service.ForecastService
	store   storage.ObjectStorage
}

func NewVarianceHandler(service *service.ForecastService, store storage.ObjectStorage) *VarianceHandler {
	return &VarianceHandler{service: service, store: store}
}

type analyzeVarianceRequest struct {
	ItemID  string    `json:"item_id" binding:"required"`
	CountID string    `json:"count_id" binding:"required"`
	Start   time.Time `json:"period_start" binding:"required"`
	End     time.Time `json:"period_end" binding:"required"`
}

// AnalyzeVariance handles POST /variance/analyze for one item and count.
func (h *VarianceHandler) AnalyzeVariance(c *gin.Context) {
	var req analyzeVarianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !req.End.After(req.Start) {
		errorResponse(c, http.StatusBadRequest, "period_end must be after period_start")
		return
	}

	result, err := h.service.AnalyzeVariance(c.Request.Context(), req.ItemID, req.CountID, req.Start, req.End)
	if err != nil {
		if domain.IsNotFound(err) {
			errorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		errorResponse(c, http.StatusInternalServerError, "failed to analyze variance: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateReport handles GET /variance/report?start=...&end=...&format=json|csv.
// The csv format also archives the file to object storage.
func (h *VarianceHandler) GenerateReport(c *gin.Context) {
	start, end, ok := parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.service.GenerateVarianceReport(c.Request.Context(), start, end)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to generate variance report: "+err.Error())
		return
	}

	if c.DefaultQuery("format", "json") != "csv" {
		c.JSON(http.StatusOK, report)
		return
	}

	data, err := export.RenderVarianceReportCSV(report)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to render report csv: "+err.Error())
		return
	}

	objectName := fmt.Sprintf("variance/%s.csv", report.ReportID)
	if _, err := h.store.Upload(c.Request.Context(), objectName, data, "text/csv"); err != nil {
		log.Warn().Err(err).Str("object", objectName).Msg("variance: report archive failed")
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", report.ReportID))
	c.Data(http.StatusOK, "text/csv", data)
}

// parsePeriod reads RFC 3339 start/end query params, defaulting to the
// trailing seven days.
func parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	end := time.Now()
	start := end.AddDate(0, 0, -7)

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid start: "+err.Error())
			return start, end, false
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid end: "+err.Error())
			return start, end, false
		}
		end = parsed
	}
	if !end.After(start) {
		errorResponse(c, http.StatusBadRequest, "end must be after start")
		return start, end, false
	}
	return start, end, true
}
