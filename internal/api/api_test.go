package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dineiq/dineiq/internal/config"
	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/forecast"
	"github.com/dineiq/dineiq/internal/repository/memory"
	"github.com/dineiq/dineiq/internal/service"
	"github.com/dineiq/dineiq/internal/storage"
)

func newAPIFixture(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	ctx := context.Background()
	if err := store.CreateInventoryItem(ctx, &domain.InventoryItem{
		ID: "tomato", Name: "tomato", Category: domain.CategoryVegetables,
		CurrentStock: 5, Unit: "kg", CostPerUnit: 1.5, ParLevel: 20,
	}); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}

	tuning := forecast.DefaultTuning()
	demand := forecast.NewDemandEstimator(store, store, store, tuning)
	waste := forecast.NewWasteEstimator(store, demand, tuning)
	variance := forecast.NewVarianceAnalyzer(store, store, tuning)
	truck := forecast.NewTruckOrderGenerator(store, store, demand, tuning)

	forecastSvc := service.NewForecastService(demand, waste, variance, truck, store, store, nil)
	ingestSvc := service.NewIngestService(store, store, store, store, nil)

	// An empty endpoint selects the no-op object store.
	objectStore, err := storage.NewObjectStorage(ctx, config.ExportConfig{})
	if err != nil {
		t.Fatalf("Failed to build object storage: %v", err)
	}

	router := NewRouter(&Services{
		ForecastService: forecastSvc,
		IngestService:   ingestSvc,
		ObjectStorage:   objectStore,
	}, nil)
	return router, store
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newAPIFixture(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestPredictDemandEndpoint(t *testing.T) {
	router, _ := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/forecast/demand/tomato?horizon_hours=24", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var f forecast.DemandForecast
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if f.ItemID != "tomato" || f.HorizonHours != 24 {
		t.Errorf("Unexpected forecast payload: %+v", f)
	}
}

func TestPredictDemandEndpoint_WithWeatherContext(t *testing.T) {
	router, _ := newAPIFixture(t)

	body, _ := json.Marshal(map[string]any{
		"weather": map[string]float64{"temperature_c": 30},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forecast/demand/tomato", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var f forecast.DemandForecast
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	// Hot weather depresses vegetable demand slightly.
	if f.Factors.WeatherMultiplier == 1.0 {
		t.Error("Expected weather multiplier applied from request context")
	}
}

func TestPredictWasteEndpoint_UnknownItem(t *testing.T) {
	router, _ := newAPIFixture(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/forecast/waste/ghost", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown item, got %d", rec.Code)
	}
}

func TestTruckOrderEndpoint(t *testing.T) {
	router, _ := newAPIFixture(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/truck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var order forecast.TruckOrder
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	// Tomato is below par and must appear on the order.
	if order.TotalItems != 1 {
		t.Errorf("Expected 1 order line, got %d", order.TotalItems)
	}
}

func TestTruckOrderEndpoint_CSVFormat(t *testing.T) {
	router, _ := newAPIFixture(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/truck?format=csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Expected text/csv content type, got %q", ct)
	}
}

func TestVarianceReportEndpoint_BadPeriod(t *testing.T) {
	router, _ := newAPIFixture(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/variance/report?start=garbage", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid start, got %d", rec.Code)
	}
}

func TestRecordCountEndpoint(t *testing.T) {
	router, store := newAPIFixture(t)

	body, _ := json.Marshal(map[string]any{
		"item_id":      "tomato",
		"actual_count": 4.5,
		"counted_by":   "alice",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/counts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var count domain.InventoryCount
	if err := json.Unmarshal(rec.Body.Bytes(), &count); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if _, err := store.GetCount(context.Background(), count.ID); err != nil {
		t.Errorf("Count not persisted: %v", err)
	}
}
