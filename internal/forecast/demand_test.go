package forecast

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/repository/memory"
)

var testNow = time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

func newTestItem(id string, category domain.Category, stock, par, cost float64) *domain.InventoryItem {
	return &domain.InventoryItem{
		ID:           id,
		Name:         id,
		Category:     category,
		CurrentStock: stock,
		Unit:         "kg",
		CostPerUnit:  cost,
		ParLevel:     par,
		UpdatedAt:    testNow,
	}
}

// seedDailySales records one sales event per interval, each selling qty of
// the item, walking back from testNow.
func seedDailySales(t *testing.T, store *memory.Store, itemID string, events int, interval time.Duration, qty float64) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= events; i++ {
		ev := &domain.SalesEvent{
			ID:        fmt.Sprintf("%s-ev-%d", itemID, i),
			Source:    "pos",
			Timestamp: testNow.Add(-time.Duration(i) * interval),
			Lines: []domain.SaleLine{
				{InventoryItemID: itemID, ItemName: itemID, Quantity: qty, UnitPrice: 1},
			},
		}
		if err := store.CreateSalesEvent(ctx, ev); err != nil {
			t.Fatalf("Failed to seed sales event: %v", err)
		}
	}
}

func newDemandFixture(store *memory.Store) *DemandEstimator {
	est := NewDemandEstimator(store, store, store, DefaultTuning())
	est.now = func() time.Time { return testNow }
	return est
}

func TestPredictDemand_NoHistory(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	if err := store.CreateInventoryItem(ctx, newTestItem("flour", domain.CategoryGrains, 50, 40, 0.8)); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}

	est := newDemandFixture(store)
	f, err := est.PredictDemand(ctx, "flour", 24, nil, nil)
	if err != nil {
		t.Fatalf("PredictDemand returned error: %v", err)
	}

	if f.ForecastQuantity != 0 {
		t.Errorf("Expected zero forecast with no history, got %f", f.ForecastQuantity)
	}
	if f.Confidence != 0.5 {
		t.Errorf("Expected baseline confidence 0.5, got %f", f.Confidence)
	}
	if f.StockoutRisk != 0.1 {
		t.Errorf("Expected minimal stockout risk 0.1, got %f", f.StockoutRisk)
	}
	if f.Factors.HistoricalPattern != "insufficient data" {
		t.Errorf("Expected insufficient data pattern, got %q", f.Factors.HistoricalPattern)
	}
}

func TestPredictDemand_UnknownItem(t *testing.T) {
	est := newDemandFixture(memory.NewStore())
	if _, err := est.PredictDemand(context.Background(), "nope", 24, nil, nil); !domain.IsNotFound(err) {
		t.Fatalf("Expected not-found error, got %v", err)
	}
}

func TestPredictDemand_ScalesHistoryToHorizon(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	item := newTestItem("tomato", domain.CategoryVegetables, 5, 20, 1.5)
	if err := store.CreateInventoryItem(ctx, item); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	// 30 daily sales of 10 units = 300 units over the 30-day lookback,
	// so a 24h horizon should forecast 10 units.
	seedDailySales(t, store, "tomato", 30, 24*time.Hour, 10)

	est := newDemandFixture(store)
	f, err := est.PredictDemand(ctx, "tomato", 24, nil, nil)
	if err != nil {
		t.Fatalf("PredictDemand returned error: %v", err)
	}

	if math.Abs(f.ForecastQuantity-10) > 1e-9 {
		t.Errorf("Expected forecast 10, got %f", f.ForecastQuantity)
	}
	if f.Confidence != 0.7 {
		t.Errorf("Expected confidence 0.7 for 30 samples, got %f", f.Confidence)
	}
	// Uniform history has zero volatility: safety stock is forecast*(1-conf).
	if math.Abs(f.SafetyStock-3) > 1e-9 {
		t.Errorf("Expected safety stock 3, got %f", f.SafetyStock)
	}
	// 5 units on hand at 10/day is under a day of stock.
	if f.StockoutRisk != 0.9 {
		t.Errorf("Expected stockout risk 0.9, got %f", f.StockoutRisk)
	}
}

func TestPredictDemand_HorizonClamping(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	if err := store.CreateInventoryItem(ctx, newTestItem("rice", domain.CategoryGrains, 100, 50, 0.5)); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	est := newDemandFixture(store)

	tests := []struct {
		name     string
		horizon  int
		expected int
	}{
		{"zero_uses_default", 0, 24},
		{"negative_uses_default", -5, 24},
		{"oversized_clamped", 500, 168},
		{"in_range_kept", 72, 72},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := est.PredictDemand(ctx, "rice", tt.horizon, nil, nil)
			if err != nil {
				t.Fatalf("PredictDemand returned error: %v", err)
			}
			if f.HorizonHours != tt.expected {
				t.Errorf("Expected horizon %d, got %d", tt.expected, f.HorizonHours)
			}
		})
	}
}

func TestWeatherMultiplier(t *testing.T) {
	est := newDemandFixture(memory.NewStore())

	tests := []struct {
		name     string
		category domain.Category
		weather  *WeatherSnapshot
		expected float64
	}{
		{"no_weather", domain.CategoryProtein, nil, 1.0},
		{"hot_day_protein", domain.CategoryProtein, &WeatherSnapshot{TemperatureC: 30}, 1 + 0.2*0.2},
		{"hot_day_dairy", domain.CategoryDairy, &WeatherSnapshot{TemperatureC: 30}, 1 - 0.3*0.2},
		{"cold_day_dairy", domain.CategoryDairy, &WeatherSnapshot{TemperatureC: 5}, 1 + 0.1*0.15},
		{"rainy_protein", domain.CategoryProtein, &WeatherSnapshot{TemperatureC: 15, PrecipitationMM: 2}, 1 + 0.1*0.1},
		{"mild_day", domain.CategoryGrains, &WeatherSnapshot{TemperatureC: 18}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := newTestItem("x", tt.category, 10, 10, 1)
			got := est.weatherMultiplier(item, tt.weather)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected multiplier %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestEventMultiplier_ClampedAtMax(t *testing.T) {
	est := newDemandFixture(memory.NewStore())

	// A stadium next door with absurd attendance: the per-event attendance
	// term saturates at 2 and the total multiplier never exceeds the cap.
	events := make([]LocalEvent, 30)
	for i := range events {
		events[i] = LocalEvent{
			Date:               testNow,
			Type:               "festival",
			ExpectedAttendance: 1_000_000,
			ProximityKm:        0,
		}
	}

	got := est.eventMultiplier(events)
	if got != 3.0 {
		t.Errorf("Expected event multiplier clamped to 3.0, got %f", got)
	}

	single := est.eventMultiplier([]LocalEvent{{ExpectedAttendance: 500, ProximityKm: 5}})
	expected := 1 + 0.5*0.5*0.1
	if math.Abs(single-expected) > 1e-9 {
		t.Errorf("Expected multiplier %f, got %f", expected, single)
	}
}

func TestSampleConfidence(t *testing.T) {
	tests := []struct {
		samples  int
		expected float64
	}{
		{0, 0.5},
		{9, 0.5},
		{10, 0.7},
		{49, 0.7},
		{50, 0.9},
		{5000, 0.9},
	}
	for _, tt := range tests {
		if got := sampleConfidence(tt.samples); got != tt.expected {
			t.Errorf("sampleConfidence(%d) = %f, expected %f", tt.samples, got, tt.expected)
		}
	}
}

func TestRecommendedParLevel_SpoilageCeiling(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	item := newTestItem("chicken", domain.CategoryProtein, 10, 20, 6)
	if err := store.CreateInventoryItem(ctx, item); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	est := newDemandFixture(store)

	// Protein caps at 72h/24 * 10 = 30 units regardless of demand.
	par := est.recommendedParLevel(ctx, item, 500, 24, 100)
	if par != 30 {
		t.Errorf("Expected par capped at 30, got %f", par)
	}
}

func TestCorrelationMultiplier_NoTableIsNeutral(t *testing.T) {
	est := newDemandFixture(memory.NewStore())
	item := newTestItem("buns", domain.CategoryGrains, 10, 10, 0.3)
	if got := est.correlationMultiplier(item, nil); got != 1.0 {
		t.Errorf("Expected neutral multiplier without correlations, got %f", got)
	}
}
