package forecast

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/repository/memory"
)

func newWasteFixture(store *memory.Store) *WasteEstimator {
	demand := newDemandFixture(store)
	est := NewWasteEstimator(store, demand, DefaultTuning())
	est.now = func() time.Time { return testNow }
	return est
}

func TestPredictWaste_DairySpoilsBeforeConsumption(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	item := newTestItem("milk", domain.CategoryDairy, 100, 80, 2.0)
	if err := store.CreateInventoryItem(ctx, item); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	// 12 daily sales of 30 units = 360 over the lookback, forecasting 12
	// units per 24h. 100 units at 0.5/h take 200h to consume; dairy lasts
	// 168h * 0.9 = 151.2h, so roughly a quarter of the stock spoils.
	seedDailySales(t, store, "milk", 12, 24*time.Hour, 30)

	est := newWasteFixture(store)
	p, err := est.PredictWaste(ctx, "milk", 24)
	if err != nil {
		t.Fatalf("PredictWaste returned error: %v", err)
	}

	expectedQty := 100 * (1 - 151.2/200)
	if math.Abs(p.PredictedWasteQty-expectedQty) > 1e-6 {
		t.Errorf("Expected waste qty %f, got %f", expectedQty, p.PredictedWasteQty)
	}
	expectedCost := expectedQty * 2.0
	if math.Abs(p.CostImpact-expectedCost) > 1e-6 {
		t.Errorf("Expected cost impact %f, got %f", expectedCost, p.CostImpact)
	}

	expectedDate := testNow.Add(151*time.Hour + 12*time.Minute) // 151.2h
	if !p.PredictedWasteDate.Equal(expectedDate) {
		t.Errorf("Expected waste date %v, got %v", expectedDate, p.PredictedWasteDate)
	}

	// Demand of 12 against 100 on hand flags low demand.
	if len(p.ContributingFactors) != 1 || p.ContributingFactors[0] != factorLowDemand {
		t.Errorf("Expected single low-demand factor, got %v", p.ContributingFactors)
	}
	if len(p.Mitigations) == 0 {
		t.Error("Expected mitigations for flagged factors")
	}

	// 12 samples give 0.7 demand confidence, +0.1 for stock on hand.
	if math.Abs(p.Confidence-0.8) > 1e-9 {
		t.Errorf("Expected confidence 0.8, got %f", p.Confidence)
	}
}

func TestPredictWaste_FastMovingStockHasNoWaste(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	item := newTestItem("rice", domain.CategoryGrains, 50, 60, 0.5)
	if err := store.CreateInventoryItem(ctx, item); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	// 600 units sold over the lookback: 50 on hand is consumed in 60h,
	// well inside the 2160h grain shelf life.
	seedDailySales(t, store, "rice", 30, 24*time.Hour, 20)

	est := newWasteFixture(store)
	p, err := est.PredictWaste(ctx, "rice", 24)
	if err != nil {
		t.Fatalf("PredictWaste returned error: %v", err)
	}

	if p.PredictedWasteQty != 0 {
		t.Errorf("Expected zero waste for fast-moving grains, got %f", p.PredictedWasteQty)
	}
	if p.CostImpact != 0 {
		t.Errorf("Expected zero cost impact, got %f", p.CostImpact)
	}
}

func TestPredictWaste_NoDemandWritesOffStock(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	item := newTestItem("oysters", domain.CategoryProtein, 40, 30, 3.0)
	if err := store.CreateInventoryItem(ctx, item); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}

	est := newWasteFixture(store)
	p, err := est.PredictWaste(ctx, "oysters", 24)
	if err != nil {
		t.Fatalf("PredictWaste returned error: %v", err)
	}

	// With zero forecast demand, nothing gets consumed before spoilage.
	if p.PredictedWasteQty != 40 {
		t.Errorf("Expected entire stock predicted as waste, got %f", p.PredictedWasteQty)
	}
	if math.Abs(p.CostImpact-120) > 1e-9 {
		t.Errorf("Expected cost impact 120, got %f", p.CostImpact)
	}
}

func TestPredictWaste_UnknownItem(t *testing.T) {
	est := newWasteFixture(memory.NewStore())
	if _, err := est.PredictWaste(context.Background(), "nope", 24); !domain.IsNotFound(err) {
		t.Fatalf("Expected not-found error, got %v", err)
	}
}

func TestWasteConfidence_Bounds(t *testing.T) {
	est := newWasteFixture(memory.NewStore())
	tuning := DefaultTuning()

	tests := []struct {
		name     string
		stock    float64
		category domain.Category
		demConf  float64
		expected float64
	}{
		{"stock_boost", 10, domain.CategoryGrains, 0.7, 0.8},
		{"perishable_penalty", 10, domain.CategoryProtein, 0.7, 0.65},
		{"floor", 0, domain.CategoryProtein, 0.2, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := newTestItem("x", tt.category, tt.stock, 10, 1)
			forecast := &DemandForecast{Confidence: tt.demConf}
			got := est.wasteConfidence(item, tuning.SpoilageFor(tt.category), forecast)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected confidence %f, got %f", tt.expected, got)
			}
		})
	}
}
