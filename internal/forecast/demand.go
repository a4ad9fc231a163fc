// internal/forecast/demand.go
package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/repository"
)

// DemandEstimator turns historical sales plus contextual multipliers into a
// forecast quantity and a recommended par level. Calls are pure reads: the
// estimator holds no mutable state and may be used concurrently.
type DemandEstimator struct {
	inventory repository.InventoryRepository
	sales     repository.SalesRepository
	suppliers repository.SupplierRepository
	tuning    Tuning

	// correlations maps item id to the correlated items that feed its
	// cross-item multiplier. Optional; empty means multiplier 1.0.
	correlations map[string][]ItemCorrelation

	now func() time.Time
}

// NewDemandEstimator wires a demand estimator against the storage accessors.
// suppliers may be nil, in which case the default lead time applies.
func NewDemandEstimator(inventory repository.InventoryRepository, sales repository.SalesRepository, suppliers repository.SupplierRepository, tuning Tuning) *DemandEstimator {
	return &DemandEstimator{
		inventory:    inventory,
		sales:        sales,
		suppliers:    suppliers,
		tuning:       tuning,
		correlations: make(map[string][]ItemCorrelation),
		now:          time.Now,
	}
}

// SetCorrelations installs the cross-item correlation table. Intended to be
// called once at startup before serving traffic.
func (e *DemandEstimator) SetCorrelations(table map[string][]ItemCorrelation) {
	e.correlations = table
}

// PredictDemand forecasts demand for one item over the given horizon.
// A non-positive horizon falls back to the default and oversized horizons
// are clamped to the configured maximum. Items with no sales history get a
// zero forecast at baseline confidence rather than an error.
func (e *DemandEstimator) PredictDemand(ctx context.Context, itemID string, horizonHours int, weather *WeatherSnapshot, events []LocalEvent) (*DemandForecast, error) {
	item, err := e.inventory.GetInventoryItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("predict demand: %w", err)
	}

	horizonHours = e.tuning.clampHorizon(horizonHours)
	now := e.now()
	lookbackStart := now.Add(-time.Duration(e.tuning.LookbackDays) * 24 * time.Hour)

	history, err := e.sales.GetSalesEventsByDateRange(ctx, lookbackStart, now, e.tuning.MaxHistoryEvents)
	if err != nil {
		return nil, fmt.Errorf("predict demand: load sales history: %w", err)
	}
	samples := filterEventsForItem(history, item)

	baseDemand := e.baseDemand(samples, item, horizonHours)

	weatherMult := e.weatherMultiplier(item, weather)
	eventMult := e.eventMultiplier(events)
	seasonalMult := e.seasonalMultiplier(samples, item, now)
	corrMult := e.correlationMultiplier(item, history)

	forecast := baseDemand * (e.tuning.WeatherWeight*weatherMult +
		e.tuning.EventWeight*eventMult +
		e.tuning.SeasonalWeight*seasonalMult +
		e.tuning.CorrelationWeight*corrMult)
	if forecast < 0 {
		forecast = 0
	}

	confidence := sampleConfidence(len(samples))
	volatility := e.demandVolatility(samples, item)

	safetyStock := forecast * (1 - confidence) * (1 + volatility)
	par := e.recommendedParLevel(ctx, item, forecast, horizonHours, safetyStock)
	risk := e.stockoutRisk(item, forecast, horizonHours)

	log.Debug().
		Str("item_id", item.ID).
		Int("horizon_hours", horizonHours).
		Float64("forecast", forecast).
		Float64("confidence", confidence).
		Msg("demand forecast computed")

	return &DemandForecast{
		ItemID:              item.ID,
		ItemName:            item.Name,
		HorizonHours:        horizonHours,
		ForecastQuantity:    forecast,
		Confidence:          confidence,
		RecommendedParLevel: par,
		SafetyStock:         safetyStock,
		StockoutRisk:        risk,
		Factors: FactorBreakdown{
			WeatherMultiplier:     weatherMult,
			EventMultiplier:       eventMult,
			SeasonalMultiplier:    seasonalMult,
			CorrelationMultiplier: corrMult,
			HistoricalPattern:     describePattern(len(samples)),
		},
	}, nil
}

func filterEventsForItem(events []*domain.SalesEvent, item *domain.InventoryItem) []*domain.SalesEvent {
	var out []*domain.SalesEvent
	for _, ev := range events {
		if ev.ContainsItem(item.ID, item.Name) {
			out = append(out, ev)
		}
	}
	return out
}

// baseDemand is the total quantity sold over the lookback window scaled to
// the requested horizon.
func (e *DemandEstimator) baseDemand(samples []*domain.SalesEvent, item *domain.InventoryItem, horizonHours int) float64 {
	if len(samples) == 0 {
		return 0
	}
	var totalSold float64
	for _, ev := range samples {
		totalSold += ev.QuantityOf(item.ID, item.Name)
	}
	lookbackHours := float64(e.tuning.LookbackDays) * 24
	return totalSold * float64(horizonHours) / lookbackHours
}

func (e *DemandEstimator) weatherMultiplier(item *domain.InventoryItem, weather *WeatherSnapshot) float64 {
	if weather == nil {
		return 1.0
	}
	sens := e.tuning.WeatherSensitivityFor(item.Category)

	mult := 1.0
	switch {
	case weather.TemperatureC > 25:
		mult += sens.Heat * 0.2
	case weather.TemperatureC < 10:
		mult += sens.Cold * 0.15
	}
	if weather.PrecipitationMM > 0.5 {
		mult += sens.Rain * 0.1
	}
	return clamp(mult, e.tuning.WeatherMultiplierMin, e.tuning.WeatherMultiplierMax)
}

func (e *DemandEstimator) eventMultiplier(events []LocalEvent) float64 {
	if len(events) == 0 {
		return 1.0
	}
	mult := 1.0
	for _, ev := range events {
		proximity := math.Max(0, 1-ev.ProximityKm/10)
		attendance := math.Min(ev.ExpectedAttendance/1000, 2)
		mult += proximity * attendance * 0.1
	}
	return clamp(mult, e.tuning.EventMultiplierMin, e.tuning.EventMultiplierMax)
}

// seasonalMultiplier is the ratio of the same-weekday average to the overall
// average. No clamp beyond the implicit non-negativity of quantities.
func (e *DemandEstimator) seasonalMultiplier(samples []*domain.SalesEvent, item *domain.InventoryItem, now time.Time) float64 {
	if len(samples) == 0 {
		return 1.0
	}
	weekday := now.Weekday()

	var overallTotal, periodTotal float64
	var periodCount int
	for _, ev := range samples {
		q := ev.QuantityOf(item.ID, item.Name)
		overallTotal += q
		if ev.Timestamp.Weekday() == weekday {
			periodTotal += q
			periodCount++
		}
	}
	overallAvg := overallTotal / float64(len(samples))
	if overallAvg <= 0 || periodCount == 0 {
		return 1.0
	}
	periodAvg := periodTotal / float64(periodCount)
	return periodAvg / overallAvg
}

// correlationMultiplier folds correlated items' velocity trends into this
// item's demand, decayed by each correlation's lead time.
func (e *DemandEstimator) correlationMultiplier(item *domain.InventoryItem, history []*domain.SalesEvent) float64 {
	corrs := e.correlations[item.ID]
	if len(corrs) == 0 {
		return 1.0
	}
	mult := 1.0
	for _, c := range corrs {
		trend := velocityTrend(history, c.ItemID)
		impact := c.Strength * trend * math.Exp(-c.LeadTimeHours/24)
		mult += impact * 0.1
	}
	return clamp(mult, e.tuning.CorrMultiplierMin, e.tuning.CorrMultiplierMax)
}

// velocityTrend compares the most recent half of the window against the
// older half for a correlated item and returns the fractional change.
func velocityTrend(history []*domain.SalesEvent, itemID string) float64 {
	if len(history) == 0 {
		return 0
	}
	var oldest, newest time.Time
	for _, ev := range history {
		if oldest.IsZero() || ev.Timestamp.Before(oldest) {
			oldest = ev.Timestamp
		}
		if ev.Timestamp.After(newest) {
			newest = ev.Timestamp
		}
	}
	mid := oldest.Add(newest.Sub(oldest) / 2)

	var early, late float64
	for _, ev := range history {
		q := ev.QuantityOf(itemID, "")
		if ev.Timestamp.Before(mid) {
			early += q
		} else {
			late += q
		}
	}
	if early <= 0 {
		if late > 0 {
			return 1
		}
		return 0
	}
	return (late - early) / early
}

// sampleConfidence is a step function of how many sales events mention the
// item: thin history stays at the 0.5 floor.
func sampleConfidence(samples int) float64 {
	switch {
	case samples < 10:
		return 0.5
	case samples < 50:
		return 0.7
	default:
		return 0.9
	}
}

// demandVolatility is the coefficient of variation of per-event quantities,
// clamped to [0,1]. Thin history falls back to a moderate 0.3.
func (e *DemandEstimator) demandVolatility(samples []*domain.SalesEvent, item *domain.InventoryItem) float64 {
	if len(samples) < 2 {
		return 0.3
	}
	quantities := make([]float64, 0, len(samples))
	var sum float64
	for _, ev := range samples {
		q := ev.QuantityOf(item.ID, item.Name)
		quantities = append(quantities, q)
		sum += q
	}
	mean := sum / float64(len(quantities))
	if mean <= 0 {
		return 0.3
	}
	var sq float64
	for _, q := range quantities {
		d := q - mean
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(len(quantities)))
	return clamp(stddev/mean, 0, 1)
}

// recommendedParLevel is lead-time demand plus safety stock, capped so the
// item is never stocked past what would spoil before use.
func (e *DemandEstimator) recommendedParLevel(ctx context.Context, item *domain.InventoryItem, forecast float64, horizonHours int, safetyStock float64) float64 {
	dailyDemand := forecast / float64(horizonHours) * 24

	leadDays := e.tuning.DefaultLeadTimeDays
	if e.suppliers != nil && item.SupplierID != "" {
		if sup, err := e.suppliers.GetSupplier(ctx, item.SupplierID); err == nil && sup.LeadTimeDays > 0 {
			leadDays = sup.LeadTimeDays
		}
	}

	par := dailyDemand*leadDays + safetyStock

	profile := e.tuning.SpoilageFor(item.Category)
	ceiling := profile.BaseShelfLifeHours / 24 * e.tuning.SpoilCeilingPerDay
	if par > ceiling {
		par = ceiling
	}
	if par < 0 {
		par = 0
	}
	return par
}

// stockoutRisk bands the days of stock remaining against par-level days.
func (e *DemandEstimator) stockoutRisk(item *domain.InventoryItem, forecast float64, horizonHours int) float64 {
	dailyDemand := forecast / float64(horizonHours) * 24
	if dailyDemand <= 0 {
		return 0.1
	}
	daysOfStock := item.CurrentStock / dailyDemand
	parDays := item.ParLevel / dailyDemand

	switch {
	case daysOfStock <= 1:
		return 0.9
	case daysOfStock <= parDays*0.5:
		return 0.7
	case daysOfStock <= parDays:
		return 0.4
	default:
		return 0.1
	}
}

func describePattern(samples int) string {
	switch {
	case samples < 10:
		return "insufficient data"
	case samples < 50:
		return "moderate historical data"
	default:
		return "strong historical pattern"
	}
}
