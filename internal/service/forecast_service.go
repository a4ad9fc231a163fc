// internal/service/forecast_service.go
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dineiq/dineiq/internal/cache"
	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/forecast"
	"github.com/dineiq/dineiq/internal/repository"
)

// ForecastService fronts the estimation pipeline for the HTTP layer,
// adding forecast caching on top of the pure estimators.
type ForecastService struct {
	demand   *forecast.DemandEstimator
	waste    *forecast.WasteEstimator
	variance *forecast.VarianceAnalyzer
	truck    *forecast.TruckOrderGenerator

	inventory repository.InventoryRepository
	counts    repository.CountRepository
	cache     cache.ForecastCache
}

func NewForecastService(
	demand *forecast.DemandEstimator,
	waste *forecast.WasteEstimator,
	variance *forecast.VarianceAnalyzer,
	truck *forecast.TruckOrderGenerator,
	inventory repository.InventoryRepository,
	counts repository.CountRepository,
	cacheImpl cache.ForecastCache,
) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{
		demand:    demand,
		waste:     waste,
		variance:  variance,
		truck:     truck,
		inventory: inventory,
		counts:    counts,
		cache:     cacheImpl,
	}
}

// PredictDemand serves a demand forecast, consulting the cache when no
// per-request weather/event context is supplied.
func (s *ForecastService) PredictDemand(ctx context.Context, itemID string, horizonHours int, weather *forecast.WeatherSnapshot, events []forecast.LocalEvent) (*forecast.DemandForecast, error) {
	cacheable := weather == nil && len(events) == 0
	if cacheable {
		if f, ok, err := s.cache.GetDemand(ctx, itemID, horizonHours); err == nil && ok {
			return f, nil
		} else if err != nil {
			log.Warn().Err(err).Msg("forecast: cache get failed")
		}
	}

	f, err := s.demand.PredictDemand(ctx, itemID, horizonHours, weather, events)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetDemand(ctx, f); err != nil {
			log.Warn().Err(err).Msg("forecast: cache set failed")
		}
	}
	return f, nil
}

// PredictWaste serves a waste prediction for one item.
func (s *ForecastService) PredictWaste(ctx context.Context, itemID string, horizonHours int) (*forecast.WastePrediction, error) {
	return s.waste.PredictWaste(ctx, itemID, horizonHours)
}

// AnalyzeVariance resolves the item and count then scores the variance.
func (s *ForecastService) AnalyzeVariance(ctx context.Context, itemID, countID string, start, end time.Time) (*forecast.VarianceResult, error) {
	item, err := s.inventory.GetInventoryItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	count, err := s.counts.GetCount(ctx, countID)
	if err != nil {
		return nil, err
	}
	return s.variance.AnalyzeVariance(ctx, item, count, start, end)
}

// GenerateVarianceReport analyzes all counts recorded in the period.
func (s *ForecastService) GenerateVarianceReport(ctx context.Context, start, end time.Time) (*forecast.FullVarianceReport, error) {
	counts, err := s.counts.GetCountsByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return s.variance.GenerateVarianceReport(ctx, start, end, counts)
}

// GenerateTruckOrder builds the purchase order for all below-par items.
func (s *ForecastService) GenerateTruckOrder(ctx context.Context) (*forecast.TruckOrder, error) {
	return s.truck.GenerateTruckOrder(ctx)
}

// OptimizePar derives a par-level recommendation from a 7-day forecast.
type ParOptimization struct {
	ItemID              string                   `json:"item_id"`
	CurrentParLevel     float64                  `json:"current_par_level"`
	RecommendedParLevel float64                  `json:"recommended_par_level"`
	SafetyStock         float64                  `json:"safety_stock"`
	Confidence          float64                  `json:"confidence"`
	Factors             forecast.FactorBreakdown `json:"factors"`
}

func (s *ForecastService) OptimizePar(ctx context.Context, itemID string) (*ParOptimization, error) {
	item, err := s.inventory.GetInventoryItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	f, err := s.PredictDemand(ctx, itemID, 168, nil, nil)
	if err != nil {
		return nil, err
	}
	return &ParOptimization{
		ItemID:              itemID,
		CurrentParLevel:     item.ParLevel,
		RecommendedParLevel: f.RecommendedParLevel,
		SafetyStock:         f.SafetyStock,
		Confidence:          f.Confidence,
		Factors:             f.Factors,
	}, nil
}

// OrderSuggestion is a single-item reorder hint derived from lead-time
// demand versus current stock.
type OrderSuggestion struct {
	ItemID               string  `json:"item_id"`
	RecommendedOrderQty  float64 `json:"recommended_order_qty"`
	Confidence           float64 `json:"confidence"`
	EstimatedCost        float64 `json:"estimated_cost"`
	StockoutRisk         float64 `json:"stockout_risk"`
}

func (s *ForecastService) SuggestOrder(ctx context.Context, itemID string, leadTimeDays int) (*OrderSuggestion, error) {
	if leadTimeDays <= 0 {
		leadTimeDays = 2
	}
	item, err := s.inventory.GetInventoryItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	f, err := s.PredictDemand(ctx, itemID, leadTimeDays*24, nil, nil)
	if err != nil {
		return nil, err
	}
	qty := f.ForecastQuantity - item.CurrentStock
	if qty < 0 {
		qty = 0
	}
	return &OrderSuggestion{
		ItemID:              itemID,
		RecommendedOrderQty: qty,
		Confidence:          f.Confidence,
		EstimatedCost:       qty * item.CostPerUnit,
		StockoutRisk:        f.StockoutRisk,
	}, nil
}

// LowStockItems lists items currently below their par level.
func (s *ForecastService) LowStockItems(ctx context.Context) ([]*domain.InventoryItem, error) {
	return s.inventory.GetLowStockItems(ctx)
}
