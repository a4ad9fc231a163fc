// internal/service/alert_service.go
package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/forecast"
	"github.com/dineiq/dineiq/internal/notify"
	"github.com/dineiq/dineiq/internal/repository"
)

// AlertService runs the scheduled waste sweep: predict waste for every
// item and notify the kitchen when the projected cost clears the
// configured floor.
type AlertService struct {
	inventory repository.InventoryRepository
	waste     *forecast.WasteEstimator
	notifier  notify.Notifier

	// costFloor is the minimum per-item cost impact worth alerting on.
	costFloor float64
	// horizonHours is how far ahead each sweep looks.
	horizonHours int
}

func NewAlertService(
	inventory repository.InventoryRepository,
	waste *forecast.WasteEstimator,
	notifier notify.Notifier,
	costFloor float64,
	horizonHours int,
) *AlertService {
	if horizonHours <= 0 {
		horizonHours = 24
	}
	return &AlertService{
		inventory:    inventory,
		waste:        waste,
		notifier:     notifier,
		costFloor:    costFloor,
		horizonHours: horizonHours,
	}
}

// SweepWasteRisk predicts waste across the whole inventory and posts one
// alert covering every item above the cost floor. Per-item prediction
// failures are logged and skipped so one bad item cannot kill the sweep.
func (s *AlertService) SweepWasteRisk(ctx context.Context) ([]*forecast.WastePrediction, error) {
	items, err := s.inventory.GetAllInventoryItems(ctx)
	if err != nil {
		return nil, err
	}

	var flagged []*forecast.WastePrediction
	var totalCost float64
	for _, item := range items {
		p, err := s.waste.PredictWaste(ctx, item.ID, s.horizonHours)
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			log.Warn().Err(err).Str("item_id", item.ID).Msg("alerts: waste prediction failed")
			continue
		}
		if p.PredictedWasteQty <= 0 || p.CostImpact < s.costFloor {
			continue
		}
		flagged = append(flagged, p)
		totalCost += p.CostImpact
	}

	sort.Slice(flagged, func(i, j int) bool {
		return flagged[i].CostImpact > flagged[j].CostImpact
	})

	if len(flagged) > 0 {
		if err := s.notifier.NotifyWasteRisk(ctx, flagged, totalCost); err != nil {
			log.Error().Err(err).Int("items", len(flagged)).Msg("alerts: notification failed")
		} else {
			log.Info().Int("items", len(flagged)).Float64("total_cost", totalCost).
				Msg("alerts: waste sweep posted")
		}
	}
	return flagged, nil
}
