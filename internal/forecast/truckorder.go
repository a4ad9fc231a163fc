// internal/forecast/truckorder.go
package forecast

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dineiq/dineiq/internal/repository"
)

// TruckOrderGenerator rolls the demand forecasts for every below-par item
// into one purchase order grouped by supplier. It is a read-and-compute
// report; nothing is committed.
type TruckOrderGenerator struct {
	inventory repository.InventoryRepository
	suppliers repository.SupplierRepository
	demand    *DemandEstimator
	tuning    Tuning

	now func() time.Time
}

// NewTruckOrderGenerator wires a truck-order generator.
func NewTruckOrderGenerator(inventory repository.InventoryRepository, suppliers repository.SupplierRepository, demand *DemandEstimator, tuning Tuning) *TruckOrderGenerator {
	return &TruckOrderGenerator{
		inventory: inventory,
		suppliers: suppliers,
		demand:    demand,
		tuning:    tuning,
		now:       time.Now,
	}
}

// GenerateTruckOrder builds the order for every item whose current stock is
// below its par level. Lines are sorted by stockout risk, highest first.
func (g *TruckOrderGenerator) GenerateTruckOrder(ctx context.Context) (*TruckOrder, error) {
	items, err := g.inventory.GetAllInventoryItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("truck order: list items: %w", err)
	}

	order := &TruckOrder{OrderDate: g.now()}
	supplierTotals := make(map[string]*SupplierSubtotal)

	for _, item := range items {
		if item.CurrentStock >= item.ParLevel {
			continue
		}

		metrics, err := g.demand.PredictDemand(ctx, item.ID, 0, nil, nil)
		if err != nil {
			// One unpredictable item should not sink the whole order.
			log.Warn().Err(err).Str("item_id", item.ID).Msg("truck order: skipping item")
			continue
		}

		target := math.Max(item.ParLevel, metrics.RecommendedParLevel)
		buffer := metrics.ForecastQuantity * g.tuning.SafetyBufferRatio
		qty := math.Ceil(target + buffer - item.CurrentStock)
		if qty <= 0 {
			continue
		}

		supplierID := item.SupplierID
		if supplierID == "" {
			supplierID = "unknown"
		}
		supplierName, leadDays := g.supplierInfo(ctx, item.SupplierID)

		totalCost := qty * item.CostPerUnit
		order.Lines = append(order.Lines, OrderLine{
			ItemID:              item.ID,
			ItemName:            item.Name,
			Category:            string(item.Category),
			Unit:                item.Unit,
			CurrentStock:        item.CurrentStock,
			ParLevel:            item.ParLevel,
			RecommendedParLevel: math.Round(metrics.RecommendedParLevel),
			OrderQuantity:       qty,
			CostPerUnit:         item.CostPerUnit,
			TotalCost:           totalCost,
			SupplierID:          supplierID,
			SupplierName:        supplierName,
			PredictedDemand:     math.Round(metrics.ForecastQuantity),
			StockoutRisk:        metrics.StockoutRisk,
			ExpectedDelivery:    g.now().Add(time.Duration(math.Ceil(leadDays)) * 24 * time.Hour),
		})

		sub, ok := supplierTotals[supplierID]
		if !ok {
			sub = &SupplierSubtotal{SupplierID: supplierID}
			supplierTotals[supplierID] = sub
		}
		sub.TotalCost += totalCost
		sub.ItemCount++
		order.TotalCost += totalCost
	}

	sort.SliceStable(order.Lines, func(i, j int) bool {
		return order.Lines[i].StockoutRisk > order.Lines[j].StockoutRisk
	})

	ids := make([]string, 0, len(supplierTotals))
	for id := range supplierTotals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		order.SupplierBreakdown = append(order.SupplierBreakdown, *supplierTotals[id])
	}

	order.TotalItems = len(order.Lines)
	return order, nil
}

func (g *TruckOrderGenerator) supplierInfo(ctx context.Context, supplierID string) (string, float64) {
	if supplierID == "" || g.suppliers == nil {
		return "Unknown Supplier", g.tuning.DefaultLeadTimeDays
	}
	sup, err := g.suppliers.GetSupplier(ctx, supplierID)
	if err != nil {
		return "Unknown Supplier", g.tuning.DefaultLeadTimeDays
	}
	leadDays := sup.LeadTimeDays
	if leadDays <= 0 {
		leadDays = g.tuning.DefaultLeadTimeDays
	}
	return sup.Name, leadDays
}
