// internal/service/ingest_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dineiq/dineiq/internal/cache"
	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/repository"
)

// PosLine is one sold item on an incoming POS ticket.
type PosLine struct {
	InventoryItemID string  `json:"inventory_item_id,omitempty"`
	ItemName        string  `json:"item_name"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
}

// PosTicket is the payload the POS webhook posts after each closed check.
type PosTicket struct {
	Source      string    `json:"source"`
	LocationID  string    `json:"location_id"`
	Timestamp   time.Time `json:"timestamp"`
	Lines       []PosLine `json:"lines"`
	GrossAmount float64   `json:"gross_amount"`
	NetAmount   float64   `json:"net_amount"`
	TaxAmount   float64   `json:"tax_amount"`
}

// IngestService turns POS tickets into sales events and sale transactions,
// decrementing stock and invalidating affected forecasts.
type IngestService struct {
	sales        repository.SalesRepository
	transactions repository.TransactionRepository
	inventory    repository.InventoryRepository
	counts       repository.CountRepository
	cache        cache.ForecastCache
}

func NewIngestService(
	sales repository.SalesRepository,
	transactions repository.TransactionRepository,
	inventory repository.InventoryRepository,
	counts repository.CountRepository,
	cacheImpl cache.ForecastCache,
) *IngestService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &IngestService{
		sales:        sales,
		transactions: transactions,
		inventory:    inventory,
		counts:       counts,
		cache:        cacheImpl,
	}
}

// IngestTicket records one POS ticket. The sales event is always written;
// per-line stock updates are best-effort so an unknown menu item cannot
// reject the whole ticket.
func (s *IngestService) IngestTicket(ctx context.Context, ticket *PosTicket) (*domain.SalesEvent, error) {
	if len(ticket.Lines) == 0 {
		return nil, fmt.Errorf("ticket from %s has no lines", ticket.Source)
	}
	ts := ticket.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	event := &domain.SalesEvent{
		ID:          uuid.New().String(),
		Source:      ticket.Source,
		LocationID:  ticket.LocationID,
		Timestamp:   ts,
		GrossAmount: ticket.GrossAmount,
		NetAmount:   ticket.NetAmount,
		TaxAmount:   ticket.TaxAmount,
	}
	for _, line := range ticket.Lines {
		event.Lines = append(event.Lines, domain.SaleLine{
			InventoryItemID: line.InventoryItemID,
			ItemName:        line.ItemName,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
		})
	}
	if err := s.sales.CreateSalesEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record sales event: %w", err)
	}

	for _, line := range ticket.Lines {
		if line.InventoryItemID == "" {
			continue
		}
		if err := s.applySale(ctx, line, event.ID, ts); err != nil {
			log.Warn().Err(err).
				Str("event_id", event.ID).
				Str("item_id", line.InventoryItemID).
				Msg("ingest: could not apply sale line")
		}
	}
	return event, nil
}

func (s *IngestService) applySale(ctx context.Context, line PosLine, eventID string, ts time.Time) error {
	item, err := s.inventory.GetInventoryItem(ctx, line.InventoryItemID)
	if err != nil {
		return err
	}

	tx := domain.NewSaleTransaction(line.InventoryItemID, line.Quantity, eventID, ts)
	tx.ID = uuid.New().String()
	if err := s.transactions.CreateTransaction(ctx, &tx); err != nil {
		return err
	}

	item.CurrentStock += tx.SignedQuantity()
	if item.CurrentStock < 0 {
		item.CurrentStock = 0
	}
	item.UpdatedAt = ts
	if err := s.inventory.UpdateInventoryItem(ctx, item); err != nil {
		return err
	}

	if err := s.cache.InvalidateItem(ctx, line.InventoryItemID); err != nil {
		log.Warn().Err(err).Str("item_id", line.InventoryItemID).Msg("ingest: cache invalidation failed")
	}
	return nil
}

// RecordWaste books a manual waste entry against an item.
func (s *IngestService) RecordWaste(ctx context.Context, itemID string, quantity float64, reason string) error {
	item, err := s.inventory.GetInventoryItem(ctx, itemID)
	if err != nil {
		return err
	}

	now := time.Now()
	tx := domain.NewWasteTransaction(itemID, quantity, reason, now)
	tx.ID = uuid.New().String()
	if err := s.transactions.CreateTransaction(ctx, &tx); err != nil {
		return err
	}

	item.CurrentStock += tx.SignedQuantity()
	if item.CurrentStock < 0 {
		item.CurrentStock = 0
	}
	item.UpdatedAt = now
	if err := s.inventory.UpdateInventoryItem(ctx, item); err != nil {
		return err
	}

	if err := s.cache.InvalidateItem(ctx, itemID); err != nil {
		log.Warn().Err(err).Str("item_id", itemID).Msg("ingest: cache invalidation failed")
	}
	return nil
}

// RecordCount stores a physical count row for later variance analysis.
func (s *IngestService) RecordCount(ctx context.Context, itemID string, actual float64, countedBy string) (*domain.InventoryCount, error) {
	if _, err := s.inventory.GetInventoryItem(ctx, itemID); err != nil {
		return nil, err
	}
	count := &domain.InventoryCount{
		ID:          uuid.New().String(),
		ItemID:      itemID,
		ActualCount: actual,
		CountedBy:   countedBy,
		CountedAt:   time.Now(),
	}
	if err := s.counts.CreateCount(ctx, count); err != nil {
		return nil, err
	}
	return count, nil
}
