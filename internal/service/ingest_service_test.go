package service

import (
	"context"
	"testing"
	"time"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/repository/memory"
)

func newIngestFixture(t *testing.T) (*IngestService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	items := []*domain.InventoryItem{
		{ID: "tomato", Name: "tomato", Category: domain.CategoryVegetables, CurrentStock: 20, Unit: "kg", CostPerUnit: 1.5, ParLevel: 25},
		{ID: "beef", Name: "beef", Category: domain.CategoryProtein, CurrentStock: 10, Unit: "kg", CostPerUnit: 9, ParLevel: 15},
	}
	for _, item := range items {
		if err := store.CreateInventoryItem(ctx, item); err != nil {
			t.Fatalf("Failed to create item: %v", err)
		}
	}

	return NewIngestService(store, store, store, store, nil), store
}

func TestIngestTicket_RecordsEventAndDecrementsStock(t *testing.T) {
	svc, store := newIngestFixture(t)
	ctx := context.Background()
	ts := time.Date(2025, 6, 16, 19, 30, 0, 0, time.UTC)

	ticket := &PosTicket{
		Source:     "toast",
		LocationID: "downtown",
		Timestamp:  ts,
		Lines: []PosLine{
			{InventoryItemID: "tomato", ItemName: "tomato", Quantity: 3, UnitPrice: 4},
			{InventoryItemID: "beef", ItemName: "beef", Quantity: 2, UnitPrice: 18},
		},
		GrossAmount: 48,
		NetAmount:   44,
		TaxAmount:   4,
	}

	event, err := svc.IngestTicket(ctx, ticket)
	if err != nil {
		t.Fatalf("IngestTicket returned error: %v", err)
	}
	if event.ID == "" {
		t.Error("Expected a generated event id")
	}
	if len(event.Lines) != 2 {
		t.Errorf("Expected 2 event lines, got %d", len(event.Lines))
	}

	// The event is queryable by date range.
	events, err := store.GetSalesEventsByDateRange(ctx, ts.Add(-time.Hour), ts.Add(time.Hour), 0)
	if err != nil {
		t.Fatalf("Failed to query events: %v", err)
	}
	if len(events) != 1 || events[0].Source != "toast" {
		t.Fatalf("Expected the recorded event, got %+v", events)
	}

	// Stock decremented per line.
	tomato, _ := store.GetInventoryItem(ctx, "tomato")
	if tomato.CurrentStock != 17 {
		t.Errorf("Expected tomato stock 17, got %f", tomato.CurrentStock)
	}
	beef, _ := store.GetInventoryItem(ctx, "beef")
	if beef.CurrentStock != 8 {
		t.Errorf("Expected beef stock 8, got %f", beef.CurrentStock)
	}

	// Each line booked a sale transaction referencing the event.
	txs, err := store.GetTransactionsByItem(ctx, "tomato", ts.Add(-time.Hour), ts.Add(time.Hour))
	if err != nil {
		t.Fatalf("Failed to query transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Type != domain.TransactionSale || txs[0].Reference != event.ID {
		t.Errorf("Unexpected transaction: %+v", txs[0])
	}
	if txs[0].SignedQuantity() != -3 {
		t.Errorf("Expected signed quantity -3, got %f", txs[0].SignedQuantity())
	}
}

func TestIngestTicket_UnknownLineDoesNotRejectTicket(t *testing.T) {
	svc, store := newIngestFixture(t)
	ctx := context.Background()
	ts := time.Now()

	ticket := &PosTicket{
		Source:    "toast",
		Timestamp: ts,
		Lines: []PosLine{
			{InventoryItemID: "tomato", ItemName: "tomato", Quantity: 2},
			{InventoryItemID: "ghost", ItemName: "off-menu special", Quantity: 1},
			{ItemName: "unmapped side", Quantity: 1}, // no inventory link
		},
	}

	event, err := svc.IngestTicket(ctx, ticket)
	if err != nil {
		t.Fatalf("IngestTicket returned error: %v", err)
	}
	if len(event.Lines) != 3 {
		t.Errorf("Expected all 3 lines on the event, got %d", len(event.Lines))
	}

	tomato, _ := store.GetInventoryItem(ctx, "tomato")
	if tomato.CurrentStock != 18 {
		t.Errorf("Expected tomato stock 18, got %f", tomato.CurrentStock)
	}
}

func TestIngestTicket_EmptyTicketRejected(t *testing.T) {
	svc, _ := newIngestFixture(t)
	if _, err := svc.IngestTicket(context.Background(), &PosTicket{Source: "toast"}); err == nil {
		t.Fatal("Expected error for ticket without lines")
	}
}

func TestIngestTicket_StockNeverGoesNegative(t *testing.T) {
	svc, store := newIngestFixture(t)
	ctx := context.Background()

	ticket := &PosTicket{
		Source:    "toast",
		Timestamp: time.Now(),
		Lines: []PosLine{
			{InventoryItemID: "beef", ItemName: "beef", Quantity: 500},
		},
	}
	if _, err := svc.IngestTicket(ctx, ticket); err != nil {
		t.Fatalf("IngestTicket returned error: %v", err)
	}

	beef, _ := store.GetInventoryItem(ctx, "beef")
	if beef.CurrentStock != 0 {
		t.Errorf("Expected stock floored at 0, got %f", beef.CurrentStock)
	}
}

func TestRecordWaste(t *testing.T) {
	svc, store := newIngestFixture(t)
	ctx := context.Background()

	if err := svc.RecordWaste(ctx, "tomato", 4, "freezer failure"); err != nil {
		t.Fatalf("RecordWaste returned error: %v", err)
	}

	tomato, _ := store.GetInventoryItem(ctx, "tomato")
	if tomato.CurrentStock != 16 {
		t.Errorf("Expected stock 16 after waste, got %f", tomato.CurrentStock)
	}

	txs, err := store.GetTransactionsByItem(ctx, "tomato", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Failed to query transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != domain.TransactionWaste {
		t.Fatalf("Expected 1 waste transaction, got %+v", txs)
	}
	if txs[0].Reference != "freezer failure" {
		t.Errorf("Expected reason on the transaction, got %q", txs[0].Reference)
	}

	if err := svc.RecordWaste(ctx, "missing", 1, ""); !domain.IsNotFound(err) {
		t.Errorf("Expected not-found for unknown item, got %v", err)
	}
}

func TestRecordCount(t *testing.T) {
	svc, store := newIngestFixture(t)
	ctx := context.Background()

	count, err := svc.RecordCount(ctx, "beef", 9.5, "alice")
	if err != nil {
		t.Fatalf("RecordCount returned error: %v", err)
	}
	if count.ID == "" {
		t.Error("Expected a generated count id")
	}

	stored, err := store.GetCount(ctx, count.ID)
	if err != nil {
		t.Fatalf("Failed to load count: %v", err)
	}
	if stored.ActualCount != 9.5 || stored.CountedBy != "alice" {
		t.Errorf("Unexpected stored count: %+v", stored)
	}

	if _, err := svc.RecordCount(ctx, "missing", 1, "bob"); !domain.IsNotFound(err) {
		t.Errorf("Expected not-found for unknown item, got %v", err)
	}
}
