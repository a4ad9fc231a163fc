package domain

import (
	"testing"
	"time"
)

func TestSignedQuantity(t *testing.T) {
	at := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tx       InventoryTransaction
		expected float64
	}{
		{"purchase_adds", NewPurchaseTransaction("a", 10, "po-1", at), 10},
		{"adjustment_adds", NewAdjustmentTransaction("a", 3, "recount", at), 3},
		{"sale_subtracts", NewSaleTransaction("a", 4, "ev-1", at), -4},
		{"waste_subtracts", NewWasteTransaction("a", 2, "spoiled", at), -2},
		{"negative_input_normalized", NewSaleTransaction("a", -4, "refund", at), -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tx.SignedQuantity(); got != tt.expected {
				t.Errorf("SignedQuantity() = %f, expected %f", got, tt.expected)
			}
			if tt.tx.Quantity < 0 {
				t.Error("Stored quantity must be non-negative")
			}
		})
	}
}

func TestParseTransactionType(t *testing.T) {
	for _, valid := range []string{"purchase", "sale", "waste", "adjustment"} {
		if _, err := ParseTransactionType(valid); err != nil {
			t.Errorf("ParseTransactionType(%q) returned error: %v", valid, err)
		}
	}
	if _, err := ParseTransactionType("theft"); err == nil {
		t.Error("Expected error for unknown transaction type")
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
	}{
		{"protein", CategoryProtein},
		{"dairy", CategoryDairy},
		{"vegetables", CategoryVegetables},
		{"grains", CategoryGrains},
		{"other", CategoryOther},
		{"frozen", CategoryOther},
		{"", CategoryOther},
	}
	for _, tt := range tests {
		if got := ParseCategory(tt.input); got != tt.expected {
			t.Errorf("ParseCategory(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}

func TestSalesEvent_QuantityOf(t *testing.T) {
	ev := &SalesEvent{
		Lines: []SaleLine{
			{InventoryItemID: "tomato", ItemName: "tomato", Quantity: 3},
			{InventoryItemID: "tomato", ItemName: "tomato", Quantity: -1}, // refund line
			{InventoryItemID: "beef", ItemName: "beef", Quantity: 2},
			{ItemName: "tomato soup", Quantity: 1},
		},
	}

	// Refunds count by absolute value.
	if got := ev.QuantityOf("tomato", "tomato"); got != 4 {
		t.Errorf("Expected quantity 4, got %f", got)
	}
	if !ev.ContainsItem("tomato", "tomato") {
		t.Error("Expected event to contain tomato")
	}
	if ev.ContainsItem("salt", "salt") {
		t.Error("Did not expect event to contain salt")
	}
}
