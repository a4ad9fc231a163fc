// internal/domain/transaction.go
package domain

import (
	"fmt"
	"time"
)

// TransactionType discriminates stock movements. Purchases and adjustments
// add to theoretical stock, sales and waste subtract from it.
type TransactionType string

const (
	TransactionPurchase   TransactionType = "purchase"
	TransactionSale       TransactionType = "sale"
	TransactionWaste      TransactionType = "waste"
	TransactionAdjustment TransactionType = "adjustment"
)

// InventoryTransaction is a tagged stock movement for one item. The type is
// fixed at construction via the New*Transaction helpers so downstream code
// never inspects loose payloads.
type InventoryTransaction struct {
	ID        string          `json:"id" db:"id"`
	ItemID    string          `json:"item_id" db:"item_id"`
	Type      TransactionType `json:"type" db:"type"`
	Quantity  float64         `json:"quantity" db:"quantity"`
	Reference string          `json:"reference,omitempty" db:"reference"`
	Timestamp time.Time       `json:"timestamp" db:"timestamp"`
}

// SignedQuantity returns the quantity with the sign implied by the
// transaction type: positive for purchases/adjustments, negative for
// sales/waste.
func (t InventoryTransaction) SignedQuantity() float64 {
	q := t.Quantity
	if q < 0 {
		q = -q
	}
	switch t.Type {
	case TransactionSale, TransactionWaste:
		return -q
	default:
		return q
	}
}

func newTransaction(itemID string, typ TransactionType, qty float64, ref string, at time.Time) InventoryTransaction {
	if qty < 0 {
		qty = -qty
	}
	return InventoryTransaction{
		ItemID:    itemID,
		Type:      typ,
		Quantity:  qty,
		Reference: ref,
		Timestamp: at,
	}
}

// NewPurchaseTransaction records goods received from a supplier.
func NewPurchaseTransaction(itemID string, qty float64, ref string, at time.Time) InventoryTransaction {
	return newTransaction(itemID, TransactionPurchase, qty, ref, at)
}

// NewSaleTransaction records stock consumed by a POS sale.
func NewSaleTransaction(itemID string, qty float64, ref string, at time.Time) InventoryTransaction {
	return newTransaction(itemID, TransactionSale, qty, ref, at)
}

// NewWasteTransaction records stock discarded as spoilage or prep waste.
func NewWasteTransaction(itemID string, qty float64, ref string, at time.Time) InventoryTransaction {
	return newTransaction(itemID, TransactionWaste, qty, ref, at)
}

// NewAdjustmentTransaction records a manual correction that adds stock.
func NewAdjustmentTransaction(itemID string, qty float64, ref string, at time.Time) InventoryTransaction {
	return newTransaction(itemID, TransactionAdjustment, qty, ref, at)
}

// ParseTransactionType validates wire-format transaction type strings.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionPurchase, TransactionSale, TransactionWaste, TransactionAdjustment:
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}
