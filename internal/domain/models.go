// internal/domain/models.go
package domain

import "time"

// Category buckets every inventory item into one of the spoilage/demand
// profiles the estimators know about.
type Category string

const (
	CategoryProtein    Category = "protein"
	CategoryVegetables Category = "vegetables"
	CategoryGrains     Category = "grains"
	CategoryDairy      Category = "dairy"
	CategoryOther      Category = "other"
)

// ParseCategory maps free-form category text to a known Category,
// defaulting to CategoryOther.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryProtein, CategoryVegetables, CategoryGrains, CategoryDairy:
		return Category(s)
	default:
		return CategoryOther
	}
}

// InventoryItem is a tracked stock item at a location.
type InventoryItem struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Category     Category  `json:"category" db:"category"`
	CurrentStock float64   `json:"current_stock" db:"current_stock"`
	Unit         string    `json:"unit" db:"unit"`
	CostPerUnit  float64   `json:"cost_per_unit" db:"cost_per_unit"`
	ParLevel     float64   `json:"par_level" db:"par_level"`
	SupplierID   string    `json:"supplier_id,omitempty" db:"supplier_id"`
	SupplierName string    `json:"supplier_name,omitempty" db:"supplier_name"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SaleLine is a single line item on a POS ticket.
type SaleLine struct {
	InventoryItemID string  `json:"inventory_item_id,omitempty" db:"inventory_item_id"`
	ItemName        string  `json:"item_name" db:"item_name"`
	Quantity        float64 `json:"quantity" db:"quantity"`
	UnitPrice       float64 `json:"unit_price" db:"unit_price"`
}

// SalesEvent is an immutable POS ticket recorded by webhook ingestion.
type SalesEvent struct {
	ID          string     `json:"id" db:"id"`
	Source      string     `json:"source" db:"source"`
	LocationID  string     `json:"location_id" db:"location_id"`
	Timestamp   time.Time  `json:"timestamp" db:"timestamp"`
	Lines       []SaleLine `json:"lines" db:"-"`
	GrossAmount float64    `json:"gross_amount" db:"gross_amount"`
	NetAmount   float64    `json:"net_amount" db:"net_amount"`
	TaxAmount   float64    `json:"tax_amount" db:"tax_amount"`
}

// ContainsItem reports whether the event sold the given inventory item,
// matching either by item id or by line-item name.
func (e *SalesEvent) ContainsItem(itemID, itemName string) bool {
	for _, l := range e.Lines {
		if l.InventoryItemID == itemID || l.ItemName == itemName {
			return true
		}
	}
	return false
}

// QuantityOf returns the total quantity of the given item sold on this event.
// Refund lines carry negative quantities and count by absolute value.
func (e *SalesEvent) QuantityOf(itemID, itemName string) float64 {
	var total float64
	for _, l := range e.Lines {
		if l.InventoryItemID == itemID || l.ItemName == itemName {
			q := l.Quantity
			if q < 0 {
				q = -q
			}
			total += q
		}
	}
	return total
}

// InventoryCount is a physical count row entered during reconciliation.
type InventoryCount struct {
	ID          string    `json:"id" db:"id"`
	ItemID      string    `json:"item_id" db:"item_id"`
	ActualCount float64   `json:"actual_count" db:"actual_count"`
	CountedBy   string    `json:"counted_by" db:"counted_by"`
	CountedAt   time.Time `json:"counted_at" db:"counted_at"`
}

// Supplier is a vendor an item can be reordered from.
type Supplier struct {
	ID           string  `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	LeadTimeDays float64 `json:"lead_time_days" db:"lead_time_days"`
}
