// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/dineiq/dineiq/internal/domain"
)

// InventoryRepository is the storage accessor for inventory items. Lookups
// for missing ids return an error wrapping domain.ErrNotFound.
type InventoryRepository interface {
	GetInventoryItem(ctx context.Context, id string) (*domain.InventoryItem, error)
	GetAllInventoryItems(ctx context.Context) ([]*domain.InventoryItem, error)
	GetLowStockItems(ctx context.Context) ([]*domain.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, item *domain.InventoryItem) error
	UpdateInventoryItem(ctx context.Context, item *domain.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, id string) error
}

// SalesRepository gives read access to recorded POS events and lets the
// webhook ingester append new ones. Events are immutable once created.
type SalesRepository interface {
	CreateSalesEvent(ctx context.Context, event *domain.SalesEvent) error
	GetSalesEventsByDateRange(ctx context.Context, start, end time.Time, limit int) ([]*domain.SalesEvent, error)
}

// TransactionRepository stores tagged stock movements.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx *domain.InventoryTransaction) error
	GetTransactionsByItem(ctx context.Context, itemID string, start, end time.Time) ([]domain.InventoryTransaction, error)
}

// CountRepository stores physical count rows.
type CountRepository interface {
	CreateCount(ctx context.Context, count *domain.InventoryCount) error
	GetCount(ctx context.Context, id string) (*domain.InventoryCount, error)
	GetCountsByDateRange(ctx context.Context, start, end time.Time) ([]*domain.InventoryCount, error)
}

// SupplierRepository resolves supplier names and lead times for ordering.
type SupplierRepository interface {
	GetSupplier(ctx context.Context, id string) (*domain.Supplier, error)
}
