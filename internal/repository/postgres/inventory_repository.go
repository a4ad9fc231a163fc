// internal/repository/postgres/inventory_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/repository"
)

type InventoryRepository struct {
	db *DB
}

var _ repository.InventoryRepository = (*InventoryRepository)(nil)

func NewInventoryRepository(db *DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

type inventoryRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Category     string         `db:"category"`
	CurrentStock float64        `db:"current_stock"`
	Unit         string         `db:"unit"`
	CostPerUnit  float64        `db:"cost_per_unit"`
	ParLevel     float64        `db:"par_level"`
	SupplierID   sql.NullString `db:"supplier_id"`
	SupplierName sql.NullString `db:"supplier_name"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r inventoryRow) toDomain() *domain.InventoryItem {
	return &domain.InventoryItem{
		ID:           r.ID,
		Name:         r.Name,
		Category:     domain.ParseCategory(r.Category),
		CurrentStock: r.CurrentStock,
		Unit:         r.Unit,
		CostPerUnit:  r.CostPerUnit,
		ParLevel:     r.ParLevel,
		SupplierID:   r.SupplierID.String,
		SupplierName: r.SupplierName.String,
		UpdatedAt:    r.UpdatedAt,
	}
}

const inventorySelect = `
	SELECT i.id, i.name, i.category, i.current_stock, i.unit, i.cost_per_unit,
	       i.par_level, i.supplier_id, s.name AS supplier_name, i.updated_at
	FROM inventory_items i
	LEFT JOIN suppliers s ON s.id = i.supplier_id`

func (r *InventoryRepository) GetInventoryItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	var row inventoryRow
	err := r.db.GetContext(ctx, &row, inventorySelect+` WHERE i.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("inventory item %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return row.toDomain(), nil
}

func (r *InventoryRepository) GetAllInventoryItems(ctx context.Context) ([]*domain.InventoryItem, error) {
	var rows []inventoryRow
	if err := r.db.SelectContext(ctx, &rows, inventorySelect+` ORDER BY i.name`); err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	items := make([]*domain.InventoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *InventoryRepository) GetLowStockItems(ctx context.Context) ([]*domain.InventoryItem, error) {
	var rows []inventoryRow
	query := inventorySelect + ` WHERE i.current_stock < i.par_level ORDER BY i.name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list low stock items: %w", err)
	}
	items := make([]*domain.InventoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *InventoryRepository) CreateInventoryItem(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, name, category, current_stock, unit, cost_per_unit, par_level, supplier_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NOW())`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, string(item.Category), item.CurrentStock,
		item.Unit, item.CostPerUnit, item.ParLevel, item.SupplierID)
	if err != nil {
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

func (r *InventoryRepository) UpdateInventoryItem(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $2, category = $3, current_stock = $4, unit = $5,
		    cost_per_unit = $6, par_level = $7, supplier_id = NULLIF($8, ''), updated_at = NOW()
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, string(item.Category), item.CurrentStock,
		item.Unit, item.CostPerUnit, item.ParLevel, item.SupplierID)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("inventory item %s", item.ID)
	}
	return nil
}

func (r *InventoryRepository) DeleteInventoryItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("inventory item %s", id)
	}
	return nil
}
