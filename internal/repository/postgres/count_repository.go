// internal/repository/postgres/count_repository.go
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

type CountRepository struct {
	db *DB
}

var _ repository.CountRepository = (*CountRepository)(nil)

func NewCountRepository(db *DB) *CountRepository {
	return &CountRepository{db: db}
}

func (r *CountRepository) CreateCount(ctx context.Context, count *domain.InventoryCount) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_counts (id, item_id, actual_count, counted_by, counted_at)
		VALUES ($1, $2, $3, $4, $5)`,
		count.ID, count.ItemID, count.ActualCount, count.CountedBy, count.CountedAt)
	if err != nil {
		return fmt.Errorf("create count: %w", err)
	}
	return nil
}

func (r *CountRepository) GetCount(ctx context.Context, id string) (*domain.InventoryCount, error) {
	var count domain.InventoryCount
	err := r.db.GetContext(ctx, &count, `
		SELECT id, item_id, actual_count, counted_by, counted_at
		FROM inventory_counts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("inventory count %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get count: %w", err)
	}
	return &count, nil
}

func (r *CountRepository) GetCountsByDateRange(ctx context.Context, start, end time.Time) ([]*domain.InventoryCount, error) {
	var counts []*domain.InventoryCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT id, item_id, actual_count, counted_by, counted_at
		FROM inventory_counts
		WHERE counted_at >= $1 AND counted_at <= $2
		ORDER BY counted_at`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list counts: %w", err)
	}
	return counts, nil
}
