// internal/repository/postgres/supplier_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/repository"
)

type SupplierRepository struct {
	db *DB
}

var _ repository.SupplierRepository = (*SupplierRepository)(nil)

func NewSupplierRepository(db *DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	var sup domain.Supplier
	err := r.db.GetContext(ctx, &sup, `
		SELECT id, name, lead_time_days FROM suppliers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("supplier %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &sup, nil
}
