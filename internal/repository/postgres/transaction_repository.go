// internal/repository/postgres/transaction_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/repository"
)

type TransactionRepository struct {
	db *DB
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) CreateTransaction(ctx context.Context, tx *domain.InventoryTransaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_transactions (id, item_id, type, quantity, reference, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		tx.ID, tx.ItemID, string(tx.Type), tx.Quantity, tx.Reference, tx.Timestamp)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

type transactionRow struct {
	ID        string    `db:"id"`
	ItemID    string    `db:"item_id"`
	Type      string    `db:"type"`
	Quantity  float64   `db:"quantity"`
	Reference string    `db:"reference"`
	Timestamp time.Time `db:"timestamp"`
}

func (r *TransactionRepository) GetTransactionsByItem(ctx context.Context, itemID string, start, end time.Time) ([]domain.InventoryTransaction, error) {
	var rows []transactionRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, item_id, type, COALESCE(reference, '') AS reference, quantity, timestamp
		FROM inventory_transactions
		WHERE item_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp`, itemID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]domain.InventoryTransaction, 0, len(rows))
	for _, row := range rows {
		typ, err := domain.ParseTransactionType(row.Type)
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		out = append(out, domain.InventoryTransaction{
			ID:        row.ID,
			ItemID:    row.ItemID,
			Type:      typ,
			Quantity:  row.Quantity,
			Reference: row.Reference,
			Timestamp: row.Timestamp,
		})
	}
	return out, nil
}
