// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/repository"
)

type SalesRepository struct {
	db *DB
}

var _ repository.SalesRepository = (*SalesRepository)(nil)

func NewSalesRepository(db *DB) *SalesRepository {
	return &SalesRepository{db: db}
}

// CreateSalesEvent persists the event header and its lines atomically.
func (r *SalesRepository) CreateSalesEvent(ctx context.Context, event *domain.SalesEvent) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sales_events (id, source, location_id, timestamp, gross_amount, net_amount, tax_amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			event.ID, event.Source, event.LocationID, event.Timestamp,
			event.GrossAmount, event.NetAmount, event.TaxAmount)
		if err != nil {
			return fmt.Errorf("insert sales event: %w", err)
		}

		for _, line := range event.Lines {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO sales_event_lines (event_id, inventory_item_id, item_name, quantity, unit_price)
				VALUES ($1, NULLIF($2, ''), $3, $4, $5)`,
				event.ID, line.InventoryItemID, line.ItemName, line.Quantity, line.UnitPrice)
			if err != nil {
				return fmt.Errorf("insert sales event line: %w", err)
			}
		}
		return nil
	})
}

type salesEventRow struct {
	ID          string    `db:"id"`
	Source      string    `db:"source"`
	LocationID  string    `db:"location_id"`
	Timestamp   time.Time `db:"timestamp"`
	GrossAmount float64   `db:"gross_amount"`
	NetAmount   float64   `db:"net_amount"`
	TaxAmount   float64   `db:"tax_amount"`
}

type salesLineRow struct {
	EventID         string         `db:"event_id"`
	InventoryItemID sql.NullString `db:"inventory_item_id"`
	ItemName        string         `db:"item_name"`
	Quantity        float64        `db:"quantity"`
	UnitPrice       float64        `db:"unit_price"`
}

// GetSalesEventsByDateRange loads events with their lines, oldest first.
// limit bounds the number of events so a long lookback cannot load the
// whole history into memory; 0 means no limit.
func (r *SalesRepository) GetSalesEventsByDateRange(ctx context.Context, start, end time.Time, limit int) ([]*domain.SalesEvent, error) {
	query := `
		SELECT id, source, location_id, timestamp, gross_amount, net_amount, tax_amount
		FROM sales_events
		WHERE timestamp >= $1 AND timestamp <= $2
		ORDER BY timestamp`
	args := []any{start, end}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	var rows []salesEventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sales events: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	events := make([]*domain.SalesEvent, 0, len(rows))
	byID := make(map[string]*domain.SalesEvent, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ev := &domain.SalesEvent{
			ID:          row.ID,
			Source:      row.Source,
			LocationID:  row.LocationID,
			Timestamp:   row.Timestamp,
			GrossAmount: row.GrossAmount,
			NetAmount:   row.NetAmount,
			TaxAmount:   row.TaxAmount,
		}
		events = append(events, ev)
		byID[ev.ID] = ev
		ids = append(ids, ev.ID)
	}

	lineQuery, lineArgs, err := preparedInQuery(`
		SELECT event_id, inventory_item_id, item_name, quantity, unit_price
		FROM sales_event_lines
		WHERE event_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list sales event lines: %w", err)
	}

	var lines []salesLineRow
	if err := r.db.SelectContext(ctx, &lines, lineQuery, lineArgs...); err != nil {
		return nil, fmt.Errorf("list sales event lines: %w", err)
	}
	for _, line := range lines {
		if ev, ok := byID[line.EventID]; ok {
			ev.Lines = append(ev.Lines, domain.SaleLine{
				InventoryItemID: line.InventoryItemID.String,
				ItemName:        line.ItemName,
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
			})
		}
	}
	return events, nil
}
