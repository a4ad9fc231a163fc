package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// runSalesSeed loads historical POS exports so the estimators have a
// lookback window on day one. Each CSV row is one sold line item; rows
// sharing a ticket_id are grouped into one sales event.
func runSalesSeed(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	salesDir := c.String("sales-dir")
	ctx := context.Background()

	entries, err := os.ReadDir(salesDir)
	if err != nil {
		return fmt.Errorf("failed to read sales directory %s: %w", salesDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		path := filepath.Join(salesDir, entry.Name())
		if err := seedSalesFile(ctx, db, path); err != nil {
			return fmt.Errorf("failed to seed %s: %w", entry.Name(), err)
		}
	}

	log.Println("Sales history seeding completed successfully!")
	return nil
}

func seedSalesFile(ctx context.Context, db *sql.DB, filePath string) error {
	log.Printf("Seeding sales history from %s\n", filePath)

	rows, header, err := openCSV(filePath)
	if err != nil {
		return err
	}
	defer rows.close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// ticket_id -> generated event id, so multi-line tickets share one event
	eventIDs := make(map[string]string)
	lines := 0

	for {
		record, err := rows.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		ticketID := field(record, header, "ticket_id")
		ts, err := time.Parse(time.RFC3339, field(record, header, "timestamp"))
		if err != nil {
			return fmt.Errorf("invalid timestamp on ticket %s: %w", ticketID, err)
		}

		eventID, seen := eventIDs[ticketID]
		if !seen {
			eventID = uuid.New().String()
			eventIDs[ticketID] = eventID

			_, err = tx.ExecContext(ctx, `
				INSERT INTO sales_events (id, source, location_id, timestamp, gross_amount, net_amount, tax_amount)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				eventID,
				field(record, header, "source"),
				field(record, header, "location_id"),
				ts,
				parseFloatField(record, header, "gross_amount", 0),
				parseFloatField(record, header, "net_amount", 0),
				parseFloatField(record, header, "tax_amount", 0),
			)
			if err != nil {
				return fmt.Errorf("failed to insert sales event: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO sales_event_lines (event_id, inventory_item_id, item_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			eventID,
			nullIfEmpty(field(record, header, "inventory_item_id")),
			field(record, header, "item_name"),
			parseFloatField(record, header, "quantity", 0),
			parseFloatField(record, header, "unit_price", 0),
		)
		if err != nil {
			return fmt.Errorf("failed to insert sales line: %w", err)
		}
		lines++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Successfully seeded %d sales lines across %d events\n", lines, len(eventIDs))
	return nil
}
