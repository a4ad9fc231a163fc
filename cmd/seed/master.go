package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// runMasterSeed loads suppliers.csv and inventory_items.csv inside one
// transaction so a half-seeded catalog never lands.
func runMasterSeed(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	dataDir := c.String("data-dir")
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Println("Starting master data seeding...")

	if err := seedSuppliers(ctx, tx, filepath.Join(dataDir, "suppliers.csv")); err != nil {
		return fmt.Errorf("failed to seed suppliers: %w", err)
	}
	if err := seedInventoryItems(ctx, tx, filepath.Join(dataDir, "inventory_items.csv")); err != nil {
		return fmt.Errorf("failed to seed inventory items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Master data seeding completed successfully!")
	return nil
}

func seedSuppliers(ctx context.Context, tx *sql.Tx, filePath string) error {
	log.Printf("Seeding suppliers from %s\n", filePath)

	rows, header, err := openCSV(filePath)
	if err != nil {
		return err
	}
	defer rows.close()

	query := `
		INSERT INTO suppliers (id, name, lead_time_days)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, lead_time_days = EXCLUDED.lead_time_days`

	count := 0
	for {
		record, err := rows.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		leadDays := parseFloatField(record, header, "lead_time_days", 2)
		_, err = tx.ExecContext(ctx, query,
			field(record, header, "id"),
			field(record, header, "name"),
			leadDays,
		)
		if err != nil {
			return fmt.Errorf("failed to insert supplier: %w", err)
		}
		count++
	}

	log.Printf("Successfully seeded %d suppliers\n", count)
	return nil
}

func seedInventoryItems(ctx context.Context, tx *sql.Tx, filePath string) error {
	log.Printf("Seeding inventory items from %s\n", filePath)

	rows, header, err := openCSV(filePath)
	if err != nil {
		return err
	}
	defer rows.close()

	query := `
		INSERT INTO inventory_items (id, name, category, current_stock, unit, cost_per_unit, par_level, supplier_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			current_stock = EXCLUDED.current_stock,
			unit = EXCLUDED.unit,
			cost_per_unit = EXCLUDED.cost_per_unit,
			par_level = EXCLUDED.par_level,
			supplier_id = EXCLUDED.supplier_id,
			updated_at = EXCLUDED.updated_at`

	count := 0
	for {
		record, err := rows.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		_, err = tx.ExecContext(ctx, query,
			field(record, header, "id"),
			field(record, header, "name"),
			normalizeCategory(field(record, header, "category")),
			parseFloatField(record, header, "current_stock", 0),
			field(record, header, "unit"),
			parseFloatField(record, header, "cost_per_unit", 0),
			parseFloatField(record, header, "par_level", 0),
			nullIfEmpty(field(record, header, "supplier_id")),
			time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert inventory item: %w", err)
		}
		count++
	}

	log.Printf("Successfully seeded %d inventory items\n", count)
	return nil
}

func normalizeCategory(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "protein", "vegetables", "grains", "dairy":
		return strings.ToLower(strings.TrimSpace(s))
	default:
		return "other"
	}
}

// csvRows pairs a csv.Reader with its backing file handle.
type csvRows struct {
	file   *os.File
	reader *csv.Reader
}

func (r *csvRows) read() ([]string, error) { return r.reader.Read() }
func (r *csvRows) close()                  { r.file.Close() }

func openCSV(filePath string) (*csvRows, map[string]int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}

	reader := csv.NewReader(file)
	headerRow, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return &csvRows{file: file, reader: reader}, header, nil
}

func field(record []string, header map[string]int, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseFloatField(record []string, header map[string]int, name string, fallback float64) float64 {
	raw := field(record, header, name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
