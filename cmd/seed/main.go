package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Create the schema and seed the database with initial data",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Create database tables if they do not exist",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runSchema,
			},
			{
				Name:  "master",
				Usage: "Seed master data (suppliers and inventory items)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing master seed CSVs",
						Value:   "./data/seeds/master_data",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
				},
				Action: runMasterSeed,
			},
			{
				Name:  "sales",
				Usage: "Seed historical sales events from CSV exports",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "sales-dir",
						Usage:   "Directory containing sales history CSV files",
						Value:   "./data/seeds/sales_history",
						EnvVars: []string{"SALES_HISTORY_DIR"},
					},
				},
				Action: runSalesSeed,
			},
			{
				Name:  "all",
				Usage: "Create the schema and seed everything",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing master seed CSVs",
						Value:   "./data/seeds/master_data",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
					&cli.StringFlag{
						Name:    "sales-dir",
						Usage:   "Directory containing sales history CSV files",
						Value:   "./data/seeds/sales_history",
						EnvVars: []string{"SALES_HISTORY_DIR"},
					},
				},
				Action: func(c *cli.Context) error {
					if err := runSchema(c); err != nil {
						return fmt.Errorf("error creating schema: %w", err)
					}
					if err := runMasterSeed(c); err != nil {
						return fmt.Errorf("error running master seed: %w", err)
					}
					if err := runSalesSeed(c); err != nil {
						return fmt.Errorf("error running sales seed: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func runSchema(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Println("Creating schema...")
	if _, err := db.ExecContext(context.Background(), schemaDDL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	log.Println("Schema ready.")
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS suppliers (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	lead_time_days DOUBLE PRECISION NOT NULL DEFAULT 2
);

CREATE TABLE IF NOT EXISTS inventory_items (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	category      TEXT NOT NULL DEFAULT 'other',
	current_stock DOUBLE PRECISION NOT NULL DEFAULT 0,
	unit          TEXT NOT NULL DEFAULT 'unit',
	cost_per_unit DOUBLE PRECISION NOT NULL DEFAULT 0,
	par_level     DOUBLE PRECISION NOT NULL DEFAULT 0,
	supplier_id   TEXT REFERENCES suppliers(id),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sales_events (
	id           TEXT PRIMARY KEY,
	source       TEXT NOT NULL DEFAULT '',
	location_id  TEXT NOT NULL DEFAULT '',
	timestamp    TIMESTAMPTZ NOT NULL,
	gross_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	net_amount   DOUBLE PRECISION NOT NULL DEFAULT 0,
	tax_amount   DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sales_events_timestamp ON sales_events (timestamp);

CREATE TABLE IF NOT EXISTS sales_event_lines (
	event_id          TEXT NOT NULL REFERENCES sales_events(id) ON DELETE CASCADE,
	inventory_item_id TEXT,
	item_name         TEXT NOT NULL,
	quantity          DOUBLE PRECISION NOT NULL,
	unit_price        DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sales_event_lines_event ON sales_event_lines (event_id);

CREATE TABLE IF NOT EXISTS inventory_transactions (
	id        TEXT PRIMARY KEY,
	item_id   TEXT NOT NULL REFERENCES inventory_items(id),
	type      TEXT NOT NULL,
	quantity  DOUBLE PRECISION NOT NULL,
	reference TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_inventory_transactions_item_time ON inventory_transactions (item_id, timestamp);

CREATE TABLE IF NOT EXISTS inventory_counts (
	id           TEXT PRIMARY KEY,
	item_id      TEXT NOT NULL REFERENCES inventory_items(id),
	actual_count DOUBLE PRECISION NOT NULL,
	counted_by   TEXT NOT NULL DEFAULT '',
	counted_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_inventory_counts_counted_at ON inventory_counts (counted_at);
`
