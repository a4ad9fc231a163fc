package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/dineiq/dineiq/internal/forecast"
)

func TestRenderVarianceReportCSV(t *testing.T) {
	report := &forecast.FullVarianceReport{
		ReportID:   "r-1",
		TotalItems: 2,
		Shortages: []forecast.VarianceResult{
			{
				ItemName:                "ribeye",
				Category:                "protein",
				Unit:                    "kg",
				TheoreticalQuantity:     100,
				ActualQuantity:          70,
				QuantityVariance:        -30,
				QuantityVariancePercent: -30,
				ValueVariance:           -450,
				ValueVariancePercent:    -30,
				Classification:          forecast.VarianceShortage,
				Severity:                forecast.SeverityCritical,
				TheftProbability:        0.9,
				PossibleCauses:          []string{"potential theft or unauthorized usage", "over-portioning in kitchen"},
				Recommendations:         []string{"conduct immediate investigation"},
				TrendDirection:          "stable",
			},
		},
		WithinTolerance: []forecast.VarianceResult{
			{
				ItemName:            "lettuce",
				Category:            "vegetables",
				Unit:                "kg",
				TheoreticalQuantity: 50,
				ActualQuantity:      50,
				Classification:      forecast.VarianceTolerant,
				Severity:            forecast.SeverityLow,
				TrendDirection:      "stable",
			},
		},
	}

	data, err := RenderVarianceReportCSV(report)
	if err != nil {
		t.Fatalf("RenderVarianceReportCSV returned error: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}

	// Header, two item rows, total row.
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	if rows[0][0] != "item_name" || rows[0][9] != "classification" {
		t.Errorf("Unexpected header: %v", rows[0])
	}

	// Shortages render before within-tolerance rows.
	if rows[1][0] != "ribeye" {
		t.Errorf("Expected ribeye first, got %q", rows[1][0])
	}
	if rows[1][10] != "critical" {
		t.Errorf("Expected critical severity, got %q", rows[1][10])
	}
	if rows[1][14] != "potential theft or unauthorized usage; over-portioning in kitchen" {
		t.Errorf("Unexpected causes cell: %q", rows[1][14])
	}
	if rows[2][0] != "lettuce" {
		t.Errorf("Expected lettuce second, got %q", rows[2][0])
	}

	total := rows[3]
	if total[0] != "TOTAL" {
		t.Errorf("Expected TOTAL marker, got %q", total[0])
	}
	if total[7] != "-450.00" {
		t.Errorf("Expected total value variance -450.00, got %q", total[7])
	}
}

func TestRenderTruckOrderCSV(t *testing.T) {
	order := &forecast.TruckOrder{
		OrderDate:  time.Date(2025, 6, 16, 6, 0, 0, 0, time.UTC),
		TotalItems: 2,
		Lines: []forecast.OrderLine{
			{
				ItemName:         "potatoes",
				Category:         "other",
				Unit:             "kg",
				CurrentStock:     10,
				ParLevel:         25,
				OrderQuantity:    18,
				CostPerUnit:      0.4,
				TotalCost:        7.2,
				SupplierName:     "Valley Farms",
				StockoutRisk:     0.9,
				ExpectedDelivery: time.Date(2025, 6, 17, 6, 0, 0, 0, time.UTC),
			},
			{
				ItemName:         "milk",
				Category:         "dairy",
				Unit:             "l",
				CurrentStock:     4,
				ParLevel:         12,
				OrderQuantity:    9,
				CostPerUnit:      1.1,
				TotalCost:        9.9,
				SupplierName:     "Valley Farms",
				StockoutRisk:     0.7,
				ExpectedDelivery: time.Date(2025, 6, 18, 6, 0, 0, 0, time.UTC),
			},
		},
		TotalCost: 17.1,
	}

	data, err := RenderTruckOrderCSV(order)
	if err != nil {
		t.Fatalf("RenderTruckOrderCSV returned error: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	if rows[1][0] != "potatoes" || rows[1][11] != "2025-06-17" {
		t.Errorf("Unexpected first line: %v", rows[1])
	}

	// The decimal total avoids the 7.2+9.9 float artifact.
	if rows[3][8] != "17.10" {
		t.Errorf("Expected total 17.10, got %q", rows[3][8])
	}
}

func TestRenderVarianceReportCSV_EmptyReport(t *testing.T) {
	data, err := RenderVarianceReportCSV(&forecast.FullVarianceReport{})
	if err != nil {
		t.Fatalf("RenderVarianceReportCSV returned error: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected header and total row only, got %d rows", len(rows))
	}
	if rows[1][7] != "0.00" {
		t.Errorf("Expected zero total, got %q", rows[1][7])
	}
}
