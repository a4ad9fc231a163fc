// internal/export/csv.go
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dineiq/dineiq/internal/forecast"
)

// varianceHeader is the fixed column order downstream spreadsheets expect.
var varianceHeader = []string{
	"item_name",
	"category",
	"unit",
	"theoretical_qty",
	"actual_qty",
	"qty_variance",
	"qty_variance_pct",
	"value_variance",
	"value_variance_pct",
	"classification",
	"severity",
	"theft_probability",
	"portion_control_score",
	"spoilage_score",
	"possible_causes",
	"recommendations",
	"trend",
}

// RenderVarianceReportCSV serializes a variance report, shortages first,
// with a trailing total row. Money totals are accumulated as decimals so
// the summary row never picks up float drift.
func RenderVarianceReportCSV(report *forecast.FullVarianceReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(varianceHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	totalValue := decimal.Zero
	for _, r := range report.AllResults() {
		totalValue = totalValue.Add(decimal.NewFromFloat(r.ValueVariance))
		row := []string{
			r.ItemName,
			r.Category,
			r.Unit,
			formatQty(r.TheoreticalQuantity),
			formatQty(r.ActualQuantity),
			formatQty(r.QuantityVariance),
			formatPct(r.QuantityVariancePercent),
			formatMoney(r.ValueVariance),
			formatPct(r.ValueVariancePercent),
			string(r.Classification),
			string(r.Severity),
			formatScore(r.TheftProbability),
			formatScore(r.PortionControlScore),
			formatScore(r.SpoilageScore),
			strings.Join(r.PossibleCauses, "; "),
			strings.Join(r.Recommendations, "; "),
			r.TrendDirection,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	total := make([]string, len(varianceHeader))
	total[0] = "TOTAL"
	total[7] = totalValue.StringFixed(2)
	if err := w.Write(total); err != nil {
		return nil, fmt.Errorf("failed to write csv total row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var truckOrderHeader = []string{
	"item_name",
	"category",
	"unit",
	"current_stock",
	"par_level",
	"recommended_par",
	"order_quantity",
	"cost_per_unit",
	"total_cost",
	"supplier",
	"stockout_risk",
	"expected_delivery",
}

// RenderTruckOrderCSV serializes a truck order for the ordering desk.
func RenderTruckOrderCSV(order *forecast.TruckOrder) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(truckOrderHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	totalCost := decimal.Zero
	for _, line := range order.Lines {
		totalCost = totalCost.Add(decimal.NewFromFloat(line.TotalCost))
		row := []string{
			line.ItemName,
			line.Category,
			line.Unit,
			formatQty(line.CurrentStock),
			formatQty(line.ParLevel),
			formatQty(line.RecommendedParLevel),
			formatQty(line.OrderQuantity),
			formatMoney(line.CostPerUnit),
			formatMoney(line.TotalCost),
			line.SupplierName,
			formatScore(line.StockoutRisk),
			line.ExpectedDelivery.Format("2006-01-02"),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	total := make([]string, len(truckOrderHeader))
	total[0] = "TOTAL"
	total[8] = totalCost.StringFixed(2)
	if err := w.Write(total); err != nil {
		return nil, fmt.Errorf("failed to write csv total row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatQty(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
