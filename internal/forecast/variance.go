// internal/forecast/variance.go
package forecast

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/repository"
)

// VarianceAnalyzer compares theoretical inventory, computed by replaying
// transactions, against physical counts and classifies the discrepancies.
type VarianceAnalyzer struct {
	inventory    repository.InventoryRepository
	transactions repository.TransactionRepository
	tuning       Tuning

	now func() time.Time
}

// NewVarianceAnalyzer wires a variance analyzer against storage.
func NewVarianceAnalyzer(inventory repository.InventoryRepository, transactions repository.TransactionRepository, tuning Tuning) *VarianceAnalyzer {
	return &VarianceAnalyzer{
		inventory:    inventory,
		transactions: transactions,
		tuning:       tuning,
		now:          time.Now,
	}
}

// TheoreticalQuantity replays the item's transactions chronologically within
// the window, starting from current stock. The result is clamped at zero.
func (a *VarianceAnalyzer) TheoreticalQuantity(item *domain.InventoryItem, txs []domain.InventoryTransaction, start, end time.Time) float64 {
	inWindow := make([]domain.InventoryTransaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Timestamp.Before(start) && !tx.Timestamp.After(end) {
			inWindow = append(inWindow, tx)
		}
	}
	sort.Slice(inWindow, func(i, j int) bool {
		return inWindow[i].Timestamp.Before(inWindow[j].Timestamp)
	})

	qty := item.CurrentStock
	for _, tx := range inWindow {
		qty += tx.SignedQuantity()
	}
	return math.Max(0, qty)
}

// AnalyzeVariance scores one count row against the theoretical level over
// the given period.
func (a *VarianceAnalyzer) AnalyzeVariance(ctx context.Context, item *domain.InventoryItem, count *domain.InventoryCount, start, end time.Time) (*VarianceResult, error) {
	txs, err := a.transactions.GetTransactionsByItem(ctx, item.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("analyze variance: load transactions: %w", err)
	}

	theoreticalQty := a.TheoreticalQuantity(item, txs, start, end)
	theoreticalValue := math.Max(0, theoreticalQty*item.CostPerUnit)
	actualQty := count.ActualCount
	actualValue := actualQty * item.CostPerUnit

	qtyVariance := actualQty - theoreticalQty
	qtyVariancePct := 0.0
	if theoreticalQty > 0 {
		qtyVariancePct = qtyVariance / theoreticalQty * 100
	}
	valueVariance := actualValue - theoreticalValue
	valueVariancePct := 0.0
	if theoreticalValue > 0 {
		valueVariancePct = valueVariance / theoreticalValue * 100
	}

	class := a.classify(qtyVariancePct)
	severity := a.severity(qtyVariancePct, valueVariance)
	causes := possibleCauses(item, qtyVariancePct)

	return &VarianceResult{
		ItemID:                  item.ID,
		ItemName:                item.Name,
		Category:                string(item.Category),
		Unit:                    item.Unit,
		TheoreticalQuantity:     theoreticalQty,
		TheoreticalValue:        theoreticalValue,
		ActualQuantity:          actualQty,
		ActualValue:             actualValue,
		QuantityVariance:        qtyVariance,
		QuantityVariancePercent: qtyVariancePct,
		ValueVariance:           valueVariance,
		ValueVariancePercent:    valueVariancePct,
		Classification:          class,
		Severity:                severity,
		TheftProbability:        theftProbability(item, qtyVariancePct, actualValue),
		PortionControlScore:     portionControlScore(item, qtyVariancePct),
		SpoilageScore:           spoilageScore(item, qtyVariancePct),
		PossibleCauses:          causes,
		Recommendations:         recommendationsFor(class, severity, causes),
		TrendDirection:          "stable",
	}, nil
}

// GenerateVarianceReport analyzes every count row in the period. Counts
// whose item cannot be resolved go to the Skipped list instead of failing
// the batch.
func (a *VarianceAnalyzer) GenerateVarianceReport(ctx context.Context, start, end time.Time, counts []*domain.InventoryCount) (*FullVarianceReport, error) {
	report := &FullVarianceReport{
		ReportID:    uuid.NewString(),
		ReportDate:  a.now(),
		PeriodStart: start,
		PeriodEnd:   end,
	}

	var results []VarianceResult
	for _, count := range counts {
		item, err := a.inventory.GetInventoryItem(ctx, count.ItemID)
		if err != nil {
			if domain.IsNotFound(err) {
				log.Warn().Str("count_id", count.ID).Str("item_id", count.ItemID).Msg("skipping count: item not found")
				report.Skipped = append(report.Skipped, SkippedCount{
					CountID: count.ID,
					ItemID:  count.ItemID,
					Reason:  "inventory item not found",
				})
				continue
			}
			return nil, fmt.Errorf("variance report: %w", err)
		}

		result, err := a.AnalyzeVariance(ctx, item, count, start, end)
		if err != nil {
			log.Warn().Err(err).Str("item_id", item.ID).Msg("skipping count: analysis failed")
			report.Skipped = append(report.Skipped, SkippedCount{
				CountID: count.ID,
				ItemID:  count.ItemID,
				Reason:  err.Error(),
			})
			continue
		}
		results = append(results, *result)
	}

	var totalAbsValue, totalAbsPct float64
	for _, r := range results {
		switch r.Classification {
		case VarianceOverage:
			report.Overages = append(report.Overages, r)
		case VarianceShortage:
			report.Shortages = append(report.Shortages, r)
		default:
			report.WithinTolerance = append(report.WithinTolerance, r)
		}

		if r.TheftProbability > a.tuning.TheftCutoff {
			report.SuspectedTheft = append(report.SuspectedTheft, r)
		}
		if r.PortionControlScore > a.tuning.PortionCutoff {
			report.PortionControlIssues = append(report.PortionControlIssues, r)
		}
		if r.SpoilageScore > a.tuning.SpoilCutoff {
			report.SpoilageRelated = append(report.SpoilageRelated, r)
		}

		totalAbsValue += math.Abs(r.ValueVariance)
		totalAbsPct += math.Abs(r.QuantityVariancePercent)
	}

	report.TotalItems = len(results)
	report.ItemsWithVariance = len(report.Overages) + len(report.Shortages)
	report.TotalValueVariance = totalAbsValue
	if len(results) > 0 {
		report.AverageVariancePct = totalAbsPct / float64(len(results))
	}

	a.reportRecommendations(report, results)
	return report, nil
}

func (a *VarianceAnalyzer) classify(variancePct float64) VarianceClass {
	if math.Abs(variancePct) <= a.tuning.VarianceLowPct {
		return VarianceTolerant
	}
	if variancePct > 0 {
		return VarianceOverage
	}
	return VarianceShortage
}

// severity takes the worse of the percent tier and the dollar tier, so it is
// monotonic in |variancePct| for a fixed value variance.
func (a *VarianceAnalyzer) severity(variancePct, valueVariance float64) Severity {
	absPct := math.Abs(variancePct)
	absValue := math.Abs(valueVariance)

	pctTier := SeverityLow
	switch {
	case absPct >= a.tuning.VarianceCriticalPct:
		pctTier = SeverityCritical
	case absPct >= a.tuning.VarianceHighPct:
		pctTier = SeverityHigh
	case absPct >= a.tuning.VarianceMediumPct:
		pctTier = SeverityMedium
	}

	valueTier := SeverityLow
	switch {
	case absValue > a.tuning.ValueCriticalUSD:
		valueTier = SeverityCritical
	case absValue > a.tuning.ValueHighUSD:
		valueTier = SeverityHigh
	case absValue > a.tuning.ValueMediumUSD:
		valueTier = SeverityMedium
	}

	return pctTier.Worse(valueTier)
}

// The scoring formulas below are additive rules of thumb. Calibration
// against confirmed loss incidents is an open item; only the ranking
// direction (more negative variance, higher score) should be relied on.

func theftProbability(item *domain.InventoryItem, variancePct, actualValue float64) float64 {
	var score float64
	if variancePct < 0 && actualValue > 100 {
		score += 0.3
	}
	if variancePct < -15 {
		score += 0.4
	}
	if item.Category == domain.CategoryProtein {
		score += 0.2
	}
	return math.Min(1.0, score)
}

func portionControlScore(item *domain.InventoryItem, variancePct float64) float64 {
	var score float64
	if item.Category == domain.CategoryProtein && math.Abs(variancePct) > 10 {
		score += 0.5
	}
	if math.Abs(variancePct) > 8 {
		score += 0.3
	}
	return math.Min(1.0, score)
}

func spoilageScore(item *domain.InventoryItem, variancePct float64) float64 {
	var score float64
	switch item.Category {
	case domain.CategoryDairy, domain.CategoryVegetables, domain.CategoryProtein:
		score += 0.3
	}
	if variancePct < 0 {
		score += 0.2
	}
	return math.Min(1.0, score)
}

func possibleCauses(item *domain.InventoryItem, variancePct float64) []string {
	var causes []string
	if variancePct < -15 {
		causes = append(causes,
			"potential theft or unauthorized usage",
			"over-portioning in kitchen",
			"unrecorded waste or spoilage")
	} else if variancePct > 15 {
		causes = append(causes,
			"under-portioning in recipes",
			"unrecorded returns or credits",
			"counting errors")
	}
	if item.Category == domain.CategoryProtein && math.Abs(variancePct) > 10 {
		causes = append(causes, "portion control issues with high-value protein")
	}
	return causes
}

func recommendationsFor(class VarianceClass, severity Severity, causes []string) []string {
	var recs []string
	if severity == SeverityCritical || severity == SeverityHigh {
		recs = append(recs, "conduct immediate investigation", "count this item daily")
	}
	for _, c := range causes {
		if c == "potential theft or unauthorized usage" {
			recs = append(recs, "review security cameras and access logs", "run portion control training")
			break
		}
	}
	if class == VarianceShortage {
		recs = append(recs, "increase inventory monitoring frequency")
	}
	return recs
}

func (a *VarianceAnalyzer) reportRecommendations(report *FullVarianceReport, results []VarianceResult) {
	var critical int
	for _, r := range results {
		if r.Severity == SeverityCritical {
			critical++
		}
	}
	if critical > 0 {
		report.ImmediateActions = append(report.ImmediateActions,
			fmt.Sprintf("investigate %d critical variance items immediately", critical))
	}
	if len(report.SuspectedTheft) > 0 {
		report.ImmediateActions = append(report.ImmediateActions, "review security protocols and access controls")
		report.ProcessImprovements = append(report.ProcessImprovements, "add inventory security measures")
	}
	if len(report.PortionControlIssues) > 0 {
		report.TrainingNeeds = append(report.TrainingNeeds, "kitchen staff portion control training")
		report.ProcessImprovements = append(report.ProcessImprovements, "install portion scales and measuring tools")
	}
}
