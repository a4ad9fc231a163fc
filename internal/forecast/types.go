// internal/forecast/types.go
package forecast

import "time"

// WeatherSnapshot is an optional demand context supplied by the caller.
type WeatherSnapshot struct {
	TemperatureC    float64 `json:"temperature_c"`
	Humidity        float64 `json:"humidity"`
	PrecipitationMM float64 `json:"precipitation_mm"`
}

// LocalEvent describes a nearby event that may lift demand.
type LocalEvent struct {
	Date               time.Time `json:"date"`
	Type               string    `json:"type"`
	ExpectedAttendance float64   `json:"expected_attendance"`
	ProximityKm        float64   `json:"proximity_km"`
}

// ItemCorrelation links a correlated item's velocity trend to this item's
// demand, decayed by lead time.
type ItemCorrelation struct {
	ItemID        string  `json:"item_id"`
	Strength      float64 `json:"strength"` // -1..1
	LeadTimeHours float64 `json:"lead_time_hours"`
}

// FactorBreakdown records the individual multipliers that went into a
// forecast so callers can see why the number moved.
type FactorBreakdown struct {
	WeatherMultiplier     float64 `json:"weather_multiplier"`
	EventMultiplier       float64 `json:"event_multiplier"`
	SeasonalMultiplier    float64 `json:"seasonal_multiplier"`
	CorrelationMultiplier float64 `json:"correlation_multiplier"`
	HistoricalPattern     string  `json:"historical_pattern"`
}

// DemandForecast is the Demand Estimator output. It is recomputed on every
// call and never persisted.
type DemandForecast struct {
	ItemID              string          `json:"item_id"`
	ItemName            string          `json:"item_name"`
	HorizonHours        int             `json:"horizon_hours"`
	ForecastQuantity    float64         `json:"forecast_quantity"`
	Confidence          float64         `json:"confidence"`
	RecommendedParLevel float64         `json:"recommended_par_level"`
	SafetyStock         float64         `json:"safety_stock"`
	StockoutRisk        float64         `json:"stockout_risk"`
	Factors             FactorBreakdown `json:"factors"`
}

// WastePrediction is the Waste Estimator output.
type WastePrediction struct {
	ItemID              string    `json:"item_id"`
	ItemName            string    `json:"item_name"`
	PredictedWasteQty   float64   `json:"predicted_waste_qty"`
	PredictedWasteDate  time.Time `json:"predicted_waste_date"`
	Confidence          float64   `json:"confidence"`
	ContributingFactors []string  `json:"contributing_factors"`
	Mitigations         []string  `json:"mitigations"`
	CostImpact          float64   `json:"cost_impact"`
}

// VarianceClass classifies the direction of a variance.
type VarianceClass string

const (
	VarianceOverage  VarianceClass = "overage"
	VarianceShortage VarianceClass = "shortage"
	VarianceTolerant VarianceClass = "within_tolerance"
)

// Severity tiers a variance by how bad it is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// rank orders severities for worst-of comparisons.
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// Worse returns the higher of two severities.
func (s Severity) Worse(other Severity) Severity {
	if other.rank() > s.rank() {
		return other
	}
	return s
}

// VarianceResult is the per-item output of the Variance Analyzer.
type VarianceResult struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`

	TheoreticalQuantity float64 `json:"theoretical_quantity"`
	TheoreticalValue    float64 `json:"theoretical_value"`
	ActualQuantity      float64 `json:"actual_quantity"`
	ActualValue         float64 `json:"actual_value"`

	QuantityVariance        float64 `json:"quantity_variance"`
	QuantityVariancePercent float64 `json:"quantity_variance_percent"`
	ValueVariance           float64 `json:"value_variance"`
	ValueVariancePercent    float64 `json:"value_variance_percent"`

	Classification VarianceClass `json:"classification"`
	Severity       Severity      `json:"severity"`

	TheftProbability    float64 `json:"theft_probability"`
	PortionControlScore float64 `json:"portion_control_score"`
	SpoilageScore       float64 `json:"spoilage_score"`

	PossibleCauses  []string `json:"possible_causes"`
	Recommendations []string `json:"recommendations"`
	TrendDirection  string   `json:"trend_direction"`
}

// SkippedCount records a count row the report could not analyze.
type SkippedCount struct {
	CountID string `json:"count_id"`
	ItemID  string `json:"item_id"`
	Reason  string `json:"reason"`
}

// FullVarianceReport aggregates variance analyses over a count period.
type FullVarianceReport struct {
	ReportID    string    `json:"report_id"`
	ReportDate  time.Time `json:"report_date"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	TotalItems          int     `json:"total_items"`
	ItemsWithVariance   int     `json:"items_with_variance"`
	TotalValueVariance  float64 `json:"total_value_variance"`
	AverageVariancePct  float64 `json:"average_variance_percent"`

	Overages        []VarianceResult `json:"overages"`
	Shortages       []VarianceResult `json:"shortages"`
	WithinTolerance []VarianceResult `json:"within_tolerance"`

	SuspectedTheft       []VarianceResult `json:"suspected_theft"`
	PortionControlIssues []VarianceResult `json:"portion_control_issues"`
	SpoilageRelated      []VarianceResult `json:"spoilage_related"`

	ImmediateActions    []string `json:"immediate_actions"`
	ProcessImprovements []string `json:"process_improvements"`
	TrainingNeeds       []string `json:"training_needs"`

	Skipped []SkippedCount `json:"skipped,omitempty"`
}

// AllResults flattens the classification buckets, shortages first.
func (r *FullVarianceReport) AllResults() []VarianceResult {
	out := make([]VarianceResult, 0, r.TotalItems)
	out = append(out, r.Shortages...)
	out = append(out, r.Overages...)
	out = append(out, r.WithinTolerance...)
	return out
}

// OrderLine is one item on a generated truck order.
type OrderLine struct {
	ItemID              string    `json:"item_id"`
	ItemName            string    `json:"item_name"`
	Category            string    `json:"category"`
	Unit                string    `json:"unit"`
	CurrentStock        float64   `json:"current_stock"`
	ParLevel            float64   `json:"par_level"`
	RecommendedParLevel float64   `json:"recommended_par_level"`
	OrderQuantity       float64   `json:"order_quantity"`
	CostPerUnit         float64   `json:"cost_per_unit"`
	TotalCost           float64   `json:"total_cost"`
	SupplierID          string    `json:"supplier_id"`
	SupplierName        string    `json:"supplier_name"`
	PredictedDemand     float64   `json:"predicted_demand"`
	StockoutRisk        float64   `json:"stockout_risk"`
	ExpectedDelivery    time.Time `json:"expected_delivery"`
}

// SupplierSubtotal is a per-supplier cost rollup on a truck order.
type SupplierSubtotal struct {
	SupplierID string  `json:"supplier_id"`
	TotalCost  float64 `json:"total_cost"`
	ItemCount  int     `json:"item_count"`
}

// TruckOrder is the aggregated purchase order across all items below par.
type TruckOrder struct {
	OrderDate         time.Time          `json:"order_date"`
	Lines             []OrderLine        `json:"lines"`
	TotalCost         float64            `json:"total_cost"`
	TotalItems        int                `json:"total_items"`
	SupplierBreakdown []SupplierSubtotal `json:"supplier_breakdown"`
}
