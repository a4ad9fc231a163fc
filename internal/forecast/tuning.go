// internal/forecast/tuning.go
package forecast

import (
	"github.com/dineiq/dineiq/internal/config"
	"github.com/dineiq/dineiq/internal/domain"
)

// SpoilageProfile models how fast a category of stock degrades.
type SpoilageProfile struct {
	BaseShelfLifeHours     float64
	TemperatureSensitivity float64
	HumidityImpact         float64
	DegradationRate        float64
}

// WeatherSensitivity captures how a category's demand reacts to heat, cold
// and rain. Values are fractional adjustments, negative meaning demand drops.
type WeatherSensitivity struct {
	Heat float64
	Cold float64
	Rain float64
}

// Tuning bundles every estimator knob. The numeric defaults were inherited
// from the operations team without a documented derivation; they are kept as
// configuration so they can be adjusted without code changes.
type Tuning struct {
	DefaultHorizonHours int
	MaxHorizonHours     int
	LookbackDays        int
	MaxHistoryEvents    int

	WeatherWeight     float64
	EventWeight       float64
	SeasonalWeight    float64
	CorrelationWeight float64

	WeatherMultiplierMin float64
	WeatherMultiplierMax float64
	EventMultiplierMin   float64
	EventMultiplierMax   float64
	CorrMultiplierMin    float64
	CorrMultiplierMax    float64

	DefaultLeadTimeDays float64
	SafetyBufferRatio   float64
	SpoilCeilingPerDay  float64

	VarianceLowPct      float64
	VarianceMediumPct   float64
	VarianceHighPct     float64
	VarianceCriticalPct float64
	ValueMediumUSD      float64
	ValueHighUSD        float64
	ValueCriticalUSD    float64

	TheftCutoff   float64
	PortionCutoff float64
	SpoilCutoff   float64

	Spoilage           map[domain.Category]SpoilageProfile
	WeatherSensitivity map[domain.Category]WeatherSensitivity
}

// DefaultTuning returns the production defaults.
func DefaultTuning() Tuning {
	return Tuning{
		DefaultHorizonHours: 24,
		MaxHorizonHours:     168,
		LookbackDays:        30,
		MaxHistoryEvents:    50000,

		WeatherWeight:     0.4,
		EventWeight:       0.3,
		SeasonalWeight:    0.2,
		CorrelationWeight: 0.1,

		WeatherMultiplierMin: 0.5,
		WeatherMultiplierMax: 2.0,
		EventMultiplierMin:   0.8,
		EventMultiplierMax:   3.0,
		CorrMultiplierMin:    0.5,
		CorrMultiplierMax:    2.0,

		DefaultLeadTimeDays: 1.5,
		SafetyBufferRatio:   0.2,
		SpoilCeilingPerDay:  10,

		VarianceLowPct:      2,
		VarianceMediumPct:   5,
		VarianceHighPct:     10,
		VarianceCriticalPct: 20,
		ValueMediumUSD:      100,
		ValueHighUSD:        500,
		ValueCriticalUSD:    1000,

		TheftCutoff:   0.7,
		PortionCutoff: 0.6,
		SpoilCutoff:   0.5,

		Spoilage: map[domain.Category]SpoilageProfile{
			domain.CategoryDairy:      {BaseShelfLifeHours: 168, TemperatureSensitivity: 0.8, HumidityImpact: 0.3, DegradationRate: 0.15},
			domain.CategoryVegetables: {BaseShelfLifeHours: 120, TemperatureSensitivity: 0.6, HumidityImpact: 0.7, DegradationRate: 0.25},
			domain.CategoryProtein:    {BaseShelfLifeHours: 72, TemperatureSensitivity: 0.9, HumidityImpact: 0.2, DegradationRate: 0.35},
			domain.CategoryGrains:     {BaseShelfLifeHours: 2160, TemperatureSensitivity: 0.1, HumidityImpact: 0.8, DegradationRate: 0.05},
			domain.CategoryOther:      {BaseShelfLifeHours: 720, TemperatureSensitivity: 0.3, HumidityImpact: 0.4, DegradationRate: 0.10},
		},
		WeatherSensitivity: map[domain.Category]WeatherSensitivity{
			domain.CategoryDairy:      {Heat: -0.3, Cold: 0.1, Rain: 0.05},
			domain.CategoryVegetables: {Heat: -0.2, Cold: 0.05, Rain: -0.1},
			domain.CategoryProtein:    {Heat: 0.2, Cold: -0.1, Rain: 0.1},
			domain.CategoryGrains:     {},
			domain.CategoryOther:      {},
		},
	}
}

// TuningFromConfig overlays the environment-derived knobs onto the defaults.
func TuningFromConfig(fc config.ForecastConfig) Tuning {
	t := DefaultTuning()
	if fc.DefaultHorizonHours > 0 {
		t.DefaultHorizonHours = fc.DefaultHorizonHours
	}
	if fc.MaxHorizonHours > 0 {
		t.MaxHorizonHours = fc.MaxHorizonHours
	}
	if fc.LookbackDays > 0 {
		t.LookbackDays = fc.LookbackDays
	}
	if fc.MaxHistoryEvents > 0 {
		t.MaxHistoryEvents = fc.MaxHistoryEvents
	}
	if fc.WeatherWeight+fc.EventWeight+fc.SeasonalWeight+fc.CorrelationWeight > 0 {
		t.WeatherWeight = fc.WeatherWeight
		t.EventWeight = fc.EventWeight
		t.SeasonalWeight = fc.SeasonalWeight
		t.CorrelationWeight = fc.CorrelationWeight
	}
	if fc.VarianceLowPct > 0 {
		t.VarianceLowPct = fc.VarianceLowPct
	}
	if fc.VarianceMediumPct > 0 {
		t.VarianceMediumPct = fc.VarianceMediumPct
	}
	if fc.VarianceHighPct > 0 {
		t.VarianceHighPct = fc.VarianceHighPct
	}
	if fc.VarianceCriticalPct > 0 {
		t.VarianceCriticalPct = fc.VarianceCriticalPct
	}
	if fc.ValueMediumUSD > 0 {
		t.ValueMediumUSD = fc.ValueMediumUSD
	}
	if fc.ValueHighUSD > 0 {
		t.ValueHighUSD = fc.ValueHighUSD
	}
	if fc.ValueCriticalUSD > 0 {
		t.ValueCriticalUSD = fc.ValueCriticalUSD
	}
	if fc.TheftCutoff > 0 {
		t.TheftCutoff = fc.TheftCutoff
	}
	if fc.PortionCutoff > 0 {
		t.PortionCutoff = fc.PortionCutoff
	}
	if fc.SpoilCutoff > 0 {
		t.SpoilCutoff = fc.SpoilCutoff
	}
	return t
}

// SpoilageFor returns the spoilage profile for a category, falling back to
// the default profile.
func (t Tuning) SpoilageFor(cat domain.Category) SpoilageProfile {
	if p, ok := t.Spoilage[cat]; ok {
		return p
	}
	return t.Spoilage[domain.CategoryOther]
}

// WeatherSensitivityFor returns the weather sensitivity for a category.
func (t Tuning) WeatherSensitivityFor(cat domain.Category) WeatherSensitivity {
	if s, ok := t.WeatherSensitivity[cat]; ok {
		return s
	}
	return WeatherSensitivity{}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampHorizon normalizes a requested horizon to [1, MaxHorizonHours],
// substituting the default for non-positive values.
func (t Tuning) clampHorizon(hours int) int {
	if hours <= 0 {
		return t.DefaultHorizonHours
	}
	if hours > t.MaxHorizonHours {
		return t.MaxHorizonHours
	}
	return hours
}
