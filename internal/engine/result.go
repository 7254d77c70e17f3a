package engine

import (
	"time"

	"github.com/greencommute/creditengine/internal/emissions"
)

// CalculationMethod records which estimator produced a credit value.
type CalculationMethod string

const (
	// MethodFormula marks results from the deterministic formula, the
	// system of record.
	MethodFormula CalculationMethod = "formula"

	// MethodMLPrediction marks results from the learned predictor.
	MethodMLPrediction CalculationMethod = "ml_prediction"
)

// CreditResult is the outcome of one trip calculation. The intermediate
// terms are carried alongside the final number so a report or dispute
// review can render the full breakdown; that traceability is part of the
// contract, not a debugging aid.
//
// Results are write-once: the persistence collaborator stores them as-is
// and a recalculation produces a new result rather than an update.
type CreditResult struct {
	// ID identifies this calculation. Stamped by the coordinator; two
	// calculations of the same trip get distinct IDs.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	Mode       emissions.TransportMode `json:"transport_mode" yaml:"transport_mode"`
	Region     emissions.Region        `json:"region,omitempty" yaml:"region,omitempty"`
	DistanceKm float64                 `json:"distance_km" yaml:"distance_km"`

	// CreditsAwarded is the credit value in kg CO₂e saved. Never negative.
	CreditsAwarded float64 `json:"credits_awarded" yaml:"credits_awarded"`

	// BaselineEF and ActualEF are the factors the formula used, after
	// occupancy allocation. SavingsPerKm is their difference.
	BaselineEF   float64 `json:"baseline_ef" yaml:"baseline_ef"`
	ActualEF     float64 `json:"actual_ef" yaml:"actual_ef"`
	SavingsPerKm float64 `json:"emission_savings_per_km" yaml:"emission_savings_per_km"`

	// TimeWeight and ContextFactor are the resolved multiplier terms.
	TimeWeight    float64 `json:"time_weight" yaml:"time_weight"`
	ContextFactor float64 `json:"context_factor" yaml:"context_factor"`

	// TripEmissionsKg is what the trip actually emitted; GrossSavingsKg
	// is the unweighted saving against baseline. Reported for auditing.
	TripEmissionsKg float64 `json:"trip_emissions_kg" yaml:"trip_emissions_kg"`
	GrossSavingsKg  float64 `json:"gross_savings_kg" yaml:"gross_savings_kg"`

	Method     CalculationMethod `json:"method" yaml:"method"`
	Confidence float64           `json:"confidence" yaml:"confidence"`

	// ModelVersion identifies the predictor artifact for ML results.
	ModelVersion string `json:"model_version,omitempty" yaml:"model_version,omitempty"`

	// CalculatedAt is stamped by the coordinator alongside ID.
	CalculatedAt time.Time `json:"calculated_at,omitempty" yaml:"calculated_at,omitempty"`
}
