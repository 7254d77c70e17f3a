// Package engine implements the carbon-credit formula:
//
//	credits = (baselineEF − actualEF) × distance × timeWeight × contextFactor
//
// clamped at zero and rounded to four decimal places. The engine owns all
// edge-case policy: the zero-distance short circuit, the work-from-home
// fixed award, occupancy allocation and the never-negative clamp.
//
// Computation is pure: the engine holds only read-only reference data, so
// concurrent calculations for different trips need no coordination.
package engine

import (
	"context"
	"math"

	"github.com/greencommute/creditengine/internal/config"
	"github.com/greencommute/creditengine/internal/emissions"
	"github.com/greencommute/creditengine/internal/logging"
	"github.com/greencommute/creditengine/internal/modifiers"
)

// creditPrecision is the rounding granularity of awarded credits, matching
// the persistence collaborator's four-decimal storage.
const creditPrecision = 1e4

// Engine computes credit awards from trip inputs.
type Engine struct {
	table             *emissions.Table
	resolver          *modifiers.Resolver
	wfhCredit         float64
	formulaConfidence float64
}

// New builds an engine over validated reference data.
func New(table *emissions.Table, resolver *modifiers.Resolver, credits config.CreditsConfig) *Engine {
	return &Engine{
		table:             table,
		resolver:          resolver,
		wfhCredit:         credits.WorkFromHome,
		formulaConfidence: credits.FormulaConfidence,
	}
}

// Compute calculates the credit award for one trip.
//
// It fails only for an unknown transport mode or an invalid occupancy
// count; missing or garbled context degrades to neutral multipliers. A
// negative emission difference — possible only through mis-ordered
// reference data, which configuration validation rejects at load time —
// is clamped to zero rather than propagated.
func (e *Engine) Compute(ctx context.Context, input TripCalculationInput) (CreditResult, error) {
	log := logging.FromContext(ctx)

	// Canonicalize once at the boundary: historical trip records carry
	// legacy mode aliases, and occupancy and zero-emission policy key off
	// the canonical mode. Results always report the canonical name.
	mode, err := emissions.ParseMode(string(input.Mode))
	if err != nil {
		return CreditResult{}, err
	}

	// Work-from-home has no distance, so the multiplicative formula is
	// undefined for it; a flat incentive applies instead.
	if mode == emissions.ModeWorkFromHome {
		return CreditResult{
			Mode:           mode,
			Region:         input.Context.Region,
			CreditsAwarded: round(e.wfhCredit),
			TimeWeight:     modifiers.Neutral,
			ContextFactor:  modifiers.Neutral,
			Method:         MethodFormula,
			Confidence:     e.formulaConfidence,
		}, nil
	}

	pair, err := e.allocateFactors(mode, input.Context.Region, input.OccupancyCount)
	if err != nil {
		return CreditResult{}, err
	}

	// Factors are resolved even for zero-distance trips so the breakdown
	// can still be rendered ("0 km × … = 0").
	timeWeight, contextFactor := e.resolver.Resolve(input.Context)

	savingsPerKm := pair.SavingsPerKm()
	credits := round(math.Max(0, savingsPerKm*input.DistanceKm*timeWeight*contextFactor))

	result := CreditResult{
		Mode:            mode,
		Region:          input.Context.Region,
		DistanceKm:      input.DistanceKm,
		CreditsAwarded:  credits,
		BaselineEF:      pair.Baseline,
		ActualEF:        pair.Actual,
		SavingsPerKm:    savingsPerKm,
		TimeWeight:      timeWeight,
		ContextFactor:   contextFactor,
		TripEmissionsKg: round(math.Max(0, pair.Actual*input.DistanceKm)),
		GrossSavingsKg:  round(math.Max(0, savingsPerKm*input.DistanceKm)),
		Method:          MethodFormula,
		Confidence:      e.formulaConfidence,
	}

	log.Debug().
		Str("component", "engine").
		Str("transport_mode", string(mode)).
		Float64("distance_km", input.DistanceKm).
		Float64("time_weight", timeWeight).
		Float64("context_factor", contextFactor).
		Float64("credits_awarded", credits).
		Msg("trip credits computed")

	return result, nil
}

// FormulaConfidence is the confidence reported on formula results.
func (e *Engine) FormulaConfidence() float64 { return e.formulaConfidence }

// Table exposes the factor table for read-only inspection (CLI listing,
// report rendering).
func (e *Engine) Table() *emissions.Table { return e.table }

// round rounds to four decimal places, half away from zero.
func round(v float64) float64 {
	return math.Round(v*creditPrecision) / creditPrecision
}
