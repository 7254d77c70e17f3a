package engine

import (
	"fmt"

	"github.com/greencommute/creditengine/internal/emissions"
)

// Occupancy allocation runs before the formula, not after it. Dividing the
// whole-vehicle actual factor by the occupancy count makes credits scale
// with the per-person difference from baseline; splitting the final number
// instead would under-reward sharing, because the baseline is per person
// already.

// validateOccupancy enforces the occupancy contract for a mode.
// Every mode requires at least one occupant; shared-occupancy modes
// require at least emissions.MinSharedOccupancy.
func validateOccupancy(mode emissions.TransportMode, occupancy int) error {
	if occupancy < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidOccupancy, occupancy)
	}
	if mode.SharedOccupancy() && occupancy < emissions.MinSharedOccupancy {
		return fmt.Errorf("%w: mode %q needs at least %d occupants, got %d",
			ErrInvalidOccupancy, mode, emissions.MinSharedOccupancy, occupancy)
	}
	return nil
}

// allocateFactors looks up the factor pair for a trip and applies the
// per-occupant division for shared-occupancy modes. Each additional
// occupant linearly reduces the per-person actual factor, approaching but
// never reaching the zero-emission bound.
func (e *Engine) allocateFactors(
	mode emissions.TransportMode,
	region emissions.Region,
	occupancy int,
) (emissions.FactorPair, error) {
	if err := validateOccupancy(mode, occupancy); err != nil {
		return emissions.FactorPair{}, err
	}

	pair, err := e.table.Lookup(mode, region)
	if err != nil {
		return emissions.FactorPair{}, err
	}

	if mode.SharedOccupancy() {
		pair.Actual /= float64(occupancy)
	}
	return pair, nil
}
