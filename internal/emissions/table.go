// Package emissions holds the per-mode emission factor reference data and
// the lookup contract the credit formula is built on.
//
// Factors are kg CO₂ per km (per passenger-km for shared and public modes).
// The table is assembled once at startup from configuration and is
// read-only afterwards; lookups are pure and safe for concurrent use.
package emissions

import "fmt"

// Region keys a factor set. Regions version the reference data (grid mix,
// fleet composition); an unknown region falls back to the default region
// rather than failing, because factor coverage must never block a trip.
type Region string

// FactorPair is the result of a table lookup: the baseline the commuter is
// measured against and the actual factor of the mode they used.
type FactorPair struct {
	// Baseline is the reference emission factor, normally the region's
	// solo private petrol car.
	Baseline float64

	// Actual is the emission factor of the mode actually used.
	Actual float64
}

// SavingsPerKm returns the per-kilometre emission savings.
func (p FactorPair) SavingsPerKm() float64 {
	return p.Baseline - p.Actual
}

// RegionFactors is one region's slice of the reference data.
type RegionFactors struct {
	// CarBaseline is the solo private petrol-car factor used as the
	// baseline for every mode in this region.
	CarBaseline float64

	// Actual maps each mode to its actual emission factor. For shared
	// occupancy modes this is the whole-vehicle factor before the
	// per-occupant allocation divides it.
	Actual map[TransportMode]float64

	// BaselineModes lists modes that themselves represent the private-car
	// baseline. Those modes score baseline == actual, so a petrol solo
	// car trip earns exactly zero credits.
	BaselineModes map[TransportMode]bool
}

// Table is the process-wide emission factor table.
type Table struct {
	defaultRegion Region
	regions       map[Region]RegionFactors
}

// ErrConfigurationInvariant marks reference data that violates a table
// invariant. It is returned only while building the table at startup;
// per-trip lookups never produce it.
const ErrConfigurationInvariant = constError("configuration invariant violated")

// NewTable validates the reference data and builds a lookup table.
//
// Invariants enforced here, once, so the per-trip path can clamp instead
// of re-checking:
//   - the default region must be present
//   - every factor must be non-negative
//   - actual ≤ baseline for every non-baseline mode
//   - zero-emission modes must not claim a positive factor
//   - work_from_home must not appear (it is a fixed award, not a factor)
func NewTable(defaultRegion Region, regions map[Region]RegionFactors) (*Table, error) {
	if _, ok := regions[defaultRegion]; !ok {
		return nil, fmt.Errorf("%w: default region %q has no factor set",
			ErrConfigurationInvariant, defaultRegion)
	}

	for region, rf := range regions {
		if rf.CarBaseline < 0 {
			return nil, fmt.Errorf("%w: region %q has negative car baseline %g",
				ErrConfigurationInvariant, region, rf.CarBaseline)
		}
		for mode, actual := range rf.Actual {
			if mode == ModeWorkFromHome {
				return nil, fmt.Errorf("%w: region %q tabulates work_from_home",
					ErrConfigurationInvariant, region)
			}
			if actual < 0 {
				return nil, fmt.Errorf("%w: region %q mode %q has negative factor %g",
					ErrConfigurationInvariant, region, mode, actual)
			}
			if mode.ZeroEmission() && actual != 0 {
				return nil, fmt.Errorf("%w: region %q mode %q must have factor 0, got %g",
					ErrConfigurationInvariant, region, mode, actual)
			}
			if !rf.BaselineModes[mode] {
				// Shared-occupancy modes tabulate the whole-vehicle
				// factor; allocation divides it by at least the minimum
				// occupancy before it reaches the formula.
				limit := rf.CarBaseline
				if mode.SharedOccupancy() {
					limit *= MinSharedOccupancy
				}
				if actual > limit {
					return nil, fmt.Errorf("%w: region %q mode %q actual %g exceeds baseline %g",
						ErrConfigurationInvariant, region, mode, actual, rf.CarBaseline)
				}
			}
		}
	}

	return &Table{defaultRegion: defaultRegion, regions: regions}, nil
}

// Lookup returns the (baseline, actual) factor pair for a mode in a region.
//
// Legacy mode aliases are canonicalized first, so historical trip records
// resolve to the same factors as current ones. Unknown regions resolve to
// the default region. A region that lacks an entry for a known mode also
// falls through to the default region, so a sparse regional overlay only
// needs the factors that actually differ. Only an unknown mode is an error.
func (t *Table) Lookup(mode TransportMode, region Region) (FactorPair, error) {
	if mode == ModeWorkFromHome {
		return FactorPair{}, fmt.Errorf("%w: %q", ErrModeNotTabulated, mode)
	}
	mode, err := ParseMode(string(mode))
	if err != nil {
		return FactorPair{}, err
	}

	rf, ok := t.regions[region]
	if !ok {
		rf = t.regions[t.defaultRegion]
	}

	// Zero-emission modes are policy, not data.
	if mode.ZeroEmission() {
		return FactorPair{Baseline: rf.CarBaseline, Actual: 0}, nil
	}

	actual, ok := rf.Actual[mode]
	if !ok {
		fallback := t.regions[t.defaultRegion]
		actual, ok = fallback.Actual[mode]
		if !ok {
			return FactorPair{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
		}
		if fallback.BaselineModes[mode] {
			return FactorPair{Baseline: actual, Actual: actual}, nil
		}
	}

	if rf.BaselineModes[mode] {
		// The mode is its own baseline: zero savings by design.
		return FactorPair{Baseline: actual, Actual: actual}, nil
	}

	return FactorPair{Baseline: rf.CarBaseline, Actual: actual}, nil
}

// DefaultRegion returns the region used when a trip's region is unknown.
func (t *Table) DefaultRegion() Region { return t.defaultRegion }

// Regions lists the regions the table has explicit factor sets for.
func (t *Table) Regions() []Region {
	out := make([]Region, 0, len(t.regions))
	for region := range t.regions {
		out = append(out, region)
	}
	return out
}
