package modifiers

// Tables holds the multiplier lookups, one per context dimension. Each
// dimension is tuned and versioned independently; composition is purely
// multiplicative so every term stays auditable in a credit breakdown.
// Missing entries resolve to the neutral multiplier.
type Tables struct {
	Peak    map[TimePeriod]float64       `yaml:"peak"`
	Traffic map[TrafficCondition]float64 `yaml:"traffic"`
	Weather map[WeatherCondition]float64 `yaml:"weather"`
	Route   map[RouteType]float64        `yaml:"route"`
	AQI     map[AQILevel]float64         `yaml:"aqi"`
	Season  map[Season]float64           `yaml:"season"`
	Load    map[LoadLevel]float64        `yaml:"load"`
}

// Neutral is the multiplier applied when a context value is absent or
// unrecognized.
const Neutral = 1.0

// Recency weight bands. Trips older than a quarter still earn credits,
// just at half weight.
const (
	recencyFullDays    = 7
	recencyMonthDays   = 30
	recencyQuarterDays = 90

	recencyFullWeight    = 1.0
	recencyMonthWeight   = 0.9
	recencyQuarterWeight = 0.7
	recencyStaleWeight   = 0.5
)

// Resolver turns a ContextSnapshot into the formula's time weight and
// context factor. It is pure: no state beyond the read-only tables, no
// side effects, identical input always yields identical output.
type Resolver struct {
	tables Tables
}

// NewResolver builds a resolver over the given multiplier tables.
func NewResolver(tables Tables) *Resolver {
	return &Resolver{tables: tables}
}

// Resolve computes both multiplicative terms for a snapshot.
//
//	timeWeight    = peak × traffic × recency
//	contextFactor = weather × route × aqi × load × season
func (r *Resolver) Resolve(snap ContextSnapshot) (timeWeight, contextFactor float64) {
	timeWeight = lookup(r.tables.Peak, snap.TimePeriod) *
		lookup(r.tables.Traffic, snap.Traffic) *
		recencyWeight(snap.RecencyDays)

	contextFactor = lookup(r.tables.Weather, snap.Weather) *
		lookup(r.tables.Route, snap.Route) *
		lookup(r.tables.AQI, snap.AQI) *
		lookup(r.tables.Load, snap.Load) *
		lookup(r.tables.Season, snap.Season)

	return timeWeight, contextFactor
}

// lookup returns the multiplier for key, or Neutral when the key is absent
// from the table. Unrecognized values degrade, they never fail.
func lookup[K comparable](table map[K]float64, key K) float64 {
	if f, ok := table[key]; ok {
		return f
	}
	return Neutral
}

// recencyWeight maps trip age in days onto the recency bands. Negative
// ages (clock skew, future-dated trips) count as today.
func recencyWeight(days int) float64 {
	switch {
	case days <= recencyFullDays:
		return recencyFullWeight
	case days <= recencyMonthDays:
		return recencyMonthWeight
	case days <= recencyQuarterDays:
		return recencyQuarterWeight
	default:
		return recencyStaleWeight
	}
}
