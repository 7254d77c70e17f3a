package modifiers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testTables() Tables {
	return Tables{
		Peak: map[TimePeriod]float64{
			TimePeriodPeakMorning: 1.2,
			TimePeriodPeakEvening: 1.2,
			TimePeriodOffPeak:     1.0,
			TimePeriodLateNight:   0.8,
		},
		Traffic: map[TrafficCondition]float64{
			TrafficHeavy:    1.3,
			TrafficModerate: 1.1,
			TrafficLight:    1.0,
		},
		Weather: map[WeatherCondition]float64{
			WeatherHeavyRain: 1.2,
			WeatherLightRain: 1.1,
			WeatherNormal:    1.0,
			WeatherFavorable: 0.95,
		},
		Route: map[RouteType]float64{
			RouteHilly:      1.3,
			RouteCityCenter: 1.2,
			RouteSuburban:   1.0,
			RouteHighway:    0.9,
		},
		AQI: map[AQILevel]float64{
			AQIHazardous: 1.2,
			AQIVeryPoor:  1.1,
			AQIModerate:  1.0,
			AQIGood:      0.95,
		},
		Season: map[Season]float64{
			SeasonWinter:      0.95,
			SeasonSummer:      1.1,
			SeasonMonsoon:     1.2,
			SeasonPostMonsoon: 1.0,
		},
		Load: map[LoadLevel]float64{
			LoadFull:   1.1,
			LoadNormal: 1.0,
			LoadLight:  0.95,
		},
	}
}

func TestResolve(t *testing.T) {
	resolver := NewResolver(testTables())

	tests := []struct {
		name       string
		snap       ContextSnapshot
		wantTime   float64
		wantFactor float64
	}{
		{
			name:       "empty snapshot resolves to neutral",
			snap:       ContextSnapshot{},
			wantTime:   1.0,
			wantFactor: 1.0,
		},
		{
			name: "peak heavy traffic",
			snap: ContextSnapshot{
				TimePeriod: TimePeriodPeakMorning,
				Traffic:    TrafficHeavy,
			},
			wantTime:   1.56,
			wantFactor: 1.0,
		},
		{
			name: "monsoon city commute",
			snap: ContextSnapshot{
				TimePeriod: TimePeriodPeakMorning,
				Traffic:    TrafficHeavy,
				Weather:    WeatherHeavyRain,
				Route:      RouteCityCenter,
				AQI:        AQIVeryPoor,
			},
			wantTime:   1.56,
			wantFactor: 1.584,
		},
		{
			name: "favorable conditions reduce the factor",
			snap: ContextSnapshot{
				TimePeriod: TimePeriodLateNight,
				Traffic:    TrafficLight,
				Weather:    WeatherFavorable,
				Route:      RouteHighway,
				AQI:        AQIGood,
				Season:     SeasonWinter,
			},
			wantTime:   0.8,
			wantFactor: 0.95 * 0.9 * 0.95 * 0.95,
		},
		{
			name: "unrecognized values degrade to neutral",
			snap: ContextSnapshot{
				TimePeriod: "rush_hour",
				Traffic:    "gridlock",
				Weather:    "hail",
				Route:      "tunnel",
				AQI:        "apocalyptic",
				Season:     "spring",
				Load:       "overloaded",
			},
			wantTime:   1.0,
			wantFactor: 1.0,
		},
		{
			name: "light rain city good air",
			snap: ContextSnapshot{
				TimePeriod: TimePeriodPeakMorning,
				Weather:    WeatherLightRain,
				Route:      RouteCityCenter,
				AQI:        AQIGood,
			},
			wantTime:   1.2,
			wantFactor: 1.254,
		},
		{
			name: "load factor participates in the context factor",
			snap: ContextSnapshot{
				Load: LoadFull,
			},
			wantTime:   1.0,
			wantFactor: 1.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeWeight, contextFactor := resolver.Resolve(tt.snap)
			assert.InDelta(t, tt.wantTime, timeWeight, 1e-9)
			assert.InDelta(t, tt.wantFactor, contextFactor, 1e-9)
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	resolver := NewResolver(testTables())
	snap := ContextSnapshot{
		TimePeriod:  TimePeriodPeakEvening,
		Traffic:     TrafficModerate,
		Weather:     WeatherLightRain,
		Route:       RouteHilly,
		AQI:         AQIModerate,
		Season:      SeasonMonsoon,
		Load:        LoadLight,
		RecencyDays: 12,
	}

	tw1, cf1 := resolver.Resolve(snap)
	tw2, cf2 := resolver.Resolve(snap)

	// Bit-identical, not merely close: factors may be recomputed for the
	// same trip during verification disputes.
	assert.Equal(t, tw1, tw2)
	assert.Equal(t, cf1, cf2)
}

func TestRecencyWeight(t *testing.T) {
	resolver := NewResolver(testTables())

	tests := []struct {
		name string
		days int
		want float64
	}{
		{name: "same day", days: 0, want: 1.0},
		{name: "within a week", days: 7, want: 1.0},
		{name: "within a month", days: 30, want: 0.9},
		{name: "within a quarter", days: 90, want: 0.7},
		{name: "stale", days: 91, want: 0.5},
		{name: "future-dated counts as today", days: -3, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeWeight, _ := resolver.Resolve(ContextSnapshot{RecencyDays: tt.days})
			assert.InDelta(t, tt.want, timeWeight, 1e-9)
		})
	}
}
