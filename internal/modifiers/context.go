// Package modifiers resolves the environmental and operational conditions
// of a trip into the two multiplicative terms of the credit formula: the
// time weight and the context factor.
//
// Every dimension is a closed enumeration with an explicit unspecified
// variant. Values the upstream collaborators cannot determine are simply
// omitted and resolve to a neutral multiplier of 1.0 — missing context
// must never fail a calculation.
package modifiers

import "github.com/greencommute/creditengine/internal/emissions"

// TimePeriod is the time-of-day band a trip fell in.
type TimePeriod string

const (
	TimePeriodUnspecified TimePeriod = ""
	TimePeriodPeakMorning TimePeriod = "peak_morning"
	TimePeriodPeakEvening TimePeriod = "peak_evening"
	TimePeriodOffPeak     TimePeriod = "off_peak"
	TimePeriodLateNight   TimePeriod = "late_night"
)

// TrafficCondition is the congestion level along the route.
type TrafficCondition string

const (
	TrafficUnspecified TrafficCondition = ""
	TrafficHeavy       TrafficCondition = "heavy"
	TrafficModerate    TrafficCondition = "moderate"
	TrafficLight       TrafficCondition = "light"
)

// WeatherCondition is the weather during the trip.
type WeatherCondition string

const (
	WeatherUnspecified WeatherCondition = ""
	WeatherHeavyRain   WeatherCondition = "heavy_rain"
	WeatherLightRain   WeatherCondition = "light_rain"
	WeatherNormal      WeatherCondition = "normal"
	WeatherFavorable   WeatherCondition = "favorable"
)

// RouteType is the terrain and road class of the route.
type RouteType string

const (
	RouteUnspecified RouteType = ""
	RouteHilly       RouteType = "hilly"
	RouteCityCenter  RouteType = "city_center"
	RouteSuburban    RouteType = "suburban"
	RouteHighway     RouteType = "highway"
)

// AQILevel is the air quality band along the route.
type AQILevel string

const (
	AQIUnspecified AQILevel = ""
	AQIHazardous   AQILevel = "hazardous"
	AQIVeryPoor    AQILevel = "very_poor"
	AQIModerate    AQILevel = "moderate"
	AQIGood        AQILevel = "good"
)

// Season is the seasonal band of the trip date.
type Season string

const (
	SeasonUnspecified Season = ""
	SeasonWinter      Season = "winter"
	SeasonSummer      Season = "summer"
	SeasonMonsoon     Season = "monsoon"
	SeasonPostMonsoon Season = "post_monsoon"
)

// LoadLevel is how heavily loaded the vehicle was.
type LoadLevel string

const (
	LoadUnspecified LoadLevel = ""
	LoadFull        LoadLevel = "full"
	LoadNormal      LoadLevel = "normal"
	LoadLight       LoadLevel = "light"
)

// ContextSnapshot captures the conditions of one trip as reported by the
// environmental lookup collaborator. Fields it could not determine are
// left at their unspecified zero value. Immutable once handed to the
// engine; resolution never mutates it.
type ContextSnapshot struct {
	TimePeriod TimePeriod       `json:"time_period,omitempty" yaml:"time_period,omitempty"`
	Traffic    TrafficCondition `json:"traffic_condition,omitempty" yaml:"traffic_condition,omitempty"`
	Weather    WeatherCondition `json:"weather_condition,omitempty" yaml:"weather_condition,omitempty"`
	Route      RouteType        `json:"route_type,omitempty" yaml:"route_type,omitempty"`
	AQI        AQILevel         `json:"aqi_level,omitempty" yaml:"aqi_level,omitempty"`
	Season     Season           `json:"season,omitempty" yaml:"season,omitempty"`
	Load       LoadLevel        `json:"load,omitempty" yaml:"load,omitempty"`

	// Region selects the emission factor set. Unknown or empty regions
	// resolve to the default region.
	Region emissions.Region `json:"region,omitempty" yaml:"region,omitempty"`

	// RecencyDays is how many days ago the trip happened, zero for trips
	// logged the same day. Recent trips weigh slightly more so the reward
	// tracks current behaviour.
	RecencyDays int `json:"recency_days,omitempty" yaml:"recency_days,omitempty"`
}
