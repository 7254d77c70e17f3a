package config

import "github.com/greencommute/creditengine/internal/modifiers"

// Default returns the embedded configuration.
//
// Emission factors are the WRI India 2015 road transport factors
// (IPCC Tier 3 methodology), in kg CO₂/km, per passenger-km for shared
// and public modes. Multiplier bands follow IPCC 2006 guidance, UNFCCC
// traffic studies and CRRI fuel-consumption variability data.
func Default() *Config {
	return &Config{
		DefaultRegion: "in-mumbai",
		Credits: CreditsConfig{
			WorkFromHome:      10.0,
			FormulaConfidence: 0.95,
		},
		Factors: map[string]RegionFactorsConfig{
			"in-mumbai": {
				// Petrol hatchback, <1400cc.
				CarBaseline: 0.130,
				Actual: map[string]float64{
					"e_bike":              0.005,
					"e_scooter":           0.020,
					"two_wheeler_solo":    0.029,
					"two_wheeler_pillion": 0.0145,
					"car_solo":            0.130,
					"car_diesel":          0.117,
					"car_hybrid":          0.095,
					"car_electric":        0.085,
					// Whole-vehicle factor; the allocation step divides
					// it by the occupancy count. Petrol sedan, >1400cc.
					"carpool":           0.142,
					"auto_rickshaw":     0.1135,
					"auto_rickshaw_cng": 0.10768,
					"bus":               0.015161,
					"metro":             0.008,
					"rail":              0.011,
				},
				BaselineModes: []string{"car_solo"},
			},
		},
		Modifiers: modifiers.Tables{
			Peak: map[modifiers.TimePeriod]float64{
				modifiers.TimePeriodPeakMorning: 1.2,
				modifiers.TimePeriodPeakEvening: 1.2,
				modifiers.TimePeriodOffPeak:     1.0,
				modifiers.TimePeriodLateNight:   0.8,
			},
			Traffic: map[modifiers.TrafficCondition]float64{
				modifiers.TrafficHeavy:    1.3,
				modifiers.TrafficModerate: 1.1,
				modifiers.TrafficLight:    1.0,
			},
			Weather: map[modifiers.WeatherCondition]float64{
				modifiers.WeatherHeavyRain: 1.2,
				modifiers.WeatherLightRain: 1.1,
				modifiers.WeatherNormal:    1.0,
				modifiers.WeatherFavorable: 0.95,
			},
			Route: map[modifiers.RouteType]float64{
				modifiers.RouteHilly:      1.3,
				modifiers.RouteCityCenter: 1.2,
				modifiers.RouteSuburban:   1.0,
				modifiers.RouteHighway:    0.9,
			},
			AQI: map[modifiers.AQILevel]float64{
				modifiers.AQIHazardous: 1.2,
				modifiers.AQIVeryPoor:  1.1,
				modifiers.AQIModerate:  1.0,
				modifiers.AQIGood:      0.95,
			},
			Season: map[modifiers.Season]float64{
				modifiers.SeasonWinter:      0.95,
				modifiers.SeasonSummer:      1.1,
				modifiers.SeasonMonsoon:     1.2,
				modifiers.SeasonPostMonsoon: 1.0,
			},
			Load: map[modifiers.LoadLevel]float64{
				modifiers.LoadFull:   1.1,
				modifiers.LoadNormal: 1.0,
				modifiers.LoadLight:  0.95,
			},
		},
		Predictor: PredictorConfig{
			Mode:                PredictorOff,
			TimeoutMS:           1500,
			ConfidenceThreshold: 0.7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
