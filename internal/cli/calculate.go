package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/greencommute/creditengine/internal/emissions"
	"github.com/greencommute/creditengine/internal/engine"
	"github.com/greencommute/creditengine/internal/equivalency"
	"github.com/greencommute/creditengine/internal/modifiers"
)

// newCalculateCmd builds the single-trip calculation command.
func newCalculateCmd() *cobra.Command {
	var (
		modeFlag   string
		distance   float64
		occupancy  int
		region     string
		timePeriod string
		traffic    string
		weather    string
		route      string
		aqi        string
		season     string
		load       string
		dateFlag   string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate credits for a single trip",
		Example: `  creditengine calculate --mode bus --distance 28.42 \
    --time-period peak_morning --traffic heavy \
    --weather heavy_rain --route city_center --aqi very_poor`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := emissions.ParseMode(modeFlag)
			if err != nil {
				return err
			}

			input := engine.TripCalculationInput{
				DistanceKm:     distance,
				Mode:           mode,
				OccupancyCount: occupancy,
				Context: modifiers.ContextSnapshot{
					TimePeriod: modifiers.TimePeriod(timePeriod),
					Traffic:    modifiers.TrafficCondition(traffic),
					Weather:    modifiers.WeatherCondition(weather),
					Route:      modifiers.RouteType(route),
					AQI:        modifiers.AQILevel(aqi),
					Season:     modifiers.Season(season),
					Load:       modifiers.LoadLevel(load),
					Region:     emissions.Region(region),
				},
			}

			if dateFlag != "" {
				tripDate, parseErr := parseTripDate(dateFlag)
				if parseErr != nil {
					return parseErr
				}
				input.Timestamp = tripDate
				input.Context.RecencyDays = recencyDays(tripDate, time.Now())
			}

			coordinator, _, err := buildCoordinator(cmd)
			if err != nil {
				return err
			}

			result, err := coordinator.Calculate(cmd.Context(), input)
			if err != nil {
				return err
			}

			if jsonOut {
				encoded, encErr := json.MarshalIndent(result, "", "  ")
				if encErr != nil {
					return encErr
				}
				cmd.Println(string(encoded))
				return nil
			}

			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "", "transport mode (required)")
	cmd.Flags().Float64Var(&distance, "distance", 0, "trip distance in km")
	cmd.Flags().IntVar(&occupancy, "occupancy", 1, "vehicle occupancy count")
	cmd.Flags().StringVar(&region, "region", "", "emission factor region")
	cmd.Flags().StringVar(&timePeriod, "time-period", "", "peak_morning, peak_evening, off_peak or late_night")
	cmd.Flags().StringVar(&traffic, "traffic", "", "heavy, moderate or light")
	cmd.Flags().StringVar(&weather, "weather", "", "heavy_rain, light_rain, normal or favorable")
	cmd.Flags().StringVar(&route, "route", "", "hilly, city_center, suburban or highway")
	cmd.Flags().StringVar(&aqi, "aqi", "", "hazardous, very_poor, moderate or good")
	cmd.Flags().StringVar(&season, "season", "", "winter, summer, monsoon or post_monsoon")
	cmd.Flags().StringVar(&load, "load", "", "full, normal or light")
	cmd.Flags().StringVar(&dateFlag, "date", "", "trip date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the result as JSON")
	_ = cmd.MarkFlagRequired("mode")

	return cmd
}

// printResult renders the full breakdown. The intermediate terms are part
// of the result contract so disputes can audit every factor.
func printResult(cmd *cobra.Command, result engine.CreditResult) {
	cmd.Printf("Trip: %s, %s km\n", result.Mode, equivalency.FormatFloat(result.DistanceKm, 2))
	cmd.Printf("Credits awarded: %.4f kg CO₂e  [%s, confidence %.2f]\n",
		result.CreditsAwarded, result.Method, result.Confidence)
	cmd.Printf("Breakdown: (%.4f − %.4f) kg/km × %.2f km × %.3f × %.3f\n",
		result.BaselineEF, result.ActualEF, result.DistanceKm,
		result.TimeWeight, result.ContextFactor)
	cmd.Printf("Trip emissions: %.4f kg, gross savings: %.4f kg\n",
		result.TripEmissionsKg, result.GrossSavingsKg)

	if equiv, err := equivalency.ForCredits(result.CreditsAwarded); err == nil && !equiv.IsEmpty {
		cmd.Println(equiv.DisplayText)
	}
}

// parseTripDate accepts a date-only or full RFC3339 timestamp.
func parseTripDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid trip date %q: %w", s, err)
	}
	return t, nil
}

// recencyDays computes whole days between the trip date and now, never
// negative.
func recencyDays(tripDate, now time.Time) int {
	days := int(now.Sub(tripDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
