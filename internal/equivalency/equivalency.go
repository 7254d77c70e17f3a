// Package equivalency converts credit awards (kg CO₂e saved) into
// relatable real-world comparisons for reports and CLI output, such as
// "car kilometres avoided" or "smartphones charged".
package equivalency

import (
	"fmt"
	"math"
)

// Conversion factors, kg CO₂e per unit of activity.
// Divide the credit value by the factor to get the equivalency.
const (
	// CarKmFactor is kg CO₂e per km for an average petrol passenger car,
	// matching the engine's default baseline factor.
	CarKmFactor = 0.130

	// SmartphoneChargeFactor is kg CO₂e per full smartphone charge
	// (EPA GHG equivalencies calculator, 2024 edition).
	SmartphoneChargeFactor = 0.00822

	// TreeSeedlingFactor is kg CO₂e absorbed per tree seedling grown for
	// ten years (urban sequestration rates).
	TreeSeedlingFactor = 60.0
)

// MinEquivalencyThresholdKg is the smallest credit value worth expressing
// as equivalencies; below it the comparisons are meaninglessly small.
const MinEquivalencyThresholdKg = 0.5

// EquivalencyType represents a category of emission-savings equivalency.
type EquivalencyType int

const (
	// EquivalencyCarKm converts savings to petrol-car kilometres avoided.
	EquivalencyCarKm EquivalencyType = iota

	// EquivalencySmartphonesCharged converts savings to smartphone full charges.
	EquivalencySmartphonesCharged

	// EquivalencyTreeSeedlings converts savings to tree seedlings grown for 10 years.
	EquivalencyTreeSeedlings
)

// String returns a human-readable representation of the EquivalencyType.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyCarKm:
		return "CarKm"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// Result is a single calculated equivalency.
type Result struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// Output contains the equivalencies for one credit value.
type Output struct {
	// InputKg is the credit value the equivalencies describe.
	InputKg float64 `json:"input_kg"`

	// Results holds the calculated equivalencies in display order.
	Results []Result `json:"results"`

	// DisplayText is the prose form for CLI and report output.
	DisplayText string `json:"display_text"`

	// IsEmpty is true when the input was below the display threshold.
	IsEmpty bool `json:"is_empty"`
}

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrNegativeValue indicates a negative credit value, which the engine's
// clamp policy makes impossible on a well-formed result.
const ErrNegativeValue = constError("negative credit value")

// ErrNonFiniteValue indicates a NaN or infinite credit value, which can
// only come from arithmetic on an unvalidated result.
const ErrNonFiniteValue = constError("non-finite credit value")

// ForCredits computes equivalencies for a credit award in kg CO₂e.
//
// Values below MinEquivalencyThresholdKg return an empty output with no
// error; negative values return ErrNegativeValue and NaN or infinite
// values return ErrNonFiniteValue.
func ForCredits(kg float64) (Output, error) {
	if math.IsNaN(kg) || math.IsInf(kg, 0) {
		return Output{IsEmpty: true}, ErrNonFiniteValue
	}
	if kg < 0 {
		return Output{IsEmpty: true}, ErrNegativeValue
	}
	if kg < MinEquivalencyThresholdKg {
		return Output{InputKg: kg, IsEmpty: true}, nil
	}

	carKm := kg / CarKmFactor
	phones := kg / SmartphoneChargeFactor
	seedlings := kg / TreeSeedlingFactor

	results := []Result{
		{
			Type:           EquivalencyCarKm,
			Value:          carKm,
			FormattedValue: FormatFloat(carKm, 1),
			Label:          "petrol-car km avoided",
		},
		{
			Type:           EquivalencySmartphonesCharged,
			Value:          phones,
			FormattedValue: FormatNumber(int64(math.Round(phones))),
			Label:          "smartphones charged",
		},
		{
			Type:           EquivalencyTreeSeedlings,
			Value:          seedlings,
			FormattedValue: FormatFloat(seedlings, 2),
			Label:          "tree seedlings grown for 10 years",
		},
	}

	displayText := fmt.Sprintf("Equivalent to avoiding ~%s km by petrol car or charging ~%s smartphones",
		results[0].FormattedValue, results[1].FormattedValue)

	return Output{
		InputKg:     kg,
		Results:     results,
		DisplayText: displayText,
	}, nil
}
