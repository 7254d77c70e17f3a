package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"

	"github.com/greencommute/creditengine/internal/engine"
	"github.com/greencommute/creditengine/internal/modifiers"
)

// artifactSchemaConstraint is the artifact schema range this binary can
// evaluate. Retraining bumps the patch or minor version; a breaking change
// to the weight layout bumps the major and is rejected here.
const artifactSchemaConstraint = ">= 1.0.0, < 2.0.0"

// artifact is the on-disk layout of a trained model export. The trainer
// distils its fitted model into per-mode rates and per-dimension
// adjustments so inference needs no ML runtime.
type artifact struct {
	SchemaVersion string  `json:"schema_version"`
	Model         string  `json:"model"`
	TrainedAt     string  `json:"trained_at"`
	Confidence    float64 `json:"confidence"`

	// PerKmRates is the learned credit-per-km rate for each mode under
	// neutral conditions.
	PerKmRates map[string]float64 `json:"per_km_rates"`

	// Adjustment weights learned per context dimension. Missing values
	// default to 1.0, mirroring the formula's neutral policy.
	PeriodAdjust  map[string]float64 `json:"period_adjust"`
	TrafficAdjust map[string]float64 `json:"traffic_adjust"`
	WeatherAdjust map[string]float64 `json:"weather_adjust"`
	RouteAdjust   map[string]float64 `json:"route_adjust"`
	AQIAdjust     map[string]float64 `json:"aqi_adjust"`
	SeasonAdjust  map[string]float64 `json:"season_adjust"`
}

// ArtifactPredictor serves predictions from a trained artifact loaded once
// at startup and held read-only.
type ArtifactPredictor struct {
	art artifact
}

// LoadArtifact reads, decodes and version-gates a model artifact.
func LoadArtifact(path string) (*ArtifactPredictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}

	version, err := semver.NewVersion(art.SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("model artifact schema version %q: %w", art.SchemaVersion, err)
	}
	constraint, err := semver.NewConstraint(artifactSchemaConstraint)
	if err != nil {
		return nil, fmt.Errorf("parse schema constraint: %w", err)
	}
	if !constraint.Check(version) {
		return nil, fmt.Errorf("model artifact schema %s outside supported range %q",
			version, artifactSchemaConstraint)
	}

	if art.Confidence < 0 || art.Confidence > 1 {
		return nil, fmt.Errorf("model artifact confidence %g outside [0,1]", art.Confidence)
	}
	if len(art.PerKmRates) == 0 {
		return nil, fmt.Errorf("model artifact has no per-mode rates")
	}

	return &ArtifactPredictor{art: art}, nil
}

// Name identifies the predictor for logging.
func (p *ArtifactPredictor) Name() string {
	return fmt.Sprintf("artifact(%s %s)", p.art.Model, p.art.SchemaVersion)
}

// ModelVersion returns the artifact schema version.
func (p *ArtifactPredictor) ModelVersion() string { return p.art.SchemaVersion }

// Predict evaluates the distilled model. Modes the training set never
// covered return an error, which the coordinator treats as unavailable.
func (p *ArtifactPredictor) Predict(ctx context.Context, input engine.TripCalculationInput) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	rate, ok := p.art.PerKmRates[string(input.Mode)]
	if !ok {
		return Prediction{}, fmt.Errorf("mode %q not covered by model", input.Mode)
	}

	credits := rate * input.DistanceKm *
		adjust(p.art.PeriodAdjust, string(input.Context.TimePeriod)) *
		adjust(p.art.TrafficAdjust, string(input.Context.Traffic)) *
		adjust(p.art.WeatherAdjust, string(input.Context.Weather)) *
		adjust(p.art.RouteAdjust, string(input.Context.Route)) *
		adjust(p.art.AQIAdjust, string(input.Context.AQI)) *
		adjust(p.art.SeasonAdjust, string(input.Context.Season))

	return Prediction{
		Credits:      credits,
		Confidence:   p.art.Confidence,
		ModelVersion: p.art.SchemaVersion,
	}, nil
}

// adjust mirrors the formula's neutral-default lookup policy.
func adjust(m map[string]float64, key string) float64 {
	if f, ok := m[key]; ok {
		return f
	}
	return modifiers.Neutral
}
