// Package predictor routes trip calculations through an optional learned
// model ahead of the deterministic formula engine.
//
// The predictor is a capability chosen once at startup — a local trained
// artifact, a remote inference service, or nothing — rather than a runtime
// existence check scattered through the calculation path. The formula
// remains the system of record: any failure, timeout or low-confidence
// prediction falls back to it, and the two estimates are never blended.
package predictor

import (
	"context"
	"fmt"

	"github.com/greencommute/creditengine/internal/config"
	"github.com/greencommute/creditengine/internal/engine"
)

// Prediction is a learned estimate of a trip's credit award.
type Prediction struct {
	// Credits is the predicted award in kg CO₂e.
	Credits float64 `json:"credits"`

	// Confidence is the model's self-reported confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// ModelVersion identifies the artifact or service model that
	// produced the estimate.
	ModelVersion string `json:"model_version"`
}

// Predictor is a learned estimator of credit awards. Implementations hold
// no mutable state after construction; concurrent calls are independent.
type Predictor interface {
	// Name identifies the predictor for logging.
	Name() string

	// Predict estimates the credit award for a trip. Implementations
	// must honour ctx cancellation when they block.
	Predict(ctx context.Context, input engine.TripCalculationInput) (Prediction, error)
}

// FromConfig selects the predictor capability for this process. A nil
// Predictor with a nil error means the formula-only variant.
func FromConfig(cfg config.PredictorConfig) (Predictor, error) {
	switch cfg.Mode {
	case config.PredictorOff:
		return nil, nil
	case config.PredictorArtifact:
		return LoadArtifact(cfg.ArtifactPath)
	case config.PredictorRemote:
		client := NewRemoteClient(cfg.Endpoint, cfg.Timeout())
		if cfg.CacheDir == "" {
			return client, nil
		}
		cache, err := NewPredictionCache(cfg.CacheDir, cfg.CacheTTL())
		if err != nil {
			return nil, fmt.Errorf("open prediction cache: %w", err)
		}
		return WithCache(client, cache), nil
	default:
		return nil, fmt.Errorf("unknown predictor mode %q", cfg.Mode)
	}
}
