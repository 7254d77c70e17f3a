package predictor

import (
	"context"
	"math"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/greencommute/creditengine/internal/config"
	"github.com/greencommute/creditengine/internal/emissions"
	"github.com/greencommute/creditengine/internal/engine"
	"github.com/greencommute/creditengine/internal/logging"
)

// Coordinator orchestrates the learned predictor ahead of the formula
// engine. Per call it attempts the model, then falls back:
//
//	ATTEMPT_ML → success: ml result, method=ml_prediction
//	           → unavailable, error, timeout, malformed output,
//	             confidence below threshold: formula result
//
// The formula path never fails for valid input, so Calculate always
// returns a complete result or one of the two surfaced input errors.
type Coordinator struct {
	engine    *engine.Engine
	predictor Predictor
	threshold float64
	timeout   time.Duration
	now       func() time.Time
}

// NewCoordinator wires a coordinator. predictor may be nil for the
// formula-only variant.
func NewCoordinator(eng *engine.Engine, predictor Predictor, cfg config.PredictorConfig) *Coordinator {
	return &Coordinator{
		engine:    eng,
		predictor: predictor,
		threshold: cfg.ConfidenceThreshold,
		timeout:   cfg.Timeout(),
		now:       time.Now,
	}
}

// Calculate produces the credit result for one trip and stamps it with a
// calculation ID and timestamp. Recalculating the same trip yields the
// same numbers under a new identity.
func (c *Coordinator) Calculate(ctx context.Context, input engine.TripCalculationInput) (engine.CreditResult, error) {
	result, err := c.engine.Compute(ctx, input)
	if err != nil {
		return engine.CreditResult{}, err
	}

	if c.predictor != nil && predictable(input) {
		if pred, ok := c.attempt(ctx, input); ok {
			result.CreditsAwarded = roundCredits(math.Max(0, pred.Credits))
			result.Method = engine.MethodMLPrediction
			result.Confidence = pred.Confidence
			result.ModelVersion = pred.ModelVersion
		}
	}

	result.ID = ulid.Make().String()
	result.CalculatedAt = c.now().UTC()
	return result, nil
}

// predictable excludes the fixed-policy paths from the model: the
// work-from-home award and the zero-distance short circuit are policy
// constants, not estimates to refine.
func predictable(input engine.TripCalculationInput) bool {
	return input.Mode != emissions.ModeWorkFromHome && input.DistanceKm > 0
}

// attempt runs the predictor under the configured deadline and applies the
// confidence policy. Any failure is recovered locally and logged; it is
// never surfaced to the caller.
func (c *Coordinator) attempt(ctx context.Context, input engine.TripCalculationInput) (Prediction, bool) {
	log := logging.FromContext(ctx)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	pred, err := c.predictor.Predict(ctx, input)
	if err != nil {
		log.Warn().
			Str("component", "predictor").
			Str("predictor", c.predictor.Name()).
			Err(err).
			Msg("prediction unavailable, using formula")
		return Prediction{}, false
	}

	if math.IsNaN(pred.Credits) || math.IsInf(pred.Credits, 0) ||
		pred.Confidence < 0 || pred.Confidence > 1 {
		log.Warn().
			Str("component", "predictor").
			Str("predictor", c.predictor.Name()).
			Float64("credits", pred.Credits).
			Float64("confidence", pred.Confidence).
			Msg("malformed prediction, using formula")
		return Prediction{}, false
	}

	if pred.Confidence < c.threshold {
		log.Debug().
			Str("component", "predictor").
			Str("predictor", c.predictor.Name()).
			Float64("confidence", pred.Confidence).
			Float64("threshold", c.threshold).
			Msg("prediction below confidence threshold, using formula")
		return Prediction{}, false
	}

	return pred, true
}

// roundCredits matches the engine's four-decimal award granularity.
func roundCredits(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
