package predictor

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greencommute/creditengine/internal/config"
	"github.com/greencommute/creditengine/internal/emissions"
	"github.com/greencommute/creditengine/internal/engine"
	"github.com/greencommute/creditengine/internal/modifiers"
)

// stubPredictor returns a fixed prediction or error per call.
type stubPredictor struct {
	pred  Prediction
	err   error
	calls int
	block bool
}

func (s *stubPredictor) Name() string { return "stub" }

func (s *stubPredictor) Predict(ctx context.Context, _ engine.TripCalculationInput) (Prediction, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return Prediction{}, ctx.Err()
	}
	return s.pred, s.err
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := config.Default()
	table, err := cfg.Table()
	require.NoError(t, err)
	return engine.New(table, modifiers.NewResolver(cfg.Modifiers), cfg.Credits)
}

func testInput() engine.TripCalculationInput {
	return engine.TripCalculationInput{
		DistanceKm:     15.5,
		Mode:           emissions.ModeBus,
		OccupancyCount: 1,
	}
}

func predictorConfig() config.PredictorConfig {
	return config.PredictorConfig{
		Mode:                config.PredictorRemote,
		TimeoutMS:           200,
		ConfidenceThreshold: 0.7,
	}
}

func TestCalculateFormulaOnly(t *testing.T) {
	coord := NewCoordinator(testEngine(t), nil, config.PredictorConfig{Mode: config.PredictorOff})

	result, err := coord.Calculate(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, engine.MethodFormula, result.Method)
	assert.Equal(t, 0.95, result.Confidence)
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.CalculatedAt.IsZero())
	assert.Equal(t, time.UTC, result.CalculatedAt.Location())
}

func TestCalculatePredictionAccepted(t *testing.T) {
	stub := &stubPredictor{pred: Prediction{
		Credits:      2.71828,
		Confidence:   0.85,
		ModelVersion: "gradient-boost-v2.1",
	}}
	coord := NewCoordinator(testEngine(t), stub, predictorConfig())

	result, err := coord.Calculate(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, engine.MethodMLPrediction, result.Method)
	assert.InDelta(t, 2.7183, result.CreditsAwarded, 1e-9)
	assert.Equal(t, 0.85, result.Confidence)
	assert.Equal(t, "gradient-boost-v2.1", result.ModelVersion)
	// The formula breakdown stays attached for display even when the
	// award comes from the model.
	assert.Positive(t, result.SavingsPerKm)
	assert.Equal(t, 1, stub.calls)
}

func TestCalculateFallsBackToFormula(t *testing.T) {
	formula, err := NewCoordinator(testEngine(t), nil, config.PredictorConfig{}).
		Calculate(context.Background(), testInput())
	require.NoError(t, err)

	tests := []struct {
		name string
		stub *stubPredictor
	}{
		{
			name: "predictor error",
			stub: &stubPredictor{err: errors.New("model unavailable")},
		},
		{
			name: "timeout",
			stub: &stubPredictor{block: true},
		},
		{
			name: "confidence below threshold",
			stub: &stubPredictor{pred: Prediction{Credits: 3.2, Confidence: 0.69}},
		},
		{
			name: "NaN credits",
			stub: &stubPredictor{pred: Prediction{Credits: math.NaN(), Confidence: 0.9}},
		},
		{
			name: "infinite credits",
			stub: &stubPredictor{pred: Prediction{Credits: math.Inf(1), Confidence: 0.9}},
		},
		{
			name: "confidence above one",
			stub: &stubPredictor{pred: Prediction{Credits: 3.2, Confidence: 1.5}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			coord := NewCoordinator(testEngine(t), tc.stub, predictorConfig())

			result, err := coord.Calculate(context.Background(), testInput())
			require.NoError(t, err, "fallback must never surface the model failure")

			assert.Equal(t, engine.MethodFormula, result.Method)
			assert.Equal(t, formula.CreditsAwarded, result.CreditsAwarded)
			assert.Equal(t, formula.Confidence, result.Confidence)
			assert.Empty(t, result.ModelVersion)
			assert.Equal(t, 1, tc.stub.calls)
		})
	}
}

func TestCalculateSkipsPredictorForPolicyPaths(t *testing.T) {
	tests := []struct {
		name  string
		input engine.TripCalculationInput
		want  float64
	}{
		{
			name: "work from home",
			input: engine.TripCalculationInput{
				Mode:           emissions.ModeWorkFromHome,
				OccupancyCount: 1,
			},
			want: 10.0,
		},
		{
			name: "zero distance",
			input: engine.TripCalculationInput{
				DistanceKm:     0,
				Mode:           emissions.ModeCycling,
				OccupancyCount: 1,
			},
			want: 0.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubPredictor{pred: Prediction{Credits: 99, Confidence: 0.99}}
			coord := NewCoordinator(testEngine(t), stub, predictorConfig())

			result, err := coord.Calculate(context.Background(), tc.input)
			require.NoError(t, err)

			assert.Equal(t, engine.MethodFormula, result.Method)
			assert.Equal(t, tc.want, result.CreditsAwarded)
			assert.Zero(t, stub.calls, "policy paths must not consult the model")
		})
	}
}

func TestCalculateNegativePredictionClamped(t *testing.T) {
	stub := &stubPredictor{pred: Prediction{Credits: -4.2, Confidence: 0.9}}
	coord := NewCoordinator(testEngine(t), stub, predictorConfig())

	result, err := coord.Calculate(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, engine.MethodMLPrediction, result.Method)
	assert.Equal(t, 0.0, result.CreditsAwarded)
}

func TestCalculateInputErrorsSurface(t *testing.T) {
	stub := &stubPredictor{pred: Prediction{Credits: 1, Confidence: 0.9}}
	coord := NewCoordinator(testEngine(t), stub, predictorConfig())

	_, err := coord.Calculate(context.Background(), engine.TripCalculationInput{
		DistanceKm:     5,
		Mode:           "teleport",
		OccupancyCount: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, emissions.ErrUnknownMode)
	assert.Zero(t, stub.calls)
}

func TestCalculateFreshIdentityPerCall(t *testing.T) {
	coord := NewCoordinator(testEngine(t), nil, config.PredictorConfig{})
	input := testInput()

	first, err := coord.Calculate(context.Background(), input)
	require.NoError(t, err)
	second, err := coord.Calculate(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.CreditsAwarded, second.CreditsAwarded)
	assert.NotEqual(t, first.ID, second.ID)
}
