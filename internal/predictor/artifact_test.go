package predictor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greencommute/creditengine/internal/emissions"
	"github.com/greencommute/creditengine/internal/engine"
	"github.com/greencommute/creditengine/internal/modifiers"
)

func writeArtifact(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validArtifact = `{
	"schema_version": "1.2.0",
	"model": "gradient-boost",
	"trained_at": "2026-08-01T00:00:00Z",
	"confidence": 0.85,
	"per_km_rates": {
		"cycling": 0.131,
		"bus": 0.118
	},
	"period_adjust": {"peak_morning": 1.18},
	"traffic_adjust": {"heavy": 1.27}
}`

func TestLoadArtifact(t *testing.T) {
	t.Run("valid artifact", func(t *testing.T) {
		p, err := LoadArtifact(writeArtifact(t, validArtifact))
		require.NoError(t, err)
		assert.Equal(t, "1.2.0", p.ModelVersion())
		assert.Contains(t, p.Name(), "gradient-boost")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadArtifact(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := LoadArtifact(writeArtifact(t, `{"schema_version":`))
		require.Error(t, err)
	})

	rejections := []struct {
		name string
		body string
	}{
		{
			name: "schema major too new",
			body: `{"schema_version": "2.0.0", "confidence": 0.8, "per_km_rates": {"bus": 0.1}}`,
		},
		{
			name: "schema below supported range",
			body: `{"schema_version": "0.9.0", "confidence": 0.8, "per_km_rates": {"bus": 0.1}}`,
		},
		{
			name: "unparsable schema version",
			body: `{"schema_version": "latest", "confidence": 0.8, "per_km_rates": {"bus": 0.1}}`,
		},
		{
			name: "confidence above one",
			body: `{"schema_version": "1.0.0", "confidence": 1.2, "per_km_rates": {"bus": 0.1}}`,
		},
		{
			name: "no rates",
			body: `{"schema_version": "1.0.0", "confidence": 0.8, "per_km_rates": {}}`,
		},
	}

	for _, tc := range rejections {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadArtifact(writeArtifact(t, tc.body))
			require.Error(t, err)
		})
	}
}

func TestArtifactPredict(t *testing.T) {
	p, err := LoadArtifact(writeArtifact(t, validArtifact))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("applies learned adjustments", func(t *testing.T) {
		pred, err := p.Predict(ctx, engine.TripCalculationInput{
			DistanceKm:     10,
			Mode:           emissions.ModeCycling,
			OccupancyCount: 1,
			Context: modifiers.ContextSnapshot{
				TimePeriod: modifiers.TimePeriodPeakMorning,
				Traffic:    modifiers.TrafficHeavy,
			},
		})
		require.NoError(t, err)
		// 0.131 × 10 × 1.18 × 1.27
		assert.InDelta(t, 1.963166, pred.Credits, 1e-9)
		assert.Equal(t, 0.85, pred.Confidence)
		assert.Equal(t, "1.2.0", pred.ModelVersion)
	})

	t.Run("unlisted context values are neutral", func(t *testing.T) {
		pred, err := p.Predict(ctx, engine.TripCalculationInput{
			DistanceKm:     10,
			Mode:           emissions.ModeBus,
			OccupancyCount: 1,
			Context: modifiers.ContextSnapshot{
				Weather: modifiers.WeatherHeavyRain,
				Season:  modifiers.SeasonMonsoon,
			},
		})
		require.NoError(t, err)
		assert.InDelta(t, 1.18, pred.Credits, 1e-9)
	})

	t.Run("uncovered mode errors", func(t *testing.T) {
		_, err := p.Predict(ctx, engine.TripCalculationInput{
			DistanceKm:     10,
			Mode:           emissions.ModeMetro,
			OccupancyCount: 1,
		})
		require.Error(t, err)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := p.Predict(cancelled, engine.TripCalculationInput{
			DistanceKm:     10,
			Mode:           emissions.ModeBus,
			OccupancyCount: 1,
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
