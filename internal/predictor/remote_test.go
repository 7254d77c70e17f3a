package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greencommute/creditengine/internal/emissions"
	"github.com/greencommute/creditengine/internal/engine"
	"github.com/greencommute/creditengine/internal/modifiers"
)

func TestRemotePredict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "bus", req.TransportMode)
		assert.Equal(t, 28.42, req.DistanceKm)
		assert.Equal(t, "peak_morning", req.TimePeriod)

		json.NewEncoder(w).Encode(predictResponse{
			Credits:      7.9812,
			Confidence:   0.88,
			ModelVersion: "inference-v3",
		})
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, time.Second)
	pred, err := client.Predict(context.Background(), engine.TripCalculationInput{
		DistanceKm:     28.42,
		Mode:           emissions.ModeBus,
		OccupancyCount: 1,
		Context: modifiers.ContextSnapshot{
			TimePeriod: modifiers.TimePeriodPeakMorning,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 7.9812, pred.Credits)
	assert.Equal(t, 0.88, pred.Confidence)
	assert.Equal(t, "inference-v3", pred.ModelVersion)
}

func TestRemotePredictServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, time.Second)
	_, err := client.Predict(context.Background(), engine.TripCalculationInput{
		DistanceKm:     5,
		Mode:           emissions.ModeBus,
		OccupancyCount: 1,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "503")
}

func TestRemotePredictMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"credits": "lots"}`))
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, time.Second)
	_, err := client.Predict(context.Background(), engine.TripCalculationInput{
		DistanceKm:     5,
		Mode:           emissions.ModeBus,
		OccupancyCount: 1,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode prediction response")
}

func TestRemotePredictContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewRemoteClient(server.URL, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Predict(ctx, engine.TripCalculationInput{
		DistanceKm:     5,
		Mode:           emissions.ModeBus,
		OccupancyCount: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRemotePredictUnreachable(t *testing.T) {
	client := NewRemoteClient("http://127.0.0.1:1", 100*time.Millisecond)
	_, err := client.Predict(context.Background(), engine.TripCalculationInput{
		DistanceKm:     5,
		Mode:           emissions.ModeBus,
		OccupancyCount: 1,
	})
	require.Error(t, err)
}
