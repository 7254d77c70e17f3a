package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/greencommute/creditengine/internal/engine"
)

// RemoteClient calls an external inference service over HTTP JSON. The
// coordinator bounds every call with its configured timeout; a timeout is
// indistinguishable from "model unavailable" and falls back to the formula.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteClient builds a client for the inference service at baseURL.
// timeout caps the transport as a second line of defence behind the
// coordinator's context deadline.
func NewRemoteClient(baseURL string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name identifies the predictor for logging.
func (c *RemoteClient) Name() string { return "remote(" + c.baseURL + ")" }

// predictRequest is the inference service's input schema: the same feature
// set the model was trained on.
type predictRequest struct {
	TransportMode    string  `json:"transport_mode"`
	DistanceKm       float64 `json:"distance_km"`
	OccupancyCount   int     `json:"occupancy_count"`
	TimePeriod       string  `json:"time_period,omitempty"`
	TrafficCondition string  `json:"traffic_condition,omitempty"`
	WeatherCondition string  `json:"weather_condition,omitempty"`
	RouteType        string  `json:"route_type,omitempty"`
	AQILevel         string  `json:"aqi_level,omitempty"`
	Season           string  `json:"season,omitempty"`
}

// predictResponse is the service's output schema.
type predictResponse struct {
	Credits      float64 `json:"credits"`
	Confidence   float64 `json:"confidence"`
	ModelVersion string  `json:"model_version"`
}

// Predict posts the trip features to the inference service.
func (c *RemoteClient) Predict(ctx context.Context, input engine.TripCalculationInput) (Prediction, error) {
	payload := predictRequest{
		TransportMode:    string(input.Mode),
		DistanceKm:       input.DistanceKm,
		OccupancyCount:   input.OccupancyCount,
		TimePeriod:       string(input.Context.TimePeriod),
		TrafficCondition: string(input.Context.Traffic),
		WeatherCondition: string(input.Context.Weather),
		RouteType:        string(input.Context.Route),
		AQILevel:         string(input.Context.AQI),
		Season:           string(input.Context.Season),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Prediction{}, fmt.Errorf("encode prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/predict", bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("call inference service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Prediction{}, fmt.Errorf("inference service returned %s", resp.Status)
	}

	var decoded predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Prediction{}, fmt.Errorf("decode prediction response: %w", err)
	}

	return Prediction{
		Credits:      decoded.Credits,
		Confidence:   decoded.Confidence,
		ModelVersion: decoded.ModelVersion,
	}, nil
}
