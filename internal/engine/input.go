package engine

import (
	"time"

	"github.com/greencommute/creditengine/internal/emissions"
	"github.com/greencommute/creditengine/internal/modifiers"
)

// TripCalculationInput is one logged trip as supplied by the trip-ingestion
// collaborator. It is immutable once handed to the engine; a recalculation
// reuses the same input and produces a new result.
type TripCalculationInput struct {
	// DistanceKm is the trip distance, validated non-negative upstream.
	DistanceKm float64 `json:"distance_km" yaml:"distance_km"`

	// Mode is the transport mode actually used.
	Mode emissions.TransportMode `json:"transport_mode" yaml:"transport_mode"`

	// OccupancyCount is how many people shared the vehicle. Only
	// shared-occupancy modes consult it; it must still be at least 1.
	OccupancyCount int `json:"occupancy_count" yaml:"occupancy_count"`

	// Context is the best-effort snapshot of trip conditions. Fields the
	// environmental collaborator could not determine are left unset and
	// resolve to neutral multipliers.
	Context modifiers.ContextSnapshot `json:"context" yaml:"context"`

	// Timestamp is when the trip happened. Zero means unknown.
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}
