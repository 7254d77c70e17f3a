package emissions

import "fmt"

// TransportMode identifies how a commuter completed a trip. The set is
// closed: mode strings arriving from the trip-logging collaborator are
// parsed once at the boundary and unknown values are rejected there, not
// deep inside the formula.
type TransportMode string

const (
	ModeWalking           TransportMode = "walking"
	ModeCycling           TransportMode = "cycling"
	ModeEBike             TransportMode = "e_bike"
	ModeEScooter          TransportMode = "e_scooter"
	ModeTwoWheelerSolo    TransportMode = "two_wheeler_solo"
	ModeTwoWheelerPillion TransportMode = "two_wheeler_pillion"
	ModeCarSolo           TransportMode = "car_solo"
	ModeCarDiesel         TransportMode = "car_diesel"
	ModeCarHybrid         TransportMode = "car_hybrid"
	ModeCarElectric       TransportMode = "car_electric"
	ModeCarpool           TransportMode = "carpool"
	ModeAutoRickshaw      TransportMode = "auto_rickshaw"
	ModeAutoRickshawCNG   TransportMode = "auto_rickshaw_cng"
	ModeBus               TransportMode = "bus"
	ModeMetro             TransportMode = "metro"
	ModeRail              TransportMode = "rail"
	ModeWorkFromHome      TransportMode = "work_from_home"
)

// allModes is the closed enumeration, in display order.
var allModes = []TransportMode{
	ModeWalking,
	ModeCycling,
	ModeEBike,
	ModeEScooter,
	ModeTwoWheelerSolo,
	ModeTwoWheelerPillion,
	ModeCarSolo,
	ModeCarDiesel,
	ModeCarHybrid,
	ModeCarElectric,
	ModeCarpool,
	ModeAutoRickshaw,
	ModeAutoRickshawCNG,
	ModeBus,
	ModeMetro,
	ModeRail,
	ModeWorkFromHome,
}

// legacyModeAliases maps mode identifiers used by older trip records to
// their canonical names. The external trip logger sent these spellings
// before the enumeration was tightened.
var legacyModeAliases = map[string]TransportMode{
	"car":              ModeCarSolo,
	"bicycle":          ModeCycling,
	"public_transport": ModeBus,
	"shared_taxi":      ModeCarpool,
	"electric_scooter": ModeEScooter,
	"electric_car":     ModeCarElectric,
	"hybrid_car":       ModeCarHybrid,
	"metro_subway":     ModeMetro,
}

// ParseMode converts a raw mode string into a TransportMode.
// Legacy aliases are accepted; anything else returns ErrUnknownMode.
func ParseMode(s string) (TransportMode, error) {
	if mode, ok := legacyModeAliases[s]; ok {
		return mode, nil
	}
	for _, mode := range allModes {
		if TransportMode(s) == mode {
			return mode, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Modes returns the closed mode enumeration in display order.
func Modes() []TransportMode {
	out := make([]TransportMode, len(allModes))
	copy(out, allModes)
	return out
}

// String returns the wire representation of the mode.
func (m TransportMode) String() string { return string(m) }

// MinSharedOccupancy is the smallest occupancy count a shared-occupancy
// mode can be logged with: sharing needs at least two people.
const MinSharedOccupancy = 2

// SharedOccupancy reports whether credits for the mode depend on how many
// people shared the vehicle. Only these modes consult the occupancy count;
// everything else treats occupancy as informational.
func (m TransportMode) SharedOccupancy() bool {
	return m == ModeCarpool
}

// ZeroEmission reports whether the mode is zero-emission by policy.
// These modes always have actual EF 0 regardless of configuration.
func (m TransportMode) ZeroEmission() bool {
	return m == ModeWalking || m == ModeCycling
}
