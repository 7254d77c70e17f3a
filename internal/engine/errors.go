package engine

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidOccupancy indicates an occupancy count below the minimum for
// the trip's mode. Surfaced to the caller; the input must be corrected.
const ErrInvalidOccupancy = constError("invalid occupancy count")
