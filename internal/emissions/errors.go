package emissions

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrUnknownMode indicates a transport mode absent from the factor
	// table. This is a data-entry bug upstream and surfaces to the caller.
	ErrUnknownMode = constError("unknown transport mode")

	// ErrModeNotTabulated indicates a mode that is deliberately handled
	// outside the factor table (work_from_home). Callers that reach the
	// table with such a mode have skipped the allocation step.
	ErrModeNotTabulated = constError("mode has no emission factor entry")
)
