package solve

import "errors"

// Domain errors for solve operations.
var (
	// ErrInvalidDomain indicates xMax<=xMin, yMax<=yMin, or non-finite bounds.
	ErrInvalidDomain = errors.New("solve: invalid domain bounds")

	// ErrInvalidConductor indicates an inverted rectangle, non-positive
	// radius, or non-finite conductor potential.
	ErrInvalidConductor = errors.New("solve: invalid conductor")

	// ErrInvalidParameter indicates a solver parameter outside its valid
	// range that clamping could not sanitize.
	ErrInvalidParameter = errors.New("solve: invalid parameter")
)

// SolveError wraps an error with the stage of the pipeline it came from.
type SolveError struct {
	Stage   string
	Wrapped error
}

func (e *SolveError) Error() string {
	return "solve: " + e.Stage + ": " + e.Wrapped.Error()
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
