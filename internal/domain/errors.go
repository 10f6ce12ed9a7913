package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the routing engine, the cost model and the API layer.
// Callers match with errors.Is; messages are safe to return to clients.
var (
	ErrShapeMismatch       = errors.New("matrix shape mismatch")
	ErrInvalidLocations    = fmt.Errorf("%w: invalid location set", ErrShapeMismatch)
	ErrUnknownLocation     = errors.New("unknown location")
	ErrIndexOutOfRange     = errors.New("start index out of range")
	ErrNoSolutionFound     = errors.New("No solution found")
	ErrUnreachableLeg      = errors.New("route crosses an unreachable pair")
	ErrUnknownVehicleClass = errors.New("unknown vehicle class")
	ErrInvalidCostInput    = errors.New("invalid cost input")
	ErrProviderUnavailable = errors.New("distance provider unavailable")
	ErrInternalFailure     = errors.New("internal failure")
)

// IsValidation reports whether err was caused by bad caller input and was
// detected before any search ran.
func IsValidation(err error) bool {
	return errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrUnknownLocation) ||
		errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrUnknownVehicleClass) ||
		errors.Is(err, ErrInvalidCostInput)
}
