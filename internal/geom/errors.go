package geom

import (
	"errors"
	"fmt"
)

// ErrInvalidRadius indicates a negative (or NaN) radius.
var ErrInvalidRadius = errors.New("geom: radius must be nonnegative")

// RadiusError carries the rejected radius.
type RadiusError struct {
	Radius float32
}

func (e *RadiusError) Error() string {
	return fmt.Sprintf("%s (got %g)", ErrInvalidRadius.Error(), e.Radius)
}

func (e *RadiusError) Unwrap() error {
	return ErrInvalidRadius
}

func checkRadius(r float32) error {
	// NaN fails this comparison too.
	if !(r >= 0) {
		return &RadiusError{Radius: r}
	}
	return nil
}
