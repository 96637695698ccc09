package field

import (
	"errors"
	"fmt"
)

// Domain errors for field operations.
var (
	// ErrEmptyField indicates a zero-length field was passed where at least
	// one sample is required.
	ErrEmptyField = errors.New("field: empty field")

	// ErrLengthMismatch indicates the chemical and density fields (or a field
	// and its grid) disagree on the number of samples.
	ErrLengthMismatch = errors.New("field: length mismatch")

	// ErrInvalidGrid indicates a grid with non-positive size or an empty
	// interval.
	ErrInvalidGrid = errors.New("field: invalid grid")
)

// RecenterError wraps a recentering failure with the offending lengths.
type RecenterError struct {
	Chemical int
	Density  int
	GridSize int
	Wrapped  error
}

func (e *RecenterError) Error() string {
	if e.GridSize > 0 {
		return fmt.Sprintf("%v (chemical=%d, density=%d, grid=%d)", e.Wrapped, e.Chemical, e.Density, e.GridSize)
	}
	return fmt.Sprintf("%v (chemical=%d, density=%d)", e.Wrapped, e.Chemical, e.Density)
}

func (e *RecenterError) Unwrap() error {
	return e.Wrapped
}
