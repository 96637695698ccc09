package field

import "gonum.org/v1/gonum/floats"

// Midpoint returns floor((n+1)/2).
func Midpoint(n int) int {
	return (n + 1) / 2
}

// PeakIndex returns the index of the first maximum of density. Ties resolve
// to the lowest index.
func PeakIndex(density []float64) (int, error) {
	if len(density) == 0 {
		return 0, ErrEmptyField
	}
	return floats.MaxIdx(density), nil
}

// Recenter cyclically rotates chemical and density so that the first maximum
// of density lands on Midpoint(len(density)).
//
// When the peak already sits at the midpoint the fields are returned as
// copies, untouched. Otherwise both fields are shifted by the peak's distance
// to the midpoint and the last sample is overwritten with the first, since
// the two ends of the periodic interval are treated as the same point.
//
// A one-sample grid is left as is: every shift is zero modulo 1.
func Recenter(chemical, density []float64) ([]float64, []float64, error) {
	n := len(density)
	if len(chemical) != n {
		return nil, nil, &RecenterError{Chemical: len(chemical), Density: n, Wrapped: ErrLengthMismatch}
	}
	if n == 0 {
		return nil, nil, &RecenterError{Wrapped: ErrEmptyField}
	}

	k := floats.MaxIdx(density)
	mid := Midpoint(n)
	if k == mid {
		return clone(chemical), clone(density), nil
	}

	shift := mid - k
	c := make([]float64, n)
	p := make([]float64, n)
	for i := 0; i < n; i++ {
		j := wrap(i+shift, n)
		p[j] = density[i]
		c[j] = chemical[i]
	}
	p[n-1] = p[0]
	c[n-1] = c[0]

	return c, p, nil
}
