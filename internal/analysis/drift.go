package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/planktonviz/internal/field"
	"github.com/san-kum/planktonviz/internal/history"
)

var ErrTooFewSteps = errors.New("analysis: need at least two steps")

// PeakIndices returns the first-maximum index of the total density at every
// step of h.
func PeakIndices(h *history.History) ([]int, error) {
	out := make([]int, h.Steps())
	for step := range out {
		p, err := h.Density(step)
		if err != nil {
			return nil, err
		}
		k, err := field.PeakIndex(p)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", step, err)
		}
		out[step] = k
	}
	return out, nil
}

// DriftResult is the unwrapped motion of the density peak.
type DriftResult struct {
	Indices      []int
	Displacement []float64 // cumulative, in domain units, relative to step 0
	Velocity     float64   // mean displacement per unit time
	Wraps        int       // net number of times the peak crossed the boundary
}

// Drift unwraps peak indices on a periodic grid. A jump of more than half
// the grid between consecutive steps is taken as a boundary crossing.
func Drift(indices []int, geo field.Geometry, dt float64) (*DriftResult, error) {
	if len(indices) < 2 {
		return nil, ErrTooFewSteps
	}
	if dt <= 0 {
		return nil, fmt.Errorf("dt must be positive, got %f", dt)
	}
	g := field.FromGeometry(geo)
	if err := g.Validate(); err != nil {
		return nil, err
	}

	res := &DriftResult{
		Indices:      indices,
		Displacement: make([]float64, len(indices)),
	}

	dx := g.Spacing()
	half := g.N / 2
	cells := 0
	for i := 1; i < len(indices); i++ {
		d := indices[i] - indices[i-1]
		switch {
		case d > half:
			d -= g.N
			res.Wraps--
		case d < -half:
			d += g.N
			res.Wraps++
		}
		cells += d
		res.Displacement[i] = float64(cells) * dx
	}

	elapsed := float64(len(indices)-1) * dt
	res.Velocity = res.Displacement[len(indices)-1] / elapsed
	return res, nil
}

// MaxExcursion returns the largest absolute displacement reached.
func (r *DriftResult) MaxExcursion() float64 {
	if len(r.Displacement) == 0 {
		return 0
	}
	abs := make([]float64, len(r.Displacement))
	for i, v := range r.Displacement {
		if v < 0 {
			v = -v
		}
		abs[i] = v
	}
	return floats.Max(abs)
}
