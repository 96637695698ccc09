// Package history holds the recorded field histories of a simulation run and
// the per-step derived quantities the plotting layer consumes.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/planktonviz/internal/field"
)

var (
	ErrNoSteps       = errors.New("history: no recorded steps")
	ErrStepRange     = errors.New("history: step out of range")
	ErrShape         = errors.New("history: inconsistent field shape")
	ErrUnknownOrder  = errors.New("history: unknown order")
	ErrAttachedField = errors.New("history: attached field presence does not match order")
)

// Order is the time-discretization variant that produced the history.
type Order int

const (
	// FirstOrder runs track free (p) and attached (q) plankton separately.
	FirstOrder Order = iota + 1
	// SecondOrder runs track a single plankton density.
	SecondOrder
)

func (o Order) String() string {
	switch o {
	case FirstOrder:
		return "first"
	case SecondOrder:
		return "second"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "1", "fo":
		return FirstOrder, nil
	case "second", "2", "so":
		return SecondOrder, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOrder, s)
}

// History is a run's recorded fields, indexed [step][sample].
type History struct {
	Order    Order
	Dt       float64
	Chemical [][]float64
	Free     [][]float64
	Attached [][]float64 // first order only
}

func (h *History) Steps() int { return len(h.Chemical) }

// Validate checks that every field has the same number of steps and that each
// row holds n samples.
func (h *History) Validate(n int) error {
	if h.Order != FirstOrder && h.Order != SecondOrder {
		return fmt.Errorf("%w: %d", ErrUnknownOrder, int(h.Order))
	}
	if len(h.Chemical) == 0 {
		return ErrNoSteps
	}
	hasAttached := len(h.Attached) > 0
	if hasAttached != (h.Order == FirstOrder) {
		return fmt.Errorf("%w (order=%s)", ErrAttachedField, h.Order)
	}

	fields := map[string][][]float64{"chemical": h.Chemical, "free": h.Free}
	if hasAttached {
		fields["attached"] = h.Attached
	}
	for name, rows := range fields {
		if len(rows) != len(h.Chemical) {
			return fmt.Errorf("%w: %s has %d steps, chemical has %d", ErrShape, name, len(rows), len(h.Chemical))
		}
		for step, row := range rows {
			if len(row) != n {
				return fmt.Errorf("%w: %s step %d has %d samples, want %d", ErrShape, name, step, len(row), n)
			}
		}
	}
	return nil
}

func (h *History) checkStep(step int) error {
	if step < 0 || step >= h.Steps() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrStepRange, step, h.Steps())
	}
	return h.checkRows(step)
}

// checkRows guards histories that were built by hand and never validated.
func (h *History) checkRows(step int) error {
	if step >= len(h.Free) {
		return fmt.Errorf("%w: free has %d steps, chemical has %d", ErrShape, len(h.Free), h.Steps())
	}
	if h.Order == FirstOrder && step >= len(h.Attached) {
		return fmt.Errorf("%w: attached has %d steps, chemical has %d", ErrShape, len(h.Attached), h.Steps())
	}
	return nil
}

// Density returns the total plankton density at step: p, or p+q for first
// order runs.
func (h *History) Density(step int) ([]float64, error) {
	if err := h.checkStep(step); err != nil {
		return nil, err
	}
	p := make([]float64, len(h.Free[step]))
	copy(p, h.Free[step])
	if h.Order == FirstOrder {
		if len(h.Attached[step]) != len(p) {
			return nil, fmt.Errorf("%w: step %d", ErrShape, step)
		}
		floats.Add(p, h.Attached[step])
	}
	return p, nil
}

// Snapshot returns the chemical and total density at step.
func (h *History) Snapshot(step int) (field.Snapshot, error) {
	p, err := h.Density(step)
	if err != nil {
		return field.Snapshot{}, err
	}
	c := make([]float64, len(h.Chemical[step]))
	copy(c, h.Chemical[step])
	return field.Snapshot{Chemical: c, Density: p}, nil
}

// Recentered returns the snapshot at step rotated so its density peak sits at
// the grid midpoint.
func (h *History) Recentered(geo field.Geometry, step int) (field.Snapshot, error) {
	s, err := h.Snapshot(step)
	if err != nil {
		return field.Snapshot{}, err
	}
	out, err := field.FromGeometry(geo).Recenter(s)
	if err != nil {
		return field.Snapshot{}, fmt.Errorf("step %d: %w", step, err)
	}
	return out, nil
}

// RecenterAll recenters every step. Steps are processed in parallel chunks;
// the result is in step order.
func (h *History) RecenterAll(ctx context.Context, geo field.Geometry) ([]field.Snapshot, error) {
	steps := h.Steps()
	if steps == 0 {
		return nil, ErrNoSteps
	}

	out := make([]field.Snapshot, steps)
	errs := make([]error, steps)

	ParallelFor(steps, 16, func(start, end int) {
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				errs[i] = ctx.Err()
				return
			}
			out[i], errs[i] = h.Recentered(geo, i)
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Totals returns the spatial sum of chemical and total plankton per step.
func (h *History) Totals() (chemical, plankton []float64, err error) {
	chemical = make([]float64, h.Steps())
	plankton = make([]float64, h.Steps())
	for i := range h.Chemical {
		if err := h.checkRows(i); err != nil {
			return nil, nil, err
		}
		chemical[i] = floats.Sum(h.Chemical[i])
		plankton[i] = floats.Sum(h.Free[i])
		if h.Order == FirstOrder {
			plankton[i] += floats.Sum(h.Attached[i])
		}
	}
	return chemical, plankton, nil
}

// Percentages scales a series to percent of its first value.
func Percentages(series []float64) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	copy(out, series)
	floats.Scale(100/series[0], out)
	return out
}

// Time returns the simulation time of step.
func (h *History) Time(step int) float64 {
	return float64(step) * h.Dt
}

// Times returns Steps() evenly spaced values from 0 to Steps()*Dt inclusive,
// the time axis used for totals plots.
func (h *History) Times() []float64 {
	n := h.Steps()
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []float64{0}
	}
	return floats.Span(make([]float64, n), 0, float64(n)*h.Dt)
}

// Select validates requested steps and returns them unchanged.
func (h *History) Select(steps []int) ([]int, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	for _, s := range steps {
		if err := h.checkStep(s); err != nil {
			return nil, err
		}
	}
	return steps, nil
}

// Series returns rows of the named field at the given steps. Name is one of
// "chemical", "plankton" (total density), "free" or "attached".
func (h *History) Series(name string, steps []int) ([][]float64, error) {
	out := make([][]float64, 0, len(steps))
	for _, s := range steps {
		if err := h.checkStep(s); err != nil {
			return nil, err
		}
		var row []float64
		switch name {
		case "chemical":
			row = h.Chemical[s]
		case "free":
			row = h.Free[s]
		case "attached":
			if h.Order != FirstOrder {
				return nil, fmt.Errorf("%w (order=%s)", ErrAttachedField, h.Order)
			}
			row = h.Attached[s]
		case "plankton":
			p, err := h.Density(s)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
			continue
		default:
			return nil, fmt.Errorf("history: unknown field %q", name)
		}
		c := make([]float64, len(row))
		copy(c, row)
		out = append(out, c)
	}
	return out, nil
}
