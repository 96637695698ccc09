package field

import (
	"fmt"
	"math"
)

// Geometry is anything that can describe a periodic 1-D grid. Plotting and
// recentering helpers accept it so they do not depend on a particular run
// configuration type.
type Geometry interface {
	Size() int
	Bounds() (left, right float64)
}

// Grid is a periodic grid of N samples on [Left, Right).
type Grid struct {
	N     int
	Left  float64
	Right float64
}

func NewGrid(n int, left, right float64) (Grid, error) {
	g := Grid{N: n, Left: left, Right: right}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// FromGeometry copies any Geometry into a Grid.
func FromGeometry(geo Geometry) Grid {
	left, right := geo.Bounds()
	return Grid{N: geo.Size(), Left: left, Right: right}
}

func (g Grid) Size() int                     { return g.N }
func (g Grid) Bounds() (left, right float64) { return g.Left, g.Right }

func (g Grid) Validate() error {
	if g.N < 1 {
		return fmt.Errorf("%w: n=%d", ErrInvalidGrid, g.N)
	}
	if !(g.Right > g.Left) || math.IsInf(g.Right-g.Left, 0) {
		return fmt.Errorf("%w: bounds [%g, %g)", ErrInvalidGrid, g.Left, g.Right)
	}
	return nil
}

// Midpoint returns floor((N+1)/2), the index the density peak is moved to.
func (g Grid) Midpoint() int {
	return Midpoint(g.N)
}

// Spacing is the distance between neighbouring samples.
func (g Grid) Spacing() float64 {
	return (g.Right - g.Left) / float64(g.N)
}

// Points returns the sample positions (cell midpoints).
func (g Grid) Points() []float64 {
	dx := g.Spacing()
	xs := make([]float64, g.N)
	for i := range xs {
		xs[i] = g.Left + (float64(i)+0.5)*dx
	}
	return xs
}

// Wrap maps any integer index onto [0, N).
func (g Grid) Wrap(i int) int {
	return wrap(i, g.N)
}

// Recenter rotates s so its density peak sits at the grid midpoint. Both
// fields must have exactly N samples.
func (g Grid) Recenter(s Snapshot) (Snapshot, error) {
	if len(s.Chemical) != g.N || len(s.Density) != g.N {
		return Snapshot{}, &RecenterError{
			Chemical: len(s.Chemical),
			Density:  len(s.Density),
			GridSize: g.N,
			Wrapped:  ErrLengthMismatch,
		}
	}
	c, p, err := Recenter(s.Chemical, s.Density)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Chemical: c, Density: p}, nil
}

// Snapshot is the (chemical, density) pair at one recorded time step.
type Snapshot struct {
	Chemical []float64
	Density  []float64
}

func (s Snapshot) Len() int { return len(s.Density) }

func (s Snapshot) Clone() Snapshot {
	return Snapshot{Chemical: clone(s.Chemical), Density: clone(s.Density)}
}

func (s Snapshot) IsValid() bool {
	for _, v := range s.Chemical {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, v := range s.Density {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clone(xs []float64) []float64 {
	c := make([]float64, len(xs))
	copy(c, xs)
	return c
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
