package render

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"

	"github.com/san-kum/planktonviz/internal/deposition"
	"github.com/san-kum/planktonviz/internal/field"
)

// Combined recenters snap on its density peak and returns the plankton and
// chemical panels of a combined figure. The panels share the x range.
func Combined(geo field.Geometry, snap field.Snapshot, title string) (*plot.Plot, *plot.Plot, error) {
	g := field.FromGeometry(geo)
	centered, err := g.Recenter(snap)
	if err != nil {
		return nil, nil, err
	}
	return panels(g, centered, title)
}

func panels(g field.Grid, centered field.Snapshot, title string) (*plot.Plot, *plot.Plot, error) {
	xs := g.Points()

	pp := newPlot(title, "x", "ρ: plankton density")
	if _, err := addLine(pp, xs, centered.Density, planktonColor, "plankton"); err != nil {
		return nil, nil, err
	}

	cp := newPlot("", "x", "c: chemical concentration")
	if _, err := addLine(cp, xs, centered.Chemical, chemicalColor, "chemical"); err != nil {
		return nil, nil, err
	}

	for _, p := range []*plot.Plot{pp, cp} {
		p.X.Min, p.X.Max = g.Left, g.Right
	}
	return pp, cp, nil
}

// Evolution draws one line per selected step of a single field. rows[i] is
// the field at steps[i].
func Evolution(geo field.Geometry, rows [][]float64, steps []int, dt float64, yLabel, title string) (*plot.Plot, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	if len(rows) != len(steps) {
		return nil, fmt.Errorf("render: %d rows for %d steps", len(rows), len(steps))
	}
	g := field.FromGeometry(geo)
	xs := g.Points()

	p := newPlot(title, "x", yLabel)
	for i, row := range rows {
		if len(row) != len(xs) {
			return nil, fmt.Errorf("%w: step %d has %d samples, grid has %d", field.ErrLengthMismatch, steps[i], len(row), len(xs))
		}
		label := fmt.Sprintf("T = %g", float64(steps[i])*dt)
		if _, err := addLine(p, xs, row, plotutil.Color(i), label); err != nil {
			return nil, err
		}
	}
	p.X.Min, p.X.Max = g.Left, g.Right
	return p, nil
}

// Totals plots the percentage of plankton and chemical left over time.
func Totals(times, plankton, chemical []float64, title string) (*plot.Plot, error) {
	if len(times) == 0 {
		return nil, ErrNoData
	}
	if len(plankton) != len(times) || len(chemical) != len(times) {
		return nil, fmt.Errorf("render: totals length mismatch (times=%d plankton=%d chemical=%d)", len(times), len(plankton), len(chemical))
	}

	p := newPlot(title, "Time", "Percentage Left")
	if _, err := addLine(p, times, plankton, planktonColor, "Plankton"); err != nil {
		return nil, err
	}
	if _, err := addLine(p, times, chemical, chemicalColor, "Chemical"); err != nil {
		return nil, err
	}
	return p, nil
}

// ResponseCurve samples a deposition response over [from, to].
func ResponseCurve(r deposition.Response, from, to float64, samples int) (*plot.Plot, error) {
	if samples < 2 {
		return nil, fmt.Errorf("render: need at least 2 samples, got %d", samples)
	}
	if !(to > from) {
		return nil, fmt.Errorf("render: empty concentration range [%g, %g]", from, to)
	}
	cs := floats.Span(make([]float64, samples), from, to)

	p := newPlot(fmt.Sprintf("Deposition: %s", r), "c: chemical concentration", "deposition rate")
	if _, err := addLine(p, cs, r.Rates(cs), planktonColor, r.Shape.String()); err != nil {
		return nil, err
	}
	return p, nil
}
