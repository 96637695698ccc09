package viz

import (
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/planktonviz/internal/field"
)

const (
	DefaultChartWidth  = 80
	DefaultChartHeight = 10
)

// Chart plots one series.
func Chart(data []float64, caption string, width, height int, c asciigraph.AnsiColor) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(c),
	)
}

// Snapshot renders the plankton and chemical fields as two stacked charts.
// The two fields have unrelated scales, so they are not overlaid.
func Snapshot(snap field.Snapshot, caption string, width, height int, theme Theme) string {
	var b strings.Builder
	b.WriteString(Chart(snap.Density, "plankton "+caption, width, height, theme.Plankton))
	b.WriteString("\n\n")
	b.WriteString(Chart(snap.Chemical, "chemical "+caption, width, height, theme.Chemical))
	return b.String()
}

// Many overlays several series of equal scale, e.g. totals percentages.
func Many(series [][]float64, caption string, width, height int, colors ...asciigraph.AnsiColor) string {
	if len(series) == 0 {
		return ""
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	}
	if len(colors) > 0 {
		opts = append(opts, asciigraph.SeriesColors(colors...))
	}
	return asciigraph.PlotMany(series, opts...)
}
