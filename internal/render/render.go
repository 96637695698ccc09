package render

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgeps"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

var ErrNoData = errors.New("render: no data to plot")

var (
	planktonColor = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	chemicalColor = color.RGBA{R: 30, G: 60, B: 220, A: 255}
)

// Options sizes exported figures.
type Options struct {
	Width  vg.Length
	Height vg.Length
}

func DefaultOptions() Options {
	return Options{Width: 6 * vg.Inch, Height: 4 * vg.Inch}
}

// OptionsInches builds Options from a size in inches.
func OptionsInches(w, h float64) Options {
	return Options{Width: vg.Length(w) * vg.Inch, Height: vg.Length(h) * vg.Inch}
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(ys))
	for i := range ys {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

func addLine(p *plot.Plot, xs, ys []float64, c color.Color, label string) (*plotter.Line, error) {
	line, err := plotter.NewLine(xys(xs, ys))
	if err != nil {
		return nil, err
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	p.Add(line)
	if label != "" {
		p.Legend.Add(label, line)
	}
	return line, nil
}

func format(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "", fmt.Errorf("render: %s has no file extension", path)
	}
	return ext, nil
}

// Save writes a single plot.
func Save(path string, p *plot.Plot, opts Options) error {
	if _, err := format(path); err != nil {
		return err
	}
	return p.Save(opts.Width, opts.Height, path)
}

// SaveStacked writes plots stacked vertically on one page, sharing width.
func SaveStacked(path string, opts Options, plots ...*plot.Plot) error {
	if len(plots) == 0 {
		return ErrNoData
	}
	ext, err := format(path)
	if err != nil {
		return err
	}

	c, err := draw.NewFormattedCanvas(opts.Width, opts.Height, ext)
	if err != nil {
		return err
	}
	drawStacked(draw.New(c), plots)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := c.WriteTo(f); err != nil {
		return err
	}
	return f.Close()
}

func drawStacked(dc draw.Canvas, plots []*plot.Plot) {
	table := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		table[i] = []*plot.Plot{p}
	}
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      3 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	canvases := plot.Align(table, tiles, dc)
	for i := range plots {
		plots[i].Draw(canvases[i][0])
	}
}
