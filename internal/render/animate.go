package render

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"log"

	"github.com/icza/mjpeg"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/planktonviz/internal/field"
	"github.com/san-kum/planktonviz/internal/history"
)

// AnimateOptions controls animation export.
type AnimateOptions struct {
	Options
	FPS     int
	Quality int
	// Title returns the caption of the frame at step; nil leaves frames
	// untitled.
	Title func(step int) string
	// Logger receives progress lines; nil discards them.
	Logger *log.Logger
}

const (
	planktonPad = 1.0
	chemicalPad = 1e-4
)

// Animate writes an MJPEG AVI with one recentered frame per recorded step.
// It stops at the first error or when ctx is done.
func Animate(ctx context.Context, path string, geo field.Geometry, h *history.History, opts AnimateOptions) error {
	if h.Steps() == 0 {
		return ErrNoData
	}
	if opts.FPS <= 0 {
		return fmt.Errorf("render: fps must be positive, got %d", opts.FPS)
	}
	if opts.Quality <= 0 {
		opts.Quality = 90
	}

	var (
		aw  mjpeg.AviWriter
		buf bytes.Buffer
	)
	defer func() {
		if aw != nil {
			aw.Close()
		}
	}()

	for step := 0; step < h.Steps(); step++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		snap, err := h.Snapshot(step)
		if err != nil {
			return err
		}
		title := ""
		if opts.Title != nil {
			title = opts.Title(step)
		}

		buf.Reset()
		w, ht, err := encodeFrame(&buf, geo, snap, title, opts)
		if err != nil {
			return fmt.Errorf("frame %d: %w", step, err)
		}

		if aw == nil {
			aw, err = mjpeg.New(path, int32(w), int32(ht), int32(opts.FPS))
			if err != nil {
				return err
			}
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			return fmt.Errorf("frame %d: %w", step, err)
		}

		if opts.Logger != nil && (step+1)%100 == 0 {
			opts.Logger.Printf("%d/%d frames", step+1, h.Steps())
		}
	}

	err := aw.Close()
	aw = nil
	return err
}

// Frame recenters snap and returns its panels with the animation's y-limits
// applied.
func Frame(geo field.Geometry, snap field.Snapshot, title string) (*plot.Plot, *plot.Plot, error) {
	g := field.FromGeometry(geo)
	centered, err := g.Recenter(snap)
	if err != nil {
		return nil, nil, err
	}
	pp, cp, err := panels(g, centered, title)
	if err != nil {
		return nil, nil, err
	}
	padLimits(pp, centered.Density, planktonPad)
	padLimits(cp, centered.Chemical, chemicalPad)
	return pp, cp, nil
}

// padLimits fixes the y range to [min-pad, max+pad] unless the field is flat.
func padLimits(p *plot.Plot, ys []float64, pad float64) {
	hi, lo := floats.Max(ys), floats.Min(ys)
	if hi-lo != 0 {
		p.Y.Min, p.Y.Max = lo-pad, hi+pad
	}
}

func encodeFrame(buf *bytes.Buffer, geo field.Geometry, snap field.Snapshot, title string, opts AnimateOptions) (int, int, error) {
	pp, cp, err := Frame(geo, snap, title)
	if err != nil {
		return 0, 0, err
	}

	img := vgimg.New(opts.Width, opts.Height)
	drawStacked(draw.New(img), []*plot.Plot{pp, cp})

	rgba := img.Image()
	if err := jpeg.Encode(buf, rgba, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return 0, 0, err
	}
	b := rgba.Bounds()
	return b.Dx(), b.Dy(), nil
}
