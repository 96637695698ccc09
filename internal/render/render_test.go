package render

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/san-kum/planktonviz/internal/deposition"
	"github.com/san-kum/planktonviz/internal/field"
	"github.com/san-kum/planktonviz/internal/history"
)

func testHistory(n, steps int) *history.History {
	h := &history.History{Order: history.SecondOrder, Dt: 0.1}
	for s := 0; s < steps; s++ {
		c := make([]float64, n)
		p := make([]float64, n)
		for i := range p {
			c[i] = 0.05 + 0.001*float64(i)
			p[i] = 1
		}
		p[(3*s)%n] = 4
		h.Chemical = append(h.Chemical, c)
		h.Free = append(h.Free, p)
	}
	return h
}

func smallOptions() Options {
	return Options{Width: 3 * vg.Inch, Height: 2 * vg.Inch}
}

func nonEmpty(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(data) == 0 {
		t.Fatalf("%s is empty", path)
	}
	return data
}

func TestCombined(t *testing.T) {
	g := field.Grid{N: 16, Left: 0, Right: 4}
	h := testHistory(16, 1)
	snap, _ := h.Snapshot(0)

	pp, cp, err := Combined(g, snap, "t=0")
	if err != nil {
		t.Fatalf("combined: %v", err)
	}
	if pp.Title.Text != "t=0" {
		t.Errorf("title = %q", pp.Title.Text)
	}
	if pp.X.Min != 0 || pp.X.Max != 4 || cp.X.Min != 0 || cp.X.Max != 4 {
		t.Errorf("x range not pinned to domain: [%v,%v] [%v,%v]", pp.X.Min, pp.X.Max, cp.X.Min, cp.X.Max)
	}

	path := filepath.Join(t.TempDir(), "combined.png")
	if err := SaveStacked(path, smallOptions(), pp, cp); err != nil {
		t.Fatalf("save: %v", err)
	}
	data := nonEmpty(t, path)
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestCombined_LengthMismatch(t *testing.T) {
	g := field.Grid{N: 8, Left: 0, Right: 1}
	_, _, err := Combined(g, field.Snapshot{Chemical: []float64{1, 2}, Density: []float64{1, 2}}, "")
	if !errors.Is(err, field.ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestFrameLimits(t *testing.T) {
	g := field.Grid{N: 8, Left: 0, Right: 1}
	snap := field.Snapshot{
		Chemical: []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
		Density:  []float64{0, 1, 2, 3, 9, 3, 2, 1},
	}

	pp, cp, err := Frame(g, snap, "")
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	if pp.Y.Min != -1 || pp.Y.Max != 10 {
		t.Errorf("plankton limits = [%v, %v], want [-1, 10]", pp.Y.Min, pp.Y.Max)
	}
	if cp.Y.Min == 0.1-chemicalPad {
		t.Error("flat chemical field should keep the automatic range")
	}
}

func TestEvolutionAndTotals(t *testing.T) {
	g := field.Grid{N: 16, Left: 0, Right: 4}
	h := testHistory(16, 4)
	dir := t.TempDir()

	steps := []int{0, 2, 3}
	rows, err := h.Series("plankton", steps)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	p, err := Evolution(g, rows, steps, h.Dt, "Total Plankton", "Plankton")
	if err != nil {
		t.Fatalf("evolution: %v", err)
	}
	path := filepath.Join(dir, "evolution.svg")
	if err := Save(path, p, smallOptions()); err != nil {
		t.Fatalf("save evolution: %v", err)
	}
	if !bytes.Contains(nonEmpty(t, path), []byte("<svg")) {
		t.Error("output is not an SVG")
	}

	chem, plankton, err := h.Totals()
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	tp, err := Totals(h.Times(), history.Percentages(plankton), history.Percentages(chem), "Totals")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	path = filepath.Join(dir, "totals.png")
	if err := Save(path, tp, smallOptions()); err != nil {
		t.Fatalf("save totals: %v", err)
	}
	nonEmpty(t, path)
}

func TestFigureErrors(t *testing.T) {
	g := field.Grid{N: 4, Left: 0, Right: 1}

	if _, err := Evolution(g, nil, nil, 0.1, "", ""); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	if _, err := Evolution(g, [][]float64{{1, 2}}, []int{0}, 0.1, "", ""); !errors.Is(err, field.ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := Totals([]float64{0, 1}, []float64{1}, []float64{1, 2}, ""); err == nil {
		t.Error("expected totals length error")
	}
	if err := Save(filepath.Join(t.TempDir(), "noext"), newPlot("", "", ""), smallOptions()); err == nil {
		t.Error("expected error for missing extension")
	}
	if err := SaveStacked(filepath.Join(t.TempDir(), "x.png"), smallOptions()); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestResponseCurve(t *testing.T) {
	r, _ := deposition.NewResponse(deposition.LinearSoftSwitch, deposition.DefaultParams(1))

	p, err := ResponseCurve(r, 0, 0.2, 200)
	if err != nil {
		t.Fatalf("response curve: %v", err)
	}
	path := filepath.Join(t.TempDir(), "response.pdf")
	if err := Save(path, p, smallOptions()); err != nil {
		t.Fatalf("save: %v", err)
	}
	nonEmpty(t, path)

	if _, err := ResponseCurve(r, 0, 0.2, 1); err == nil {
		t.Error("expected error for one sample")
	}
	if _, err := ResponseCurve(r, 1, 1, 10); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestAnimate(t *testing.T) {
	g := field.Grid{N: 16, Left: 0, Right: 4}
	h := testHistory(16, 3)
	path := filepath.Join(t.TempDir(), "run.avi")

	opts := AnimateOptions{
		Options: smallOptions(),
		FPS:     10,
		Title:   func(step int) string { return "frame" },
	}
	if err := Animate(context.Background(), path, g, h, opts); err != nil {
		t.Fatalf("animate: %v", err)
	}

	data := nonEmpty(t, path)
	if !bytes.HasPrefix(data, []byte("RIFF")) || !bytes.Contains(data[:16], []byte("AVI ")) {
		t.Error("output is not an AVI file")
	}
}

func TestAnimate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := field.Grid{N: 16, Left: 0, Right: 4}
	err := Animate(ctx, filepath.Join(t.TempDir(), "run.avi"), g, testHistory(16, 2), AnimateOptions{Options: smallOptions(), FPS: 10})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestAnimate_BadFPS(t *testing.T) {
	g := field.Grid{N: 16, Left: 0, Right: 4}
	if err := Animate(context.Background(), filepath.Join(t.TempDir(), "run.avi"), g, testHistory(16, 1), AnimateOptions{Options: smallOptions()}); err == nil {
		t.Error("expected error for zero fps")
	}
}
