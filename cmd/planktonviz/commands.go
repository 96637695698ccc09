package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/planktonviz/internal/analysis"
	"github.com/san-kum/planktonviz/internal/config"
	"github.com/san-kum/planktonviz/internal/deposition"
	"github.com/san-kum/planktonviz/internal/field"
	"github.com/san-kum/planktonviz/internal/history"
	"github.com/san-kum/planktonviz/internal/render"
	"github.com/san-kum/planktonviz/internal/storage"
	"github.com/san-kum/planktonviz/internal/viz"
)

func importRun(cmd *cobra.Command, args []string) error {
	chem, err := storage.ReadMatrixFile(chemicalFile)
	if err != nil {
		return fmt.Errorf("chemical: %w", err)
	}
	free, err := storage.ReadMatrixFile(planktonFile)
	if err != nil {
		return fmt.Errorf("plankton: %w", err)
	}
	var attached [][]float64
	if attachedFile != "" {
		if attached, err = storage.ReadMatrixFile(attachedFile); err != nil {
			return fmt.Errorf("attached: %w", err)
		}
	}

	cfg, h, err := resolveImport(cmd, chem, free, attached)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, h)
	if err != nil {
		return err
	}

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("order: %s\n", h.Order)
	fmt.Printf("steps: %d\n", h.Steps())
	fmt.Printf("grid: %d points on [%g, %g)\n", cfg.Grid.N, cfg.Grid.Left, cfg.Grid.Right)
	return nil
}

// resolveImport builds the run configuration for imported matrices. A preset
// is applied first, then a config file, then flags the user actually set.
// Without a preset or config file the grid size comes from the data and an
// attached field implies a first order run.
func resolveImport(cmd *cobra.Command, chem, free, attached [][]float64) (*config.Config, *history.History, error) {
	cfg := config.DefaultConfig()
	explicit := false

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, sortedPresets())
		}
		explicit = true
	}

	// Config file overrides preset
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		explicit = true
	}

	// CLI flags override config
	if cmd.Flags().Changed("name") {
		cfg.Name = runName
	}
	if cmd.Flags().Changed("order") {
		cfg.Order = order
	} else if !explicit && attached != nil {
		cfg.Order = history.FirstOrder.String()
	}
	if cmd.Flags().Changed("n") {
		cfg.Grid.N = gridN
	} else if !explicit && len(chem) > 0 {
		cfg.Grid.N = len(chem[0])
	}
	if cmd.Flags().Changed("left") {
		cfg.Grid.Left = gridLeft
	}
	if cmd.Flags().Changed("right") {
		cfg.Grid.Right = gridRight
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}

	o, err := cfg.HistoryOrder()
	if err != nil {
		return nil, nil, err
	}
	h := &history.History{
		Order:    o,
		Dt:       cfg.Dt,
		Chemical: chem,
		Free:     free,
		Attached: attached,
	}
	return cfg, h, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tORDER\tSTEPS\tN\tDT\tSHAPE")

	for _, run := range runs {
		n, dtv, shapeName := 0, 0.0, ""
		if run.Config != nil {
			n, dtv, shapeName = run.Config.Grid.N, run.Config.Dt, run.Config.Deposition.Shape
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.4g\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Order,
			run.Steps,
			n,
			dtv,
			shapeName,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// loadRun returns a stored run with the configuration it was imported with.
func loadRun(runID string) (*storage.RunMetadata, *history.History, field.Grid, error) {
	meta, h, err := storage.New(dataDir).LoadHistory(runID)
	if err != nil {
		return nil, nil, field.Grid{}, err
	}
	if meta.Config == nil {
		return nil, nil, field.Grid{}, fmt.Errorf("run %s has no configuration", runID)
	}
	return meta, h, meta.Config.GridSpec(), nil
}

func recenterStep(cmd *cobra.Command, args []string) error {
	_, h, grid, err := loadRun(args[0])
	if err != nil {
		return err
	}

	snap, err := h.Recentered(grid, step)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	w.Write([]string{"x", "chemical", "density"})
	for i, x := range grid.Points() {
		w.Write([]string{
			strconv.FormatFloat(x, 'g', -1, 64),
			strconv.FormatFloat(snap.Chemical[i], 'g', -1, 64),
			strconv.FormatFloat(snap.Density[i], 'g', -1, 64),
		})
	}
	w.Flush()
	return w.Error()
}

func plotStep(cmd *cobra.Command, args []string) error {
	meta, h, grid, err := loadRun(args[0])
	if err != nil {
		return err
	}
	cfg := meta.Config
	t := h.Time(step)

	if outFile != "" {
		snap, err := h.Snapshot(step)
		if err != nil {
			return err
		}
		top, bottom, err := render.Combined(grid, snap, cfg.Title(t))
		if err != nil {
			return err
		}
		if err := render.SaveStacked(outFile, render.OptionsInches(cfg.Render.Width, cfg.Render.Height), top, bottom); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}

	centered, err := h.Recentered(grid, step)
	if err != nil {
		return err
	}
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("%s\n\n", cfg.Title(t))
	fmt.Println(viz.Snapshot(centered, fmt.Sprintf("(step %d)", step), chartW, chartH, viz.ThemeOcean))
	return nil
}

// spread picks up to k evenly spaced steps out of n, always including the
// first and last.
func spread(n, k int) []int {
	if n <= 0 {
		return nil
	}
	if k > n {
		k = n
	}
	if k <= 1 {
		return []int{0}
	}
	out := make([]int, k)
	for i := range out {
		out[i] = i * (n - 1) / (k - 1)
	}
	return out
}

func plotEvolution(cmd *cobra.Command, args []string) error {
	meta, h, grid, err := loadRun(args[0])
	if err != nil {
		return err
	}

	selected := steps
	if len(selected) == 0 {
		selected = spread(h.Steps(), 5)
	}
	if selected, err = h.Select(selected); err != nil {
		return err
	}
	rows, err := h.Series(fieldName, selected)
	if err != nil {
		return err
	}

	if outFile != "" {
		p, err := render.Evolution(grid, rows, selected, h.Dt, config.AxisLabel(fieldName), meta.Config.SeriesTitle(fieldName))
		if err != nil {
			return err
		}
		opts := render.OptionsInches(meta.Config.Render.Width, meta.Config.Render.Height)
		if err := render.Save(outFile, p, opts); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("%s\n", meta.Config.SeriesTitle(fieldName))
	fmt.Printf("steps: %v\n\n", selected)
	fmt.Println(viz.Many(rows, config.AxisLabel(fieldName), chartW, chartH))
	return nil
}

func plotTotals(cmd *cobra.Command, args []string) error {
	meta, h, _, err := loadRun(args[0])
	if err != nil {
		return err
	}

	chem, plank, err := h.Totals()
	if err != nil {
		return err
	}
	chemPct := history.Percentages(chem)
	plankPct := history.Percentages(plank)
	times := h.Times()

	if outFile != "" {
		p, err := render.Totals(times, plankPct, chemPct, meta.Config.TotalsTitle())
		if err != nil {
			return err
		}
		opts := render.OptionsInches(meta.Config.Render.Width, meta.Config.Render.Height)
		if err := render.Save(outFile, p, opts); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}

	last := len(times) - 1
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("%s\n", meta.Config.TotalsTitle())
	fmt.Printf("plankton left: %.2f%%\n", plankPct[last])
	fmt.Printf("chemical left: %.2f%%\n\n", chemPct[last])
	fmt.Println(viz.Many([][]float64{plankPct, chemPct}, "percentage left (plankton, chemical)",
		chartW, chartH, viz.ThemeOcean.Plankton, viz.ThemeOcean.Chemical))
	return nil
}

func animateRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	meta, h, grid, err := loadRun(runID)
	if err != nil {
		return err
	}
	cfg := meta.Config

	if !cmd.Flags().Changed("fps") {
		frameRate = cfg.Render.FPS
	}
	out := outFile
	if out == "" {
		out = runID + ".avi"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := log.New(os.Stderr, "animate: ", log.LstdFlags)
	logger.Printf("rendering %d frames of %s at %d fps", h.Steps(), runID, frameRate)

	err = render.Animate(ctx, out, grid, h, render.AnimateOptions{
		Options: render.OptionsInches(cfg.Render.Width, cfg.Render.Height),
		FPS:     frameRate,
		Title:   func(step int) string { return cfg.Title(h.Time(step)) },
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", out)
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	meta, h, grid, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("fps") {
		frameRate = meta.Config.Render.FPS
	}

	frames, err := h.RecenterAll(context.Background(), grid)
	if err != nil {
		return err
	}
	times := make([]float64, len(frames))
	for i := range times {
		times[i] = h.Time(i)
	}

	p := viz.NewPlayer(meta.Name, frames, times, frameRate).WithTheme(viz.GetTheme(theme))
	return viz.Run(p)
}

func driftRun(cmd *cobra.Command, args []string) error {
	meta, h, grid, err := loadRun(args[0])
	if err != nil {
		return err
	}

	indices, err := analysis.PeakIndices(h)
	if err != nil {
		return err
	}
	res, err := analysis.Drift(indices, grid, h.Dt)
	if err != nil {
		return err
	}

	last := len(res.Displacement) - 1
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("steps: %d\n", len(res.Indices))
	fmt.Printf("peak: index %d -> %d\n", res.Indices[0], res.Indices[last])
	fmt.Printf("displacement: %.6f\n", res.Displacement[last])
	fmt.Printf("max excursion: %.6f\n", res.MaxExcursion())
	fmt.Printf("velocity: %.6f\n", res.Velocity)
	fmt.Printf("boundary crossings: %d\n\n", res.Wraps)
	fmt.Println(viz.Chart(res.Displacement, "peak displacement", chartW, chartH, viz.ThemeOcean.Plankton))
	return nil
}

func depositionCurve(cmd *cobra.Command, args []string) error {
	var resp deposition.Response
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if resp, err = cfg.DepositionResponse(); err != nil {
			return err
		}
	} else {
		s, err := deposition.ParseShape(shape)
		if err != nil {
			return err
		}
		resp, err = deposition.NewResponse(s, deposition.Params{
			MaxStrength:     maxStr,
			Threshold:       threshold,
			TransitionWidth: width,
		})
		if err != nil {
			return err
		}
	}

	if outFile != "" {
		p, err := render.ResponseCurve(resp, cFrom, cTo, samples)
		if err != nil {
			return err
		}
		if err := render.Save(outFile, p, render.DefaultOptions()); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}

	if samples < 2 {
		return fmt.Errorf("need at least 2 samples, got %d", samples)
	}
	cs := floats.Span(make([]float64, samples), cFrom, cTo)
	rates := resp.Rates(cs)

	fmt.Printf("%s\n\n", resp)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "C\tRATE")
	for i, c := range cs {
		fmt.Fprintf(w, "%.6g\t%.6g\n", c, rates[i])
	}
	return w.Flush()
}

func sortedPresets() []string {
	names := config.ListPresets()
	sort.Strings(names)
	return names
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tORDER\tSHAPE\tN\tDT")
		for _, name := range sortedPresets() {
			p := config.GetPreset(name)
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\n", name, p.Order, p.Deposition.Shape, p.Grid.N, p.Dt)
		}
		return w.Flush()
	}

	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], sortedPresets())
	}
	if writePath != "" {
		if err := config.Save(writePath, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", writePath)
		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
