package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir string
	// Run configuration
	configFile string
	preset     string
	runName    string
	order      string
	gridN      int
	gridLeft   float64
	gridRight  float64
	dt         float64
	// Input matrices
	chemicalFile string
	planktonFile string
	attachedFile string
	// Output selection
	step      int
	steps     []int
	fieldName string
	outFile   string
	frameRate int
	chartW    int
	chartH    int
	theme     string
	// Deposition curve
	shape     string
	maxStr    float64
	threshold float64
	width     float64
	cFrom     float64
	cTo       float64
	samples   int
	// Preset export
	writePath string
)

// main registers the planktonviz commands and executes the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "planktonviz",
		Short:        "plankton aggregation post-processing",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".planktonviz", "data directory")

	importCmd := newImportCmd()

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	recenterCmd := &cobra.Command{
		Use:   "recenter [run_id]",
		Short: "print one recentered step as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  recenterStep,
	}
	recenterCmd.Flags().IntVar(&step, "step", 0, "time step")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one recentered step",
		Args:  cobra.ExactArgs(1),
		RunE:  plotStep,
	}
	plotCmd.Flags().IntVar(&step, "step", 0, "time step")
	plotCmd.Flags().StringVar(&outFile, "out", "", "output figure (png, svg, pdf, eps); terminal chart if empty")
	addChartFlags(plotCmd)

	evolutionCmd := &cobra.Command{
		Use:   "evolution [run_id]",
		Short: "plot one field at several steps",
		Args:  cobra.ExactArgs(1),
		RunE:  plotEvolution,
	}
	evolutionCmd.Flags().StringVar(&fieldName, "field", "plankton", "field (plankton, free, attached, chemical)")
	evolutionCmd.Flags().IntSliceVar(&steps, "steps", nil, "steps to draw (default: five evenly spaced)")
	evolutionCmd.Flags().StringVar(&outFile, "out", "", "output figure; terminal chart if empty")
	addChartFlags(evolutionCmd)

	totalsCmd := &cobra.Command{
		Use:   "totals [run_id]",
		Short: "plot percentage of plankton and chemical left",
		Args:  cobra.ExactArgs(1),
		RunE:  plotTotals,
	}
	totalsCmd.Flags().StringVar(&outFile, "out", "", "output figure; terminal chart if empty")
	addChartFlags(totalsCmd)

	animateCmd := &cobra.Command{
		Use:   "animate [run_id]",
		Short: "export a recentered animation (mjpeg avi)",
		Args:  cobra.ExactArgs(1),
		RunE:  animateRun,
	}
	animateCmd.Flags().StringVar(&outFile, "out", "", "output file (default <run_id>.avi)")
	animateCmd.Flags().IntVar(&frameRate, "fps", 30, "frames per second")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "play recentered steps in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}
	viewCmd.Flags().IntVar(&frameRate, "fps", 30, "frames per second")
	viewCmd.Flags().StringVar(&theme, "theme", "ocean", "color theme")

	driftCmd := &cobra.Command{
		Use:   "drift [run_id]",
		Short: "track the aggregate peak",
		Args:  cobra.ExactArgs(1),
		RunE:  driftRun,
	}
	addChartFlags(driftCmd)

	depositionCmd := &cobra.Command{
		Use:   "deposition",
		Short: "tabulate or plot a deposition response",
		RunE:  depositionCurve,
	}
	depositionCmd.Flags().StringVar(&configFile, "config", "", "take the response from a config file")
	depositionCmd.Flags().StringVar(&shape, "shape", "soft_switch", "shape (constant, soft_switch, linear_soft_switch)")
	depositionCmd.Flags().Float64Var(&maxStr, "max", 1.0, "maximum deposition strength")
	depositionCmd.Flags().Float64Var(&threshold, "threshold", 0.08, "switch threshold")
	depositionCmd.Flags().Float64Var(&width, "width", 1.0/250, "transition width")
	depositionCmd.Flags().Float64Var(&cFrom, "from", 0, "lowest concentration")
	depositionCmd.Flags().Float64Var(&cTo, "to", 0.2, "highest concentration")
	depositionCmd.Flags().IntVar(&samples, "samples", 11, "number of samples")
	depositionCmd.Flags().StringVar(&outFile, "out", "", "output figure; table if empty")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}
	presetsCmd.Flags().StringVar(&writePath, "write", "", "write the preset to this path")

	rootCmd.AddCommand(importCmd, listCmd, showCmd, recenterCmd, plotCmd, evolutionCmd,
		totalsCmd, animateCmd, viewCmd, driftCmd, depositionCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "import simulation output as a run",
		RunE:  importRun,
	}
	importCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	importCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	importCmd.Flags().StringVar(&runName, "name", "", "run name")
	importCmd.Flags().StringVar(&order, "order", "second", "model order (first, second)")
	importCmd.Flags().IntVar(&gridN, "n", 256, "grid points")
	importCmd.Flags().Float64Var(&gridLeft, "left", 0, "left domain bound")
	importCmd.Flags().Float64Var(&gridRight, "right", 10, "right domain bound")
	importCmd.Flags().Float64Var(&dt, "dt", 0.01, "time between recorded steps")
	importCmd.Flags().StringVar(&chemicalFile, "chemical", "", "chemical history csv (one step per row)")
	importCmd.Flags().StringVar(&planktonFile, "plankton", "", "free plankton history csv")
	importCmd.Flags().StringVar(&attachedFile, "attached", "", "attached plankton history csv (first order)")
	importCmd.MarkFlagRequired("chemical")
	importCmd.MarkFlagRequired("plankton")
	return importCmd
}

func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&chartW, "width", 70, "terminal chart width")
	cmd.Flags().IntVar(&chartH, "height", 10, "terminal chart height")
}
