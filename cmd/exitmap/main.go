package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/exitmap/internal/analysis"
	"github.com/san-kum/exitmap/internal/automation"
	"github.com/san-kum/exitmap/internal/config"
	"github.com/san-kum/exitmap/internal/export"
	"github.com/san-kum/exitmap/internal/field"
	"github.com/san-kum/exitmap/internal/geom"
	"github.com/san-kum/exitmap/internal/logging"
	"github.com/san-kum/exitmap/internal/storage"
	"github.com/san-kum/exitmap/internal/trajectory"
	"github.com/san-kum/exitmap/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir   string
	logLevel  string
	themeName string

	shapeKind string
	trajName  string
	accuracy  int
	gridSize  int
	step      float64
	maxSteps  int
	workers   int
	// trajectory parameters
	growth   float64
	logBase  float64
	invScale float64
	// shape dimensions
	centerX   float64
	centerY   float64
	radius    float64
	side      float64
	width     float64
	height    float64
	triHeight float64
	// Config file
	configFile string
	// Preset name
	preset string

	rowIndex    int
	showOutline bool
	originX     float64
	originY     float64
	outFile     string
	cellSize    float64

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trials     int
	seed       int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "exitmap",
		Short:         "mean exit time maps for planar shapes",
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viz.ApplyTheme(viz.GetTheme(themeName))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".exitmap", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (warn, info, debug, trace)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", viz.ThemeRdYlGn.Name, "color theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "build and store an exit time field",
		Args:  cobra.NoArgs,
		RunE:  runField,
	}
	addFieldFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "render a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&rowIndex, "row", -1, "plot the exit times along one grid row")
	showCmd.Flags().BoolVar(&showOutline, "outline", false, "draw the shape boundary")

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "exit time per direction from one origin",
		Args:  cobra.NoArgs,
		RunE:  profileOrigin,
	}
	addFieldFlags(profileCmd)
	profileCmd.Flags().Float64Var(&originX, "x", 0, "origin x (default: shape centroid)")
	profileCmd.Flags().Float64Var(&originY, "y", 0, "origin y (default: shape centroid)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run field to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run field to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run heatmap to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Float64Var(&cellSize, "cell", 16, "cell size in pixels")
	for _, c := range []*cobra.Command{exportJSONCmd, exportCSVCmd, exportSVGCmd} {
		c.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [shape]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark field builds",
		Args:  cobra.NoArgs,
		RunE:  benchField,
	}
	addFieldFlags(benchCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "build and store every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "mean exit time from the centroid across a parameter range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addFieldFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", automation.ParamRadius,
		fmt.Sprintf("parameter to sweep (%s)", strings.Join(automation.SweepParams(), ", ")))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "monte carlo estimate over random interior origins",
		Args:  cobra.NoArgs,
		RunE:  runSample,
	}
	addFieldFlags(sampleCmd)
	sampleCmd.Flags().IntVar(&trials, "trials", 200, "number of random origins")
	sampleCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, profileCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		presetsCmd, benchCmd, scenarioCmd, sweepCmd, sampleCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addFieldFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	params := trajectory.DefaultParams()

	fs := cmd.Flags()
	fs.StringVar(&shapeKind, "shape", def.Shape.Kind, "shape (circle, square, rectangle, triangle)")
	fs.StringVar(&trajName, "trajectory", def.Trajectory, "trajectory function")
	fs.IntVar(&accuracy, "accuracy", def.Accuracy, "direction exponent (2^accuracy directions)")
	fs.IntVar(&gridSize, "grid", def.GridSize, "lattice points per axis")
	fs.Float64Var(&step, "step", def.Step, "time step")
	fs.IntVar(&maxSteps, "max-steps", def.MaxSteps, "step bound per direction")
	fs.IntVar(&workers, "workers", 0, "concurrent rows (0 = one per CPU)")
	fs.Float64Var(&growth, "growth", params.GrowthRate, "exponential growth rate")
	fs.Float64Var(&logBase, "base", params.LogBase, "logarithm base")
	fs.Float64Var(&invScale, "scale", params.InverseScale, "inverse trajectory scale")
	fs.Float64Var(&centerX, "cx", 0, "shape center x")
	fs.Float64Var(&centerY, "cy", 0, "shape center y")
	fs.Float64Var(&radius, "radius", config.DefaultRadius, "circle radius")
	fs.Float64Var(&side, "side", config.DefaultSide, "square side")
	fs.Float64Var(&width, "width", config.DefaultWidth, "rectangle width")
	fs.Float64Var(&height, "height", config.DefaultHeight, "rectangle height")
	fs.Float64Var(&triHeight, "triangle-height", config.DefaultTriangleHeight, "equilateral triangle height")
	fs.StringVar(&configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers preset, config file and flags. Flags only override a
// preset or file when set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(shapeKind, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(shapeKind))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	base := preset == "" && configFile == ""
	use := func(name string) bool { return base || cmd.Flags().Changed(name) }

	if use("shape") {
		cfg.Shape.Kind = shapeKind
	}
	if use("trajectory") {
		cfg.Trajectory = trajName
	}
	if use("accuracy") {
		cfg.Accuracy = accuracy
	}
	if use("grid") {
		cfg.GridSize = gridSize
	}
	if use("step") {
		cfg.Step = step
	}
	if use("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if use("workers") {
		cfg.Workers = workers
	}
	if use("growth") {
		cfg.Params.GrowthRate = growth
	}
	if use("base") {
		cfg.Params.LogBase = logBase
	}
	if use("scale") {
		cfg.Params.InverseScale = invScale
	}
	if use("cx") {
		cfg.Shape.Center.X = centerX
	}
	if use("cy") {
		cfg.Shape.Center.Y = centerY
	}
	if use("radius") {
		cfg.Shape.Radius = radius
	}
	if use("side") {
		cfg.Shape.Side = side
	}
	if use("width") {
		cfg.Shape.Width = width
	}
	if use("height") {
		cfg.Shape.Height = height
	}
	if use("triangle-height") {
		cfg.Shape.TriangleHeight = triHeight
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func heatmapOptions(title string) viz.HeatmapOptions {
	opts := viz.DefaultHeatmapOptions()
	opts.Theme = viz.GetTheme(themeName)
	opts.Title = title
	return opts
}

func printStats(st field.Stats, directions int, elapsed time.Duration) {
	fmt.Println(viz.Metric("inside", st.Inside))
	fmt.Println(viz.Metric("outside", st.Outside))
	if st.Inside > 0 {
		fmt.Println(viz.Metric("min", fmt.Sprintf("%.4f", st.Min)))
		fmt.Println(viz.Metric("max", fmt.Sprintf("%.4f", st.Max)))
		fmt.Println(viz.Metric("mean", fmt.Sprintf("%.4f", st.Mean)))
	}
	fmt.Println(viz.Metric("directions", directions))
	if elapsed > 0 {
		fmt.Println(viz.Metric("elapsed", elapsed.Round(time.Millisecond)))
	}
	if st.Unknown > 0 || st.Failures > 0 {
		fmt.Println(viz.WarningStyle.Render(fmt.Sprintf(
			"%d cells unknown, %d directions hit the step bound", st.Unknown, st.Failures)))
	}
}

func runField(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(logLevel, os.Stderr)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	start := time.Now()
	f, err := field.Build(cmd.Context(), cfg, field.WithLogger(logger))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, f, elapsed)
	if err != nil {
		return err
	}

	fmt.Println(viz.Heatmap(f, heatmapOptions(cfg.Title())))
	fmt.Println(viz.Separator(40))
	fmt.Println(viz.Metric("run id", runID))
	printStats(f.Stats(), f.Directions, elapsed)
	return nil
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
	fmt.Fprintln(w, "ID\tSHAPE\tTRAJECTORY\tTIME\tDIRS\tGRID\tINSIDE\tUNKNOWN\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%v\n",
			run.ID,
			run.Shape,
			run.Trajectory,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Directions,
			run.GridSize,
			run.Stats.Inside,
			run.Stats.Unknown,
			run.Elapsed.Round(time.Millisecond),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	f, err := st.LoadField(runID)
	if err != nil {
		return err
	}

	fmt.Println(viz.Heatmap(f, heatmapOptions(meta.Title)))
	fmt.Println(viz.Separator(40))
	printStats(f.Stats(), f.Directions, meta.Elapsed)

	if rowIndex >= 0 {
		if rowIndex >= f.Size {
			return fmt.Errorf("row %d out of range [0, %d)", rowIndex, f.Size)
		}
		graph := viz.RowProfile(f, rowIndex, 60, 10)
		if graph == "" {
			fmt.Printf("\nrow %d has no inside cells\n", rowIndex)
		} else {
			fmt.Println()
			fmt.Println(graph)
		}
	}

	if showOutline {
		fmt.Println()
		fmt.Println(viz.Outline(f.Shape, nil, 40, 20))
	}
	return nil
}

// maxDrawnPaths bounds how many sample trajectories profile draws.
const maxDrawnPaths = 8

func profileOrigin(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	est, err := cfg.Estimator()
	if err != nil {
		return err
	}

	origin := geom.Centroid(est.Shape())
	if cmd.Flags().Changed("x") {
		origin.X = originX
	}
	if cmd.Flags().Changed("y") {
		origin.Y = originY
	}

	fan, err := est.Average(cmd.Context(), origin, cfg.Directions())
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render(cfg.Title()))
	if graph := viz.DirectionProfile(fan, 60, 10); graph != "" {
		fmt.Println(graph)
	}
	fmt.Println(viz.Separator(40))

	if fan.Unknown() {
		fmt.Println(viz.WarningStyle.Render("no direction exited within the step bound"))
	} else {
		fmt.Println(viz.Metric("mean", fmt.Sprintf("%.4f", fan.Mean)))
		fmt.Println(viz.Metric("std dev", fmt.Sprintf("%.4f", fan.StdDev())))
	}
	fmt.Println(viz.Metric("exited", fmt.Sprintf("%d/%d", fan.Exited, len(fan.Angles))))
	if h, err := analysis.FanHarmonics(fan); err == nil {
		fmt.Println(viz.Metric("dominant harmonic", h.Dominant))
		fmt.Println(viz.Metric("anisotropy", fmt.Sprintf("%.4f", h.Anisotropy)))
	}
	for _, ferr := range fan.Failures {
		fmt.Println(viz.Subtle.Render(ferr.Error()))
	}

	stride := max(1, len(fan.Angles)/maxDrawnPaths)
	var paths [][]geom.Point
	for k := 0; k < len(fan.Angles); k += stride {
		paths = append(paths, est.Path(origin, fan.Angles[k]))
	}
	fmt.Println()
	fmt.Println(viz.Outline(est.Shape(), paths, 40, 20))
	return nil
}

// output opens --out, or stdout when it is empty.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func loadRun(runID string) (*storage.RunMetadata, *field.Field, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	f, err := st.LoadField(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, f, nil
}

func writeOutput(write func(io.Writer) error) error {
	w, err := output()
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, f, err := loadRun(args[0])
	if err != nil {
		return err
	}
	h := export.Header{ID: meta.ID, Title: meta.Title, Trajectory: meta.Trajectory}
	return writeOutput(func(w io.Writer) error {
		return export.ExportJSON(w, h, f)
	})
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, f, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return writeOutput(func(w io.Writer) error {
		return export.WriteCSV(w, f)
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, f, err := loadRun(args[0])
	if err != nil {
		return err
	}
	svg := export.FieldToSVG(f, viz.GetTheme(themeName), cellSize, meta.Title)
	return writeOutput(func(w io.Writer) error {
		_, err := io.WriteString(w, svg)
		return err
	})
}

func listPresets(cmd *cobra.Command, args []string) error {
	shapes := config.ShapeKinds()
	if len(args) == 1 {
		shapes = args[:1]
	}
	for _, shape := range shapes {
		presets := config.ListPresets(shape)
		if len(presets) == 0 {
			fmt.Printf("no presets for shape: %s\n", shape)
			continue
		}
		fmt.Printf("presets for %s:\n", shape)
		for _, name := range presets {
			p := config.GetPreset(shape, name)
			fmt.Printf("  %-12s %s, %d directions, grid %d\n",
				name, p.Trajectory, p.Directions(), p.GridSize)
		}
	}
	return nil
}

func benchField(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	grids := []int{10, 25, 50}
	workerCounts := []int{1, runtime.GOMAXPROCS(0)}
	if workerCounts[1] == 1 {
		workerCounts = workerCounts[:1]
	}

	fmt.Printf("benchmarking %s\n\n", cfg.Title())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRID\tWORKERS\tINSIDE\tTIME\tCELLS/SEC\tDIRS/SEC")

	for _, grid := range grids {
		for _, n := range workerCounts {
			run := *cfg
			run.GridSize = grid
			run.Workers = n

			start := time.Now()
			f, err := field.Build(cmd.Context(), &run)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			inside := f.Stats().Inside
			cellsPerSec := float64(inside) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%.0f\n",
				grid, n, inside, elapsed.Round(time.Microsecond),
				cellsPerSec, cellsPerSec*float64(run.Directions()))
		}
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	logger := logging.NewLogger(logLevel, os.Stderr)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if sc.Name != "" {
		fmt.Println(viz.HeaderStyle.Render(sc.Name))
	}
	results, err := automation.RunScenario(cmd.Context(), sc, st, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tINSIDE\tUNKNOWN\tMEAN\tELAPSED")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\t%v\n",
			r.Step, r.RunID, r.Stats.Inside, r.Stats.Unknown, r.Stats.Mean, r.Elapsed.Round(time.Millisecond))
	}
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	if !slices.Contains(automation.SweepParams(), sweepParam) {
		return fmt.Errorf("%w: %q (available: %s)", automation.ErrUnknownParam, sweepParam,
			strings.Join(automation.SweepParams(), ", "))
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(logLevel, os.Stderr)

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN\tSTD DEV\tEXITED\n", sweepParam)
	means := make([]float64, 0, len(results))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%d/%d\n", r.ParamValue, r.Mean, r.StdDev, r.Exited, r.Directions)
		if !math.IsNaN(r.Mean) {
			means = append(means, r.Mean)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(means) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(means,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("mean exit time vs %s", sweepParam)),
		))
	}
	return nil
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(logLevel, os.Stderr)

	start := time.Now()
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		Seed:      seed,
	}, logger)
	if err != nil {
		return err
	}

	mean, known, unknown := automation.MonteCarloStats(results)
	fmt.Println(viz.HeaderStyle.Render(cfg.Title()))
	fmt.Println(viz.Metric("trials", len(results)))
	if known > 0 {
		fmt.Println(viz.Metric("mean exit time", fmt.Sprintf("%.4f", mean)))
	}
	if unknown > 0 {
		fmt.Println(viz.WarningStyle.Render(fmt.Sprintf("%d origins had no exiting direction", unknown)))
	}
	fmt.Println(viz.Metric("elapsed", time.Since(start).Round(time.Millisecond)))
	return nil
}
