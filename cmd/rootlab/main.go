package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/rootlab/internal/config"
	"github.com/san-kum/rootlab/internal/experiment"
	"github.com/san-kum/rootlab/internal/optim"
	"github.com/san-kum/rootlab/internal/root"
	"github.com/san-kum/rootlab/internal/storage"
	"github.com/san-kum/rootlab/internal/viz"
)

var (
	dataDir  string
	logLevel string

	configFile string
	method     string
	fExpr      string
	gExpr      string
	dfExpr     string
	x0         float64
	x1         float64
	tolerance  float64
	maxIter    int

	showPlot  bool
	chartPath string
	noSave    bool

	scanPoints int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rootlab",
		Short: "iterative root finding lab",
		Long: `rootlab solves f(x) = 0 by fixed-point iteration, the secant method or
Newton's method, prints the iteration trace and keeps every run on disk.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rootlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	solveCmd := &cobra.Command{
		Use:   "solve [preset]",
		Short: "solve a problem and record the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  solveProblem,
	}
	addProblemFlags(solveCmd)
	solveCmd.Flags().BoolVar(&showPlot, "plot", false, "show convergence plots")
	solveCmd.Flags().StringVar(&chartPath, "chart", "", "write a chart image (png, svg, pdf)")
	solveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")

	presetsCmd := &cobra.Command{
		Use:   "presets [method]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	functionsCmd := &cobra.Command{
		Use:   "functions [preset]",
		Short: "plot f and g over the problem domain",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotFunctions,
	}
	addProblemFlags(functionsCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [method1] [method2] ...",
		Short: "compare methods on the same problem",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareMethods,
	}

	stepCmd := &cobra.Command{
		Use:   "step [preset]",
		Short: "step through a solve interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  stepProblem,
	}
	addProblemFlags(stepCmd)

	scanCmd := &cobra.Command{
		Use:   "scan [preset]",
		Short: "solve from a grid of starting guesses across the domain",
		Args:  cobra.MaximumNArgs(1),
		RunE:  scanStarts,
	}
	addProblemFlags(scanCmd)
	scanCmd.Flags().IntVar(&scanPoints, "points", 25, "number of starting guesses")

	rootCmd.AddCommand(solveCmd, presetsCmd, functionsCmd, compareCmd, stepCmd, scanCmd)
	rootCmd.AddCommand(runCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&method, "method", config.DefaultMethod, "method (fixed-point, secant, newton)")
	cmd.Flags().StringVar(&fExpr, "f", "", "equation f(x)")
	cmd.Flags().StringVar(&gExpr, "g", "", "iteration rule g(x) (fixed-point)")
	cmd.Flags().StringVar(&dfExpr, "df", "", "derivative f'(x) (newton, optional)")
	cmd.Flags().Float64Var(&x0, "x0", 0, "initial guess")
	cmd.Flags().Float64Var(&x1, "x1", 0, "second initial guess (secant)")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "relative error tolerance")
	cmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIterations, "iteration budget")
}

// resolveConfig layers preset, config file and flags, later ones winning.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if len(args) > 0 {
		preset := config.GetPreset(args[0])
		if preset == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets(""))
		}
		cfg = preset
		slog.Debug("preset loaded", "name", args[0])
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		slog.Debug("config loaded", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("f") {
		cfg.F = fExpr
	}
	if flags.Changed("g") {
		cfg.G = gExpr
	}
	if flags.Changed("df") {
		cfg.DF = dfExpr
	}
	if flags.Changed("x0") {
		cfg.X0 = x0
	}
	if flags.Changed("x1") {
		cfg.X1 = config.Guess(x1)
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("max-iter") {
		cfg.MaxIterations = maxIter
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func solveProblem(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry); err != nil {
		return err
	}

	fmt.Printf("solving f(x) = %s by %s from x0 = %g\n\n", cfg.F, cfg.Method, cfg.X0)
	result, err := exp.Run()

	if werr := viz.Table(os.Stdout, result, err); werr != nil {
		return werr
	}
	if err != nil && !errors.Is(err, root.ErrNonConvergence) {
		return err
	}
	if err != nil {
		slog.Warn("solve did not converge", "method", cfg.Method, "status", result.Status, "iterations", result.Iterations)
	}

	if len(result.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		fmt.Print(viz.Metrics(result.Metrics))
	}

	if showPlot {
		printConvergence(result.Trace)
		p := exp.Problem()
		if out := viz.FunctionPlot(p.F, p.G, cfg.Domain[0], cfg.Domain[1]); out != "" {
			fmt.Println(out)
		}
	}

	if chartPath != "" {
		if err := saveChart(chartPath, cfg, exp.Problem(), result.Trace); err != nil {
			return err
		}
		fmt.Printf("chart written to %s\n", chartPath)
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	slog.Info("run saved", "id", runID, "dir", st.Dir(runID))
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func printConvergence(trace []root.Iteration) {
	estimates, errs := viz.ConvergencePlot(trace)
	if estimates == "" {
		fmt.Println("no finite iterates to plot")
		return
	}
	fmt.Println()
	fmt.Println(estimates)
	fmt.Println()
	fmt.Println(errs)
	fmt.Println()
}

func listPresets(cmd *cobra.Command, args []string) error {
	filter := ""
	if len(args) > 0 {
		filter = args[0]
	}
	names := config.ListPresets(filter)
	if len(names) == 0 {
		fmt.Printf("no presets for method: %s\n", filter)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMETHOD\tF\tG\tX0")
	for _, name := range names {
		p := config.GetPreset(name)
		g := p.G
		if g == "" {
			g = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\n", name, p.Method, p.F, g, p.X0)
	}
	return w.Flush()
}

func plotFunctions(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	p, err := experiment.BuildProblem(cfg)
	if err != nil {
		return err
	}

	out := viz.FunctionPlot(p.F, p.G, cfg.Domain[0], cfg.Domain[1])
	if out == "" {
		return fmt.Errorf("f is undefined on [%g, %g]", cfg.Domain[0], cfg.Domain[1])
	}
	fmt.Printf("f(x) = %s\n", cfg.F)
	if cfg.G != "" {
		fmt.Printf("g(x) = %s\n", cfg.G)
	}
	fmt.Println()
	fmt.Println(out)
	return nil
}

func compareMethods(cmd *cobra.Command, args []string) error {
	base := config.GetPreset(args[0])
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets(""))
	}

	methods := args[1:]
	if len(methods) == 0 {
		methods = config.Methods
	}

	registry := experiment.NewRegistry()
	var jobs []root.Job
	for _, m := range methods {
		cfg := base.Clone()
		cfg.Method = m
		if err := cfg.Validate(); err != nil {
			slog.Warn("method skipped", "method", m, "err", err)
			continue
		}
		st, err := registry.GetStepper(m)
		if err != nil {
			return err
		}
		p, err := experiment.BuildProblem(cfg)
		if err != nil {
			return err
		}
		jobs = append(jobs, root.Job{
			Name:    m,
			Stepper: st,
			Problem: p,
			Config:  root.Config{Tolerance: cfg.Tolerance, MaxIterations: cfg.MaxIterations},
		})
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no method can solve preset %s", args[0])
	}

	fmt.Printf("comparing methods on %s: f(x) = %s, x0 = %g, tol = %g\n\n", args[0], base.F, base.X0, base.Tolerance)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tSTATUS\tITER\tROOT\tREL_ERR")
	for _, out := range root.Batch(jobs) {
		var de *root.DomainError
		switch {
		case errors.As(out.Err, &de):
			fmt.Fprintf(w, "%s\tdomain error\t%d\t-\t%v\n", out.Name, de.Iteration, de.Err)
		case out.Result == nil:
			fmt.Fprintf(w, "%s\terror\t-\t-\t%v\n", out.Name, out.Err)
		default:
			r := out.Result
			fmt.Fprintf(w, "%s\t%s\t%d\t%.12g\t%.3e\n", out.Name, r.Status, r.Iterations, r.Root, r.RelError)
		}
	}
	return w.Flush()
}

func stepProblem(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st, err := experiment.NewRegistry().GetStepper(cfg.Method)
	if err != nil {
		return err
	}
	p, err := experiment.BuildProblem(cfg)
	if err != nil {
		return err
	}

	title := cfg.Name
	if title == "" {
		title = "f(x) = " + cfg.F
	}
	model, err := viz.NewStepModel(title, st, p, root.Config{Tolerance: cfg.Tolerance, MaxIterations: cfg.MaxIterations})
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model).Run()
	return err
}

func scanStarts(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	if _, err := registry.GetStepper(cfg.Method); err != nil {
		return err
	}
	p, err := experiment.BuildProblem(cfg)
	if err != nil {
		return err
	}

	newStepper := func() root.Stepper {
		st, _ := registry.GetStepper(cfg.Method)
		return st
	}
	search := optim.NewGridSearch(cfg.Domain[0], cfg.Domain[1], scanPoints)
	points := search.Search(newStepper, p, root.Config{Tolerance: cfg.Tolerance, MaxIterations: cfg.MaxIterations})

	fmt.Printf("scanning %d starting guesses on [%g, %g] by %s\n\n", len(points), cfg.Domain[0], cfg.Domain[1], cfg.Method)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "X0\tSTATUS\tITER\tROOT")
	for _, pt := range points {
		var de *root.DomainError
		switch {
		case errors.As(pt.Err, &de):
			fmt.Fprintf(w, "%.6g\tdomain error\t%d\t-\n", pt.X0, de.Iteration)
		case pt.Result == nil:
			fmt.Fprintf(w, "%.6g\terror\t-\t-\n", pt.X0)
		default:
			fmt.Fprintf(w, "%.6g\t%s\t%d\t%.10g\n", pt.X0, pt.Result.Status, pt.Result.Iterations, pt.Result.Root)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	basins := optim.Basins(points, math.Sqrt(cfg.Tolerance))
	if len(basins) == 0 {
		fmt.Println("\nno starting guess converged")
		return nil
	}
	fmt.Println("\nroots:")
	for _, b := range basins {
		fmt.Printf("  %.10g  reached from %d of %d starts\n", b.Root, len(b.Starts), len(points))
	}
	if best, ok := optim.Fastest(points); ok {
		fmt.Printf("\nfastest start: x0 = %g (%d iterations)\n", best.X0, best.Result.Iterations)
	}
	return nil
}
