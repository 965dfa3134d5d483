package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/rootlab/internal/config"
	"github.com/san-kum/rootlab/internal/experiment"
	"github.com/san-kum/rootlab/internal/export"
	"github.com/san-kum/rootlab/internal/root"
	"github.com/san-kum/rootlab/internal/storage"
	"github.com/san-kum/rootlab/internal/viz"
)

var (
	chartWidth  float64
	chartHeight float64
	outFile     string
)

func runCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show the trace of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run convergence",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	chartCmd := &cobra.Command{
		Use:   "chart [run_id] [file]",
		Short: "render a run as an image (png, svg, pdf)",
		Args:  cobra.ExactArgs(2),
		RunE:  chartRun,
	}
	chartCmd.Flags().Float64Var(&chartWidth, "width", 8, "width in inches")
	chartCmd.Flags().Float64Var(&chartHeight, "height", 5, "height in inches")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	return []*cobra.Command{listCmd, showCmd, plotCmd, chartCmd, exportCSVCmd, exportJSONCmd}
}

func loadRun(runID string) (*storage.RunMetadata, []root.Iteration, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, trace, nil
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tMETHOD\tSTATUS\tITER\tROOT")

	for _, run := range runs {
		name := run.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.10g\n",
			run.ID,
			name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Method,
			run.Status,
			run.Iterations,
			float64(run.Root),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("method: %s\n", meta.Method)
	fmt.Printf("f(x) = %s\n", meta.F)
	if meta.G != "" {
		fmt.Printf("g(x) = %s\n", meta.G)
	}
	fmt.Printf("x0 = %g, tolerance = %g, max iterations = %d\n\n", meta.X0, meta.Tolerance, meta.MaxIterations)

	res := meta.Result(trace)
	if err := viz.Table(os.Stdout, res, nil); err != nil {
		return err
	}
	if len(res.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		fmt.Print(viz.Metrics(res.Metrics))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("method: %s\n", meta.Method)
	fmt.Printf("iterations: %d\n", len(trace))
	printConvergence(trace)
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}
	cfg := meta.Config()
	p, err := experiment.BuildProblem(cfg)
	if err != nil {
		return err
	}
	if err := saveChart(args[1], cfg, p, trace); err != nil {
		return err
	}
	fmt.Printf("chart written to %s\n", args[1])
	return nil
}

func saveChart(path string, cfg *config.Config, p root.Problem, trace []root.Iteration) error {
	title := cfg.Name
	if title == "" {
		title = "f(x) = " + cfg.F
	}
	fig := export.Figure{
		Title: fmt.Sprintf("%s (%s)", title, cfg.Method),
		F:     p.F,
		Trace: trace,
		X0:    cfg.X0,
		Lo:    cfg.Domain[0],
		Hi:    cfg.Domain[1],
	}
	if cfg.Method == "fixed-point" {
		fig.G = p.G
	}

	if chartWidth <= 0 {
		chartWidth = 8
	}
	if chartHeight <= 0 {
		chartHeight = 5
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	slog.Debug("rendering chart", "path", path, "points", len(trace))
	return export.Save(path, fig, vg.Length(chartWidth)*vg.Inch, vg.Length(chartHeight)*vg.Inch)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return writeOut(func(f *os.File) error {
		return storage.WriteTraceCSV(f, trace)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return writeOut(func(f *os.File) error {
		return storage.ExportJSON(f, meta, trace)
	})
}

// writeOut sends output to --out when set, stdout otherwise.
func writeOut(write func(*os.File) error) error {
	if outFile == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := write(f); err != nil {
		return err
	}
	slog.Info("exported", "path", outFile)
	fmt.Printf("exported to %s\n", outFile)
	return nil
}
