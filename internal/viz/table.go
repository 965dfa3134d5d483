package viz

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/rootlab/internal/root"
)

var tableHeaders = []string{"k", "x", "f(x)", "rel err"}

// TraceTable builds the iteration table. When limit is positive only the
// last limit rows are shown.
func TraceTable(trace []root.Iteration, limit int) string {
	rows := trace
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}

	cells := make([][]string, 0, len(rows))
	for _, it := range rows {
		cells = append(cells, []string{
			strconv.Itoa(it.Index),
			fmt.Sprintf("%.10f", it.Estimate),
			fmt.Sprintf("% .4e", it.Residual),
			fmt.Sprintf("%.4e", it.RelError),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(TableBorder).
		Headers(tableHeaders...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderCell
			}
			return Cell
		})
	return t.String()
}

// Table writes the trace table followed by the termination banner.
func Table(w io.Writer, res *root.Result, err error) error {
	if res != nil && len(res.Trace) > 0 {
		if _, werr := fmt.Fprintln(w, TraceTable(res.Trace, 0)); werr != nil {
			return werr
		}
	}
	_, werr := fmt.Fprintln(w, Banner(res, err))
	return werr
}

// Banner summarizes how a solve ended. Non-convergence is labeled as a
// warning next to the best estimate; domain errors carry no estimate.
func Banner(res *root.Result, err error) string {
	var de *root.DomainError
	switch {
	case errors.As(err, &de):
		return StatusFailed.Render(fmt.Sprintf("DOMAIN ERROR at iteration %d (x = %g): %v", de.Iteration, de.X, de.Err))
	case res == nil && err != nil:
		return StatusFailed.Render("ERROR: " + err.Error())
	case res == nil:
		return ""
	case res.Converged():
		return StatusConverged.Render(fmt.Sprintf("converged: x = %.10f after %d iterations (rel err %.3e)",
			res.Root, res.Iterations, res.RelError))
	default:
		return StatusWarning.Render(fmt.Sprintf("WARNING: did not converge (%s); last estimate x = %g after %d iterations is unreliable",
			res.Status, res.Root, res.Iterations))
	}
}

// Metrics renders name: value lines in name order.
func Metrics(values map[string]float64) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	out := ""
	for _, name := range names {
		out += fmt.Sprintf("  %s %s\n", MetricLabel.Render(name+":"), MetricValue.Render(fmt.Sprintf("%.6g", values[name])))
	}
	return out
}
