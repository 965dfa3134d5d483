package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/rootlab/internal/root"
)

const (
	plotWidth  = 70
	plotHeight = 12
	// log10 floor for a relative error of exactly zero
	errFloor = -17.0
)

// ConvergencePlot charts the estimates and log10 of the relative error per
// iteration. Rows after the first non-finite estimate are dropped.
func ConvergencePlot(trace []root.Iteration) (estimates, errs string) {
	xs := make([]float64, 0, len(trace))
	es := make([]float64, 0, len(trace))
	for _, it := range trace {
		if math.IsNaN(it.Estimate) || math.IsInf(it.Estimate, 0) {
			break
		}
		xs = append(xs, it.Estimate)
		le := errFloor
		if it.RelError > 0 && !math.IsInf(it.RelError, 0) {
			le = math.Max(math.Log10(it.RelError), errFloor)
		}
		es = append(es, le)
	}
	if len(xs) == 0 {
		return "", ""
	}

	estimates = asciigraph.Plot(xs,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(4),
		asciigraph.Caption("estimate x_k vs k"),
	)
	errs = asciigraph.Plot(es,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("log10 relative error vs k"),
	)
	return estimates, errs
}

// Sample evaluates fn at n evenly spaced points of [lo, hi]. Points outside
// the function's domain come back as NaN.
func Sample(fn root.Func, lo, hi float64, n int) (xs, ys []float64) {
	if n < 2 {
		n = 2
	}
	xs = floats.Span(make([]float64, n), lo, hi)
	ys = make([]float64, n)
	for i, x := range xs {
		y, err := fn(x)
		if err != nil || math.IsInf(y, 0) {
			y = math.NaN()
		}
		ys[i] = y
	}
	return xs, ys
}

// FunctionPlot overlays f (red) and, when g is non-nil, g (blue) with the
// line y = x (green) over [lo, hi]. Fixed points sit where g meets y = x.
func FunctionPlot(f, g root.Func, lo, hi float64) string {
	xs, fy := Sample(f, lo, hi, plotWidth)
	series := [][]float64{fy}
	colors := []asciigraph.AnsiColor{asciigraph.Red}
	caption := "f(x)"

	if g != nil {
		_, gy := Sample(g, lo, hi, plotWidth)
		series = append(series, gy, append([]float64(nil), xs...))
		colors = append(colors, asciigraph.Blue, asciigraph.Green)
		caption = "f(x) red, g(x) blue, y = x green"
	}

	if !hasFinite(series) {
		return ""
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(plotHeight+4),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	)
}

func hasFinite(series [][]float64) bool {
	for _, s := range series {
		for _, v := range s {
			if !math.IsNaN(v) {
				return true
			}
		}
	}
	return false
}
