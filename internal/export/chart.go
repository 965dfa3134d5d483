package export

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/rootlab/internal/root"
	"github.com/san-kum/rootlab/internal/viz"
)

const samples = 400

var (
	colorF       = color.RGBA{R: 220, G: 50, B: 47, A: 255}
	colorG       = color.RGBA{R: 38, G: 139, B: 210, A: 255}
	colorDiag    = color.RGBA{R: 133, G: 153, B: 0, A: 255}
	colorIterate = color.RGBA{R: 40, G: 40, B: 40, A: 255}
)

// Figure is everything a chart needs. G is optional; when it is set the
// iterates are drawn as a cobweb against y = x.
type Figure struct {
	Title string
	F, G  root.Func
	Trace []root.Iteration
	X0    float64
	Lo    float64
	Hi    float64
}

// Chart builds the plot without writing it anywhere.
func Chart(fig Figure) (*plot.Plot, error) {
	if !(fig.Lo < fig.Hi) {
		return nil, fmt.Errorf("empty window [%g, %g]", fig.Lo, fig.Hi)
	}

	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.X.Min, p.X.Max = fig.Lo, fig.Hi
	p.Add(plotter.NewGrid())
	p.Add(plotter.NewFunction(func(float64) float64 { return 0 }))

	lo, hi := math.Inf(1), math.Inf(-1)

	addCurve := func(name string, fn root.Func, c color.Color) error {
		xs, ys := viz.Sample(fn, fig.Lo, fig.Hi, samples)
		for i, seg := range segments(xs, ys) {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			line.Color = c
			line.Width = vg.Points(1.5)
			p.Add(line)
			if i == 0 {
				p.Legend.Add(name, line)
			}
			for _, pt := range seg {
				lo, hi = math.Min(lo, pt.Y), math.Max(hi, pt.Y)
			}
		}
		return nil
	}

	if err := addCurve("f(x)", fig.F, colorF); err != nil {
		return nil, err
	}
	if fig.G != nil {
		if err := addCurve("g(x)", fig.G, colorG); err != nil {
			return nil, err
		}
		diag := plotter.NewFunction(func(x float64) float64 { return x })
		diag.Color = colorDiag
		diag.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(diag)
		p.Legend.Add("y = x", diag)
		lo, hi = math.Min(lo, fig.Lo), math.Max(hi, fig.Hi)
	}

	if math.IsInf(lo, 0) {
		return nil, fmt.Errorf("f is undefined on [%g, %g]", fig.Lo, fig.Hi)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	p.Y.Min, p.Y.Max = lo-pad, hi+pad

	if fig.G != nil {
		if web := cobweb(fig.X0, fig.Trace); len(web) > 1 {
			line, err := plotter.NewLine(web)
			if err != nil {
				return nil, err
			}
			line.Color = colorIterate
			line.Width = vg.Points(0.75)
			p.Add(line)
		}
	}

	if pts := iterates(fig.Trace); len(pts) > 0 {
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Color = colorIterate
		sc.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(sc)
		p.Legend.Add("(x_k, f(x_k))", sc)
	}

	p.Legend.Top = true
	return p, nil
}

// Save renders fig to path. The image format follows the file extension
// (png, svg, pdf, ...).
func Save(path string, fig Figure, width, height vg.Length) error {
	p, err := Chart(fig)
	if err != nil {
		return err
	}
	return p.Save(width, height, path)
}

// segments splits a sampled curve at undefined points.
func segments(xs, ys []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i := range xs {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			if len(cur) > 1 {
				out = append(out, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(cur) > 1 {
		out = append(out, cur)
	}
	return out
}

// cobweb traces x0 -> (x0, x1) -> (x1, x1) -> (x1, x2) ... up to the first
// non-finite iterate.
func cobweb(x0 float64, trace []root.Iteration) plotter.XYs {
	web := plotter.XYs{{X: x0, Y: x0}}
	prev := x0
	for _, it := range trace {
		if !finite(it.Estimate) {
			break
		}
		web = append(web,
			plotter.XY{X: prev, Y: it.Estimate},
			plotter.XY{X: it.Estimate, Y: it.Estimate},
		)
		prev = it.Estimate
	}
	return web
}

func iterates(trace []root.Iteration) plotter.XYs {
	pts := make(plotter.XYs, 0, len(trace))
	for _, it := range trace {
		if finite(it.Estimate) && finite(it.Residual) {
			pts = append(pts, plotter.XY{X: it.Estimate, Y: it.Residual})
		}
	}
	return pts
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
