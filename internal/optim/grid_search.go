package optim

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/san-kum/rootlab/internal/root"
)

// Point is one starting guess and how the solve from it ended.
type Point struct {
	X0     float64
	Result *root.Result
	Err    error
}

func (p Point) Converged() bool { return p.Err == nil && p.Result.Converged() }

// Basin is a root together with the starting guesses that reached it.
type Basin struct {
	Root   float64
	Starts []float64
}

// GridSearch solves one problem from evenly spaced starting guesses.
type GridSearch struct {
	starts []float64
}

func NewGridSearch(lo, hi float64, n int) *GridSearch {
	if n < 2 {
		n = 2
	}
	return &GridSearch{starts: floats.Span(make([]float64, n), lo, hi)}
}

func (g *GridSearch) Starts() []float64 { return g.starts }

// Search runs every start concurrently. newStepper is called once per start.
// For secant problems the gap between X0 and X1 is kept.
func (g *GridSearch) Search(newStepper func() root.Stepper, p root.Problem, cfg root.Config) []Point {
	gap := p.X1 - p.X0
	cfg.RecordTrace = false

	jobs := make([]root.Job, len(g.starts))
	for i, x0 := range g.starts {
		prob := p
		prob.X0 = x0
		prob.X1 = x0 + gap
		jobs[i] = root.Job{Stepper: newStepper(), Problem: prob, Config: cfg}
	}

	outcomes := root.Batch(jobs)
	points := make([]Point, len(outcomes))
	for i, out := range outcomes {
		points[i] = Point{X0: g.starts[i], Result: out.Result, Err: out.Err}
	}
	return points
}

// Fastest returns the converged point that needed the fewest iterations.
func Fastest(points []Point) (Point, bool) {
	best := Point{}
	bestIter := math.MaxInt
	for _, pt := range points {
		if !pt.Converged() {
			continue
		}
		if pt.Result.Iterations < bestIter {
			best = pt
			bestIter = pt.Result.Iterations
		}
	}
	return best, bestIter != math.MaxInt
}

// Basins groups converged points by root. Roots closer than tol (relative
// to the larger magnitude, absolute near zero) are merged.
func Basins(points []Point, tol float64) []Basin {
	var basins []Basin
	for _, pt := range points {
		if !pt.Converged() {
			continue
		}
		r := pt.Result.Root
		idx := -1
		for i, b := range basins {
			if scalar.EqualWithinAbsOrRel(b.Root, r, tol, tol) {
				idx = i
				break
			}
		}
		if idx < 0 {
			basins = append(basins, Basin{Root: r})
			idx = len(basins) - 1
		}
		basins[idx].Starts = append(basins[idx].Starts, pt.X0)
	}

	sort.Slice(basins, func(i, j int) bool { return basins[i].Root < basins[j].Root })
	return basins
}
