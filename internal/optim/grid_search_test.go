package optim

import (
	"math"
	"testing"

	"github.com/san-kum/rootlab/internal/root"
)

var quadratic = root.Real(func(x float64) float64 { return x*x + x - 6 })

func TestGridSearchNewtonBasins(t *testing.T) {
	g := NewGridSearch(-6, 6, 25)
	if len(g.Starts()) != 25 || g.Starts()[0] != -6 || g.Starts()[24] != 6 {
		t.Fatalf("unexpected starts %v", g.Starts())
	}

	p := root.Problem{F: quadratic, DF: root.Real(func(x float64) float64 { return 2*x + 1 })}
	newton := func() root.Stepper { return root.NewNewton() }
	points := g.Search(newton, p, root.Config{Tolerance: 1e-10, MaxIterations: 100})

	basins := Basins(points, 1e-6)
	if len(basins) != 2 {
		t.Fatalf("expected 2 basins, got %d: %+v", len(basins), basins)
	}
	if math.Abs(basins[0].Root+3) > 1e-8 || math.Abs(basins[1].Root-2) > 1e-8 {
		t.Errorf("expected roots -3 and 2, got %v and %v", basins[0].Root, basins[1].Root)
	}
	for _, x0 := range basins[1].Starts {
		if x0 <= -0.5 {
			t.Errorf("start %v left of the critical point should not reach 2", x0)
		}
	}

	best, ok := Fastest(points)
	if !ok {
		t.Fatal("expected a converged point")
	}
	if best.Result.Iterations > 5 {
		t.Errorf("fastest start %v took %d iterations", best.X0, best.Result.Iterations)
	}
}

func TestGridSearchFixedPointDomain(t *testing.T) {
	sqrtRule := root.Real(func(x float64) float64 { return math.Sqrt(6 - x) })
	g := NewGridSearch(0, 10, 11)
	points := g.Search(func() root.Stepper { return root.NewFixedPoint() },
		root.Problem{F: quadratic, G: sqrtRule}, root.DefaultConfig())

	var failed int
	for _, pt := range points {
		if pt.Err != nil {
			failed++
			if pt.Result != nil {
				t.Errorf("x0 = %v: domain failure should carry no result", pt.X0)
			}
		}
	}
	// sqrt(6 - x0) is undefined for x0 in {7, 8, 9, 10}
	if failed != 4 {
		t.Errorf("expected 4 domain failures, got %d", failed)
	}

	basins := Basins(points, 1e-3)
	if len(basins) != 1 || math.Abs(basins[0].Root-2) > 1e-3 {
		t.Errorf("expected a single basin at 2, got %+v", basins)
	}
}

func TestFastestNone(t *testing.T) {
	if _, ok := Fastest(nil); ok {
		t.Error("expected no fastest point")
	}
}
