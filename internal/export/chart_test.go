package export

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/san-kum/rootlab/internal/root"
)

var (
	quadratic = root.Real(func(x float64) float64 { return x*x + x - 6 })
	sqrtRule  = root.Real(func(x float64) float64 { return math.Sqrt(6 - x) })
)

func solved(t *testing.T) []root.Iteration {
	t.Helper()
	res, err := root.FixedPoint(0.1, quadratic, sqrtRule, root.DefaultConfig())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	return res.Trace
}

func TestSave(t *testing.T) {
	fig := Figure{Title: "x^2 + x - 6", F: quadratic, G: sqrtRule, Trace: solved(t), X0: 0.1, Lo: -4, Hi: 8}

	for _, name := range []string{"chart.png", "chart.svg"} {
		path := filepath.Join(t.TempDir(), name)
		if err := Save(path, fig, 6*vg.Inch, 4*vg.Inch); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("%s not written: %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestSave_UnknownFormat(t *testing.T) {
	fig := Figure{F: quadratic, Lo: -4, Hi: 4}
	if err := Save(filepath.Join(t.TempDir(), "chart.bmp"), fig, 4*vg.Inch, 3*vg.Inch); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestChart_Errors(t *testing.T) {
	if _, err := Chart(Figure{F: quadratic, Lo: 1, Hi: 1}); err == nil {
		t.Error("expected error for empty window")
	}
	never := root.Func(func(float64) (float64, error) { return 0, root.ErrDomain })
	if _, err := Chart(Figure{F: never, Lo: -1, Hi: 1}); err == nil {
		t.Error("expected error when f has no finite samples")
	}
}

func TestSegments(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5, 6}
	ys := []float64{0, 1, math.NaN(), 3, math.Inf(1), 5, 6}
	segs := segments(xs, ys)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[1][0].X != 5 {
		t.Errorf("second segment starts at %v, want 5", segs[1][0].X)
	}
}

func TestCobweb(t *testing.T) {
	trace := []root.Iteration{{Index: 1, Estimate: 2}, {Index: 2, Estimate: math.Inf(-1)}}
	web := cobweb(1, trace)
	if len(web) != 3 {
		t.Fatalf("expected 3 points, got %d", len(web))
	}
	if web[1].X != 1 || web[1].Y != 2 || web[2].X != 2 || web[2].Y != 2 {
		t.Errorf("unexpected cobweb %v", web)
	}
}
