package metrics

import (
	"math"

	"github.com/san-kum/rootlab/internal/root"
)

// Contraction estimates |g'(r)| as the ratio of successive step sizes.
// Values below one indicate a contraction near the root.
type Contraction struct {
	name  string
	steps stepWindow
	ratio float64
}

func NewContraction() *Contraction {
	return &Contraction{name: "contraction"}
}

func (c *Contraction) Name() string {
	return c.name
}

func (c *Contraction) Observe(it root.Iteration) {
	c.steps.push(it.Estimate)
	d1, d2, ok := c.steps.lastTwo()
	if !ok || d1 == 0 {
		return
	}
	c.ratio = d2 / d1
}

func (c *Contraction) Value() float64 {
	if math.IsNaN(c.ratio) {
		return 0
	}
	return c.ratio
}

func (c *Contraction) Reset() {
	c.steps = stepWindow{}
	c.ratio = 0
}

// stepWindow keeps the last four estimates and yields step sizes
// |x[n] - x[n-1]|, oldest first.
type stepWindow struct {
	xs [4]float64
	n  int
}

func (w *stepWindow) push(x float64) {
	copy(w.xs[:], w.xs[1:])
	w.xs[3] = x
	if w.n < 4 {
		w.n++
	}
}

func (w *stepWindow) step(i int) float64 {
	return math.Abs(w.xs[i+1] - w.xs[i])
}

func (w *stepWindow) lastTwo() (float64, float64, bool) {
	if w.n < 3 {
		return 0, 0, false
	}
	return w.step(1), w.step(2), true
}

func (w *stepWindow) lastThree() (float64, float64, float64, bool) {
	if w.n < 4 {
		return 0, 0, 0, false
	}
	return w.step(0), w.step(1), w.step(2), true
}
