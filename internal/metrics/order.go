package metrics

import (
	"math"

	"github.com/san-kum/rootlab/internal/root"
)

// Order estimates the order of convergence from three successive step
// sizes: q = log(d3/d2) / log(d2/d1). Linear methods give about 1, secant
// about 1.618, Newton about 2.
type Order struct {
	name  string
	steps stepWindow
	order float64
}

func NewOrder() *Order {
	return &Order{name: "order"}
}

func (o *Order) Name() string {
	return o.name
}

func (o *Order) Observe(it root.Iteration) {
	o.steps.push(it.Estimate)
	d1, d2, d3, ok := o.steps.lastThree()
	if !ok || d1 == 0 || d2 == 0 || d3 == 0 || d1 == d2 {
		return
	}
	q := math.Log(d3/d2) / math.Log(d2/d1)
	if !math.IsNaN(q) && !math.IsInf(q, 0) {
		o.order = q
	}
}

func (o *Order) Value() float64 {
	return o.order
}

func (o *Order) Reset() {
	o.steps = stepWindow{}
	o.order = 0
}
