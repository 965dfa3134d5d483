package metrics

import (
	"math"

	"github.com/san-kum/rootlab/internal/root"
)

// ResidualDecay is |f(x_last)| / |f(x_first)|.
type ResidualDecay struct {
	name    string
	first   float64
	last    float64
	samples int
}

func NewResidualDecay() *ResidualDecay {
	return &ResidualDecay{name: "residual_decay"}
}

func (r *ResidualDecay) Name() string {
	return r.name
}

func (r *ResidualDecay) Observe(it root.Iteration) {
	if r.samples == 0 {
		r.first = math.Abs(it.Residual)
	}
	r.last = math.Abs(it.Residual)
	r.samples++
}

func (r *ResidualDecay) Value() float64 {
	if r.samples == 0 || r.first == 0 {
		return 0
	}
	return r.last / r.first
}

func (r *ResidualDecay) Reset() {
	r.first = 0
	r.last = 0
	r.samples = 0
}
