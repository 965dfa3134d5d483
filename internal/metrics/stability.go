package metrics

import (
	"math"

	"github.com/san-kum/rootlab/internal/root"
)

// DefaultBound is the magnitude past which an iterate counts as escaped.
const DefaultBound = 1e6

// Stability is the fraction of iterates that stayed finite and within
// bound. A runaway sequence scores below 1 long before it overflows.
type Stability struct {
	name       string
	bound      float64
	violations int
	samples    int
}

func NewStability(bound float64) *Stability {
	return &Stability{
		name:  "stability",
		bound: bound,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(it root.Iteration) {
	s.samples++
	if math.IsNaN(it.Estimate) || math.Abs(it.Estimate) > s.bound {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
