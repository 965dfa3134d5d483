package root

import (
	"fmt"

	"gonum.org/v1/gonum/diff/fd"
)

// Stepper is one update rule. Seed returns the (previous, current) pair the
// loop starts from; Next returns the estimate following cur.
type Stepper interface {
	Name() string
	Seed(p Problem) (prev, cur float64)
	Next(p Problem, prev, cur float64) (float64, error)
}

// FixedPointStepper iterates x = g(x).
type FixedPointStepper struct{}

func NewFixedPoint() *FixedPointStepper { return &FixedPointStepper{} }

func (s *FixedPointStepper) Name() string { return "fixed-point" }

// Seed uses x0+1 as the previous value so the first error is well defined.
func (s *FixedPointStepper) Seed(p Problem) (float64, float64) {
	return p.X0 + 1, p.X0
}

func (s *FixedPointStepper) Next(p Problem, prev, cur float64) (float64, error) {
	return p.G.eval(cur)
}

// SecantStepper replaces the tangent of Newton's method with the chord
// through the last two iterates.
type SecantStepper struct{}

func NewSecant() *SecantStepper { return &SecantStepper{} }

func (s *SecantStepper) Name() string { return "secant" }

func (s *SecantStepper) Seed(p Problem) (float64, float64) {
	if p.X1 == p.X0 {
		return p.X0, p.X0 + 1
	}
	return p.X0, p.X1
}

func (s *SecantStepper) Next(p Problem, prev, cur float64) (float64, error) {
	fc, err := p.F.eval(cur)
	if err != nil {
		return 0, err
	}
	fp, err := p.F.eval(prev)
	if err != nil {
		return 0, err
	}
	denom := fc - fp
	if denom == 0 {
		return 0, fmt.Errorf("%w: f(%g) == f(%g)", ErrFlatSlope, cur, prev)
	}
	return cur - fc*(cur-prev)/denom, nil
}

// NewtonStepper follows the tangent at the current iterate. Without an
// explicit derivative it differentiates F numerically.
type NewtonStepper struct {
	settings *fd.Settings
}

func NewNewton() *NewtonStepper {
	return &NewtonStepper{
		settings: &fd.Settings{Formula: fd.Central},
	}
}

func (s *NewtonStepper) Name() string { return "newton" }

func (s *NewtonStepper) Seed(p Problem) (float64, float64) {
	return p.X0 + 1, p.X0
}

func (s *NewtonStepper) Next(p Problem, prev, cur float64) (float64, error) {
	fc, err := p.F.eval(cur)
	if err != nil {
		return 0, err
	}
	var slope float64
	if p.DF != nil {
		slope, err = p.DF.eval(cur)
	} else {
		slope, err = s.numericSlope(p.F, cur)
	}
	if err != nil {
		return 0, err
	}
	if slope == 0 {
		return 0, fmt.Errorf("%w: f'(%g) == 0", ErrFlatSlope, cur)
	}
	return cur - fc/slope, nil
}

func (s *NewtonStepper) numericSlope(f Func, x float64) (float64, error) {
	var evalErr error
	d := fd.Derivative(func(v float64) float64 {
		y, err := f.eval(v)
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return y
	}, x, s.settings)
	if evalErr != nil {
		return 0, evalErr
	}
	return d, nil
}

func requires(st Stepper, p Problem) error {
	if p.F == nil {
		return fmt.Errorf("%w: equation f is nil", ErrInvalidConfig)
	}
	if _, ok := st.(*FixedPointStepper); ok && p.G == nil {
		return fmt.Errorf("%w: iteration rule g is nil", ErrInvalidConfig)
	}
	return nil
}
