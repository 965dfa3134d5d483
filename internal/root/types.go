package root

import (
	"fmt"
	"math"
)

// Func is a scalar function. An error or a NaN result means x lies outside
// the function's domain.
type Func func(x float64) (float64, error)

// Real adapts a plain float function. NaN results surface as domain errors
// when the solver evaluates them.
func Real(fn func(float64) float64) Func {
	return func(x float64) (float64, error) {
		return fn(x), nil
	}
}

func (f Func) eval(x float64) (float64, error) {
	y, err := f(x)
	if err != nil {
		return y, err
	}
	if math.IsNaN(y) {
		return y, fmt.Errorf("%w: NaN", ErrDomain)
	}
	return y, nil
}

// Problem bundles the functions and starting points for a solve.
// G is used by fixed-point iteration, DF by Newton, X1 by secant.
type Problem struct {
	F  Func
	G  Func
	DF Func
	X0 float64
	X1 float64
}

// Iteration is one row of a trace.
type Iteration struct {
	Index    int     `json:"k"`
	Estimate float64 `json:"x"`
	Residual float64 `json:"fx"`
	RelError float64 `json:"rel_err"`
}

type Status int

const (
	Converged Status = iota
	Exhausted
	Diverged
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case Exhausted:
		return "iteration budget exhausted"
	case Diverged:
		return "iterate diverged"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

type Config struct {
	Tolerance     float64
	MaxIterations int
	RecordTrace   bool
}

func DefaultConfig() Config {
	return Config{
		Tolerance:     1e-5,
		MaxIterations: 100,
		RecordTrace:   true,
	}
}

// budget is the number of updates allowed; the loop always runs at least once.
func (c Config) budget() int {
	if c.MaxIterations < 1 {
		return 1
	}
	return c.MaxIterations
}

func (c Config) validate() error {
	if !(c.Tolerance > 0) || math.IsInf(c.Tolerance, 1) {
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidConfig, c.Tolerance)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations must not be negative, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}

type Result struct {
	Method     string
	Root       float64
	Iterations int
	RelError   float64
	Status     Status
	Trace      []Iteration
	Metrics    map[string]float64
}

func (r *Result) Converged() bool {
	return r != nil && r.Status == Converged
}

type Observer interface {
	OnIteration(it Iteration)
}

type Metric interface {
	Name() string
	Observe(it Iteration)
	Value() float64
	Reset()
}

// RelativeError is |cur-prev|/|cur|, falling back to |cur-prev| when cur is
// exactly zero.
func RelativeError(cur, prev float64) float64 {
	diff := math.Abs(cur - prev)
	if cur == 0 {
		return diff
	}
	return diff / math.Abs(cur)
}
