// Package root provides iterative root finders for scalar equations.
//
// The package defines the primitives shared by every method:
//
//   - [Func]: a scalar function that may fail outside its domain
//   - [Stepper]: one update rule (fixed-point, secant, Newton)
//   - [Iterator]: the stopping loop, one update at a time
//   - [Solver]: runs an Iterator to completion and feeds observers
//
// # Example
//
//	f := root.Real(func(x float64) float64 { return x*x + x - 6 })
//	g := root.Real(func(x float64) float64 { return math.Sqrt(6 - x) })
//	res, err := root.FixedPoint(0.1, f, g, root.DefaultConfig())
//
// # Termination
//
// A solve ends in one of three ways. Convergence returns a nil error.
// An exhausted budget or an overflowing iterate returns the last estimate
// together with an error matching [ErrNonConvergence]. A failed evaluation
// returns a nil result and a [*DomainError].
//
// # Thread Safety
//
// Solves keep all state local to the call. Independent solves may run in
// parallel; see [Batch].
package root
