package root

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain indicates a function was evaluated outside its domain.
	ErrDomain = errors.New("root: function undefined at iterate")

	// ErrNonConvergence indicates the tolerance was not met.
	ErrNonConvergence = errors.New("root: did not converge")

	// ErrFlatSlope indicates a secant or tangent with zero slope.
	ErrFlatSlope = errors.New("root: zero slope, update undefined")

	// ErrInvalidConfig indicates a bad tolerance, budget or missing function.
	ErrInvalidConfig = errors.New("root: invalid configuration")
)

// DomainError reports the iteration at which an evaluation failed.
type DomainError struct {
	Iteration int
	X         float64
	Err       error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("iteration %d (x=%g): %v", e.Iteration, e.X, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// NonConvergenceError carries why a solve stopped short of the tolerance.
type NonConvergenceError struct {
	Status     Status
	Iterations int
	RelError   float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("%v: %s after %d iterations (rel err %.3e)",
		ErrNonConvergence, e.Status, e.Iterations, e.RelError)
}

func (e *NonConvergenceError) Unwrap() error { return ErrNonConvergence }
