package root

import "math"

// Iterator runs the stopping loop one update at a time. Use it like a
// bufio.Scanner:
//
//	for it.Next() {
//		row := it.Iteration()
//	}
//	res, err := it.Result()
type Iterator struct {
	stepper Stepper
	problem Problem
	cfg     Config

	k      int
	prev   float64
	cur    float64
	relErr float64
	last   Iteration
	trace  []Iteration

	status Status
	done   bool
	failed bool
	err    error
}

func NewIterator(st Stepper, p Problem, cfg Config) (*Iterator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := requires(st, p); err != nil {
		return nil, err
	}

	prev, cur := st.Seed(p)
	it := &Iterator{
		stepper: st,
		problem: p,
		cfg:     cfg,
		prev:    prev,
		cur:     cur,
		relErr:  RelativeError(cur, prev),
		status:  Exhausted,
	}
	if cfg.RecordTrace {
		it.trace = make([]Iteration, 0, min(cfg.budget(), 64))
	}
	return it, nil
}

// Next performs one update. It returns false once the loop has terminated,
// after which Result reports the outcome.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}

	it.k++
	next, err := it.stepper.Next(it.problem, it.prev, it.cur)
	if err != nil {
		it.fail(err, it.cur)
		return false
	}
	it.prev, it.cur = it.cur, next

	if math.IsInf(next, 0) {
		fx, err := it.problem.F.eval(next)
		if err != nil {
			fx = math.NaN()
		}
		it.relErr = math.Inf(1)
		it.emit(Iteration{Index: it.k, Estimate: next, Residual: fx, RelError: it.relErr})
		it.finish(Diverged)
		return true
	}

	it.relErr = RelativeError(it.cur, it.prev)
	fx, err := it.problem.F.eval(it.cur)
	if err != nil {
		it.fail(err, it.cur)
		return false
	}
	it.emit(Iteration{Index: it.k, Estimate: it.cur, Residual: fx, RelError: it.relErr})

	switch {
	case it.relErr < it.cfg.Tolerance:
		it.finish(Converged)
	case it.k >= it.cfg.budget():
		it.finish(Exhausted)
	}
	return true
}

// Iteration returns the row produced by the most recent successful Next.
func (it *Iterator) Iteration() Iteration { return it.last }

func (it *Iterator) Done() bool { return it.done }

func (it *Iterator) Count() int { return it.k }

// Result returns the outcome. A domain failure yields a nil result.
func (it *Iterator) Result() (*Result, error) {
	if it.failed {
		return nil, it.err
	}
	res := &Result{
		Method:     it.stepper.Name(),
		Root:       it.cur,
		Iterations: it.k,
		RelError:   it.relErr,
		Status:     it.status,
		Trace:      it.trace,
	}
	return res, it.err
}

func (it *Iterator) emit(row Iteration) {
	it.last = row
	if it.cfg.RecordTrace {
		it.trace = append(it.trace, row)
	}
}

func (it *Iterator) finish(s Status) {
	it.status = s
	it.done = true
	if s != Converged {
		it.err = &NonConvergenceError{Status: s, Iterations: it.k, RelError: it.relErr}
	}
}

func (it *Iterator) fail(err error, x float64) {
	it.done = true
	it.failed = true
	it.err = &DomainError{Iteration: it.k, X: x, Err: err}
}
